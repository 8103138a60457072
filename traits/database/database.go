package database

import (
	"database/sql"
	"os"

	"astroline/config"
	"astroline/internal/content"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InitDatabase initializes the SQLite database
func InitDatabase(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DBPath, 0755); err != nil {
		return nil, err
	}

	// Open database connection
	db, err := sql.Open("sqlite3", cfg.GetDatabasePath()+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database initialized successfully",
		zap.String("path", cfg.GetDatabasePath()),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return db, nil
}

// GenerateUUID generates a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}

// CreateTables creates the users, quotes, user_quote_history and
// tarot_cards tables together with their indexes and triggers
func CreateTables(db *sql.DB, logger *zap.Logger) error {
	usersTable := `
		CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			sign TEXT NULL,
			subscription_status TEXT DEFAULT 'free' CHECK (subscription_status IN ('free', 'active', 'inactive')),
			last_generation DATETIME NULL,
			used_combos TEXT DEFAULT '[]',
			tarot_history TEXT DEFAULT '[]',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`

	quotesTable := `
		CREATE TABLE IF NOT EXISTS quotes (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`

	// Append-only per-user usage ledger for the quote cooldown
	quoteHistoryTable := `
		CREATE TABLE IF NOT EXISTS user_quote_history (
			id TEXT PRIMARY KEY,
			telegram_id BIGINT NOT NULL,
			quote TEXT NOT NULL,
			used_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`

	tarotCardsTable := `
		CREATE TABLE IF NOT EXISTS tarot_cards (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			meaning TEXT NOT NULL
		);`

	tables := []struct {
		name string
		sql  string
	}{
		{"users", usersTable},
		{"quotes", quotesTable},
		{"user_quote_history", quoteHistoryTable},
		{"tarot_cards", tarotCardsTable},
	}

	for _, table := range tables {
		// Check if table exists
		var tableCount int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table.name).Scan(&tableCount)
		if err != nil {
			logger.Error("Failed to check table existence", zap.String("table", table.name), zap.Error(err))
			return err
		}

		if tableCount == 0 {
			if _, err := db.Exec(table.sql); err != nil {
				logger.Error("Failed to create table", zap.String("table", table.name), zap.Error(err))
				return err
			}
			logger.Info("Table created successfully", zap.String("table", table.name))
		} else {
			logger.Info("Table exists, checking for missing columns", zap.String("table", table.name))

			// Older databases may predate some user columns
			if table.name == "users" {
				columnsToAdd := []struct {
					name string
					sql  string
				}{
					{"last_generation", "ALTER TABLE users ADD COLUMN last_generation DATETIME NULL;"},
					{"used_combos", "ALTER TABLE users ADD COLUMN used_combos TEXT DEFAULT '[]';"},
					{"tarot_history", "ALTER TABLE users ADD COLUMN tarot_history TEXT DEFAULT '[]';"},
				}

				for _, col := range columnsToAdd {
					if _, err := db.Exec(col.sql); err != nil {
						// Column might already exist, that's okay
						logger.Debug("Column might already exist",
							zap.String("table", table.name),
							zap.String("column", col.name),
							zap.Error(err))
					} else {
						logger.Info("Added missing column",
							zap.String("table", table.name),
							zap.String("column", col.name))
					}
				}
			}
		}
	}

	indexes := []struct {
		name string
		sql  string
	}{
		{
			name: "idx_users_sign",
			sql:  "CREATE INDEX IF NOT EXISTS idx_users_sign ON users(sign);",
		},
		{
			name: "idx_users_subscription",
			sql:  "CREATE INDEX IF NOT EXISTS idx_users_subscription ON users(subscription_status);",
		},
		{
			name: "idx_quote_history_user",
			sql:  "CREATE INDEX IF NOT EXISTS idx_quote_history_user ON user_quote_history(telegram_id);",
		},
		{
			name: "idx_quote_history_user_used_at",
			sql:  "CREATE INDEX IF NOT EXISTS idx_quote_history_user_used_at ON user_quote_history(telegram_id, used_at);",
		},
	}

	for _, index := range indexes {
		if _, err := db.Exec(index.sql); err != nil {
			logger.Warn("Failed to create index",
				zap.String("index", index.name),
				zap.Error(err),
			)
		} else {
			logger.Info("Index created/verified", zap.String("index", index.name))
		}
	}

	trigger := `
		CREATE TRIGGER IF NOT EXISTS trigger_users_updated_at
		AFTER UPDATE ON users
		BEGIN
			UPDATE users SET updated_at = CURRENT_TIMESTAMP WHERE telegram_id = NEW.telegram_id;
		END;`

	if _, err := db.Exec(trigger); err != nil {
		logger.Warn("Failed to create trigger",
			zap.String("trigger", "trigger_users_updated_at"),
			zap.Error(err))
	} else {
		logger.Info("Trigger created/verified", zap.String("trigger", "trigger_users_updated_at"))
	}

	logger.Info("Database schema created successfully")
	return nil
}

// SeedContent fills empty quote and tarot card tables from the content
// pools so a fresh installation is usable immediately. Non-empty tables
// are left untouched.
func SeedContent(db *sql.DB, pools *content.Pools, logger *zap.Logger) error {
	var quoteCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM quotes").Scan(&quoteCount); err != nil {
		logger.Error("Failed to count quotes", zap.Error(err))
		return err
	}

	if quoteCount == 0 {
		for _, text := range pools.SeedQuotes {
			if _, err := db.Exec("INSERT INTO quotes (id, text) VALUES (?, ?)", GenerateUUID(), text); err != nil {
				logger.Error("Failed to seed quote", zap.Error(err))
				return err
			}
		}
		logger.Info("Seeded quote pool", zap.Int("count", len(pools.SeedQuotes)))
	}

	var cardCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM tarot_cards").Scan(&cardCount); err != nil {
		logger.Error("Failed to count tarot cards", zap.Error(err))
		return err
	}

	if cardCount == 0 {
		for _, card := range pools.SeedCards {
			if _, err := db.Exec("INSERT INTO tarot_cards (id, name, meaning) VALUES (?, ?, ?)",
				GenerateUUID(), card.Name, card.Meaning); err != nil {
				logger.Error("Failed to seed tarot card", zap.String("card", card.Name), zap.Error(err))
				return err
			}
		}
		logger.Info("Seeded tarot deck", zap.Int("count", len(pools.SeedCards)))
	}

	return nil
}
