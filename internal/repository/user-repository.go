package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"astroline/internal/domain"

	"go.uber.org/zap"
)

type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewUserRepository(db *sql.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureUser creates the user row if it does not exist yet. Existing
// rows are never touched.
func (r *UserRepository) EnsureUser(ctx context.Context, telegramID int64) error {
	query := `
		INSERT OR IGNORE INTO users (telegram_id, subscription_status, used_combos, tarot_history)
		VALUES (?, 'free', '[]', '[]')`

	if _, err := r.db.ExecContext(ctx, query, telegramID); err != nil {
		r.logger.Error("Failed to ensure user", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return storageErr("failed to ensure user", err)
	}

	return nil
}

// GetUser retrieves the full user record. Returns nil when the user
// does not exist.
func (r *UserRepository) GetUser(ctx context.Context, telegramID int64) (*domain.User, error) {
	query := `
		SELECT telegram_id, sign, subscription_status, last_generation,
			   used_combos, tarot_history, created_at, updated_at
		FROM users
		WHERE telegram_id = ?`

	user := &domain.User{}
	var sign sql.NullString
	var lastGeneration sql.NullTime
	var usedCombos, tarotHistory string

	err := r.db.QueryRowContext(ctx, query, telegramID).Scan(
		&user.TelegramID, &sign, &user.SubscriptionStatus, &lastGeneration,
		&usedCombos, &tarotHistory, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get user", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return nil, storageErr("failed to get user", err)
	}

	if sign.Valid && sign.String != "" {
		user.Sign = &sign.String
	}
	if lastGeneration.Valid {
		user.LastGeneration = &lastGeneration.Time
	}

	user.UsedCombos = decodeStringList(usedCombos)
	user.TarotHistory = decodeHistory(tarotHistory)

	return user, nil
}

// SetSign stores the user's zodiac sign, creating the row if needed
func (r *UserRepository) SetSign(ctx context.Context, telegramID int64, sign string) error {
	if err := r.EnsureUser(ctx, telegramID); err != nil {
		return err
	}

	query := `UPDATE users SET sign = ? WHERE telegram_id = ?`

	if _, err := r.db.ExecContext(ctx, query, sign, telegramID); err != nil {
		r.logger.Error("Failed to set user sign", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return storageErr("failed to set user sign", err)
	}

	return nil
}

// GetSign returns the user's sign, or an empty string when the user has
// no sign or does not exist
func (r *UserRepository) GetSign(ctx context.Context, telegramID int64) (string, error) {
	query := `SELECT sign FROM users WHERE telegram_id = ?`

	var sign sql.NullString
	err := r.db.QueryRowContext(ctx, query, telegramID).Scan(&sign)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		r.logger.Error("Failed to get user sign", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return "", storageErr("failed to get user sign", err)
	}

	if !sign.Valid {
		return "", nil
	}
	return sign.String, nil
}

// UpdateSubscription sets the user's subscription status
func (r *UserRepository) UpdateSubscription(ctx context.Context, telegramID int64, status string) error {
	if err := r.EnsureUser(ctx, telegramID); err != nil {
		return err
	}

	query := `UPDATE users SET subscription_status = ? WHERE telegram_id = ?`

	if _, err := r.db.ExecContext(ctx, query, status, telegramID); err != nil {
		r.logger.Error("Failed to update subscription", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return storageErr("failed to update subscription", err)
	}

	return nil
}

// GetLastGeneration returns the last horoscope generation time, or nil
// when the user has never generated one
func (r *UserRepository) GetLastGeneration(ctx context.Context, telegramID int64) (*time.Time, error) {
	query := `SELECT last_generation FROM users WHERE telegram_id = ?`

	var last sql.NullTime
	err := r.db.QueryRowContext(ctx, query, telegramID).Scan(&last)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get last generation time", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return nil, storageErr("failed to get last generation time", err)
	}

	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}

// SetLastGeneration records the moment a horoscope was produced
func (r *UserRepository) SetLastGeneration(ctx context.Context, telegramID int64, t time.Time) error {
	if err := r.EnsureUser(ctx, telegramID); err != nil {
		return err
	}

	query := `UPDATE users SET last_generation = ? WHERE telegram_id = ?`

	if _, err := r.db.ExecContext(ctx, query, t, telegramID); err != nil {
		r.logger.Error("Failed to set last generation time", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return storageErr("failed to set last generation time", err)
	}

	return nil
}

// GetUsedCombos returns the user's previously served theme|style keys.
// Malformed persisted data reads as an empty list.
func (r *UserRepository) GetUsedCombos(ctx context.Context, telegramID int64) ([]string, error) {
	query := `SELECT used_combos FROM users WHERE telegram_id = ?`

	var raw sql.NullString
	err := r.db.QueryRowContext(ctx, query, telegramID).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get used combinations", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return nil, storageErr("failed to get used combinations", err)
	}

	if !raw.Valid {
		return nil, nil
	}
	return decodeStringList(raw.String), nil
}

// SaveUsedCombo appends one combination key to the user's set. The key
// is skipped if already present.
func (r *UserRepository) SaveUsedCombo(ctx context.Context, telegramID int64, key string) error {
	if err := r.EnsureUser(ctx, telegramID); err != nil {
		return err
	}

	combos, err := r.GetUsedCombos(ctx, telegramID)
	if err != nil {
		return err
	}

	for _, existing := range combos {
		if existing == key {
			return nil
		}
	}
	combos = append(combos, key)

	encoded, err := json.Marshal(combos)
	if err != nil {
		return storageErr("failed to encode used combinations", err)
	}

	query := `UPDATE users SET used_combos = ? WHERE telegram_id = ?`

	if _, err := r.db.ExecContext(ctx, query, string(encoded), telegramID); err != nil {
		r.logger.Error("Failed to save used combination", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return storageErr("failed to save used combination", err)
	}

	return nil
}

// GetTarotHistory returns the user's previous draws, newest last.
// Malformed persisted data reads as an empty history.
func (r *UserRepository) GetTarotHistory(ctx context.Context, telegramID int64) ([][]string, error) {
	query := `SELECT tarot_history FROM users WHERE telegram_id = ?`

	var raw sql.NullString
	err := r.db.QueryRowContext(ctx, query, telegramID).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get tarot history", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return nil, storageErr("failed to get tarot history", err)
	}

	if !raw.Valid {
		return nil, nil
	}
	return decodeHistory(raw.String), nil
}

// AppendTarotHistory stores the card names of one draw as a new history
// entry
func (r *UserRepository) AppendTarotHistory(ctx context.Context, telegramID int64, cardNames []string) error {
	if err := r.EnsureUser(ctx, telegramID); err != nil {
		return err
	}

	history, err := r.GetTarotHistory(ctx, telegramID)
	if err != nil {
		return err
	}
	history = append(history, cardNames)

	encoded, err := json.Marshal(history)
	if err != nil {
		return storageErr("failed to encode tarot history", err)
	}

	query := `UPDATE users SET tarot_history = ? WHERE telegram_id = ?`

	if _, err := r.db.ExecContext(ctx, query, string(encoded), telegramID); err != nil {
		r.logger.Error("Failed to append tarot history", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return storageErr("failed to append tarot history", err)
	}

	return nil
}

// ListUsersWithSign returns every user who has picked a sign, for the
// daily mailing
func (r *UserRepository) ListUsersWithSign(ctx context.Context) ([]domain.BroadcastTarget, error) {
	query := `SELECT telegram_id, sign FROM users WHERE sign IS NOT NULL AND sign != ''`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list users with sign", zap.Error(err))
		return nil, storageErr("failed to list users with sign", err)
	}
	defer rows.Close()

	var targets []domain.BroadcastTarget
	for rows.Next() {
		var target domain.BroadcastTarget
		if err := rows.Scan(&target.TelegramID, &target.Sign); err != nil {
			r.logger.Error("Failed to scan broadcast target", zap.Error(err))
			continue
		}
		targets = append(targets, target)
	}

	return targets, nil
}

// ListInactiveSubscribers returns users whose subscription has lapsed
func (r *UserRepository) ListInactiveSubscribers(ctx context.Context) ([]int64, error) {
	query := `SELECT telegram_id FROM users WHERE subscription_status = ?`

	rows, err := r.db.QueryContext(ctx, query, domain.SubscriptionInactive)
	if err != nil {
		r.logger.Error("Failed to list inactive subscribers", zap.Error(err))
		return nil, storageErr("failed to list inactive subscribers", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			r.logger.Error("Failed to scan subscriber id", zap.Error(err))
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// CountUsers returns the total number of user rows
func (r *UserRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, storageErr("failed to count users", err)
	}
	return count, nil
}

// decodeStringList parses a persisted JSON string array; corrupt data
// degrades to empty rather than failing the request
func decodeStringList(raw string) []string {
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return list
}

// decodeHistory parses a persisted JSON array of card-name lists;
// corrupt data degrades to empty
func decodeHistory(raw string) [][]string {
	var history [][]string
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil
	}
	return history
}
