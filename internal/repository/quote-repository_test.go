package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"astroline/traits/database"
)

// newTestDB opens an in-memory sqlite database with the real schema.
// A single connection keeps every query on the same in-memory store.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.CreateTables(db, zap.NewNop()))
	return db
}

func insertQuotes(t *testing.T, db *sql.DB, texts ...string) {
	t.Helper()
	for _, text := range texts {
		_, err := db.Exec("INSERT INTO quotes (id, text) VALUES (?, ?)", database.GenerateUUID(), text)
		require.NoError(t, err)
	}
}

func TestFreshQuoteExcludesRecentUse(t *testing.T) {
	db := newTestDB(t)
	insertQuotes(t, db, "первая", "вторая")
	repo := NewQuoteRepository(db, zap.NewNop())
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordUse(ctx, 1, "первая", now))

	// The recently used quote must never come back within the window
	for i := 0; i < 10; i++ {
		quote, err := repo.FreshQuote(ctx, 1, 48*time.Hour, now)
		require.NoError(t, err)
		require.NotNil(t, quote)
		assert.Equal(t, "вторая", quote.Text)
	}
}

func TestFreshQuoteCooldownIsPerUser(t *testing.T) {
	db := newTestDB(t)
	insertQuotes(t, db, "единственная")
	repo := NewQuoteRepository(db, zap.NewNop())
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordUse(ctx, 1, "единственная", now))

	// User 1 is exhausted, user 2 is untouched
	quote, err := repo.FreshQuote(ctx, 1, 48*time.Hour, now)
	require.NoError(t, err)
	assert.Nil(t, quote)

	quote, err = repo.FreshQuote(ctx, 2, 48*time.Hour, now)
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, "единственная", quote.Text)
}

func TestFreshQuoteCooldownLapses(t *testing.T) {
	db := newTestDB(t)
	insertQuotes(t, db, "единственная")
	repo := NewQuoteRepository(db, zap.NewNop())
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordUse(ctx, 1, "единственная", now))

	quote, err := repo.FreshQuote(ctx, 1, 48*time.Hour, now.Add(47*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, quote, "still cooling down an hour before the window ends")

	quote, err = repo.FreshQuote(ctx, 1, 48*time.Hour, now.Add(49*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, quote, "the ledger entry lapses after the window")
	assert.Equal(t, "единственная", quote.Text)
}

func TestClearUserHistoryRestoresEligibility(t *testing.T) {
	db := newTestDB(t)
	insertQuotes(t, db, "первая", "вторая")
	repo := NewQuoteRepository(db, zap.NewNop())
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordUse(ctx, 1, "первая", now))
	require.NoError(t, repo.RecordUse(ctx, 1, "вторая", now))
	require.NoError(t, repo.RecordUse(ctx, 2, "первая", now))

	quote, err := repo.FreshQuote(ctx, 1, 48*time.Hour, now)
	require.NoError(t, err)
	require.Nil(t, quote)

	require.NoError(t, repo.ClearUserHistory(ctx, 1))

	quote, err = repo.FreshQuote(ctx, 1, 48*time.Hour, now)
	require.NoError(t, err)
	assert.NotNil(t, quote, "clearing the ledger restarts the rotation")

	// Other users keep their ledger rows
	var remaining int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM user_quote_history WHERE telegram_id = 2").Scan(&remaining))
	assert.Equal(t, 1, remaining)
}

func TestFreshQuoteEmptyPool(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuoteRepository(db, zap.NewNop())

	quote, err := repo.FreshQuote(context.Background(), 1, 48*time.Hour, time.Now())
	require.NoError(t, err)
	assert.Nil(t, quote)

	quote, err = repo.RandomQuote(context.Background())
	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestRecordUseAppendsLedgerRows(t *testing.T) {
	db := newTestDB(t)
	insertQuotes(t, db, "первая")
	repo := NewQuoteRepository(db, zap.NewNop())
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordUse(ctx, 1, "первая", now))
	require.NoError(t, repo.RecordUse(ctx, 1, "первая", now.Add(72*time.Hour)))

	var rows int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM user_quote_history WHERE telegram_id = 1").Scan(&rows))
	assert.Equal(t, 2, rows, "the ledger is append-only, repeats get their own row")
}
