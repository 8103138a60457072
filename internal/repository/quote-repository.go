package repository

import (
	"context"
	"database/sql"
	"time"

	"astroline/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type QuoteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewQuoteRepository(db *sql.DB, logger *zap.Logger) *QuoteRepository {
	return &QuoteRepository{
		db:     db,
		logger: logger,
	}
}

// FreshQuote picks a uniformly random quote the user has not seen
// within the cooldown window. Returns nil when every quote is still
// cooling down (or the pool is empty).
func (r *QuoteRepository) FreshQuote(ctx context.Context, telegramID int64, cooldown time.Duration, now time.Time) (*domain.Quote, error) {
	query := `
		SELECT id, text FROM quotes
		WHERE text NOT IN (
			SELECT quote FROM user_quote_history
			WHERE telegram_id = ? AND used_at > ?
		)
		ORDER BY RANDOM()
		LIMIT 1`

	cutoff := now.Add(-cooldown)

	quote := &domain.Quote{}
	err := r.db.QueryRowContext(ctx, query, telegramID, cutoff).Scan(&quote.ID, &quote.Text)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to select fresh quote", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return nil, storageErr("failed to select fresh quote", err)
	}

	return quote, nil
}

// RandomQuote picks a uniformly random quote ignoring recency. Returns
// nil when the pool is empty.
func (r *QuoteRepository) RandomQuote(ctx context.Context) (*domain.Quote, error) {
	query := `SELECT id, text FROM quotes ORDER BY RANDOM() LIMIT 1`

	quote := &domain.Quote{}
	err := r.db.QueryRowContext(ctx, query).Scan(&quote.ID, &quote.Text)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to select random quote", zap.Error(err))
		return nil, storageErr("failed to select random quote", err)
	}

	return quote, nil
}

// RecordUse appends one ledger entry marking that the user has seen the
// quote
func (r *QuoteRepository) RecordUse(ctx context.Context, telegramID int64, quoteText string, now time.Time) error {
	query := `INSERT INTO user_quote_history (id, telegram_id, quote, used_at) VALUES (?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, uuid.New().String(), telegramID, quoteText, now); err != nil {
		r.logger.Error("Failed to record quote use", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return storageErr("failed to record quote use", err)
	}

	return nil
}

// ClearUserHistory removes only this user's ledger entries, restarting
// their rotation
func (r *QuoteRepository) ClearUserHistory(ctx context.Context, telegramID int64) error {
	query := `DELETE FROM user_quote_history WHERE telegram_id = ?`

	if _, err := r.db.ExecContext(ctx, query, telegramID); err != nil {
		r.logger.Error("Failed to clear quote history", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return storageErr("failed to clear quote history", err)
	}

	return nil
}

// CountQuotes returns the size of the shared quote pool
func (r *QuoteRepository) CountQuotes(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM quotes").Scan(&count); err != nil {
		return 0, storageErr("failed to count quotes", err)
	}
	return count, nil
}
