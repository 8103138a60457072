package repository

import (
	"context"
	"database/sql"

	"astroline/internal/domain"

	"go.uber.org/zap"
)

type TarotRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewTarotRepository(db *sql.DB, logger *zap.Logger) *TarotRepository {
	return &TarotRepository{
		db:     db,
		logger: logger,
	}
}

// ListDeck returns the full tarot deck
func (r *TarotRepository) ListDeck(ctx context.Context) ([]domain.TarotCard, error) {
	query := `SELECT id, name, meaning FROM tarot_cards ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list tarot deck", zap.Error(err))
		return nil, storageErr("failed to list tarot deck", err)
	}
	defer rows.Close()

	var deck []domain.TarotCard
	for rows.Next() {
		var card domain.TarotCard
		if err := rows.Scan(&card.ID, &card.Name, &card.Meaning); err != nil {
			r.logger.Error("Failed to scan tarot card", zap.Error(err))
			continue
		}
		deck = append(deck, card)
	}

	return deck, nil
}

// CountCards returns the deck size
func (r *TarotRepository) CountCards(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tarot_cards").Scan(&count); err != nil {
		return 0, storageErr("failed to count tarot cards", err)
	}
	return count, nil
}
