package service

import (
	"context"
	"fmt"
	"strings"

	"astroline/internal/domain"

	"go.uber.org/zap"
)

// GenerateTarotReading draws a three-card spread for the user, biased
// away from cards seen in previous draws. An empty deck returns the
// fixed message without touching any state.
func (s *Service) GenerateTarotReading(ctx context.Context, telegramID int64, topic, sign string) (string, error) {
	if topic == "" {
		topic = domain.DefaultTarotTopic
	}

	lock := s.userLock(telegramID)
	lock.Lock()
	defer lock.Unlock()

	deck, err := s.tarot.ListDeck(ctx)
	if err != nil {
		return "", err
	}
	if len(deck) == 0 {
		return domain.MsgEmptyDeck, nil
	}

	history, err := s.users.GetTarotHistory(ctx, telegramID)
	if err != nil {
		return "", err
	}

	drawn := s.drawCards(deck, history)
	pools := s.library.Pools()
	styles := s.sampleStrings(pools.TarotStyles, len(drawn))

	// A draw count above the style pool cannot assign distinct styles;
	// the spread shrinks to what the pool covers
	if len(drawn) > len(styles) {
		drawn = drawn[:len(styles)]
	}

	spread := make([]domain.DrawnCard, 0, len(drawn))
	for i, card := range drawn {
		position := ""
		if i < len(pools.TarotPositions) {
			position = pools.TarotPositions[i]
		}
		spread = append(spread, domain.DrawnCard{
			Card:     card,
			Position: position,
			Style:    styles[i],
		})
	}

	names := make([]string, 0, len(spread))
	blocks := make([]string, 0, len(spread))
	for _, dc := range spread {
		blocks = append(blocks, buildCardInterpretation(dc, topic, sign, pools.TarotBridges))
		names = append(names, dc.Card.Name)
	}

	intro := s.pick(pools.TarotIntros)
	text := fmt.Sprintf("%s «%s»:\n\n%s", intro, topic, strings.Join(blocks, "\n\n"))

	if err := s.users.AppendTarotHistory(ctx, telegramID, names); err != nil {
		return "", err
	}

	s.logger.Info("Tarot reading generated",
		zap.Int64("telegram_id", telegramID),
		zap.Strings("cards", names),
	)

	return text, nil
}

// drawCards samples distinct cards, preferring ones absent from the
// user's history. When fewer fresh cards remain than the draw size the
// full deck is used for this draw; the history itself is kept.
func (s *Service) drawCards(deck []domain.TarotCard, history [][]string) []domain.TarotCard {
	seen := make(map[string]struct{})
	for _, entry := range history {
		for _, name := range entry {
			seen[name] = struct{}{}
		}
	}

	fresh := make([]domain.TarotCard, 0, len(deck))
	for _, card := range deck {
		if _, ok := seen[card.Name]; !ok {
			fresh = append(fresh, card)
		}
	}

	source := fresh
	if len(fresh) < s.drawCount {
		source = deck
	}

	count := s.drawCount
	if count > len(source) {
		count = len(source)
	}

	idx := s.perm(len(source))[:count]
	drawn := make([]domain.TarotCard, 0, count)
	for _, i := range idx {
		drawn = append(drawn, source[i])
	}
	return drawn
}

// buildCardInterpretation renders one card block: position, topic, an
// optional sign line and the style-bridged meaning
func buildCardInterpretation(dc domain.DrawnCard, topic, sign string, bridges map[string]string) string {
	bridge, ok := bridges[dc.Style]
	if !ok {
		bridge = "Суть в том, что:"
	}

	lines := []string{
		fmt.Sprintf("%s: %s.", dc.Position, dc.Card.Name),
		fmt.Sprintf("Тема расклада — %s.", strings.ToLower(topic)),
	}
	if sign != "" {
		lines = append(lines, fmt.Sprintf("Ты сейчас как %s, который учится видеть глубже привычного.", sign))
	}
	lines = append(lines, fmt.Sprintf("%s %s", bridge, dc.Card.Meaning))

	return strings.Join(lines, "\n")
}
