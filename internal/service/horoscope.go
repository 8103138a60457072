package service

import (
	"context"
	"fmt"
	"strings"

	"astroline/internal/domain"

	"go.uber.org/zap"
)

// GenerateHoroscope produces the personalized daily text for the user.
// If the temporal gate denies, the fixed cooldown message is returned
// and nothing is mutated. Otherwise every selection is computed first
// and the state writes (combination key, quote ledger entry, gate
// timestamp) are committed only after the text is assembled.
func (s *Service) GenerateHoroscope(ctx context.Context, telegramID int64, sign string) (string, error) {
	lock := s.userLock(telegramID)
	lock.Lock()
	defer lock.Unlock()

	last, err := s.users.GetLastGeneration(ctx, telegramID)
	if err != nil {
		return "", err
	}
	if last != nil && s.now().Sub(*last) < s.cooldown {
		return domain.MsgDailyLimit, nil
	}

	pools := s.library.Pools()

	theme, style, comboKey, err := s.selectCombination(ctx, telegramID, pools.ThemeNames, pools.StyleNames)
	if err != nil {
		return "", err
	}

	intro := fmt.Sprintf(s.pick(pools.Intros), sign)
	themeLine := s.pick(pools.Themes[theme])
	styleLine := s.pick(pools.Styles[style])
	symbol := s.pick(pools.Symbols)
	ending := s.pick(pools.Endings)

	quote, recordQuote, err := s.nextQuote(ctx, telegramID)
	if err != nil {
		return "", err
	}

	text := strings.Join([]string{
		intro,
		themeLine,
		styleLine,
		"",
		fmt.Sprintf("Символ дня: %s.", symbol),
		fmt.Sprintf("Мысль дня: «%s»", quote),
		"",
		ending,
	}, "\n")

	// Commit phase: the gate cannot have changed, the user lock is held
	if comboKey != "" {
		if err := s.users.SaveUsedCombo(ctx, telegramID, comboKey); err != nil {
			return "", err
		}
	}
	if recordQuote {
		if err := s.quotes.RecordUse(ctx, telegramID, quote, s.now()); err != nil {
			return "", err
		}
	}
	if err := s.users.SetLastGeneration(ctx, telegramID, s.now()); err != nil {
		return "", err
	}

	s.logger.Info("Horoscope generated",
		zap.Int64("telegram_id", telegramID),
		zap.String("sign", sign),
		zap.String("theme", theme),
		zap.String("style", style),
	)

	return text, nil
}

// selectCombination samples theme and style pairs until it finds a key
// the user has not seen, bounded by the attempt budget. When the budget
// runs out it degrades to a repeat: the pair is still served but the
// returned key is empty so nothing gets recorded.
func (s *Service) selectCombination(ctx context.Context, telegramID int64, themes, styles []string) (theme, style, key string, err error) {
	used, err := s.users.GetUsedCombos(ctx, telegramID)
	if err != nil {
		return "", "", "", err
	}

	usedSet := make(map[string]struct{}, len(used))
	for _, k := range used {
		usedSet[k] = struct{}{}
	}

	for attempt := 0; attempt < s.comboAttempts; attempt++ {
		candidateTheme := s.pick(themes)
		candidateStyle := s.pick(styles)
		candidateKey := candidateTheme + "|" + candidateStyle
		if _, seen := usedSet[candidateKey]; !seen {
			return candidateTheme, candidateStyle, candidateKey, nil
		}
	}

	// Everything sampled was already used: serve a repeat, record nothing
	return s.pick(themes), s.pick(styles), "", nil
}

// nextQuote selects the quote for this generation. The returned flag
// tells the caller whether a ledger entry should be committed; the
// silent-universe sentinel is never recorded.
func (s *Service) nextQuote(ctx context.Context, telegramID int64) (string, bool, error) {
	quote, err := s.quotes.FreshQuote(ctx, telegramID, s.quoteCooldown, s.now())
	if err != nil {
		return "", false, err
	}
	if quote != nil {
		return quote.Text, true, nil
	}

	// The user has seen every quote recently: restart their rotation
	if err := s.quotes.ClearUserHistory(ctx, telegramID); err != nil {
		return "", false, err
	}

	s.logger.Info("Quote rotation reset", zap.Int64("telegram_id", telegramID))

	quote, err = s.quotes.RandomQuote(ctx)
	if err != nil {
		return "", false, err
	}
	if quote == nil {
		return domain.MsgSilentUniverse, false, nil
	}
	return quote.Text, true, nil
}
