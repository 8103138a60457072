package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astroline/internal/domain"
)

func buildDeck(size int) []domain.TarotCard {
	deck := make([]domain.TarotCard, 0, size)
	for i := 0; i < size; i++ {
		deck = append(deck, domain.TarotCard{
			ID:      fmt.Sprintf("card-%d", i),
			Name:    fmt.Sprintf("Аркан %d", i),
			Meaning: fmt.Sprintf("значение карты %d", i),
		})
	}
	return deck
}

func TestTarotReadingDrawsThreeDistinctCards(t *testing.T) {
	users := newFakeUserStore()
	tarot := &fakeTarotStore{deck: buildDeck(12)}
	svc := newTestService(t, users, &fakeQuoteStore{}, tarot, "")

	text, err := svc.GenerateTarotReading(context.Background(), 1, "Любовь", "Овен")
	require.NoError(t, err)

	assert.Contains(t, text, "«Любовь»")
	assert.Contains(t, text, "Прошлое:")
	assert.Contains(t, text, "Настоящее:")
	assert.Contains(t, text, "Будущее:")
	assert.Contains(t, text, "Тема расклада — любовь.")
	assert.Contains(t, text, "Овен")

	require.Len(t, users.history[1], 1)
	drawn := users.history[1][0]
	require.Len(t, drawn, 3)
	seen := make(map[string]struct{})
	for _, name := range drawn {
		_, dup := seen[name]
		require.False(t, dup, "a spread must not repeat a card")
		seen[name] = struct{}{}
	}
}

func TestTarotReadingAvoidsSeenCards(t *testing.T) {
	users := newFakeUserStore()
	deck := buildDeck(6)
	users.history[1] = [][]string{{deck[0].Name, deck[1].Name, deck[2].Name}}
	tarot := &fakeTarotStore{deck: deck}
	svc := newTestService(t, users, &fakeQuoteStore{}, tarot, "")

	_, err := svc.GenerateTarotReading(context.Background(), 1, "Работа", "Лев")
	require.NoError(t, err)

	require.Len(t, users.history[1], 2)
	for _, name := range users.history[1][1] {
		assert.NotContains(t, users.history[1][0], name,
			"with enough fresh cards the draw must avoid seen ones")
	}
}

func TestTarotReadingFallsBackToFullDeck(t *testing.T) {
	users := newFakeUserStore()
	deck := buildDeck(4)
	// Only two fresh cards remain: the whole deck becomes drawable
	users.history[1] = [][]string{{deck[0].Name, deck[1].Name}}
	tarot := &fakeTarotStore{deck: deck}
	svc := newTestService(t, users, &fakeQuoteStore{}, tarot, "")

	_, err := svc.GenerateTarotReading(context.Background(), 1, "", "Рак")
	require.NoError(t, err)

	require.Len(t, users.history[1], 2)
	assert.Len(t, users.history[1][1], 3)
	// The fallback uses the full deck but keeps prior history intact
	assert.Equal(t, []string{deck[0].Name, deck[1].Name}, users.history[1][0])
}

func TestTarotReadingSmallDeck(t *testing.T) {
	users := newFakeUserStore()
	tarot := &fakeTarotStore{deck: buildDeck(2)}
	svc := newTestService(t, users, &fakeQuoteStore{}, tarot, "")

	_, err := svc.GenerateTarotReading(context.Background(), 1, "Деньги", "Дева")
	require.NoError(t, err)

	require.Len(t, users.history[1], 1)
	assert.Len(t, users.history[1][0], 2, "a two-card deck yields a two-card spread")
}

func TestTarotReadingEmptyDeck(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestService(t, users, &fakeQuoteStore{}, &fakeTarotStore{}, "")

	text, err := svc.GenerateTarotReading(context.Background(), 1, "Любовь", "Весы")
	require.NoError(t, err)
	assert.Equal(t, domain.MsgEmptyDeck, text)
	assert.Empty(t, users.history[1], "an empty deck must not touch history")
}

func TestTarotReadingDefaultTopic(t *testing.T) {
	users := newFakeUserStore()
	tarot := &fakeTarotStore{deck: buildDeck(5)}
	svc := newTestService(t, users, &fakeQuoteStore{}, tarot, "")

	text, err := svc.GenerateTarotReading(context.Background(), 1, "", "Скорпион")
	require.NoError(t, err)
	assert.Contains(t, text, "«"+domain.DefaultTarotTopic+"»")
}

func TestTarotReadingWithoutSign(t *testing.T) {
	users := newFakeUserStore()
	tarot := &fakeTarotStore{deck: buildDeck(5)}
	svc := newTestService(t, users, &fakeQuoteStore{}, tarot, "")

	text, err := svc.GenerateTarotReading(context.Background(), 1, "Работа", "")
	require.NoError(t, err)
	assert.NotContains(t, text, "Ты сейчас как", "no sign line without a sign")
}

func TestTarotReadingStylesDistinct(t *testing.T) {
	users := newFakeUserStore()
	tarot := &fakeTarotStore{deck: buildDeck(10)}
	svc := newTestService(t, users, &fakeQuoteStore{}, tarot, "")

	text, err := svc.GenerateTarotReading(context.Background(), 1, "Интуиция", "Рыбы")
	require.NoError(t, err)

	// Each block carries its own bridge phrase; count the distinct ones
	pools := svc.library.Pools()
	found := 0
	for _, bridge := range pools.TarotBridges {
		if strings.Contains(text, bridge) {
			found++
		}
	}
	assert.Equal(t, 3, found, "three cards must use three distinct styles")
}

func TestTarotReadingDrawCountAboveStylePool(t *testing.T) {
	users := newFakeUserStore()
	tarot := &fakeTarotStore{deck: buildDeck(12)}
	svc := newTestService(t, users, &fakeQuoteStore{}, tarot, "")
	svc.drawCount = 10

	text, err := svc.GenerateTarotReading(context.Background(), 1, "Интуиция", "Лев")
	require.NoError(t, err)
	assert.NotEmpty(t, text)

	// Five interpretation styles bound the spread at five cards
	styleCount := len(svc.library.Pools().TarotStyles)
	require.Len(t, users.history[1], 1)
	assert.Len(t, users.history[1][0], styleCount)
}

func TestSampleStrings(t *testing.T) {
	svc := newTestService(t, newFakeUserStore(), &fakeQuoteStore{}, &fakeTarotStore{}, "")

	pool := []string{"a", "b", "c", "d", "e"}
	out := svc.sampleStrings(pool, 3)
	require.Len(t, out, 3)
	seen := make(map[string]struct{})
	for _, v := range out {
		_, dup := seen[v]
		require.False(t, dup)
		seen[v] = struct{}{}
	}

	assert.Len(t, svc.sampleStrings(pool, 10), 5, "sample size is capped at the pool size")
}
