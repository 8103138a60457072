package domain

import (
	"errors"
	"time"
)

// Quote is one entry of the shared quote pool
type Quote struct {
	ID        string    `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TarotCard is one card of the deck stored in the database
type TarotCard struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Meaning string `json:"meaning" db:"meaning"`
}

// DrawnCard is a card assigned to a spread position with an
// interpretation style
type DrawnCard struct {
	Card     TarotCard `json:"card"`
	Position string    `json:"position"`
	Style    string    `json:"style"`
}

// ErrStorageUnavailable marks failures of the persistence layer. Every
// repository error carries it in its chain, so callers can separate
// storage faults from defined outcomes like gate denials.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Fixed user-facing messages. Defined outcomes, not errors.
const (
	MsgDailyLimit     = "🌙 Ты уже получил сегодняшний гороскоп. Приходи завтра — звёзды подготовят новый."
	MsgSilentUniverse = "Вселенная молчит... Но слушай внимательно."
	MsgEmptyDeck      = "Колоде сегодня не до работы — в базе пока нет карт Таро. 🃏"
	MsgTarotLater     = "Сегодня карты молчат. Попробуй чуть позже. 🃏"
)

// DefaultTarotTopic is used when the caller supplies no topic
const DefaultTarotTopic = "Вопрос без границ"
