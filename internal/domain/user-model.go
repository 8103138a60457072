package domain

import (
	"strings"
	"time"
)

// User represents a bot user in the system
type User struct {
	TelegramID         int64      `json:"telegram_id" db:"telegram_id"`
	Sign               *string    `json:"sign,omitempty" db:"sign"`
	SubscriptionStatus string     `json:"subscription_status" db:"subscription_status"`
	LastGeneration     *time.Time `json:"last_generation,omitempty" db:"last_generation"`
	UsedCombos         []string   `json:"used_combos" db:"used_combos"`
	TarotHistory       [][]string `json:"tarot_history" db:"tarot_history"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// BroadcastTarget is a user eligible for the daily horoscope mailing
type BroadcastTarget struct {
	TelegramID int64  `json:"telegram_id" db:"telegram_id"`
	Sign       string `json:"sign" db:"sign"`
}

// SubscriptionStatus constants
const (
	SubscriptionFree     = "free"
	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
)

// ZodiacSigns lists the twelve sign names in keyboard order
var ZodiacSigns = []string{
	"Овен", "Телец", "Близнецы", "Рак", "Лев", "Дева",
	"Весы", "Скорпион", "Стрелец", "Козерог", "Водолей", "Рыбы",
}

// ZodiacButtons are the sign names prefixed with their emoji, as shown
// on the reply keyboard
var ZodiacButtons = []string{
	"♈ Овен", "♉ Телец", "♊ Близнецы", "♋ Рак", "♌ Лев", "♍ Дева",
	"♎ Весы", "♏ Скорпион", "♐ Стрелец", "♑ Козерог", "♒ Водолей", "♓ Рыбы",
}

// SignFromButton extracts the sign name from a zodiac keyboard button.
// Returns false for any other message text.
func SignFromButton(text string) (string, bool) {
	for _, button := range ZodiacButtons {
		if text == button {
			_, sign, found := strings.Cut(button, " ")
			if found {
				return sign, true
			}
		}
	}
	return "", false
}

// IsValidSign reports whether the given name is one of the twelve signs
func IsValidSign(sign string) bool {
	for _, s := range ZodiacSigns {
		if s == sign {
			return true
		}
	}
	return false
}

// IsValidSubscriptionStatus reports whether the status is a known value
func IsValidSubscriptionStatus(status string) bool {
	return status == SubscriptionFree || status == SubscriptionActive || status == SubscriptionInactive
}

// HasSign reports whether the user has picked a zodiac sign
func (u *User) HasSign() bool {
	return u.Sign != nil && *u.Sign != ""
}

// SignName returns the user's sign or an empty string
func (u *User) SignName() string {
	if u.Sign == nil {
		return ""
	}
	return *u.Sign
}
