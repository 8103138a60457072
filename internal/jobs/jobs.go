package jobs

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"astroline/internal/domain"
)

// UserLister provides the mailing audiences
type UserLister interface {
	ListUsersWithSign(ctx context.Context) ([]domain.BroadcastTarget, error)
	ListInactiveSubscribers(ctx context.Context) ([]int64, error)
}

// Generator produces horoscope texts for the daily mailing
type Generator interface {
	GenerateHoroscope(ctx context.Context, telegramID int64, sign string) (string, error)
}

// Sender is the part of the bot API the jobs need
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Scheduler runs the time-of-day jobs without external scheduling
// infrastructure: plain timer loops on the application context.
type Scheduler struct {
	users  UserLister
	svc    Generator
	logger *zap.Logger

	now func() time.Time
}

func NewScheduler(users UserLister, svc Generator, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		users:  users,
		svc:    svc,
		logger: logger,
		now:    time.Now,
	}
}

// RunDailyHoroscope sends every signed-up user their horoscope once a
// day at the given hour
func (s *Scheduler) RunDailyHoroscope(ctx context.Context, b Sender, hour int) {
	s.logger.Info("Started daily horoscope job", zap.Int("hour", hour))

	for {
		wait := time.Until(nextDaily(s.now(), hour))
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Daily horoscope job stopped")
			return
		case <-timer.C:
			s.broadcastHoroscopes(ctx, b)
		}
	}
}

// RunSubscriptionReminder nudges lapsed subscribers once a week
func (s *Scheduler) RunSubscriptionReminder(ctx context.Context, b Sender, weekday time.Weekday, hour int) {
	s.logger.Info("Started subscription reminder job",
		zap.String("weekday", weekday.String()),
		zap.Int("hour", hour))

	for {
		wait := time.Until(nextWeekly(s.now(), weekday, hour))
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Subscription reminder job stopped")
			return
		case <-timer.C:
			s.sendReminders(ctx, b)
		}
	}
}

func (s *Scheduler) broadcastHoroscopes(ctx context.Context, b Sender) {
	targets, err := s.users.ListUsersWithSign(ctx)
	if err != nil {
		s.logger.Error("Failed to list broadcast targets", zap.Error(err))
		return
	}

	s.logger.Info("Broadcasting daily horoscopes", zap.Int("targets", len(targets)))

	sent := 0
	for _, target := range targets {
		text, err := s.svc.GenerateHoroscope(ctx, target.TelegramID, target.Sign)
		if err != nil {
			s.logger.Error("Failed to generate broadcast horoscope",
				zap.Error(err),
				zap.Int64("telegram_id", target.TelegramID))
			continue
		}

		// Users who already asked today are gated; skip them quietly
		if text == domain.MsgDailyLimit {
			continue
		}

		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: target.TelegramID,
			Text:   text,
		}); err != nil {
			// Blocked bots and similar delivery failures are expected
			s.logger.Debug("Failed to deliver broadcast",
				zap.Error(err),
				zap.Int64("telegram_id", target.TelegramID))
			continue
		}
		sent++
	}

	s.logger.Info("Daily broadcast finished", zap.Int("sent", sent))
}

func (s *Scheduler) sendReminders(ctx context.Context, b Sender) {
	ids, err := s.users.ListInactiveSubscribers(ctx)
	if err != nil {
		s.logger.Error("Failed to list inactive subscribers", zap.Error(err))
		return
	}

	s.logger.Info("Sending subscription reminders", zap.Int("targets", len(ids)))

	for _, id := range ids {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: id,
			Text: "🔔 Напоминание: твоя премиум-подписка сейчас не активна. " +
				"Хочешь вернуться к уникальным раскладам и расширенным гороскопам?",
		}); err != nil {
			s.logger.Debug("Failed to deliver reminder", zap.Error(err), zap.Int64("telegram_id", id))
		}
	}
}

// nextDaily returns the next occurrence of the given hour after now
func nextDaily(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// nextWeekly returns the next occurrence of the given weekday and hour
// after now
func nextWeekly(now time.Time, weekday time.Weekday, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	days := (int(weekday) - int(next.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, days)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
