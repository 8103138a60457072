package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"astroline/config"
	"astroline/internal/cache"
	"astroline/internal/content"
	"astroline/internal/domain"

	"go.uber.org/zap"
)

// UserStore is the per-user state the generation engine reads and
// mutates
type UserStore interface {
	EnsureUser(ctx context.Context, telegramID int64) error
	GetUser(ctx context.Context, telegramID int64) (*domain.User, error)
	GetSign(ctx context.Context, telegramID int64) (string, error)
	SetSign(ctx context.Context, telegramID int64, sign string) error
	UpdateSubscription(ctx context.Context, telegramID int64, status string) error
	GetLastGeneration(ctx context.Context, telegramID int64) (*time.Time, error)
	SetLastGeneration(ctx context.Context, telegramID int64, t time.Time) error
	GetUsedCombos(ctx context.Context, telegramID int64) ([]string, error)
	SaveUsedCombo(ctx context.Context, telegramID int64, key string) error
	GetTarotHistory(ctx context.Context, telegramID int64) ([][]string, error)
	AppendTarotHistory(ctx context.Context, telegramID int64, cardNames []string) error
}

// QuoteStore is the shared quote pool with its per-user usage ledger
type QuoteStore interface {
	FreshQuote(ctx context.Context, telegramID int64, cooldown time.Duration, now time.Time) (*domain.Quote, error)
	RandomQuote(ctx context.Context) (*domain.Quote, error)
	RecordUse(ctx context.Context, telegramID int64, quoteText string, now time.Time) error
	ClearUserHistory(ctx context.Context, telegramID int64) error
}

// TarotStore is the tarot deck source
type TarotStore interface {
	ListDeck(ctx context.Context) ([]domain.TarotCard, error)
}

// Service is the generation engine: the temporal gate, the combination
// uniqueness tracker, the quote rotation and the tarot draw, plus the
// composition of the final texts.
type Service struct {
	users   UserStore
	quotes  QuoteStore
	tarot   TarotStore
	library *content.Library
	cache   *cache.Cache
	logger  *zap.Logger

	cooldown      time.Duration
	quoteCooldown time.Duration
	comboAttempts int
	drawCount     int

	now func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

func New(users UserStore, quotes QuoteStore, tarot TarotStore, library *content.Library, profileCache *cache.Cache, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		users:         users,
		quotes:        quotes,
		tarot:         tarot,
		library:       library,
		cache:         profileCache,
		logger:        logger,
		cooldown:      cfg.GenerationCooldown,
		quoteCooldown: cfg.QuoteCooldown,
		comboAttempts: cfg.ComboAttempts,
		drawCount:     cfg.TarotDrawCount,
		now:           time.Now,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		locks:         make(map[int64]*sync.Mutex),
	}
}

// userLock returns the mutex serializing state mutations for one user.
// Overlapping requests from the same user (a double tap) queue here
// instead of racing on read-modify-write columns.
func (s *Service) userLock(telegramID int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[telegramID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[telegramID] = lock
	}
	return lock
}

// pick returns a uniformly random element, or an empty string for an
// empty pool
func (s *Service) pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return pool[s.rng.Intn(len(pool))]
}

// perm returns a random permutation of [0, n)
func (s *Service) perm(n int) []int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Perm(n)
}

// sampleStrings picks k distinct elements without replacement
func (s *Service) sampleStrings(pool []string, k int) []string {
	if k > len(pool) {
		k = len(pool)
	}
	idx := s.perm(len(pool))[:k]
	out := make([]string, 0, k)
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}

// EnsureUser lazily creates the user record
func (s *Service) EnsureUser(ctx context.Context, telegramID int64) error {
	return s.users.EnsureUser(ctx, telegramID)
}

// Sign returns the user's zodiac sign, consulting the profile cache
// first
func (s *Service) Sign(ctx context.Context, telegramID int64) (string, error) {
	if profile, ok := s.cache.GetProfile(ctx, telegramID); ok {
		return profile.Sign, nil
	}

	sign, err := s.users.GetSign(ctx, telegramID)
	if err != nil {
		return "", err
	}
	return sign, nil
}

// SetSign persists the sign and invalidates the cached profile
func (s *Service) SetSign(ctx context.Context, telegramID int64, sign string) error {
	if err := s.users.SetSign(ctx, telegramID, sign); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, telegramID)
	return nil
}

// Profile returns the user's sign and subscription status
func (s *Service) Profile(ctx context.Context, telegramID int64) (sign, subscription string, err error) {
	if profile, ok := s.cache.GetProfile(ctx, telegramID); ok {
		return profile.Sign, profile.Subscription, nil
	}

	user, err := s.users.GetUser(ctx, telegramID)
	if err != nil {
		return "", "", err
	}

	subscription = domain.SubscriptionFree
	if user != nil {
		sign = user.SignName()
		if user.SubscriptionStatus != "" {
			subscription = user.SubscriptionStatus
		}
	}

	s.cache.SetProfile(ctx, telegramID, &cache.Profile{Sign: sign, Subscription: subscription})
	return sign, subscription, nil
}

// ActivateSubscription marks the subscription active after a confirmed
// payment
func (s *Service) ActivateSubscription(ctx context.Context, telegramID int64) error {
	if err := s.users.UpdateSubscription(ctx, telegramID, domain.SubscriptionActive); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, telegramID)
	return nil
}

// WelcomeMessage composes a randomized greeting with a sign prompt
func (s *Service) WelcomeMessage() string {
	pools := s.library.Pools()
	return s.pick(pools.Welcomes) + "\n\n" + s.pick(pools.SignPrompts)
}

// CanGenerate reports whether the temporal gate allows a new horoscope
// for the user. Pure read, no mutation.
func (s *Service) CanGenerate(ctx context.Context, telegramID int64) (bool, error) {
	last, err := s.users.GetLastGeneration(ctx, telegramID)
	if err != nil {
		return false, err
	}
	if last == nil {
		return true, nil
	}
	return s.now().Sub(*last) >= s.cooldown, nil
}
