package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Profile is the cached slice of the user record read on almost every
// message: the sign and subscription status.
type Profile struct {
	Sign         string `json:"sign"`
	Subscription string `json:"subscription"`
}

// Cache is an optional redis front for user profiles. A nil *Cache is
// valid and behaves as a permanent miss, so callers never branch on
// whether caching is configured.
type Cache struct {
	db     *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New connects to redis and verifies the connection with a ping
func New(ctx context.Context, addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{
		db:     client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func profileKey(telegramID int64) string {
	return fmt.Sprintf("astroline:profile:%d", telegramID)
}

// GetProfile returns the cached profile and a hit flag. Redis errors
// degrade to a miss.
func (c *Cache) GetProfile(ctx context.Context, telegramID int64) (*Profile, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.db.Get(ctx, profileKey(telegramID)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Profile cache read failed", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return nil, false
	}

	var profile Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		c.logger.Warn("Profile cache entry corrupted", zap.Error(err), zap.Int64("telegram_id", telegramID))
		return nil, false
	}

	return &profile, true
}

// SetProfile stores the profile with the configured TTL
func (c *Cache) SetProfile(ctx context.Context, telegramID int64, profile *Profile) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}

	if err := c.db.Set(ctx, profileKey(telegramID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Profile cache write failed", zap.Error(err), zap.Int64("telegram_id", telegramID))
	}
}

// Invalidate drops the cached profile after a sign or subscription
// change
func (c *Cache) Invalidate(ctx context.Context, telegramID int64) {
	if c == nil {
		return
	}

	if err := c.db.Del(ctx, profileKey(telegramID)).Err(); err != nil {
		c.logger.Warn("Profile cache invalidation failed", zap.Error(err), zap.Int64("telegram_id", telegramID))
	}
}

// Close releases the redis connection
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}
