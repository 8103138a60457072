package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config contains application configuration parameters
type Config struct {
	// Server configuration
	Port         string        `json:"port"`
	Host         string        `json:"host"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`

	// Telegram Bot configuration
	Token      string `json:"token"`
	AdminToken string `json:"admin_token"`

	// Database configuration
	DBName          string        `json:"db_name"`
	DBPath          string        `json:"db_path"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Redis cache configuration (optional, disabled when addr is empty)
	RedisAddr       string        `json:"redis_addr"`
	RedisPassword   string        `json:"redis_password"`
	RedisDB         int           `json:"redis_db"`
	ProfileCacheTTL time.Duration `json:"profile_cache_ttl"`

	// Content configuration
	ContentDir string `json:"content_dir"`

	// App configuration
	Environment string `json:"environment"` // development, production
	LogLevel    string `json:"log_level"`   // debug, info, warn, error

	// Generation rules
	GenerationCooldown time.Duration `json:"generation_cooldown"`
	QuoteCooldown      time.Duration `json:"quote_cooldown"`
	ComboAttempts      int           `json:"combo_attempts"`
	TarotDrawCount     int           `json:"tarot_draw_count"`

	// Scheduled jobs
	BroadcastHour   int          `json:"broadcast_hour"`
	ReminderWeekday time.Weekday `json:"reminder_weekday"`
	ReminderHour    int          `json:"reminder_hour"`

	// Subscription
	SubscriptionPriceStars int `json:"subscription_price_stars"`
}

// NewConfig creates and returns a new configuration instance
func NewConfig() (*Config, error) {
	cfg := &Config{
		// Server defaults
		Port:         ":8082",
		Host:         "0.0.0.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		// Telegram defaults
		AdminToken: "admin-secret-token-change-in-production",

		// Database defaults
		DBName:          "astro_bot.db",
		DBPath:          "./data/",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,

		// Redis defaults
		ProfileCacheTTL: 10 * time.Minute,

		// Content defaults
		ContentDir: "./data/content",

		// App defaults
		Environment: "development",
		LogLevel:    "info",

		// Generation defaults
		GenerationCooldown: 24 * time.Hour,
		QuoteCooldown:      48 * time.Hour,
		ComboAttempts:      10,
		TarotDrawCount:     3,

		// Job defaults
		BroadcastHour:   8,
		ReminderWeekday: time.Monday,
		ReminderHour:    9,

		// Subscription defaults
		SubscriptionPriceStars: 300,
	}

	// Override with environment variables if set
	if port := os.Getenv("PORT"); port != "" {
		if port[0] != ':' {
			cfg.Port = ":" + port
		} else {
			cfg.Port = port
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		cfg.Host = host
	}

	if token := os.Getenv("BOT_TOKEN"); token != "" {
		cfg.Token = token
	}

	if adminToken := os.Getenv("ADMIN_TOKEN"); adminToken != "" {
		cfg.AdminToken = adminToken
	}

	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		cfg.DBName = dbName
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.RedisAddr = redisAddr
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.RedisPassword = redisPassword
	}

	if contentDir := os.Getenv("CONTENT_DIR"); contentDir != "" {
		cfg.ContentDir = contentDir
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Environment = env
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Parse numeric environment variables
	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			cfg.RedisDB = db
		}
	}

	if maxOpenConns := os.Getenv("DB_MAX_OPEN_CONNS"); maxOpenConns != "" {
		if conns, err := strconv.Atoi(maxOpenConns); err == nil {
			cfg.MaxOpenConns = conns
		}
	}

	if maxIdleConns := os.Getenv("DB_MAX_IDLE_CONNS"); maxIdleConns != "" {
		if conns, err := strconv.Atoi(maxIdleConns); err == nil {
			cfg.MaxIdleConns = conns
		}
	}

	if broadcastHour := os.Getenv("BROADCAST_HOUR"); broadcastHour != "" {
		if hour, err := strconv.Atoi(broadcastHour); err == nil && hour >= 0 && hour <= 23 {
			cfg.BroadcastHour = hour
		}
	}

	if reminderHour := os.Getenv("REMINDER_HOUR"); reminderHour != "" {
		if hour, err := strconv.Atoi(reminderHour); err == nil && hour >= 0 && hour <= 23 {
			cfg.ReminderHour = hour
		}
	}

	if price := os.Getenv("SUBSCRIPTION_PRICE_STARS"); price != "" {
		if stars, err := strconv.Atoi(price); err == nil {
			cfg.SubscriptionPriceStars = stars
		}
	}

	// Parse duration environment variables
	if readTimeout := os.Getenv("READ_TIMEOUT"); readTimeout != "" {
		if timeout, err := time.ParseDuration(readTimeout); err == nil {
			cfg.ReadTimeout = timeout
		}
	}

	if writeTimeout := os.Getenv("WRITE_TIMEOUT"); writeTimeout != "" {
		if timeout, err := time.ParseDuration(writeTimeout); err == nil {
			cfg.WriteTimeout = timeout
		}
	}

	if idleTimeout := os.Getenv("IDLE_TIMEOUT"); idleTimeout != "" {
		if timeout, err := time.ParseDuration(idleTimeout); err == nil {
			cfg.IdleTimeout = timeout
		}
	}

	if connMaxLifetime := os.Getenv("DB_CONN_MAX_LIFETIME"); connMaxLifetime != "" {
		if lifetime, err := time.ParseDuration(connMaxLifetime); err == nil {
			cfg.ConnMaxLifetime = lifetime
		}
	}

	if cooldown := os.Getenv("GENERATION_COOLDOWN"); cooldown != "" {
		if d, err := time.ParseDuration(cooldown); err == nil {
			cfg.GenerationCooldown = d
		}
	}

	if cooldown := os.Getenv("QUOTE_COOLDOWN"); cooldown != "" {
		if d, err := time.ParseDuration(cooldown); err == nil {
			cfg.QuoteCooldown = d
		}
	}

	if cacheTTL := os.Getenv("PROFILE_CACHE_TTL"); cacheTTL != "" {
		if d, err := time.ParseDuration(cacheTTL); err == nil {
			cfg.ProfileCacheTTL = d
		}
	}

	return cfg, nil
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return c.DBPath + c.DBName
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return c.Host + c.Port
}

// CacheEnabled reports whether the redis profile cache is configured
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// ValidateConfig validates the configuration
func (c *Config) ValidateConfig() error {
	if c.Token == "" {
		return fmt.Errorf("telegram bot token is required")
	}

	if c.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if c.GenerationCooldown <= 0 {
		return fmt.Errorf("generation cooldown must be positive")
	}

	if c.QuoteCooldown <= 0 {
		return fmt.Errorf("quote cooldown must be positive")
	}

	if c.ComboAttempts <= 0 {
		return fmt.Errorf("combination attempt budget must be positive")
	}

	if c.TarotDrawCount <= 0 {
		return fmt.Errorf("tarot draw count must be positive")
	}

	if c.BroadcastHour < 0 || c.BroadcastHour > 23 {
		return fmt.Errorf("broadcast hour must be within 0..23")
	}

	if c.SubscriptionPriceStars <= 0 {
		return fmt.Errorf("subscription price must be positive")
	}

	return nil
}
