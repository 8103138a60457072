package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"astroline/config"
	"astroline/internal/cache"
	"astroline/internal/content"
	"astroline/internal/handler"
	"astroline/internal/jobs"
	"astroline/internal/repository"
	"astroline/internal/service"
	"astroline/traits/database"
	"astroline/traits/logger"

	"github.com/go-telegram/bot"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	zapLogger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		zapLogger.Error("error init config", zap.Error(err))
		return
	}

	// Validate configuration
	if err := cfg.ValidateConfig(); err != nil {
		zapLogger.Error("invalid configuration", zap.Error(err))
		return
	}

	zapLogger.Info("Starting astroline application",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.String("db_name", cfg.DBName),
	)

	// Load content pools
	library, err := content.NewLibrary(cfg.ContentDir, zapLogger)
	if err != nil {
		zapLogger.Error("failed to load content pools", zap.Error(err))
		return
	}

	// Initialize database
	db, err := database.InitDatabase(cfg, zapLogger)
	if err != nil {
		zapLogger.Error("failed to initialize database", zap.Error(err))
		return
	}
	defer db.Close()

	// Create database tables and seed content
	if err := database.CreateTables(db, zapLogger); err != nil {
		zapLogger.Error("failed to create tables", zap.Error(err))
		return
	}
	if err := database.SeedContent(db, library.Pools(), zapLogger); err != nil {
		zapLogger.Error("failed to seed content", zap.Error(err))
		return
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional redis profile cache; the bot runs without it
	var profileCache *cache.Cache
	if cfg.CacheEnabled() {
		profileCache, err = cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.ProfileCacheTTL, zapLogger)
		if err != nil {
			zapLogger.Warn("profile cache disabled", zap.Error(err))
			profileCache = nil
		} else {
			defer profileCache.Close()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, zapLogger)
	quoteRepo := repository.NewQuoteRepository(db, zapLogger)
	tarotRepo := repository.NewTarotRepository(db, zapLogger)

	// Core generation engine
	svc := service.New(userRepo, quoteRepo, tarotRepo, library, profileCache, cfg, zapLogger)

	// Create handler
	handl := handler.NewHandler(cfg, zapLogger, db, svc, userRepo, quoteRepo, tarotRepo)

	// Create bot instance
	opts := []bot.Option{
		bot.WithDefaultHandler(handl.DefaultHandler),
	}

	b, err := bot.New(cfg.Token, opts...)
	if err != nil {
		zapLogger.Error("error creating bot", zap.Error(err))
		return
	}

	// Set up graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-stop
		zapLogger.Info("Shutdown signal received")
		cancel()
	}()

	// Start scheduled jobs
	scheduler := jobs.NewScheduler(userRepo, svc, zapLogger)
	go scheduler.RunDailyHoroscope(ctx, b, cfg.BroadcastHour)
	go scheduler.RunSubscriptionReminder(ctx, b, cfg.ReminderWeekday, cfg.ReminderHour)

	// Start admin web server
	go handl.StartWebServer(ctx, library)
	zapLogger.Info("Web server started", zap.String("address", cfg.GetServerAddress()))

	// Start bot
	zapLogger.Info("Bot started successfully")
	b.Start(ctx)

	zapLogger.Info("Application stopped successfully")
}
