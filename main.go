package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reservation-bot/cmd"
	"reservation-bot/internal/data/repository"
	"reservation-bot/internal/integration/gcal"
	"reservation-bot/internal/integration/gemini"
	"reservation-bot/internal/integration/whatsapp"
	"reservation-bot/internal/usecase"
	"reservation-bot/internal/wire"
	"reservation-bot/migrations"
	"reservation-bot/pkg/database"
	"reservation-bot/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using zap production logger.", err)
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(database.DSN(config.Database), migrations.FS, logger); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Conversation sessions live in redis
	rdb, err := database.InitRedis(ctx, config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	repos := repository.NewRepository(db, rdb, config.Conversation.SessionTTL, logger)

	collab := setupCollaborators(ctx, config, logger)
	if classifier, ok := collab.Classifier.(*gemini.Classifier); ok {
		defer func() { _ = classifier.Close() }()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Wire all dependencies
	app := wire.Wiring(repos, collab, registry, config, logger)

	go cleanExpiredSessions(ctx, repos.Session, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}

// setupCollaborators builds the outbound clients. Calendar and classifier
// are optional and stay nil when not configured.
func setupCollaborators(ctx context.Context, config *utils.Config, logger *zap.Logger) usecase.Collaborators {
	if config.WhatsApp.AppSecret == "" {
		logger.Warn("WHATSAPP_APP_SECRET is not set, webhook deliveries will be rejected")
	}

	collab := usecase.Collaborators{
		Notifier: whatsapp.NewClient(config.WhatsApp, logger),
	}

	if config.Calendar.Enabled {
		calendar, err := gcal.NewCalendar(ctx, config.Calendar, logger)
		if err != nil {
			logger.Warn("Calendar disabled", zap.Error(err))
		} else {
			collab.Calendar = calendar
		}
	}

	if config.Classifier.GeminiAPIKey != "" {
		classifier, err := gemini.NewClassifier(ctx, config.Classifier.GeminiAPIKey, config.Classifier.Model, logger)
		if err != nil {
			logger.Warn("Classifier disabled", zap.Error(err))
		} else {
			collab.Classifier = classifier
		}
	}

	return collab
}

func cleanExpiredSessions(ctx context.Context, sessions repository.SessionRepository, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Error("Failed to clean expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Expired sessions removed", zap.Int64("count", n))
			}
		}
	}
}
