package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/askql-io/askql-engine/pkg/config"
	"github.com/askql-io/askql-engine/pkg/database"
	"github.com/askql-io/askql-engine/pkg/handlers"
	"github.com/askql-io/askql-engine/pkg/llm"
	"github.com/askql-io/askql-engine/pkg/logging"
	"github.com/askql-io/askql-engine/pkg/middleware"
	"github.com/askql-io/askql-engine/pkg/repositories"
	"github.com/askql-io/askql-engine/pkg/retry"
	"github.com/askql-io/askql-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.Bool("ai_configured", cfg.AI.IsConfigured()))

	ctx := context.Background()

	// Migrations run over database/sql; the pool below uses pgx natively.
	// Retried so a restart races cleanly with the database coming up.
	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open database for migrations", zap.Error(err))
	}
	if err := retry.Do(ctx, nil, func() error {
		return database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger)
	}); err != nil {
		logger.Fatal("Failed to run migrations", zap.String("error", logging.SanitizeError(err)))
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	db, err := retry.DoWithResult(ctx, nil, func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.ConnectionString(),
			MaxConnections: cfg.Database.MaxConnections,
		})
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	// Repositories
	chatMessageRepo := repositories.NewChatMessageRepository(db)
	queryLogRepo := repositories.NewQueryLogRepository(db)
	columnUsageRepo := repositories.NewColumnUsageRepository(db)

	// Generation backend
	generator := llm.NewClient(&llm.Config{
		Endpoint:    cfg.AI.Endpoint,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
		Timeout:     cfg.AI.Timeout(),
	}, logger)

	// Services
	auditService := services.NewAuditService(chatMessageRepo, queryLogRepo, logger)
	generationService := services.NewGenerationService(generator, auditService, columnUsageRepo, logger)
	executionService := services.NewExecutionService(db, auditService, logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	chatHandler := handlers.NewChatHandler(generationService, executionService, auditService, columnUsageRepo, logger)
	chatHandler.RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting askql-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
