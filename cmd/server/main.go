package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/hbenali/procflow/internal/application/engine"
	"github.com/hbenali/procflow/internal/application/service"
	"github.com/hbenali/procflow/internal/config"
	"github.com/hbenali/procflow/internal/infrastructure/notify"
	"github.com/hbenali/procflow/internal/infrastructure/persistence/repository"
	"github.com/hbenali/procflow/internal/infrastructure/persistence/sqlite"
	httpapi "github.com/hbenali/procflow/internal/interfaces/http"
	"github.com/hbenali/procflow/pkg/database"
	"github.com/hbenali/procflow/pkg/utils"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting procurement workflow service",
		zap.Int("port", cfg.Server.Port))

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		logger.Fatal("Failed to create data directory", zap.Error(err))
	}

	sqlDB, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer sqlDB.Close()

	migrator := database.NewMigrator(sqlDB, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	db := sqlite.NewDB(sqlDB, logger)
	docRepo := repository.NewDocumentRepository(db, logger)
	thresholdRepo := repository.NewThresholdRepository(db, logger)
	auditRepo := repository.NewAuditRepository(db, logger)

	thresholdPolicy := engine.NewThresholdPolicy(thresholdRepo)
	chainGen := engine.NewChainGenerator(docRepo)
	notifier := notify.NewLogNotifier(logger)

	workflowEngine := engine.NewEngine(
		docRepo,
		auditRepo,
		db,
		thresholdPolicy,
		chainGen,
		logger,
		engine.WithNotifier(notifier),
	)

	documentService := service.NewDocumentService(docRepo, logger)
	auditService := service.NewAuditService(auditRepo, logger)
	thresholdService := service.NewThresholdService(thresholdRepo, db, thresholdPolicy, logger)

	handlers := httpapi.NewHandlers(workflowEngine, documentService, auditService, thresholdService)
	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		JWTSecret:    cfg.Auth.JWTSecret,
	}, handlers, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server exited")
}
