package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"blaze/internal/application/dto"
	"blaze/internal/infrastructure/config"
	"blaze/internal/infrastructure/di"
	"blaze/internal/infrastructure/logging"
)

func main() {
	bootLogger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)
	if cfgErr := config.LoadDotEnv(); cfgErr != nil {
		bootLogger.Printf("startup config error code=%s message=%s metadata=%v", cfgErr.Code, cfgErr.Message, cfgErr.Metadata)
		os.Exit(1)
	}
	cfg, cfgErr := config.LoadConfig()
	if cfgErr != nil {
		bootLogger.Printf("startup config error code=%s message=%s metadata=%v", cfgErr.Code, cfgErr.Message, cfgErr.Metadata)
		os.Exit(1)
	}

	logger, syncLogs, err := logging.New(logging.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Component: "server",
	})
	if err != nil {
		bootLogger.Printf("logger setup error: %v", err)
		os.Exit(1)
	}
	defer syncLogs()

	logger.Printf(
		"blaze config network=%s chain_api=%s allow_mode=%t faucet_enabled=%t kafka_enabled=%t settler_enabled=%t",
		cfg.Network,
		cfg.ChainAPIURL,
		cfg.AllowModeEnabled,
		cfg.FaucetEnabled,
		cfg.KafkaEnabled(),
		cfg.SettlerEnabled,
	)

	container, buildErr := di.Build(cfg, logger)
	if buildErr != nil {
		logger.Printf("dependency wiring error: %v", buildErr)
		os.Exit(1)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Printf("persistence initialization starting database_target=%s", cfg.DatabaseTarget)
	persistence, persistenceErr := container.InitializePersistenceUseCase.Execute(ctx, dto.InitializePersistenceCommand{
		ReadinessTimeout:       cfg.DBReadinessTimeout,
		ReadinessRetryInterval: cfg.DBReadinessRetryInterval,
	})
	if persistenceErr != nil {
		logger.Printf(
			"persistence initialization failed code=%s message=%s metadata=%v",
			persistenceErr.Code,
			persistenceErr.Message,
			persistenceErr.Details,
		)
		os.Exit(1)
	}
	logger.Printf(
		"persistence initialization completed database_target=%s schema_version=%d migrations_applied=%t readiness_attempts=%d",
		cfg.DatabaseTarget,
		persistence.SchemaVersion,
		persistence.MigrationsApplied,
		persistence.ReadinessAttempts,
	)

	container.StartSubscribers(ctx)
	if container.SettlerWorker.Enabled() {
		go container.SettlerWorker.Start(ctx)
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- container.Server.Start()
	}()

	select {
	case err := <-serverErrCh:
		if err != nil {
			logger.Printf("server startup failed: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := container.Server.Shutdown(shutdownCtx); err != nil {
			logger.Printf("graceful shutdown failed: %v", err)
			os.Exit(1)
		}

		if err := <-serverErrCh; err != nil {
			logger.Printf("server stopped with error: %v", err)
			os.Exit(1)
		}

		logger.Printf("server stopped")
	}
}
