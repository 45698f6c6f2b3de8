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

// The settler drains queued blaze transfers into batch contract calls. Run it
// instead of SETTLER_ENABLED on the server, never alongside it.
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
	if cfg.SignerRelayURL == "" {
		bootLogger.Printf("settler config error code=CONFIG_SIGNER_RELAY_URL_REQUIRED message=SIGNER_RELAY_URL must be set for the settler runtime")
		os.Exit(1)
	}

	logger, syncLogs, err := logging.New(logging.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Component: "settler",
	})
	if err != nil {
		bootLogger.Printf("logger setup error: %v", err)
		os.Exit(1)
	}
	defer syncLogs()

	container, buildErr := di.BuildSettler(cfg, logger)
	if buildErr != nil {
		logger.Printf("dependency wiring error: %v", buildErr)
		os.Exit(1)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
		"settler runtime starting database_target=%s schema_version=%d batch_size=%d",
		cfg.DatabaseTarget,
		persistence.SchemaVersion,
		cfg.SettlerBatchSize,
	)
	container.SettlerWorker.Start(ctx)
	logger.Printf("settler runtime stopped")
}
