package use_cases

import (
	"context"
	"sort"
	"time"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
	portsout "blaze/internal/application/ports/out"
	apperrors "blaze/internal/shared_kernel/errors"
)

// ledgerTables are the tables the ledger repository and settler cannot run without.
var ledgerTables = []string{"ledger_accounts", "queued_transfers"}

type initializePersistenceUseCase struct {
	gateway portsout.PersistenceBootstrapGateway
}

func NewInitializePersistenceUseCase(gateway portsout.PersistenceBootstrapGateway) portsin.InitializePersistenceUseCase {
	return &initializePersistenceUseCase{
		gateway: gateway,
	}
}

func (u *initializePersistenceUseCase) Execute(
	ctx context.Context,
	command dto.InitializePersistenceCommand,
) (dto.InitializePersistenceOutput, *apperrors.AppError) {
	if u.gateway == nil {
		return dto.InitializePersistenceOutput{}, apperrors.NewInternal(
			"PERSISTENCE_GATEWAY_MISSING",
			"persistence gateway is required",
			nil,
		)
	}
	if command.ReadinessTimeout <= 0 || command.ReadinessRetryInterval <= 0 {
		return dto.InitializePersistenceOutput{}, apperrors.NewValidation(
			"READINESS_SETTINGS_INVALID",
			"readiness timeout and retry interval must be greater than zero",
			map[string]any{
				"timeout":        command.ReadinessTimeout.String(),
				"retry_interval": command.ReadinessRetryInterval.String(),
			},
		)
	}

	attempts, appErr := u.waitForDatabase(ctx, command.ReadinessTimeout, command.ReadinessRetryInterval)
	if appErr != nil {
		return dto.InitializePersistenceOutput{}, appErr
	}

	migration, appErr := u.gateway.RunMigrations(ctx)
	if appErr != nil {
		return dto.InitializePersistenceOutput{}, appErr
	}
	if migration.Dirty {
		return dto.InitializePersistenceOutput{}, apperrors.NewInternal(
			"DB_MIGRATION_DIRTY",
			"ledger schema is marked dirty; fix the failed migration before starting",
			map[string]any{"version": migration.Version},
		)
	}

	report, appErr := u.gateway.InspectLedgerSchema(ctx)
	if appErr != nil {
		return dto.InitializePersistenceOutput{}, appErr
	}
	if missing := missingTables(report.Tables); len(missing) > 0 {
		return dto.InitializePersistenceOutput{}, apperrors.NewInternal(
			"LEDGER_TABLES_MISSING",
			"ledger schema is missing required tables",
			map[string]any{"missing": missing, "version": migration.Version},
		)
	}
	if len(report.MissingColumns) > 0 {
		return dto.InitializePersistenceOutput{}, apperrors.NewInternal(
			"LEDGER_SCHEMA_INVALID",
			"ledger schema is missing required columns",
			map[string]any{"missing": report.MissingColumns, "version": migration.Version},
		)
	}

	tables := append([]string(nil), report.Tables...)
	sort.Strings(tables)
	return dto.InitializePersistenceOutput{
		ReadinessAttempts: attempts,
		SchemaVersion:     migration.Version,
		MigrationsApplied: migration.Applied,
		LedgerTables:      tables,
	}, nil
}

// waitForDatabase polls readiness until it succeeds or timeout elapses.
func (u *initializePersistenceUseCase) waitForDatabase(
	ctx context.Context,
	timeout time.Duration,
	retryInterval time.Duration,
) (int, *apperrors.AppError) {
	readinessCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	attempts := 0
	var lastErr *apperrors.AppError
	for {
		attempts++
		lastErr = u.gateway.CheckReadiness(readinessCtx)
		if lastErr == nil {
			return attempts, nil
		}

		timer := time.NewTimer(retryInterval)
		select {
		case <-readinessCtx.Done():
			timer.Stop()
			return attempts, apperrors.NewInternal(
				"DB_READINESS_TIMEOUT",
				"ledger database did not become ready in time",
				map[string]any{
					"attempts":  attempts,
					"timeout":   timeout.String(),
					"last_code": lastErr.Code,
				},
			)
		case <-timer.C:
		}
	}
}

func missingTables(present []string) []string {
	found := make(map[string]struct{}, len(present))
	for _, table := range present {
		found[table] = struct{}{}
	}
	missing := []string{}
	for _, table := range ledgerTables {
		if _, ok := found[table]; !ok {
			missing = append(missing, table)
		}
	}
	return missing
}
