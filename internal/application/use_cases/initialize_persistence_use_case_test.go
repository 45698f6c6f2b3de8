//go:build !integration

package use_cases

import (
	"context"
	"testing"
	"time"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

func completeLedgerReport() dto.LedgerSchemaReport {
	return dto.LedgerSchemaReport{Tables: []string{"queued_transfers", "ledger_accounts"}}
}

func quickReadiness() dto.InitializePersistenceCommand {
	return dto.InitializePersistenceCommand{
		ReadinessTimeout:       50 * time.Millisecond,
		ReadinessRetryInterval: 5 * time.Millisecond,
	}
}

func TestInitializePersistenceReportsLedgerState(t *testing.T) {
	gateway := &fakePersistenceGateway{
		migration: dto.MigrationResult{Version: 1, Applied: true},
		report:    completeLedgerReport(),
	}

	output, appErr := NewInitializePersistenceUseCase(gateway).Execute(context.Background(), quickReadiness())
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.ReadinessAttempts != 1 || output.SchemaVersion != 1 || !output.MigrationsApplied {
		t.Fatalf("unexpected output %+v", output)
	}
	if len(output.LedgerTables) != 2 || output.LedgerTables[0] != "ledger_accounts" || output.LedgerTables[1] != "queued_transfers" {
		t.Fatalf("expected sorted ledger tables, got %v", output.LedgerTables)
	}
	if gateway.migrationRuns != 1 || gateway.inspections != 1 {
		t.Fatalf("expected one migration run and one inspection, got %d/%d", gateway.migrationRuns, gateway.inspections)
	}
}

func TestInitializePersistenceRetriesUntilReady(t *testing.T) {
	gateway := &fakePersistenceGateway{
		readinessErrors: []*apperrors.AppError{
			apperrors.NewInternal("DB_CONNECT_FAILED", "failed", nil),
			nil,
		},
		migration: dto.MigrationResult{Version: 1},
		report:    completeLedgerReport(),
	}

	output, appErr := NewInitializePersistenceUseCase(gateway).Execute(context.Background(), dto.InitializePersistenceCommand{
		ReadinessTimeout:       100 * time.Millisecond,
		ReadinessRetryInterval: 5 * time.Millisecond,
	})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.ReadinessAttempts != 2 {
		t.Fatalf("expected two readiness attempts, got %d", output.ReadinessAttempts)
	}
	if output.MigrationsApplied {
		t.Fatalf("expected up-to-date schema to report no applied migrations")
	}
}

func TestInitializePersistenceReadinessTimeout(t *testing.T) {
	gateway := &fakePersistenceGateway{
		readinessErrors: []*apperrors.AppError{
			apperrors.NewInternal("DB_CONNECT_FAILED", "failed", nil),
		},
	}

	_, appErr := NewInitializePersistenceUseCase(gateway).Execute(context.Background(), dto.InitializePersistenceCommand{
		ReadinessTimeout:       30 * time.Millisecond,
		ReadinessRetryInterval: 10 * time.Millisecond,
	})
	if appErr == nil || appErr.Code != "DB_READINESS_TIMEOUT" {
		t.Fatalf("expected DB_READINESS_TIMEOUT, got %+v", appErr)
	}
	if appErr.Details["last_code"] != "DB_CONNECT_FAILED" {
		t.Fatalf("expected last readiness code in details, got %+v", appErr.Details)
	}
	if gateway.migrationRuns != 0 || gateway.inspections != 0 {
		t.Fatalf("expected no migration or inspection after timeout")
	}
}

func TestInitializePersistenceLedgerFailures(t *testing.T) {
	testCases := []struct {
		name      string
		gateway   *fakePersistenceGateway
		wantCode  string
		inspected bool
	}{
		{
			name: "migration apply failure",
			gateway: &fakePersistenceGateway{
				migrationErr: apperrors.NewInternal("DB_MIGRATION_APPLY_FAILED", "failed", nil),
			},
			wantCode: "DB_MIGRATION_APPLY_FAILED",
		},
		{
			name: "dirty ledger migration",
			gateway: &fakePersistenceGateway{
				migration: dto.MigrationResult{Version: 1, Dirty: true},
			},
			wantCode: "DB_MIGRATION_DIRTY",
		},
		{
			name: "inspection failure",
			gateway: &fakePersistenceGateway{
				migration:  dto.MigrationResult{Version: 1},
				inspectErr: apperrors.NewInternal("LEDGER_SCHEMA_QUERY_FAILED", "failed", nil),
			},
			wantCode:  "LEDGER_SCHEMA_QUERY_FAILED",
			inspected: true,
		},
		{
			name: "queue table missing",
			gateway: &fakePersistenceGateway{
				migration: dto.MigrationResult{Version: 1},
				report: dto.LedgerSchemaReport{
					Tables:         []string{"ledger_accounts"},
					MissingColumns: []string{"queued_transfers.id"},
				},
			},
			wantCode:  "LEDGER_TABLES_MISSING",
			inspected: true,
		},
		{
			name: "settlement column missing",
			gateway: &fakePersistenceGateway{
				migration: dto.MigrationResult{Version: 1},
				report: dto.LedgerSchemaReport{
					Tables:         []string{"ledger_accounts", "queued_transfers"},
					MissingColumns: []string{"queued_transfers.tx_id"},
				},
			},
			wantCode:  "LEDGER_SCHEMA_INVALID",
			inspected: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			_, appErr := NewInitializePersistenceUseCase(testCase.gateway).Execute(context.Background(), quickReadiness())
			if appErr == nil || appErr.Code != testCase.wantCode {
				t.Fatalf("expected %s, got %+v", testCase.wantCode, appErr)
			}
			if inspected := testCase.gateway.inspections > 0; inspected != testCase.inspected {
				t.Fatalf("expected inspected=%t, got %d inspections", testCase.inspected, testCase.gateway.inspections)
			}
		})
	}
}

func TestInitializePersistenceReportsMissingTables(t *testing.T) {
	gateway := &fakePersistenceGateway{
		migration: dto.MigrationResult{Version: 1},
		report:    dto.LedgerSchemaReport{},
	}

	_, appErr := NewInitializePersistenceUseCase(gateway).Execute(context.Background(), quickReadiness())
	if appErr == nil || appErr.Code != "LEDGER_TABLES_MISSING" {
		t.Fatalf("expected LEDGER_TABLES_MISSING, got %+v", appErr)
	}
	missing, ok := appErr.Details["missing"].([]string)
	if !ok || len(missing) != 2 || missing[0] != "ledger_accounts" || missing[1] != "queued_transfers" {
		t.Fatalf("expected both ledger tables reported missing, got %+v", appErr.Details)
	}
}

func TestInitializePersistenceRejectsInvalidCommand(t *testing.T) {
	testCases := []struct {
		name    string
		command dto.InitializePersistenceCommand
	}{
		{name: "zero", command: dto.InitializePersistenceCommand{}},
		{name: "no retry interval", command: dto.InitializePersistenceCommand{ReadinessTimeout: time.Second}},
		{name: "no timeout", command: dto.InitializePersistenceCommand{ReadinessRetryInterval: time.Second}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			gateway := &fakePersistenceGateway{}
			_, appErr := NewInitializePersistenceUseCase(gateway).Execute(context.Background(), testCase.command)
			if appErr == nil || appErr.Type != apperrors.TypeValidation || appErr.Code != "READINESS_SETTINGS_INVALID" {
				t.Fatalf("expected READINESS_SETTINGS_INVALID validation error, got %+v", appErr)
			}
			if gateway.readinessChecks != 0 {
				t.Fatalf("expected no readiness check, got %d", gateway.readinessChecks)
			}
		})
	}
}

func TestInitializePersistenceRequiresGateway(t *testing.T) {
	_, appErr := NewInitializePersistenceUseCase(nil).Execute(context.Background(), quickReadiness())
	if appErr == nil || appErr.Code != "PERSISTENCE_GATEWAY_MISSING" {
		t.Fatalf("expected PERSISTENCE_GATEWAY_MISSING, got %+v", appErr)
	}
}

type fakePersistenceGateway struct {
	readinessErrors []*apperrors.AppError
	migration       dto.MigrationResult
	migrationErr    *apperrors.AppError
	report          dto.LedgerSchemaReport
	inspectErr      *apperrors.AppError
	readinessChecks int
	migrationRuns   int
	inspections     int
}

func (f *fakePersistenceGateway) CheckReadiness(_ context.Context) *apperrors.AppError {
	f.readinessChecks++
	if len(f.readinessErrors) == 0 {
		return nil
	}
	index := f.readinessChecks - 1
	if index >= len(f.readinessErrors) {
		return f.readinessErrors[len(f.readinessErrors)-1]
	}
	return f.readinessErrors[index]
}

func (f *fakePersistenceGateway) RunMigrations(_ context.Context) (dto.MigrationResult, *apperrors.AppError) {
	f.migrationRuns++
	if f.migrationErr != nil {
		return dto.MigrationResult{}, f.migrationErr
	}
	return f.migration, nil
}

func (f *fakePersistenceGateway) InspectLedgerSchema(_ context.Context) (dto.LedgerSchemaReport, *apperrors.AppError) {
	f.inspections++
	if f.inspectErr != nil {
		return dto.LedgerSchemaReport{}, f.inspectErr
	}
	return f.report, nil
}
