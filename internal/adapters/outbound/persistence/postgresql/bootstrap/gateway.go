package bootstrap

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log"
	"path/filepath"
	"sort"

	"blaze/internal/application/dto"
	portsout "blaze/internal/application/ports/out"
	apperrors "blaze/internal/shared_kernel/errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const ledgerSchema = "blaze"

// requiredColumns is the minimum shape the ledger repository reads and writes.
var requiredColumns = map[string][]string{
	"ledger_accounts": {"contract", "address", "balance", "nonce", "updated_at"},
	"queued_transfers": {
		"id",
		"token",
		"contract",
		"from_address",
		"to_address",
		"amount",
		"nonce",
		"signature",
		"status",
		"tx_id",
		"created_at",
		"settled_at",
	},
}

type Gateway struct {
	databaseURL    string
	databaseTarget string
	migrationsPath string
	logger         *log.Logger
}

var _ portsout.PersistenceBootstrapGateway = (*Gateway)(nil)

func NewGateway(databaseURL, databaseTarget, migrationsPath string, logger *log.Logger) *Gateway {
	return &Gateway{
		databaseURL:    databaseURL,
		databaseTarget: databaseTarget,
		migrationsPath: migrationsPath,
		logger:         logger,
	}
}

func (g *Gateway) CheckReadiness(ctx context.Context) *apperrors.AppError {
	db, appErr := g.open()
	if appErr != nil {
		return appErr
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		g.logf("database readiness check failed target=%s error=%v", g.databaseTarget, err)
		return apperrors.NewInternal(
			"DB_CONNECT_FAILED",
			"failed to connect to database",
			map[string]any{"database_target": g.databaseTarget},
		)
	}

	g.logf("database readiness check succeeded target=%s", g.databaseTarget)
	return nil
}

func (g *Gateway) RunMigrations(ctx context.Context) (dto.MigrationResult, *apperrors.AppError) {
	if err := ctx.Err(); err != nil {
		return dto.MigrationResult{}, apperrors.NewInternal(
			"DB_MIGRATION_CONTEXT_CANCELED",
			"migration context canceled",
			map[string]any{"database_target": g.databaseTarget},
		)
	}

	migrationsAbsPath, err := filepath.Abs(g.migrationsPath)
	if err != nil {
		return dto.MigrationResult{}, apperrors.NewInternal(
			"DB_MIGRATION_PATH_RESOLVE_FAILED",
			"failed to resolve migration path",
			map[string]any{"migrations_path": g.migrationsPath},
		)
	}

	migrationRunner, err := migrate.New("file://"+filepath.ToSlash(migrationsAbsPath), g.databaseURL)
	if err != nil {
		g.logf("migration runner setup failed target=%s error=%v", g.databaseTarget, err)
		return dto.MigrationResult{}, apperrors.NewInternal(
			"DB_MIGRATION_SETUP_FAILED",
			"failed to initialize migration runner",
			map[string]any{
				"database_target": g.databaseTarget,
				"migrations_path": g.migrationsPath,
			},
		)
	}
	defer func() {
		sourceErr, dbErr := migrationRunner.Close()
		if sourceErr != nil {
			g.logf("migration source close warning path=%s error=%v", g.migrationsPath, sourceErr)
		}
		if dbErr != nil {
			g.logf("migration db close warning target=%s error=%v", g.databaseTarget, dbErr)
		}
	}()

	result := dto.MigrationResult{}
	err = migrationRunner.Up()
	switch {
	case stderrors.Is(err, migrate.ErrNoChange):
	case err != nil:
		g.logf("ledger migrations failed target=%s error=%v", g.databaseTarget, err)
		return dto.MigrationResult{}, apperrors.NewInternal(
			"DB_MIGRATION_APPLY_FAILED",
			"failed to apply ledger migrations",
			map[string]any{
				"database_target": g.databaseTarget,
				"migrations_path": g.migrationsPath,
				"error":           err.Error(),
			},
		)
	default:
		result.Applied = true
	}

	version, dirty, err := migrationRunner.Version()
	if err != nil && !stderrors.Is(err, migrate.ErrNilVersion) {
		return dto.MigrationResult{}, apperrors.NewInternal(
			"DB_MIGRATION_VERSION_FAILED",
			"failed to read ledger schema version",
			map[string]any{"database_target": g.databaseTarget, "error": err.Error()},
		)
	}
	result.Version = version
	result.Dirty = dirty

	g.logf(
		"ledger migrations checked target=%s version=%d applied=%t dirty=%t",
		g.databaseTarget,
		result.Version,
		result.Applied,
		result.Dirty,
	)
	return result, nil
}

// InspectLedgerSchema reports which ledger tables exist and which columns the
// repository needs that are absent.
func (g *Gateway) InspectLedgerSchema(ctx context.Context) (dto.LedgerSchemaReport, *apperrors.AppError) {
	db, appErr := g.open()
	if appErr != nil {
		return dto.LedgerSchemaReport{}, appErr
	}
	defer db.Close()

	const query = `
SELECT table_name, column_name
FROM information_schema.columns
WHERE table_schema = $1
`

	rows, err := db.QueryContext(ctx, query, ledgerSchema)
	if err != nil {
		return dto.LedgerSchemaReport{}, apperrors.NewInternal(
			"LEDGER_SCHEMA_QUERY_FAILED",
			"failed to inspect ledger schema",
			map[string]any{"database_target": g.databaseTarget, "error": err.Error()},
		)
	}
	defer rows.Close()

	found := map[string]map[string]struct{}{}
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return dto.LedgerSchemaReport{}, apperrors.NewInternal(
				"LEDGER_SCHEMA_QUERY_FAILED",
				"failed to scan ledger schema row",
				map[string]any{"error": err.Error()},
			)
		}
		if found[table] == nil {
			found[table] = map[string]struct{}{}
		}
		found[table][column] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return dto.LedgerSchemaReport{}, apperrors.NewInternal(
			"LEDGER_SCHEMA_QUERY_FAILED",
			"failed while iterating ledger schema rows",
			map[string]any{"error": err.Error()},
		)
	}

	report := schemaReport(requiredColumns, found)
	if len(report.MissingColumns) > 0 {
		g.logf("ledger schema incomplete target=%s missing=%v", g.databaseTarget, report.MissingColumns)
	}
	return report, nil
}

func (g *Gateway) open() (*sql.DB, *apperrors.AppError) {
	db, err := sql.Open("pgx", g.databaseURL)
	if err != nil {
		g.logf("database connection initialization failed target=%s error=%v", g.databaseTarget, err)
		return nil, apperrors.NewInternal(
			"DB_CONNECT_INIT_FAILED",
			"failed to initialize database connection",
			map[string]any{"database_target": g.databaseTarget},
		)
	}
	return db, nil
}

func schemaReport(required map[string][]string, found map[string]map[string]struct{}) dto.LedgerSchemaReport {
	report := dto.LedgerSchemaReport{
		Tables:         make([]string, 0, len(found)),
		MissingColumns: missingColumns(required, found),
	}
	for table := range found {
		report.Tables = append(report.Tables, table)
	}
	sort.Strings(report.Tables)
	return report
}

// missingColumns returns sorted "table.column" entries absent from found.
func missingColumns(required map[string][]string, found map[string]map[string]struct{}) []string {
	missing := []string{}
	for table, columns := range required {
		present := found[table]
		for _, column := range columns {
			if _, ok := present[column]; !ok {
				missing = append(missing, table+"."+column)
			}
		}
	}
	sort.Strings(missing)
	return missing
}

func (g *Gateway) logf(format string, args ...any) {
	if g.logger == nil {
		return
	}
	g.logger.Printf(format, args...)
}
