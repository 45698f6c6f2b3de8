package dto

import "time"

type InitializePersistenceCommand struct {
	ReadinessTimeout       time.Duration
	ReadinessRetryInterval time.Duration
}

// InitializePersistenceOutput summarizes what startup found and changed in the ledger database.
type InitializePersistenceOutput struct {
	ReadinessAttempts int
	SchemaVersion     uint
	MigrationsApplied bool
	LedgerTables      []string
}

type MigrationResult struct {
	Version uint
	Dirty   bool
	Applied bool
}

// LedgerSchemaReport lists the ledger tables present and the "table.column"
// entries the repository needs but the database lacks.
type LedgerSchemaReport struct {
	Tables         []string
	MissingColumns []string
}
