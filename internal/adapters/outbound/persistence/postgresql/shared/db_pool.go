package shared

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    20,
		MaxIdleConns:    20,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// NewDatabasePool opens the ledger pool. sql.Open only validates the DSN, so
// connectivity is checked separately by the bootstrap gateway.
func NewDatabasePool(databaseURL string, logger *log.Logger) *sql.DB {
	return NewDatabasePoolWithConfig(databaseURL, DefaultPoolConfig(), logger)
}

func NewDatabasePoolWithConfig(databaseURL string, config PoolConfig, logger *log.Logger) *sql.DB {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		panic(err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	if logger != nil {
		logger.Printf("database pool initialized max_open=%d max_idle=%d", config.MaxOpenConns, config.MaxIdleConns)
	}

	return db
}
