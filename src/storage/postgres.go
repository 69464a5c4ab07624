package storage

import (
	"database/sql"
	"fmt"
	"stock-trend/src/helpers"
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

// NewPostgresBarStore connects with Storage.DBConnectionString.
// Every query runs in the session's default read-only transaction mode.
func NewPostgresBarStore(sourceCfg models.MSourceConfig, log *logger.Logger) (*SQLBarStore, error) {
	dsn := sourceCfg.Storage.DBConnectionString
	if dsn == "" {
		return nil, helpers.NewConfigurationError(fmt.Sprintf("postgres source %q needs storage.db_connection_string", sourceCfg.Name), nil)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, helpers.NewDataSourceError("open postgres", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, helpers.NewDataSourceError("ping postgres", err)
	}
	if _, err := db.Exec("SET SESSION CHARACTERISTICS AS TRANSACTION READ ONLY"); err != nil {
		log.Warning("Could not set read-only session for %s: %v", sourceCfg.Name, err)
	}

	store, err := newSQLBarStore(sourceCfg, sqlx.NewDb(db, "postgres"), log)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Info("Postgres source %s ready", sourceCfg.Name)
	return store, nil
}
