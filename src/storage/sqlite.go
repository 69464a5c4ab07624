package storage

import (
	"database/sql"
	"fmt"
	"stock-trend/src/helpers"
	"stock-trend/src/logger"
	"stock-trend/src/models"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

// NewSQLiteBarStore opens the database at Storage.DBPath with writes disabled.
func NewSQLiteBarStore(sourceCfg models.MSourceConfig, log *logger.Logger) (*SQLBarStore, error) {
	path := sourceCfg.Storage.DBPath
	if path == "" {
		return nil, helpers.NewConfigurationError(fmt.Sprintf("sqlite source %q needs storage.db_path", sourceCfg.Name), nil)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, helpers.NewDataSourceError("open sqlite", err)
	}

	// PRAGMAs are per connection; one connection keeps query_only in force.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, helpers.NewDataSourceError("ping sqlite", err)
	}
	if _, err := db.Exec("PRAGMA query_only = ON;"); err != nil {
		db.Close()
		return nil, helpers.NewDataSourceError("set query_only", err)
	}

	store, err := newSQLBarStore(sourceCfg, sqlx.NewDb(db, "sqlite"), log)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Info("SQLite source %s reading %s", sourceCfg.Name, path)
	return store, nil
}
