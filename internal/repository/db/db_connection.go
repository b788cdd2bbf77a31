package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens or creates the SQLite file and ensures the readings, controls
// and actuator log tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// the ingest loop and the API both write
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

var pragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA busy_timeout = 5000;",
}

const schemaSensorReadings = `
CREATE TABLE IF NOT EXISTS sensor_readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT NOT NULL,
    moisture REAL NOT NULL,
    light REAL NOT NULL,
    temperature REAL NOT NULL,
    humidity REAL NOT NULL
);
`

const schemaControls = `
CREATE TABLE IF NOT EXISTS controls (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    pump INTEGER NOT NULL DEFAULT 0,
    uv_lamp INTEGER NOT NULL DEFAULT 0,
    peltier INTEGER NOT NULL DEFAULT 0,
    heating INTEGER NOT NULL DEFAULT 1,
    updated_at TEXT NOT NULL
);
`

const schemaActuatorLog = `
CREATE TABLE IF NOT EXISTS actuator_log (
    id TEXT PRIMARY KEY,
    occurred_at TEXT NOT NULL,
    name TEXT NOT NULL,
    state INTEGER NOT NULL
);
`

const indexActuatorLog = `CREATE INDEX IF NOT EXISTS idx_actuator_log_occurred_at ON actuator_log (occurred_at);`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaSensorReadings,
		schemaControls,
		schemaActuatorLog,
		indexActuatorLog,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
