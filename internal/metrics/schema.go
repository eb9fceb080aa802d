package metrics

import (
	"database/sql"

	"codeberg.org/mutker/powergym/internal/errors"
	"codeberg.org/mutker/powergym/internal/logger"
)

const (
	SchemaVersion = 1

	// SQL statements derived from schema
	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS snapshots (
	       timestamp_ms     INTEGER PRIMARY KEY,
	       session_id       TEXT NOT NULL,
	       total_power      REAL NOT NULL CHECK (total_power >= 0),
	       session_energy   REAL NOT NULL,
	       active_equipment INTEGER NOT NULL CHECK (typeof(active_equipment) = 'integer'),
	       active_minutes   INTEGER NOT NULL CHECK (typeof(active_minutes) = 'integer'),
	       calories         INTEGER NOT NULL CHECK (typeof(calories) = 'integer'),
	       zone             TEXT NOT NULL,
	       fitness_points   INTEGER NOT NULL CHECK (typeof(fitness_points) = 'integer'),
	       energy_points    INTEGER NOT NULL CHECK (typeof(energy_points) = 'integer'),
	       total_points     INTEGER NOT NULL CHECK (typeof(total_points) = 'integer'),
	       level            TEXT NOT NULL,
	       redeemable       INTEGER NOT NULL CHECK (redeemable IN (0, 1))
	   );
	   CREATE INDEX IF NOT EXISTS idx_snapshots_session ON snapshots (session_id, timestamp_ms);`

	insertSnapshotSQL = `
    INSERT OR REPLACE INTO snapshots (
        timestamp_ms, session_id,
        total_power, session_energy, active_equipment,
        active_minutes, calories, zone,
        fitness_points, energy_points, total_points,
        level, redeemable
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectSnapshotsSQL = `
    SELECT
        timestamp_ms, session_id,
        total_power, session_energy, active_equipment,
        active_minutes, calories, zone,
        fitness_points, energy_points, total_points,
        level, redeemable
    FROM snapshots
    WHERE session_id = ?
    ORDER BY timestamp_ms DESC
    LIMIT ?`
)

// InitSchema creates a new database schema with the current version
func InitSchema(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	log.Debug().Msg("Creating database...")

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	// Track transaction state
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				if !errors.Is(err, sql.ErrTxDone) {
					log.Debug().Err(err).Msg("Failed to rollback transaction")
				}
			}
		}
	}()

	log.Debug().Str("sql", createTablesSQL).Msg("Executing SQL statement")
	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			SQL   string
		}{
			Error: err.Error(),
			SQL:   createTablesSQL,
		})
	}

	if _, err := tx.Exec(`
        INSERT INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			Phase string
		}{
			Error: err.Error(),
			Phase: "record_version",
		})
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	log.Info().
		Int("version", SchemaVersion).
		Msg("Schema initialized successfully")

	return nil
}

// GetSchemaVersion returns the current schema version
func GetSchemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	exists, err := TableExists(db, "schema_versions")
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = db.QueryRow(`
        SELECT version
        FROM schema_versions
        ORDER BY version DESC
        LIMIT 1
    `).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.WithData(ErrSchemaValidationFailed, struct {
			Phase string
			Error string
		}{
			Phase: "get_version",
			Error: err.Error(),
		})
	}

	return version, nil
}

// TableExists checks if a table exists
func TableExists(db *sql.DB, tableName string) (bool, error) {
	errFactory := errors.New()
	var exists bool
	err := db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM sqlite_master
            WHERE type='table' AND name=?
        )
    `, tableName).Scan(&exists)
	if err != nil {
		return false, errFactory.WithData(ErrSchemaValidationFailed, struct {
			Phase string
			Table string
			Error string
		}{
			Phase: "check_table_exists",
			Table: tableName,
			Error: err.Error(),
		})
	}
	return exists, nil
}
