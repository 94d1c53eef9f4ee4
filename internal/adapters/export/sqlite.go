// internal/adapters/export/sqlite.go
package export

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/errors"
	"kirwada/internal/platform/logx"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id              TEXT PRIMARY KEY,
	query           TEXT NOT NULL,
	search_kind     TEXT NOT NULL,
	started_at      TEXT NOT NULL,
	finished_at     TEXT NOT NULL,
	total_units     INTEGER NOT NULL,
	succeeded_count INTEGER NOT NULL,
	failed_count    INTEGER NOT NULL,
	timedout_count  INTEGER NOT NULL,
	skipped_count   INTEGER NOT NULL,
	cancelled_count INTEGER NOT NULL,
	version         TEXT
);

CREATE TABLE IF NOT EXISTS outcomes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	unit_name   TEXT NOT NULL,
	status      TEXT NOT NULL,
	succeeded   INTEGER NOT NULL,
	payload     TEXT,
	error       TEXT,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	duration_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outcomes_session ON outcomes(session_id);
CREATE INDEX IF NOT EXISTS idx_outcomes_unit ON outcomes(unit_name);
`

// SQLiteExporter persiste las sesiones como snapshot relacional. El payload
// de cada outcome se guarda como blob JSON en su fila para no perder el
// árbol estructurado.
type SQLiteExporter struct {
	logger logx.Logger
}

// NewSQLite crea un exporter SQLite.
func NewSQLite(logger logx.Logger) *SQLiteExporter {
	return &SQLiteExporter{logger: logger.With("exporter", "sqlite")}
}

// Format implementa ports.Exporter.
func (e *SQLiteExporter) Format() ports.ExportFormat { return ports.FormatSQLite }

// Export escribe la base en un archivo temporal y la renombra al destino.
func (e *SQLiteExporter) Export(sessions []*domain.SearchSession, view *ports.AggregateView, opts ports.ExportOptions) (*ports.Artifact, error) {
	path, err := resolvePath(sessions, opts, "db")
	if err != nil {
		return nil, err
	}

	// SQLite escribe incrementalmente, así que la atomicidad se consigue
	// construyendo la base en un temporal y renombrando al final.
	tmp := filepath.Join(filepath.Dir(path), ".kirwada-"+filepath.Base(path)+".tmp")
	defer os.Remove(tmp)

	if err := e.writeDatabase(tmp, sessions); err != nil {
		return nil, err
	}

	if err := os.Rename(tmp, path); err != nil {
		return nil, errors.Wrapf(errors.ErrExportFailed, "rename to %s: %v", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrExportFailed, "stat %s: %v", path, err)
	}

	e.logger.Info("exported", "path", path, "bytes", info.Size())
	return &ports.Artifact{Format: ports.FormatSQLite, Path: path, Bytes: info.Size()}, nil
}

func (e *SQLiteExporter) writeDatabase(path string, sessions []*domain.SearchSession) error {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return errors.Wrapf(errors.ErrExportFailed, "open sqlite: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return errors.Wrapf(errors.ErrExportFailed, "create schema: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(errors.ErrExportFailed, "begin tx: %v", err)
	}
	defer tx.Rollback()

	insertSession, err := tx.Prepare(`INSERT INTO sessions
		(id, query, search_kind, started_at, finished_at,
		 total_units, succeeded_count, failed_count, timedout_count,
		 skipped_count, cancelled_count, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrapf(errors.ErrExportFailed, "prepare sessions insert: %v", err)
	}
	defer insertSession.Close()

	insertOutcome, err := tx.Prepare(`INSERT INTO outcomes
		(session_id, unit_name, status, succeeded, payload, error,
		 started_at, finished_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrapf(errors.ErrExportFailed, "prepare outcomes insert: %v", err)
	}
	defer insertOutcome.Close()

	for _, s := range sessions {
		_, err := insertSession.Exec(
			s.ID, s.Query, s.Kind.String(),
			s.StartedAt.Format(time.RFC3339Nano), s.FinishedAt.Format(time.RFC3339Nano),
			s.Summary.TotalUnits, s.Summary.SucceededCount, s.Summary.FailedCount,
			s.Summary.TimedOutCount, s.Summary.SkippedCount, s.Summary.CancelledCount,
			s.Version,
		)
		if err != nil {
			return errors.Wrapf(errors.ErrExportFailed, "insert session %s: %v", s.ID, err)
		}

		for _, o := range s.Outcomes {
			rec := o.Record
			if rec == nil {
				continue
			}

			var payload []byte
			if rec.Succeeded {
				payload, err = json.Marshal(rec.Payload)
				if err != nil {
					return errors.Wrapf(errors.ErrExportFailed, "encode payload for %s: %v", rec.UnitName, err)
				}
			}

			_, err = insertOutcome.Exec(
				s.ID, rec.UnitName, o.Status.String(), rec.Succeeded,
				string(payload), rec.ErrorMessage,
				rec.StartedAt.Format(time.RFC3339Nano), rec.FinishedAt.Format(time.RFC3339Nano),
				rec.DurationMs,
			)
			if err != nil {
				return errors.Wrapf(errors.ErrExportFailed, "insert outcome %s: %v", rec.UnitName, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(errors.ErrExportFailed, "commit: %v", err)
	}
	return nil
}
