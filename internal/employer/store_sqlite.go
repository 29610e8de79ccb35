package employer

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite. It is the default
// backend for single-machine batch resolution.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS employers (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	canonical_name  TEXT NOT NULL,
	normalized_name TEXT NOT NULL UNIQUE,
	phonetic_key    TEXT NOT NULL DEFAULT '',
	source_count    INTEGER NOT NULL DEFAULT 0,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS employer_aliases (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	employer_id INTEGER NOT NULL REFERENCES employers(id),
	raw_name    TEXT NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	algorithm   TEXT NOT NULL DEFAULT '',
	score       REAL NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (employer_id, raw_name, source)
);

CREATE TABLE IF NOT EXISTS resolution_runs (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'running',
	total       INTEGER NOT NULL DEFAULT 0,
	matched     INTEGER NOT NULL DEFAULT 0,
	created     INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	started_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_employers_phonetic_key ON employers(phonetic_key);
CREATE INDEX IF NOT EXISTS idx_employer_aliases_employer_id ON employer_aliases(employer_id);
CREATE INDEX IF NOT EXISTS idx_resolution_runs_status ON resolution_runs(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateEmployer(ctx context.Context, r *Record) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO employers (canonical_name, normalized_name, phonetic_key, source_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.CanonicalName, r.NormalizedName, r.PhoneticKey, r.SourceCount, now, now,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert employer %q", r.NormalizedName)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "sqlite: last insert id")
	}
	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) GetEmployer(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, canonical_name, normalized_name, phonetic_key, source_count, created_at, updated_at
		 FROM employers WHERE id = ?`, id)
	return scanEmployer(row)
}

func (s *SQLiteStore) GetByNormalizedName(ctx context.Context, normalized string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, canonical_name, normalized_name, phonetic_key, source_count, created_at, updated_at
		 FROM employers WHERE normalized_name = ?`, normalized)
	return scanEmployer(row)
}

func (s *SQLiteStore) ListEmployers(ctx context.Context, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, canonical_name, normalized_name, phonetic_key, source_count, created_at, updated_at
		 FROM employers ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list employers")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.CanonicalName, &r.NormalizedName, &r.PhoneticKey, &r.SourceCount, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan employer")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list employers iterate")
}

func (s *SQLiteStore) UpsertAlias(ctx context.Context, a *Alias) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO employer_aliases (employer_id, raw_name, source, algorithm, score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (employer_id, raw_name, source) DO NOTHING`,
		a.EmployerID, a.RawName, a.Source, a.Algorithm, a.Score, now,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: upsert alias %q", a.RawName)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return nil
	}
	a.CreatedAt = now

	_, err = s.db.ExecContext(ctx,
		`UPDATE employers SET source_count = source_count + 1, updated_at = ? WHERE id = ?`,
		now, a.EmployerID,
	)
	return eris.Wrapf(err, "sqlite: bump source count for employer %d", a.EmployerID)
}

func (s *SQLiteStore) GetAliases(ctx context.Context, employerID int64) ([]Alias, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, employer_id, raw_name, source, algorithm, score, created_at
		 FROM employer_aliases WHERE employer_id = ? ORDER BY id`, employerID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get aliases for employer %d", employerID)
	}
	defer rows.Close()

	var aliases []Alias
	for rows.Next() {
		var a Alias
		if err := rows.Scan(&a.ID, &a.EmployerID, &a.RawName, &a.Source, &a.Algorithm, &a.Score, &a.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan alias")
		}
		aliases = append(aliases, a)
	}
	return aliases, eris.Wrap(rows.Err(), "sqlite: get aliases iterate")
}

func (s *SQLiteStore) CreateRun(ctx context.Context, source string) (*Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolution_runs (id, source, status, started_at) VALUES (?, ?, ?, ?)`,
		id, source, string(RunStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &Run{
		ID:        id,
		Source:    source,
		Status:    RunStatusRunning,
		StartedAt: now,
	}, nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, runID string, status RunStatus, stats RunStats) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE resolution_runs
		 SET status = ?, total = ?, matched = ?, created = ?, skipped = ?, finished_at = ?
		 WHERE id = ?`,
		string(status), stats.Total, stats.Matched, stats.Created, stats.Skipped, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, status, total, matched, created, skipped, started_at, finished_at
		 FROM resolution_runs WHERE id = ?`, runID)

	var r Run
	var finished sql.NullTime
	err := row.Scan(&r.ID, &r.Source, &r.Status, &r.Total, &r.Matched, &r.Created, &r.Skipped, &r.StartedAt, &finished)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	if finished.Valid {
		r.FinishedAt = &finished.Time
	}
	return &r, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEmployer(row scannable) (*Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.CanonicalName, &r.NormalizedName, &r.PhoneticKey, &r.SourceCount, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan employer")
	}
	return &r, nil
}
