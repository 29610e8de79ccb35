package employer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/employer-resolve/internal/db"
)

// PostgresStore implements Store using pgx. Bulk import paths go through
// the COPY helpers in internal/db.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS employers (
	id              BIGSERIAL PRIMARY KEY,
	canonical_name  TEXT NOT NULL,
	normalized_name TEXT NOT NULL UNIQUE,
	phonetic_key    TEXT NOT NULL DEFAULT '',
	source_count    INTEGER NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS employer_aliases (
	id          BIGSERIAL PRIMARY KEY,
	employer_id BIGINT NOT NULL REFERENCES employers(id),
	raw_name    TEXT NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	algorithm   TEXT NOT NULL DEFAULT '',
	score       DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
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
	started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_employers_phonetic_key ON employers(phonetic_key);
CREATE INDEX IF NOT EXISTS idx_employer_aliases_employer_id ON employer_aliases(employer_id);
CREATE INDEX IF NOT EXISTS idx_resolution_runs_status ON resolution_runs(status);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateEmployer(ctx context.Context, r *Record) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO employers (canonical_name, normalized_name, phonetic_key, source_count)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		r.CanonicalName, r.NormalizedName, r.PhoneticKey, r.SourceCount,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert employer %q", r.NormalizedName)
	}
	return nil
}

const employerColumns = `id, canonical_name, normalized_name, phonetic_key, source_count, created_at, updated_at`

func (s *PostgresStore) GetEmployer(ctx context.Context, id int64) (*Record, error) {
	r := &Record{}
	err := s.pool.QueryRow(ctx, `SELECT `+employerColumns+` FROM employers WHERE id=$1`, id).
		Scan(&r.ID, &r.CanonicalName, &r.NormalizedName, &r.PhoneticKey, &r.SourceCount, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get employer %d", id)
	}
	return r, nil
}

func (s *PostgresStore) GetByNormalizedName(ctx context.Context, normalized string) (*Record, error) {
	r := &Record{}
	err := s.pool.QueryRow(ctx, `SELECT `+employerColumns+` FROM employers WHERE normalized_name=$1`, normalized).
		Scan(&r.ID, &r.CanonicalName, &r.NormalizedName, &r.PhoneticKey, &r.SourceCount, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get employer by normalized name %q", normalized)
	}
	return r, nil
}

func (s *PostgresStore) ListEmployers(ctx context.Context, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+employerColumns+` FROM employers ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list employers")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.CanonicalName, &r.NormalizedName, &r.PhoneticKey, &r.SourceCount, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan employer")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list employers iterate")
}

func (s *PostgresStore) UpsertAlias(ctx context.Context, a *Alias) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO employer_aliases (employer_id, raw_name, source, algorithm, score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employer_id, raw_name, source) DO NOTHING`,
		a.EmployerID, a.RawName, a.Source, a.Algorithm, a.Score,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: upsert alias %q", a.RawName)
	}
	if tag.RowsAffected() == 0 {
		return nil
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE employers SET source_count = source_count + 1, updated_at = now() WHERE id = $1`,
		a.EmployerID,
	)
	return eris.Wrapf(err, "postgres: bump source count for employer %d", a.EmployerID)
}

func (s *PostgresStore) GetAliases(ctx context.Context, employerID int64) ([]Alias, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, employer_id, raw_name, source, algorithm, score, created_at
		FROM employer_aliases WHERE employer_id=$1 ORDER BY id`, employerID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get aliases for employer %d", employerID)
	}
	defer rows.Close()

	var aliases []Alias
	for rows.Next() {
		var a Alias
		if err := rows.Scan(&a.ID, &a.EmployerID, &a.RawName, &a.Source, &a.Algorithm, &a.Score, &a.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan alias")
		}
		aliases = append(aliases, a)
	}
	return aliases, eris.Wrap(rows.Err(), "postgres: get aliases iterate")
}

func (s *PostgresStore) CreateRun(ctx context.Context, source string) (*Run, error) {
	id := uuid.New().String()

	r := &Run{ID: id, Source: source, Status: RunStatusRunning}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO resolution_runs (id, source, status)
		VALUES ($1, $2, $3)
		RETURNING started_at`,
		id, source, string(RunStatusRunning),
	).Scan(&r.StartedAt)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return r, nil
}

func (s *PostgresStore) FinishRun(ctx context.Context, runID string, status RunStatus, stats RunStats) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE resolution_runs
		SET status=$2, total=$3, matched=$4, created=$5, skipped=$6, finished_at=now()
		WHERE id=$1`,
		runID, string(status), stats.Total, stats.Matched, stats.Created, stats.Skipped,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: finish run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	r := &Run{}
	var finished *time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT id, source, status, total, matched, created, skipped, started_at, finished_at
		FROM resolution_runs WHERE id=$1`, runID,
	).Scan(&r.ID, &r.Source, &r.Status, &r.Total, &r.Matched, &r.Created, &r.Skipped, &r.StartedAt, &finished)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	r.FinishedAt = finished
	return r, nil
}

// BulkInsertAliases COPYs a batch of pre-resolved aliases into
// employer_aliases in one round trip, then recounts source_count for the
// touched employers.
func (s *PostgresStore) BulkInsertAliases(ctx context.Context, aliases []Alias) (int64, error) {
	rows := make([][]any, 0, len(aliases))
	seen := make(map[int64]struct{}, len(aliases))
	ids := make([]int64, 0, len(aliases))
	for _, a := range aliases {
		rows = append(rows, []any{a.EmployerID, a.RawName, a.Source, a.Algorithm, a.Score})
		if _, ok := seen[a.EmployerID]; !ok {
			seen[a.EmployerID] = struct{}{}
			ids = append(ids, a.EmployerID)
		}
	}

	copied, err := db.CopyFrom(ctx, s.pool, "employer_aliases",
		[]string{"employer_id", "raw_name", "source", "algorithm", "score"}, rows)
	if err != nil {
		return 0, err
	}

	if len(ids) > 0 {
		_, err = s.pool.Exec(ctx, `
			UPDATE employers e
			SET source_count = (SELECT count(*) FROM employer_aliases a WHERE a.employer_id = e.id)
			WHERE e.id = ANY($1)`, ids)
		if err != nil {
			return copied, eris.Wrap(err, "postgres: recount sources")
		}
	}
	return copied, nil
}

// BulkUpsertEmployers imports canonical records in bulk, keyed on
// normalized_name. Existing rows keep their ID; canonical name and
// phonetic key are refreshed from the import.
func (s *PostgresStore) BulkUpsertEmployers(ctx context.Context, records []Record) (int64, error) {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{r.CanonicalName, r.NormalizedName, r.PhoneticKey, r.SourceCount})
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "employers",
		Columns:      []string{"canonical_name", "normalized_name", "phonetic_key", "source_count"},
		ConflictKeys: []string{"normalized_name"},
		UpdateCols:   []string{"canonical_name", "phonetic_key"},
	}, rows)
}
