package employer

import "context"

// Store defines persistence operations for employer records, aliases, and
// resolution runs. Both the SQLite and Postgres implementations satisfy it.
type Store interface {
	// Employers
	CreateEmployer(ctx context.Context, r *Record) error
	GetEmployer(ctx context.Context, id int64) (*Record, error)
	GetByNormalizedName(ctx context.Context, normalized string) (*Record, error)
	ListEmployers(ctx context.Context, limit, offset int) ([]Record, error)

	// Aliases. Inserting a new alias increments the owning employer's
	// source count; re-inserting an existing (employer, raw name, source)
	// triple is a no-op.
	UpsertAlias(ctx context.Context, a *Alias) error
	GetAliases(ctx context.Context, employerID int64) ([]Alias, error)

	// Runs
	CreateRun(ctx context.Context, source string) (*Run, error)
	FinishRun(ctx context.Context, runID string, status RunStatus, stats RunStats) error
	GetRun(ctx context.Context, runID string) (*Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// BulkStore is implemented by stores that support bulk import: a set-based
// employer upsert keyed on the normalized name, and a single-round-trip
// alias insert that recounts source totals afterwards. The Postgres store
// implements it; SQLite does not.
type BulkStore interface {
	Store

	BulkUpsertEmployers(ctx context.Context, records []Record) (int64, error)
	BulkInsertAliases(ctx context.Context, aliases []Alias) (int64, error)
}
