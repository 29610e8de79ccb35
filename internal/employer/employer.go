// Package employer holds the canonical employer records produced by name
// resolution, the aliases that map raw free-text names onto them, and the
// stores that persist both.
package employer

import "time"

// Record is the canonical row for one resolved employer. NormalizedName is
// unique per store; every raw spelling that resolves here is kept as an
// Alias.
type Record struct {
	ID             int64     `json:"id" db:"id"`
	CanonicalName  string    `json:"canonical_name" db:"canonical_name"`
	NormalizedName string    `json:"normalized_name" db:"normalized_name"`
	PhoneticKey    string    `json:"phonetic_key,omitempty" db:"phonetic_key"`
	SourceCount    int       `json:"source_count" db:"source_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Alias links one raw input spelling to its canonical employer, recording
// which path of the resolution cascade accepted it and at what score.
type Alias struct {
	ID         int64     `json:"id" db:"id"`
	EmployerID int64     `json:"employer_id" db:"employer_id"`
	RawName    string    `json:"raw_name" db:"raw_name"`
	Source     string    `json:"source,omitempty" db:"source"`
	Algorithm  string    `json:"algorithm" db:"algorithm"`
	Score      float64   `json:"score" db:"score"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Alias algorithms, one per cascade path.
const (
	AliasExact  = "exact"
	AliasHybrid = "hybrid"
	AliasNew    = "new"
)

// Run records one batch resolution pass over a source file.
type Run struct {
	ID         string     `json:"id" db:"id"`
	Source     string     `json:"source,omitempty" db:"source"`
	Status     RunStatus  `json:"status" db:"status"`
	Total      int        `json:"total" db:"total"`
	Matched    int        `json:"matched" db:"matched"`
	Created    int        `json:"created" db:"created"`
	Skipped    int        `json:"skipped" db:"skipped"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" db:"finished_at"`
}

// RunStatus is the lifecycle state of a resolution run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunStats are the counters written back when a run finishes.
type RunStats struct {
	Total   int
	Matched int
	Created int
	Skipped int
}
