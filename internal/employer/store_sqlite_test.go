package employer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_CreateAndGetEmployer(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := &Record{
		CanonicalName:  "The Home Depot Inc.",
		NormalizedName: "home depot",
		PhoneticKey:    "HM_TPT",
	}
	require.NoError(t, st.CreateEmployer(ctx, rec))
	assert.NotZero(t, rec.ID)

	got, err := st.GetEmployer(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "The Home Depot Inc.", got.CanonicalName)
	assert.Equal(t, "home depot", got.NormalizedName)
	assert.Equal(t, "HM_TPT", got.PhoneticKey)
}

func TestSQLite_GetEmployer_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.GetEmployer(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_GetByNormalizedName(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := &Record{CanonicalName: "Walmart", NormalizedName: "walmart"}
	require.NoError(t, st.CreateEmployer(ctx, rec))

	got, err := st.GetByNormalizedName(ctx, "walmart")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)

	missing, err := st.GetByNormalizedName(ctx, "target")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLite_CreateEmployer_DuplicateNormalizedName(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateEmployer(ctx, &Record{CanonicalName: "Walmart", NormalizedName: "walmart"}))
	err := st.CreateEmployer(ctx, &Record{CanonicalName: "Wal-Mart", NormalizedName: "walmart"})
	require.Error(t, err)
}

func TestSQLite_ListEmployers_Paging(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	names := []string{"acme", "globex", "initech", "umbrella"}
	for _, n := range names {
		require.NoError(t, st.CreateEmployer(ctx, &Record{CanonicalName: n, NormalizedName: n}))
	}

	first, err := st.ListEmployers(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, first, 3)

	rest, err := st.ListEmployers(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "umbrella", rest[0].NormalizedName)
}

func TestSQLite_UpsertAlias_BumpsSourceCount(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := &Record{CanonicalName: "Walmart", NormalizedName: "walmart"}
	require.NoError(t, st.CreateEmployer(ctx, rec))

	alias := &Alias{EmployerID: rec.ID, RawName: "Wal-Mart Stores", Source: "payroll.csv", Algorithm: AliasHybrid, Score: 0.97}
	require.NoError(t, st.UpsertAlias(ctx, alias))

	got, err := st.GetEmployer(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SourceCount)
}

func TestSQLite_UpsertAlias_Idempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := &Record{CanonicalName: "Walmart", NormalizedName: "walmart"}
	require.NoError(t, st.CreateEmployer(ctx, rec))

	alias := &Alias{EmployerID: rec.ID, RawName: "Wal-Mart", Source: "hr.csv", Algorithm: AliasExact, Score: 1}
	require.NoError(t, st.UpsertAlias(ctx, alias))
	require.NoError(t, st.UpsertAlias(ctx, alias))

	aliases, err := st.GetAliases(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, aliases, 1)

	got, err := st.GetEmployer(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SourceCount)
}

func TestSQLite_Run_Lifecycle(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "payroll.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	err = st.FinishRun(ctx, run.ID, RunStatusComplete, RunStats{Total: 10, Matched: 7, Created: 2, Skipped: 1})
	require.NoError(t, err)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, RunStatusComplete, got.Status)
	assert.Equal(t, 10, got.Total)
	assert.Equal(t, 7, got.Matched)
	assert.Equal(t, 2, got.Created)
	assert.Equal(t, 1, got.Skipped)
	assert.NotNil(t, got.FinishedAt)
}

func TestSQLite_FinishRun_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.FinishRun(context.Background(), "no-such-run", RunStatusComplete, RunStats{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLite_GetRun_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.GetRun(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Nil(t, got)
}
