package employer

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/employer-resolve/internal/match"
	"github.com/sells-group/employer-resolve/internal/normalize"
)

// Resolver canonicalizes raw employer names against a store. It keeps an
// in-memory blocking index over the store's normalized names so candidate
// lookup never scans the whole corpus.
//
// A Resolver is single-writer: Load once, then call Resolve from one
// goroutine at a time.
type Resolver struct {
	store     Store
	cfg       match.Config
	threshold float64

	index  *match.BlockingIndex
	byNorm map[string]int64
}

// NewResolver creates a resolver over store. threshold <= 0 falls back to
// the default hybrid cutoff.
func NewResolver(store Store, cfg match.Config, threshold float64) *Resolver {
	if threshold <= 0 {
		threshold = match.DefaultHybridThreshold
	}
	return &Resolver{
		store:     store,
		cfg:       cfg,
		threshold: threshold,
		index:     match.NewBlockingIndex(cfg),
		byNorm:    make(map[string]int64),
	}
}

// Load pages every employer out of the store and builds the blocking index
// over their normalized names.
func (r *Resolver) Load(ctx context.Context) error {
	var names []string
	byNorm := make(map[string]int64)

	const pageSize = 1000
	for offset := 0; ; offset += pageSize {
		records, err := r.store.ListEmployers(ctx, pageSize, offset)
		if err != nil {
			return eris.Wrap(err, "employer: load records")
		}
		for _, rec := range records {
			names = append(names, rec.NormalizedName)
			byNorm[rec.NormalizedName] = rec.ID
		}
		if len(records) < pageSize {
			break
		}
	}

	idx, err := match.BuildIndexParallel(ctx, names, r.cfg, 0)
	if err != nil {
		return eris.Wrap(err, "employer: build blocking index")
	}

	r.index = idx
	r.byNorm = byNorm

	zap.L().Info("resolver loaded",
		zap.Int("employers", len(byNorm)),
		zap.Int("blocking_keys", idx.Keys()),
	)
	return nil
}

// Resolve canonicalizes one raw name. The cascade:
//  1. Exact hit on the normalized name.
//  2. Blocking candidates from the index, accepted via the hybrid
//     metaphone-or-Jaro-Winkler decision; the highest combined score wins.
//  3. No match: a new canonical record is created and indexed.
//
// Every accepted name is recorded as an alias carrying the cascade path
// and score. Returns the canonical record and whether it was newly created.
func (r *Resolver) Resolve(ctx context.Context, rawName, source string) (*Record, bool, error) {
	norm := normalize.Normalize(rawName)
	if norm == "" {
		return nil, false, eris.Errorf("employer: name %q normalizes to nothing", rawName)
	}

	// Pass 1: exact normalized hit.
	if id, ok := r.byNorm[norm]; ok {
		rec, err := r.store.GetEmployer(ctx, id)
		if err != nil {
			return nil, false, eris.Wrap(err, "employer: resolve exact")
		}
		if rec == nil {
			return nil, false, eris.Errorf("employer: indexed record %d missing from store", id)
		}
		if err := r.recordAlias(ctx, rec.ID, rawName, source, AliasExact, 1.0); err != nil {
			return nil, false, err
		}
		zap.L().Debug("resolve: exact match",
			zap.String("name", rawName),
			zap.Int64("employer_id", rec.ID),
		)
		return rec, false, nil
	}

	// Pass 2: blocking candidates, best hybrid-accepted score wins.
	var (
		bestNorm  string
		bestScore float64
	)
	for candidate := range r.index.FindCandidates(norm) {
		if !match.HybridMatch(norm, candidate, r.threshold) {
			continue
		}
		score := match.CombinedScorer.Compare(norm, candidate)
		if score > bestScore {
			bestNorm, bestScore = candidate, score
		}
	}
	if bestNorm != "" {
		id := r.byNorm[bestNorm]
		rec, err := r.store.GetEmployer(ctx, id)
		if err != nil {
			return nil, false, eris.Wrap(err, "employer: resolve fuzzy")
		}
		if rec == nil {
			return nil, false, eris.Errorf("employer: indexed record %d missing from store", id)
		}
		if err := r.recordAlias(ctx, rec.ID, rawName, source, AliasHybrid, bestScore); err != nil {
			return nil, false, err
		}
		zap.L().Debug("resolve: hybrid match",
			zap.String("name", rawName),
			zap.String("matched", rec.CanonicalName),
			zap.Float64("score", bestScore),
			zap.Int64("employer_id", rec.ID),
		)
		return rec, false, nil
	}

	// Pass 3: no match, create new canonical record.
	rec := &Record{
		CanonicalName:  rawName,
		NormalizedName: norm,
		PhoneticKey:    match.MetaphoneKey.GenerateKey(rawName),
	}
	if err := r.store.CreateEmployer(ctx, rec); err != nil {
		return nil, false, eris.Wrap(err, "employer: create")
	}
	r.index.Add(norm)
	r.byNorm[norm] = rec.ID

	if err := r.recordAlias(ctx, rec.ID, rawName, source, AliasNew, 0); err != nil {
		return nil, false, err
	}
	zap.L().Info("resolve: created employer",
		zap.String("name", rawName),
		zap.String("normalized", norm),
		zap.Int64("employer_id", rec.ID),
	)
	return rec, true, nil
}

func (r *Resolver) recordAlias(ctx context.Context, employerID int64, rawName, source, algorithm string, score float64) error {
	err := r.store.UpsertAlias(ctx, &Alias{
		EmployerID: employerID,
		RawName:    rawName,
		Source:     source,
		Algorithm:  algorithm,
		Score:      score,
	})
	return eris.Wrapf(err, "employer: record alias %q", rawName)
}

// BatchResult summarizes one ResolveBatch pass.
type BatchResult struct {
	RunID   string `json:"run_id"`
	Total   int    `json:"total"`
	Matched int    `json:"matched"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

// ResolveBatch resolves names in order under one run record. Names that
// fail to resolve are logged and counted as skipped; only store-level run
// bookkeeping failures abort the batch.
func (r *Resolver) ResolveBatch(ctx context.Context, names []string, source string) (*BatchResult, error) {
	run, err := r.store.CreateRun(ctx, source)
	if err != nil {
		return nil, eris.Wrap(err, "employer: create run")
	}

	result := &BatchResult{RunID: run.ID, Total: len(names)}
	for _, name := range names {
		_, created, err := r.Resolve(ctx, name, source)
		if err != nil {
			zap.L().Warn("resolve: skipping name",
				zap.String("name", name),
				zap.Error(err),
			)
			result.Skipped++
			continue
		}
		if created {
			result.Created++
		} else {
			result.Matched++
		}
	}

	stats := RunStats{
		Total:   result.Total,
		Matched: result.Matched,
		Created: result.Created,
		Skipped: result.Skipped,
	}
	if err := r.store.FinishRun(ctx, run.ID, RunStatusComplete, stats); err != nil {
		return nil, eris.Wrap(err, "employer: finish run")
	}

	zap.L().Info("batch resolved",
		zap.String("run_id", run.ID),
		zap.Int("total", result.Total),
		zap.Int("matched", result.Matched),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// ResolveBulk runs the same cascade as ResolveBatch but defers every write
// to the store's bulk machinery: names are classified in memory against the
// loaded index, new canonical records go through one set-based upsert, and
// all aliases land in a single COPY. Requires a store implementing
// BulkStore; a store-level failure marks the run failed and aborts.
func (r *Resolver) ResolveBulk(ctx context.Context, names []string, source string) (*BatchResult, error) {
	bulk, ok := r.store.(BulkStore)
	if !ok {
		return nil, eris.New("employer: store does not support bulk import")
	}

	run, err := r.store.CreateRun(ctx, source)
	if err != nil {
		return nil, eris.Wrap(err, "employer: create run")
	}
	result := &BatchResult{RunID: run.ID, Total: len(names)}

	var (
		pending    []Record
		pendingSet = make(map[string]struct{})
		aliases    []Alias
		aliasNorm  []string // normalized name backing aliases[i] while its record is pending
	)
	addAlias := func(id int64, norm, raw, algorithm string, score float64) {
		aliases = append(aliases, Alias{
			EmployerID: id,
			RawName:    raw,
			Source:     source,
			Algorithm:  algorithm,
			Score:      score,
		})
		aliasNorm = append(aliasNorm, norm)
	}

	for _, raw := range names {
		norm := normalize.Normalize(raw)
		if norm == "" {
			zap.L().Warn("bulk resolve: skipping name", zap.String("name", raw))
			result.Skipped++
			continue
		}
		if id, ok := r.byNorm[norm]; ok {
			result.Matched++
			addAlias(id, "", raw, AliasExact, 1.0)
			continue
		}
		if _, ok := pendingSet[norm]; ok {
			result.Matched++
			addAlias(0, norm, raw, AliasExact, 1.0)
			continue
		}

		var (
			bestNorm  string
			bestScore float64
		)
		for candidate := range r.index.FindCandidates(norm) {
			if !match.HybridMatch(norm, candidate, r.threshold) {
				continue
			}
			if score := match.CombinedScorer.Compare(norm, candidate); score > bestScore {
				bestNorm, bestScore = candidate, score
			}
		}
		if bestNorm != "" {
			result.Matched++
			if id, ok := r.byNorm[bestNorm]; ok {
				addAlias(id, "", raw, AliasHybrid, bestScore)
			} else {
				// Matched a record created earlier in this batch.
				addAlias(0, bestNorm, raw, AliasHybrid, bestScore)
			}
			continue
		}

		pendingSet[norm] = struct{}{}
		pending = append(pending, Record{
			CanonicalName:  raw,
			NormalizedName: norm,
			PhoneticKey:    match.MetaphoneKey.GenerateKey(raw),
		})
		r.index.Add(norm)
		result.Created++
		addAlias(0, norm, raw, AliasNew, 0)
	}

	stats := RunStats{
		Total:   result.Total,
		Matched: result.Matched,
		Created: result.Created,
		Skipped: result.Skipped,
	}
	fail := func(err error) (*BatchResult, error) {
		if ferr := r.store.FinishRun(ctx, run.ID, RunStatusFailed, stats); ferr != nil {
			zap.L().Warn("bulk resolve: marking run failed", zap.Error(ferr))
		}
		return nil, err
	}

	if len(pending) > 0 {
		if _, err := bulk.BulkUpsertEmployers(ctx, pending); err != nil {
			return fail(eris.Wrap(err, "employer: bulk upsert"))
		}
		for norm := range pendingSet {
			rec, err := r.store.GetByNormalizedName(ctx, norm)
			if err != nil {
				return fail(eris.Wrap(err, "employer: bulk lookup"))
			}
			if rec == nil {
				return fail(eris.Errorf("employer: upserted record %q missing from store", norm))
			}
			r.byNorm[norm] = rec.ID
		}
	}

	for i := range aliases {
		if aliases[i].EmployerID == 0 {
			aliases[i].EmployerID = r.byNorm[aliasNorm[i]]
		}
	}
	if len(aliases) > 0 {
		if _, err := bulk.BulkInsertAliases(ctx, aliases); err != nil {
			return fail(eris.Wrap(err, "employer: bulk insert aliases"))
		}
	}

	if err := r.store.FinishRun(ctx, run.ID, RunStatusComplete, stats); err != nil {
		return nil, eris.Wrap(err, "employer: finish run")
	}

	zap.L().Info("bulk batch resolved",
		zap.String("run_id", run.ID),
		zap.Int("total", result.Total),
		zap.Int("matched", result.Matched),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}
