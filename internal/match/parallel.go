package match

import (
	"context"
	"runtime"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BuildIndexParallel builds a blocking index over names using workers
// goroutines. Each worker indexes a disjoint shard into its own partial
// index; partials merge by bucket union, so the result is identical to a
// sequential BuildIndex over the same names. workers <= 0 uses GOMAXPROCS.
func BuildIndexParallel(ctx context.Context, names []string, cfg Config, workers int) (*BlockingIndex, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(names) {
		workers = len(names)
	}
	if workers <= 1 {
		return BuildIndex(names, cfg), nil
	}

	partials := make([]*BlockingIndex, workers)
	chunk := (len(names) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(names))
		g.Go(func() error {
			idx := NewBlockingIndex(cfg)
			for _, name := range names[start:end] {
				if err := ctx.Err(); err != nil {
					return eris.Wrap(err, "match: index build cancelled")
				}
				idx.Add(name)
			}
			partials[w] = idx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := partials[0]
	for _, partial := range partials[1:] {
		idx.Merge(partial)
	}

	zap.L().Debug("blocking index built",
		zap.Int("names", len(names)),
		zap.Int("workers", workers),
		zap.Int("keys", idx.Keys()),
	)
	return idx, nil
}
