package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/employer-resolve/internal/ingest"
)

// readNames loads employer names from a local CSV or XLSX file, or from an
// HTTP(S) URL pointing at a CSV. Column selection comes from config.
func readNames(ctx context.Context, source string) ([]string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return readNamesHTTP(ctx, source)
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".xlsx":
		return ingest.ReadXLSXNames(source, ingest.XLSXOptions{
			SheetIndex: cfg.Ingest.SheetIndex,
			SkipRows:   cfg.Ingest.SkipRows,
			NameColumn: cfg.Ingest.NameColumn,
		})
	case ".csv", ".txt", ".tsv":
		f, err := os.Open(source)
		if err != nil {
			return nil, eris.Wrapf(err, "open %s", source)
		}
		defer f.Close() //nolint:errcheck
		return ingest.ReadCSVNames(ctx, f, csvOptions(source))
	default:
		return nil, eris.Errorf("unsupported source file %q (want .csv, .tsv, .txt, or .xlsx)", source)
	}
}

func readNamesHTTP(ctx context.Context, rawURL string) ([]string, error) {
	fetcher := ingest.NewFetcher(ingest.HTTPOptions{
		Timeout:      time.Duration(cfg.Ingest.TimeoutSecs) * time.Second,
		MaxRetries:   cfg.Ingest.MaxRetries,
		RateLimiters: hostLimiters(),
	})
	body, err := fetcher.Download(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	return ingest.ReadCSVNames(ctx, body, csvOptions(rawURL))
}

// hostLimiters builds per-host rate limiters from the ingest config.
// Non-positive rates are ignored; an empty map leaves every host on the
// fetcher's default limiter.
func hostLimiters() map[string]*rate.Limiter {
	if len(cfg.Ingest.HostLimits) == 0 {
		return nil
	}
	limiters := make(map[string]*rate.Limiter, len(cfg.Ingest.HostLimits))
	for host, rps := range cfg.Ingest.HostLimits {
		if rps <= 0 {
			continue
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		limiters[host] = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return limiters
}

func csvOptions(source string) ingest.CSVOptions {
	opts := ingest.CSVOptions{
		HasHeader:  cfg.Ingest.NameHeader != "" || cfg.Ingest.SkipRows > 0,
		NameColumn: cfg.Ingest.NameColumn,
		NameHeader: cfg.Ingest.NameHeader,
	}
	if strings.HasSuffix(strings.ToLower(source), ".tsv") {
		opts.Delimiter = '\t'
	}
	return opts
}
