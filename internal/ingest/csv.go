// Package ingest reads raw employer name lists out of CSV, XLSX, and HTTP
// sources and hands them to the resolver as plain strings.
package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the streaming CSV reader.
type CSVOptions struct {
	Delimiter  rune   // default ','
	HasHeader  bool   // if true, the first row is a header
	NameColumn int    // zero-based index of the employer name column
	NameHeader string // if set and HasHeader, resolves the column by header label
	Comment    rune   // comment character (0 = none)
	LazyQuotes bool
}

// StreamCSV reads CSV rows and sends them to a channel. The caller must
// consume the returned row channel; errors arrive on the error channel.
// Both channels are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1 // allow variable fields

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// ReadCSVNames extracts the employer name column from a CSV stream. Blank
// names are dropped; surrounding whitespace is trimmed.
func ReadCSVNames(ctx context.Context, r io.Reader, opts CSVOptions) ([]string, error) {
	rowCh, errCh := StreamCSV(ctx, r, opts)

	col := opts.NameColumn
	first := opts.HasHeader
	var names []string
	for row := range rowCh {
		if first {
			first = false
			if opts.NameHeader != "" {
				idx, err := headerIndex(row, opts.NameHeader)
				if err != nil {
					// Drain so the stream goroutine can exit.
					for range rowCh {
					}
					<-errCh
					return nil, err
				}
				col = idx
			}
			continue
		}
		if col >= len(row) {
			continue
		}
		if name := strings.TrimSpace(row[col]); name != "" {
			names = append(names, name)
		}
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return names, nil
}

func headerIndex(header []string, label string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), label) {
			return i, nil
		}
	}
	return 0, eris.Errorf("csv: header %q not found", label)
}
