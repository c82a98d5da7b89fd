package batch

import (
	"context"
	"encoding/json"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	ownIo "nlr/io"
	"nlr/query"
	"time"
)

// Entry is one query of a batch. Exactly one of Line and Point is set, unless the entry could not be decoded, in
// which case Err is set and the entry produces null.
type Entry struct {
	Line  *query.LineQuery
	Point *query.PointQuery
	Err   error
}

func LineEntries(queries []*query.LineQuery) []Entry {
	entries := make([]Entry, len(queries))
	for i, q := range queries {
		entries[i] = Entry{Line: q}
	}
	return entries
}

// Evaluate executes all entries concurrently with at most limit running at the same time (no limit for limit <= 0)
// and returns the JSON array of all results in the order of the entries. Failing entries are null and never fail the
// whole batch.
func Evaluate(ctx context.Context, executor *query.Executor, entries []Entry, limit int) ([]byte, error) {
	sigolo.Debugf("Evaluate batch of %d entries", len(entries))
	evaluationStartTime := time.Now()

	results := make([]json.RawMessage, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, entry := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := evaluateEntry(executor, entry)
			if err != nil {
				sigolo.Debugf("Batch entry %d failed and becomes null: %s", i, err.Error())
				return nil
			}

			// Each goroutine only writes its own slot
			results[i] = result
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, errors.Wrap(err, "Batch evaluation was cancelled")
	}

	data, err := json.Marshal(results)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to combine batch results")
	}

	sigolo.Debugf("Evaluated batch in %s", time.Since(evaluationStartTime))
	return data, nil
}

func evaluateEntry(executor *query.Executor, entry Entry) (json.RawMessage, error) {
	if entry.Err != nil {
		return nil, entry.Err
	}

	var data []byte
	var format query.Format

	if entry.Point != nil {
		results, err := executor.Points(entry.Point)
		if err != nil {
			return nil, err
		}
		format = entry.Point.Format
		data, err = ownIo.FormatPoints(results, format)
		if err != nil {
			return nil, err
		}
	} else if entry.Line != nil {
		results, err := executor.Lines(entry.Line)
		if err != nil {
			return nil, err
		}
		format = entry.Line.Format
		data, err = ownIo.FormatLines(results, format, entry.Line.Measure)
		if err != nil {
			return nil, err
		}
	} else {
		return nil, errors.New("Batch entry contains neither a line nor a point query")
	}

	return asJson(data, format)
}

// asJson embeds the textual formats as JSON strings so that the combined batch result stays valid JSON.
func asJson(data []byte, format query.Format) (json.RawMessage, error) {
	switch format {
	case query.FormatGeoJson, query.FormatJson:
		return data, nil
	case query.FormatWkt, query.FormatLatLon, query.FormatLatLonDir:
		return json.Marshal(string(data))
	}
	return nil, query.NewUnsupportedFormatError(format, "batch")
}
