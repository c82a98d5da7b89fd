package batch

import (
	"encoding/json"
	"github.com/pkg/errors"
	"nlr/query"
)

// DecodeUnified reads a JSON array of line and point queries. Entries with a "slk" are point queries, all others are
// line queries. Invalid entries become null in the result, only a body that isn't a JSON array is rejected.
func DecodeUnified(data []byte) ([]Entry, error) {
	var rawEntries []json.RawMessage
	err := json.Unmarshal(data, &rawEntries)
	if err != nil {
		return nil, newDecodeError(0, errors.Wrap(err, "Expected a JSON array of queries"))
	}

	entries := make([]Entry, len(rawEntries))
	for i, rawEntry := range rawEntries {
		entries[i] = decodeUnifiedEntry(rawEntry)
	}

	return entries, nil
}

func decodeUnifiedEntry(rawEntry json.RawMessage) Entry {
	parameters, err := query.ParametersFromJson(rawEntry)
	if err != nil {
		return Entry{Err: err}
	}

	if parameters.IsPoint() {
		pointQuery, err := parameters.PointQuery()
		return Entry{Point: pointQuery, Err: err}
	}

	lineQuery, err := parameters.LineQuery()
	return Entry{Line: lineQuery, Err: err}
}
