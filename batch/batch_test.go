package batch

import (
	"context"
	"encoding/json"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"math"
	"nlr/feature"
	"nlr/index"
	"nlr/query"
	"nlr/util"
	"testing"
)

func testExecutor(t *testing.T) *query.Executor {
	spatialIndex, err := index.Build(feature.NewStore([]feature.Feature{
		{
			Attributes: feature.Attributes{Road: "H001", Carriageway: feature.Left, StartSlk: 0, EndSlk: 2},
			Geometry:   orb.LineString{{0, 0}, {1, 0}, {1, 1}},
		},
		{
			Attributes: feature.Attributes{Road: "H016", Carriageway: feature.Single, StartSlk: 0, EndSlk: 1},
			Geometry:   orb.LineString{{5, 5}, {6, 5}},
		},
	}))
	util.AssertNil(t, err)
	return query.NewExecutor(spatialIndex)
}

func TestCodec_roundTrip(t *testing.T) {
	// Arrange
	queries := []*query.LineQuery{
		{Road: "H001", SlkFrom: 0.5, SlkTo: 1.5, Offset: -10, Carriageways: feature.CwyL, Format: query.FormatJson},
		{Road: "M010", SlkFrom: 10, SlkTo: 20, Offset: 0, Carriageways: feature.CwyRS, Format: query.FormatJson},
		{Road: "Ünïcödé", SlkFrom: float32(math.Inf(-1)), SlkTo: float32(math.Inf(1)), Offset: 3.5, Carriageways: feature.CwyLRS, Format: query.FormatJson},
	}

	// Act
	data, err := Encode(queries)
	util.AssertNil(t, err)
	decoded, err := Decode(data)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, queries, decoded)
}

func TestCodec_wireLayout(t *testing.T) {
	// Arrange
	queries := []*query.LineQuery{{Road: "H001", SlkFrom: 1, SlkTo: 2, Offset: 0, Carriageways: feature.CwyL}}

	// Act
	data, err := Encode(queries)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, 1+4+4+4+4+1, len(data))
	util.AssertEqual(t, byte(4), data[0])
	util.AssertEqual(t, "H001", string(data[1:5]))
	util.AssertEqual(t, []byte{0x00, 0x00, 0x80, 0x3f}, data[5:9]) // 1.0 as little-endian float32
	util.AssertEqual(t, byte(0x04), data[17])
}

func TestCodec_unknownMaskSelectsAllCarriageways(t *testing.T) {
	// Arrange
	data := []byte{1, 'H', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff}

	// Act
	decoded, err := Decode(data)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, 1, len(decoded))
	util.AssertEqual(t, feature.CwyLRS, decoded[0].Carriageways)
}

func TestCodec_emptyBody(t *testing.T) {
	// Act
	decoded, err := Decode([]byte{})

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, 0, len(decoded))
}

func TestCodec_truncatedEntry(t *testing.T) {
	// Arrange
	data, err := Encode([]*query.LineQuery{
		{Road: "H001", SlkFrom: 1, SlkTo: 2, Carriageways: feature.CwyL},
		{Road: "H002", SlkFrom: 1, SlkTo: 2, Carriageways: feature.CwyL},
	})
	util.AssertNil(t, err)

	// Act
	decoded, err := Decode(data[:len(data)-3])

	// Assert
	util.AssertNil(t, decoded)
	var decodeError *DecodeError
	util.AssertTrue(t, errors.As(err, &decodeError))
	util.AssertEqual(t, 18, decodeError.Position)
	util.AssertTrue(t, errors.Is(err, util.ErrUnexpectedEnd))
}

func TestCodec_invalidUtf8(t *testing.T) {
	// Arrange
	data := []byte{2, 0xc3, 0x28, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x04}

	// Act
	decoded, err := Decode(data)

	// Assert
	util.AssertNil(t, decoded)
	var decodeError *DecodeError
	util.AssertTrue(t, errors.As(err, &decodeError))
}

func TestEvaluate_keepsOrderAndDegradesToNull(t *testing.T) {
	// Arrange
	entries := LineEntries([]*query.LineQuery{
		{Road: "H016", SlkFrom: 0, SlkTo: 1, Carriageways: feature.CwyLRS, Format: query.FormatJson},
		{Road: "X999", SlkFrom: 0, SlkTo: 1, Carriageways: feature.CwyLRS, Format: query.FormatJson},
		{Road: "H001", SlkFrom: 0, SlkTo: 1, Carriageways: feature.CwyL, Format: query.FormatJson},
	})

	// Act
	data, err := Evaluate(context.Background(), testExecutor(t), entries, 2)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, "[[[[5,5],[6,5]]],null,[[[0,0],[1,0]]]]", string(data))
}

func TestEvaluate_emptyBatch(t *testing.T) {
	// Act
	data, err := Evaluate(context.Background(), testExecutor(t), nil, 4)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, "[]", string(data))
}

func TestEvaluate_cancelledContext(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	entries := LineEntries([]*query.LineQuery{{Road: "H001", SlkFrom: 0, SlkTo: 1, Carriageways: feature.CwyL, Format: query.FormatJson}})

	// Act
	data, err := Evaluate(ctx, testExecutor(t), entries, 1)

	// Assert
	util.AssertNil(t, data)
	util.AssertTrue(t, errors.Is(err, context.Canceled))
}

func TestDecodeUnified_mixedQueries(t *testing.T) {
	// Arrange
	body := []byte(`[
		{"road":"H001","slk_from":0,"slk_to":1,"f":"json"},
		{"road":"H016","slk":0.5,"f":"latlon"},
		{"road":"H016","slk":0.5,"m":true},
		{"road":"H015","slk":10,"f":"json"}
	]`)

	// Act
	entries, err := DecodeUnified(body)
	util.AssertNil(t, err)
	data, err := Evaluate(context.Background(), testExecutor(t), entries, 0)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, 4, len(entries))
	util.AssertNotNil(t, entries[0].Line)
	util.AssertNotNil(t, entries[1].Point)
	util.AssertNotNil(t, entries[2].Err)

	var results []json.RawMessage
	util.AssertNil(t, json.Unmarshal(data, &results))
	util.AssertEqual(t, 4, len(results))
	util.AssertEqual(t, "[[[0,0],[1,0]]]", string(results[0]))
	util.AssertEqual(t, `"5,5.5"`, string(results[1]))
	util.AssertEqual(t, "null", string(results[2]))
	util.AssertEqual(t, "null", string(results[3]))
}

func TestDecodeUnified_notAnArray(t *testing.T) {
	// Act
	entries, err := DecodeUnified([]byte(`{"road":"H001"}`))

	// Assert
	util.AssertNil(t, entries)
	var decodeError *DecodeError
	util.AssertTrue(t, errors.As(err, &decodeError))
}
