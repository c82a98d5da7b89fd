package batch

import (
	"github.com/pkg/errors"
	"nlr/feature"
	"nlr/query"
	"nlr/util"
)

// wireQuery is one entry of a binary batch request:
//
//	[1B road length N][N B road, UTF-8][4B slk_from f32][4B slk_to f32][4B offset metres f32][1B carriageway mask]
//
// All numbers are little-endian.
type wireQuery struct {
	Road         string
	SlkFrom      float32
	SlkTo        float32
	Offset       float32
	Carriageways byte
}

var wireSchema = util.BinarySchema{
	Items: []util.BinaryItem{
		&util.BinaryStringItem{FieldName: "Road"},
		&util.BinaryDataItem{FieldName: "SlkFrom", BinaryType: util.DatatypeFloat32},
		&util.BinaryDataItem{FieldName: "SlkTo", BinaryType: util.DatatypeFloat32},
		&util.BinaryDataItem{FieldName: "Offset", BinaryType: util.DatatypeFloat32},
		&util.BinaryDataItem{FieldName: "Carriageways", BinaryType: util.DatatypeByte},
	},
}

// Decode reads all line queries of a binary batch request. The wire format has no format selector, so all queries
// produce JSON. Unknown carriageway masks select all carriageways.
func Decode(data []byte) ([]*query.LineQuery, error) {
	var queries []*query.LineQuery

	for index := 0; index < len(data); {
		entry := wireQuery{}

		nextIndex, err := wireSchema.Read(&entry, data, index)
		if err != nil {
			return nil, newDecodeError(index, err)
		}

		queries = append(queries, &query.LineQuery{
			Road:         entry.Road,
			SlkFrom:      entry.SlkFrom,
			SlkTo:        entry.SlkTo,
			Carriageways: feature.CarriagewaySetFromByte(entry.Carriageways),
			Offset:       entry.Offset,
			Format:       query.FormatJson,
		})

		index = nextIndex
	}

	return queries, nil
}

// Encode writes the queries in the binary batch format. Formats and measure flags of the queries are not part of the
// wire format.
func Encode(queries []*query.LineQuery) ([]byte, error) {
	var data []byte

	for i, q := range queries {
		entry := wireQuery{
			Road:         q.Road,
			SlkFrom:      q.SlkFrom,
			SlkTo:        q.SlkTo,
			Offset:       q.Offset,
			Carriageways: q.Carriageways.Byte(),
		}

		entryData, err := wireSchema.Marshal(&entry)
		if err != nil {
			return nil, errors.Wrapf(err, "Unable to encode batch entry %d", i)
		}

		data = append(data, entryData...)
	}

	return data, nil
}
