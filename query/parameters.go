package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"nlr/feature"
	"strconv"
)

// Parameters are the raw, not yet validated query parameters of a line or point query. Absent parameters are nil.
type Parameters struct {
	Road    *string  `json:"road"`
	Slk     *float64 `json:"slk"`
	SlkFrom *float64 `json:"slk_from"`
	SlkTo   *float64 `json:"slk_to"`
	Cwy     *string  `json:"cwy"`
	Offset  *float64 `json:"offset"`
	F       *string  `json:"f"`
	M       *bool    `json:"m"`
}

// ParametersFromValues reads the parameters of a URL query string. Unknown and repeated parameters are rejected.
func ParametersFromValues(values url.Values) (*Parameters, error) {
	parameters := &Parameters{}

	for key, entries := range values {
		if len(entries) != 1 {
			return nil, newParameterError(key, "Parameter must be given exactly once")
		}
		value := entries[0]

		var err error
		switch key {
		case "road":
			parameters.Road = &value
		case "slk":
			parameters.Slk, err = parseFloatParameter(key, value)
		case "slk_from":
			parameters.SlkFrom, err = parseFloatParameter(key, value)
		case "slk_to":
			parameters.SlkTo, err = parseFloatParameter(key, value)
		case "cwy":
			parameters.Cwy = &value
		case "offset":
			parameters.Offset, err = parseFloatParameter(key, value)
		case "f":
			parameters.F = &value
		case "m":
			var m bool
			m, err = strconv.ParseBool(value)
			if err != nil {
				err = newParameterError(key, fmt.Sprintf("'%s' is not a boolean", value))
			}
			parameters.M = &m
		default:
			err = newParameterError(key, "Unknown parameter")
		}

		if err != nil {
			return nil, err
		}
	}

	return parameters, nil
}

// ParametersFromJson reads the parameters of a JSON object. Unknown fields are rejected.
func ParametersFromJson(data []byte) (*Parameters, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	parameters := &Parameters{}
	err := decoder.Decode(parameters)
	if err != nil {
		return nil, newParameterError("body", fmt.Sprintf("Unable to read JSON parameters: %s", err.Error()))
	}

	return parameters, nil
}

func parseFloatParameter(key string, value string) (*float64, error) {
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return nil, newParameterError(key, fmt.Sprintf("'%s' is not a number", value))
	}
	return &f, nil
}

// IsPoint is true when the parameters describe a point query, which is the case when the single slk is given.
func (p *Parameters) IsPoint() bool {
	return p.Slk != nil
}

func (p *Parameters) LineQuery() (*LineQuery, error) {
	if p.Slk != nil {
		return nil, newParameterError("slk", "Not supported by line queries, use slk_from and slk_to")
	}

	q := &LineQuery{
		SlkFrom:      float32(math.Inf(-1)),
		SlkTo:        float32(math.Inf(1)),
		Carriageways: feature.CwyLRS,
		Format:       FormatGeoJson,
	}

	var err error
	q.Road, err = p.road()
	if err != nil {
		return nil, err
	}

	if p.SlkFrom != nil {
		if math.IsNaN(*p.SlkFrom) {
			return nil, newParameterError("slk_from", "NaN is not allowed")
		}
		q.SlkFrom = float32(*p.SlkFrom)
	}

	if p.SlkTo != nil {
		if math.IsNaN(*p.SlkTo) {
			return nil, newParameterError("slk_to", "NaN is not allowed")
		}
		q.SlkTo = float32(*p.SlkTo)
	}

	q.Carriageways, err = p.carriageways()
	if err != nil {
		return nil, err
	}

	q.Offset, err = p.offset()
	if err != nil {
		return nil, err
	}

	q.Format, err = p.format()
	if err != nil {
		return nil, err
	}

	if p.M != nil {
		q.Measure = *p.M
	}

	return q, nil
}

func (p *Parameters) PointQuery() (*PointQuery, error) {
	if p.SlkFrom != nil {
		return nil, newParameterError("slk_from", "Not supported by point queries, use slk")
	}
	if p.SlkTo != nil {
		return nil, newParameterError("slk_to", "Not supported by point queries, use slk")
	}
	if p.M != nil {
		return nil, newParameterError("m", "Measured output is not supported by point queries")
	}

	q := &PointQuery{}

	var err error
	q.Road, err = p.road()
	if err != nil {
		return nil, err
	}

	if p.Slk == nil {
		return nil, newParameterError("slk", "Parameter is required")
	}
	if math.IsNaN(*p.Slk) || math.IsInf(*p.Slk, 0) {
		return nil, newParameterError("slk", "Value must be a finite number")
	}
	q.Slk = float32(*p.Slk)

	q.Carriageways, err = p.carriageways()
	if err != nil {
		return nil, err
	}

	q.Offset, err = p.offset()
	if err != nil {
		return nil, err
	}

	q.Format, err = p.format()
	if err != nil {
		return nil, err
	}

	return q, nil
}

func (p *Parameters) road() (string, error) {
	if p.Road == nil {
		return "", newParameterError("road", "Parameter is required")
	}
	return *p.Road, nil
}

func (p *Parameters) carriageways() (feature.CarriagewaySet, error) {
	if p.Cwy == nil {
		return feature.CwyLRS, nil
	}

	set, err := feature.ParseCarriagewaySet(*p.Cwy)
	if err != nil {
		return feature.CwyLRS, newParameterError("cwy", err.Error())
	}
	return set, nil
}

// offset returns the offset in metres. NaN counts as no offset, infinite offsets are rejected.
func (p *Parameters) offset() (float32, error) {
	if p.Offset == nil || math.IsNaN(*p.Offset) {
		return 0, nil
	}
	if math.IsInf(*p.Offset, 0) {
		return 0, newParameterError("offset", "Value must be a finite number")
	}
	return float32(*p.Offset), nil
}

func (p *Parameters) format() (Format, error) {
	if p.F == nil {
		return FormatGeoJson, nil
	}
	return ParseFormat(*p.F)
}
