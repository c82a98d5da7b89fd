package feature

import (
	"encoding/json"
	"github.com/pkg/errors"
	"strings"
)

// CarriagewaySet selects one or more carriageways of a road. The bit layout is the one of the binary batch format:
// 0x04 = left, 0x01 = right, 0x02 = single.
type CarriagewaySet byte

const (
	CwyR   CarriagewaySet = 0b0000_0001
	CwyS   CarriagewaySet = 0b0000_0010
	CwyL   CarriagewaySet = 0b0000_0100
	CwyLR                 = CwyL | CwyR
	CwyLS                 = CwyL | CwyS
	CwyRS                 = CwyR | CwyS
	CwyLRS                = CwyL | CwyR | CwyS
)

// CarriagewaySetFromByte decodes the bitmask of the batch format. Every byte that is not one of the seven valid
// combinations selects all carriageways.
func CarriagewaySetFromByte(b byte) CarriagewaySet {
	switch set := CarriagewaySet(b); set {
	case CwyL, CwyR, CwyS, CwyLR, CwyLS, CwyRS, CwyLRS:
		return set
	}
	return CwyLRS
}

// ParseCarriagewaySet parses strings like "L", "RS" or "SRL". The letters may appear in any order but each only once.
func ParseCarriagewaySet(s string) (CarriagewaySet, error) {
	if s == "" || len(s) > 3 {
		return 0, errors.Errorf("Invalid carriageway selection '%s'", s)
	}

	var set CarriagewaySet
	for _, r := range s {
		var bit CarriagewaySet
		switch r {
		case 'L':
			bit = CwyL
		case 'R':
			bit = CwyR
		case 'S':
			bit = CwyS
		default:
			return 0, errors.Errorf("Invalid carriageway selection '%s': unknown carriageway '%c'", s, r)
		}

		if set&bit != 0 {
			return 0, errors.Errorf("Invalid carriageway selection '%s': carriageway '%c' given twice", s, r)
		}
		set |= bit
	}

	return set, nil
}

func (s CarriagewaySet) Contains(c Carriageway) bool {
	switch c {
	case Left:
		return s&CwyL != 0
	case Right:
		return s&CwyR != 0
	case Single:
		return s&CwyS != 0
	}
	return false
}

// Carriageways returns the selected carriageways in the fixed order Left, Right, Single.
func (s CarriagewaySet) Carriageways() []Carriageway {
	var result []Carriageway
	for _, c := range allCarriageways {
		if s.Contains(c) {
			result = append(result, c)
		}
	}
	return result
}

func (s CarriagewaySet) Byte() byte {
	return byte(s)
}

func (s CarriagewaySet) String() string {
	var sb strings.Builder
	for _, c := range s.Carriageways() {
		sb.WriteString(c.String()[:1])
	}
	return sb.String()
}

func (s CarriagewaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CarriagewaySet) UnmarshalJSON(data []byte) error {
	var str string
	err := json.Unmarshal(data, &str)
	if err != nil {
		return errors.Wrap(err, "Carriageway selection must be a string")
	}

	parsed, err := ParseCarriagewaySet(str)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}
