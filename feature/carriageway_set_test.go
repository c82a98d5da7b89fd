package feature

import (
	"encoding/json"
	"nlr/util"
	"testing"
)

func TestCarriagewaySet_fromByteValidMasks(t *testing.T) {
	util.AssertEqual(t, CwyL, CarriagewaySetFromByte(0b0000_0100))
	util.AssertEqual(t, CwyR, CarriagewaySetFromByte(0b0000_0001))
	util.AssertEqual(t, CwyS, CarriagewaySetFromByte(0b0000_0010))
	util.AssertEqual(t, CwyLR, CarriagewaySetFromByte(0b0000_0101))
	util.AssertEqual(t, CwyLS, CarriagewaySetFromByte(0b0000_0110))
	util.AssertEqual(t, CwyRS, CarriagewaySetFromByte(0b0000_0011))
	util.AssertEqual(t, CwyLRS, CarriagewaySetFromByte(0b0000_0111))
}

func TestCarriagewaySet_fromByteUnknownMasks(t *testing.T) {
	for b := 0; b < 256; b++ {
		if b >= 1 && b <= 7 {
			continue
		}
		util.AssertEqual(t, CwyLRS, CarriagewaySetFromByte(byte(b)))
	}
}

func TestCarriagewaySet_byteRoundTrip(t *testing.T) {
	for _, set := range []CarriagewaySet{CwyL, CwyR, CwyS, CwyLR, CwyLS, CwyRS, CwyLRS} {
		util.AssertEqual(t, set, CarriagewaySetFromByte(set.Byte()))
	}
}

func TestCarriagewaySet_parsePermutations(t *testing.T) {
	expectations := map[string]CarriagewaySet{
		"L":   CwyL,
		"R":   CwyR,
		"S":   CwyS,
		"LR":  CwyLR,
		"RL":  CwyLR,
		"LS":  CwyLS,
		"SL":  CwyLS,
		"RS":  CwyRS,
		"SR":  CwyRS,
		"LRS": CwyLRS,
		"LSR": CwyLRS,
		"RLS": CwyLRS,
		"RSL": CwyLRS,
		"SLR": CwyLRS,
		"SRL": CwyLRS,
	}

	for input, expected := range expectations {
		// Act
		set, err := ParseCarriagewaySet(input)

		// Assert
		util.AssertNil(t, err)
		util.AssertEqual(t, expected, set)
	}
}

func TestCarriagewaySet_parseInvalid(t *testing.T) {
	for _, input := range []string{"", "2", "LL", "l", "LRSL", "X"} {
		_, err := ParseCarriagewaySet(input)
		util.AssertNotNil(t, err)
	}
}

func TestCarriagewaySet_carriagewaysInFixedOrder(t *testing.T) {
	util.AssertEqual(t, []Carriageway{Left, Right, Single}, CwyLRS.Carriageways())
	util.AssertEqual(t, []Carriageway{Right, Single}, CwyRS.Carriageways())
	util.AssertEqual(t, []Carriageway{Left}, CwyL.Carriageways())
}

func TestCarriagewaySet_contains(t *testing.T) {
	util.AssertTrue(t, CwyLS.Contains(Left))
	util.AssertFalse(t, CwyLS.Contains(Right))
	util.AssertTrue(t, CwyLS.Contains(Single))
}

func TestCarriagewaySet_string(t *testing.T) {
	util.AssertEqual(t, "LRS", CwyLRS.String())
	util.AssertEqual(t, "RS", CwyRS.String())
}

func TestCarriagewaySet_json(t *testing.T) {
	// Arrange
	var set CarriagewaySet

	// Act
	err := json.Unmarshal([]byte(`"SR"`), &set)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, CwyRS, set)

	err = json.Unmarshal([]byte(`7`), &set)
	util.AssertNotNil(t, err)
}
