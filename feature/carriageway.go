package feature

import (
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
)

// Carriageway is one physical roadway of a road. The order of the constants is the sort order of the feature store.
type Carriageway int

const (
	Left Carriageway = iota
	Right
	Single
)

var allCarriageways = []Carriageway{Left, Right, Single}

func (c Carriageway) String() string {
	switch c {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Single:
		return "Single"
	}
	return fmt.Sprintf("[!UNKNOWN Carriageway %d]", int(c))
}

// ParseCarriageway accepts the full names used in the source data ("Left", "Right", "Single") as well as their first
// letter.
func ParseCarriageway(s string) (Carriageway, error) {
	switch s {
	case "Left", "L":
		return Left, nil
	case "Right", "R":
		return Right, nil
	case "Single", "S":
		return Single, nil
	}
	return -1, errors.Errorf("Unknown carriageway '%s'", s)
}

func (c Carriageway) MarshalJSON() ([]byte, error) {
	switch c {
	case Left, Right, Single:
		return json.Marshal(c.String())
	}
	return nil, errors.Errorf("Unable to marshal unknown carriageway %d", int(c))
}

func (c *Carriageway) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return errors.Wrap(err, "Carriageway must be a string")
	}

	parsed, err := ParseCarriageway(s)
	if err != nil {
		return err
	}

	*c = parsed
	return nil
}
