package shindo

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/width"
)

// Level is a JMA seismic intensity class.
type Level int

// Intensity classes in ascending order.
const (
	LevelUnknown Level = iota
	Level1
	Level2
	Level3
	Level4
	Level5Lower
	Level5Upper
	Level6Lower
	Level6Upper
	Level7
)

var levelCodes = map[Level]string{
	Level1:      "1",
	Level2:      "2",
	Level3:      "3",
	Level4:      "4",
	Level5Lower: "A",
	Level5Upper: "B",
	Level6Lower: "C",
	Level6Upper: "D",
	Level7:      "7",
}

var levelNames = map[Level]string{
	Level1:      "1",
	Level2:      "2",
	Level3:      "3",
	Level4:      "4",
	Level5Lower: "5L",
	Level5Upper: "5H",
	Level6Lower: "6L",
	Level6Upper: "6H",
	Level7:      "7",
}

// labels as printed by the API, after width folding.
var levelLabels = map[string]Level{
	"震度1":  Level1,
	"震度2":  Level2,
	"震度3":  Level3,
	"震度4":  Level4,
	"震度5弱": Level5Lower,
	"震度5強": Level5Upper,
	"震度6弱": Level6Lower,
	"震度6強": Level6Upper,
	"震度7":  Level7,
}

// Code returns the form value the API expects for the level.
func (l Level) Code() string { return levelCodes[l] }

// String returns the short name (1, 2, 3, 4, 5L, 5H, 6L, 6H, 7).
func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether l is one of the nine intensity classes.
func (l Level) Valid() bool { return l >= Level1 && l <= Level7 }

// MarshalText encodes the level by its short name.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, eris.Errorf("shindo: invalid intensity level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText accepts anything ParseLevel does.
func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ParseLevel parses a user supplied intensity: 1-4 and 7, 5L/5H/6L/6H, or the
// wire codes A-D. Full-width digits and letters are accepted.
func ParseLevel(s string) (Level, error) {
	v := strings.ToUpper(strings.TrimSpace(width.Fold.String(s)))
	switch v {
	case "5L", "5-", "A":
		return Level5Lower, nil
	case "5H", "5U", "5+", "B":
		return Level5Upper, nil
	case "6L", "6-", "C":
		return Level6Lower, nil
	case "6H", "6U", "6+", "D":
		return Level6Upper, nil
	}
	for l, code := range levelCodes {
		if code == v {
			return l, nil
		}
	}
	return LevelUnknown, eris.Wrapf(ErrInvalidParams, "intensity %q", s)
}

// parseLevelLabel decodes the API's label form, e.g. 震度５弱.
func parseLevelLabel(s string) (Level, error) {
	if l, ok := levelLabels[strings.TrimSpace(width.Fold.String(s))]; ok {
		return l, nil
	}
	return LevelUnknown, eris.Errorf("shindo: unknown intensity label %q", s)
}

// SortOrder selects the ordering of earthquake search results.
type SortOrder string

// Sort orders understood by the API.
const (
	SortStart     SortOrder = "start"
	SortEnd       SortOrder = "end"
	SortIntensity SortOrder = "intensity"
	SortScale     SortOrder = "scale"
)

func (s SortOrder) code() (string, error) {
	switch s {
	case SortStart, "":
		return "S0", nil
	case SortEnd:
		return "S1", nil
	case SortIntensity:
		return "S2", nil
	case SortScale:
		return "S4", nil
	}
	return "", eris.Wrapf(ErrInvalidParams, "sort order %q", string(s))
}

// Aggregation selects the bucket width of a statistics search.
type Aggregation string

// Aggregations. AggregateAuto lets the server pick by search duration.
const (
	AggregateAuto  Aggregation = "auto"
	AggregateDay   Aggregation = "day"
	AggregateMonth Aggregation = "month"
	AggregateYear  Aggregation = "year"
)

func (a Aggregation) code() (string, error) {
	switch a {
	case AggregateAuto, "":
		return "C0", nil
	case AggregateDay:
		return "C1", nil
	case AggregateMonth:
		return "C2", nil
	case AggregateYear:
		return "C3", nil
	}
	return "", eris.Wrapf(ErrInvalidParams, "aggregation %q", string(a))
}

// Unit is the width of a statistics bucket.
type Unit string

// Bucket units as reported by the API.
const (
	UnitYear  Unit = "year"
	UnitMonth Unit = "month"
	UnitDay   Unit = "day"
	UnitHour  Unit = "hour"
)
