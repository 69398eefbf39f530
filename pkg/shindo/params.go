package shindo

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// JST is the fixed +09:00 zone every timestamp of the service is expressed in.
var JST = time.FixedZone("JST", 9*60*60)

// wildcard is the form value meaning "no restriction" for list filters.
const wildcard = "99"

var timeLayouts = []string{
	"2006/01/02 15:04",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006-01-02",
}

// ParseTime parses a search bound in JST. Accepted forms are
// "YYYY/MM/DD HH:MM", "YYYY-MM-DD HH:MM" and the date-only variants.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, JST); err == nil {
			return t, nil
		}
	}
	return time.Time{}, eris.Wrapf(ErrInvalidParams, "time %q: want YYYY/MM/DD HH:MM or YYYY-MM-DD HH:MM", s)
}

// Range is an inclusive interval.
type Range[T int | float64] struct {
	Min T `json:"min" yaml:"min"`
	Max T `json:"max" yaml:"max"`
}

// Defaults applied when a range is left nil.
var (
	DefaultMagnitude = Range[float64]{Min: 0.0, Max: 9.9}
	DefaultDepth     = Range[int]{Min: 0, Max: 999}
)

// Query holds the conditions shared by earthquake and statistics searches.
// All conditions are ANDed except the three station filters, which the server
// narrows by precedence: Stations over StationCities over StationPrefectures.
type Query struct {
	Start time.Time
	End   time.Time

	// Magnitude and Depth (km) default to DefaultMagnitude and DefaultDepth.
	Magnitude *Range[float64]
	Depth     *Range[int]

	// MaxIntensity is the lower bound on the event's maximum intensity.
	// Defaults to Level1.
	MaxIntensity Level

	// Station filters take codes or Japanese names.
	StationPrefectures []string
	StationCities      []string
	Stations           []string
	// StationIntensity is the lower bound on intensity observed at the
	// filtered stations.
	StationIntensity Level

	EpicenterRegions []string
	EpicenterArea    *Area
}

// SearchParams are the inputs of an earthquake search.
type SearchParams struct {
	Query
	Sort SortOrder
}

// StatisticsParams are the inputs of a statistics search.
type StatisticsParams struct {
	Query
	Aggregation Aggregation
}

// hasStationFilter reports whether any observing-station condition is set.
func (q *Query) hasStationFilter() bool {
	return len(q.StationPrefectures) > 0 || len(q.StationCities) > 0 ||
		len(q.Stations) > 0 || q.StationIntensity != LevelUnknown
}

func (q *Query) hasAdditional() bool {
	return q.hasStationFilter() || len(q.EpicenterRegions) > 0 || q.EpicenterArea != nil
}

func (q *Query) validate() error {
	if q.Start.IsZero() || q.End.IsZero() {
		return eris.Wrap(ErrInvalidParams, "start and end are required")
	}
	if q.End.Before(q.Start) {
		return eris.Wrapf(ErrInvalidParams, "end %s is before start %s", q.End.Format(time.DateTime), q.Start.Format(time.DateTime))
	}
	if m := q.Magnitude; m != nil && m.Min > m.Max {
		return eris.Wrapf(ErrInvalidParams, "magnitude range %v > %v", m.Min, m.Max)
	}
	if d := q.Depth; d != nil {
		if d.Min > d.Max {
			return eris.Wrapf(ErrInvalidParams, "depth range %d > %d", d.Min, d.Max)
		}
		if d.Min < 0 {
			return eris.Wrapf(ErrInvalidParams, "depth %d is negative", d.Min)
		}
	}
	if q.MaxIntensity != LevelUnknown && !q.MaxIntensity.Valid() {
		return eris.Wrapf(ErrInvalidParams, "max intensity %d", int(q.MaxIntensity))
	}
	if q.StationIntensity != LevelUnknown && !q.StationIntensity.Valid() {
		return eris.Wrapf(ErrInvalidParams, "station intensity %d", int(q.StationIntensity))
	}
	return nil
}

func (p *SearchParams) validate() error {
	if err := p.Query.validate(); err != nil {
		return err
	}
	_, err := p.Sort.code()
	return err
}

func (p *StatisticsParams) validate() error {
	if err := p.Query.validate(); err != nil {
		return err
	}
	_, err := p.Aggregation.code()
	return err
}

// stationCodes are the resolved numeric codes of the station filters.
type stationCodes struct {
	prefectures []int
	cities      []int
	stations    []int
}

// encode builds the form fields shared by both search modes.
func (q *Query) encode(codes stationCodes) url.Values {
	mag := DefaultMagnitude
	if q.Magnitude != nil {
		mag = *q.Magnitude
	}
	dep := DefaultDepth
	if q.Depth != nil {
		dep = *q.Depth
	}
	maxInt := q.MaxIntensity
	if maxInt == LevelUnknown {
		maxInt = Level1
	}
	obsInt := q.StationIntensity
	if obsInt == LevelUnknown {
		obsInt = Level1
	}

	v := url.Values{}
	v.Set("mode", "search")
	v["dateTimeF[]"] = formatTime(q.Start)
	v["dateTimeT[]"] = formatTime(q.End)
	v["mag[]"] = []string{formatFloat(mag.Min), formatFloat(mag.Max)}
	v["dep[]"] = []string{strconv.Itoa(dep.Min), strconv.Itoa(dep.Max)}
	v.Set("maxInt", maxInt.Code())
	v.Set("additionalC", strconv.FormatBool(q.hasAdditional()))
	v.Set("observed", strconv.FormatBool(q.hasStationFilter()))
	v["pref[]"] = codeList(codes.prefectures)
	v["city[]"] = codeList(codes.cities)
	v["station[]"] = codeList(codes.stations)
	v.Set("obsInt", obsInt.Code())
	if len(q.EpicenterRegions) > 0 {
		v["epi[]"] = append([]string(nil), q.EpicenterRegions...)
	} else {
		v["epi[]"] = []string{wildcard}
	}
	if q.EpicenterArea != nil {
		for i, c := range q.EpicenterArea.Corners() {
			v["boundsAr["+strconv.Itoa(i)+"][]"] = []string{formatFloat(c.Lat), formatFloat(c.Lon)}
		}
	}
	return v
}

// encode builds the form of an earthquake search.
func (p *SearchParams) encode(codes stationCodes) (url.Values, error) {
	sort, err := p.Sort.code()
	if err != nil {
		return nil, err
	}
	v := p.Query.encode(codes)
	v.Set("Sort", sort)
	v.Set("Comp", "C0")
	v.Set("seisCount", "false")
	return v, nil
}

// encode builds the form of a statistics search.
func (p *StatisticsParams) encode(codes stationCodes) (url.Values, error) {
	comp, err := p.Aggregation.code()
	if err != nil {
		return nil, err
	}
	v := p.Query.encode(codes)
	v.Set("Sort", "S0")
	v.Set("Comp", comp)
	v.Set("seisCount", "true")
	return v, nil
}

// eventForm builds the form of a per-event intensity lookup.
func eventForm(id string) url.Values {
	return url.Values{"mode": {"event"}, "id": {id}}
}

func formatTime(t time.Time) []string {
	t = t.In(JST)
	return []string{t.Format("2006-01-02"), t.Format("15:04")}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func codeList(codes []int) []string {
	if len(codes) == 0 {
		return []string{wildcard}
	}
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = strconv.Itoa(c)
	}
	return out
}
