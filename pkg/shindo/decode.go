package shindo

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/width"
)

// summaryLabel marks the totals row of a statistics response.
const summaryLabel = "合計"

// veryShallow is printed in place of a depth for events near the surface.
const veryShallow = "ごく浅い"

// text is a JSON scalar the API may send as a string or a number.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
	default:
		*t = text(b)
	}
	return nil
}

func (t text) String() string { return strings.TrimSpace(string(t)) }

func (t text) float() (float64, error) {
	return strconv.ParseFloat(width.Fold.String(t.String()), 64)
}

// count treats an empty cell as zero.
func (t text) count() (int, error) {
	s := width.Fold.String(t.String())
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// envelope is the outer shape of every API response. Res is a string when the
// query was rejected.
type envelope struct {
	Res json.RawMessage `json:"res"`
}

func decodeEnvelope(body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "shindo: unmarshal response")
	}
	res := bytes.TrimSpace(env.Res)
	if len(res) == 0 || bytes.Equal(res, []byte("null")) {
		return nil, eris.New("shindo: response has no res field")
	}
	if res[0] == '"' {
		var msg string
		if err := json.Unmarshal(res, &msg); err != nil {
			return nil, eris.Wrap(err, "shindo: unmarshal error message")
		}
		return nil, &BadRequestError{Message: msg}
	}
	return res, nil
}

type rawEarthquake struct {
	ID   text `json:"id"`
	OT   text `json:"ot"`
	Name text `json:"name"`
	Lat  text `json:"lat"`
	Lon  text `json:"lon"`
	Dep  text `json:"dep"`
	Mag  text `json:"mag"`
	MaxI text `json:"maxI"`
}

func (r rawEarthquake) decode() (Earthquake, error) {
	eq := Earthquake{ID: r.ID.String(), Location: r.Name.String()}

	t, err := time.ParseInLocation("2006/01/02 15:04:05", r.OT.String(), JST)
	if err != nil {
		return eq, eris.Wrapf(err, "shindo: event %s: origin time", eq.ID)
	}
	eq.Time = t

	if eq.Latitude, err = r.Lat.float(); err != nil {
		return eq, eris.Wrapf(err, "shindo: event %s: latitude", eq.ID)
	}
	if eq.Longitude, err = r.Lon.float(); err != nil {
		return eq, eris.Wrapf(err, "shindo: event %s: longitude", eq.ID)
	}
	if eq.Depth, err = parseDepth(r.Dep.String()); err != nil {
		return eq, eris.Wrapf(err, "shindo: event %s", eq.ID)
	}
	if m, err := r.Mag.float(); err == nil {
		eq.Magnitude = &m
	}
	if eq.MaxIntensity, err = parseLevelLabel(r.MaxI.String()); err != nil {
		return eq, eris.Wrapf(err, "shindo: event %s", eq.ID)
	}
	return eq, nil
}

// parseDepth reads "<n> km".
func parseDepth(s string) (float64, error) {
	folded := width.Fold.String(strings.TrimSpace(s))
	if folded == veryShallow {
		return 0, nil
	}
	num, unit, _ := strings.Cut(folded, " ")
	if unit != "km" {
		return 0, eris.Errorf("depth %q: want \"<n> km\"", s)
	}
	d, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "depth %q", s)
	}
	return d, nil
}

func decodeEarthquakes(res json.RawMessage) ([]Earthquake, error) {
	var raw []rawEarthquake
	if err := json.Unmarshal(res, &raw); err != nil {
		return nil, eris.Wrap(err, "shindo: unmarshal earthquakes")
	}
	out := make([]Earthquake, 0, len(raw))
	for _, r := range raw {
		eq, err := r.decode()
		if err != nil {
			return nil, err
		}
		out = append(out, eq)
	}
	return out, nil
}

type rawCounts struct {
	Label text `json:"lb"`
	S1    text `json:"S1"`
	S2    text `json:"S2"`
	S3    text `json:"S3"`
	S4    text `json:"S4"`
	SA    text `json:"SA"`
	SB    text `json:"SB"`
	SC    text `json:"SC"`
	SD    text `json:"SD"`
	S7    text `json:"S7"`
}

func (r rawCounts) counts() (Counts, error) {
	var c Counts
	cells := []struct {
		dst *int
		src text
		key string
	}{
		{&c.One, r.S1, "S1"},
		{&c.Two, r.S2, "S2"},
		{&c.Three, r.S3, "S3"},
		{&c.Four, r.S4, "S4"},
		{&c.FiveLower, r.SA, "SA"},
		{&c.FiveUpper, r.SB, "SB"},
		{&c.SixLower, r.SC, "SC"},
		{&c.SixUpper, r.SD, "SD"},
		{&c.Seven, r.S7, "S7"},
	}
	for _, cell := range cells {
		n, err := cell.src.count()
		if err != nil {
			return c, eris.Wrapf(err, "shindo: row %q: %s", r.Label.String(), cell.key)
		}
		*cell.dst = n
	}
	return c, nil
}

var bucketLayouts = []struct {
	unit   Unit
	layout string
}{
	{UnitYear, "2006年"},
	{UnitMonth, "2006/01"},
	{UnitDay, "2006/01/02"},
	{UnitHour, "2006/01/02 15h"},
}

// parseBucketKey reads a statistics row label and infers the bucket unit.
func parseBucketKey(label string) (time.Time, Unit, error) {
	for _, bl := range bucketLayouts {
		if t, err := time.ParseInLocation(bl.layout, label, JST); err == nil {
			return t, bl.unit, nil
		}
	}
	return time.Time{}, "", eris.Errorf("shindo: unknown statistics label %q", label)
}

func decodeStatistics(res json.RawMessage) ([]Bucket, *Summary, error) {
	var raw []rawCounts
	if err := json.Unmarshal(res, &raw); err != nil {
		return nil, nil, eris.Wrap(err, "shindo: unmarshal statistics")
	}
	var (
		buckets = make([]Bucket, 0, len(raw))
		summary *Summary
	)
	for _, r := range raw {
		c, err := r.counts()
		if err != nil {
			return nil, nil, err
		}
		label := width.Fold.String(r.Label.String())
		if label == summaryLabel {
			summary = &Summary{Counts: c}
			continue
		}
		key, unit, err := parseBucketKey(label)
		if err != nil {
			return nil, nil, err
		}
		buckets = append(buckets, Bucket{Key: key, Unit: unit, Counts: c})
	}
	return buckets, summary, nil
}

type rawObservation struct {
	Name text `json:"name"`
	Code text `json:"code"`
	Lat  text `json:"lat"`
	Lon  text `json:"lon"`
	Int  text `json:"int"`
}

func (r rawObservation) decode() (Observation, error) {
	o := Observation{StationName: r.Name.String()}
	var err error
	if o.StationCode, err = strconv.Atoi(r.Code.String()); err != nil {
		return o, eris.Wrapf(err, "shindo: station %q: code", o.StationName)
	}
	if o.Latitude, err = r.Lat.float(); err != nil {
		return o, eris.Wrapf(err, "shindo: station %q: latitude", o.StationName)
	}
	if o.Longitude, err = r.Lon.float(); err != nil {
		return o, eris.Wrapf(err, "shindo: station %q: longitude", o.StationName)
	}
	if o.Intensity, err = parseLevelLabel(r.Int.String()); err != nil {
		return o, eris.Wrapf(err, "shindo: station %q", o.StationName)
	}
	return o, nil
}

type rawEvent struct {
	Hyp []rawEarthquake  `json:"hyp"`
	Int []rawObservation `json:"int"`
}

func decodeEvent(res json.RawMessage) ([]Observation, Earthquake, error) {
	var raw rawEvent
	if err := json.Unmarshal(res, &raw); err != nil {
		return nil, Earthquake{}, eris.Wrap(err, "shindo: unmarshal event")
	}
	if len(raw.Hyp) != 1 {
		return nil, Earthquake{}, eris.Errorf("shindo: event response has %d hypocentres, want 1", len(raw.Hyp))
	}
	eq, err := raw.Hyp[0].decode()
	if err != nil {
		return nil, Earthquake{}, err
	}
	obs := make([]Observation, 0, len(raw.Int))
	for _, r := range raw.Int {
		o, err := r.decode()
		if err != nil {
			return nil, Earthquake{}, err
		}
		obs = append(obs, o)
	}
	return obs, eq, nil
}
