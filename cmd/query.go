package main

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/shindo-cli/pkg/shindo"
)

// queryInput is the raw, string-typed form of a search shared by CLI flags
// and gateway query parameters.
type queryInput struct {
	From, To           string
	MagMin, MagMax     string
	DepthMin, DepthMax string
	Intensity          string
	Prefectures        []string
	Cities             []string
	Stations           []string
	StationIntensity   string
	Regions            []string
	Area               []string
}

func (in *queryInput) bindFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&in.From, "from", "", "start time, YYYY/MM/DD[ HH:MM] JST (required)")
	f.StringVar(&in.To, "to", "", "end time, YYYY/MM/DD[ HH:MM] JST (required)")
	f.StringVar(&in.MagMin, "mag-min", "", "minimum magnitude (default 0.0)")
	f.StringVar(&in.MagMax, "mag-max", "", "maximum magnitude (default 9.9)")
	f.StringVar(&in.DepthMin, "depth-min", "", "minimum depth in km (default 0)")
	f.StringVar(&in.DepthMax, "depth-max", "", "maximum depth in km (default 999)")
	f.StringVar(&in.Intensity, "intensity", "", "minimum maximum-intensity: 1-4, 5L, 5H, 6L, 6H, 7")
	f.StringSliceVar(&in.Prefectures, "pref", nil, "station prefecture code or name (repeatable)")
	f.StringSliceVar(&in.Cities, "city", nil, "station city code or name (repeatable)")
	f.StringSliceVar(&in.Stations, "station", nil, "station code or name (repeatable)")
	f.StringVar(&in.StationIntensity, "station-intensity", "", "minimum intensity at the selected stations")
	f.StringSliceVar(&in.Regions, "region", nil, "epicenter region name (repeatable)")
	f.StringArrayVar(&in.Area, "area", nil, "epicenter area corner as lat,lon (repeat at least 3 times)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

// queryFromValues reads the gateway's query string. List parameters may be
// repeated or comma separated; area corners are separated by ';'.
func queryFromValues(v url.Values) queryInput {
	return queryInput{
		From:             v.Get("from"),
		To:               v.Get("to"),
		MagMin:           v.Get("mag_min"),
		MagMax:           v.Get("mag_max"),
		DepthMin:         v.Get("depth_min"),
		DepthMax:         v.Get("depth_max"),
		Intensity:        v.Get("intensity"),
		Prefectures:      splitList(v["pref"], ","),
		Cities:           splitList(v["city"], ","),
		Stations:         splitList(v["station"], ","),
		StationIntensity: v.Get("station_intensity"),
		Regions:          splitList(v["region"], ","),
		Area:             splitList(v["area"], ";"),
	}
}

func splitList(values []string, sep string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, sep) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func invalid(format string, args ...any) error {
	return eris.Wrapf(shindo.ErrInvalidParams, format, args...)
}

// query converts the raw input. Every failure wraps shindo.ErrInvalidParams.
func (in *queryInput) query() (shindo.Query, error) {
	var q shindo.Query
	var err error

	if in.From == "" || in.To == "" {
		return q, invalid("from and to are required")
	}
	if q.Start, err = shindo.ParseTime(in.From); err != nil {
		return q, invalid("from: %v", err)
	}
	if q.End, err = shindo.ParseTime(in.To); err != nil {
		return q, invalid("to: %v", err)
	}

	if in.MagMin != "" || in.MagMax != "" {
		r := shindo.DefaultMagnitude
		if r.Min, err = parseFloat("mag-min", in.MagMin, r.Min); err != nil {
			return q, err
		}
		if r.Max, err = parseFloat("mag-max", in.MagMax, r.Max); err != nil {
			return q, err
		}
		q.Magnitude = &r
	}
	if in.DepthMin != "" || in.DepthMax != "" {
		r := shindo.DefaultDepth
		if r.Min, err = parseInt("depth-min", in.DepthMin, r.Min); err != nil {
			return q, err
		}
		if r.Max, err = parseInt("depth-max", in.DepthMax, r.Max); err != nil {
			return q, err
		}
		q.Depth = &r
	}

	if in.Intensity != "" {
		if q.MaxIntensity, err = shindo.ParseLevel(in.Intensity); err != nil {
			return q, err
		}
	}
	if in.StationIntensity != "" {
		if q.StationIntensity, err = shindo.ParseLevel(in.StationIntensity); err != nil {
			return q, err
		}
	}

	q.StationPrefectures = in.Prefectures
	q.StationCities = in.Cities
	q.Stations = in.Stations
	q.EpicenterRegions = in.Regions

	if len(in.Area) > 0 {
		corners := make([]shindo.Coord, 0, len(in.Area))
		for _, s := range in.Area {
			c, err := shindo.ParseCoord(s)
			if err != nil {
				return q, err
			}
			corners = append(corners, c)
		}
		if q.EpicenterArea, err = shindo.NewArea(corners...); err != nil {
			return q, err
		}
	}

	return q, nil
}

func parseFloat(name, s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, invalid("%s %q is not a number", name, s)
	}
	return f, nil
}

func parseInt(name, s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, invalid("%s %q is not an integer", name, s)
	}
	return n, nil
}
