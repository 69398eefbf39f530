package export

import (
	"time"

	"github.com/sells-group/shindo-cli/pkg/shindo"
)

// column describes one field of a dataset; kind is its SQLite affinity.
type column struct {
	name string
	kind string
}

// dataset is a result set in the two shapes the writers need: flat rows for
// tabular formats and the original value for document formats.
type dataset struct {
	name    string
	columns []column
	rows    [][]any
	doc     any
}

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

func formatTime(t time.Time) string { return t.In(shindo.JST).Format(timeLayout) }

func magnitude(m *float64) any {
	if m == nil {
		return nil
	}
	return *m
}

var earthquakeColumns = []column{
	{"id", "TEXT"},
	{"time", "TEXT"},
	{"location", "TEXT"},
	{"latitude", "REAL"},
	{"longitude", "REAL"},
	{"depth_km", "REAL"},
	{"magnitude", "REAL"},
	{"max_intensity", "TEXT"},
}

func earthquakeRow(eq shindo.Earthquake) []any {
	return []any{
		eq.ID,
		formatTime(eq.Time),
		eq.Location,
		eq.Latitude,
		eq.Longitude,
		eq.Depth,
		magnitude(eq.Magnitude),
		eq.MaxIntensity.String(),
	}
}

func earthquakes(eqs []shindo.Earthquake) dataset {
	rows := make([][]any, 0, len(eqs))
	for _, eq := range eqs {
		rows = append(rows, earthquakeRow(eq))
	}
	return dataset{name: "earthquakes", columns: earthquakeColumns, rows: rows, doc: eqs}
}

var countColumns = []column{
	{"int_1", "INTEGER"},
	{"int_2", "INTEGER"},
	{"int_3", "INTEGER"},
	{"int_4", "INTEGER"},
	{"int_5l", "INTEGER"},
	{"int_5h", "INTEGER"},
	{"int_6l", "INTEGER"},
	{"int_6h", "INTEGER"},
	{"int_7", "INTEGER"},
	{"total", "INTEGER"},
}

func countCells(c shindo.Counts) []any {
	return []any{c.One, c.Two, c.Three, c.Four, c.FiveLower, c.FiveUpper, c.SixLower, c.SixUpper, c.Seven, c.Total()}
}

// summaryKey labels the totals row in tabular output.
const summaryKey = "total"

func statistics(buckets []shindo.Bucket, summary *shindo.Summary) dataset {
	cols := append([]column{{"key", "TEXT"}, {"unit", "TEXT"}}, countColumns...)
	rows := make([][]any, 0, len(buckets)+1)
	for _, b := range buckets {
		rows = append(rows, append([]any{formatTime(b.Key), string(b.Unit)}, countCells(b.Counts)...))
	}
	if summary != nil {
		rows = append(rows, append([]any{summaryKey, ""}, countCells(summary.Counts)...))
	}
	doc := struct {
		Buckets []shindo.Bucket `json:"buckets" yaml:"buckets"`
		Summary *shindo.Summary `json:"summary" yaml:"summary"`
	}{buckets, summary}
	return dataset{name: "statistics", columns: cols, rows: rows, doc: doc}
}

var observationColumns = []column{
	{"event_id", "TEXT"},
	{"station_code", "INTEGER"},
	{"station_name", "TEXT"},
	{"latitude", "REAL"},
	{"longitude", "REAL"},
	{"intensity", "TEXT"},
}

func observations(eq shindo.Earthquake, obs []shindo.Observation) dataset {
	rows := make([][]any, 0, len(obs))
	for _, o := range obs {
		rows = append(rows, []any{eq.ID, o.StationCode, o.StationName, o.Latitude, o.Longitude, o.Intensity.String()})
	}
	doc := struct {
		Earthquake   shindo.Earthquake    `json:"earthquake" yaml:"earthquake"`
		Observations []shindo.Observation `json:"observations" yaml:"observations"`
	}{eq, obs}
	return dataset{name: "observations", columns: observationColumns, rows: rows, doc: doc}
}

// Entry is one row of a code table listing. Regions have no code.
type Entry struct {
	Code int    `json:"code,omitempty" yaml:"code,omitempty"`
	Name string `json:"name" yaml:"name"`
}

func codes(table string, entries []Entry) dataset {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		var code any
		if e.Code != 0 {
			code = e.Code
		}
		rows = append(rows, []any{table, code, e.Name})
	}
	cols := []column{{"table_name", "TEXT"}, {"code", "INTEGER"}, {"name", "TEXT"}}
	return dataset{name: "codes", columns: cols, rows: rows, doc: entries}
}
