// Package export renders search results as tables, documents, spreadsheets,
// or SQLite databases.
package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/sells-group/shindo-cli/pkg/shindo"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatTable  Format = "table"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatCSV, FormatXLSX, FormatSQLite}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", eris.Errorf("export: unknown format %q", s)
}

// NeedsPath reports whether the format writes to a file rather than a stream.
func (f Format) NeedsPath() bool {
	return f == FormatXLSX || f == FormatSQLite
}

// Writer renders results in one format. Stream formats write to out; file
// formats write to path.
type Writer struct {
	format Format
	out    io.Writer
	path   string
}

// New returns a Writer. path is required for xlsx and sqlite.
func New(format Format, out io.Writer, path string) (*Writer, error) {
	if format.NeedsPath() && path == "" {
		return nil, eris.Errorf("export: format %s requires an output path", format)
	}
	if !format.NeedsPath() && out == nil {
		return nil, eris.Errorf("export: format %s requires a writer", format)
	}
	return &Writer{format: format, out: out, path: path}, nil
}

// Earthquakes writes a hypocenter list.
func (w *Writer) Earthquakes(ctx context.Context, eqs []shindo.Earthquake) error {
	return w.write(ctx, earthquakes(eqs))
}

// Statistics writes per-bucket counts followed by the summary row.
func (w *Writer) Statistics(ctx context.Context, buckets []shindo.Bucket, summary *shindo.Summary) error {
	return w.write(ctx, statistics(buckets, summary))
}

// Observations writes the station readings of one earthquake.
func (w *Writer) Observations(ctx context.Context, eq shindo.Earthquake, obs []shindo.Observation) error {
	return w.write(ctx, observations(eq, obs))
}

// Codes writes a code table listing.
func (w *Writer) Codes(ctx context.Context, table string, entries []Entry) error {
	return w.write(ctx, codes(table, entries))
}

func (w *Writer) write(ctx context.Context, ds dataset) error {
	switch w.format {
	case FormatTable:
		return writeTable(w.out, ds)
	case FormatJSON:
		return writeJSON(w.out, ds)
	case FormatYAML:
		return writeYAML(w.out, ds)
	case FormatCSV:
		return writeCSV(w.out, ds)
	case FormatXLSX:
		return writeXLSX(w.path, ds)
	case FormatSQLite:
		return writeSQLite(ctx, w.path, ds)
	default:
		return eris.Errorf("export: unknown format %q", w.format)
	}
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func header(ds dataset) []string {
	names := make([]string, len(ds.columns))
	for i, c := range ds.columns {
		names[i] = c.name
	}
	return names
}

func writeTable(out io.Writer, ds dataset) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(header(ds), "\t")))
	for _, row := range ds.rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellString(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return eris.Wrap(tw.Flush(), "export: flush table")
}

func writeCSV(out io.Writer, ds dataset) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(header(ds)); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	record := make([]string, len(ds.columns))
	for _, row := range ds.rows {
		for i, v := range row {
			record[i] = cellString(v)
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

func writeJSON(out io.Writer, ds dataset) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return eris.Wrap(enc.Encode(ds.doc), "export: encode json")
}

func writeYAML(out io.Writer, ds dataset) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(ds.doc); err != nil {
		return eris.Wrap(err, "export: encode yaml")
	}
	return eris.Wrap(enc.Close(), "export: close yaml")
}

func writeXLSX(path string, ds dataset) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(ds.name)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	row := sheet.AddRow()
	for _, name := range header(ds) {
		row.AddCell().SetString(name)
	}
	for _, values := range ds.rows {
		row := sheet.AddRow()
		for _, v := range values {
			cell := row.AddCell()
			switch x := v.(type) {
			case nil:
			case int:
				cell.SetInt(x)
			case float64:
				cell.SetFloat(x)
			default:
				cell.SetString(cellString(x))
			}
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func writeSQLite(ctx context.Context, path string, ds dataset) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return eris.Wrap(err, "export: open sqlite")
	}
	defer db.Close() //nolint:errcheck

	defs := make([]string, len(ds.columns))
	marks := make([]string, len(ds.columns))
	for i, c := range ds.columns {
		defs[i] = c.name + " " + c.kind
		marks[i] = "?"
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", ds.name, strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return eris.Wrapf(err, "export: create table %s", ds.name)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "export: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		ds.name, strings.Join(header(ds), ", "), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return eris.Wrap(err, "export: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, row := range ds.rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return eris.Wrapf(err, "export: insert into %s", ds.name)
		}
	}
	return eris.Wrap(tx.Commit(), "export: commit")
}
