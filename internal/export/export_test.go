package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/shindo-cli/pkg/shindo"
)

func sampleEarthquakes() []shindo.Earthquake {
	mag := 9.0
	return []shindo.Earthquake{
		{
			ID:           "20110311144618",
			Time:         time.Date(2011, 3, 11, 14, 46, 18, 100_000_000, shindo.JST),
			Location:     "三陸沖",
			Latitude:     38.1033,
			Longitude:    142.86,
			Depth:        24,
			Magnitude:    &mag,
			MaxIntensity: shindo.Level7,
		},
		{
			ID:           "20110311150000",
			Time:         time.Date(2011, 3, 11, 15, 0, 0, 0, shindo.JST),
			Location:     "茨城県沖",
			Latitude:     36.1,
			Longitude:    141.2,
			Depth:        0,
			MaxIntensity: shindo.Level5Lower,
		},
	}
}

func sampleStatistics() ([]shindo.Bucket, *shindo.Summary) {
	buckets := []shindo.Bucket{
		{Key: time.Date(2010, 1, 1, 0, 0, 0, 0, shindo.JST), Unit: shindo.UnitYear, Counts: shindo.Counts{One: 3, Four: 1}},
		{Key: time.Date(2011, 1, 1, 0, 0, 0, 0, shindo.JST), Unit: shindo.UnitYear, Counts: shindo.Counts{Two: 5, Seven: 1}},
	}
	return buckets, &shindo.Summary{Counts: shindo.Counts{One: 3, Two: 5, Four: 1, Seven: 1}}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, got)

	_, err = ParseFormat("parquet")
	assert.Error(t, err)
}

func TestNew_PathRequirements(t *testing.T) {
	t.Parallel()

	_, err := New(FormatXLSX, nil, "")
	assert.Error(t, err)
	_, err = New(FormatSQLite, &bytes.Buffer{}, "")
	assert.Error(t, err)
	_, err = New(FormatCSV, nil, "")
	assert.Error(t, err)

	w, err := New(FormatTable, &bytes.Buffer{}, "")
	require.NoError(t, err)
	assert.NotNil(t, w)
}

func TestTable_Earthquakes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := New(FormatTable, &buf, "")
	require.NoError(t, err)
	require.NoError(t, w.Earthquakes(context.Background(), sampleEarthquakes()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[0], "MAX_INTENSITY")
	assert.Contains(t, lines[1], "2011-03-11T14:46:18.1+09:00")
	assert.Contains(t, lines[1], "7")
	assert.Contains(t, lines[2], "5L")
}

func TestCSV_Earthquakes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := New(FormatCSV, &buf, "")
	require.NoError(t, err)
	require.NoError(t, w.Earthquakes(context.Background(), sampleEarthquakes()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "time", "location", "latitude", "longitude", "depth_km", "magnitude", "max_intensity"}, records[0])
	assert.Equal(t, []string{"20110311144618", "2011-03-11T14:46:18.1+09:00", "三陸沖", "38.1033", "142.86", "24", "9", "7"}, records[1])
	assert.Equal(t, "", records[2][6], "missing magnitude is blank")
}

func TestCSV_StatisticsSummaryRow(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := New(FormatCSV, &buf, "")
	require.NoError(t, err)
	buckets, summary := sampleStatistics()
	require.NoError(t, w.Statistics(context.Background(), buckets, summary))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "key", records[0][0])
	assert.Equal(t, "total", records[0][len(records[0])-1])
	assert.Equal(t, "year", records[1][1])
	assert.Equal(t, "4", records[1][len(records[1])-1])
	assert.Equal(t, "total", records[3][0])
	assert.Equal(t, "10", records[3][len(records[3])-1])
}

func TestJSON_Observations(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := New(FormatJSON, &buf, "")
	require.NoError(t, err)

	eq := sampleEarthquakes()[0]
	obs := []shindo.Observation{
		{StationName: "栗原市築館（旧）＊", StationCode: 2205220, Latitude: 38.73, Longitude: 141.02, Intensity: shindo.Level7},
	}
	require.NoError(t, w.Observations(context.Background(), eq, obs))

	var doc struct {
		Earthquake struct {
			ID           string `json:"id"`
			MaxIntensity string `json:"max_intensity"`
		} `json:"earthquake"`
		Observations []struct {
			StationName string `json:"station_name"`
			Intensity   string `json:"intensity"`
		} `json:"observations"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "20110311144618", doc.Earthquake.ID)
	assert.Equal(t, "7", doc.Earthquake.MaxIntensity)
	require.Len(t, doc.Observations, 1)
	assert.Equal(t, "栗原市築館（旧）＊", doc.Observations[0].StationName)
	assert.NotContains(t, buf.String(), `\u`, "non-ASCII is not escaped")
}

func TestYAML_Statistics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := New(FormatYAML, &buf, "")
	require.NoError(t, err)
	buckets, summary := sampleStatistics()
	require.NoError(t, w.Statistics(context.Background(), buckets, summary))

	var doc struct {
		Buckets []map[string]any `yaml:"buckets"`
		Summary map[string]any   `yaml:"summary"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Buckets, 2)
	assert.Equal(t, "year", doc.Buckets[0]["unit"])
	assert.Equal(t, 3, doc.Buckets[0]["one"])
	assert.Equal(t, 1, doc.Summary["seven"])
}

func TestCodes_RegionsHaveNoCode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := New(FormatCSV, &buf, "")
	require.NoError(t, err)
	require.NoError(t, w.Codes(context.Background(), "regions", []Entry{{Name: "三陸沖"}}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"regions", "", "三陸沖"}, records[1])
}

func TestXLSX_Earthquakes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "eq.xlsx")
	w, err := New(FormatXLSX, nil, path)
	require.NoError(t, err)
	require.NoError(t, w.Earthquakes(context.Background(), sampleEarthquakes()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	sheet := f.Sheets[0]
	assert.Equal(t, "earthquakes", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "id", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "20110311144618", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "三陸沖", sheet.Rows[1].Cells[2].String())
	assert.Equal(t, "5L", sheet.Rows[2].Cells[7].String())
}

func TestSQLite_Earthquakes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "eq.db")
	w, err := New(FormatSQLite, nil, path)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, w.Earthquakes(ctx, sampleEarthquakes()))
	// A second write appends to the same table.
	require.NoError(t, w.Earthquakes(ctx, sampleEarthquakes()[:1]))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM earthquakes").Scan(&n))
	assert.Equal(t, 3, n)

	var mag sql.NullFloat64
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT magnitude FROM earthquakes WHERE id = ?", "20110311150000").Scan(&mag))
	assert.False(t, mag.Valid)

	var intensity string
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT max_intensity FROM earthquakes WHERE id = ? LIMIT 1", "20110311144618").Scan(&intensity))
	assert.Equal(t, "7", intensity)
}
