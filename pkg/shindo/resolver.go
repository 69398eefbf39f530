package shindo

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/width"
)

// Table names a code table.
type Table string

// Code tables published by the service.
const (
	TablePrefectures Table = "prefectures"
	TableCities      Table = "cities"
	TableStations    Table = "stations"
	TableRegions     Table = "regions"
)

// codeTable is a bidirectional code/name map that remembers source order.
type codeTable struct {
	codes  []int
	byCode map[int]string
	byName map[string]int
}

func newCodeTable(n int) *codeTable {
	return &codeTable{
		codes:  make([]int, 0, n),
		byCode: make(map[int]string, n),
		byName: make(map[string]int, n),
	}
}

// add keeps the first entry for a code; a repeated name points at the last code.
func (t *codeTable) add(code int, name string) {
	if _, dup := t.byCode[code]; !dup {
		t.codes = append(t.codes, code)
		t.byCode[code] = name
	}
	t.byName[normalizeName(name)] = code
}

func (t *codeTable) names() []string {
	out := make([]string, len(t.codes))
	for i, c := range t.codes {
		out[i] = t.byCode[c]
	}
	return out
}

// normalizeName folds full-width ASCII so "ＡＢＣ" and "ABC" match.
func normalizeName(s string) string {
	return strings.TrimSpace(width.Fold.String(s))
}

// Resolver translates prefecture, city, station and region codes to names
// and back. The city, station and region tables are downloaded on first use
// and kept for the lifetime of the Resolver. It is safe for concurrent use.
type Resolver struct {
	opts *options

	group singleflight.Group

	mu       sync.RWMutex
	prefs    *codeTable
	cities   *codeTable
	stations *codeTable
	regions  []string
}

// NewResolver creates a Resolver. Nothing is fetched until a table is needed.
func NewResolver(opts ...Option) *Resolver {
	return newResolver(newOptions(opts))
}

func newResolver(o *options) *Resolver {
	return &Resolver{opts: o, prefs: prefectureTable()}
}

type rawEntry struct {
	Code text `json:"code"`
	Name text `json:"name"`
	Disp text `json:"disp"`
}

// shown reports whether the service lists the entry in its own UI.
func (e rawEntry) shown() bool {
	switch strings.ToLower(e.Disp.String()) {
	case "true", "1":
		return true
	}
	return false
}

func (r *Resolver) loaded(t Table) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch t {
	case TableCities:
		return r.cities != nil
	case TableStations:
		return r.stations != nil
	case TableRegions:
		return r.regions != nil
	}
	return true
}

// load downloads a table once. Concurrent callers share one request; a
// failed download is not remembered. The shared download outlives the
// caller that started it, so each caller only stops waiting on its own
// cancellation.
func (r *Resolver) load(ctx context.Context, t Table) error {
	if r.loaded(t) {
		return nil
	}
	ch := r.group.DoChan(string(t), func() (any, error) {
		if r.loaded(t) {
			return nil, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.timeout())
		defer cancel()
		err := r.fetch(fetchCtx, t)
		r.opts.metrics.observeTable(string(t), err)
		return nil, err
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return eris.Wrapf(ctx.Err(), "shindo: waiting for %s", t)
	}
}

func (r *Resolver) fetch(ctx context.Context, t Table) error {
	var path string
	switch t {
	case TableCities:
		path = cityPath
	case TableStations:
		path = stationPath
	case TableRegions:
		path = regionPath
	default:
		return eris.Errorf("shindo: unknown table %q", t)
	}

	body, err := r.opts.get(ctx, path)
	if err != nil {
		return eris.Wrapf(err, "shindo: fetch %s", t)
	}
	var raw []rawEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return eris.Wrapf(err, "shindo: unmarshal %s", t)
	}

	if t == TableRegions {
		regions := make([]string, 0, len(raw))
		for _, e := range raw {
			regions = append(regions, e.Name.String())
		}
		r.mu.Lock()
		r.regions = regions
		r.mu.Unlock()
		zap.L().Debug("shindo: loaded regions", zap.Int("count", len(regions)))
		return nil
	}

	tbl := newCodeTable(len(raw))
	for _, e := range raw {
		if !e.shown() {
			continue
		}
		code, err := strconv.Atoi(e.Code.String())
		if err != nil {
			return eris.Wrapf(err, "shindo: %s: code %q", t, e.Code.String())
		}
		tbl.add(code, e.Name.String())
	}

	r.mu.Lock()
	if t == TableCities {
		r.cities = tbl
	} else {
		r.stations = tbl
	}
	r.mu.Unlock()
	zap.L().Debug("shindo: loaded code table", zap.String("table", string(t)), zap.Int("count", len(tbl.codes)))
	return nil
}

// Preload downloads every remote table concurrently.
func (r *Resolver) Preload(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range []Table{TableCities, TableStations, TableRegions} {
		g.Go(func() error { return r.load(ctx, t) })
	}
	return g.Wait()
}

func (r *Resolver) table(ctx context.Context, t Table) (*codeTable, error) {
	if err := r.load(ctx, t); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch t {
	case TablePrefectures:
		return r.prefs, nil
	case TableCities:
		return r.cities, nil
	case TableStations:
		return r.stations, nil
	}
	return nil, eris.Errorf("shindo: %s is not a code table", t)
}

// Codes lists the codes of a table in publication order.
func (r *Resolver) Codes(ctx context.Context, t Table) ([]int, error) {
	tbl, err := r.table(ctx, t)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), tbl.codes...), nil
}

// Names lists the names of a table in publication order. For TableRegions
// this is the region list.
func (r *Resolver) Names(ctx context.Context, t Table) ([]string, error) {
	if t == TableRegions {
		return r.RegionNames(ctx)
	}
	tbl, err := r.table(ctx, t)
	if err != nil {
		return nil, err
	}
	return tbl.names(), nil
}

// Name resolves a code to its name.
func (r *Resolver) Name(ctx context.Context, t Table, code int) (string, error) {
	tbl, err := r.table(ctx, t)
	if err != nil {
		return "", err
	}
	name, ok := tbl.byCode[code]
	if !ok {
		return "", eris.Wrapf(ErrNotFound, "%s code %d", t, code)
	}
	return name, nil
}

// Code resolves a name to its code.
func (r *Resolver) Code(ctx context.Context, t Table, name string) (int, error) {
	tbl, err := r.table(ctx, t)
	if err != nil {
		return 0, err
	}
	code, ok := tbl.byName[normalizeName(name)]
	if !ok {
		return 0, eris.Wrapf(ErrNotFound, "%s name %q", t, name)
	}
	return code, nil
}

// IsCode reports whether code exists in the table.
func (r *Resolver) IsCode(ctx context.Context, t Table, code int) (bool, error) {
	tbl, err := r.table(ctx, t)
	if err != nil {
		return false, err
	}
	_, ok := tbl.byCode[code]
	return ok, nil
}

// IsName reports whether name exists in the table.
func (r *Resolver) IsName(ctx context.Context, t Table, name string) (bool, error) {
	if t == TableRegions {
		return r.IsRegionName(ctx, name)
	}
	tbl, err := r.table(ctx, t)
	if err != nil {
		return false, err
	}
	_, ok := tbl.byName[normalizeName(name)]
	return ok, nil
}

// PrefectureCodes returns all prefecture codes. The table is static.
func (r *Resolver) PrefectureCodes() []int { return append([]int(nil), r.prefs.codes...) }

// PrefectureNames returns all prefecture names.
func (r *Resolver) PrefectureNames() []string { return r.prefs.names() }

// PrefectureName resolves a prefecture code.
func (r *Resolver) PrefectureName(code int) (string, error) {
	return r.Name(context.Background(), TablePrefectures, code)
}

// PrefectureCode resolves a prefecture name, e.g. 東京都.
func (r *Resolver) PrefectureCode(name string) (int, error) {
	return r.Code(context.Background(), TablePrefectures, name)
}

// IsPrefectureCode reports whether code is a prefecture code.
func (r *Resolver) IsPrefectureCode(code int) bool {
	_, ok := r.prefs.byCode[code]
	return ok
}

// IsPrefectureName reports whether name is a prefecture name.
func (r *Resolver) IsPrefectureName(name string) bool {
	_, ok := r.prefs.byName[normalizeName(name)]
	return ok
}

// CityCodes returns all city codes.
func (r *Resolver) CityCodes(ctx context.Context) ([]int, error) { return r.Codes(ctx, TableCities) }

// CityNames returns all city names.
func (r *Resolver) CityNames(ctx context.Context) ([]string, error) { return r.Names(ctx, TableCities) }

// CityName resolves a city code.
func (r *Resolver) CityName(ctx context.Context, code int) (string, error) {
	return r.Name(ctx, TableCities, code)
}

// CityCode resolves a city name.
func (r *Resolver) CityCode(ctx context.Context, name string) (int, error) {
	return r.Code(ctx, TableCities, name)
}

// IsCityCode reports whether code is a city code.
func (r *Resolver) IsCityCode(ctx context.Context, code int) (bool, error) {
	return r.IsCode(ctx, TableCities, code)
}

// IsCityName reports whether name is a city name.
func (r *Resolver) IsCityName(ctx context.Context, name string) (bool, error) {
	return r.IsName(ctx, TableCities, name)
}

// StationCodes returns all seismic station codes.
func (r *Resolver) StationCodes(ctx context.Context) ([]int, error) {
	return r.Codes(ctx, TableStations)
}

// StationNames returns all seismic station names.
func (r *Resolver) StationNames(ctx context.Context) ([]string, error) {
	return r.Names(ctx, TableStations)
}

// StationName resolves a station code.
func (r *Resolver) StationName(ctx context.Context, code int) (string, error) {
	return r.Name(ctx, TableStations, code)
}

// StationCode resolves a station name.
func (r *Resolver) StationCode(ctx context.Context, name string) (int, error) {
	return r.Code(ctx, TableStations, name)
}

// IsStationCode reports whether code is a station code.
func (r *Resolver) IsStationCode(ctx context.Context, code int) (bool, error) {
	return r.IsCode(ctx, TableStations, code)
}

// IsStationName reports whether name is a station name.
func (r *Resolver) IsStationName(ctx context.Context, name string) (bool, error) {
	return r.IsName(ctx, TableStations, name)
}

// RegionNames returns all epicenter region names.
func (r *Resolver) RegionNames(ctx context.Context) ([]string, error) {
	if err := r.load(ctx, TableRegions); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.regions...), nil
}

// IsRegionName reports whether name is an epicenter region.
func (r *Resolver) IsRegionName(ctx context.Context, name string) (bool, error) {
	regions, err := r.RegionNames(ctx)
	if err != nil {
		return false, err
	}
	name = normalizeName(name)
	for _, reg := range regions {
		if normalizeName(reg) == name {
			return true, nil
		}
	}
	return false, nil
}

// resolve maps filter values, each a code or a name, to codes.
func (r *Resolver) resolve(ctx context.Context, t Table, values []string) ([]int, error) {
	if len(values) == 0 {
		return nil, nil
	}
	tbl, err := r.table(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(values))
	for _, v := range values {
		key := normalizeName(v)
		if n, err := strconv.Atoi(key); err == nil {
			if _, ok := tbl.byCode[n]; ok {
				out = append(out, n)
				continue
			}
		}
		code, ok := tbl.byName[key]
		if !ok {
			return nil, eris.Wrapf(ErrNotFound, "%s filter %q", t, v)
		}
		out = append(out, code)
	}
	return out, nil
}
