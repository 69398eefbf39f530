// Package shindo provides a client for the JMA Seismic Intensity Database
// (震度データベース検索) search API and its code tables.
package shindo

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// MaxRows is the number of rows after which the server silently truncates
// a search.
const MaxRows = 1000

// Client defines the seismic intensity database operations.
type Client interface {
	// SearchEarthquakes returns the hypocentres matching p.
	SearchEarthquakes(ctx context.Context, p SearchParams) ([]Earthquake, error)
	// Statistics counts events matching p per time bucket. The summary is nil
	// when the server omits the totals row.
	Statistics(ctx context.Context, p StatisticsParams) ([]Bucket, *Summary, error)
	// Intensities returns the station observations of one event together with
	// its hypocentre. id is Earthquake.ID.
	Intensities(ctx context.Context, id string) ([]Observation, Earthquake, error)
	// Resolver returns the code resolver the client uses for station filters.
	Resolver() *Resolver
}

type httpClient struct {
	opts     *options
	resolver *Resolver
}

// NewClient creates a new seismic intensity database client.
func NewClient(opts ...Option) Client {
	o := newOptions(opts)
	r := o.resolver
	if r == nil {
		r = newResolver(o)
	}
	return &httpClient{opts: o, resolver: r}
}

func (c *httpClient) Resolver() *Resolver { return c.resolver }

// stationCodes resolves the names in q's station filters.
func (c *httpClient) stationCodes(ctx context.Context, q *Query) (stationCodes, error) {
	var (
		sc  stationCodes
		err error
	)
	if sc.prefectures, err = c.resolver.resolve(ctx, TablePrefectures, q.StationPrefectures); err != nil {
		return sc, err
	}
	if sc.cities, err = c.resolver.resolve(ctx, TableCities, q.StationCities); err != nil {
		return sc, err
	}
	if sc.stations, err = c.resolver.resolve(ctx, TableStations, q.Stations); err != nil {
		return sc, err
	}
	return sc, nil
}

// logQuery records the search window and, for an area filter, its bounding box.
func logQuery(op string, q *Query) {
	fields := []zap.Field{
		zap.String("operation", op),
		zap.Time("start", q.Start),
		zap.Time("end", q.End),
	}
	if q.EpicenterArea != nil {
		sw, ne := q.EpicenterArea.Bounds()
		fields = append(fields,
			zap.Int("area_corners", len(q.EpicenterArea.Corners())),
			zap.Float64s("area_sw", []float64{sw.Lat, sw.Lon}),
			zap.Float64s("area_ne", []float64{ne.Lat, ne.Lon}),
		)
	}
	zap.L().Debug("shindo: search", fields...)
}

func (c *httpClient) SearchEarthquakes(ctx context.Context, p SearchParams) (eqs []Earthquake, err error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	codes, err := c.stationCodes(ctx, &p.Query)
	if err != nil {
		return nil, err
	}
	form, err := p.encode(codes)
	if err != nil {
		return nil, err
	}
	logQuery("earthquakes", &p.Query)

	start := time.Now()
	defer func() { c.opts.metrics.observeRequest("earthquakes", start, err) }()

	body, err := c.opts.post(ctx, form)
	if err != nil {
		return nil, eris.Wrap(err, "shindo: earthquake search")
	}
	res, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	eqs, err = decodeEarthquakes(res)
	if err != nil {
		return nil, err
	}

	c.opts.metrics.observeResults("earthquakes", len(eqs))
	if len(eqs) >= MaxRows {
		zap.L().Warn("shindo: earthquake search hit the server row cap, results are truncated",
			zap.Int("rows", len(eqs)),
		)
	}
	return eqs, nil
}

func (c *httpClient) Statistics(ctx context.Context, p StatisticsParams) (buckets []Bucket, summary *Summary, err error) {
	if err := p.validate(); err != nil {
		return nil, nil, err
	}
	codes, err := c.stationCodes(ctx, &p.Query)
	if err != nil {
		return nil, nil, err
	}
	form, err := p.encode(codes)
	if err != nil {
		return nil, nil, err
	}
	logQuery("statistics", &p.Query)

	start := time.Now()
	defer func() { c.opts.metrics.observeRequest("statistics", start, err) }()

	body, err := c.opts.post(ctx, form)
	if err != nil {
		return nil, nil, eris.Wrap(err, "shindo: statistics search")
	}
	res, err := decodeEnvelope(body)
	if err != nil {
		return nil, nil, err
	}
	buckets, summary, err = decodeStatistics(res)
	if err != nil {
		return nil, nil, err
	}
	c.opts.metrics.observeResults("statistics", len(buckets))
	return buckets, summary, nil
}

func (c *httpClient) Intensities(ctx context.Context, id string) (obs []Observation, eq Earthquake, err error) {
	if id == "" {
		return nil, Earthquake{}, eris.Wrap(ErrInvalidParams, "event id is required")
	}

	start := time.Now()
	defer func() { c.opts.metrics.observeRequest("intensity", start, err) }()

	body, err := c.opts.post(ctx, eventForm(id))
	if err != nil {
		return nil, Earthquake{}, eris.Wrapf(err, "shindo: intensity lookup %s", id)
	}
	res, err := decodeEnvelope(body)
	if err != nil {
		return nil, Earthquake{}, err
	}
	obs, eq, err = decodeEvent(res)
	if err != nil {
		return nil, Earthquake{}, err
	}
	c.opts.metrics.observeResults("intensity", len(obs))
	return obs, eq, nil
}
