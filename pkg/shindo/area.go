package shindo

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Coord is a point in decimal degrees.
type Coord struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// ParseCoord parses "lat,lon".
func ParseCoord(s string) (Coord, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return Coord{}, eris.Wrapf(ErrInvalidParams, "corner %q: want lat,lon", s)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Coord{}, eris.Wrapf(ErrInvalidParams, "corner %q: latitude", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return Coord{}, eris.Wrapf(ErrInvalidParams, "corner %q: longitude", s)
	}
	return Coord{Lat: la, Lon: lo}, nil
}

// Area is the polygon an epicenter must fall in. The server takes the convex
// hull of the corners, so their order does not matter.
type Area struct {
	poly *geom.Polygon
}

// NewArea builds an Area from at least three corners.
func NewArea(corners ...Coord) (*Area, error) {
	if len(corners) < 3 {
		return nil, eris.Wrapf(ErrInvalidParams, "epicenter area needs at least 3 corners, got %d", len(corners))
	}
	flat := make([]float64, 0, 2*len(corners))
	for i, c := range corners {
		if c.Lat < -90 || c.Lat > 90 {
			return nil, eris.Wrapf(ErrInvalidParams, "corner %d: latitude %v out of range", i, c.Lat)
		}
		if c.Lon < -180 || c.Lon > 180 {
			return nil, eris.Wrapf(ErrInvalidParams, "corner %d: longitude %v out of range", i, c.Lon)
		}
		flat = append(flat, c.Lon, c.Lat)
	}
	return &Area{poly: geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(4326)}, nil
}

// Corners returns the corners in the order given.
func (a *Area) Corners() []Coord {
	ring := a.poly.LinearRing(0)
	out := make([]Coord, 0, ring.NumCoords())
	for i := 0; i < ring.NumCoords(); i++ {
		c := ring.Coord(i)
		out = append(out, Coord{Lat: c.Y(), Lon: c.X()})
	}
	return out
}

// Bounds returns the south-west and north-east corners of the bounding box.
func (a *Area) Bounds() (sw, ne Coord) {
	b := a.poly.Bounds()
	return Coord{Lat: b.Min(1), Lon: b.Min(0)}, Coord{Lat: b.Max(1), Lon: b.Max(0)}
}
