package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/armada-sim/simcore/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// MAP POINTS
// Map positions are stored as plain XY geometry in map units. Geometry data is stored
// in the WKB format so SQLite (no spatial awareness) can round-trip it through Scan.
// A run may be anchored to a real-world origin; map units are then treated as metres
// on the EPSG:3857 plane with y growing southward, as on the game map.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// PointFromCore encodes a map position as an XY point.
func PointFromCore(p core.Point) geom.Point {
	return geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: p.X, Y: p.Y},
		Type: geom.DimXY,
	})
}

// PointToCore decodes an XY point. An empty point decodes to the origin.
func PointToCore(p geom.Point) core.Point {
	c, ok := p.Coordinates()
	if !ok {
		return core.Point{}
	}
	return core.Point{X: c.X, Y: c.Y}
}

// PointFromString parses "x,y" into a map position.
func PointFromString(coords string) (core.Point, error) {
	parts := strings.Split(coords, ",")
	if len(parts) != 2 {
		return core.Point{}, ErrInvalidCoordinates
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return core.Point{}, ErrInvalidCoordinates
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return core.Point{}, ErrInvalidCoordinates
	}
	return core.Point{X: x, Y: y}, nil
}

// ToLonLat projects a map position onto WGS84 relative to origin.
func ToLonLat(origin core.LonLat, p core.Point) core.LonLat {
	epsg := wgs84.EPSG()
	ox, oy, _ := epsg.Transform(4326, 3857)(origin.Lon, origin.Lat, 0)
	lon, lat, _ := epsg.Transform(3857, 4326)(ox+p.X, oy-p.Y, 0)
	return core.LonLat{Lon: lon, Lat: lat}
}

// FromLonLat is the inverse of ToLonLat.
func FromLonLat(origin core.LonLat, ll core.LonLat) core.Point {
	f := wgs84.EPSG().Transform(4326, 3857)
	ox, oy, _ := f(origin.Lon, origin.Lat, 0)
	x, y, _ := f(ll.Lon, ll.Lat, 0)
	return core.Point{X: x - ox, Y: oy - y}
}
