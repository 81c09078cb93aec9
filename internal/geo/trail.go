package geo

import (
	"fmt"

	"github.com/armada-sim/simcore/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Trail builds a LineString through the recorded positions of one vehicle.
// Consecutive duplicates (ticks without movement) are collapsed.
func Trail(points []core.Point) (geom.LineString, error) {
	flat := make([]float64, 0, len(points)*2)
	var last core.Point
	for i, p := range points {
		if i > 0 && p == last {
			continue
		}
		flat = append(flat, p.X, p.Y)
		last = p
	}

	if len(flat) < 4 {
		return geom.LineString{}, fmt.Errorf("trail must have at least 2 distinct points, got %d", len(flat)/2)
	}

	return geom.NewLineString(geom.NewSequence(flat, geom.DimXY)), nil
}

// TrailLength is the travelled distance along the trail in map units.
func TrailLength(points []core.Point) float64 {
	ls, err := Trail(points)
	if err != nil {
		return 0
	}
	return ls.Length()
}
