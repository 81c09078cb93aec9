package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/armada-sim/simcore/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

func TestPointFromCore_RoundTrip(t *testing.T) {
	p := PointFromCore(core.Point{X: 100.5, Y: 200.25})

	coords, ok := p.Coordinates()
	if !ok {
		t.Fatal("expected valid coordinates")
	}
	if coords.X != 100.5 || coords.Y != 200.25 {
		t.Errorf("expected (100.5, 200.25), got (%f, %f)", coords.X, coords.Y)
	}

	back := PointToCore(p)
	if back != (core.Point{X: 100.5, Y: 200.25}) {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestPointToCore_Empty(t *testing.T) {
	got := PointToCore(geom.NewEmptyPoint(geom.DimXY))
	if got != (core.Point{}) {
		t.Errorf("expected origin for empty point, got %+v", got)
	}
}

func TestPointFromString(t *testing.T) {
	p, err := PointFromString("12.5, -3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X != 12.5 || p.Y != -3 {
		t.Errorf("expected (12.5, -3), got %+v", p)
	}
}

func TestPointFromString_Invalid(t *testing.T) {
	for _, in := range []string{"", "1", "1,2,3", "a,2", "1,b"} {
		if _, err := PointFromString(in); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("%q: expected ErrInvalidCoordinates, got %v", in, err)
		}
	}
}

func TestToLonLat_OriginMapsToItself(t *testing.T) {
	origin := core.LonLat{Lon: 30.3, Lat: 59.9}
	got := ToLonLat(origin, core.Point{})

	if math.Abs(got.Lon-origin.Lon) > 1e-9 || math.Abs(got.Lat-origin.Lat) > 1e-9 {
		t.Errorf("expected %+v, got %+v", origin, got)
	}
}

func TestToLonLat_Directions(t *testing.T) {
	origin := core.LonLat{Lon: 10, Lat: 45}

	east := ToLonLat(origin, core.Point{X: 1000})
	if east.Lon <= origin.Lon {
		t.Errorf("positive x should move east, got %+v", east)
	}

	south := ToLonLat(origin, core.Point{Y: 1000})
	if south.Lat >= origin.Lat {
		t.Errorf("positive y should move south, got %+v", south)
	}
}

func TestFromLonLat_Inverse(t *testing.T) {
	origin := core.LonLat{Lon: -73.98, Lat: 40.75}
	p := core.Point{X: 512, Y: 300}

	back := FromLonLat(origin, ToLonLat(origin, p))
	if math.Abs(back.X-p.X) > 1e-6 || math.Abs(back.Y-p.Y) > 1e-6 {
		t.Errorf("expected %+v, got %+v", p, back)
	}
}
