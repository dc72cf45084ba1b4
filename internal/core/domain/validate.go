package domain

import (
	"errors"
	"fmt"
)

var (
	ErrGeometryMismatch = errors.New("geometry kind does not match feature type")
	ErrTooFewPoints     = errors.New("route geometry needs at least 2 points")
	ErrDegenerateRing   = errors.New("polygon ring needs at least 3 distinct vertices")
)

// ValidateGeometry checks that g is well-formed for feature type t.
// Polygon rings are closed in place when the caller left them open.
func ValidateGeometry(t FeatureType, g *Geometry) error {
	want := GeometryKindFor(t)
	if g.Kind != want {
		return fmt.Errorf("%w: %s requires %s, got %s", ErrGeometryMismatch, t, want, g.Kind)
	}

	switch g.Kind {
	case GeometryPoint:
		if g.Point == nil {
			return fmt.Errorf("%w: point payload missing", ErrGeometryMismatch)
		}
		return checkCoord(*g.Point)

	case GeometryLine:
		if g.Line == nil || len(g.Line.Coordinates) < 2 {
			return ErrTooFewPoints
		}
		for _, p := range g.Line.Coordinates {
			if err := checkCoord(p); err != nil {
				return err
			}
		}
		return nil

	case GeometryPolygon:
		if g.Polygon == nil {
			return ErrDegenerateRing
		}
		ring, err := CloseRing(g.Polygon.Outer)
		if err != nil {
			return err
		}
		g.Polygon.Outer = ring
		for i, hole := range g.Polygon.Holes {
			closed, err := CloseRing(hole)
			if err != nil {
				return err
			}
			g.Polygon.Holes[i] = closed
		}
		return nil
	}
	return fmt.Errorf("unknown geometry kind %q", g.Kind)
}

// CloseRing validates a polygon ring and appends the first vertex if the
// caller sent it open. Distinct-vertex count must be >= 3.
func CloseRing(ring []GeoPoint) ([]GeoPoint, error) {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}

	distinct := make(map[GeoPoint]struct{}, len(ring))
	for _, p := range ring {
		if err := checkCoord(p); err != nil {
			return nil, err
		}
		distinct[p] = struct{}{}
	}
	if len(distinct) < 3 {
		return nil, ErrDegenerateRing
	}

	return append(ring, ring[0]), nil
}

func checkCoord(p GeoPoint) error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %f out of range", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude %f out of range", p.Lon)
	}
	return nil
}
