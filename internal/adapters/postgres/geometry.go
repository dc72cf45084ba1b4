package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/geofieldx/geofieldx/internal/core/domain"
)

// geoJSONGeom is the wire form exchanged with ST_GeomFromGeoJSON /
// ST_AsGeoJSON. Coordinates are [lon, lat] per the GeoJSON spec.
type geoJSONGeom struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// encodeGeometry renders a domain geometry as a GeoJSON geometry string.
func encodeGeometry(g domain.Geometry) (string, error) {
	var (
		typ    string
		coords any
	)
	switch g.Kind {
	case domain.GeometryPoint:
		if g.Point == nil {
			return "", fmt.Errorf("point geometry missing payload")
		}
		typ = "Point"
		coords = []float64{g.Point.Lon, g.Point.Lat}
	case domain.GeometryLine:
		if g.Line == nil {
			return "", fmt.Errorf("line geometry missing payload")
		}
		typ = "LineString"
		coords = positions(g.Line.Coordinates)
	case domain.GeometryPolygon:
		if g.Polygon == nil {
			return "", fmt.Errorf("polygon geometry missing payload")
		}
		typ = "Polygon"
		rings := [][][]float64{positions(g.Polygon.Outer)}
		for _, hole := range g.Polygon.Holes {
			rings = append(rings, positions(hole))
		}
		coords = rings
	default:
		return "", fmt.Errorf("unknown geometry kind %q", g.Kind)
	}

	raw, err := json.Marshal(coords)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(geoJSONGeom{Type: typ, Coordinates: raw})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeGeometry parses an ST_AsGeoJSON result back into a domain geometry.
func decodeGeometry(raw string) (domain.Geometry, error) {
	var gj geoJSONGeom
	if err := json.Unmarshal([]byte(raw), &gj); err != nil {
		return domain.Geometry{}, fmt.Errorf("parse geometry json: %w", err)
	}

	switch gj.Type {
	case "Point":
		var c []float64
		if err := json.Unmarshal(gj.Coordinates, &c); err != nil || len(c) < 2 {
			return domain.Geometry{}, fmt.Errorf("malformed point coordinates")
		}
		return domain.Geometry{
			Kind:  domain.GeometryPoint,
			Point: &domain.GeoPoint{Lat: c[1], Lon: c[0]},
		}, nil

	case "LineString":
		var c [][]float64
		if err := json.Unmarshal(gj.Coordinates, &c); err != nil {
			return domain.Geometry{}, fmt.Errorf("malformed linestring coordinates: %w", err)
		}
		return domain.Geometry{
			Kind: domain.GeometryLine,
			Line: &domain.GeoLineString{Coordinates: points(c)},
		}, nil

	case "Polygon":
		var c [][][]float64
		if err := json.Unmarshal(gj.Coordinates, &c); err != nil || len(c) == 0 {
			return domain.Geometry{}, fmt.Errorf("malformed polygon coordinates")
		}
		poly := &domain.GeoPolygon{Outer: points(c[0])}
		for _, hole := range c[1:] {
			poly.Holes = append(poly.Holes, points(hole))
		}
		return domain.Geometry{Kind: domain.GeometryPolygon, Polygon: poly}, nil
	}
	return domain.Geometry{}, fmt.Errorf("unsupported geometry type %q", gj.Type)
}

func positions(pts []domain.GeoPoint) [][]float64 {
	out := make([][]float64, 0, len(pts))
	for _, p := range pts {
		out = append(out, []float64{p.Lon, p.Lat})
	}
	return out
}

func points(coords [][]float64) []domain.GeoPoint {
	out := make([]domain.GeoPoint, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		out = append(out, domain.GeoPoint{Lat: c[1], Lon: c[0]})
	}
	return out
}
