package postgres

import (
	"testing"

	"github.com/geofieldx/geofieldx/internal/core/domain"
)

func TestGeometryRoundTrip_Point(t *testing.T) {
	g := domain.Geometry{
		Kind:  domain.GeometryPoint,
		Point: &domain.GeoPoint{Lat: 51.5072, Lon: -0.1276},
	}

	raw, err := encodeGeometry(g)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := decodeGeometry(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Kind != domain.GeometryPoint || *got.Point != *g.Point {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestGeometryRoundTrip_Line(t *testing.T) {
	g := domain.Geometry{
		Kind: domain.GeometryLine,
		Line: &domain.GeoLineString{Coordinates: []domain.GeoPoint{
			{Lat: 51.50, Lon: -0.12},
			{Lat: 51.51, Lon: -0.13},
			{Lat: 51.52, Lon: -0.14},
		}},
	}

	raw, err := encodeGeometry(g)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeGeometry(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Line.Coordinates) != 3 {
		t.Fatalf("expected 3 coordinates, got %d", len(got.Line.Coordinates))
	}
	if got.Line.Coordinates[2] != g.Line.Coordinates[2] {
		t.Errorf("coordinate mismatch: %+v", got.Line.Coordinates[2])
	}
}

func TestGeometryRoundTrip_PolygonWithHole(t *testing.T) {
	g := domain.Geometry{
		Kind: domain.GeometryPolygon,
		Polygon: &domain.GeoPolygon{
			Outer: []domain.GeoPoint{
				{Lat: 0, Lon: 0}, {Lat: 0, Lon: 4}, {Lat: 4, Lon: 4}, {Lat: 4, Lon: 0}, {Lat: 0, Lon: 0},
			},
			Holes: [][]domain.GeoPoint{{
				{Lat: 1, Lon: 1}, {Lat: 1, Lon: 2}, {Lat: 2, Lon: 2}, {Lat: 1, Lon: 1},
			}},
		},
	}

	raw, err := encodeGeometry(g)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeGeometry(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Polygon.Outer) != 5 {
		t.Errorf("expected 5 outer vertices, got %d", len(got.Polygon.Outer))
	}
	if len(got.Polygon.Holes) != 1 {
		t.Fatalf("expected 1 hole, got %d", len(got.Polygon.Holes))
	}
}

func TestDecodeGeometry_Unsupported(t *testing.T) {
	if _, err := decodeGeometry(`{"type":"GeometryCollection","coordinates":[]}`); err == nil {
		t.Fatal("expected error for unsupported geometry type")
	}
}

func TestEncodeGeometry_MissingPayload(t *testing.T) {
	if _, err := encodeGeometry(domain.Geometry{Kind: domain.GeometryPoint}); err == nil {
		t.Fatal("expected error for missing point payload")
	}
}
