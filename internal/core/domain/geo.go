package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoLineString represents an ordered sequence of geographic coordinates.
type GeoLineString struct {
	Coordinates []GeoPoint `json:"coordinates"`
}

// GeoPolygon represents a polygon as an outer ring plus optional holes.
// Rings are stored closed (first vertex repeated last).
type GeoPolygon struct {
	Outer []GeoPoint   `json:"outer"`
	Holes [][]GeoPoint `json:"holes,omitempty"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// GeometryKind identifies which geometry variant a feature carries.
type GeometryKind string

const (
	GeometryPoint   GeometryKind = "point"
	GeometryLine    GeometryKind = "line"
	GeometryPolygon GeometryKind = "polygon"
)

// Geometry is the union of geometry kinds a feature can carry.
// Exactly one of Point, Line, or Polygon is set, matching Kind.
type Geometry struct {
	Kind    GeometryKind   `json:"kind"`
	Point   *GeoPoint      `json:"point,omitempty"`
	Line    *GeoLineString `json:"line,omitempty"`
	Polygon *GeoPolygon    `json:"polygon,omitempty"`
}
