package shapefile

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"

	"github.com/geofieldx/geofieldx/internal/core/domain"
)

var (
	ErrNoShapefile  = errors.New("archive contains no .shp entry")
	ErrArchiveEmpty = errors.New("shapefile has no features")
)

// Options controls the ZIP to GeoJSON conversion.
type Options struct {
	// SimplifyAboveN triggers Douglas-Peucker simplification once the
	// collection exceeds this many features. Zero disables simplification.
	SimplifyAboveN int
	// EpsilonDeg is the simplification tolerance in degrees.
	EpsilonDeg float64
	// MaxFeatures aborts conversion on oversized archives. Zero means no cap.
	MaxFeatures int
}

// Result is a converted shapefile archive.
type Result struct {
	GeoJSON      []byte
	FeatureCount int
	Bounds       domain.Bounds
	Simplified   bool
}

// ConvertZip extracts the .shp/.dbf pair from a ZIP archive and converts it
// to a GeoJSON FeatureCollection carrying the DBF attributes as properties.
func ConvertZip(archive []byte, opts Options) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "shp-convert-*")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	shpPath := ""
	for _, f := range zr.File {
		base := filepath.Base(f.Name)
		ext := strings.ToLower(filepath.Ext(base))
		switch ext {
		case ".shp", ".shx", ".dbf", ".prj", ".cpg":
		default:
			continue
		}

		dst := filepath.Join(tmpDir, strings.TrimSuffix(base, filepath.Ext(base))+ext)
		if err := extractEntry(f, dst); err != nil {
			return nil, fmt.Errorf("extract %s: %w", base, err)
		}
		if ext == ".shp" && shpPath == "" {
			shpPath = dst
		}
	}
	if shpPath == "" {
		return nil, ErrNoShapefile
	}

	return convertFile(shpPath, opts)
}

func extractEntry(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

func convertFile(path string, opts Options) (*Result, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read shapefile: %w", err)
	}
	defer reader.Close()

	fields := reader.Fields()
	fc := geojson.NewFeatureCollection()

	count := 0
	for reader.Next() {
		row, shape := reader.Shape()

		if opts.MaxFeatures > 0 && count >= opts.MaxFeatures {
			return nil, fmt.Errorf("archive exceeds %d features", opts.MaxFeatures)
		}

		geom := toOrb(shape)
		if geom == nil {
			continue // unsupported shape type, skip record
		}

		feat := geojson.NewFeature(geom)
		for i, field := range fields {
			feat.Properties[field.String()] = reader.ReadAttribute(row, i)
		}
		fc.Append(feat)
		count++
	}
	if err := reader.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("scan shapefile: %w", err)
	}
	if count == 0 {
		return nil, ErrArchiveEmpty
	}

	simplified := false
	if opts.SimplifyAboveN > 0 && count > opts.SimplifyAboveN && opts.EpsilonDeg > 0 {
		dp := simplify.DouglasPeucker(opts.EpsilonDeg)
		for _, feat := range fc.Features {
			feat.Geometry = dp.Simplify(feat.Geometry)
		}
		simplified = true
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}

	box := reader.BBox()
	return &Result{
		GeoJSON:      data,
		FeatureCount: count,
		Bounds: domain.Bounds{
			MinLat: box.MinY, MinLon: box.MinX,
			MaxLat: box.MaxY, MaxLon: box.MaxX,
		},
		Simplified: simplified,
	}, nil
}

// toOrb maps a shapefile record to an orb geometry. Z and M variants are
// flattened to 2D since the map clients only render lat/lon.
func toOrb(shape shp.Shape) orb.Geometry {
	switch s := shape.(type) {
	case *shp.Point:
		return orb.Point{s.X, s.Y}
	case *shp.PointZ:
		return orb.Point{s.X, s.Y}
	case *shp.PointM:
		return orb.Point{s.X, s.Y}
	case *shp.MultiPoint:
		mp := make(orb.MultiPoint, 0, len(s.Points))
		for _, p := range s.Points {
			mp = append(mp, orb.Point{p.X, p.Y})
		}
		return mp
	case *shp.PolyLine:
		return polyLineToOrb(s.Parts, s.Points)
	case *shp.PolyLineZ:
		return polyLineToOrb(s.Parts, s.Points)
	case *shp.Polygon:
		return polygonToOrb(s.Parts, s.Points)
	case *shp.PolygonZ:
		return polygonToOrb(s.Parts, s.Points)
	default:
		return nil
	}
}

func polyLineToOrb(parts []int32, points []shp.Point) orb.Geometry {
	lines := splitParts(parts, points)
	if len(lines) == 1 {
		return orb.LineString(lines[0])
	}
	ml := make(orb.MultiLineString, 0, len(lines))
	for _, l := range lines {
		ml = append(ml, l)
	}
	return ml
}

func polygonToOrb(parts []int32, points []shp.Point) orb.Geometry {
	rings := splitParts(parts, points)
	poly := make(orb.Polygon, 0, len(rings))
	for _, r := range rings {
		ring := orb.Ring(r)
		if !ring.Closed() && len(ring) > 0 {
			ring = append(ring, ring[0])
		}
		poly = append(poly, ring)
	}
	return poly
}

func splitParts(parts []int32, points []shp.Point) [][]orb.Point {
	if len(parts) == 0 {
		parts = []int32{0}
	}
	out := make([][]orb.Point, 0, len(parts))
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		seg := make([]orb.Point, 0, end-int(start))
		for _, p := range points[start:end] {
			seg = append(seg, orb.Point{p.X, p.Y})
		}
		out = append(out, seg)
	}
	return out
}
