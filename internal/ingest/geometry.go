package ingest

import (
	"math"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"go.uber.org/zap"
)

// Meters per degree at the equator (WGS84 spherical approximation).
const (
	metersPerDegLat = 111320.0
	m2PerHa         = 10000.0
)

// shapeToGeom converts a shapefile shape to a go-geom geometry.
// Unsupported shape types return nil.
func shapeToGeom(shape shp.Shape) geom.T {
	switch s := shape.(type) {
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y}).SetSRID(4326)
	case *shp.Polygon:
		return polygonToMultiPolygon(s)
	default:
		return nil
	}
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("ingest: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("ingest: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// encodeEWKB marshals a geometry as little-endian EWKB.
func encodeEWKB(g geom.T) ([]byte, error) {
	data, err := ewkb.Marshal(g, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: encode WKB")
	}
	return data, nil
}

// centroid returns the bounds midpoint of a geometry: a cheap
// representative point, adequate for labeling plots on a map.
func centroid(g geom.T) (lon, lat float64, ok bool) {
	if g == nil {
		return 0, 0, false
	}
	if p, isPoint := g.(*geom.Point); isPoint {
		return p.X(), p.Y(), true
	}
	b := g.Bounds()
	if b == nil {
		return 0, 0, false
	}
	return (b.Min(0) + b.Max(0)) / 2, (b.Min(1) + b.Max(1)) / 2, true
}

// areaHa returns the geometry area in hectares. Coordinates that fit the
// lon/lat domain are treated as WGS84 degrees and scaled with an
// equirectangular approximation at the geometry's latitude; anything else
// is assumed to be a projected CRS in meters. Good to well under a
// percent for plot-sized polygons.
func areaHa(g geom.T) float64 {
	type planar interface{ Area() float64 }
	pa, ok := g.(planar)
	if !ok {
		return 0
	}
	area := math.Abs(pa.Area())
	if area == 0 {
		return 0
	}

	if looksLikeDegrees(g) {
		_, lat, ok := centroid(g)
		if !ok {
			return 0
		}
		metersPerDegLon := metersPerDegLat * math.Cos(lat*math.Pi/180)
		area *= metersPerDegLat * metersPerDegLon
	}
	return area / m2PerHa
}

func looksLikeDegrees(g geom.T) bool {
	b := g.Bounds()
	if b == nil {
		return false
	}
	return b.Min(0) >= -180 && b.Max(0) <= 180 && b.Min(1) >= -90 && b.Max(1) <= 90
}
