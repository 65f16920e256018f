package ingest

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// squarePolygon returns a closed shapefile square with the given corner
// coordinates.
func squarePolygon(minX, minY, maxX, maxY float64) *shp.Polygon {
	points := []shp.Point{
		{X: minX, Y: minY},
		{X: minX, Y: maxY},
		{X: maxX, Y: maxY},
		{X: maxX, Y: minY},
		{X: minX, Y: minY},
	}
	return &shp.Polygon{
		Box:       shp.BBoxFromPoints(points),
		NumParts:  1,
		NumPoints: int32(len(points)),
		Parts:     []int32{0},
		Points:    points,
	}
}

func TestShapeToGeom(t *testing.T) {
	g := shapeToGeom(squarePolygon(0, 0, 1, 1))
	require.NotNil(t, g)

	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 1, mp.NumPolygons())

	pt := shapeToGeom(&shp.Point{X: 3, Y: 4})
	require.NotNil(t, pt)
	p, ok := pt.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, 3.0, p.X())
	assert.Equal(t, 4.0, p.Y())

	assert.Nil(t, shapeToGeom(nil))
	assert.Nil(t, shapeToGeom(&shp.PolyLine{}))
}

func TestCentroid(t *testing.T) {
	g := shapeToGeom(squarePolygon(0, 0, 0.01, 0.01))
	lon, lat, ok := centroid(g)
	require.True(t, ok)
	assert.InDelta(t, 0.005, lon, 1e-9)
	assert.InDelta(t, 0.005, lat, 1e-9)

	plon, plat, ok := centroid(shapeToGeom(&shp.Point{X: -1.5, Y: 7}))
	require.True(t, ok)
	assert.Equal(t, -1.5, plon)
	assert.Equal(t, 7.0, plat)

	_, _, ok = centroid(nil)
	assert.False(t, ok)
}

func TestAreaHaDegrees(t *testing.T) {
	// A 0.01° square at the equator is about 1.24 km², i.e. ~124 ha.
	g := shapeToGeom(squarePolygon(0, 0, 0.01, 0.01))
	assert.InDelta(t, 123.9, areaHa(g), 1.0)
}

func TestAreaHaProjected(t *testing.T) {
	// Coordinates outside the lon/lat domain are taken as meters:
	// a 1 km square is exactly 100 ha.
	g := shapeToGeom(squarePolygon(500000, 700000, 501000, 701000))
	assert.InDelta(t, 100.0, areaHa(g), 1e-6)
}

func TestAreaHaPoint(t *testing.T) {
	g := shapeToGeom(&shp.Point{X: 1, Y: 1})
	assert.Equal(t, 0.0, areaHa(g))
}

func TestEncodeEWKB(t *testing.T) {
	g := shapeToGeom(squarePolygon(0, 0, 1, 1))
	data, err := encodeEWKB(g)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// Little-endian byte-order marker.
	assert.Equal(t, byte(0x01), data[0])
}
