// Package ingest reads plot shapefiles into metrics-table skeletons:
// attribute columns plus a computed area column, ready for the upstream
// analytics export to be joined on.
package ingest

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/openforis/whisp-go/internal/table"
)

// Derived column names appended to the attribute table.
const (
	CentroidLonColumn = "Centroid_lon"
	CentroidLatColumn = "Centroid_lat"
	GeometryWKBColumn = "geometry_wkb"
)

// Options configures shapefile ingestion.
type Options struct {
	// AreaColumn names the computed plot-area column (hectares).
	AreaColumn string
	// IncludeCentroid appends centroid lon/lat columns.
	IncludeCentroid bool
	// IncludeWKB appends a hex-encoded EWKB geometry column.
	IncludeWKB bool
}

// ReadShapefile reads a shapefile's attribute table into a Table,
// appending the computed area column and, per Options, centroid and
// geometry columns. Records without usable geometry keep their
// attributes; the derived cells stay empty.
func ReadShapefile(path string, opts Options) (*table.Table, error) {
	if opts.AreaColumn == "" {
		return nil, eris.New("ingest: area column name must not be empty")
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	attrs := make([][]string, len(fields))
	var areas, lons, lats, wkbs []string
	var noGeom int

	for reader.Next() {
		_, shape := reader.Shape()

		for i := range fields {
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			attrs[i] = append(attrs[i], val)
		}

		g := shapeToGeom(shape)
		if g == nil {
			noGeom++
			areas = append(areas, "")
			lons = append(lons, "")
			lats = append(lats, "")
			wkbs = append(wkbs, "")
			continue
		}

		areas = append(areas, strconv.FormatFloat(areaHa(g), 'f', 6, 64))

		if lon, lat, ok := centroid(g); ok {
			lons = append(lons, strconv.FormatFloat(lon, 'f', 6, 64))
			lats = append(lats, strconv.FormatFloat(lat, 'f', 6, 64))
		} else {
			lons = append(lons, "")
			lats = append(lats, "")
		}

		if opts.IncludeWKB {
			data, encErr := encodeEWKB(g)
			if encErr != nil {
				zap.L().Debug("ingest: skipping geometry encoding", zap.Error(encErr))
				wkbs = append(wkbs, "")
			} else {
				wkbs = append(wkbs, hex.EncodeToString(data))
			}
		} else {
			wkbs = append(wkbs, "")
		}
	}

	if noGeom > 0 {
		zap.L().Debug("ingest: records without usable geometry",
			zap.String("shapefile", path),
			zap.Int("records", noGeom),
		)
	}

	out := table.New(len(areas))
	for i, name := range names {
		if err := out.SetColumn(name, attrs[i]); err != nil {
			return nil, eris.Wrapf(err, "ingest: attribute column %q", name)
		}
	}
	if err := out.SetColumn(opts.AreaColumn, areas); err != nil {
		return nil, eris.Wrapf(err, "ingest: area column %q", opts.AreaColumn)
	}
	if opts.IncludeCentroid {
		if err := out.SetColumn(CentroidLonColumn, lons); err != nil {
			return nil, eris.Wrap(err, "ingest: centroid columns")
		}
		if err := out.SetColumn(CentroidLatColumn, lats); err != nil {
			return nil, eris.Wrap(err, "ingest: centroid columns")
		}
	}
	if opts.IncludeWKB {
		if err := out.SetColumn(GeometryWKBColumn, wkbs); err != nil {
			return nil, eris.Wrap(err, "ingest: geometry column")
		}
	}

	zap.L().Info("ingest: shapefile read",
		zap.String("shapefile", path),
		zap.Int("plots", out.NumRows()),
		zap.Int("columns", len(out.Columns())),
	)

	return out, nil
}
