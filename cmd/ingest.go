package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openforis/whisp-go/internal/ingest"
)

var (
	ingestOutput   string
	ingestWKB      bool
	ingestCentroid bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [plots.shp]",
	Short: "Read a plot shapefile into a metrics-table skeleton",
	Long: `Reads a shapefile's attribute table, computes each plot's area in
hectares and centroid from its geometry, and writes the result as a
CSV/XLSX table ready for the analytics export to be joined on.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shpPath := args[0]

		t, err := ingest.ReadShapefile(shpPath, ingest.Options{
			AreaColumn:      cfg.Ingest.AreaColumn,
			IncludeCentroid: ingestCentroid,
			IncludeWKB:      ingestWKB,
		})
		if err != nil {
			return err
		}

		if err := t.WriteFile(ingestOutput); err != nil {
			return eris.Wrapf(err, "ingest: write %s", ingestOutput)
		}

		zap.L().Info("ingest: done",
			zap.String("shapefile", shpPath),
			zap.String("output", ingestOutput),
			zap.Int("plots", t.NumRows()),
		)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestOutput, "output", "plots.csv", "output table path (.csv or .xlsx)")
	ingestCmd.Flags().BoolVar(&ingestWKB, "wkb", false, "append a hex EWKB geometry column")
	ingestCmd.Flags().BoolVar(&ingestCentroid, "centroid", true, "append centroid lon/lat columns")
	rootCmd.AddCommand(ingestCmd)
}
