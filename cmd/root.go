package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openforis/whisp-go/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "whisp",
	Short: "EUDR deforestation-risk screening for plot tables",
	Long:  "Derives binary indicators from per-plot geospatial metrics, classifies EUDR deforestation risk, and shapes result tables into the canonical dataset order for export.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
