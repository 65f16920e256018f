package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openforis/whisp-go/internal/risk"
	"github.com/openforis/whisp-go/internal/table"
)

var (
	reorderLookupPath string
	reorderPrefix     string
	reorderOutput     string
)

var reorderCmd = &cobra.Command{
	Use:   "reorder [results file]",
	Short: "Reorder a result table's columns by the dataset lookup",
	Long: `Reindexes a result table into the canonical column order: the prefix
columns first, then the lookup's dataset names sorted by dataset_order.
Columns missing from the input come back empty; columns not named by the
prefix or the lookup are dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]

		t, err := table.ReadFile(input)
		if err != nil {
			return eris.Wrapf(err, "reorder: read %s", input)
		}

		lookup, err := loadLookup(cfg.Lookup, reorderLookupPath)
		if err != nil {
			return err
		}

		prefix := cfg.Lookup.Prefix
		if reorderPrefix != "" {
			prefix = nil
			for _, col := range strings.Split(reorderPrefix, ",") {
				if col = strings.TrimSpace(col); col != "" {
					prefix = append(prefix, col)
				}
			}
		}

		out := risk.ReorderByLookup(t, lookup, prefix)

		output := reorderOutput
		if output == "" {
			output = input
		}
		if err := out.WriteFile(output); err != nil {
			return eris.Wrapf(err, "reorder: write %s", output)
		}

		zap.L().Info("reorder: done",
			zap.String("input", input),
			zap.String("output", output),
			zap.Int("columns", len(out.Columns())),
		)
		return nil
	},
}

func init() {
	reorderCmd.Flags().StringVar(&reorderLookupPath, "lookup", "", "lookup table path (default from config)")
	reorderCmd.Flags().StringVar(&reorderPrefix, "prefix", "", "comma-separated identifier columns placed first (default from config)")
	reorderCmd.Flags().StringVar(&reorderOutput, "output", "", "output path (default: overwrite input)")
	rootCmd.AddCommand(reorderCmd)
}
