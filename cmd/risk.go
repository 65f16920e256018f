package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openforis/whisp-go/internal/model"
	"github.com/openforis/whisp-go/internal/risk"
	"github.com/openforis/whisp-go/internal/store"
	"github.com/openforis/whisp-go/internal/table"
)

var (
	riskOutputDir   string
	riskSuffix      string
	riskProfile     string
	riskLookupPath  string
	riskReorder     bool
	riskConcurrency int
	riskNoStore     bool
)

var riskCmd = &cobra.Command{
	Use:   "risk [metrics files...]",
	Short: "Classify EUDR deforestation risk for metric tables",
	Long: `Reads per-plot metrics tables (CSV or XLSX), derives the four risk
indicators, appends the EUDR_risk column, and writes the classified
table next to the input (or into --output-dir).

Thresholds, indicator column sets, and unit handling come from the
config file; --profile swaps in a standalone YAML risk profile.

Examples:
  # Classify one analytics export
  whisp risk plots.csv

  # Several exports, reordered for delivery
  whisp risk --reorder --lookup lookup_gee_datasets.csv exports/*.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		params, err := riskParams(cfg.Risk)
		if err != nil {
			return err
		}
		if riskProfile != "" {
			profile, err := risk.LoadProfile(riskProfile)
			if err != nil {
				return err
			}
			params, err = profile.Params()
			if err != nil {
				return err
			}
		}

		var lookup risk.Lookup
		if riskReorder {
			lookup, err = loadLookup(cfg.Lookup, riskLookupPath)
			if err != nil {
				return err
			}
		}

		var ledger store.Store
		if !riskNoStore {
			s, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			ledger = s
		}

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(riskConcurrency)
		for _, input := range args {
			g.Go(func() error {
				return classifyFile(ctx, input, params, lookup, ledger)
			})
		}
		return g.Wait()
	},
}

// classifyFile runs the pipeline on one input file. Each file gets its
// own table instance, so files can be processed concurrently.
func classifyFile(ctx context.Context, input string, params risk.Params, lookup risk.Lookup, ledger store.Store) error {
	t, err := table.ReadFile(input)
	if err != nil {
		return eris.Wrapf(err, "risk: read %s", input)
	}

	classified, err := risk.Classify(t, params)
	if err != nil {
		return eris.Wrapf(err, "risk: classify %s", input)
	}

	if lookup != nil {
		prefix := append([]string{}, cfg.Lookup.Prefix...)
		for _, ind := range params.Indicators {
			prefix = append(prefix, ind.Name)
		}
		prefix = append(prefix, risk.RiskColumn)
		classified = risk.ReorderByLookup(classified, lookup, prefix)
	}

	output := outputPath(input)
	if err := classified.WriteFile(output); err != nil {
		return eris.Wrapf(err, "risk: write %s", output)
	}

	low, moreInfo, high, err := risk.Distribution(classified)
	if err != nil {
		return eris.Wrap(err, "risk: distribution")
	}

	zap.L().Info("risk: classified",
		zap.String("input", input),
		zap.String("output", output),
		zap.Int("rows", classified.NumRows()),
		zap.Int("low", low),
		zap.Int("more_info_needed", moreInfo),
		zap.Int("high", high),
	)

	if ledger != nil {
		run := &model.Run{
			Input:    filepath.Base(input),
			Rows:     classified.NumRows(),
			UnitMode: string(params.UnitMode),
			Low:      low,
			MoreInfo: moreInfo,
			High:     high,
		}
		for i, ind := range params.Indicators {
			run.Thresholds[i] = ind.Threshold
		}
		if err := ledger.SaveRun(ctx, run); err != nil {
			return eris.Wrap(err, "risk: record run")
		}
	}

	return nil
}

// outputPath derives the output file name from the input, honoring
// --output-dir and --suffix.
func outputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(filepath.Base(input), ext)
	dir := filepath.Dir(input)
	if riskOutputDir != "" {
		dir = riskOutputDir
	}
	return filepath.Join(dir, base+riskSuffix+ext)
}

// openLedger opens the run ledger and runs migrations.
func openLedger(ctx context.Context) (*store.SQLiteStore, error) {
	s, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func init() {
	riskCmd.Flags().StringVar(&riskOutputDir, "output-dir", "", "directory for classified tables (default: next to input)")
	riskCmd.Flags().StringVar(&riskSuffix, "suffix", "_risk", "suffix appended to output file names")
	riskCmd.Flags().StringVar(&riskProfile, "profile", "", "YAML risk profile overriding the config thresholds")
	riskCmd.Flags().StringVar(&riskLookupPath, "lookup", "", "lookup table for --reorder (default from config)")
	riskCmd.Flags().BoolVar(&riskReorder, "reorder", false, "reorder output columns by the dataset lookup")
	riskCmd.Flags().IntVar(&riskConcurrency, "concurrency", 4, "max input files processed in parallel")
	riskCmd.Flags().BoolVar(&riskNoStore, "no-store", false, "skip recording the run in the ledger")
	rootCmd.AddCommand(riskCmd)
}
