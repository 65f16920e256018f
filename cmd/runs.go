package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/openforis/whisp-go/internal/store"
)

var (
	runsLimit int
	runsInput string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded classification runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ledger, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = ledger.Close() }()

		runs, err := ledger.ListRuns(ctx, store.RunFilter{
			Input: runsInput,
			Limit: runsLimit,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(runs), "runs: encode")
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max runs to list (0 = all)")
	runsCmd.Flags().StringVar(&runsInput, "input", "", "filter by input file name")
	rootCmd.AddCommand(runsCmd)
}
