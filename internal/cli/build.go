package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	service "github.com/okian/draftboard/internal/app"
)

func newBuildCmd(e *env) *cobra.Command {
	var req service.BuildRequest

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the board from a raw ranking export",
		Long: `Parse a raw ranking export, compute the weighted consensus and derived
metrics, join the enrichment file, and write players-final.json, players.csv
and player-sources.csv. Nothing is written when any step fails.`,
		Example: `  draftboard build --input rankings.csv
  draftboard build --input rankings.csv --profile redraft --out-dir public/data`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := e.svc.Build(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "built %d players (%d filtered, %d join misses), run %s\n",
				len(board.Players), board.Filtered, len(board.Misses), board.RunID)
			for _, f := range board.Files {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  wrote %s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Input, "input", "", "raw ranking CSV")
	cmd.Flags().StringVar(&req.Enrichment, "enrichment", "", "enrichment CSV (default: player-enrichment.csv next to --input)")
	cmd.Flags().StringVar(&req.OutDir, "out-dir", "", "output directory (default: directory of --input)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
