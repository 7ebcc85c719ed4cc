package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/draftboard/internal/adapters/export"
	service "github.com/okian/draftboard/internal/app"
)

func newLoadCmd(e *env) *cobra.Command {
	var req service.LoadRequest

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Join the flat pair with enrichment into the JSON board",
		Long: `Read players.csv and player-sources.csv, join the enrichment file by
identity key, recompute every derived metric and emit the JSON board.
Without --out the board is printed to stdout.`,
		Example: `  draftboard load --players players.csv --sources player-sources.csv --out players-final.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := e.svc.Load(cmd.Context(), req)
			if err != nil {
				return err
			}
			if req.Out != "" {
				return nil
			}
			data, err := export.EncodeJSON(board.Players)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&req.Players, "players", "", "players.csv of the flat pair")
	cmd.Flags().StringVar(&req.Sources, "sources", "", "player-sources.csv of the flat pair")
	cmd.Flags().StringVar(&req.Enrichment, "enrichment", "", "enrichment CSV (default: player-enrichment.csv next to --players)")
	cmd.Flags().StringVar(&req.Out, "out", "", "write the JSON board here instead of stdout")
	_ = cmd.MarkFlagRequired("players")
	return cmd
}
