package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	service "github.com/okian/draftboard/internal/app"
)

func newPromoteCmd(e *env) *cobra.Command {
	var req service.PromoteRequest

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Record the board's finalized ranks as prior ranks",
		Long: `Write every board player's finalized rank into the enrichment file as
prior_rank, so the next build reports movement against this board. Rows are
created for new players; every other enrichment field is kept.`,
		Example: `  draftboard promote --board players-final.json --enrichment player-enrichment.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := e.svc.Promote(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "promoted %s: %d updated, %d added\n", req.Enrichment, res.Updated, res.Added)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Board, "board", "players-final.json", "JSON board export")
	cmd.Flags().StringVar(&req.Enrichment, "enrichment", "", "enrichment CSV to update")
	_ = cmd.MarkFlagRequired("enrichment")
	return cmd
}
