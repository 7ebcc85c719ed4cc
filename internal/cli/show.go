package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/okian/draftboard/internal/adapters/repository"
	service "github.com/okian/draftboard/internal/app"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/position"
)

func newShowCmd(e *env) *cobra.Command {
	var (
		boardPath string
		limit     int
		pos       string
		tier      int
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the top of a board as a table",
		Example: `  draftboard show --board players-final.json --limit 10
  draftboard show --position wr`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			players, err := service.ReadBoard(boardPath)
			if err != nil {
				return err
			}
			store := repository.NewBoardStore(repository.WithMaxLimit(e.cfg.MaxPageLimit))
			store.Replace(cmd.Context(), players)

			f := repository.Filter{Tier: tier}
			if pos != "" {
				f.Position = position.Normalize(pos)
			}
			top, err := store.TopN(cmd.Context(), limit, f)
			if err != nil {
				return err
			}
			renderBoard(cmd.OutOrStdout(), top)
			return nil
		},
	}

	cmd.Flags().StringVar(&boardPath, "board", "players-final.json", "JSON board export")
	cmd.Flags().IntVar(&limit, "limit", 25, "number of players to print")
	cmd.Flags().StringVar(&pos, "position", "", "only this position (raw labels are normalized)")
	cmd.Flags().IntVar(&tier, "tier", 0, "only this tier")
	return cmd
}

func renderBoard(w io.Writer, players []model.PlayerRecord) {
	if len(players) == 0 {
		_, _ = fmt.Fprintln(w, "(0 players)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Name", "Pos", "School", "Tier", "Consensus", "Grade", "Score", "Fantasy", "Move", "Sources"})
	for _, p := range players {
		t.AppendRow(table.Row{
			p.Rank, p.Name, p.Position, p.School, p.Tier,
			strconv.FormatFloat(p.ConsensusRank, 'f', 1, 64),
			strconv.FormatFloat(p.Grade, 'f', 2, 64),
			strconv.FormatFloat(p.DraftScore, 'f', 2, 64),
			p.FantasyRank, movement(p), p.SourceCount,
		})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d players)\n", len(players))
}

func movement(p model.PlayerRecord) string {
	switch {
	case p.PreviousRank == nil:
		return "new"
	case p.RankChange > 0:
		return "+" + strconv.Itoa(p.RankChange)
	case p.RankChange < 0:
		return strconv.Itoa(p.RankChange)
	default:
		return "="
	}
}
