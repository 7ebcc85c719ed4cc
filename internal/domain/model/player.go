// Package model contains domain models passed between layers.
package model

// Position is a canonical football position.
type Position string

// Canonical positions.
const (
	PositionQB      Position = "QB"
	PositionRB      Position = "RB"
	PositionWR      Position = "WR"
	PositionTE      Position = "TE"
	PositionK       Position = "K"
	PositionEDGE    Position = "EDGE"
	PositionDL      Position = "DL"
	PositionLB      Position = "LB"
	PositionS       Position = "S"
	PositionCB      Position = "CB"
	PositionOT      Position = "OT"
	PositionOG      Position = "OG"
	PositionC       Position = "C"
	PositionOL      Position = "OL"
	PositionUnknown Position = "UNKNOWN"
)

// CanonicalPositions lists every position the normalizer can emit on purpose.
var CanonicalPositions = []Position{
	PositionQB, PositionRB, PositionWR, PositionTE, PositionK,
	PositionEDGE, PositionDL, PositionLB, PositionS, PositionCB,
	PositionOT, PositionOG, PositionC, PositionOL,
}

// IsCanonical reports whether p is one of CanonicalPositions.
func (p Position) IsCanonical() bool {
	for _, c := range CanonicalPositions {
		if p == c {
			return true
		}
	}
	return false
}

// SourceRanking is one provider's rank for a player.
type SourceRanking struct {
	Source string  `json:"source"`
	Rank   int     `json:"rank"`
	Weight float64 `json:"weight"`
}

// BaseSource names the synthetic ranking emitted when no provider ranked a player.
const BaseSource = "Base"

// PlayerRecord is the unified, finalized record of one player on a board.
type PlayerRecord struct {
	ID                int             `json:"id"`
	Rank              int             `json:"rank"`
	Name              string          `json:"name"`
	Position          Position        `json:"pos"`
	School            string          `json:"school"`
	Year              string          `json:"year"`
	Size              string          `json:"size"`
	Weight            string          `json:"weight"`
	Speed             string          `json:"speed"`
	Tier              int             `json:"tier"`
	ConsensusRank     float64         `json:"consensusRank"`
	FantasyRank       int             `json:"fantasyRank"`
	SourceCount       int             `json:"sourceCount"`
	Grade             float64         `json:"grade"`
	DraftScore        float64         `json:"draftScore"`
	IsGenerational    bool            `json:"isGenerational"`
	FantasyMultiplier float64         `json:"fantasyMultiplier"`
	PreviousRank      *int            `json:"previousRank"`
	RankChange        int             `json:"rankChange"`
	Sources           []SourceRanking `json:"sources"`
	ESPNID            string          `json:"espnId"`
	PhotoURL          string          `json:"photoUrl"`
	Summary           string          `json:"summary"`
	HighlightURL      string          `json:"highlightUrl"`
	Initials          string          `json:"initials"`
}

// PrimaryRow is one row of the primary ranking dataset.
type PrimaryRow struct {
	ID            int
	Name          string
	Position      Position
	School        string
	Year          string
	Size          string
	Weight        string
	Speed         string
	ConsensusRank float64
}

// SourceRow attaches a SourceRanking to a player id.
type SourceRow struct {
	PlayerID int
	Ranking  SourceRanking
}

// EnrichmentRecord holds identity-keyed data that outlives ranking refreshes.
type EnrichmentRecord struct {
	Name              string
	School            string
	ESPNID            string
	PhotoURL          string
	Summary           string
	Year              string
	Size              string
	Weight            string
	Speed             string
	PriorRank         *int
	FantasyMultiplier *float64
}

// Key returns the record's identity key.
func (e EnrichmentRecord) Key() string {
	return IdentityKey(e.Name, e.School)
}
