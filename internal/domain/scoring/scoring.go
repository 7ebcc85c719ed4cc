// Package scoring derives tiers, grades, draft scores and fantasy value from
// a consensus rank.
package scoring

import (
	"math"
	"sort"

	"github.com/okian/draftboard/internal/domain/model"
)

// Default scoring constants.
const (
	defaultPositionValue     = 1.0
	defaultFantasyMultiplier = 0.3
	draftScoreHorizon        = 250
	draftScoreStep           = 25
	generationalMaxRank      = 5
	generationalMinGrade     = 9.0
	minGrade                 = 1
	maxGrade                 = 10
)

// TierBoundary assigns Tier to ranks up to MaxRank. MaxRank 0 is unbounded.
type TierBoundary struct {
	MaxRank float64 `koanf:"max_rank" json:"max_rank"`
	Tier    int     `koanf:"tier" json:"tier"`
}

// DefaultTiers returns the tier bands used when none are configured.
func DefaultTiers() []TierBoundary {
	return []TierBoundary{
		{MaxRank: 24, Tier: 1},
		{MaxRank: 60, Tier: 2},
		{MaxRank: 0, Tier: 3},
	}
}

// DefaultPositionValues returns the draft value of each position. The
// numbers are product-tunable placeholders.
func DefaultPositionValues() map[model.Position]float64 {
	return map[model.Position]float64{
		model.PositionQB:   1.5,
		model.PositionRB:   1.2,
		model.PositionWR:   1.2,
		model.PositionTE:   1.0,
		model.PositionK:    0.3,
		model.PositionEDGE: 0.8,
		model.PositionDL:   0.6,
		model.PositionLB:   0.6,
		model.PositionS:    0.5,
		model.PositionCB:   0.6,
		model.PositionOT:   0.4,
		model.PositionOG:   0.3,
		model.PositionC:    0.3,
		model.PositionOL:   0.35,
	}
}

// DefaultFantasyMultipliers returns the fantasy relevance of each position.
// The numbers are product-tunable placeholders.
func DefaultFantasyMultipliers() map[model.Position]float64 {
	return map[model.Position]float64{
		model.PositionQB:   1.0,
		model.PositionRB:   0.95,
		model.PositionWR:   0.95,
		model.PositionTE:   0.8,
		model.PositionK:    0.4,
		model.PositionEDGE: 0.5,
		model.PositionDL:   0.4,
		model.PositionLB:   0.5,
		model.PositionS:    0.4,
		model.PositionCB:   0.4,
	}
}

type anchor struct {
	rank  float64
	grade float64
}

// gradeAnchors must be sorted by rank with non-increasing grades.
var gradeAnchors = []anchor{
	{1, 10}, {10, 9}, {32, 8}, {64, 7}, {100, 6}, {150, 5}, {250, 3}, {500, 1},
}

// Metrics bundles everything derived from one rank.
type Metrics struct {
	Tier              int
	Grade             float64
	DraftScore        float64
	FantasyMultiplier float64
	FantasyRank       int
	IsGenerational    bool
}

// Calculator computes derived metrics from injected tables. It is safe for
// concurrent use once built.
type Calculator struct {
	tiers                    []TierBoundary
	positionValues           map[model.Position]float64
	defaultPositionValue     float64
	fantasyMultipliers       map[model.Position]float64
	defaultFantasyMultiplier float64
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithTiers sets the tier bands. Invalid lists are ignored; check them with
// ValidateTiers first.
func WithTiers(tiers []TierBoundary) Option {
	return func(c *Calculator) {
		if ValidateTiers(tiers) == nil {
			c.tiers = append([]TierBoundary(nil), tiers...)
		}
	}
}

// WithPositionValues sets the per-position draft values.
func WithPositionValues(values map[model.Position]float64) Option {
	return func(c *Calculator) {
		c.positionValues = copyPositive(values)
	}
}

// WithDefaultPositionValue sets the value of positions missing from the table.
func WithDefaultPositionValue(v float64) Option {
	return func(c *Calculator) {
		if v > 0 {
			c.defaultPositionValue = v
		}
	}
}

// WithFantasyMultipliers sets the per-position fantasy multipliers.
func WithFantasyMultipliers(values map[model.Position]float64) Option {
	return func(c *Calculator) {
		c.fantasyMultipliers = copyPositive(values)
	}
}

// WithDefaultFantasyMultiplier sets the multiplier of positions missing from
// the table.
func WithDefaultFantasyMultiplier(v float64) Option {
	return func(c *Calculator) {
		if v > 0 {
			c.defaultFantasyMultiplier = v
		}
	}
}

// NewCalculator creates a Calculator with default tables.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		tiers:                    DefaultTiers(),
		positionValues:           DefaultPositionValues(),
		defaultPositionValue:     defaultPositionValue,
		fantasyMultipliers:       DefaultFantasyMultipliers(),
		defaultFantasyMultiplier: defaultFantasyMultiplier,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tier returns the tier of the first band containing rank.
func (c *Calculator) Tier(rank float64) int {
	for _, b := range c.tiers {
		if b.MaxRank == 0 || rank <= b.MaxRank {
			return b.Tier
		}
	}
	// Unreachable with a validated list.
	return c.tiers[len(c.tiers)-1].Tier
}

// Grade interpolates the grade anchors, clamped to [1,10].
func (c *Calculator) Grade(rank float64) float64 {
	first, last := gradeAnchors[0], gradeAnchors[len(gradeAnchors)-1]
	switch {
	case rank <= first.rank:
		return first.grade
	case rank >= last.rank:
		return last.grade
	}
	i := sort.Search(len(gradeAnchors), func(i int) bool { return gradeAnchors[i].rank >= rank })
	lo, hi := gradeAnchors[i-1], gradeAnchors[i]
	g := lo.grade + (rank-lo.rank)*(hi.grade-lo.grade)/(hi.rank-lo.rank)
	return round2(math.Min(maxGrade, math.Max(minGrade, g)))
}

// PositionValue returns the draft value of pos.
func (c *Calculator) PositionValue(pos model.Position) float64 {
	if v, ok := c.positionValues[pos]; ok {
		return v
	}
	return c.defaultPositionValue
}

// DraftScore is max(0, (250-rank)/25) scaled by the position value.
func (c *Calculator) DraftScore(rank float64, pos model.Position) float64 {
	base := math.Max(0, (draftScoreHorizon-rank)/draftScoreStep)
	return round2(base * c.PositionValue(pos))
}

// FantasyMultiplier returns override when positive, else the table value,
// else the default.
func (c *Calculator) FantasyMultiplier(pos model.Position, override *float64) float64 {
	if override != nil && *override > 0 {
		return *override
	}
	if v, ok := c.fantasyMultipliers[pos]; ok {
		return v
	}
	return c.defaultFantasyMultiplier
}

// FantasyRank converts an overall rank into a fantasy rank.
func (c *Calculator) FantasyRank(rank, multiplier float64) int {
	if multiplier <= 0 {
		multiplier = c.defaultFantasyMultiplier
	}
	r := math.Round(rank / multiplier)
	switch {
	case r < 0 || math.IsNaN(r):
		return 0
	case r > math.MaxInt32:
		return math.MaxInt32
	}
	return int(r)
}

// IsGenerational flags elite prospects.
func (c *Calculator) IsGenerational(rank, grade float64) bool {
	return rank <= generationalMaxRank && grade >= generationalMinGrade
}

// Evaluate computes every metric for one player.
func (c *Calculator) Evaluate(rank float64, pos model.Position, override *float64) Metrics {
	grade := c.Grade(rank)
	mult := c.FantasyMultiplier(pos, override)
	return Metrics{
		Tier:              c.Tier(rank),
		Grade:             grade,
		DraftScore:        c.DraftScore(rank, pos),
		FantasyMultiplier: mult,
		FantasyRank:       c.FantasyRank(rank, mult),
		IsGenerational:    c.IsGenerational(rank, grade),
	}
}

func copyPositive(in map[model.Position]float64) map[model.Position]float64 {
	out := make(map[model.Position]float64, len(in))
	for k, v := range in {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
