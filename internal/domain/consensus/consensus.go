// Package consensus folds per-source ranks into one weighted consensus rank.
package consensus

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/draftboard/internal/domain/model"
)

// Default aggregation constants.
const (
	defaultWeight       = 1.0
	defaultFallbackRank = 999
)

// RankMode decides the fallback rank of a row no source ranked.
type RankMode string

const (
	// RankModeExplicit falls back to the explicit rank column, then 999.
	RankModeExplicit RankMode = "explicit"
	// RankModeRowOrder falls back to the explicit rank column, then the row's
	// 1-based position in the input.
	RankModeRowOrder RankMode = "row_order"
)

// Skip reasons.
const (
	ReasonPlaceholder = "placeholder"
	ReasonUnparsable  = "unparsable"
	ReasonNonPositive = "non_positive"
	ReasonOutOfRange  = "out_of_range"
)

// MaxRank is the largest rank a source may report.
const MaxRank = math.MaxInt32

// Fallback origins.
const (
	OriginExplicit = "explicit_rank"
	OriginDefault  = "default"
	OriginRowOrder = "row_order"
)

// DefaultColumns is the provider column list used when none is configured.
var DefaultColumns = []string{
	"PFF", "ESPN", "NFL", "Athletic", "CBS", "NFL Draft Buzz", "PFN",
	"TANKATHON", "Drafttech", "Mel Kiper", "Field Yates", "Matt Miller",
	"Daniel Jeremiah", "Charlie Campbell",
}

// DefaultWeights returns the provider credibility weights used when none
// are configured.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"PFF":      1.2,
		"ESPN":     1.1,
		"NFL":      1.1,
		"Athletic": 1.0,
		"CBS":      1.0,
	}
}

// Lookup resolves a source column of one row.
type Lookup interface {
	Column(name string) (string, bool)
}

// Input is one canonical row as seen by the aggregator.
type Input struct {
	Row          Lookup
	ExplicitRank string
	// Order is the 1-based position of the row in the input.
	Order int
}

// Skip records a source column that did not contribute.
type Skip struct {
	Source string
	Reason string
}

// Result is the consensus of one row.
type Result struct {
	ConsensusRank float64
	Sources       []model.SourceRanking
	Skipped       []Skip
	// FallbackOrigin is empty when at least one source qualified.
	FallbackOrigin string
}

// SourceCount is the number of rankings behind the consensus.
func (r Result) SourceCount() int { return len(r.Sources) }

// Aggregator computes consensus ranks. It holds no mutable state.
type Aggregator struct {
	columns      []string
	weights      map[string]float64
	mode         RankMode
	fallbackRank float64
	placeholders map[string]struct{}
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithRankMode sets the fallback rank mode.
func WithRankMode(mode RankMode) Option {
	return func(a *Aggregator) {
		if mode == RankModeExplicit || mode == RankModeRowOrder {
			a.mode = mode
		}
	}
}

// WithFallbackRank sets the rank given to unranked rows in explicit mode.
func WithFallbackRank(rank float64) Option {
	return func(a *Aggregator) {
		if rank > 0 {
			a.fallbackRank = rank
		}
	}
}

// WithPlaceholders replaces the set of values treated as "no ranking".
// Blank values are always placeholders.
func WithPlaceholders(values ...string) Option {
	return func(a *Aggregator) {
		a.placeholders = make(map[string]struct{}, len(values))
		for _, v := range values {
			a.placeholders[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
		}
	}
}

// New creates an Aggregator over columns, in that order. Weights for
// unlisted columns default to 1.0; non-positive weights are ignored.
func New(columns []string, weights map[string]float64, opts ...Option) *Aggregator {
	a := &Aggregator{
		columns:      append([]string(nil), columns...),
		weights:      make(map[string]float64, len(weights)),
		mode:         RankModeExplicit,
		fallbackRank: defaultFallbackRank,
	}
	for col, w := range weights {
		if w > 0 {
			a.weights[col] = w
		}
	}
	WithPlaceholders("-", "N/A")(a)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Columns returns the configured source columns.
func (a *Aggregator) Columns() []string {
	return append([]string(nil), a.columns...)
}

// Weight returns the weight applied to a source column.
func (a *Aggregator) Weight(column string) float64 {
	if w, ok := a.weights[column]; ok {
		return w
	}
	return defaultWeight
}

// Aggregate computes the consensus of one row. It always yields a rank.
func (a *Aggregator) Aggregate(in Input) Result {
	res := Result{Sources: []model.SourceRanking{}}
	var sum float64

	for _, col := range a.columns {
		if in.Row == nil {
			break
		}
		raw, ok := in.Row.Column(col)
		if !ok {
			continue
		}
		rank, reason := a.parse(raw)
		if reason != "" {
			res.Skipped = append(res.Skipped, Skip{Source: col, Reason: reason})
			continue
		}
		w := a.Weight(col)
		sum += rank / w
		res.Sources = append(res.Sources, model.SourceRanking{
			Source: col,
			Rank:   storedRank(rank),
			Weight: w,
		})
	}

	if len(res.Sources) > 0 {
		res.ConsensusRank = round1(sum / float64(len(res.Sources)))
		return res
	}

	base, origin := a.fallback(in)
	res.ConsensusRank = base
	res.FallbackOrigin = origin
	res.Sources = []model.SourceRanking{{
		Source: model.BaseSource,
		Rank:   storedRank(base),
		Weight: defaultWeight,
	}}
	return res
}

func (a *Aggregator) fallback(in Input) (float64, string) {
	if rank, reason := a.parse(in.ExplicitRank); reason == "" {
		return rank, OriginExplicit
	}
	if a.mode == RankModeRowOrder && in.Order > 0 {
		return float64(in.Order), OriginRowOrder
	}
	return a.fallbackRank, OriginDefault
}

// parse returns the rank or a skip reason.
func (a *Aggregator) parse(raw string) (float64, string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, ReasonPlaceholder
	}
	if _, ok := a.placeholders[strings.ToLower(v)]; ok {
		return 0, ReasonPlaceholder
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ReasonUnparsable
	}
	if f <= 0 {
		return 0, ReasonNonPositive
	}
	if f > MaxRank {
		return 0, ReasonOutOfRange
	}
	return f, ""
}

func storedRank(f float64) int {
	switch r := math.Round(f); {
	case r < 1:
		return 1
	case r > MaxRank:
		return MaxRank
	default:
		return int(r)
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
