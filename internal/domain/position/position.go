// Package position maps free-form position labels onto the canonical set and
// decides which positions a league type keeps.
package position

import (
	"strings"

	"github.com/okian/draftboard/internal/domain/model"
)

// League selects the allowed-position set.
type League string

const (
	LeagueDynasty League = "dynasty"
	LeagueRedraft League = "redraft"
)

var collapse = map[string]model.Position{
	"DT":  model.PositionDL,
	"DE":  model.PositionDL,
	"DL":  model.PositionDL,
	"OLB": model.PositionLB,
	"ILB": model.PositionLB,
	"MLB": model.PositionLB,
	"LB":  model.PositionLB,
	"FS":  model.PositionS,
	"SS":  model.PositionS,
	"S":   model.PositionS,
}

var offensiveLine = map[string]struct{}{
	"OT": {}, "OG": {}, "C": {}, "OL": {}, "G": {}, "T": {},
}

// Normalize maps a raw label using the standard rules with a distinct
// offensive line.
func Normalize(raw string) model.Position {
	return defaultNormalizer.Normalize(raw)
}

var defaultNormalizer = NewNormalizer()

// Normalizer maps raw labels onto canonical positions.
type Normalizer struct {
	groupLine bool
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithGroupedLine collapses every offensive line label into OL.
func WithGroupedLine(grouped bool) Option {
	return func(n *Normalizer) {
		n.groupLine = grouped
	}
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// GroupedLine reports whether offensive line labels collapse into OL.
func (n *Normalizer) GroupedLine() bool { return n.groupLine }

// Normalize maps raw to a position. Unknown non-empty labels pass through
// uppercased; empty input is UNKNOWN.
func (n *Normalizer) Normalize(raw string) model.Position {
	label := strings.ToUpper(strings.TrimSpace(raw))
	if label == "" {
		return model.PositionUnknown
	}
	if p, ok := collapse[label]; ok {
		return p
	}
	if n.groupLine {
		if _, ok := offensiveLine[label]; ok {
			return model.PositionOL
		}
	}
	return model.Position(label)
}

// Set is a set of allowed positions.
type Set map[model.Position]struct{}

// NewSet builds a Set from positions.
func NewSet(positions ...model.Position) Set {
	s := make(Set, len(positions))
	for _, p := range positions {
		s[p] = struct{}{}
	}
	return s
}

// Contains reports whether p is allowed.
func (s Set) Contains(p model.Position) bool {
	_, ok := s[p]
	return ok
}

// DefaultLeagues returns the allowed positions of each league with a
// distinct offensive line.
func DefaultLeagues() map[League][]model.Position {
	return map[League][]model.Position{
		LeagueRedraft: {model.PositionQB, model.PositionRB, model.PositionWR, model.PositionTE, model.PositionK},
		LeagueDynasty: {
			model.PositionQB, model.PositionRB, model.PositionWR, model.PositionTE, model.PositionK,
			model.PositionEDGE, model.PositionDL, model.PositionLB, model.PositionS, model.PositionCB,
			model.PositionOT, model.PositionOG, model.PositionC,
		},
	}
}

// Allowed builds the set a league keeps from its configured positions. With
// a grouped line OT, OG and C are replaced by OL.
func Allowed(positions []model.Position, groupedLine bool) Set {
	s := NewSet(positions...)
	if !groupedLine {
		return s
	}
	for _, p := range []model.Position{model.PositionOT, model.PositionOG, model.PositionC} {
		if _, ok := s[p]; ok {
			delete(s, p)
			s[model.PositionOL] = struct{}{}
		}
	}
	return s
}
