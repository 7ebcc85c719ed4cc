// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config holding every default; the loader layers overrides on top.
// - Lookup tables are data. Components receive them through the accessors below.
// - External errors are wrapped and marked with this package's sentinels.
package config

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/okian/draftboard/internal/domain/consensus"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/position"
	"github.com/okian/draftboard/internal/domain/scoring"
	"github.com/okian/draftboard/internal/ingest/schema"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the log encoder: json or console.
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`

	// Profile names the pipeline variant; see Profiles.
	Profile string `koanf:"profile" validate:"required"`

	// League selects the allowed-position set; it must be a key of LeaguePositions.
	League string `koanf:"league" validate:"required"`

	// LeaguePositions maps league types to the canonical positions they keep.
	LeaguePositions map[string][]string `koanf:"league_positions" validate:"min=1,dive,min=1,dive,required"`

	// RankMode is the fallback for unranked rows: explicit or row_order.
	RankMode string `koanf:"rank_mode" validate:"oneof=explicit row_order"`

	// GroupLine collapses OT, OG and C into OL.
	GroupLine bool `koanf:"group_line"`

	// SourceColumns lists provider columns in aggregation order.
	SourceColumns []string `koanf:"source_columns" validate:"min=1,dive,required"`

	// SourceWeights maps provider columns to credibility weights.
	SourceWeights map[string]float64 `koanf:"source_weights" validate:"dive,gt=0"`

	// PositionValues maps canonical positions to draft value.
	PositionValues map[string]float64 `koanf:"position_values" validate:"dive,gt=0"`

	// DefaultPositionValue applies to positions missing from PositionValues.
	DefaultPositionValue float64 `koanf:"default_position_value" validate:"gt=0"`

	// FantasyMultipliers maps canonical positions to fantasy relevance.
	FantasyMultipliers map[string]float64 `koanf:"fantasy_multipliers" validate:"dive,gt=0"`

	// DefaultFantasyMultiplier applies to positions missing from FantasyMultipliers.
	DefaultFantasyMultiplier float64 `koanf:"default_fantasy_multiplier" validate:"gt=0"`

	// Tiers lists rank bands; the last must have max_rank 0.
	Tiers []scoring.TierBoundary `koanf:"tiers" validate:"min=1"`

	// Aliases maps canonical fields to accepted header variants.
	Aliases map[string][]string `koanf:"aliases"`

	// HighlightSeason is the season used in highlight search links.
	HighlightSeason string `koanf:"highlight_season" validate:"required"`

	// Addr configures the HTTP listen address of the board view, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// MaxPageLimit caps GET /players?limit.
	MaxPageLimit int `koanf:"max_page_limit" validate:"gt=0"`

	// MetricsFile, when set, receives a Prometheus textfile after batch runs.
	MetricsFile string `koanf:"metrics_file"`
}

// Profile is a named bundle of pipeline settings.
type Profile struct {
	League    string
	RankMode  string
	GroupLine bool
}

// Profile names.
const (
	ProfileDynasty   = "dynasty"
	ProfileRedraft   = "redraft"
	ProfileOrdered   = "ordered"
	ProfileDynastyOL = "dynasty-ol"
)

var profiles = map[string]Profile{
	ProfileDynasty:   {League: string(position.LeagueDynasty), RankMode: string(consensus.RankModeExplicit)},
	ProfileRedraft:   {League: string(position.LeagueRedraft), RankMode: string(consensus.RankModeExplicit)},
	ProfileOrdered:   {League: string(position.LeagueDynasty), RankMode: string(consensus.RankModeRowOrder)},
	ProfileDynastyOL: {League: string(position.LeagueDynasty), RankMode: string(consensus.RankModeExplicit), GroupLine: true},
}

// Profiles returns the known profile names, sorted.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupProfile returns the named profile.
func LookupProfile(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// New creates a Config holding the defaults of the dynasty profile.
func New() *Config {
	positionValues := make(map[string]float64)
	for p, v := range scoring.DefaultPositionValues() {
		positionValues[string(p)] = v
	}
	multipliers := make(map[string]float64)
	for p, v := range scoring.DefaultFantasyMultipliers() {
		multipliers[string(p)] = v
	}
	aliases := make(map[string][]string)
	for f, vs := range schema.DefaultAliases() {
		aliases[string(f)] = vs
	}

	leagues := make(map[string][]string)
	for l, ps := range position.DefaultLeagues() {
		names := make([]string, len(ps))
		for i, p := range ps {
			names[i] = string(p)
		}
		leagues[string(l)] = names
	}

	c := &Config{
		LogLevel:                 "info",
		LogFormat:                "json",
		Profile:                  ProfileDynasty,
		SourceColumns:            append([]string(nil), consensus.DefaultColumns...),
		SourceWeights:            consensus.DefaultWeights(),
		PositionValues:           positionValues,
		DefaultPositionValue:     1.0,
		FantasyMultipliers:       multipliers,
		DefaultFantasyMultiplier: 0.3,
		Tiers:                    scoring.DefaultTiers(),
		LeaguePositions:          leagues,
		Aliases:                  aliases,
		HighlightSeason:          "2025",
		Addr:                     ":9080",
		MaxPageLimit:             100,
	}
	c.apply(profiles[ProfileDynasty])
	return c
}

// UseProfile switches c to the named profile's league, rank mode and line
// grouping. Other settings are left alone.
func (c *Config) UseProfile(name string) error {
	p, ok := LookupProfile(name)
	if !ok {
		return errors.Mark(errors.Wrapf(ErrUnknownProfile, "%q (known: %s)", name, strings.Join(Profiles(), ", ")), ErrInvalidConfig)
	}
	c.Profile = name
	c.apply(p)
	return nil
}

func (c *Config) apply(p Profile) {
	c.League = p.League
	c.RankMode = p.RankMode
	c.GroupLine = p.GroupLine
}

// PositionValueTable returns PositionValues keyed by position.
func (c *Config) PositionValueTable() map[model.Position]float64 {
	return positionTable(c.PositionValues)
}

// FantasyMultiplierTable returns FantasyMultipliers keyed by position.
func (c *Config) FantasyMultiplierTable() map[model.Position]float64 {
	return positionTable(c.FantasyMultipliers)
}

// AliasTable returns Aliases keyed by canonical field.
func (c *Config) AliasTable() schema.AliasTable {
	t := make(schema.AliasTable, len(c.Aliases))
	for f, vs := range c.Aliases {
		t[schema.Field(f)] = vs
	}
	return t
}

// AllowedPositions returns the position set of the configured league.
func (c *Config) AllowedPositions() position.Set {
	names := c.LeaguePositions[c.League]
	ps := make([]model.Position, len(names))
	for i, n := range names {
		ps[i] = model.Position(n)
	}
	return position.Allowed(ps, c.GroupLine)
}

func positionTable(in map[string]float64) map[model.Position]float64 {
	out := make(map[model.Position]float64, len(in))
	for k, v := range in {
		out[model.Position(k)] = v
	}
	return out
}
