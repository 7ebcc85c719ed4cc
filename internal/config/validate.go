package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/position"
	"github.com/okian/draftboard/internal/domain/scoring"
	"github.com/okian/draftboard/internal/ingest/schema"
)

var validate = validator.New()

// Validate normalizes table keys and checks the configuration. Errors are
// marked with ErrInvalidConfig.
func (c *Config) Validate() error {
	c.PositionValues = upperKeys(c.PositionValues)
	c.FantasyMultipliers = upperKeys(c.FantasyMultipliers)
	c.LeaguePositions = upperValues(c.LeaguePositions)
	c.League = strings.ToLower(strings.TrimSpace(c.League))

	if err := validate.Struct(c); err != nil {
		return errors.Mark(errors.Wrap(err, "validate config"), ErrInvalidConfig)
	}
	if _, ok := LookupProfile(c.Profile); !ok {
		return errors.Mark(errors.Wrapf(ErrUnknownProfile, "%q", c.Profile), ErrInvalidConfig)
	}
	if err := scoring.ValidateTiers(c.Tiers); err != nil {
		return errors.Mark(err, ErrInvalidConfig)
	}
	if err := canonicalKeys("position_values", c.PositionValues); err != nil {
		return err
	}
	if err := canonicalKeys("fantasy_multipliers", c.FantasyMultipliers); err != nil {
		return err
	}
	if _, ok := c.LeaguePositions[c.League]; !ok {
		return errors.Mark(errors.Newf("league: %q has no entry in league_positions", c.League), ErrInvalidConfig)
	}
	for league, ps := range c.LeaguePositions {
		for _, p := range ps {
			if err := canonical("league_positions."+league, p); err != nil {
				return err
			}
		}
	}
	for f := range c.Aliases {
		if !knownField(f) {
			return errors.Mark(errors.Newf("aliases: %q is not a canonical field", f), ErrInvalidConfig)
		}
	}
	seen := make(map[string]struct{}, len(c.SourceColumns))
	for _, col := range c.SourceColumns {
		if _, dup := seen[col]; dup {
			return errors.Mark(errors.Newf("source_columns: %q listed twice", col), ErrInvalidConfig)
		}
		seen[col] = struct{}{}
	}
	return nil
}

// canonicalKeys rejects position keys the normalizer would never emit, so a
// table cannot silently carry values for labels like DT that collapse into DL.
func canonicalKeys(table string, m map[string]float64) error {
	for k := range m {
		if err := canonical(table, k); err != nil {
			return err
		}
	}
	return nil
}

func canonical(table, k string) error {
	p := model.Position(k)
	if p.IsCanonical() {
		return nil
	}
	if n := position.Normalize(k); n != p && n.IsCanonical() {
		return errors.Mark(errors.Newf("%s: %q is not canonical, use %q", table, k, n), ErrInvalidConfig)
	}
	return errors.Mark(errors.Newf("%s: %q is not a canonical position", table, k), ErrInvalidConfig)
}

func knownField(f string) bool {
	for _, c := range schema.Fields {
		if string(c) == f {
			return true
		}
	}
	return false
}

func upperKeys(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return out
}

func upperValues(m map[string][]string) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, vs := range m {
		up := make([]string, len(vs))
		for i, v := range vs {
			up[i] = strings.ToUpper(strings.TrimSpace(v))
		}
		out[strings.ToLower(strings.TrimSpace(k))] = up
	}
	return out
}
