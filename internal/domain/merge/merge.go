// Package merge joins primary rankings, per-source rankings and enrichment
// data into finalized player records.
package merge

import (
	"net/url"
	"sort"
	"strings"
	"unicode"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/movement"
	"github.com/okian/draftboard/internal/domain/scoring"
)

const (
	defaultHighlightSeason = "2025"
	espnHeadshotURL        = "https://a.espncdn.com/i/headshots/college-football/players/full/"
	avatarURL              = "https://ui-avatars.com/api/"
	youtubeSearchURL       = "https://www.youtube.com/results"
	maxInitials            = 2
)

// Miss kinds.
const (
	MissEnrichment = "enrichment"
	MissSources    = "sources"
)

// Miss reports a join that found nothing. Misses degrade to defaults.
type Miss struct {
	PlayerID int
	Name     string
	Kind     string
}

// Result is a merged board.
type Result struct {
	Players []model.PlayerRecord
	Misses  []Miss
	// DuplicateKeys lists enrichment identity keys seen more than once; the
	// last row won.
	DuplicateKeys []string
}

// Merger builds boards. It holds no state between calls.
type Merger struct {
	calc   *scoring.Calculator
	season string
}

// Option applies a configuration option to the Merger.
type Option func(*Merger)

// WithHighlightSeason sets the season used in highlight search links.
func WithHighlightSeason(season string) Option {
	return func(m *Merger) {
		if s := strings.TrimSpace(season); s != "" {
			m.season = s
		}
	}
}

// New creates a Merger. A nil calculator uses the default tables.
func New(calc *scoring.Calculator, opts ...Option) *Merger {
	if calc == nil {
		calc = scoring.NewCalculator()
	}
	m := &Merger{calc: calc, season: defaultHighlightSeason}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge joins the three datasets. Every primary row yields exactly one
// record, sorted by consensus rank with ties keeping input order.
func (m *Merger) Merge(primary []model.PrimaryRow, sources []model.SourceRow, enrichment []model.EnrichmentRecord) Result {
	var res Result

	byKey := make(map[string]model.EnrichmentRecord, len(enrichment))
	for _, e := range enrichment {
		k := e.Key()
		if _, dup := byKey[k]; dup {
			res.DuplicateKeys = append(res.DuplicateKeys, k)
		}
		byKey[k] = e
	}

	byPlayer := make(map[int][]model.SourceRanking)
	for _, s := range sources {
		byPlayer[s.PlayerID] = append(byPlayer[s.PlayerID], s.Ranking)
	}

	players := make([]model.PlayerRecord, 0, len(primary))
	priors := make([]*int, 0, len(primary))
	for _, p := range primary {
		e, found := byKey[model.IdentityKey(p.Name, p.School)]
		if !found {
			res.Misses = append(res.Misses, Miss{PlayerID: p.ID, Name: p.Name, Kind: MissEnrichment})
		}
		ranked, ok := byPlayer[p.ID]
		if !ok {
			res.Misses = append(res.Misses, Miss{PlayerID: p.ID, Name: p.Name, Kind: MissSources})
			ranked = []model.SourceRanking{}
		}
		players = append(players, m.record(p, e, ranked))
		priors = append(priors, e.PriorRank)
	}

	order := make([]int, len(players))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return players[order[a]].ConsensusRank < players[order[b]].ConsensusRank
	})

	res.Players = make([]model.PlayerRecord, len(players))
	for pos, idx := range order {
		rec := players[idx]
		rec.Rank = pos + 1
		mv := movement.Track(priors[idx], rec.Rank)
		rec.PreviousRank = mv.PreviousRank
		rec.RankChange = mv.RankChange
		res.Players[pos] = rec
	}
	return res
}

func (m *Merger) record(p model.PrimaryRow, e model.EnrichmentRecord, ranked []model.SourceRanking) model.PlayerRecord {
	metrics := m.calc.Evaluate(p.ConsensusRank, p.Position, e.FantasyMultiplier)
	return model.PlayerRecord{
		ID:                p.ID,
		Name:              p.Name,
		Position:          p.Position,
		School:            p.School,
		Year:              prefer(e.Year, p.Year),
		Size:              prefer(e.Size, p.Size),
		Weight:            prefer(e.Weight, p.Weight),
		Speed:             prefer(e.Speed, p.Speed),
		Tier:              metrics.Tier,
		ConsensusRank:     p.ConsensusRank,
		FantasyRank:       metrics.FantasyRank,
		SourceCount:       len(ranked),
		Grade:             metrics.Grade,
		DraftScore:        metrics.DraftScore,
		IsGenerational:    metrics.IsGenerational,
		FantasyMultiplier: metrics.FantasyMultiplier,
		Sources:           ranked,
		ESPNID:            strings.TrimSpace(e.ESPNID),
		PhotoURL:          PhotoURL(p.Name, e),
		Summary:           e.Summary,
		HighlightURL:      HighlightURL(p.Name, p.School, m.season),
		Initials:          Initials(p.Name),
	}
}

// PhotoURL picks a custom photo, then an ESPN headshot, then a generated avatar.
func PhotoURL(name string, e model.EnrichmentRecord) string {
	if u := strings.TrimSpace(e.PhotoURL); u != "" {
		return u
	}
	if id := strings.TrimSpace(e.ESPNID); id != "" {
		return espnHeadshotURL + url.PathEscape(id) + ".png"
	}
	q := url.Values{}
	q.Set("name", name)
	q.Set("background", "ca8a04")
	q.Set("color", "1e293b")
	q.Set("size", "128")
	q.Set("bold", "true")
	return avatarURL + "?" + q.Encode()
}

// HighlightURL builds a video search link for a player.
func HighlightURL(name, school, season string) string {
	q := url.Values{}
	q.Set("search_query", strings.Join([]string{name, school, "football highlights", season}, " "))
	return youtubeSearchURL + "?" + q.Encode()
}

// Initials returns the uppercased first letters of up to two name parts.
func Initials(name string) string {
	var b strings.Builder
	n := 0
	for _, part := range strings.Fields(name) {
		if n == maxInitials {
			break
		}
		r := []rune(part)[0]
		b.WriteRune(unicode.ToUpper(r))
		n++
	}
	return b.String()
}

func prefer(primary, fallback string) string {
	if v := strings.TrimSpace(primary); v != "" {
		return v
	}
	return fallback
}
