package repository

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/pkg/metrics"
)

const defaultMaxLimit = 100

// snapshot is immutable once published.
type snapshot struct {
	players []model.PlayerRecord
	byID    map[int]int
	stats   Stats
}

// BoardStore serves an immutable board snapshot behind an atomic pointer.
// Reads never block; Replace builds the next snapshot off to the side.
type BoardStore struct {
	maxLimit int
	now      func() time.Time

	snapshot atomic.Pointer[snapshot]
}

var _ Store = (*BoardStore)(nil)

// NewBoardStore constructs an empty store.
func NewBoardStore(opts ...Option) *BoardStore {
	s := &BoardStore{
		maxLimit: defaultMaxLimit,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(s.build(nil))
	return s
}

// MaxLimit returns the largest accepted TopN limit.
func (s *BoardStore) MaxLimit() int { return s.maxLimit }

// Replace implements Store.Replace.
func (s *BoardStore) Replace(_ context.Context, players []model.PlayerRecord) {
	snap := s.build(players)
	s.snapshot.Store(snap)
	metrics.UpdateRepositorySnapshotUnix(float64(snap.stats.PublishedAt.Unix()))
}

func (s *BoardStore) build(players []model.PlayerRecord) *snapshot {
	snap := &snapshot{
		players: append([]model.PlayerRecord(nil), players...),
		byID:    make(map[int]int, len(players)),
		stats: Stats{
			ByPosition:  make(map[model.Position]int),
			ByTier:      make(map[int]int),
			PublishedAt: s.now(),
		},
	}
	sources := 0
	for i, p := range snap.players {
		if _, dup := snap.byID[p.ID]; !dup {
			snap.byID[p.ID] = i
		}
		snap.stats.ByPosition[p.Position]++
		snap.stats.ByTier[p.Tier]++
		sources += p.SourceCount
		if p.IsGenerational {
			snap.stats.Generational++
		}
		switch {
		case p.RankChange > 0:
			snap.stats.Risers++
		case p.RankChange < 0:
			snap.stats.Fallers++
		}
	}
	snap.stats.Players = len(snap.players)
	if len(snap.players) > 0 {
		avg := float64(sources) / float64(len(snap.players))
		snap.stats.AvgSources = math.Round(avg*100) / 100
	}
	return snap
}

// Get implements Store.Get.
func (s *BoardStore) Get(_ context.Context, id int) (model.PlayerRecord, error) {
	start := time.Now()
	defer observe("get", start)

	snap := s.snapshot.Load()
	i, ok := snap.byID[id]
	if !ok {
		return model.PlayerRecord{}, errors.Wrapf(ErrNotFound, "id %d", id)
	}
	return snap.players[i], nil
}

// TopN implements Store.TopN.
func (s *BoardStore) TopN(_ context.Context, n int, f Filter) ([]model.PlayerRecord, error) {
	start := time.Now()
	defer observe("top_n", start)

	if n < 1 || n > s.maxLimit {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, errors.Wrapf(ErrInvalidLimit, "limit %d outside 1..%d", n, s.maxLimit)
	}

	snap := s.snapshot.Load()
	out := make([]model.PlayerRecord, 0, min(n, len(snap.players)))
	for _, p := range snap.players {
		if len(out) == n {
			break
		}
		if f.Position != "" && p.Position != f.Position {
			continue
		}
		if f.Tier != 0 && p.Tier != f.Tier {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Count implements Store.Count.
func (s *BoardStore) Count(_ context.Context) int {
	return len(s.snapshot.Load().players)
}

// Stats implements Store.Stats.
func (s *BoardStore) Stats(_ context.Context) Stats {
	st := s.snapshot.Load().stats
	st.ByPosition = copyMap(st.ByPosition)
	st.ByTier = copyMap(st.ByTier)
	return st
}

func copyMap[K comparable](in map[K]int) map[K]int {
	out := make(map[K]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func observe(query string, start time.Time) {
	metrics.RecordRepositoryQueryLatency(query, float64(time.Since(start).Microseconds())/1000)
}
