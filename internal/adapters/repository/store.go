// Package repository holds the served board snapshot.
package repository

import (
	"context"
	"time"

	"github.com/okian/draftboard/internal/domain/model"
)

// Filter narrows board queries. The zero value matches every player.
type Filter struct {
	Position model.Position
	Tier     int
}

// Stats summarizes the served board.
type Stats struct {
	Players      int                    `json:"players"`
	Generational int                    `json:"generational"`
	ByPosition   map[model.Position]int `json:"byPosition"`
	ByTier       map[int]int            `json:"byTier"`
	AvgSources   float64                `json:"avgSources"`
	Risers       int                    `json:"risers"`
	Fallers      int                    `json:"fallers"`
	PublishedAt  time.Time              `json:"publishedAt"`
}

// Store provides read access to the current board and swaps it wholesale.
type Store interface {
	// Replace publishes a new board. Readers see the old or the new board,
	// never a mix.
	Replace(ctx context.Context, players []model.PlayerRecord)

	// Get returns one player by id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id int) (model.PlayerRecord, error)

	// TopN returns the first n players in board order that match f.
	TopN(ctx context.Context, n int, f Filter) ([]model.PlayerRecord, error)

	// Count returns the number of players on the board.
	Count(ctx context.Context) int

	// Stats summarizes the board.
	Stats(ctx context.Context) Stats
}
