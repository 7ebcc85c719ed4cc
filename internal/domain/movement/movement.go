// Package movement tracks rank changes between board snapshots.
package movement

// Movement is the change of one player between two snapshots.
type Movement struct {
	// PreviousRank is nil when the player had no prior rank.
	PreviousRank *int
	// RankChange is positive when the player moved up.
	RankChange int
}

// Track compares the prior rank against the current board position.
func Track(previous *int, current int) Movement {
	if previous == nil {
		return Movement{}
	}
	prev := *previous
	return Movement{PreviousRank: &prev, RankChange: prev - current}
}
