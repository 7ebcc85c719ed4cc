package scoring

import (
	"github.com/cockroachdb/errors"
)

// ErrInvalidTiers is returned for tier lists that do not cover every rank
// exactly once.
var ErrInvalidTiers = errors.New("invalid tier boundaries")

// ValidateTiers checks that tiers form contiguous, non-overlapping bands in
// rank order ending with an unbounded catch-all.
func ValidateTiers(tiers []TierBoundary) error {
	if len(tiers) == 0 {
		return errors.Wrap(ErrInvalidTiers, "tier list is empty")
	}
	last := len(tiers) - 1
	for i, b := range tiers {
		if b.Tier < 1 {
			return errors.Wrapf(ErrInvalidTiers, "tier %d: tier numbers start at 1", b.Tier)
		}
		if b.MaxRank < 0 {
			return errors.Wrapf(ErrInvalidTiers, "tier %d: max_rank %v is negative", b.Tier, b.MaxRank)
		}
		if b.MaxRank == 0 && i != last {
			return errors.Wrapf(ErrInvalidTiers, "tier %d: unbounded band must be last", b.Tier)
		}
		if i == 0 {
			continue
		}
		prev := tiers[i-1]
		if b.MaxRank != 0 && b.MaxRank <= prev.MaxRank {
			return errors.Wrapf(ErrInvalidTiers, "tier %d: max_rank %v does not exceed %v", b.Tier, b.MaxRank, prev.MaxRank)
		}
		if b.Tier < prev.Tier {
			return errors.Wrapf(ErrInvalidTiers, "tier %d follows tier %d", b.Tier, prev.Tier)
		}
	}
	if tiers[last].MaxRank != 0 {
		return errors.Wrap(ErrInvalidTiers, "last band must be unbounded (max_rank 0)")
	}
	return nil
}
