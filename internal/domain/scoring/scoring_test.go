package scoring_test

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/okian/draftboard/internal/domain/model"
	scoring "github.com/okian/draftboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalculator_Tier(t *testing.T) {
	Convey("Given the default tier bands", t, func() {
		calc := scoring.NewCalculator()

		Convey("Then band edges are inclusive", func() {
			So(calc.Tier(1), ShouldEqual, 1)
			So(calc.Tier(24), ShouldEqual, 1)
			So(calc.Tier(24.1), ShouldEqual, 2)
			So(calc.Tier(60), ShouldEqual, 2)
			So(calc.Tier(61), ShouldEqual, 3)
			So(calc.Tier(999), ShouldEqual, 3)
		})

		Convey("Then every rank gets a tier and tiers never decrease", func() {
			prev := 0
			for r := 0.5; r <= 1500; r += 0.5 {
				tier := calc.Tier(r)
				So(tier, ShouldBeGreaterThanOrEqualTo, prev)
				prev = tier
			}
		})
	})

	Convey("Given custom tiers", t, func() {
		calc := scoring.NewCalculator(scoring.WithTiers([]scoring.TierBoundary{
			{MaxRank: 10, Tier: 1}, {MaxRank: 0, Tier: 2},
		}))
		So(calc.Tier(10), ShouldEqual, 1)
		So(calc.Tier(11), ShouldEqual, 2)

		Convey("When the list is invalid it is ignored", func() {
			calc := scoring.NewCalculator(scoring.WithTiers([]scoring.TierBoundary{{MaxRank: 10, Tier: 1}}))
			So(calc.Tier(61), ShouldEqual, 3)
		})
	})
}

func TestValidateTiers(t *testing.T) {
	Convey("Given tier lists", t, func() {
		So(scoring.ValidateTiers(scoring.DefaultTiers()), ShouldBeNil)

		bad := map[string][]scoring.TierBoundary{
			"empty":        nil,
			"no catch-all": {{MaxRank: 24, Tier: 1}, {MaxRank: 60, Tier: 2}},
			"early catch":  {{MaxRank: 0, Tier: 1}, {MaxRank: 60, Tier: 2}},
			"overlap":      {{MaxRank: 60, Tier: 1}, {MaxRank: 24, Tier: 2}, {MaxRank: 0, Tier: 3}},
			"tier drops":   {{MaxRank: 24, Tier: 2}, {MaxRank: 60, Tier: 1}, {MaxRank: 0, Tier: 3}},
			"negative":     {{MaxRank: -1, Tier: 1}, {MaxRank: 0, Tier: 2}},
			"tier zero":    {{MaxRank: 24, Tier: 0}, {MaxRank: 0, Tier: 0}},
		}
		for name, tiers := range bad {
			err := scoring.ValidateTiers(tiers)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, scoring.ErrInvalidTiers), ShouldBeTrue)
			So(name, ShouldNotBeEmpty)
		}
	})
}

func TestCalculator_Grade(t *testing.T) {
	Convey("Given the grade anchors", t, func() {
		calc := scoring.NewCalculator()

		Convey("Then anchors map exactly", func() {
			So(calc.Grade(1), ShouldEqual, 10)
			So(calc.Grade(10), ShouldEqual, 9)
			So(calc.Grade(32), ShouldEqual, 8)
			So(calc.Grade(250), ShouldEqual, 3)
			So(calc.Grade(500), ShouldEqual, 1)
		})

		Convey("Then values between anchors interpolate and round to 2 decimals", func() {
			So(calc.Grade(21), ShouldEqual, 8.5)
			So(calc.Grade(5), ShouldEqual, 9.56)
		})

		Convey("Then grades are clamped and never increase with rank", func() {
			So(calc.Grade(0.2), ShouldEqual, 10)
			So(calc.Grade(999), ShouldEqual, 1)
			prev := 10.0
			for r := 1.0; r <= 600; r += 0.7 {
				g := calc.Grade(r)
				So(g, ShouldBeLessThanOrEqualTo, prev)
				So(g, ShouldBeBetweenOrEqual, 1, 10)
				prev = g
			}
		})
	})
}

func TestCalculator_DraftScore(t *testing.T) {
	Convey("Given default position values", t, func() {
		calc := scoring.NewCalculator()

		Convey("Then the score scales with the position value", func() {
			So(calc.DraftScore(0, model.PositionTE), ShouldEqual, 10)
			So(calc.DraftScore(50, model.PositionQB), ShouldEqual, 12)
			So(calc.DraftScore(125, model.PositionTE), ShouldEqual, 5)
		})

		Convey("Then ranks past the horizon score zero", func() {
			So(calc.DraftScore(250, model.PositionQB), ShouldEqual, 0)
			So(calc.DraftScore(999, model.PositionQB), ShouldEqual, 0)
		})

		Convey("Then unknown positions use the default value", func() {
			So(calc.PositionValue(model.Position("ATH")), ShouldEqual, 1.0)
			calc := scoring.NewCalculator(scoring.WithDefaultPositionValue(0.5))
			So(calc.DraftScore(0, model.Position("ATH")), ShouldEqual, 5)
		})
	})
}

func TestCalculator_Fantasy(t *testing.T) {
	Convey("Given fantasy multipliers", t, func() {
		calc := scoring.NewCalculator(scoring.WithFantasyMultipliers(map[model.Position]float64{
			model.PositionQB: 1.0,
			model.PositionTE: 0.8,
		}))

		Convey("When an override is present and positive", func() {
			o := 2.0
			So(calc.FantasyMultiplier(model.PositionQB, &o), ShouldEqual, 2.0)
		})

		Convey("When the override is zero it is ignored", func() {
			o := 0.0
			So(calc.FantasyMultiplier(model.PositionTE, &o), ShouldEqual, 0.8)
		})

		Convey("When the position is missing from the table", func() {
			So(calc.FantasyMultiplier(model.PositionK, nil), ShouldEqual, 0.3)
		})

		Convey("Then fantasy rank divides and rounds", func() {
			So(calc.FantasyRank(8, 0.8), ShouldEqual, 10)
			So(calc.FantasyRank(3, 0.3), ShouldEqual, 10)
			So(calc.FantasyRank(7, 1.0), ShouldEqual, 7)
		})

		Convey("Then fantasy rank stays within the int range", func() {
			So(calc.FantasyRank(1e20, 0.3), ShouldEqual, math.MaxInt32)
		})
	})
}

func TestCalculator_Evaluate(t *testing.T) {
	Convey("Given a top-ranked quarterback", t, func() {
		calc := scoring.NewCalculator()
		m := calc.Evaluate(2, model.PositionQB, nil)

		Convey("Then every metric is derived", func() {
			So(m.Tier, ShouldEqual, 1)
			So(m.Grade, ShouldEqual, 9.89)
			So(m.DraftScore, ShouldEqual, 14.88)
			So(m.FantasyMultiplier, ShouldEqual, 1.0)
			So(m.FantasyRank, ShouldEqual, 2)
			So(m.IsGenerational, ShouldBeTrue)
		})
	})

	Convey("Given the generational thresholds", t, func() {
		calc := scoring.NewCalculator()
		So(calc.IsGenerational(5, 9.0), ShouldBeTrue)
		So(calc.IsGenerational(6, 9.5), ShouldBeFalse)
		So(calc.IsGenerational(3, 8.99), ShouldBeFalse)
		So(calc.Evaluate(10, model.PositionWR, nil).IsGenerational, ShouldBeFalse)
	})
}
