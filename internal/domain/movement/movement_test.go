package movement_test

import (
	"testing"

	"github.com/okian/draftboard/internal/domain/movement"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTrack(t *testing.T) {
	Convey("Given a player ranked 10 last snapshot", t, func() {
		prev := 10

		Convey("When the player is now 7th", func() {
			m := movement.Track(&prev, 7)

			Convey("Then the player moved up three spots", func() {
				So(m.RankChange, ShouldEqual, 3)
				So(*m.PreviousRank, ShouldEqual, 10)
			})
		})

		Convey("When the player dropped to 14th", func() {
			So(movement.Track(&prev, 14).RankChange, ShouldEqual, -4)
		})

		Convey("When the rank is unchanged", func() {
			So(movement.Track(&prev, 10).RankChange, ShouldEqual, 0)
		})

		Convey("Then the result does not alias the input", func() {
			m := movement.Track(&prev, 7)
			prev = 1
			So(*m.PreviousRank, ShouldEqual, 10)
		})
	})

	Convey("Given a player without a prior rank", t, func() {
		m := movement.Track(nil, 7)

		Convey("Then change is zero and previous is nil", func() {
			So(m.RankChange, ShouldEqual, 0)
			So(m.PreviousRank, ShouldBeNil)
		})
	})
}
