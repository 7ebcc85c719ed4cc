package schema_test

import (
	"testing"

	"github.com/okian/draftboard/internal/ingest/csvparse"
	"github.com/okian/draftboard/internal/ingest/schema"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizer(t *testing.T) {
	Convey("Given the default alias table", t, func() {
		n := schema.New(nil)

		Convey("When a row uses provider-specific headers", func() {
			row := csvparse.NewRow(
				[]string{"Player Name", "POS", "College", "#", "Ht", "PFF"},
				[]string{"John Smith", "DT", "Ohio State", "12", "6-3", "4"},
				1,
			)
			c := n.Normalize(row)

			Convey("Then each header lands on its canonical field", func() {
				So(c.Value(schema.FieldName), ShouldEqual, "John Smith")
				So(c.Value(schema.FieldPosition), ShouldEqual, "DT")
				So(c.Value(schema.FieldSchool), ShouldEqual, "Ohio State")
				So(c.Value(schema.FieldRank), ShouldEqual, "12")
				So(c.Value(schema.FieldSize), ShouldEqual, "6-3")
			})

			Convey("And unmatched headers pass through unchanged", func() {
				So(c.Extra, ShouldResemble, map[string]string{"PFF": "4"})
				v, ok := c.Column("pff")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "4")
			})

			Convey("And missing fields report absence", func() {
				_, ok := c.Get(schema.FieldSpeed)
				So(ok, ShouldBeFalse)
				So(c.Line, ShouldEqual, 1)
			})
		})

		Convey("When two headers feed the same field", func() {
			row := csvparse.NewRow([]string{"Player", "Name"}, []string{"First", "Second"}, 1)
			c := n.Normalize(row)

			Convey("Then the first header in row order wins", func() {
				So(c.Value(schema.FieldName), ShouldEqual, "First")
			})
		})

		Convey("When resolving a pass-through column by header", func() {
			row := csvparse.NewRow([]string{" Mel Kiper "}, []string{"7"}, 1)
			v, ok := n.Value(row, "mel kiper")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "7")
			_, ok = n.Value(row, "ESPN")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a custom alias table", t, func() {
		n := schema.New(schema.AliasTable{schema.FieldName: {"athlete"}})
		rows := []csvparse.Row{csvparse.NewRow([]string{"Athlete", "Name"}, []string{"A", "B"}, 1)}
		out := n.NormalizeAll(rows)

		Convey("Then only the configured variants match", func() {
			So(out, ShouldHaveLength, 1)
			So(out[0].Value(schema.FieldName), ShouldEqual, "A")
			So(out[0].Extra["Name"], ShouldEqual, "B")
		})
	})
}
