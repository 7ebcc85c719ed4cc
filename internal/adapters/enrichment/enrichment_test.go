package enrichment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/okian/draftboard/internal/adapters/enrichment"
	"github.com/okian/draftboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestParse(t *testing.T) {
	Convey("Given an enrichment file", t, func() {
		text := "name,school,espn_id,photo_url,summary,year,size,weight,speed,prior_rank,fantasy_multiplier\n" +
			"John Smith,Ohio State,4431,,\"Poised, accurate\",Sr,6-3,215,4.7,10,1.1\n" +
			"Sam Lee,Iowa,,,,,,,,,\n"

		Convey("When parsing", func() {
			records, err := enrichment.Parse(text)

			Convey("Then optional numbers stay nil when blank", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				So(records[0].Summary, ShouldEqual, "Poised, accurate")
				So(*records[0].PriorRank, ShouldEqual, 10)
				So(*records[0].FantasyMultiplier, ShouldEqual, 1.1)
				So(records[1].PriorRank, ShouldBeNil)
				So(records[1].FantasyMultiplier, ShouldBeNil)
			})
		})

		Convey("When the file has only a header", func() {
			records, err := enrichment.Parse("name,school\n")
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})

		Convey("When prior_rank is not a positive integer", func() {
			_, err := enrichment.Parse("name,school,prior_rank\nA,B,zero\n")
			So(errors.Is(err, enrichment.ErrInvalidRecord), ShouldBeTrue)
		})
	})
}

func TestReadWriteFile(t *testing.T) {
	Convey("Given an enrichment path", t, func() {
		path := filepath.Join(t.TempDir(), enrichment.DefaultFile)

		Convey("When the file does not exist", func() {
			records, found, err := enrichment.ReadFile(path)
			So(err, ShouldBeNil)
			So(found, ShouldBeFalse)
			So(records, ShouldBeNil)
		})

		Convey("When records are written and read back", func() {
			in := []model.EnrichmentRecord{
				{Name: "John Smith", School: "Ohio State", ESPNID: "4431", Summary: "Line one\nline two", PriorRank: intPtr(3), FantasyMultiplier: floatPtr(0.9)},
				{Name: "Sam Lee", School: "Iowa"},
			}
			So(enrichment.WriteFile(path, in), ShouldBeNil)
			out, found, err := enrichment.ReadFile(path)

			Convey("Then every field survives", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(out, ShouldResemble, in)
			})
		})

		Convey("When the file is malformed", func() {
			So(os.WriteFile(path, []byte("name,school,fantasy_multiplier\nA,B,high\n"), 0o644), ShouldBeNil)
			_, found, err := enrichment.ReadFile(path)
			So(found, ShouldBeTrue)
			So(errors.Is(err, enrichment.ErrInvalidRecord), ShouldBeTrue)
		})
	})
}

func TestPromote(t *testing.T) {
	Convey("Given enrichment and a finalized board", t, func() {
		records := []model.EnrichmentRecord{
			{Name: "john smith", School: "OHIO STATE", Summary: "kept", PriorRank: intPtr(10)},
			{Name: "Retired Guy", School: "Nowhere", PriorRank: intPtr(4)},
		}
		board := []model.PlayerRecord{
			{ID: 2, Rank: 1, Name: "Alex Jones", School: "LSU", ESPNID: "77"},
			{ID: 1, Rank: 2, Name: "John Smith", School: "Ohio State"},
		}

		res := enrichment.Promote(records, board)

		Convey("Then matching rows take the finalized rank and keep other fields", func() {
			So(res.Updated, ShouldEqual, 1)
			So(*res.Records[0].PriorRank, ShouldEqual, 2)
			So(res.Records[0].Summary, ShouldEqual, "kept")
		})

		Convey("Then rows for players not on the board are untouched", func() {
			So(*res.Records[1].PriorRank, ShouldEqual, 4)
		})

		Convey("Then new players get appended rows", func() {
			So(res.Added, ShouldEqual, 1)
			So(res.Records, ShouldHaveLength, 3)
			So(res.Records[2].Name, ShouldEqual, "Alex Jones")
			So(res.Records[2].ESPNID, ShouldEqual, "77")
			So(*res.Records[2].PriorRank, ShouldEqual, 1)
		})

		Convey("Then the input records are not modified", func() {
			So(*records[0].PriorRank, ShouldEqual, 10)
		})
	})
}
