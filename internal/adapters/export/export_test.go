package export_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/okian/draftboard/internal/adapters/export"
	"github.com/okian/draftboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(v int) *int { return &v }

func sampleBoard() []model.PlayerRecord {
	return []model.PlayerRecord{
		{
			ID: 2, Rank: 1, Name: "Alex Jones", Position: model.PositionWR, School: "LSU",
			Year: "Jr", Size: "6-1", Weight: "201", Speed: "4.38",
			Tier: 1, ConsensusRank: 3.4, FantasyRank: 4, SourceCount: 2, Grade: 9.73,
			DraftScore: 11.84, IsGenerational: true, FantasyMultiplier: 0.95,
			PreviousRank: intPtr(6), RankChange: 5,
			Sources: []model.SourceRanking{
				{Source: "PFF", Rank: 5, Weight: 1.2},
				{Source: "NFL Draft Buzz", Rank: 3, Weight: 1},
			},
			ESPNID: "4431", PhotoURL: "https://a.espncdn.com/x.png",
			Summary: "Explosive, \"sudden\" route runner\nwith return value",
			HighlightURL: "https://www.youtube.com/results?search_query=Alex+Jones", Initials: "AJ",
		},
		{
			ID: 1, Rank: 2, Name: "Smith, John", Position: model.PositionQB, School: "Ohio State",
			Tier: 1, ConsensusRank: 50, FantasyRank: 50, SourceCount: 1, Grade: 7.39,
			DraftScore: 12, FantasyMultiplier: 1,
			Sources: []model.SourceRanking{{Source: model.BaseSource, Rank: 50, Weight: 1}},
		},
		{
			ID: 3, Rank: 3, Name: "Sam Lee", Position: model.PositionTE, School: "Iowa",
			Tier: 3, ConsensusRank: 999, FantasyRank: 1249, Grade: 1,
			FantasyMultiplier: 0.8, Sources: []model.SourceRanking{},
		},
	}
}

func TestTables(t *testing.T) {
	Convey("Given a finished board", t, func() {
		board := sampleBoard()

		Convey("When encoding the flat pair", func() {
			playersCSV, sourcesCSV, err := export.EncodeTables(board)
			So(err, ShouldBeNil)

			Convey("Then both files start with their headers", func() {
				So(strings.SplitN(string(playersCSV), "\n", 2)[0], ShouldEqual, strings.Join(export.PlayerColumns, ","))
				So(strings.SplitN(string(sourcesCSV), "\n", 2)[0], ShouldEqual, "player_id,source,rank,weight")
				So(string(sourcesCSV), ShouldContainSubstring, "2,NFL Draft Buzz,3,1\n")
			})

			Convey("Then decoding reproduces the board field for field", func() {
				decoded, err := export.DecodeTables(playersCSV, sourcesCSV)
				So(err, ShouldBeNil)
				So(decoded, ShouldResemble, board)

				want, _ := export.EncodeJSON(board)
				got, _ := export.EncodeJSON(decoded)
				So(string(got), ShouldEqual, string(want))
			})

			Convey("Then players decode without a sources file", func() {
				decoded, err := export.DecodeTables(playersCSV, nil)
				So(err, ShouldBeNil)
				So(decoded[0].Sources, ShouldNotBeNil)
				So(decoded[0].Sources, ShouldBeEmpty)
			})
		})

		Convey("When a numeric cell is garbage", func() {
			playersCSV := []byte("id,name,rank\n1,A,first\n")
			_, err := export.DecodeTables(playersCSV, nil)

			Convey("Then decoding fails with the line and column", func() {
				So(errors.Is(err, export.ErrMalformedTable), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "line 2")
				So(err.Error(), ShouldContainSubstring, "rank")
			})
		})

		Convey("When a required column is missing", func() {
			_, err := export.DecodeTables([]byte("rank,name\n1,A\n"), nil)
			So(errors.Is(err, export.ErrMalformedTable), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, `"id"`)
		})

		Convey("When source weights are missing", func() {
			rows, err := export.DecodeSourceRows([]byte("player_id,source,rank\n4,PFF,9\n"))
			So(err, ShouldBeNil)
			So(rows, ShouldResemble, []model.SourceRow{{PlayerID: 4, Ranking: model.SourceRanking{Source: "PFF", Rank: 9, Weight: 1}}})
		})
	})
}

func TestJSON(t *testing.T) {
	Convey("Given a finished board", t, func() {
		board := sampleBoard()

		Convey("When encoding to JSON", func() {
			data, err := export.EncodeJSON(board)
			So(err, ShouldBeNil)

			Convey("Then it is an indented array that satisfies the schema", func() {
				So(string(data), ShouldStartWith, "[\n  {\n    \"id\": 2,")
				So(string(data), ShouldContainSubstring, `"previousRank": null`)
				So(string(data), ShouldContainSubstring, `"sources": []`)
				So(export.ValidateJSON(data), ShouldBeNil)
			})

			Convey("Then decoding returns the same board", func() {
				decoded, err := export.DecodeJSON(data)
				So(err, ShouldBeNil)
				So(decoded, ShouldResemble, board)
			})
		})

		Convey("When the board is empty", func() {
			data, err := export.EncodeJSON(nil)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "[]\n")
		})

		Convey("When a record violates the schema", func() {
			board[0].Grade = 0
			board[1].Sources = append(board[1].Sources, model.SourceRanking{Source: "", Rank: 0, Weight: 1})
			data, _ := export.EncodeJSON(board)
			err := export.ValidateJSON(data)

			Convey("Then every violation is reported", func() {
				So(errors.Is(err, export.ErrSchemaViolation), ShouldBeTrue)
				var se *export.SchemaError
				So(errors.As(err, &se), ShouldBeTrue)
				So(len(se.Violations), ShouldBeGreaterThanOrEqualTo, 3)
				So(strings.Join(se.Violations, "\n"), ShouldContainSubstring, "0.grade")
			})
		})
	})
}

func TestWriter(t *testing.T) {
	Convey("Given an output directory", t, func() {
		dir := t.TempDir()

		Convey("When rendering and writing a board", func() {
			files, err := export.Render(dir, sampleBoard())
			So(err, ShouldBeNil)
			So(export.WriteAll(files), ShouldBeNil)

			Convey("Then the three outputs exist and no temp files remain", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				names := make([]string, 0, len(entries))
				for _, e := range entries {
					names = append(names, e.Name())
				}
				So(names, ShouldResemble, []string{export.SourcesFile, export.BoardFile, export.PlayersFile})
			})
		})

		Convey("When a file is replaced", func() {
			path := filepath.Join(dir, "nested", "out.json")
			So(export.WriteFile(path, []byte("old")), ShouldBeNil)
			So(export.WriteFile(path, []byte("new")), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "new")
		})

		Convey("When the board is invalid", func() {
			board := sampleBoard()
			board[0].Name = ""
			_, err := export.Render(dir, board)

			Convey("Then nothing is rendered", func() {
				So(errors.Is(err, export.ErrSchemaViolation), ShouldBeTrue)
			})
		})

		Convey("When the target directory cannot be created", func() {
			blocker := filepath.Join(dir, "blocker")
			So(os.WriteFile(blocker, []byte("x"), 0o644), ShouldBeNil)
			err := export.WriteFile(filepath.Join(blocker, "out.json"), []byte("x"))
			So(errors.Is(err, export.ErrWrite), ShouldBeTrue)
		})
	})
}
