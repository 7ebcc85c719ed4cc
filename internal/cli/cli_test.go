package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/draftboard/internal/adapters/export"
	"github.com/okian/draftboard/internal/adapters/repository"
	service "github.com/okian/draftboard/internal/app"
	"github.com/okian/draftboard/internal/config"
)

const rawExport = "Player,Pos,College,Rank,PFF,ESPN\n" +
	"John Smith,QB,Ohio State,50,,\n" +
	"Alex Jones,WR,LSU,,5,3\n" +
	"Dee Tackle,DT,Georgia,,20,\n"

func run(args ...string) (string, error) {
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	convey.Convey("Given a raw export on disk", t, func() {
		dir := t.TempDir()
		input := filepath.Join(dir, "raw.csv")
		convey.So(os.WriteFile(input, []byte(rawExport), 0o644), convey.ShouldBeNil)
		boardPath := filepath.Join(dir, export.BoardFile)

		convey.Convey("When building", func() {
			out, err := run("build", "--input", input, "--log-level", "error")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the summary names every output", func() {
				convey.So(out, convey.ShouldContainSubstring, "built 3 players (0 filtered")
				convey.So(out, convey.ShouldContainSubstring, export.PlayersFile)
			})

			convey.Convey("Then show prints the board as a table", func() {
				out, err := run("show", "--board", boardPath, "--limit", "2")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Alex Jones")
				convey.So(out, convey.ShouldContainSubstring, "Dee Tackle")
				convey.So(out, convey.ShouldNotContainSubstring, "John Smith")
				convey.So(out, convey.ShouldContainSubstring, "(2 players)")
			})

			convey.Convey("Then show filters by raw position labels", func() {
				out, err := run("show", "--board", boardPath, "--position", "dt")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Dee Tackle")
				convey.So(out, convey.ShouldContainSubstring, "(1 players)")
			})

			convey.Convey("Then show rejects a limit above the page cap", func() {
				_, err := run("show", "--board", boardPath, "--limit", "500")
				convey.So(errors.Is(err, repository.ErrInvalidLimit), convey.ShouldBeTrue)
			})

			convey.Convey("Then load prints the JSON board", func() {
				out, err := run("load",
					"--players", filepath.Join(dir, export.PlayersFile),
					"--sources", filepath.Join(dir, export.SourcesFile),
					"--log-level", "error",
				)
				convey.So(err, convey.ShouldBeNil)
				convey.So(export.ValidateJSON([]byte(out)), convey.ShouldBeNil)
			})

			convey.Convey("Then promote creates the enrichment file", func() {
				enrich := filepath.Join(dir, "player-enrichment.csv")
				out, err := run("promote", "--board", boardPath, "--enrichment", enrich, "--log-level", "error")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "0 updated, 3 added")

				out, err = run("build", "--input", input, "--log-level", "error")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "0 join misses")
			})
		})

		convey.Convey("When building with the redraft profile", func() {
			out, err := run("build", "--input", input, "--profile", config.ProfileRedraft, "--log-level", "error")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "built 2 players (1 filtered")
		})

		convey.Convey("When the profile is unknown", func() {
			_, err := run("build", "--input", input, "--profile", "keeper")
			convey.So(errors.Is(err, config.ErrUnknownProfile), convey.ShouldBeTrue)
		})

		convey.Convey("When the input flag is missing", func() {
			_, err := run("build")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "input")
		})

		convey.Convey("When the board file does not exist", func() {
			_, err := run("show", "--board", filepath.Join(dir, "missing.json"))
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestServeMux(t *testing.T) {
	convey.Convey("Given a published board", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		input := filepath.Join(dir, "raw.csv")
		convey.So(os.WriteFile(input, []byte(rawExport), 0o644), convey.ShouldBeNil)
		_, err := run("build", "--input", input, "--log-level", "error")
		convey.So(err, convey.ShouldBeNil)

		players, err := service.ReadBoard(filepath.Join(dir, export.BoardFile))
		convey.So(err, convey.ShouldBeNil)
		store := repository.NewBoardStore()
		store.Replace(ctx, players)
		mux := newMux(ctx, store, dir)

		get := func(target string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
			return w
		}

		convey.Convey("Then every route is wired", func() {
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/players?limit=2").Body.String(), convey.ShouldContainSubstring, "Alex Jones")
			convey.So(get("/stats").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/metrics").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/board/"+export.PlayersFile).Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}
