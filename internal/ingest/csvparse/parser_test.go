package csvparse_test

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/okian/draftboard/internal/ingest/csvparse"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given a ranking export", t, func() {
		Convey("When fields are quoted", func() {
			rows, err := csvparse.Parse("Name,School,Note\n\"Smith, John\",Ohio State,\"says \"\"hi\"\"\"\n")

			Convey("Then the delimiter and escaped quotes are kept inside the field", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Value("Name"), ShouldEqual, "Smith, John")
				So(rows[0].Value("Note"), ShouldEqual, `says "hi"`)
				So(rows[0].Line, ShouldEqual, 1)
			})
		})

		Convey("When the input has blank lines, padding and a BOM", func() {
			text := "\uFEFF Name , Rank \n\n  Alpha  , 1 \n   \nBeta,2\n\n"
			rows, err := csvparse.Parse(text)

			Convey("Then headers and values are trimmed and blank lines skipped", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Headers(), ShouldResemble, []string{"Name", "Rank"})
				So(rows[0].Value("Name"), ShouldEqual, "Alpha")
				So(rows[1].Value("Rank"), ShouldEqual, "2")
				So(rows[1].Line, ShouldEqual, 2)
			})
		})

		Convey("When rows are shorter or longer than the header", func() {
			rows, err := csvparse.Parse("a,b,c\n1\n1,2,3,4\n")

			Convey("Then short rows pad with empty values and extras are dropped", func() {
				So(err, ShouldBeNil)
				v, ok := rows[0].Get("c")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "")
				So(rows[1].Value("c"), ShouldEqual, "3")
				_, ok = rows[1].Get("d")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the input has only a header", func() {
			_, err := csvparse.Parse("Name,Rank\n\n")

			Convey("Then a ParseError wrapping ErrTooFewLines is returned", func() {
				var pe *csvparse.ParseError
				So(errors.As(err, &pe), ShouldBeTrue)
				So(errors.Is(err, csvparse.ErrTooFewLines), ShouldBeTrue)
			})
		})

		Convey("When the input is empty", func() {
			_, err := csvparse.Parse("   \n")
			So(errors.Is(err, csvparse.ErrTooFewLines), ShouldBeTrue)
		})

		Convey("When a quoted field is broken under strict quoting", func() {
			_, err := csvparse.New(csvparse.WithStrictQuotes()).Parse("Name,Rank\nAl\"pha,1\n")

			Convey("Then the error is malformed and carries the line", func() {
				var pe *csvparse.ParseError
				So(errors.As(err, &pe), ShouldBeTrue)
				So(errors.Is(err, csvparse.ErrMalformed), ShouldBeTrue)
				So(pe.Line, ShouldEqual, 2)
				So(err.Error(), ShouldContainSubstring, "line 2")
			})
		})

		Convey("When a custom delimiter is configured", func() {
			rows, err := csvparse.New(csvparse.WithDelimiter(';')).Parse("Name;Rank\nAlpha;1\n")
			So(err, ShouldBeNil)
			So(rows[0].Value("Rank"), ShouldEqual, "1")
		})

		Convey("When reading from an io.Reader", func() {
			rows, err := csvparse.ParseReader(strings.NewReader("Name\nAlpha\n"))
			So(err, ShouldBeNil)
			So(rows[0].Value("Name"), ShouldEqual, "Alpha")
		})
	})
}

func TestNewRow(t *testing.T) {
	Convey("Given parallel headers and values", t, func() {
		row := csvparse.NewRow([]string{"a", "b", "a"}, []string{" x ", "y", "z"}, 3)

		Convey("Then the first duplicate header wins and values are trimmed", func() {
			So(row.Value("a"), ShouldEqual, "x")
			So(row.Value("b"), ShouldEqual, "y")
			So(row.Line, ShouldEqual, 3)
		})
	})
}
