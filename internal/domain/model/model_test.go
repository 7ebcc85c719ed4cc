package model_test

import (
	"testing"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestIdentityKey(t *testing.T) {
	convey.Convey("Given player identities with casing and whitespace drift", t, func() {
		convey.Convey("When building keys", func() {
			convey.Convey("Then casing and surrounding blanks are ignored", func() {
				convey.So(model.IdentityKey("John Smith", "Ohio State"), convey.ShouldEqual, "john smith|ohio state")
				convey.So(model.IdentityKey("  JOHN SMITH ", "ohio state\t"), convey.ShouldEqual, "john smith|ohio state")
			})

			convey.Convey("And non-ASCII names fold consistently", func() {
				convey.So(model.IdentityKey("José ÁLVAREZ", "Miami (FL)"), convey.ShouldEqual, model.IdentityKey("josé álvarez", "MIAMI (FL)"))
			})

			convey.Convey("And the school is part of the identity", func() {
				convey.So(model.IdentityKey("John Smith", "Ohio State"), convey.ShouldNotEqual, model.IdentityKey("John Smith", "Oregon"))
			})
		})

		convey.Convey("When an enrichment record computes its key", func() {
			rec := model.EnrichmentRecord{Name: "John Smith", School: "Ohio State"}
			convey.So(rec.Key(), convey.ShouldEqual, model.IdentityKey("john smith", "OHIO STATE"))
		})
	})
}

func TestPosition(t *testing.T) {
	convey.Convey("Given the canonical position list", t, func() {
		convey.So(model.PositionDL.IsCanonical(), convey.ShouldBeTrue)
		convey.So(model.PositionOL.IsCanonical(), convey.ShouldBeTrue)
		convey.So(model.Position("DT").IsCanonical(), convey.ShouldBeFalse)
		convey.So(model.PositionUnknown.IsCanonical(), convey.ShouldBeFalse)
	})
}
