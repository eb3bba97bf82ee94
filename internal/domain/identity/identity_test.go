package identity_test

import (
	"testing"

	"github.com/okian/combine/internal/domain/identity"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given display names with mixed case and padding", t, func() {
		Convey("Then they normalize to the same key", func() {
			So(identity.Normalize("  Saquon Barkley "), ShouldEqual, "saquon barkley")
			So(identity.Normalize("JOE BURROW"), ShouldEqual, identity.Normalize("joe burrow\t"))
			So(identity.Normalize("Joe Burrow"), ShouldNotEqual, identity.Normalize("Joe Burrows"))
		})
	})
}

func TestIndex(t *testing.T) {
	Convey("Given a new index", t, func() {
		ix := identity.NewIndex[string](4)

		Convey("When recording a new name", func() {
			seen := ix.SeenAndRecord("Justin Fields", "first")

			Convey("Then it is newly recorded", func() {
				So(seen, ShouldBeFalse)
				v, ok := ix.Lookup("justin fields")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "first")
			})

			Convey("And a differently cased duplicate keeps the first value", func() {
				So(ix.SeenAndRecord(" justin fields", "second"), ShouldBeTrue)
				v, ok := ix.Lookup("JUSTIN FIELDS")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "first")
			})
		})

		Convey("When recording a blank name", func() {
			So(ix.SeenAndRecord("   ", "x"), ShouldBeTrue)
			_, ok := ix.Lookup("")
			So(ok, ShouldBeFalse)
		})

		Convey("When looking up an unknown name", func() {
			_, ok := ix.Lookup("nobody")
			So(ok, ShouldBeFalse)
		})

		Convey("When recording several names", func() {
			So(ix.SeenAndRecord("B", "1"), ShouldBeFalse)
			So(ix.SeenAndRecord("a", "2"), ShouldBeFalse)
			v, _ := ix.Lookup("b")
			So(v, ShouldEqual, "1")
		})
	})
}
