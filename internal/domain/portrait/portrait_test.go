package portrait_test

import (
	"testing"

	"github.com/okian/combine/internal/domain/portrait"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given the default resolver", t, func() {
		r := portrait.Default()

		Convey("When the reference is on the trusted host", func() {
			raw := "https://static.www.nfl.com/image/private/{formatInstructions}/league/abc123"
			got := r.Resolve(raw)

			Convey("Then the format token is substituted", func() {
				So(got, ShouldEqual, "https://static.www.nfl.com/image/private/t_headshot_desktop/league/abc123")
			})
		})

		Convey("When the reference is from another host", func() {
			Convey("Then the placeholder is returned", func() {
				So(r.Resolve("https://example.com/a.png"), ShouldEqual, portrait.DefaultPlaceholder)
			})
		})

		Convey("When the reference is empty", func() {
			Convey("Then the placeholder is returned", func() {
				So(r.Resolve(""), ShouldEqual, portrait.DefaultPlaceholder)
				So(r.Resolve("   "), ShouldEqual, portrait.DefaultPlaceholder)
			})
		})
	})

	Convey("Given a customized resolver", t, func() {
		r := portrait.Resolver{Host: "img.example.org", Token: "{fmt}", Format: "small", Placeholder: "/x.png"}

		Convey("Then its own host, token and placeholder apply", func() {
			So(r.Resolve("https://img.example.org/{fmt}/p.jpg"), ShouldEqual, "https://img.example.org/small/p.jpg")
			So(r.Resolve("https://static.www.nfl.com/{fmt}/p.jpg"), ShouldEqual, "/x.png")
		})
	})
}
