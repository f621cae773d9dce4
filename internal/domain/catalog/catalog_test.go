package catalog_test

import (
	"testing"

	catalog "github.com/mergington/rollcall/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

var seedNames = []string{
	"Basketball",
	"Tennis Club",
	"Art Studio",
	"Drama Club",
	"Debate Team",
	"Science Club",
	"Chess Club",
	"Programming Class",
	"Gym Class",
}

func TestDefaultCatalog(t *testing.T) {
	Convey("Given the default activity catalog", t, func() {
		Convey("When loading the seed activities", func() {
			seed := catalog.Default()

			Convey("Then every expected activity should be present", func() {
				So(seed, ShouldHaveLength, len(seedNames))
				for _, name := range seedNames {
					So(seed, ShouldContainKey, name)
				}
			})

			Convey("And every entry should be well formed", func() {
				for name, a := range seed {
					So(a.Description, ShouldNotBeEmpty)
					So(a.Schedule, ShouldNotBeEmpty)
					So(a.MaxParticipants, ShouldBeGreaterThan, 0)
					So(len(a.Participants), ShouldBeLessThanOrEqualTo, a.MaxParticipants)
					for _, p := range a.Participants {
						So(p, ShouldNotBeEmpty)
						So(p, ShouldEndWith, "@mergington.edu")
					}
					So(name, ShouldNotBeEmpty)
				}
			})

			Convey("And each roster should ship with seed participants", func() {
				// The duplicate-signup flow relies on every activity
				// starting with at least one roster entry.
				for name, a := range seed {
					So(len(a.Participants), ShouldBeGreaterThan, 0)
					So(name, ShouldNotBeEmpty)
				}
			})
		})

		Convey("When loading the catalog twice", func() {
			first := catalog.Default()
			first["Chess Club"].Participants = append(first["Chess Club"].Participants, "intruder@mergington.edu")
			delete(first, "Gym Class")

			second := catalog.Default()

			Convey("Then mutating one snapshot should not leak into the next", func() {
				So(second, ShouldContainKey, "Gym Class")
				So(second["Chess Club"].Participants, ShouldNotContain, "intruder@mergington.edu")
			})
		})
	})
}
