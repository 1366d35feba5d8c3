package ranking_test

import (
	"testing"

	"github.com/okian/tonight/internal/domain/model"
	"github.com/okian/tonight/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func scored(name string, score float64) model.ScoredEvent {
	return model.ScoredEvent{Event: model.Event{Name: name}, Score: score, Tier: model.TierFor(score)}
}

func names(events []model.ScoredEvent) []string {
	out := make([]string, len(events))
	for i := range events {
		out[i] = events[i].Name
	}
	return out
}

func TestRank(t *testing.T) {
	Convey("Given scored events", t, func() {
		in := []model.ScoredEvent{
			scored("a", 40),
			scored("b", 85),
			scored("c", 40),
			scored("d", 12.5),
			scored("e", 85),
		}

		Convey("When ranking without options", func() {
			out := ranking.Rank(in)

			Convey("Then scores descend and ties keep input order", func() {
				So(names(out), ShouldResemble, []string{"b", "e", "a", "c", "d"})
			})

			Convey("And the input is untouched", func() {
				So(names(in), ShouldResemble, []string{"a", "b", "c", "d", "e"})
			})
		})

		Convey("When a minimum score is set", func() {
			out := ranking.Rank(in, ranking.WithMinScore(40))

			Convey("Then events below it are dropped and the threshold itself is kept", func() {
				So(names(out), ShouldResemble, []string{"b", "e", "a", "c"})
			})
		})

		Convey("When a limit is set", func() {
			out := ranking.Rank(in, ranking.WithLimit(3))

			Convey("Then only the top events are kept", func() {
				So(names(out), ShouldResemble, []string{"b", "e", "a"})
			})
		})

		Convey("When a non-positive limit is set", func() {
			So(ranking.Rank(in, ranking.WithLimit(0)), ShouldHaveLength, 5)
		})

		Convey("When a tier is requested", func() {
			out := ranking.Rank(in, ranking.WithTier(model.TierBronze))

			Convey("Then only that tier is returned", func() {
				So(names(out), ShouldResemble, []string{"a", "c"})
			})
		})

		Convey("When ranking nothing", func() {
			out := ranking.Rank(nil)

			Convey("Then the result is empty, not nil", func() {
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When ranking", func() {
			out := ranking.Rank(in)

			Convey("Then scores are never changed", func() {
				for _, e := range out {
					for _, orig := range in {
						if orig.Name == e.Name {
							So(e.Score, ShouldEqual, orig.Score)
						}
					}
				}
			})
		})
	})
}

func TestEntries(t *testing.T) {
	Convey("Given ranked events with ties", t, func() {
		ranked := ranking.Rank([]model.ScoredEvent{scored("a", 90), scored("b", 70), scored("c", 90), scored("d", 50)})

		Convey("When numbering them", func() {
			entries := ranking.Entries(ranked)

			Convey("Then equal scores share a rank", func() {
				So(entries, ShouldHaveLength, 4)
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].Rank, ShouldEqual, 1)
				So(entries[2].Rank, ShouldEqual, 2)
				So(entries[3].Rank, ShouldEqual, 3)
				So(entries[2].Name, ShouldEqual, "b")
			})
		})

		Convey("When numbering nothing", func() {
			So(ranking.Entries(nil), ShouldBeEmpty)
		})
	})
}

func TestCountTiers(t *testing.T) {
	Convey("Given scored events", t, func() {
		events := []model.ScoredEvent{scored("a", 80), scored("b", 79.9), scored("c", 20), scored("d", 10)}

		Convey("When counting tiers", func() {
			counts := ranking.CountTiers(events)

			Convey("Then every tier is reported", func() {
				So(counts, ShouldResemble, map[model.Tier]int{
					model.TierGold:   1,
					model.TierSilver: 1,
					model.TierBronze: 0,
					model.TierDim:    2,
				})
			})
		})
	})
}
