package scoring_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/tonight/internal/domain/affinity"
	"github.com/okian/tonight/internal/domain/model"
	scoring "github.com/okian/tonight/internal/domain/scoring"
	"github.com/okian/tonight/internal/domain/taste"
	. "github.com/smartystreets/goconvey/convey"
)

func jazzProfile() *taste.Profile {
	return taste.NewProfile([]taste.Artist{{Name: "Ravi Coltrane", Score: 1.0}}, []string{"jazz"})
}

func testDNA() affinity.Source {
	return affinity.NewDNASource(&taste.DNA{
		VenueAffinities: taste.VenueAffinities{
			Tier1Perfect: taste.VenueLists{Music: []string{"Nublu"}, Film: []string{"Metrograph"}},
			Tier2Great:   taste.VenueLists{Film: []string{"IFC Center"}},
		},
		FilmTaste: taste.FilmTaste{FavoredDirectors: []string{"Wong Kar-wai"}},
		CrossDisciplinarySignals: taste.CrossDisciplinarySignals{
			EventScoringHints: taste.EventScoringHints{StrongPositive: []string{"japanese experimental electronics"}},
		},
	})
}

func TestScoreScenarios(t *testing.T) {
	Convey("Given a jazz profile and the built-in tables", t, func() {
		profile := jazzProfile()
		src := affinity.Builtin()

		Convey("When a known artist plays a tier 1 venue", func() {
			got := scoring.Score(model.Event{
				Artists: []string{"Ravi Coltrane"},
				Venue:   "Village Vanguard",
				Genre:   "jazz",
				Type:    model.TypeMusic,
			}, profile, src)

			Convey("Then every category adds up to a silver 66", func() {
				So(got.Breakdown.DirectMatch, ShouldEqual, 36)
				So(got.Breakdown.MatchedArtists, ShouldResemble, []string{"Ravi Coltrane"})
				So(got.Breakdown.GenreMatch, ShouldEqual, 20)
				So(got.Breakdown.VenueBonus, ShouldEqual, 10)
				So(got.Breakdown.CulturalSignal, ShouldEqual, 0)
				So(got.Breakdown.NoveltyBonus, ShouldEqual, 0)
				So(got.Score, ShouldEqual, 66.0)
				So(got.Tier, ShouldEqual, model.TierSilver)
			})
		})

		Convey("When an unknown artist plays a liked genre at a tier 2 venue", func() {
			got := scoring.Score(model.Event{
				Artists: []string{"Unknown Band"},
				Venue:   "Elsewhere",
				Genre:   "jazz",
				Type:    model.TypeMusic,
			}, profile, src)

			Convey("Then the novelty bonus is capped at 10 and the event is dim", func() {
				So(got.Breakdown.DirectMatch, ShouldEqual, 0)
				So(got.Breakdown.MatchedArtists, ShouldNotBeNil)
				So(got.Breakdown.MatchedArtists, ShouldBeEmpty)
				So(got.Breakdown.GenreMatch, ShouldEqual, 20)
				So(got.Breakdown.VenueBonus, ShouldEqual, 7)
				So(got.Breakdown.NoveltyBonus, ShouldEqual, 10)
				So(got.Score, ShouldEqual, 37.0)
				So(got.Tier, ShouldEqual, model.TierDim)
			})
		})

		Convey("When the input event is scored", func() {
			in := model.Event{Name: "Set", Artists: []string{"ravi coltrane"}, Genre: "Jazz"}
			got := scoring.Score(in, profile, src)

			Convey("Then the original fields are carried over unchanged", func() {
				So(got.Event, ShouldResemble, in)
			})
		})
	})
}

func TestDirectMatch(t *testing.T) {
	Convey("Given a profile with several artists", t, func() {
		profile := taste.NewProfile([]taste.Artist{{Name: "a", Score: 1.0}, {Name: "b", Score: 0.5}, {Name: "c", Score: 1.2}, {Name: "d", Score: 0.77}}, nil)
		src := affinity.Builtin()

		Convey("When two known artists share a bill", func() {
			got := scoring.Score(model.Event{Artists: []string{"A", "B"}}, profile, src)

			Convey("Then the best match counts, not the sum", func() {
				So(got.Breakdown.DirectMatch, ShouldEqual, 36)
				So(got.Breakdown.MatchedArtists, ShouldResemble, []string{"A", "B"})
				So(got.Score, ShouldEqual, 36)
			})
		})

		Convey("When an affinity exceeds the cap", func() {
			got := scoring.Score(model.Event{Artists: []string{"C"}}, profile, src)

			Convey("Then the contribution stops at 40", func() {
				So(got.Breakdown.DirectMatch, ShouldEqual, 40)
			})
		})

		Convey("When the contribution is fractional", func() {
			got := scoring.Score(model.Event{Artists: []string{"D"}}, profile, src)

			Convey("Then it is rounded to one decimal", func() {
				So(got.Breakdown.DirectMatch, ShouldEqual, 27.7)
				So(got.Score, ShouldEqual, 27.7)
			})
		})
	})
}

func TestGenreAndNovelty(t *testing.T) {
	Convey("Given a profile with genre keywords only", t, func() {
		profile := taste.NewProfile([]taste.Artist{{Name: "known", Score: 1}}, []string{"jazz", "ambient"})
		src := affinity.Builtin()

		Convey("When genre words are separated by hyphens and slashes", func() {
			got := scoring.Score(model.Event{Genre: "Free-Jazz/Ambient"}, profile, src)

			Convey("Then each keyword word scores 8", func() {
				So(got.Breakdown.GenreMatch, ShouldEqual, 16)
				So(got.Breakdown.NoveltyBonus, ShouldEqual, 6.4)
			})
		})

		Convey("When genre and subGenre both match", func() {
			got := scoring.Score(model.Event{Genre: "Free-Jazz/Ambient", SubGenre: "ambient"}, profile, src)

			Convey("Then the category is capped at 25", func() {
				So(got.Breakdown.GenreMatch, ShouldEqual, 25)
			})
		})

		Convey("When the genre only partly overlaps", func() {
			got := scoring.Score(model.Event{Genre: "jazz fusion", Venue: "Roulette"}, profile, src)

			Convey("Then novelty gets the venue lift", func() {
				So(got.Breakdown.GenreMatch, ShouldEqual, 8)
				So(got.Breakdown.VenueBonus, ShouldEqual, 10)
				So(got.Breakdown.NoveltyBonus, ShouldEqual, 6.2)
				So(got.Score, ShouldEqual, 24.2)
			})
		})

		Convey("When the artist is known", func() {
			got := scoring.Score(model.Event{Artists: []string{"Known"}, Genre: "jazz"}, profile, src)

			Convey("Then there is no novelty bonus", func() {
				So(got.Breakdown.DirectMatch, ShouldBeGreaterThan, 0)
				So(got.Breakdown.NoveltyBonus, ShouldEqual, 0)
			})
		})

		Convey("When nothing about the genre matches", func() {
			got := scoring.Score(model.Event{Genre: "polka", Venue: "Village Vanguard"}, profile, src)

			Convey("Then there is no novelty bonus either", func() {
				So(got.Breakdown.NoveltyBonus, ShouldEqual, 0)
				So(got.Score, ShouldEqual, 10)
			})
		})
	})
}

func TestCulturalSignal(t *testing.T) {
	Convey("Given the built-in keyword tables", t, func() {
		profile := taste.NewProfile(nil, nil)
		src := affinity.Builtin()

		Convey("When a cultural event hits many keywords", func() {
			got := scoring.Score(model.Event{
				Name:        "Philosophy, Poetry and Technology",
				Description: "identity",
				Venue:       "Housing Works",
				Type:        model.TypeCultural,
			}, profile, src)

			Convey("Then the signal is capped at 15", func() {
				So(got.Breakdown.CulturalSignal, ShouldEqual, 15)
				So(got.Score, ShouldEqual, 15)
			})
		})

		Convey("When a repeated keyword appears", func() {
			got := scoring.Score(model.Event{
				Name: "Poetry poetry poetry",
				Type: model.TypeCultural,
			}, profile, src)

			Convey("Then it counts once", func() {
				So(got.Breakdown.CulturalSignal, ShouldEqual, 5)
			})
		})

		Convey("When a music event comes from the talks source", func() {
			got := scoring.Score(model.Event{Name: "Poetry night", Type: model.TypeMusic, Source: "thoughtgallery"}, profile, src)

			Convey("Then the signal still applies", func() {
				So(got.Breakdown.CulturalSignal, ShouldEqual, 5)
			})
		})

		Convey("When a music event mentions keywords", func() {
			got := scoring.Score(model.Event{Name: "Poetry night", Type: model.TypeMusic}, profile, src)

			Convey("Then the signal is skipped", func() {
				So(got.Breakdown.CulturalSignal, ShouldEqual, 0)
			})
		})
	})
}

func TestFilmScoring(t *testing.T) {
	Convey("Given an empty profile", t, func() {
		profile := taste.NewProfile(nil, nil)

		Convey("When a favored director's film plays a DNA tier 1 film venue", func() {
			got := scoring.Score(model.Event{
				Name:        "In the Mood for Love",
				Description: "A surreal romance",
				SubGenre:    "drama",
				Venue:       "Metrograph",
				Director:    "Wong Kar-wai",
				Type:        model.TypeFilm,
			}, profile, testDNA())

			Convey("Then film venue, keyword and director bonuses apply", func() {
				So(got.Breakdown.VenueBonus, ShouldEqual, 0)
				So(got.Breakdown.FilmVenue, ShouldEqual, 10)
				So(got.Breakdown.FilmKeywords, ShouldEqual, 3)
				So(got.Breakdown.FavoredDirector, ShouldEqual, "wong kar-wai")
				So(got.Breakdown.DirectorBonus, ShouldEqual, 15)
				So(got.Breakdown.FilmHint, ShouldEqual, 0)
				So(got.Score, ShouldEqual, 28)
			})
		})

		Convey("When a film matches a hint phrase", func() {
			got := scoring.Score(model.Event{
				Name:        "Tampopo",
				Description: "Japanese experimental cinema",
				Venue:       "IFC Center",
				Director:    "Juzo Itami",
				Type:        model.TypeFilm,
			}, profile, testDNA())

			Convey("Then both the film hint and the cross-disciplinary bonus apply", func() {
				So(got.Breakdown.FilmVenue, ShouldEqual, 6)
				So(got.Breakdown.FilmKeywords, ShouldEqual, 6)
				So(got.Breakdown.FilmHint, ShouldEqual, 5)
				So(got.Breakdown.CrossDisciplinary, ShouldEqual, 3)
				So(got.Breakdown.DirectorBonus, ShouldEqual, 0)
				So(got.Score, ShouldEqual, 20)
			})
		})

		Convey("When the built-in tables are used", func() {
			got := scoring.Score(model.Event{
				Name:  "Stalker",
				Venue: "BAM Rose Cinemas",
				Type:  model.TypeFilm,
			}, profile, affinity.Builtin())

			Convey("Then the general venue bonus also applies to film", func() {
				So(got.Breakdown.VenueBonus, ShouldEqual, 4)
				So(got.Breakdown.FilmVenue, ShouldEqual, 6)
				So(got.Score, ShouldEqual, 10)
			})
		})

		Convey("When a non-film event plays a film venue", func() {
			got := scoring.Score(model.Event{Name: "Talk", Venue: "Metrograph", Type: model.TypeCultural}, profile, testDNA())

			Convey("Then no film category applies", func() {
				So(got.Breakdown.FilmVenue, ShouldEqual, 0)
			})
		})
	})
}

func TestCrossDisciplinary(t *testing.T) {
	Convey("Given DNA hint phrases", t, func() {
		profile := taste.NewProfile(nil, nil)
		src := testDNA()

		Convey("When two long words of a phrase appear in a music event", func() {
			got := scoring.Score(model.Event{
				Name:        "Electronics night",
				Description: "Japanese sound art",
				Venue:       "Nublu",
				Type:        model.TypeMusic,
			}, profile, src)

			Convey("Then the boost applies once", func() {
				So(got.Breakdown.VenueBonus, ShouldEqual, 10)
				So(got.Breakdown.CrossDisciplinary, ShouldEqual, 3)
				So(got.Score, ShouldEqual, 13)
			})
		})

		Convey("When only one word appears", func() {
			got := scoring.Score(model.Event{Name: "Japanese jazz"}, profile, src)

			Convey("Then there is no boost", func() {
				So(got.Breakdown.CrossDisciplinary, ShouldEqual, 0)
			})
		})

		Convey("When a phrase carries punctuation", func() {
			punctuated := affinity.NewDNASource(&taste.DNA{
				CrossDisciplinarySignals: taste.CrossDisciplinarySignals{
					EventScoringHints: taste.EventScoringHints{StrongPositive: []string{"tarkovsky, bergman."}},
				},
			})
			got := scoring.Score(model.Event{Name: "Tarkovsky and Bergman double bill"}, profile, punctuated)

			Convey("Then the words still match", func() {
				So(got.Breakdown.CrossDisciplinary, ShouldEqual, 3)
			})
		})

		Convey("When the built-in tables are used", func() {
			got := scoring.Score(model.Event{Name: "Japanese experimental electronics"}, profile, affinity.Builtin())

			Convey("Then there are no hints to match", func() {
				So(got.Breakdown.CrossDisciplinary, ShouldEqual, 0)
			})
		})
	})
}

func TestScoreBoundsAndDeterminism(t *testing.T) {
	Convey("Given an event that hits every category", t, func() {
		profile := taste.NewProfile([]taste.Artist{{Name: "x", Score: 2}}, []string{"jazz"})
		e := model.Event{
			Name:        "Philosophy existential literary fiction",
			Artists:     []string{"X"},
			Genre:       "jazz",
			SubGenre:    "jazz",
			Description: "surreal poetry japanese experimental electronics",
			Venue:       "Metrograph",
			Director:    "Wong Kar-wai",
			Source:      "thoughtgallery",
			Type:        model.TypeFilm,
		}

		Convey("When it is scored", func() {
			got := scoring.Score(e, profile, testDNA())

			Convey("Then the total is capped at 100", func() {
				So(got.Score, ShouldEqual, 100)
				So(got.Tier, ShouldEqual, model.TierGold)
			})
		})

		Convey("When it is scored twice", func() {
			a := scoring.Score(e, profile, testDNA())
			b := scoring.Score(e, profile, testDNA())

			Convey("Then the results are identical", func() {
				So(a, ShouldResemble, b)
			})
		})
	})
}

func constRule(v float64) []scoring.Rule {
	return []scoring.Rule{{Name: "const", Apply: func(*scoring.Input, *model.Breakdown) float64 { return v }}}
}

func TestScorer(t *testing.T) {
	Convey("Given a Scorer", t, func() {
		ctx := context.Background()
		profile := jazzProfile()
		e := model.Event{Name: "Gig"}

		Convey("When no source is given", func() {
			s := scoring.New(profile, nil)

			Convey("Then the built-in tables are used", func() {
				So(s.Provider(), ShouldEqual, affinity.ProviderBuiltin)
			})
		})

		Convey("When a rule panics", func() {
			s := scoring.New(profile, affinity.Builtin(), scoring.WithRules([]scoring.Rule{{
				Name:  "boom",
				Apply: func(*scoring.Input, *model.Breakdown) float64 { panic("boom") },
			}}))
			_, err := s.Score(ctx, e)

			Convey("Then the failure is isolated as ErrScoreFailed", func() {
				So(errors.Is(err, scoring.ErrScoreFailed), ShouldBeTrue)
			})
		})

		Convey("When the profile is missing", func() {
			_, err := scoring.New(nil, nil).Score(ctx, e)

			Convey("Then ErrScoreFailed is returned", func() {
				So(errors.Is(err, scoring.ErrScoreFailed), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := scoring.New(profile, nil).Score(cctx, e)

			Convey("Then the context error is returned", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When totals land on tier boundaries", func() {
			cases := []struct {
				total float64
				score float64
				tier  model.Tier
			}{
				{80, 80, model.TierGold},
				{79.96, 80, model.TierGold},
				{79.94, 79.9, model.TierSilver},
				{60, 60, model.TierSilver},
				{40, 40, model.TierBronze},
				{39.9, 39.9, model.TierDim},
				{-5, 0, model.TierDim},
				{250, 100, model.TierGold},
			}

			Convey("Then the score is clamped, rounded and tiered", func() {
				for _, c := range cases {
					got, err := scoring.New(profile, nil, scoring.WithRules(constRule(c.total))).Score(ctx, e)
					So(err, ShouldBeNil)
					So(got.Score, ShouldEqual, c.score)
					So(got.Tier, ShouldEqual, c.tier)
				}
			})
		})
	})
}
