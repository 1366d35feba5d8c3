package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/tonight/internal/app"
	"github.com/okian/tonight/internal/domain/affinity"
	"github.com/okian/tonight/internal/domain/model"
	"github.com/okian/tonight/internal/domain/scoring"
	"github.com/okian/tonight/internal/domain/taste"
	"github.com/okian/tonight/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func jazzProfile() *taste.Profile {
	return taste.NewProfile([]taste.Artist{{Name: "Ravi Coltrane", Score: 1.0}}, []string{"jazz"})
}

// silverGig scores 66 and dimGig 37 against jazzProfile with built-in tables.
var (
	silverGig = model.Event{Name: "Ravi Coltrane Quartet", Artists: []string{"Ravi Coltrane"}, Venue: "Village Vanguard", Date: "2025-06-01", Genre: "jazz", Type: model.TypeMusic}
	dimGig    = model.Event{Name: "Late Set", Artists: []string{"Unknown Band"}, Venue: "Elsewhere", Date: "2025-06-02", Genre: "jazz", Type: model.TypeMusic}
)

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc, err := service.New(jazzProfile(), nil)

		Convey("Then it should have sensible defaults", func() {
			So(err, ShouldBeNil)
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["affinityProvider"], ShouldEqual, affinity.ProviderBuiltin)
			So(stats["started"], ShouldEqual, false)
			So(stats["queueSize"], ShouldEqual, 1024)
		})
	})

	Convey("Given no profile", t, func() {
		svc, err := service.New(nil, nil)

		Convey("Then construction fails", func() {
			So(errors.Is(err, service.ErrNoProfile), ShouldBeTrue)
			So(svc, ShouldBeNil)
		})
	})
}

func TestService_Process(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()
		svc, err := service.New(jazzProfile(), affinity.Builtin(), service.WithWorkerCount(3))
		So(err, ShouldBeNil)

		Convey("When processing a batch with a duplicate listing", func() {
			dup := silverGig
			dup.Artists = []string{"RAVI COLTRANE"}
			dup.Venue = "village vanguard"
			dup.Source = "another-scraper"

			res, err := svc.Process(ctx, []model.Event{dimGig, silverGig, dup})

			Convey("Then duplicates collapse and events rank by score", func() {
				So(err, ShouldBeNil)
				So(res.RunID, ShouldNotBeEmpty)
				So(res.RawCount, ShouldEqual, 3)
				So(res.DedupedCount, ShouldEqual, 2)
				So(res.ScoredCount, ShouldEqual, 2)
				So(res.FailedCount, ShouldEqual, 0)
				So(res.FilteredCount, ShouldEqual, 0)
				So(res.Events, ShouldHaveLength, 2)
				So(res.Events[0].Score, ShouldEqual, 66.0)
				So(res.Events[0].Source, ShouldEqual, "")
				So(res.Events[1].Score, ShouldEqual, 37.0)
				So(res.Tiers, ShouldResemble, map[model.Tier]int{
					model.TierGold: 0, model.TierSilver: 1, model.TierBronze: 0, model.TierDim: 1,
				})
				So(res.AffinityProvider, ShouldEqual, affinity.ProviderBuiltin)
				So(res.FinishedAt, ShouldHappenOnOrAfter, res.StartedAt)
			})
		})

		Convey("When processing nothing", func() {
			res, err := svc.Process(ctx, nil)

			Convey("Then the result is empty, not nil", func() {
				So(err, ShouldBeNil)
				So(res.Events, ShouldNotBeNil)
				So(res.Events, ShouldBeEmpty)
				So(res.RawCount, ShouldEqual, 0)
			})
		})

		Convey("When processing many events on several workers", func() {
			events := make([]model.Event, 0, 200)
			for i := 0; i < 100; i++ {
				a, b := silverGig, dimGig
				a.Date = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i).Format("2006-01-02")
				b.Date = a.Date
				events = append(events, b, a)
			}

			res, err := svc.Process(ctx, events)

			Convey("Then equal scores keep their input order", func() {
				So(err, ShouldBeNil)
				So(res.Events, ShouldHaveLength, 200)
				So(res.Events[0].Date, ShouldEqual, "2025-01-01")
				So(res.Events[99].Date, ShouldEqual, "2025-04-10")
				So(res.Events[100].Score, ShouldEqual, 37.0)
				So(res.Events[100].Date, ShouldEqual, "2025-01-01")
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := svc.Process(cctx, []model.Event{silverGig})

			Convey("Then the run fails", func() {
				So(errors.Is(err, service.ErrRunFailed), ShouldBeTrue)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service with a minimum score", t, func() {
		svc, err := service.New(jazzProfile(), nil, service.WithMinScore(50))
		So(err, ShouldBeNil)

		Convey("When processing events on both sides of it", func() {
			res, err := svc.Process(context.Background(), []model.Event{dimGig, silverGig})

			Convey("Then the low scorer is filtered and counted", func() {
				So(err, ShouldBeNil)
				So(res.ScoredCount, ShouldEqual, 2)
				So(res.FilteredCount, ShouldEqual, 1)
				So(res.Events, ShouldHaveLength, 1)
				So(res.Events[0].Tier, ShouldEqual, model.TierSilver)
				So(res.Tiers[model.TierDim], ShouldEqual, 0)
			})
		})
	})

	Convey("Given a service whose scoring fails for one event", t, func() {
		rules := append(scoring.Rules(), scoring.Rule{
			Name: "explode",
			Apply: func(in *scoring.Input, _ *model.Breakdown) float64 {
				if in.Event.Name == "Broken Listing" {
					panic("corrupt record")
				}
				return 0
			},
		})
		svc, err := service.New(jazzProfile(), affinity.Builtin(),
			service.WithWorkerCount(2),
			service.WithScoringRules(rules),
		)
		So(err, ShouldBeNil)

		Convey("When processing a batch containing that event", func() {
			broken := model.Event{Name: "Broken Listing", Venue: "Nowhere", Date: "2025-06-03", Genre: "jazz", Type: model.TypeMusic}
			res, err := svc.Process(context.Background(), []model.Event{dimGig, broken, silverGig})

			Convey("Then the rest of the batch is still ranked", func() {
				So(err, ShouldBeNil)
				So(res.DedupedCount, ShouldEqual, 3)
				So(res.ScoredCount, ShouldEqual, 2)
				So(res.FailedCount, ShouldEqual, 1)
				So(res.Events, ShouldHaveLength, 2)
				So(res.Events[0].Name, ShouldEqual, silverGig.Name)
				So(res.Events[0].Score, ShouldEqual, 66)
				So(res.Events[1].Name, ShouldEqual, dimGig.Name)
				So(res.Events[1].Score, ShouldEqual, 37)
			})
		})
	})
}

func TestService_ScoreEvents(t *testing.T) {
	Convey("Given a service without a completed run", t, func() {
		ctx := context.Background()
		svc, err := service.New(jazzProfile(), nil, service.WithOutputFile(""))
		So(err, ShouldBeNil)

		Convey("When scoring ad hoc events", func() {
			res, err := svc.ScoreEvents(ctx, []model.Event{silverGig})

			Convey("Then the events are ranked", func() {
				So(err, ShouldBeNil)
				So(res.Events, ShouldHaveLength, 1)
			})

			Convey("And the latest run is left alone", func() {
				_, err := svc.Latest(ctx)
				So(errors.Is(err, service.ErrNotReady), ShouldBeTrue)
			})
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc, err := service.New(jazzProfile(), nil, service.WithSchedule("@every 1h"))
		So(err, ShouldBeNil)
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["schedule"], ShouldEqual, "@every 1h")
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a service with a broken schedule", t, func() {
		svc, err := service.New(jazzProfile(), nil, service.WithSchedule("whenever"))
		So(err, ShouldBeNil)

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should fail and stay stopped", func() {
				So(err, ShouldNotBeNil)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, err := service.New(jazzProfile(), nil)
		So(err, ShouldBeNil)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})

			Convey("And stopping twice is a no-op", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}
