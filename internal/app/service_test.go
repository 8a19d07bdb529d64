package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/okian/viva/internal/adapters/stream"
	service "github.com/okian/viva/internal/app"
	"github.com/okian/viva/internal/domain/model"
	"github.com/okian/viva/internal/domain/scoring"
	"github.com/okian/viva/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// stubScorer grades deterministically and can delay, degrade or panic
// on selected items.
type stubScorer struct {
	scores  map[string]float64
	delays  map[string]time.Duration
	degrade map[string]bool
	panicOn string
}

func (s *stubScorer) Score(ctx context.Context, in scoring.Input) scoring.Outcome {
	if d, ok := s.delays[in.ItemID]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
		}
	}
	if in.ItemID == s.panicOn {
		panic("stub scorer exploded")
	}
	if s.degrade[in.ItemID] {
		return scoring.Degrade(in.ItemID, scoring.ErrMalformedGrade)
	}
	return scoring.Outcome{
		Status: scoring.StatusGraded,
		Result: model.ScoreResult{
			ItemID:    in.ItemID,
			RawScore:  s.scores[in.ItemID],
			Reasoning: "stub reasoning",
			Tip:       "stub tip",
			Comment:   "stub comment",
		},
	}
}

const submissionThreeItems = `Name: Jane Doe
Question 1: What is entropy? Answer: A measure of disorder.
Question 2: State the second law. Answer: Entropy never decreases.
Question 3: Define enthalpy. Answer: H equals U plus PV.
`

const keyThreeItems = `Question 1: What is entropy? Answer: Entropy measures disorder in a system.
Question 2: State the second law. Answer: The entropy of an isolated system never decreases.
Question 3: Define enthalpy. Answer: Enthalpy is internal energy plus pressure times volume.
`

func startService(scorer scoring.Scorer, opts ...service.Option) *service.Service {
	svc := service.New(append(opts, service.WithScorer(scorer))...)
	_ = svc.Start(context.Background())
	return svc
}

func collect(ch <-chan stream.Event) []model.Event {
	var out []model.Event
	for e := range ch {
		out = append(out, e)
	}
	return out
}

func runAssessment(svc *service.Service, submission, key string) ([]model.Event, string, error) {
	jobID, err := svc.CreateAssessment(context.Background(),
		service.Upload{Name: "submission.txt", Data: []byte(submission)},
		service.Upload{Name: "key.txt", Data: []byte(key)},
	)
	if err != nil {
		return nil, "", err
	}
	events, ok := svc.Stream(jobID)
	if !ok {
		return nil, jobID, nil
	}
	return collect(events), jobID, nil
}

func progressIDs(events []model.Event) []string {
	var ids []string
	for _, e := range events {
		if e.Type != model.EventProgress {
			continue
		}
		r := e.Payload.(model.NormalizedResult)
		ids = append(ids, r.ItemID)
	}
	return ids
}

func TestAssessmentOrdering(t *testing.T) {
	Convey("Given a scorer where the first item is the slowest", t, func() {
		scorer := &stubScorer{
			scores: map[string]float64{"1": 8, "2": 6, "3": 4},
			delays: map[string]time.Duration{"1": 150 * time.Millisecond},
		}
		svc := startService(scorer)
		defer svc.Stop()

		Convey("When an assessment runs", func() {
			events, _, err := runAssessment(svc, submissionThreeItems, keyThreeItems)
			So(err, ShouldBeNil)

			Convey("Then progress still arrives in ascending item order", func() {
				So(progressIDs(events), ShouldResemble, []string{"1", "2", "3"})
			})

			Convey("Then the stream ends with one summary and one done", func() {
				So(events, ShouldHaveLength, 5)
				So(events[3].Type, ShouldEqual, model.EventSummary)
				So(events[4].Type, ShouldEqual, model.EventDone)
			})

			Convey("Then the student name rides along on each result", func() {
				first := events[0].Payload.(model.NormalizedResult)
				So(first.StudentName, ShouldEqual, "Jane Doe")
			})
		})
	})
}

func TestAssessmentScoring(t *testing.T) {
	Convey("Given a two item assessment", t, func() {
		submission := `Question 1: Define heat. Answer: Energy in transit.
Question 2: Define work. Answer: Force times distance.
`
		key := `Question 1: Define heat. Answer: Thermal energy transferred by temperature difference.
Question 2: Define work. Answer: Energy transferred by a force acting over a distance.
`
		scorer := &stubScorer{scores: map[string]float64{"1": 4, "2": 10}}
		svc := startService(scorer)
		defer svc.Stop()

		Convey("When the assessment runs", func() {
			events, _, err := runAssessment(svc, submission, key)
			So(err, ShouldBeNil)

			Convey("Then each item owns half of the 100 point scale", func() {
				first := events[0].Payload.(model.NormalizedResult)
				second := events[1].Payload.(model.NormalizedResult)
				So(first.NormalizedScore, ShouldEqual, 20.0)
				So(second.NormalizedScore, ShouldEqual, 50.0)
			})

			Convey("Then the summary adds up and classifies the items", func() {
				s := events[2].Payload.(model.Summary)
				So(s.TotalScore, ShouldEqual, 70.0)
				So(s.AverageScore, ShouldEqual, 35.0)
				So(s.Meta.PerItemShare, ShouldEqual, 50.0)
				So(s.Strengths, ShouldResemble, []string{"2"})
				So(s.Weaknesses, ShouldResemble, []string{"1"})
			})
		})
	})
}

func TestAssessmentPartialKey(t *testing.T) {
	Convey("Given an answer key that only covers the first item", t, func() {
		submission := `Question 1: Define heat. Answer: Energy in transit.
Question 2: Define work. Answer: Force times distance.
`
		key := `Question 1: Define heat. Answer: Thermal energy transferred by temperature difference.
`
		scorer := &stubScorer{scores: map[string]float64{"1": 8, "2": 6}}
		svc := startService(scorer)
		defer svc.Stop()

		Convey("When the assessment runs", func() {
			events, _, err := runAssessment(svc, submission, key)
			So(err, ShouldBeNil)

			Convey("Then both items are graded and the uncovered one carries no key text", func() {
				So(progressIDs(events), ShouldResemble, []string{"1", "2"})
				first := events[0].Payload.(model.NormalizedResult)
				second := events[1].Payload.(model.NormalizedResult)
				So(first.KeyResponse, ShouldNotBeEmpty)
				So(second.KeyResponse, ShouldBeEmpty)
			})

			Convey("Then the summary still splits the scale across both items", func() {
				s := events[2].Payload.(model.Summary)
				So(s.Meta.Items, ShouldEqual, 2)
				So(s.Meta.PerItemShare, ShouldEqual, 50.0)
			})
		})
	})
}

func TestAssessmentDegradedItem(t *testing.T) {
	Convey("Given a scorer that degrades one item", t, func() {
		scorer := &stubScorer{
			scores:  map[string]float64{"1": 8, "3": 6},
			degrade: map[string]bool{"2": true},
		}
		svc := startService(scorer)
		defer svc.Stop()

		Convey("When the assessment runs", func() {
			events, _, err := runAssessment(svc, submissionThreeItems, keyThreeItems)
			So(err, ShouldBeNil)

			Convey("Then the degraded item scores zero but the job completes", func() {
				So(progressIDs(events), ShouldResemble, []string{"1", "2", "3"})
				degraded := events[1].Payload.(model.NormalizedResult)
				So(degraded.NormalizedScore, ShouldEqual, 0.0)
				So(degraded.Reasoning, ShouldNotBeEmpty)
				So(events[4].Type, ShouldEqual, model.EventDone)
			})
		})
	})
}

func TestAssessmentScorerPanic(t *testing.T) {
	Convey("Given a scorer that panics on one item", t, func() {
		scorer := &stubScorer{
			scores:  map[string]float64{"1": 8, "3": 6},
			panicOn: "2",
		}
		svc := startService(scorer)
		defer svc.Stop()

		Convey("When the assessment runs", func() {
			events, _, err := runAssessment(svc, submissionThreeItems, keyThreeItems)
			So(err, ShouldBeNil)

			Convey("Then the panic degrades that item and done still lands", func() {
				So(progressIDs(events), ShouldResemble, []string{"1", "2", "3"})
				So(events[len(events)-1].Type, ShouldEqual, model.EventDone)
			})
		})
	})
}

func TestAssessmentNoItems(t *testing.T) {
	Convey("Given a submission without any item markers", t, func() {
		svc := startService(&stubScorer{})
		defer svc.Stop()

		Convey("When the assessment runs", func() {
			events, _, err := runAssessment(svc, "just an essay with no structure", keyThreeItems)
			So(err, ShouldBeNil)

			Convey("Then the stream carries the empty-state summary and then done", func() {
				So(events, ShouldHaveLength, 2)
				So(events[0].Type, ShouldEqual, model.EventSummary)
				sum := events[0].Payload.(model.Summary)
				So(sum.TotalScore, ShouldEqual, 0)
				So(sum.OverallFeedback, ShouldContainSubstring, "No assessment data")
				So(events[1].Type, ShouldEqual, model.EventDone)
			})
		})
	})
}

func TestCreateAssessmentValidation(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(&stubScorer{})
		defer svc.Stop()

		Convey("When the submission upload is empty", func() {
			_, err := svc.CreateAssessment(context.Background(),
				service.Upload{Name: "submission.txt", Data: nil},
				service.Upload{Name: "key.txt", Data: []byte(keyThreeItems)},
			)

			Convey("Then the request is rejected up front", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "submission")
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("Then assessments are refused", func() {
			_, err := svc.CreateAssessment(context.Background(),
				service.Upload{Name: "a.txt", Data: []byte("x")},
				service.Upload{Name: "b.txt", Data: []byte("y")},
			)
			So(err, ShouldEqual, service.ErrNotStarted)
		})
	})
}

func TestStreamLifecycle(t *testing.T) {
	Convey("Given a finished assessment", t, func() {
		svc := startService(&stubScorer{scores: map[string]float64{"1": 8, "2": 6, "3": 4}})
		defer svc.Stop()
		_, jobID, err := runAssessment(svc, submissionThreeItems, keyThreeItems)
		So(err, ShouldBeNil)

		Convey("When the drained stream is released", func() {
			svc.Release(jobID)

			Convey("Then the job is forgotten", func() {
				_, ok := svc.Stream(jobID)
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given an unknown job id", t, func() {
		svc := startService(&stubScorer{})
		defer svc.Stop()

		Convey("Then the stream lookup misses", func() {
			_, ok := svc.Stream("not-a-job")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestCustomMarkerLabel(t *testing.T) {
	Convey("Given a service configured for a different marker label", t, func() {
		submission := `Soru 1: Tanim. Cevap: bir deger.
Soru 2: Diger. Cevap: baska deger.
`
		key := `Soru 1: Tanim. Cevap: dogru deger.
Soru 2: Diger. Cevap: dogru deger.
`
		scorer := &stubScorer{scores: map[string]float64{"1": 10, "2": 10}}
		svc := startService(scorer, service.WithMarkerLabel("Soru"))
		defer svc.Stop()

		Convey("When the assessment runs", func() {
			events, _, err := runAssessment(svc, submission, key)
			So(err, ShouldBeNil)

			Convey("Then both items are detected and scored", func() {
				So(progressIDs(events), ShouldResemble, []string{"1", "2"})
			})
		})
	})
}
