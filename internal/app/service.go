// Package service runs assessment jobs end to end: it extracts the two
// uploaded documents, segments and aligns them, fans the aligned items
// out to the scorer, and publishes the results per job in strict item
// order, always finishing with one summary and one done event.
package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/viva/internal/adapters/extract"
	"github.com/okian/viva/internal/adapters/stream"
	"github.com/okian/viva/internal/domain/align"
	"github.com/okian/viva/internal/domain/model"
	"github.com/okian/viva/internal/domain/scoring"
	"github.com/okian/viva/internal/domain/segment"
	"github.com/okian/viva/internal/domain/summary"
	"github.com/okian/viva/pkg/logger"
	"github.com/okian/viva/pkg/metrics"
)

// Default job configuration constants.
const (
	defaultJobBufferSize = 256
	defaultJobTimeout    = 10 * time.Minute

	rawScale   = 10.0
	totalScale = 100.0
)

// Upload is one document received from the transport.
type Upload = model.Upload

// Service implements the API dependencies for the assessment system.
type Service struct {
	mu sync.RWMutex

	// Core components
	extractor extract.Extractor
	segmenter *segment.Segmenter
	splitter  *segment.Splitter
	aligner   *align.Aligner
	scorer    scoring.Scorer
	registry  *stream.Registry

	// Configuration
	markerLabel   string
	jobBufferSize int
	jobTimeout    time.Duration
	scorerOpts    []scoring.Option

	// State
	started    bool
	activeJobs atomic.Int64
	jobs       sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMarkerLabel sets the word that opens every item marker.
func WithMarkerLabel(label string) Option {
	return func(s *Service) {
		if label != "" {
			s.markerLabel = label
		}
	}
}

// WithJobBufferSize sets the per-job event buffer capacity.
func WithJobBufferSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.jobBufferSize = size
		}
	}
}

// WithJobTimeout caps how long one assessment job may run.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.jobTimeout = d
		}
	}
}

// WithExtractor sets a custom document extractor.
func WithExtractor(e extract.Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extractor = e
		}
	}
}

// WithScorer sets a custom scorer.
func WithScorer(sc scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithScorerOptions sets the options used to build the default scorer.
// Ignored when WithScorer supplies one.
func WithScorerOptions(opts ...scoring.Option) Option {
	return func(s *Service) {
		s.scorerOpts = opts
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		markerLabel:   "Question",
		jobBufferSize: defaultJobBufferSize,
		jobTimeout:    defaultJobTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting assessment service...")

	if s.extractor == nil {
		s.extractor = extract.New(extract.WithLogger(s.logger.Named("extract")))
	}
	if s.scorer == nil {
		s.scorer = scoring.NewLLMScorer(append(
			[]scoring.Option{scoring.WithLogger(s.logger.Named("scoring"))},
			s.scorerOpts...)...)
	}
	s.segmenter = segment.NewSegmenter(segment.WithMarkerLabel(s.markerLabel))
	s.splitter = segment.NewSplitter()
	s.aligner = align.New(align.WithLogger(s.logger.Named("align")))
	s.registry = stream.NewRegistry(stream.WithBufferSize(s.jobBufferSize))

	s.started = true
	s.logger.Info(ctx, "assessment service started",
		logger.String("markerLabel", s.markerLabel),
		logger.Int("jobBufferSize", s.jobBufferSize),
	)

	return nil
}

// Stop waits for running jobs to finish publishing.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	s.logger.Info(context.Background(), "stopping assessment service...")
	s.jobs.Wait()
	s.logger.Info(context.Background(), "assessment service stopped")
}

// CreateAssessment extracts both uploads, registers a job and starts
// grading in the background. Extraction failures surface here so the
// caller can reject the request; everything after the returned job id
// is reported through the job's event stream.
func (s *Service) CreateAssessment(ctx context.Context, submission, answerKey Upload) (string, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return "", ErrNotStarted
	}

	var subDoc, keyDoc model.Document
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := s.extractor.Extract(gctx, submission.Name, submission.Data)
		if err != nil {
			return fmt.Errorf("submission: %w", err)
		}
		metrics.RecordDocumentExtracted("submission")
		subDoc = doc
		return nil
	})
	g.Go(func() error {
		doc, err := s.extractor.Extract(gctx, answerKey.Name, answerKey.Data)
		if err != nil {
			return fmt.Errorf("answer key: %w", err)
		}
		metrics.RecordDocumentExtracted("answer_key")
		keyDoc = doc
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	jobID := uuid.NewString()
	s.registry.GetOrCreate(jobID)

	metrics.RecordJobStarted()
	metrics.UpdateActiveJobs(int(s.activeJobs.Add(1)))

	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		defer func() {
			metrics.UpdateActiveJobs(int(s.activeJobs.Add(-1)))
		}()
		jobCtx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		s.runJob(jobCtx, jobID, subDoc, keyDoc)
	}()

	s.logger.Info(ctx, "assessment job accepted",
		logger.String("jobID", jobID),
		logger.Int("submissionPages", subDoc.Pages),
		logger.Int("answerKeyPages", keyDoc.Pages),
	)

	return jobID, nil
}

// Stream returns the event channel for a job.
func (s *Service) Stream(jobID string) (<-chan stream.Event, bool) {
	ch, ok := s.registry.Lookup(jobID)
	if !ok {
		return nil, false
	}
	return ch.Events(), true
}

// Release drops a finished job's channel once a subscriber drained it.
func (s *Service) Release(jobID string) {
	if ch, ok := s.registry.Lookup(jobID); ok && ch.Finished() {
		s.registry.Remove(jobID)
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":       s.started,
		"markerLabel":   s.markerLabel,
		"jobBufferSize": s.jobBufferSize,
		"activeJobs":    s.activeJobs.Load(),
		"trackedJobs":   s.registry.Len(),
	}
}

// runJob drives one assessment from segmentation to the terminal done
// event. Whatever happens, the stream always ends with done.
func (s *Service) runJob(ctx context.Context, jobID string, subDoc, keyDoc model.Document) {
	ch, _ := s.registry.Lookup(jobID)

	defer ch.Finish()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "assessment job panicked",
				logger.String("jobID", jobID),
				logger.Any("panic", r),
			)
			metrics.RecordErrorByComponent("service", "panic")
			s.failJob(ctx, ch, jobID, "assessment failed unexpectedly")
		}
	}()

	studentName := segment.ExtractName(subDoc.Text)

	subBlocks := segment.SortNumeric(s.segmenter.Segment(subDoc.Text))
	keyBlocks := segment.SortNumeric(s.segmenter.Segment(keyDoc.Text))
	metrics.RecordItemsSegmented(len(subBlocks))

	// Zero aligned items is a valid job: it skips straight to the
	// empty-state summary instead of failing.
	aligned := s.aligner.Align(ctx, s.splitBlocks(subBlocks), s.splitBlocks(keyBlocks), studentName)

	results := s.scoreInOrder(ctx, jobID, ch, aligned)

	ch.Publish(model.Event{
		Type:    model.EventSummary,
		JobID:   jobID,
		Payload: summary.Build(results),
	})
	ch.Publish(doneEvent(jobID))

	metrics.RecordJobCompleted()
	s.logger.Info(ctx, "assessment job completed",
		logger.String("jobID", jobID),
		logger.Int("items", len(results)),
	)
}

// scoreInOrder grades every aligned item concurrently but publishes the
// results strictly in item order: result i is awaited before i+1 is
// even looked at, so a slow early item holds back later ones.
func (s *Service) scoreInOrder(ctx context.Context, jobID string, ch *stream.Channel, aligned []model.AlignedItem) []model.NormalizedResult {
	if len(aligned) == 0 {
		return nil
	}
	perShare := totalScale / float64(len(aligned))

	outcomes := make([]chan scoring.Outcome, len(aligned))
	for i := range aligned {
		outcomes[i] = make(chan scoring.Outcome, 1)
		go func(i int, item model.AlignedItem) {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error(ctx, "scorer panicked",
						logger.String("jobID", jobID),
						logger.String("itemID", item.ItemID),
						logger.Any("panic", r),
					)
					metrics.RecordErrorByComponent("scoring", "panic")
					outcomes[i] <- scoring.Degrade(item.ItemID, fmt.Errorf("scorer panic: %v", r))
				}
			}()
			outcomes[i] <- s.scorer.Score(ctx, scoring.Input{
				ItemID:          item.ItemID,
				Prompt:          item.Prompt,
				StudentResponse: item.StudentResponse,
				KeyResponse:     item.KeyResponse,
			})
		}(i, aligned[i])
	}

	results := make([]model.NormalizedResult, 0, len(aligned))
	for i, item := range aligned {
		out := <-outcomes[i]
		normalized := model.NormalizedResult{
			ScoreResult:     out.Result,
			NormalizedScore: round2(out.Result.RawScore / rawScale * perShare),
			Prompt:          item.Prompt,
			StudentResponse: item.StudentResponse,
			KeyResponse:     item.KeyResponse,
			StudentName:     item.StudentName,
		}
		results = append(results, normalized)
		ch.Publish(model.Event{
			Type:    model.EventProgress,
			JobID:   jobID,
			Payload: normalized,
		})
	}
	return results
}

// failJob reports a job-level failure on the stream. The done event
// still follows so subscribers never wait on a dead stream.
func (s *Service) failJob(ctx context.Context, ch *stream.Channel, jobID, message string) {
	s.logger.Warn(ctx, "assessment job failed",
		logger.String("jobID", jobID),
		logger.String("reason", message),
	)
	metrics.RecordJobErrored()
	ch.Publish(model.Event{
		Type:    model.EventError,
		JobID:   jobID,
		Payload: model.ErrorPayload{Message: message},
	})
	ch.Publish(doneEvent(jobID))
}

func (s *Service) splitBlocks(blocks []model.ItemBlock) []align.Side {
	sides := make([]align.Side, 0, len(blocks))
	for _, b := range blocks {
		split := s.splitter.Split(b.RawText)
		sides = append(sides, align.Side{
			ItemID:   b.ItemID,
			Prompt:   split.Prompt,
			Response: split.Response,
		})
	}
	return sides
}

func doneEvent(jobID string) model.Event {
	return model.Event{
		Type:    model.EventDone,
		JobID:   jobID,
		Payload: model.DonePayload{Message: "completed"},
	}
}

func round2(v float64) float64 {
	return math.Round(v*totalScale) / totalScale
}
