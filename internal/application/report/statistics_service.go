package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/retailops/backoffice/internal/domain/report"
	"github.com/retailops/backoffice/internal/infrastructure/logger"
	"github.com/retailops/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// StatisticsState is a consistent snapshot of the dashboard statistics
type StatisticsState struct {
	// Filter is the most recently submitted filter
	Filter report.StatisticsFilter
	// Generation is the token of the most recently submitted pass
	Generation uint64
	// PublishedGeneration is the token of the pass that produced Result
	PublishedGeneration uint64
	// Result is nil until a pass has been published
	Result *report.ComputationResult
	// Records is the extract Result was computed from
	Records *report.RecordSet
	// Loading is true while the pass for Generation is in flight
	Loading bool
	// Err is set when the latest pass failed; Result then still holds the previous result
	Err          error
	ErrorMessage string
}

// StatisticsOption configures a StatisticsService
type StatisticsOption func(*StatisticsService)

// WithStatisticsMetrics records pass outcomes on m
func WithStatisticsMetrics(m *telemetry.StatisticsMetrics) StatisticsOption {
	return func(s *StatisticsService) {
		s.metrics = m
	}
}

// WithPassTimeout bounds every pass; zero disables the bound
func WithPassTimeout(d time.Duration) StatisticsOption {
	return func(s *StatisticsService) {
		s.passTimeout = d
	}
}

// WithClock overrides the clock used for ComputedAt and durations
func WithClock(now func() time.Time) StatisticsOption {
	return func(s *StatisticsService) {
		s.now = now
	}
}

// StatisticsService computes transaction statistics and owns the published dashboard state.
//
// Every Submit bumps a generation token and cancels the pass it supersedes.
// A pass publishes only if its token is still the latest when it completes,
// so a slow earlier pass can never overwrite the result of a later filter.
type StatisticsService struct {
	fetcher     *RecordFetcher
	logger      *zap.Logger
	metrics     *telemetry.StatisticsMetrics
	passTimeout time.Duration
	now         func() time.Time

	mu           sync.RWMutex
	generation   uint64
	filter       report.StatisticsFilter
	published    *report.Computation
	publishedGen uint64
	loading      bool
	lastErr      error
	cancelPass   context.CancelFunc
}

// NewStatisticsService creates a new StatisticsService
func NewStatisticsService(reader report.AnalyticsReader, zapLogger *zap.Logger, opts ...StatisticsOption) *StatisticsService {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	s := &StatisticsService{
		fetcher: NewRecordFetcher(reader, zapLogger),
		logger:  zapLogger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate runs one pass for filter and returns its result without publishing it
func (s *StatisticsService) Calculate(ctx context.Context, filter report.StatisticsFilter) (*report.Computation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "statistics", "calculate",
		telemetry.WithAttribute(telemetry.SpanAttrPassMode, string(telemetry.PassModeCalculate)),
	)
	defer span.End()

	if s.passTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.passTimeout)
		defer cancel()
	}

	comp, err := s.compute(ctx, filter, telemetry.PassModeCalculate)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordFailed(ctx, telemetry.PassModeCalculate)
		return nil, err
	}
	return comp, nil
}

// pass is one submitted computation. result and err are written once,
// before done is closed.
type pass struct {
	gen    uint64
	done   chan struct{}
	result *report.ComputationResult
	err    error
}

// Submit starts a pass for filter, superseding any pass still in flight.
// It returns the pass generation and a channel closed once the pass has
// either published, failed or been discarded. The pass outlives ctx's
// cancellation but keeps its values.
func (s *StatisticsService) Submit(ctx context.Context, filter report.StatisticsFilter) (uint64, <-chan struct{}) {
	p := s.start(ctx, filter)
	return p.gen, p.done
}

// SubmitAndWait submits filter and blocks until its pass settles or ctx ends.
// It returns report.ErrPassSuperseded when a newer filter won the race.
func (s *StatisticsService) SubmitAndWait(ctx context.Context, filter report.StatisticsFilter) (*report.ComputationResult, uint64, error) {
	p := s.start(ctx, filter)

	select {
	case <-p.done:
		return p.result, p.gen, p.err
	case <-ctx.Done():
		return nil, p.gen, ctx.Err()
	}
}

func (s *StatisticsService) start(ctx context.Context, filter report.StatisticsFilter) *pass {
	passCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if s.passTimeout > 0 {
		var cancelTimeout context.CancelFunc
		passCtx, cancelTimeout = context.WithTimeout(passCtx, s.passTimeout)
		parentCancel := cancel
		cancel = func() {
			cancelTimeout()
			parentCancel()
		}
	}

	s.mu.Lock()
	if s.cancelPass != nil {
		s.cancelPass()
	}
	s.generation++
	p := &pass{gen: s.generation, done: make(chan struct{})}
	s.filter = filter
	s.loading = true
	s.cancelPass = cancel
	s.mu.Unlock()

	go func() {
		defer close(p.done)
		defer cancel()
		p.result, p.err = s.runPass(passCtx, p.gen, filter)
	}()

	return p
}

// State returns the current dashboard snapshot. The result is a deep copy.
func (s *StatisticsService) State() StatisticsState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := StatisticsState{
		Filter:              s.filter,
		Generation:          s.generation,
		PublishedGeneration: s.publishedGen,
		Loading:             s.loading,
		Err:                 s.lastErr,
	}
	if s.published != nil {
		state.Result = s.published.Result.Clone()
		state.Records = s.published.Records
	}
	if s.lastErr != nil {
		state.ErrorMessage = report.ErrComputationFailed.Message
	}
	return state
}

// runPass computes filter and publishes the result if gen is still current.
// It returns the pass's own outcome, independent of later submissions.
func (s *StatisticsService) runPass(ctx context.Context, gen uint64, filter report.StatisticsFilter) (*report.ComputationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "statistics", "submit",
		telemetry.WithAttribute(telemetry.SpanAttrGeneration, gen),
		telemetry.WithAttribute(telemetry.SpanAttrPassMode, string(telemetry.PassModeSubmit)),
	)
	defer span.End()

	comp, err := s.compute(ctx, filter, telemetry.PassModeSubmit)
	log := logger.WithLogger(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		log.Debug("Statistics pass discarded",
			zap.Uint64("generation", gen),
			zap.Uint64("current_generation", s.generation),
		)
		telemetry.AddEvent(span, "pass_discarded", telemetry.SpanAttrGeneration, s.generation)
		s.metrics.RecordDiscarded(ctx)
		return nil, report.ErrPassSuperseded
	}

	s.loading = false
	s.cancelPass = nil

	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordFailed(ctx, telemetry.PassModeSubmit)
		s.lastErr = err
		return nil, err
	}

	s.published = comp
	s.publishedGen = gen
	s.lastErr = nil
	s.metrics.RecordPublished(ctx)

	log.Info("Statistics pass published",
		zap.Uint64("generation", gen),
		zap.String("resolved_location_id", comp.Result.ResolvedLocationID),
		zap.Int("sales", comp.Result.SalesCount),
		zap.Int("sale_items", comp.Result.SaleItemCount),
		zap.Int("laybys", comp.Result.LaybyCount),
	)
	return comp.Result.Clone(), nil
}

// compute fetches records and aggregates them. Read failures are wrapped in
// report.ErrComputationFailed so callers can match the generic signal.
func (s *StatisticsService) compute(ctx context.Context, filter report.StatisticsFilter, mode telemetry.PassMode) (*report.Computation, error) {
	start := s.now()
	log := logger.WithLogger(ctx, s.logger)
	s.metrics.RecordStarted(ctx, mode)
	log.Debug("Statistics pass started",
		zap.String("mode", string(mode)),
		zap.Time("date_from", filter.DateFrom),
		zap.Time("date_to", filter.DateTo),
		zap.String("location_filter", filter.LocationFilter),
	)

	records, err := s.fetcher.Fetch(ctx, filter)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Error("Statistics pass failed",
				zap.String("mode", string(mode)),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("%w: %w", report.ErrComputationFailed, err)
	}

	result := report.AssembleResult(filter, records, s.now())
	s.metrics.RecordCompleted(ctx, mode, s.now().Sub(start))

	return &report.Computation{Result: result, Records: records}, nil
}
