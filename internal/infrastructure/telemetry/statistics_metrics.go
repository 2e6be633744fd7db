package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PassMode labels how a statistics pass was triggered
type PassMode string

const (
	// PassModeCalculate is a one-shot pass whose result is returned to the caller only
	PassModeCalculate PassMode = "calculate"
	// PassModeSubmit is a dashboard pass that may be published or superseded
	PassModeSubmit PassMode = "submit"
)

// AttrPassMode is the metric attribute carrying the PassMode
var AttrPassMode = attribute.Key("statistics.mode")

// PassDurationBuckets are bucket boundaries for pass duration (seconds)
var PassDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// StatisticsMetrics counts statistics passes by outcome.
// A nil *StatisticsMetrics records nothing.
type StatisticsMetrics struct {
	passStarted   *Counter
	passPublished *Counter
	passDiscarded *Counter
	passFailed    *Counter
	passDuration  *Histogram
}

// NewStatisticsMetrics creates the pass counters and duration histogram on meter
func NewStatisticsMetrics(meter metric.Meter) (*StatisticsMetrics, error) {
	if meter == nil {
		return nil, &MetricsError{Op: "NewStatisticsMetrics", Err: "meter cannot be nil"}
	}

	sm := &StatisticsMetrics{}
	var err error

	if sm.passStarted, err = NewCounter(meter,
		"statistics_pass_started_total",
		"Total number of statistics passes started",
		"{passes}",
	); err != nil {
		return nil, err
	}
	if sm.passPublished, err = NewCounter(meter,
		"statistics_pass_published_total",
		"Total number of statistics passes whose result was published",
		"{passes}",
	); err != nil {
		return nil, err
	}
	if sm.passDiscarded, err = NewCounter(meter,
		"statistics_pass_discarded_total",
		"Total number of statistics passes discarded because a newer filter superseded them",
		"{passes}",
	); err != nil {
		return nil, err
	}
	if sm.passFailed, err = NewCounter(meter,
		"statistics_pass_failed_total",
		"Total number of statistics passes aborted by a read failure",
		"{passes}",
	); err != nil {
		return nil, err
	}
	if sm.passDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "statistics_pass_duration_seconds",
		Description: "Duration of statistics fetch-and-aggregate passes",
		Unit:        "s",
		Boundaries:  PassDurationBuckets,
	}); err != nil {
		return nil, err
	}

	return sm, nil
}

// RecordStarted counts a pass that began fetching
func (sm *StatisticsMetrics) RecordStarted(ctx context.Context, mode PassMode) {
	if sm == nil {
		return
	}
	sm.passStarted.Inc(ctx, AttrPassMode.String(string(mode)))
}

// RecordCompleted records the duration of a pass that produced a result
func (sm *StatisticsMetrics) RecordCompleted(ctx context.Context, mode PassMode, d time.Duration) {
	if sm == nil {
		return
	}
	sm.passDuration.RecordDuration(ctx, d, AttrPassMode.String(string(mode)))
}

// RecordPublished counts a dashboard pass that became the published result
func (sm *StatisticsMetrics) RecordPublished(ctx context.Context) {
	if sm == nil {
		return
	}
	sm.passPublished.Inc(ctx)
}

// RecordDiscarded counts a dashboard pass that lost to a newer generation
func (sm *StatisticsMetrics) RecordDiscarded(ctx context.Context) {
	if sm == nil {
		return
	}
	sm.passDiscarded.Inc(ctx)
}

// RecordFailed counts a pass aborted by a read failure
func (sm *StatisticsMetrics) RecordFailed(ctx context.Context, mode PassMode) {
	if sm == nil {
		return
	}
	sm.passFailed.Inc(ctx, AttrPassMode.String(string(mode)))
}
