// SPDX-License-Identifier: EPL-2.0

// Package observe records OpenTelemetry metrics for the engine.
//
// Control-path events (start, stop, setup failure, stream errors) are
// counted directly. Render-path figures are never recorded from the audio
// thread: the engine keeps them in atomic counters and [Metrics.ObserveEngine]
// registers observable instruments that read those counters at collection
// time.
//
// Tests should build their own [Metrics] with [NewMetrics] and an
// sdkmetric.ManualReader instead of using [DefaultMetrics].
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope of every ldsp instrument.
const meterName = "github.com/ik5/ldsp"

// Metrics holds the instruments. All fields are safe for concurrent use.
type Metrics struct {
	meter metric.Meter

	// EngineStarts counts start attempts. Use with attribute status.
	EngineStarts metric.Int64Counter
	// EngineStops counts stops of a running engine. Use with attribute status.
	EngineStops metric.Int64Counter
	// SetupFailures counts sketches whose setup hook returned false.
	SetupFailures metric.Int64Counter
	// StreamErrors counts stream failures. Use with attributes op and
	// direction.
	StreamErrors metric.Int64Counter
	// EnginesRunning is the number of running engines.
	EnginesRunning metric.Int64UpDownCounter

	renderBlocks    metric.Int64ObservableCounter
	underruns       metric.Int64ObservableCounter
	overflows       metric.Int64ObservableCounter
	discardedFrames metric.Int64ObservableCounter
	primingBlocks   metric.Int64ObservableCounter
	lastDuration    metric.Int64ObservableGauge
	maxDuration     metric.Int64ObservableGauge
}

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{meter: m}

	if met.EngineStarts, err = m.Int64Counter("ldsp.engine.starts",
		metric.WithDescription("Engine start attempts by status."),
	); err != nil {
		return nil, err
	}
	if met.EngineStops, err = m.Int64Counter("ldsp.engine.stops",
		metric.WithDescription("Engine stops by status."),
	); err != nil {
		return nil, err
	}
	if met.SetupFailures, err = m.Int64Counter("ldsp.engine.setup_failures",
		metric.WithDescription("Sketch setup hooks that returned false."),
	); err != nil {
		return nil, err
	}
	if met.StreamErrors, err = m.Int64Counter("ldsp.stream.errors",
		metric.WithDescription("Stream open, start and stop failures by op and direction."),
	); err != nil {
		return nil, err
	}
	if met.EnginesRunning, err = m.Int64UpDownCounter("ldsp.engine.running",
		metric.WithDescription("Number of running engines."),
	); err != nil {
		return nil, err
	}

	if met.renderBlocks, err = m.Int64ObservableCounter("ldsp.render.blocks",
		metric.WithDescription("Render calls."),
	); err != nil {
		return nil, err
	}
	if met.underruns, err = m.Int64ObservableCounter("ldsp.stream.underruns",
		metric.WithDescription("Blocks rendered with zero-padded input."),
	); err != nil {
		return nil, err
	}
	if met.overflows, err = m.Int64ObservableCounter("ldsp.stream.overflows",
		metric.WithDescription("Input callbacks the input ring could not fully hold."),
	); err != nil {
		return nil, err
	}
	if met.discardedFrames, err = m.Int64ObservableCounter("ldsp.stream.discarded_frames",
		metric.WithDescription("Input frames dropped by overflow or backlog trimming."),
	); err != nil {
		return nil, err
	}
	if met.primingBlocks, err = m.Int64ObservableCounter("ldsp.stream.priming_blocks",
		metric.WithDescription("Silent blocks played while waiting for the first input."),
	); err != nil {
		return nil, err
	}
	if met.lastDuration, err = m.Int64ObservableGauge("ldsp.render.last_duration",
		metric.WithDescription("Duration of the most recent render call."),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}
	if met.maxDuration, err = m.Int64ObservableGauge("ldsp.render.max_duration",
		metric.WithDescription("Longest render call since start."),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level Metrics built on
// otel.GetMeterProvider. It panics if instrument creation fails.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordStart counts a start attempt.
func (m *Metrics) RecordStart(ctx context.Context, status string) {
	m.EngineStarts.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordStop counts a stop of a running engine.
func (m *Metrics) RecordStop(ctx context.Context, status string) {
	m.EngineStops.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordSetupFailure counts a failed setup hook.
func (m *Metrics) RecordSetupFailure(ctx context.Context) {
	m.SetupFailures.Add(ctx, 1)
}

// RecordStreamError counts a stream failure.
func (m *Metrics) RecordStreamError(ctx context.Context, op, direction string) {
	m.StreamErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("direction", direction),
		),
	)
}

// RecordRunning adjusts the running-engines gauge by delta.
func (m *Metrics) RecordRunning(ctx context.Context, delta int64) {
	m.EnginesRunning.Add(ctx, delta)
}
