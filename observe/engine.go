// SPDX-License-Identifier: EPL-2.0

package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EngineStats are the render-path figures of one engine.
type EngineStats struct {
	Blocks          uint64
	PrimingBlocks   uint64
	Underruns       uint64
	Overflows       uint64
	DiscardedFrames uint64
	// LastRenderNs and MaxRenderNs time the sketch's render hook.
	LastRenderNs int64
	MaxRenderNs  int64
}

// StatsSource is implemented by the engine. EngineStats is called from the
// metrics collection goroutine and must be safe against the audio thread.
type StatsSource interface {
	EngineStats() EngineStats
}

// ObserveEngine reports src through the observable instruments, tagged with
// engine=id. Unregister the returned registration when the engine goes away.
func (m *Metrics) ObserveEngine(id string, src StatsSource) (metric.Registration, error) {
	attrs := metric.WithAttributeSet(attribute.NewSet(attribute.String("engine", id)))

	return m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := src.EngineStats()
		o.ObserveInt64(m.renderBlocks, int64(s.Blocks), attrs)
		o.ObserveInt64(m.underruns, int64(s.Underruns), attrs)
		o.ObserveInt64(m.overflows, int64(s.Overflows), attrs)
		o.ObserveInt64(m.discardedFrames, int64(s.DiscardedFrames), attrs)
		o.ObserveInt64(m.primingBlocks, int64(s.PrimingBlocks), attrs)
		o.ObserveInt64(m.lastDuration, s.LastRenderNs, attrs)
		o.ObserveInt64(m.maxDuration, s.MaxRenderNs, attrs)
		return nil
	},
		m.renderBlocks,
		m.underruns,
		m.overflows,
		m.discardedFrames,
		m.primingBlocks,
		m.lastDuration,
		m.maxDuration,
	)
}
