// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/ik5/ldsp/ctrl"
	"github.com/ik5/ldsp/observe"
	"github.com/ik5/ldsp/render"
	"github.com/ik5/ldsp/stream"
)

// Options configures an Engine. Backend and Sketch are required.
type Options struct {
	Backend stream.Backend
	Sketch  render.Sketch
	Stream  stream.Config
	// ProjectName is passed to the sketch through the context.
	ProjectName string
	// TouchInfo describes the touch surface. A zero TouchSlots selects
	// ctrl.DefaultMultiTouchInfo.
	TouchInfo ctrl.MultiTouchInfo
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Metrics defaults to observe.DefaultMetrics().
	Metrics *observe.Metrics
}

// Engine owns the streams, the control inputs and the render context of one
// sketch.
type Engine struct {
	sketch  render.Sketch
	project string
	log     *slog.Logger
	metrics *observe.Metrics
	reg     metric.Registration

	coord   *stream.Coordinator
	inputs  *ctrl.Inputs
	sliders ctrl.Sliders
	ctx     render.Context

	id      string
	runID   string
	state   atomic.Int32
	setupOK bool
	closed  bool

	lastNs atomic.Int64
	maxNs  atomic.Int64
}

// New builds an idle engine. Nothing is opened until Start.
func New(opts Options) (*Engine, error) {
	if opts.Backend == nil {
		return nil, ErrNoBackend
	}
	if opts.Sketch == nil {
		return nil, ErrNoSketch
	}
	if err := opts.Stream.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = observe.DefaultMetrics()
	}
	if opts.TouchInfo.TouchSlots == 0 {
		opts.TouchInfo = ctrl.DefaultMultiTouchInfo()
	}

	e := &Engine{
		sketch:  opts.Sketch,
		project: opts.ProjectName,
		metrics: opts.Metrics,
		inputs:  ctrl.NewInputs(opts.TouchInfo),
		id:      uuid.NewString(),
	}
	e.log = opts.Logger.With("component", "engine", "engine", e.id)
	e.coord = stream.NewCoordinator(opts.Backend, opts.Stream, opts.Logger)

	reg, err := e.metrics.ObserveEngine(e.id, e)
	if err != nil {
		return nil, fmt.Errorf("engine: register metrics: %w", err)
	}
	e.reg = reg
	return e, nil
}

// ID identifies the engine in logs and metrics.
func (e *Engine) ID() string { return e.id }

// RunID identifies the current or last start.
func (e *Engine) RunID() string { return e.runID }

// State returns the lifecycle state. Safe from any goroutine.
func (e *Engine) State() State { return State(e.state.Load()) }

// IsRunning reports whether the hardware is delivering callbacks. Safe from
// any goroutine.
func (e *Engine) IsRunning() bool { return e.State() == StateRunning }

// Inputs returns the touch and button aggregator fed to the sketch.
func (e *Engine) Inputs() *ctrl.Inputs { return e.inputs }

// Sliders returns the slider cells fed to the sketch.
func (e *Engine) Sliders() *ctrl.Sliders { return &e.sliders }

// Negotiated returns the stream values of the last successful open.
func (e *Engine) Negotiated() stream.Negotiated { return e.coord.Negotiated() }

// Start opens the streams, runs Setup and starts the hardware. Starting a
// running engine does nothing. On failure the engine is left Idle with
// nothing open.
func (e *Engine) Start() error {
	if e.closed {
		return ErrClosed
	}
	if e.IsRunning() {
		return nil
	}

	ctx := context.Background()
	e.runID = uuid.NewString()
	log := e.log.With("run", e.runID)

	neg, err := e.coord.Open(e.renderBlock)
	if err != nil {
		log.Error("open streams", "err", err)
		e.recordStreamErrors(ctx, err)
		e.metrics.RecordStart(ctx, "error")
		return err
	}
	e.state.Store(int32(StateInitialized))
	e.prepareContext(neg)

	if !e.sketch.Setup(&e.ctx) {
		log.Error("sketch setup returned false")
		e.metrics.RecordSetupFailure(ctx)
		e.metrics.RecordStart(ctx, "setup_failed")
		if err := e.coord.Stop(); err != nil {
			log.Error("close streams after setup failure", "err", err)
			e.recordStreamErrors(ctx, err)
		}
		e.reset()
		return ErrSetupFailed
	}
	e.setupOK = true

	if err := e.coord.Start(); err != nil {
		log.Error("start streams", "err", err)
		e.recordStreamErrors(ctx, err)
		e.metrics.RecordStart(ctx, "error")
		if stopErr := e.teardown(); stopErr != nil {
			log.Error("close streams after start failure", "err", stopErr)
			e.recordStreamErrors(ctx, stopErr)
		}
		return err
	}

	e.state.Store(int32(StateRunning))
	e.metrics.RecordStart(ctx, "ok")
	e.metrics.RecordRunning(ctx, 1)
	log.Info("engine started",
		"sample_rate", neg.SampleRate,
		"frames", neg.FramesPerBlock,
		"in_channels", neg.InputChannels,
		"out_channels", neg.OutputChannels,
	)
	return nil
}

// Stop halts and closes the streams and runs Cleanup. Stream failures are
// returned joined, but teardown always completes. Stopping an idle engine
// does nothing.
func (e *Engine) Stop() error {
	if e.State() == StateIdle {
		return nil
	}
	wasRunning := e.IsRunning()
	ctx := context.Background()

	err := e.teardown()
	if err != nil {
		e.log.Error("stop streams", "run", e.runID, "err", err)
		e.recordStreamErrors(ctx, err)
	}
	if wasRunning {
		status := "ok"
		if err != nil {
			status = "error"
		}
		e.metrics.RecordStop(ctx, status)
		e.metrics.RecordRunning(ctx, -1)
	}
	e.log.Info("engine stopped", "run", e.runID)
	return err
}

// Close stops the engine and unregisters its metrics. Later Starts fail with
// ErrClosed.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	err := e.Stop()
	e.closed = true
	if regErr := e.reg.Unregister(); regErr != nil {
		err = errors.Join(err, regErr)
	}
	return err
}

// teardown closes the streams and runs Cleanup when the sketch was set up on
// fully opened streams.
func (e *Engine) teardown() error {
	fully := e.coord.FullyOpened()
	err := e.coord.Stop()
	if fully && e.setupOK {
		e.sketch.Cleanup(&e.ctx)
	}
	e.reset()
	return err
}

func (e *Engine) reset() {
	e.setupOK = false
	e.ctx.AudioIn = nil
	e.ctx.AudioOut = nil
	e.state.Store(int32(StateIdle))
}

func (e *Engine) prepareContext(neg stream.Negotiated) {
	e.sliders.Snapshot(&e.ctx.Sliders)
	e.inputs.UpdateBuffer()

	rate := float32(neg.SampleRate)
	e.ctx = render.Context{
		AudioFrames:       uint32(neg.FramesPerBlock),
		AudioInChannels:   uint32(neg.InputChannels),
		AudioOutChannels:  uint32(neg.OutputChannels),
		AudioSampleRate:   rate,
		ControlSampleRate: rate / float32(neg.FramesPerBlock),
		Sliders:           e.ctx.Sliders,
		CtrlInputs:        e.inputs.Buffer(),
		MultiTouch:        e.inputs.Info(),
		ProjectName:       e.project,
	}
}

// renderBlock runs on the output callback thread.
func (e *Engine) renderBlock(in, out []float32, frames int) {
	start := time.Now()

	e.sliders.Snapshot(&e.ctx.Sliders)
	e.inputs.UpdateBuffer()
	e.ctx.MultiTouch = e.inputs.Info()
	e.ctx.AudioIn = in
	e.ctx.AudioOut = out
	e.ctx.AudioFrames = uint32(frames)

	e.sketch.Render(&e.ctx)

	d := time.Since(start).Nanoseconds()
	e.lastNs.Store(d)
	if d > e.maxNs.Load() {
		e.maxNs.Store(d)
	}
}

// EngineStats implements observe.StatsSource.
func (e *Engine) EngineStats() observe.EngineStats {
	st := e.coord.Stats()
	return observe.EngineStats{
		Blocks:          st.Blocks,
		PrimingBlocks:   st.PrimingBlocks,
		Underruns:       st.Underruns,
		Overflows:       st.Overflows,
		DiscardedFrames: st.DiscardedFrames,
		LastRenderNs:    e.lastNs.Load(),
		MaxRenderNs:     e.maxNs.Load(),
	}
}

func (e *Engine) recordStreamErrors(ctx context.Context, err error) {
	for _, se := range streamErrors(err) {
		e.metrics.RecordStreamError(ctx, se.Op, se.Direction.String())
	}
}
