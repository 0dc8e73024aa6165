// SPDX-License-Identifier: EPL-2.0

package ldsp_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/ldsp"
	"github.com/ik5/ldsp/backend/headless"
	"github.com/ik5/ldsp/ctrl"
	"github.com/ik5/ldsp/engine"
	"github.com/ik5/ldsp/internal/audiotest"
	"github.com/ik5/ldsp/observe"
	"github.com/ik5/ldsp/render"
	"github.com/ik5/ldsp/stream"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// probe records what the sketch saw on the last block.
type probe struct {
	setupOK  bool
	renders  atomic.Int64
	cleanups atomic.Int64
	last     render.Context
	touch    []int32
}

func (p *probe) Setup(*render.Context) bool { return p.setupOK }

func (p *probe) Render(ctx *render.Context) {
	p.renders.Add(1)
	p.last = *ctx
	p.touch = append(p.touch[:0], ctx.CtrlInputs...)
}

func (p *probe) Cleanup(*render.Context) { p.cleanups.Add(1) }

func newInstance(t *testing.T, b stream.Backend, s render.Sketch) *ldsp.LDSP {
	t.Helper()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatal(err)
	}
	inst, err := ldsp.New(ldsp.Options{
		Backend:     b,
		Sketch:      s,
		Stream:      stream.DefaultConfig(),
		ProjectName: "facade",
		Logger:      quiet,
		Metrics:     m,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = inst.Close() })
	return inst
}

func block(b *audiotest.Backend) {
	b.Stream(stream.Input).Push(make([]float32, 384))
	b.Stream(stream.Output).Tick(384)
}

func TestLDSP_Scenario48k(t *testing.T) {
	t.Parallel()

	b := audiotest.NewBackend()
	p := &probe{setupOK: true}
	inst := newInstance(t, b, p)

	if inst.IsStarted() || inst.IsRunning() {
		t.Fatal("new instance reports started")
	}
	if err := inst.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !inst.IsStarted() || !inst.IsRunning() {
		t.Fatal("instance not running after Start")
	}

	for i := range 5 {
		block(b)
		c := p.last
		if c.AudioFrames != 384 || c.AudioSampleRate != 48000 || c.AudioInChannels != 1 || c.AudioOutChannels != 1 {
			t.Fatalf("block %d: frames=%d rate=%v in=%d out=%d", i, c.AudioFrames, c.AudioSampleRate, c.AudioInChannels, c.AudioOutChannels)
		}
		if len(c.AudioIn) != len(c.AudioOut) {
			t.Fatalf("block %d: in %d samples, out %d", i, len(c.AudioIn), len(c.AudioOut))
		}
	}
	if got := p.renders.Load(); got != 5 {
		t.Errorf("renders = %d, want 5", got)
	}
	if neg := inst.Negotiated(); !neg.FullDuplex || neg.FramesPerBlock != 384 {
		t.Errorf("Negotiated() = %+v", neg)
	}
	if st := inst.Stats(); st.Blocks != 5 {
		t.Errorf("Stats().Blocks = %d, want 5", st.Blocks)
	}

	if err := inst.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if inst.IsStarted() || inst.IsRunning() {
		t.Error("instance running after Stop")
	}
	if p.cleanups.Load() != 1 {
		t.Errorf("cleanups = %d, want 1", p.cleanups.Load())
	}
}

func TestLDSP_SliderRoundTrip(t *testing.T) {
	t.Parallel()

	b := audiotest.NewBackend()
	p := &probe{setupOK: true}
	inst := newInstance(t, b, p)
	if err := inst.Start(); err != nil {
		t.Fatal(err)
	}

	inst.SetSlider0(0.1)
	inst.SetSlider1(0.2)
	inst.SetSlider2(0.3)
	inst.SetSlider3(0.4)
	inst.SetSlider(7, 1)
	block(b)

	// Each slider must land in its own slot; 1 and 2 must not be swapped.
	if want := [ctrl.NumSliders]float32{0.1, 0.2, 0.3, 0.4}; p.last.Sliders != want {
		t.Errorf("Sliders = %v, want %v", p.last.Sliders, want)
	}
	if inst.Slider(2) != 0.3 {
		t.Errorf("Slider(2) = %v", inst.Slider(2))
	}
}

func TestLDSP_TouchScenario(t *testing.T) {
	t.Parallel()

	b := audiotest.NewBackend()
	p := &probe{setupOK: true}
	inst := newInstance(t, b, p)
	if err := inst.Start(); err != nil {
		t.Fatal(err)
	}

	inst.UpdateTouch(2, 5, 10, 20, 0.1, 1, 1, 0, 1, 1)
	inst.ClearTouch(2)
	inst.UpdateTouch(2, 7, 300, 400, 0.5, 30, 20, 2, 12, 8)
	inst.UpdateHover(2, 301, 401)
	inst.UpdateAnyTouch(1)
	inst.SetButton(ldsp.ButtonVolUp, true)
	inst.SetScreenResolution(1080, 2400)
	inst.UpdateTouch(ctrl.MaxSlots, 9, 1, 1, 1, 1, 1, 1, 1, 1)
	block(b)

	slots := ctrl.MaxSlots
	at := func(ch int) int32 { return p.touch[ctrl.Index(ch, 2, slots)] }
	checks := []struct {
		name string
		ch   int
		want int32
	}{
		{"id", ctrl.ChnMtID, 7},
		{"x", ctrl.ChnMtX, 300},
		{"y", ctrl.ChnMtY, 400},
		{"pressure", ctrl.ChnMtPressure, 500},
		{"majAxis", ctrl.ChnMtMajAxis, 30},
		{"minAxis", ctrl.ChnMtMinAxis, 20},
		{"orientation", ctrl.ChnMtOrientation, 2},
		{"majWidth", ctrl.ChnMtMajWidth, 12},
		{"minWidth", ctrl.ChnMtMinWidth, 8},
		{"hoverX", ctrl.ChnMtHoverX, 301},
		{"hoverY", ctrl.ChnMtHoverY, 401},
	}
	for _, c := range checks {
		if got := at(c.ch); got != c.want {
			t.Errorf("%s = %d, want %d", c.name, got, c.want)
		}
	}
	if got := p.touch[ctrl.Index(ctrl.ChnMtAnyTouch, 0, slots)]; got != 1 {
		t.Errorf("anyTouch = %d, want 1", got)
	}
	if got := p.touch[ctrl.ButtonIndex(ldsp.ButtonVolUp)]; got != 1 {
		t.Errorf("volUp = %d, want 1", got)
	}
	if got := p.last.MultiTouch.ScreenResolution; got != [2]float32{1080, 2400} {
		t.Errorf("ScreenResolution = %v", got)
	}
}

func TestLDSP_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	b := audiotest.NewBackend()
	p := &probe{setupOK: true}
	inst := newInstance(t, b, p)

	for range 3 {
		if err := inst.Stop(); err != nil {
			t.Fatalf("Stop() error = %v", err)
		}
		if inst.IsRunning() || inst.IsStarted() {
			t.Fatal("running after Stop")
		}
	}
	if p.cleanups.Load() != 0 {
		t.Errorf("cleanups = %d, want 0", p.cleanups.Load())
	}
}

func TestLDSP_SetupFailure(t *testing.T) {
	t.Parallel()

	b := audiotest.NewBackend()
	inst := newInstance(t, b, &probe{setupOK: false})

	if err := inst.Start(); !errors.Is(err, engine.ErrSetupFailed) {
		t.Fatalf("Start() error = %v, want ErrSetupFailed", err)
	}
	if inst.IsStarted() || inst.IsRunning() {
		t.Error("started after setup failure")
	}
}

func TestLDSP_Closed(t *testing.T) {
	t.Parallel()

	b := audiotest.NewBackend()
	p := &probe{setupOK: true}
	inst := newInstance(t, b, p)
	if err := inst.Start(); err != nil {
		t.Fatal(err)
	}
	if err := inst.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if p.cleanups.Load() != 1 {
		t.Errorf("cleanups = %d, want 1", p.cleanups.Load())
	}
	if err := inst.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := inst.Start(); !errors.Is(err, engine.ErrClosed) {
		t.Errorf("Start() after Close error = %v, want ErrClosed", err)
	}
	if err := inst.Stop(); err != nil {
		t.Errorf("Stop() after Close error = %v", err)
	}
	inst.SetSlider0(1)
	inst.UpdateTouch(0, 1, 1, 1, 1, 1, 1, 1, 1, 1)
	inst.ClearTouch(0)
	if inst.IsRunning() || inst.IsStarted() || inst.Slider(0) != 0 {
		t.Error("closed instance changed state")
	}
}

func TestLDSP_ConcurrentStartStop(t *testing.T) {
	t.Parallel()

	p := &probe{setupOK: true}
	b := headless.New(headless.Options{OutputBurst: 96, InputBurst: 48}, quiet)
	inst := newInstance(t, b, p)

	var g errgroup.Group
	for i := range 16 {
		g.Go(func() error {
			if i%2 == 0 {
				return inst.Start()
			}
			return inst.Stop()
		})
		g.Go(func() error {
			inst.SetSlider(i%ctrl.NumSliders, float32(i))
			inst.UpdateTouch(i%ctrl.MaxSlots, i, 1, 2, 0.5, 1, 1, 0, 1, 1)
			_ = inst.IsRunning()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Start/Stop error = %v", err)
	}

	// The last call to win the lock decides the state.
	if inst.IsStarted() != inst.IsRunning() {
		t.Errorf("IsStarted() = %v but IsRunning() = %v", inst.IsStarted(), inst.IsRunning())
	}
	if err := inst.Stop(); err != nil {
		t.Fatal(err)
	}
	if inst.IsRunning() {
		t.Error("running after final Stop")
	}
}
