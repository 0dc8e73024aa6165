// SPDX-License-Identifier: EPL-2.0

package sketches_test

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ik5/ldsp/ctrl"
	"github.com/ik5/ldsp/files"
	"github.com/ik5/ldsp/render"
	"github.com/ik5/ldsp/sample"
	"github.com/ik5/ldsp/sketches"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type harness struct {
	ctx    *render.Context
	inputs *ctrl.Inputs
}

func newHarness(frames, in, out int, rate float32) *harness {
	inputs := ctrl.NewInputs(ctrl.DefaultMultiTouchInfo())
	inputs.UpdateBuffer()
	return &harness{
		inputs: inputs,
		ctx: &render.Context{
			AudioIn:          make([]float32, frames*in),
			AudioOut:         make([]float32, frames*out),
			AudioFrames:      uint32(frames),
			AudioInChannels:  uint32(in),
			AudioOutChannels: uint32(out),
			AudioSampleRate:  rate,
			CtrlInputs:       inputs.Buffer(),
			MultiTouch:       inputs.Info(),
		},
	}
}

// block publishes control input, clears the output and renders once.
func (h *harness) block(s render.Sketch) []float32 {
	h.inputs.UpdateBuffer()
	h.ctx.MultiTouch = h.inputs.Info()
	clear(h.ctx.AudioOut)
	s.Render(h.ctx)
	return h.ctx.AudioOut
}

func mustNew(t *testing.T, name string, p sketches.Params, env sketches.Env) render.Sketch {
	t.Helper()
	if env.Logger == nil {
		env.Logger = quiet
	}
	s, err := sketches.New(name, p, env)
	if err != nil {
		t.Fatalf("New(%q) error = %v", name, err)
	}
	return s
}

func TestNames(t *testing.T) {
	t.Parallel()

	want := []string{"passthrough", "recorder", "ringmod", "sampler", "sine", "touchsynth"}
	if got := sketches.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sketch string
		params sketches.Params
		want   error
	}{
		{"unknown", "theremin", nil, sketches.ErrUnknownSketch},
		{"sampler without file", "sampler", nil, sketches.ErrMissingParam},
		{"recorder without file", "recorder", nil, sketches.ErrMissingParam},
		{"bad float", "sine", sketches.Params{"frequency": "high"}, nil},
		{"bad slider", "passthrough", sketches.Params{"gain_slider": "4"}, nil},
		{"bad range", "touchsynth", sketches.Params{"low": "900", "high": "100"}, nil},
		{"bad seconds", "recorder", sketches.Params{"file": "x.wav", "seconds": "0"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := sketches.New(tt.sketch, tt.params, sketches.Env{Logger: quiet})
			if err == nil {
				t.Fatal("New() error = nil")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSine(t *testing.T) {
	t.Parallel()

	s := mustNew(t, "sine", nil, sketches.Env{})
	h := newHarness(64, 0, 2, 48000)
	if !s.Setup(h.ctx) {
		t.Fatal("Setup() = false")
	}

	var peak float32
	var mono []float32
	for range 20 {
		out := h.block(s)
		for n := range 64 {
			if out[2*n] != out[2*n+1] {
				t.Fatalf("channels differ at %d", n)
			}
			mono = append(mono, out[2*n])
			peak = max(peak, out[2*n])
		}
	}
	if mono[0] != 0 {
		t.Errorf("first sample = %v, want 0", mono[0])
	}
	if math.Abs(float64(peak-0.2)) > 1e-3 {
		t.Errorf("peak = %v, want 0.2", peak)
	}
	// Phase carries across blocks.
	for n := range mono {
		want := 0.2 * math.Sin(2*math.Pi*440*float64(n)/48000)
		if math.Abs(float64(mono[n])-want) > 1e-4 {
			t.Fatalf("sample %d = %v, want %v", n, mono[n], want)
		}
	}
}

func TestRingMod(t *testing.T) {
	t.Parallel()

	s := mustNew(t, "ringmod", sketches.Params{"lfo": "10"}, sketches.Env{})
	h := newHarness(480, 1, 1, 48000)
	s.Setup(h.ctx)
	for b := range 10 {
		out := h.block(s)
		for i, v := range out {
			n := float64(b*480 + i)
			want := 0.2 * math.Sin(2*math.Pi*230*n/48000) * math.Sin(2*math.Pi*10*n/48000)
			if math.Abs(float64(v)-want) > 1e-4 {
				t.Fatalf("sample %v = %v, want %v", n, v, want)
			}
		}
	}
}

func TestPassthrough(t *testing.T) {
	t.Parallel()

	t.Run("fixed gain", func(t *testing.T) {
		t.Parallel()
		s := mustNew(t, "passthrough", sketches.Params{"gain": "0.5"}, sketches.Env{})
		h := newHarness(2, 1, 2, 48000)
		copy(h.ctx.AudioIn, []float32{0.5, -1})
		s.Setup(h.ctx)
		if got, want := h.block(s), []float32{0.25, 0.25, -0.5, -0.5}; !slices.Equal(got, want) {
			t.Errorf("out = %v, want %v", got, want)
		}
	})

	t.Run("slider gain", func(t *testing.T) {
		t.Parallel()
		s := mustNew(t, "passthrough", sketches.Params{"gain_slider": "2"}, sketches.Env{})
		h := newHarness(1, 2, 2, 48000)
		copy(h.ctx.AudioIn, []float32{1, -1})
		h.ctx.Sliders[2] = 0.75
		s.Setup(h.ctx)
		if got, want := h.block(s), []float32{0.75, -0.75}; !slices.Equal(got, want) {
			t.Errorf("out = %v, want %v", got, want)
		}
	})

	t.Run("output only", func(t *testing.T) {
		t.Parallel()
		s := mustNew(t, "passthrough", nil, sketches.Env{})
		h := newHarness(4, 0, 1, 48000)
		s.Setup(h.ctx)
		if got := h.block(s); slices.ContainsFunc(got, func(v float32) bool { return v != 0 }) {
			t.Errorf("out = %v, want silence", got)
		}
	})
}

func writeAsset(t *testing.T, dir, name string, rate, channels int, data []float32) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := sample.WriteWAV(f, rate, channels, data); err != nil {
		t.Fatal(err)
	}
}

func TestSampler(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "hit.wav", 8000, 1, []float32{0.5, 0.25, -0.25})
	env := sketches.Env{Loader: files.NewLoader(dir, quiet)}

	t.Run("one shot and retrigger", func(t *testing.T) {
		t.Parallel()
		s := mustNew(t, "sampler", sketches.Params{"file": "hit.wav", "loop": "false"}, env)
		h := newHarness(2, 0, 1, 8000)
		if !s.Setup(h.ctx) {
			t.Fatal("Setup() = false")
		}
		got := slices.Clone(h.block(s))
		got = append(got, h.block(s)...)
		got = append(got, h.block(s)...)
		want := []float32{0.5, 0.25, -0.25, 0, 0, 0}
		for i := range want {
			if math.Abs(float64(got[i]-want[i])) > 1e-3 {
				t.Fatalf("out = %v, want %v", got, want)
			}
		}

		h.inputs.UpdateTouch(0, ctrl.Touch{ID: 3, X: 10, Y: 10})
		if out := h.block(s); math.Abs(float64(out[0]-0.5)) > 1e-3 {
			t.Errorf("after touch out = %v, want restart", out)
		}
	})

	t.Run("loop", func(t *testing.T) {
		t.Parallel()
		s := mustNew(t, "sampler", sketches.Params{"file": "hit.wav"}, env)
		h := newHarness(4, 0, 2, 8000)
		s.Setup(h.ctx)
		out := h.block(s)
		if math.Abs(float64(out[6]-0.5)) > 1e-3 || out[6] != out[7] {
			t.Errorf("out = %v, want wrap to first frame on both channels", out)
		}
	})

	t.Run("missing asset fails setup", func(t *testing.T) {
		t.Parallel()
		s := mustNew(t, "sampler", sketches.Params{"file": "nope.wav"}, env)
		if s.Setup(newHarness(4, 0, 1, 8000).ctx) {
			t.Error("Setup() = true for a missing asset")
		}
	})
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "take.wav")
	s := mustNew(t, "recorder", sketches.Params{"file": path, "seconds": "0.001", "monitor": "true"}, sketches.Env{})

	if s.Setup(newHarness(4, 0, 1, 8000).ctx) {
		t.Fatal("Setup() = true without input")
	}

	// 0.001 s at 8 kHz is 8 frames.
	h := newHarness(3, 1, 1, 8000)
	if !s.Setup(h.ctx) {
		t.Fatal("Setup() = false")
	}
	for b := range 4 {
		for i := range h.ctx.AudioIn {
			h.ctx.AudioIn[i] = float32(b*3+i) / 16
		}
		out := h.block(s)
		if !slices.Equal(out, h.ctx.AudioIn) {
			t.Fatalf("monitor out = %v, want %v", out, h.ctx.AudioIn)
		}
	}
	rec := s.(*sketches.Recorder).Recorded()
	if len(rec) != 8 {
		t.Fatalf("recorded %d samples, want 8", len(rec))
	}
	s.Cleanup(h.ctx)

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	src, err := sample.WavDecoder{}.Decode(f)
	if err != nil {
		t.Fatalf("decode recording: %v", err)
	}
	buf, err := sample.ReadAll(src)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Frames() != 8 || buf.SampleRate != 8000 {
		t.Fatalf("recording = %d frames at %d Hz", buf.Frames(), buf.SampleRate)
	}
	for i, v := range buf.Data {
		if math.Abs(float64(v)-float64(i)/16) > 1e-3 {
			t.Errorf("sample %d = %v, want %v", i, v, float64(i)/16)
		}
	}
}

func TestTouchSynth(t *testing.T) {
	t.Parallel()

	s := mustNew(t, "touchsynth", nil, sketches.Env{})
	h := newHarness(480, 0, 1, 48000)
	s.Setup(h.ctx)

	energy := func(out []float32) float64 {
		var e float64
		for _, v := range out {
			e += float64(v) * float64(v)
		}
		return e
	}

	if e := energy(h.block(s)); e != 0 {
		t.Fatalf("silent surface produced energy %v", e)
	}

	h.inputs.UpdateTouch(0, ctrl.Touch{ID: 1, X: 960, Y: 540, Pressure: 1})
	h.inputs.UpdateTouch(3, ctrl.Touch{ID: 2, X: 0, Y: 0, Pressure: 0.5})
	var peak float32
	for range 5 {
		for _, v := range h.block(s) {
			peak = max(peak, v)
		}
	}
	if peak <= 0.1 || peak > 0.3+1e-3 {
		t.Errorf("peak with two touches = %v", peak)
	}

	h.inputs.ClearTouch(0)
	h.inputs.ClearTouch(3)
	for range 20 {
		h.block(s)
	}
	if e := energy(h.block(s)); e > 1e-6 {
		t.Errorf("energy after release = %v, want ~0", e)
	}
}

func TestRender_NoAllocs(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "loop.wav", 48000, 1, make([]float32, 1000))
	env := sketches.Env{Loader: files.NewLoader(dir, quiet), Logger: quiet}

	for _, name := range []string{"sine", "ringmod", "passthrough", "sampler", "touchsynth"} {
		s := mustNew(t, name, sketches.Params{"file": "loop.wav"}, env)
		h := newHarness(256, 1, 2, 48000)
		h.inputs.UpdateTouch(0, ctrl.Touch{ID: 1, X: 100})
		if !s.Setup(h.ctx) {
			t.Fatalf("%s: Setup() = false", name)
		}
		allocs := testing.AllocsPerRun(50, func() { h.block(s) })
		if allocs != 0 {
			t.Errorf("%s: Render allocates %v times per block", name, allocs)
		}
	}
}
