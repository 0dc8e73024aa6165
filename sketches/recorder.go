// SPDX-License-Identifier: EPL-2.0

package sketches

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ik5/ldsp/render"
	"github.com/ik5/ldsp/sample"
)

// Recorder captures input into memory and writes it to File as a 16-bit
// WAV on cleanup. Capture stops when Seconds of audio are held.
type Recorder struct {
	File    string
	Seconds float32
	Monitor bool

	log *slog.Logger

	data     []float32
	n        int
	channels int
	rate     int
}

func newRecorder(p Params, env Env) (render.Sketch, error) {
	file := p.String("file", "")
	if file == "" {
		return nil, fmt.Errorf("%w: file", ErrMissingParam)
	}
	secs, err1 := p.Float("seconds", 10)
	mon, err2 := p.Bool("monitor", false)
	if err := errors.Join(err1, err2); err != nil {
		return nil, err
	}
	if secs <= 0 {
		return nil, fmt.Errorf("param seconds: must be positive, got %v", secs)
	}
	return &Recorder{
		File:    file,
		Seconds: secs,
		Monitor: mon,
		log:     env.logger().With("component", "sketch", "sketch", "recorder"),
	}, nil
}

func (r *Recorder) Setup(ctx *render.Context) bool {
	if ctx.AudioInChannels == 0 {
		r.log.Error("recorder needs an input stream")
		return false
	}
	r.channels = int(ctx.AudioInChannels)
	r.rate = int(ctx.AudioSampleRate)
	r.data = make([]float32, int(r.Seconds*ctx.AudioSampleRate)*r.channels)
	r.n = 0
	return true
}

func (r *Recorder) Render(ctx *render.Context) {
	r.n += copy(r.data[r.n:], ctx.AudioIn)

	if !r.Monitor {
		return
	}
	out := int(ctx.AudioOutChannels)
	for n := range int(ctx.AudioFrames) {
		for ch := range out {
			ctx.AudioOut[n*out+ch] = ctx.AudioIn[n*r.channels+ch%r.channels]
		}
	}
}

func (r *Recorder) Cleanup(*render.Context) {
	if err := r.save(); err != nil {
		r.log.Error("save recording failed", "file", r.File, "err", err)
		return
	}
	r.log.Info("recording saved", "file", r.File, "frames", r.n/r.channels)
}

// Recorded returns the captured samples.
func (r *Recorder) Recorded() []float32 {
	return r.data[:r.n]
}

func (r *Recorder) save() error {
	f, err := os.Create(r.File)
	if err != nil {
		return err
	}
	if err := sample.WriteWAV(f, r.rate, r.channels, r.data[:r.n]); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
