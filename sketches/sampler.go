// SPDX-License-Identifier: EPL-2.0

package sketches

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ik5/ldsp/files"
	"github.com/ik5/ldsp/render"
	"github.com/ik5/ldsp/sample"
)

// Sampler plays a preloaded asset. A new contact on touch slot 0 restarts
// playback from the beginning.
type Sampler struct {
	File     string
	Gain     float32
	Loop     bool
	Autoplay bool

	loader *files.Loader
	log    *slog.Logger

	buf      *sample.Buffer
	pos      int
	playing  bool
	wasTouch bool
}

func newSampler(p Params, env Env) (render.Sketch, error) {
	file := p.String("file", "")
	if file == "" {
		return nil, fmt.Errorf("%w: file", ErrMissingParam)
	}
	gain, err1 := p.Float("gain", 1)
	loop, err2 := p.Bool("loop", true)
	auto, err3 := p.Bool("autoplay", true)
	if err := errors.Join(err1, err2, err3); err != nil {
		return nil, err
	}
	loader := env.Loader
	if loader == nil {
		loader = &files.Loader{Logger: env.Logger}
	}
	return &Sampler{
		File:     file,
		Gain:     gain,
		Loop:     loop,
		Autoplay: auto,
		loader:   loader,
		log:      env.logger().With("component", "sketch", "sketch", "sampler"),
	}, nil
}

func (s *Sampler) Setup(ctx *render.Context) bool {
	buf, err := sample.LoadFile(s.loader, s.File, int(ctx.AudioSampleRate), int(ctx.AudioOutChannels))
	if err != nil {
		s.log.Error("load sample failed", "file", s.File, "err", err)
		return false
	}
	s.log.Info("sample loaded", "file", s.File, "frames", buf.Frames(), "rate", buf.SampleRate)
	s.buf = buf
	s.pos = 0
	s.playing = s.Autoplay
	s.wasTouch = false
	return true
}

func (s *Sampler) Render(ctx *render.Context) {
	touch := ctx.TouchActive(0)
	if touch && !s.wasTouch {
		s.pos = 0
		s.playing = true
	}
	s.wasTouch = touch

	frames := s.buf.Frames()
	if !s.playing || frames == 0 {
		return
	}
	out := int(ctx.AudioOutChannels)
	for n := range int(ctx.AudioFrames) {
		if s.pos >= frames {
			if !s.Loop {
				s.playing = false
				return
			}
			s.pos = 0
		}
		src := s.buf.Data[s.pos*out : (s.pos+1)*out]
		for ch, v := range src {
			ctx.AudioOut[n*out+ch] = s.Gain * v
		}
		s.pos++
	}
}

func (s *Sampler) Cleanup(*render.Context) {
	s.buf = nil
}
