// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/ik5/ldsp/backend/headless"
	"github.com/ik5/ldsp/backend/malgo"
	"github.com/ik5/ldsp/backend/oto"
	"github.com/ik5/ldsp/config"
	"github.com/ik5/ldsp/stream"
)

// headlessTone is the input the headless backend captures, in Hz.
const headlessTone = 220

// newBackend builds the configured backend and the function releasing it.
func newBackend(cfg *config.Config, logger *slog.Logger) (stream.Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMalgo:
		b, err := malgo.New(malgo.Options{
			PlaybackDevice: cfg.Audio.PlaybackDevice,
			CaptureDevice:  cfg.Audio.CaptureDevice,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	case config.BackendOto:
		return oto.New(logger), noop, nil
	case config.BackendHeadless:
		rate := cfg.Audio.SampleRate
		if rate <= 0 {
			rate = headless.DefaultSampleRate
		}
		return headless.New(headless.Options{
			SampleRate: rate,
			Generator:  toneGenerator(headlessTone, rate),
		}, logger), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// toneGenerator returns a headless input generator producing a quiet sine
// on every channel.
func toneGenerator(freq float64, rate int) func(buf []float32, frames, channels int) {
	var phase float64
	inc := 2 * math.Pi * freq / float64(rate)
	return func(buf []float32, frames, channels int) {
		for n := range frames {
			v := float32(0.1 * math.Sin(phase))
			phase = math.Mod(phase+inc, 2*math.Pi)
			for ch := range channels {
				buf[n*channels+ch] = v
			}
		}
	}
}
