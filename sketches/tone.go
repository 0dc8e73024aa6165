// SPDX-License-Identifier: EPL-2.0

package sketches

import (
	"errors"

	"github.com/ik5/ldsp/render"
)

// Sine plays a constant tone.
type Sine struct {
	Frequency float32
	Amplitude float32

	osc phasor
}

func newSine(p Params, _ Env) (render.Sketch, error) {
	freq, err1 := p.Float("frequency", 440)
	amp, err2 := p.Float("amplitude", 0.2)
	if err := errors.Join(err1, err2); err != nil {
		return nil, err
	}
	return &Sine{Frequency: freq, Amplitude: amp}, nil
}

func (s *Sine) Setup(ctx *render.Context) bool {
	s.osc = phasor{}
	s.osc.setFreq(s.Frequency, ctx.AudioSampleRate)
	return true
}

func (s *Sine) Render(ctx *render.Context) {
	ch := int(ctx.AudioOutChannels)
	for n := range int(ctx.AudioFrames) {
		writeAll(ctx.AudioOut, ch, n, s.Amplitude*s.osc.next())
	}
}

func (s *Sine) Cleanup(*render.Context) {}

// RingMod multiplies a carrier by a low-frequency oscillator.
type RingMod struct {
	Carrier   float32
	LFO       float32
	Amplitude float32

	car, lfo phasor
}

func newRingMod(p Params, _ Env) (render.Sketch, error) {
	car, err1 := p.Float("carrier", 230)
	lfo, err2 := p.Float("lfo", 1)
	amp, err3 := p.Float("amplitude", 0.2)
	if err := errors.Join(err1, err2, err3); err != nil {
		return nil, err
	}
	return &RingMod{Carrier: car, LFO: lfo, Amplitude: amp}, nil
}

func (r *RingMod) Setup(ctx *render.Context) bool {
	r.car, r.lfo = phasor{}, phasor{}
	r.car.setFreq(r.Carrier, ctx.AudioSampleRate)
	r.lfo.setFreq(r.LFO, ctx.AudioSampleRate)
	return true
}

func (r *RingMod) Render(ctx *render.Context) {
	ch := int(ctx.AudioOutChannels)
	for n := range int(ctx.AudioFrames) {
		writeAll(ctx.AudioOut, ch, n, r.Amplitude*r.car.next()*r.lfo.next())
	}
}

func (r *RingMod) Cleanup(*render.Context) {}
