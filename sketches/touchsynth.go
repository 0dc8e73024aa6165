// SPDX-License-Identifier: EPL-2.0

package sketches

import (
	"errors"
	"math"

	"github.com/ik5/ldsp/ctrl"
	"github.com/ik5/ldsp/render"
)

// TouchSynth runs one sine voice per touch slot. The horizontal position
// maps exponentially to LowHz..HighHz across the screen width and the
// pressure sets the level. Levels glide to avoid clicks.
type TouchSynth struct {
	LowHz  float32
	HighHz float32
	Level  float32

	voices [ctrl.MaxSlots]voice
	// glide is the per-sample smoothing coefficient.
	glide float32
}

type voice struct {
	osc   phasor
	level float32
}

func newTouchSynth(p Params, _ Env) (render.Sketch, error) {
	low, err1 := p.Float("low", 110)
	high, err2 := p.Float("high", 880)
	level, err3 := p.Float("level", 0.2)
	if err := errors.Join(err1, err2, err3); err != nil {
		return nil, err
	}
	if low <= 0 || high <= low {
		return nil, errors.New("params low and high must satisfy 0 < low < high")
	}
	return &TouchSynth{LowHz: low, HighHz: high, Level: level}, nil
}

func (t *TouchSynth) Setup(ctx *render.Context) bool {
	t.voices = [ctrl.MaxSlots]voice{}
	// About 5 ms to settle.
	t.glide = 1 - float32(math.Exp(-1/(0.005*float64(ctx.AudioSampleRate))))
	return true
}

// target returns the frequency and level slot asks for.
func (t *TouchSynth) target(ctx *render.Context, slot int) (float32, float32) {
	if !ctx.TouchActive(slot) {
		return 0, 0
	}
	width := ctx.MultiTouch.ScreenResolution[0]
	x := float32(ctx.CtrlInput(ctrl.ChnMtX, slot))
	pos := min(max(x/width, 0), 1)
	freq := t.LowHz * float32(math.Pow(float64(t.HighHz/t.LowHz), float64(pos)))

	level := t.Level
	if p := ctx.CtrlInput(ctrl.ChnMtPressure, slot); p > 0 {
		level *= min(float32(p)/ctrl.PressureScale, 1)
	}
	return freq, level
}

func (t *TouchSynth) Render(ctx *render.Context) {
	slots := min(ctx.MultiTouch.TouchSlots, ctrl.MaxSlots)
	out := int(ctx.AudioOutChannels)
	frames := int(ctx.AudioFrames)

	for slot := range slots {
		v := &t.voices[slot]
		freq, level := t.target(ctx, slot)
		if freq > 0 {
			v.osc.setFreq(freq, ctx.AudioSampleRate)
		}
		if level == 0 && v.level < 1e-5 {
			v.level = 0
			continue
		}
		for n := range frames {
			v.level += t.glide * (level - v.level)
			s := v.level * v.osc.next()
			for ch := range out {
				ctx.AudioOut[n*out+ch] += s
			}
		}
	}
}

func (t *TouchSynth) Cleanup(*render.Context) {}
