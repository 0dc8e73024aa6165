// SPDX-License-Identifier: EPL-2.0

package sketches

import (
	"errors"
	"fmt"

	"github.com/ik5/ldsp/ctrl"
	"github.com/ik5/ldsp/render"
)

// Passthrough copies input channel ch modulo the input count to output
// channel ch. With GainSlider set, the gain follows that slider.
type Passthrough struct {
	Gain float32
	// GainSlider is a slider index, or -1 for the fixed Gain.
	GainSlider int
}

func newPassthrough(p Params, _ Env) (render.Sketch, error) {
	gain, err1 := p.Float("gain", 1)
	slider, err2 := p.Int("gain_slider", -1)
	if err := errors.Join(err1, err2); err != nil {
		return nil, err
	}
	if slider >= ctrl.NumSliders {
		return nil, fmt.Errorf("param gain_slider: %d out of range", slider)
	}
	return &Passthrough{Gain: gain, GainSlider: slider}, nil
}

func (p *Passthrough) Setup(*render.Context) bool { return true }

func (p *Passthrough) Render(ctx *render.Context) {
	in := int(ctx.AudioInChannels)
	if in == 0 {
		return
	}
	gain := p.Gain
	if p.GainSlider >= 0 {
		gain = ctx.Sliders[p.GainSlider]
	}
	out := int(ctx.AudioOutChannels)
	for n := range int(ctx.AudioFrames) {
		for ch := range out {
			ctx.AudioOut[n*out+ch] = gain * ctx.AudioIn[n*in+ch%in]
		}
	}
}

func (p *Passthrough) Cleanup(*render.Context) {}
