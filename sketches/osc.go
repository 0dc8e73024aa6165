// SPDX-License-Identifier: EPL-2.0

package sketches

import "math"

const twoPi = 2 * math.Pi

// phasor is a sine oscillator with a wrapped phase.
type phasor struct {
	phase float64
	inc   float64
}

func (p *phasor) setFreq(freq, sampleRate float32) {
	if sampleRate <= 0 {
		p.inc = 0
		return
	}
	p.inc = twoPi * float64(freq) / float64(sampleRate)
}

func (p *phasor) next() float32 {
	v := float32(math.Sin(p.phase))
	p.phase += p.inc
	for p.phase > twoPi {
		p.phase -= twoPi
	}
	return v
}

// writeAll stores v into every output channel of frame n.
func writeAll(out []float32, channels, n int, v float32) {
	for ch := range channels {
		out[n*channels+ch] = v
	}
}
