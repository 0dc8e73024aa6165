// SPDX-License-Identifier: EPL-2.0

package sample

import "fmt"

// Remixer converts a Source to another channel count.
//
// Down to mono every input channel is averaged. From mono the single
// channel is copied to every output. Otherwise output channel c takes
// input channel c modulo the input count.
type Remixer struct {
	src      Source
	channels int
	tmp      []float32
}

// NewRemixer returns a Remixer producing channels interleaved channels.
func NewRemixer(src Source, channels int) *Remixer {
	return &Remixer{src: src, channels: channels}
}

func (m *Remixer) SampleRate() int { return m.src.SampleRate() }
func (m *Remixer) Channels() int   { return m.channels }

func (m *Remixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("sample: close remixer source: %w", err)
	}
	return nil
}

func (m *Remixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	inCh := m.src.Channels()
	if inCh == m.channels {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.channels
	need := frames * inCh
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	got := n / inCh
	switch {
	case m.channels == 1:
		inv := 1 / float32(inCh)
		for f := range got {
			var sum float32
			for _, v := range m.tmp[f*inCh : (f+1)*inCh] {
				sum += v
			}
			dst[f] = sum * inv
		}
	case inCh == 1:
		for f := range got {
			v := m.tmp[f]
			for c := range m.channels {
				dst[f*m.channels+c] = v
			}
		}
	default:
		for f := range got {
			for c := range m.channels {
				dst[f*m.channels+c] = m.tmp[f*inCh+c%inCh]
			}
		}
	}
	return got * m.channels, err
}
