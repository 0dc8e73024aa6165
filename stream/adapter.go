// SPDX-License-Identifier: EPL-2.0

package stream

// blockAdapter serves output requests of any size from whole blocks of a
// fixed size. When the hardware asks for exactly one block per callback it
// adds no latency.
type blockAdapter struct {
	block   []float32
	pos     int
	produce func(block []float32)
}

func newBlockAdapter(samples int, produce func(block []float32)) *blockAdapter {
	return &blockAdapter{
		block:   make([]float32, samples),
		pos:     samples,
		produce: produce,
	}
}

// fill copies samples into dst, producing a new block whenever the current
// one is used up.
func (a *blockAdapter) fill(dst []float32) {
	for len(dst) > 0 {
		if a.pos == len(a.block) {
			a.produce(a.block)
			a.pos = 0
		}
		n := copy(dst, a.block[a.pos:])
		a.pos += n
		dst = dst[n:]
	}
}

// reset drops any partially consumed block.
func (a *blockAdapter) reset() {
	a.pos = len(a.block)
}
