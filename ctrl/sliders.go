// SPDX-License-Identifier: EPL-2.0

package ctrl

// NumSliders is the number of slider channels.
const NumSliders = 4

// Sliders holds the slider channels. Set is called from the UI thread and
// Snapshot from the audio thread; the channels have no ordering relationship.
type Sliders struct {
	cells [NumSliders]AtomicFloat32
}

// Set stores v into slider n. Out-of-range n is ignored.
func (s *Sliders) Set(n int, v float32) {
	if n < 0 || n >= NumSliders {
		return
	}
	s.cells[n].Store(v)
}

// Get loads slider n, or 0 for an out-of-range n.
func (s *Sliders) Get(n int) float32 {
	if n < 0 || n >= NumSliders {
		return 0
	}
	return s.cells[n].Load()
}

// Snapshot copies every slider into dst, slider n into dst[n].
func (s *Sliders) Snapshot(dst *[NumSliders]float32) {
	for i := range s.cells {
		dst[i] = s.cells[i].Load()
	}
}
