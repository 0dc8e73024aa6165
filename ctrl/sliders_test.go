// SPDX-License-Identifier: EPL-2.0

package ctrl

import (
	"math"
	"testing"
)

func TestAtomicFloat32(t *testing.T) {
	t.Parallel()

	var af AtomicFloat32
	if got := af.Load(); got != 0 {
		t.Errorf("zero value = %v, want 0", got)
	}

	for _, v := range []float32{1.5, -0.25, math.MaxFloat32, float32(math.Inf(-1))} {
		af.Store(v)
		if got := af.Load(); got != v {
			t.Errorf("Load() = %v, want %v", got, v)
		}
	}
}

// Each slider must land in its own context slot. An earlier implementation
// copied slider 1 into slot 2 and slider 2 into slot 1; this guards against
// that regression.
func TestSliders_ChannelIdentity(t *testing.T) {
	t.Parallel()

	var s Sliders
	values := [NumSliders]float32{0.1, 0.2, 0.3, 0.4}
	for n, v := range values {
		s.Set(n, v)
	}

	var got [NumSliders]float32
	s.Snapshot(&got)

	for n := range NumSliders {
		if got[n] != values[n] {
			t.Errorf("snapshot[%d] = %v, want %v (slider channels swapped?)", n, got[n], values[n])
		}
		if s.Get(n) != values[n] {
			t.Errorf("Get(%d) = %v, want %v", n, s.Get(n), values[n])
		}
	}
}

func TestSliders_OutOfRange(t *testing.T) {
	t.Parallel()

	var s Sliders
	s.Set(-1, 1)
	s.Set(NumSliders, 1)

	var got [NumSliders]float32
	s.Snapshot(&got)
	if got != [NumSliders]float32{} {
		t.Errorf("snapshot = %v, want all zero", got)
	}
	if s.Get(NumSliders) != 0 {
		t.Errorf("Get(out of range) = %v, want 0", s.Get(NumSliders))
	}
}

func TestSliders_SnapshotZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	var s Sliders
	var dst [NumSliders]float32
	allocs := testing.AllocsPerRun(1000, func() {
		s.Snapshot(&dst)
	})
	if allocs > 0 {
		t.Errorf("Snapshot allocated %v times, want 0", allocs)
	}
}
