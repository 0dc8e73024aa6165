// SPDX-License-Identifier: EPL-2.0

package ctrl

import (
	"math"
	"sync/atomic"
)

// AtomicFloat32 is a float32 cell with atomic load and store.
// The zero value holds 0.
type AtomicFloat32 struct {
	bits atomic.Uint32
}

// Load atomically loads the value.
func (af *AtomicFloat32) Load() float32 {
	return math.Float32frombits(af.bits.Load())
}

// Store atomically stores val.
func (af *AtomicFloat32) Store(val float32) {
	af.bits.Store(math.Float32bits(val))
}
