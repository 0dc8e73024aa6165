// SPDX-License-Identifier: EPL-2.0

package ctrl

import "sync/atomic"

// InactiveID marks a touch slot with no contact.
const InactiveID = -1

// touchSlot is the state of one finger. Each field is updated on its own.
type touchSlot struct {
	id          atomic.Int32
	x           AtomicFloat32
	y           AtomicFloat32
	pressure    AtomicFloat32
	majAxis     AtomicFloat32
	minAxis     AtomicFloat32
	orientation AtomicFloat32
	hoverX      AtomicFloat32
	hoverY      AtomicFloat32
	majWidth    AtomicFloat32
	minWidth    AtomicFloat32
}

// Touch is the per-slot touch data passed to UpdateTouch.
type Touch struct {
	ID          int
	X, Y        float32
	Pressure    float32
	MajAxis     float32
	MinAxis     float32
	Orientation float32
	MajWidth    float32
	MinWidth    float32
}

// TouchHandler tracks MaxSlots touch slots. All slots start inactive.
type TouchHandler struct {
	anyTouch atomic.Int32
	slots    [MaxSlots]touchSlot
}

// NewTouchHandler returns a handler with every slot inactive.
func NewTouchHandler() *TouchHandler {
	th := &TouchHandler{}
	for i := range th.slots {
		th.slots[i].id.Store(InactiveID)
	}
	return th
}

func validSlot(slot int) bool {
	return slot >= 0 && slot < MaxSlots
}

// UpdateAnyTouch publishes the any-touch flag.
func (th *TouchHandler) UpdateAnyTouch(state int) {
	th.anyTouch.Store(int32(state))
}

// UpdateTouch stores every field of t into slot. Out-of-range slots are
// silently ignored.
func (th *TouchHandler) UpdateTouch(slot int, t Touch) {
	if !validSlot(slot) {
		return
	}
	s := &th.slots[slot]
	s.id.Store(int32(t.ID))
	s.x.Store(t.X)
	s.y.Store(t.Y)
	s.pressure.Store(t.Pressure)
	s.majAxis.Store(t.MajAxis)
	s.minAxis.Store(t.MinAxis)
	s.orientation.Store(t.Orientation)
	s.majWidth.Store(t.MajWidth)
	s.minWidth.Store(t.MinWidth)
}

// UpdateHover stores the hover position of slot.
func (th *TouchHandler) UpdateHover(slot int, x, y float32) {
	if !validSlot(slot) {
		return
	}
	th.slots[slot].hoverX.Store(x)
	th.slots[slot].hoverY.Store(y)
}

// ClearTouch marks slot inactive. The other fields keep their last values.
func (th *TouchHandler) ClearTouch(slot int) {
	if !validSlot(slot) {
		return
	}
	th.slots[slot].id.Store(InactiveID)
}

// Populate writes the any-touch flag and the first slots touch slots into
// buf, following the control-input layout. buf must be at least
// BufferLen(slots) long. Button cells are left untouched.
func (th *TouchHandler) Populate(buf []int32, slots int) {
	slots = min(slots, MaxSlots)
	buf[anyTouchOffset] = th.anyTouch.Load()

	base := anyTouchOffset + 1
	for slot := range slots {
		s := &th.slots[slot]
		buf[base+(ChnMtX-1)*slots+slot] = int32(s.x.Load())
		buf[base+(ChnMtY-1)*slots+slot] = int32(s.y.Load())
		buf[base+(ChnMtMajAxis-1)*slots+slot] = int32(s.majAxis.Load())
		buf[base+(ChnMtMinAxis-1)*slots+slot] = int32(s.minAxis.Load())
		buf[base+(ChnMtOrientation-1)*slots+slot] = int32(s.orientation.Load())
		buf[base+(ChnMtHoverX-1)*slots+slot] = int32(s.hoverX.Load())
		buf[base+(ChnMtHoverY-1)*slots+slot] = int32(s.hoverY.Load())
		buf[base+(ChnMtMajWidth-1)*slots+slot] = int32(s.majWidth.Load())
		buf[base+(ChnMtMinWidth-1)*slots+slot] = int32(s.minWidth.Load())
		buf[base+(ChnMtPressure-1)*slots+slot] = int32(s.pressure.Load() * PressureScale)
		buf[base+(ChnMtID-1)*slots+slot] = s.id.Load()
	}
}
