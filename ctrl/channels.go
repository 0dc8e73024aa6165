// SPDX-License-Identifier: EPL-2.0

package ctrl

// MaxSlots is the number of concurrent touch contacts tracked.
const MaxSlots = 10

// Button channels, at the start of the control-input buffer.
const (
	ChnBtnPower = iota
	ChnBtnVolUp
	ChnBtnVolDown
	ChnBtnCount
)

// Multi-touch channels. ChnMtAnyTouch occupies a single cell, every other
// channel occupies one cell per slot.
const (
	ChnMtAnyTouch = iota
	ChnMtX
	ChnMtY
	ChnMtMajAxis
	ChnMtMinAxis
	ChnMtOrientation
	ChnMtHoverX
	ChnMtHoverY
	ChnMtMajWidth
	ChnMtMinWidth
	ChnMtPressure
	ChnMtID
	ChnMtCount
)

// PressureScale converts the normalised touch pressure to the fixed-point
// value published in the buffer.
const PressureScale = 1000

// anyTouchOffset is the index of the any-touch cell.
const anyTouchOffset = ChnBtnCount

// BufferLen returns the length of a control-input buffer holding slots
// touch slots.
func BufferLen(slots int) int {
	return ChnBtnCount + 1 + (ChnMtCount-1)*slots
}

// Index returns the buffer position of channel for slot, for a buffer laid
// out with slots touch slots. Button channels and ChnMtAnyTouch ignore slot.
//
// channel is a multi-touch channel (ChnMt*); use ButtonIndex for buttons.
func Index(channel, slot, slots int) int {
	if channel == ChnMtAnyTouch {
		return anyTouchOffset
	}
	return anyTouchOffset + 1 + (channel-1)*slots + slot
}

// ButtonIndex returns the buffer position of a button channel.
func ButtonIndex(button int) int {
	return button
}
