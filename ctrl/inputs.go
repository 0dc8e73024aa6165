// SPDX-License-Identifier: EPL-2.0

package ctrl

import "sync/atomic"

// MultiTouchInfo describes the touch surface to render code.
type MultiTouchInfo struct {
	// TouchSlots is the number of slots laid out in the control-input buffer.
	TouchSlots int
	// TouchAxisMax normalises the major/minor axis channels.
	TouchAxisMax int
	// TouchWidthMax normalises the major/minor width channels.
	TouchWidthMax int
	// AnyTouchSupported reports whether the any-touch cell is driven.
	AnyTouchSupported bool
	// ScreenResolution is width, height in pixels.
	ScreenResolution [2]float32
}

// DefaultMultiTouchInfo returns the metadata used when none is configured.
func DefaultMultiTouchInfo() MultiTouchInfo {
	return MultiTouchInfo{
		TouchSlots:        MaxSlots,
		TouchAxisMax:      1000,
		TouchWidthMax:     100,
		AnyTouchSupported: true,
		ScreenResolution:  [2]float32{1920, 1080},
	}
}

// Inputs aggregates touch, button and screen state and publishes it once per
// audio block into a flat control-input buffer.
//
// The writer methods are safe to call from any goroutine. UpdateBuffer,
// Buffer and Info belong to the audio thread.
type Inputs struct {
	touch   *TouchHandler
	buttons [ChnBtnCount]atomic.Int32
	screenW AtomicFloat32
	screenH AtomicFloat32

	buf  []int32
	info MultiTouchInfo
}

// NewInputs allocates the control-input buffer for info.TouchSlots slots.
// A slot count outside 1..MaxSlots is clamped.
func NewInputs(info MultiTouchInfo) *Inputs {
	if info.TouchSlots <= 0 || info.TouchSlots > MaxSlots {
		info.TouchSlots = MaxSlots
	}
	in := &Inputs{
		touch: NewTouchHandler(),
		buf:   make([]int32, BufferLen(info.TouchSlots)),
		info:  info,
	}
	in.screenW.Store(info.ScreenResolution[0])
	in.screenH.Store(info.ScreenResolution[1])
	return in
}

// UpdateTouch forwards to the touch handler.
func (in *Inputs) UpdateTouch(slot int, t Touch) {
	in.touch.UpdateTouch(slot, t)
}

// UpdateHover forwards to the touch handler.
func (in *Inputs) UpdateHover(slot int, x, y float32) {
	in.touch.UpdateHover(slot, x, y)
}

// ClearTouch forwards to the touch handler.
func (in *Inputs) ClearTouch(slot int) {
	in.touch.ClearTouch(slot)
}

// UpdateAnyTouch forwards to the touch handler.
func (in *Inputs) UpdateAnyTouch(state int) {
	in.touch.UpdateAnyTouch(state)
}

// SetButton publishes the state of a button channel. Unknown buttons are
// ignored.
func (in *Inputs) SetButton(button int, pressed bool) {
	if button < 0 || button >= ChnBtnCount {
		return
	}
	var v int32
	if pressed {
		v = 1
	}
	in.buttons[button].Store(v)
}

// SetScreenResolution publishes the screen size. Render code sees it after the
// next UpdateBuffer.
func (in *Inputs) SetScreenResolution(width, height float32) {
	in.screenW.Store(width)
	in.screenH.Store(height)
}

// UpdateBuffer refreshes the published buffer and touch metadata. It is the
// only writer of both and must be called from the audio thread, once per block.
// It does not allocate.
func (in *Inputs) UpdateBuffer() {
	in.touch.Populate(in.buf, in.info.TouchSlots)
	for i := range in.buttons {
		in.buf[i] = in.buttons[i].Load()
	}
	in.info.ScreenResolution[0] = in.screenW.Load()
	in.info.ScreenResolution[1] = in.screenH.Load()
}

// Buffer returns the published control-input buffer. The slice is reused
// across blocks.
func (in *Inputs) Buffer() []int32 {
	return in.buf
}

// Info returns the published touch metadata.
func (in *Inputs) Info() MultiTouchInfo {
	return in.info
}
