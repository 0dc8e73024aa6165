// SPDX-License-Identifier: EPL-2.0

package render

import "github.com/ik5/ldsp/ctrl"

// Context is the state handed to every hook. The engine refreshes it before
// each Render call; fields are read-only for the sketch except AudioOut.
type Context struct {
	// AudioIn holds AudioFrames × AudioInChannels interleaved samples.
	AudioIn []float32
	// AudioOut holds AudioFrames × AudioOutChannels interleaved samples.
	AudioOut []float32

	AudioFrames      uint32
	AudioInChannels  uint32
	AudioOutChannels uint32
	AudioSampleRate  float32

	// ControlSampleRate is the rate at which Sliders and CtrlInputs refresh:
	// once per block.
	ControlSampleRate float32

	Sliders [ctrl.NumSliders]float32

	// CtrlInputs is the control-input buffer, see package ctrl for the layout.
	CtrlInputs []int32
	MultiTouch ctrl.MultiTouchInfo

	ProjectName string
}

// AudioRead returns input sample frame of channel, or 0 when either is out of
// range.
func (c *Context) AudioRead(frame, channel int) float32 {
	if channel < 0 || channel >= int(c.AudioInChannels) {
		return 0
	}
	i := frame*int(c.AudioInChannels) + channel
	if frame < 0 || i >= len(c.AudioIn) {
		return 0
	}
	return c.AudioIn[i]
}

// AudioWrite stores v into output sample frame of channel. Out-of-range
// writes are dropped.
func (c *Context) AudioWrite(frame, channel int, v float32) {
	if channel < 0 || channel >= int(c.AudioOutChannels) {
		return
	}
	i := frame*int(c.AudioOutChannels) + channel
	if frame < 0 || i >= len(c.AudioOut) {
		return
	}
	c.AudioOut[i] = v
}

// CtrlInput returns the published value of a multi-touch channel for slot.
func (c *Context) CtrlInput(channel, slot int) int32 {
	i := ctrl.Index(channel, slot, c.MultiTouch.TouchSlots)
	if i < 0 || i >= len(c.CtrlInputs) {
		return 0
	}
	return c.CtrlInputs[i]
}

// Button returns the published state of a button channel.
func (c *Context) Button(button int) int32 {
	i := ctrl.ButtonIndex(button)
	if i < 0 || i >= ctrl.ChnBtnCount || i >= len(c.CtrlInputs) {
		return 0
	}
	return c.CtrlInputs[i]
}

// TouchActive reports whether slot currently holds a contact.
func (c *Context) TouchActive(slot int) bool {
	if slot < 0 || slot >= c.MultiTouch.TouchSlots {
		return false
	}
	return c.CtrlInput(ctrl.ChnMtID, slot) != ctrl.InactiveID
}
