// SPDX-License-Identifier: EPL-2.0

// Package ctrl holds the control inputs that the UI thread publishes to the
// audio thread: four sliders, multi-touch slots, button states and the any-touch
// flag.
//
// # Threading
//
// Every published value is an independent atomic cell. Writers (the UI thread)
// only store, readers (the audio thread) only load. There is no ordering across
// cells: a render block can observe the new x of a touch together with the old
// y. This is fine for control-rate data and keeps both sides lock-free.
//
// # Control-input buffer
//
// Once per audio block the audio thread calls [Inputs.UpdateBuffer], which
// flattens the touch and button state into a []int32 with the layout
//
//	[buttons (ChnBtnCount)][anyTouch][x × slots][y × slots]...[id × slots]
//
// Use [Index] to locate a (channel, slot) pair:
//
//	x := buf[ctrl.Index(ctrl.ChnMtX, slot, info.TouchSlots)]
//
// Float touch fields are truncated to integers; pressure is scaled by 1000
// first. An id of -1 marks an inactive slot and the other fields of that slot
// are stale.
package ctrl
