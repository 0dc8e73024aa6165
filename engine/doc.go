// SPDX-License-Identifier: EPL-2.0

// Package engine runs a sketch on a pair of audio streams.
//
// An [Engine] moves through Idle, Initialized and Running. Start opens the
// streams (Initialized), calls the sketch's Setup hook with the negotiated
// context and then starts the hardware (Running). Stop halts and closes the
// streams, calls Cleanup when Setup had succeeded on fully opened streams,
// and returns to Idle. The engine can be started again afterwards.
//
// Before every Render call the engine copies the sliders and refreshes the
// control-input buffer into the context. Neither step takes a lock or
// allocates.
//
// Start and Stop must not run concurrently; the ldsp package serialises them.
package engine
