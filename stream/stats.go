// SPDX-License-Identifier: EPL-2.0

package stream

import "sync/atomic"

// Stats are cumulative counters over the life of a Coordinator.
type Stats struct {
	// Blocks is the number of render calls.
	Blocks uint64
	// PrimingBlocks is the number of silent blocks played while waiting
	// for the first input.
	PrimingBlocks uint64
	// Underruns is the number of blocks rendered with zero-padded input.
	Underruns uint64
	// Overflows is the number of input callbacks the ring could not fully
	// hold.
	Overflows uint64
	// DiscardedFrames counts input frames dropped by overflow or backlog
	// trimming.
	DiscardedFrames uint64
}

type counters struct {
	blocks    atomic.Uint64
	priming   atomic.Uint64
	underruns atomic.Uint64
	overflows atomic.Uint64
	discarded atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Blocks:          c.blocks.Load(),
		PrimingBlocks:   c.priming.Load(),
		Underruns:       c.underruns.Load(),
		Overflows:       c.overflows.Load(),
		DiscardedFrames: c.discarded.Load(),
	}
}
