// SPDX-License-Identifier: EPL-2.0

// Package stream opens one or two hardware audio streams and turns their
// callbacks into a single fixed-size render call.
//
// # Backends
//
// Hardware access goes through the [Backend] and [Stream] interfaces. A
// backend opens a stream for a [Request] and delivers audio through a
// [DataFunc] on its own callback thread. The values a stream reports after
// opening are what the hardware actually granted, which may differ from the
// request.
//
// # Full duplex
//
// With Config.HasInput set, the [Coordinator] opens the output stream first
// and then an input stream matched to the output's negotiated frames per
// callback, buffer capacity and buffer size. The two callbacks still run on
// independent threads. Captured frames go into a lock-free single-producer
// single-consumer ring; the output callback takes exactly one block of input
// from the ring for each block it renders:
//
//	input thread  --> ring --\
//	                          +--> render(in, out, frames) --> output
//	output thread -----------/
//
// Until the ring first holds one block plus the configured cushion the output
// plays silence. After that a short ring is zero padded (an underrun) and an
// overlong backlog is trimmed so latency stays bounded.
//
// # Output only
//
// Without input, render receives a silent buffer of one block that is cleared
// before every call.
//
// Neither path takes a lock or allocates once the streams are running.
package stream
