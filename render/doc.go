// SPDX-License-Identifier: EPL-2.0

// Package render defines the per-block contract between the engine and
// user render code.
//
// A [Sketch] gets three hooks. Setup runs once after the streams are open.
// Render runs once per audio block on the audio thread. Cleanup runs once on
// stop. Every hook receives the same *[Context].
//
// # Buffers
//
// AudioIn and AudioOut are interleaved by channel and hold AudioFrames
// frames. They are only valid for the duration of one Render call; a sketch
// must not retain them. Use [Context.AudioRead] and [Context.AudioWrite] for
// per-sample access:
//
//	func (s *mySketch) Render(ctx *render.Context) {
//	    for n := range int(ctx.AudioFrames) {
//	        in := ctx.AudioRead(n, 0)
//	        for ch := range int(ctx.AudioOutChannels) {
//	            ctx.AudioWrite(n, ch, in*ctx.Sliders[0])
//	        }
//	    }
//	}
//
// In output-only mode AudioInChannels is 0 and AudioRead always returns 0.
package render
