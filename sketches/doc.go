// SPDX-License-Identifier: EPL-2.0

// Package sketches holds the built-in render sketches and a registry to
// build them by name.
//
//   - sine: a fixed sine tone on every output channel
//   - ringmod: a carrier multiplied by a slow LFO
//   - passthrough: input copied to output with a gain
//   - sampler: a preloaded asset played back, retriggered by touch
//   - recorder: input captured to memory and written as WAV on cleanup
//   - touchsynth: one sine voice per touch slot
//
// Sketches are configured with string Params, typically the params
// section of the configuration file.
package sketches
