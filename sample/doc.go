// SPDX-License-Identifier: EPL-2.0

// Package sample decodes audio assets into memory for sketches.
//
// Sketches cannot decode files on the audio thread, so assets are read
// through a [files.Loader], decoded by a format [Decoder], converted to the
// engine's sample rate by a [Resampler] and to its channel count by a
// [Remixer], and finally preloaded into a [Buffer] during setup.
//
// Supported formats:
//
//   - WAV, 8/16/24/32-bit PCM (github.com/go-audio/wav)
//   - AIFF, 8/16/24/32-bit PCM (github.com/go-audio/aiff)
//   - MP3 (github.com/hajimehoshi/go-mp3)
//   - Ogg Vorbis (github.com/jfreymuth/oggvorbis)
//
// A typical setup hook:
//
//	buf, err := sample.LoadFile(loader, "drums/kick.wav", int(ctx.AudioSampleRate), int(ctx.AudioOutChannels))
//	if err != nil {
//		return false
//	}
//
// [WriteWAV] goes the other way and stores interleaved float samples as
// 16-bit PCM.
package sample
