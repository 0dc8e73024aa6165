// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavChunkFrames = 4096

// WriteWAV stores interleaved samples as a 16-bit PCM WAV file. Samples
// outside [-1, 1] are clamped.
func WriteWAV(w io.WriteSeeker, sampleRate, channels int, samples []float32) error {
	if channels <= 0 {
		return ErrInvalidChannels
	}
	if sampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	if len(samples)%channels != 0 {
		return ErrInvalidDstSize
	}

	enc := wav.NewEncoder(w, sampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, 0, min(len(samples), wavChunkFrames*channels)),
		SourceBitDepth: 16,
	}
	// One write even when empty so the header is emitted.
	for start := 0; start == 0 || start < len(samples); start += wavChunkFrames * channels {
		end := min(start+wavChunkFrames*channels, len(samples))
		buf.Data = buf.Data[:0]
		for _, v := range samples[start:end] {
			buf.Data = append(buf.Data, int(floatToInt16(v)))
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("sample: write wav: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("sample: finish wav: %w", err)
	}
	return nil
}
