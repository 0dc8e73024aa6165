// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/ldsp/files"
)

// Buffer is a fully decoded, interleaved asset held in memory.
type Buffer struct {
	SampleRate int
	Channels   int
	Data       []float32
}

// Frames returns the length of b in frames.
func (b *Buffer) Frames() int {
	if b == nil || b.Channels == 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// At returns channel ch of frame f, or 0 outside the buffer.
func (b *Buffer) At(f, ch int) float32 {
	i := f*b.Channels + ch
	if f < 0 || ch < 0 || ch >= b.Channels || i >= len(b.Data) {
		return 0
	}
	return b.Data[i]
}

// ReadAll drains src into a Buffer and closes it.
func ReadAll(src Source) (*Buffer, error) {
	defer src.Close()

	ch := src.Channels()
	if ch <= 0 {
		return nil, ErrInvalidChannels
	}
	b := &Buffer{SampleRate: src.SampleRate(), Channels: ch}
	chunk := make([]float32, 4096*ch)
	for {
		n, err := src.ReadSamples(chunk)
		b.Data = append(b.Data, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			return b, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Convert wraps src so it produces sampleRate and channels. A zero
// sampleRate or channels keeps the source value.
func Convert(src Source, sampleRate, channels int) (Source, error) {
	if sampleRate < 0 {
		return nil, ErrInvalidSampleRate
	}
	if channels < 0 {
		return nil, ErrInvalidChannels
	}
	if sampleRate > 0 && src.SampleRate() != sampleRate {
		src = NewResampler(src, sampleRate)
	}
	if channels > 0 && src.Channels() != channels {
		src = NewRemixer(src, channels)
	}
	return src, nil
}

// Decode decodes r with d and preloads it at sampleRate and channels.
func Decode(d Decoder, r io.Reader, sampleRate, channels int) (*Buffer, error) {
	src, err := d.Decode(r)
	if err != nil {
		return nil, err
	}
	conv, err := Convert(src, sampleRate, channels)
	if err != nil {
		src.Close()
		return nil, err
	}
	return ReadAll(conv)
}

// LoadFile reads name through loader, picks a decoder from the default
// registry by extension, and preloads it at sampleRate and channels.
func LoadFile(loader *files.Loader, name string, sampleRate, channels int) (*Buffer, error) {
	d, ok := DefaultRegistry().ForPath(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	data := loader.ReadFile(name)
	if data == nil {
		return nil, fmt.Errorf("%w: %q", ErrFileNotFound, name)
	}
	b, err := Decode(d, bytes.NewReader(data), sampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("sample: load %q: %w", name, err)
	}
	return b, nil
}
