// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
)

// AiffDecoder decodes AIFF PCM files.
type AiffDecoder struct{}

func (AiffDecoder) Decode(r io.Reader) (Source, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("sample: read aiff: %w", err)
	}
	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiff
	}
	dec.ReadInfo()

	depth := int(dec.BitDepth)
	switch depth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit aiff", ErrUnsupportedFormat, depth)
	}
	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, ErrInvalidChannels
	}

	// AIFF 8-bit samples are signed.
	return &intSource{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   depth,
	}, nil
}
