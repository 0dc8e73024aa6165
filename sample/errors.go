// SPDX-License-Identifier: EPL-2.0

package sample

import "errors"

var (
	ErrInvalidDstSize    = errors.New("sample: dst size must be a multiple of channels")
	ErrUnknownFormat     = errors.New("sample: unknown format")
	ErrNotWav            = errors.New("sample: not a WAV file")
	ErrNotAiff           = errors.New("sample: not an AIFF file")
	ErrUnsupportedFormat = errors.New("sample: unsupported PCM format")
	ErrInvalidChannels   = errors.New("sample: channel count must be positive")
	ErrInvalidSampleRate = errors.New("sample: sample rate must be positive")
	ErrFileNotFound      = errors.New("sample: file not found")
)
