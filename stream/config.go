// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"
)

// Config is the coordinator's requested stream setup.
type Config struct {
	// HasInput selects full-duplex mode.
	HasInput bool
	// SampleRate in Hz, 0 for the device's native rate.
	SampleRate        int
	InputChannels     int
	OutputChannels    int
	FramesPerCallback int
	// BufferCapacityFactor sizes the output buffer capacity as a multiple of
	// FramesPerCallback.
	BufferCapacityFactor int
	// InputBurstsCushion is the number of input bursts kept queued beyond one
	// block to absorb callback jitter.
	InputBurstsCushion int
	SharingMode        SharingMode
	PerformanceMode    PerformanceMode
}

// DefaultConfig returns a mono full-duplex setup at 48 kHz with 384 frames
// per callback.
func DefaultConfig() Config {
	return Config{
		HasInput:             true,
		SampleRate:           48000,
		InputChannels:        1,
		OutputChannels:       1,
		FramesPerCallback:    384,
		BufferCapacityFactor: 2,
		SharingMode:          SharingExclusive,
		PerformanceMode:      PerformanceLowLatency,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if c.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("sample rate %d is negative", c.SampleRate))
	}
	if c.OutputChannels <= 0 {
		errs = append(errs, fmt.Errorf("output channels must be positive, got %d", c.OutputChannels))
	}
	if c.HasInput && c.InputChannels <= 0 {
		errs = append(errs, fmt.Errorf("input channels must be positive in full-duplex mode, got %d", c.InputChannels))
	}
	if c.FramesPerCallback <= 0 {
		errs = append(errs, fmt.Errorf("frames per callback must be positive, got %d", c.FramesPerCallback))
	}
	if c.BufferCapacityFactor < 1 {
		errs = append(errs, fmt.Errorf("buffer capacity factor must be at least 1, got %d", c.BufferCapacityFactor))
	}
	if c.InputBurstsCushion < 0 {
		errs = append(errs, fmt.Errorf("input bursts cushion %d is negative", c.InputBurstsCushion))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func (c Config) request(dir Direction) Request {
	req := Request{
		Direction:         dir,
		PerformanceMode:   c.PerformanceMode,
		SharingMode:       c.SharingMode,
		Format:            FormatFloat32,
		SampleRate:        c.SampleRate,
		FramesPerCallback: c.FramesPerCallback,
		BufferCapacity:    c.BufferCapacityFactor * c.FramesPerCallback,
		BufferSize:        c.FramesPerCallback,
	}
	if dir == Input {
		req.ChannelCount = c.InputChannels
	} else {
		req.ChannelCount = c.OutputChannels
	}
	return req
}
