// SPDX-License-Identifier: EPL-2.0

// Package malgo opens hardware streams through miniaudio. Capture and
// playback are separate devices with separate callback threads.
package malgo

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	gomalgo "github.com/gen2brain/malgo"

	"github.com/ik5/ldsp/stream"
)

// Options selects devices. A negative index uses the system default.
type Options struct {
	PlaybackDevice int
	CaptureDevice  int
}

// DefaultOptions uses the default playback and capture devices.
func DefaultOptions() Options {
	return Options{PlaybackDevice: -1, CaptureDevice: -1}
}

// Backend implements stream.Backend on a miniaudio context.
type Backend struct {
	opts Options
	log  *slog.Logger

	mu  sync.Mutex
	ctx *gomalgo.AllocatedContext
}

// New initialises a miniaudio context. Close releases it.
func New(opts Options, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "backend", "backend", "malgo")

	ctx, err := gomalgo.InitContext(nil, gomalgo.ContextConfig{}, func(message string) {
		log.Debug("miniaudio", "msg", message)
	})
	if err != nil {
		return nil, fmt.Errorf("malgo: init context: %w", err)
	}
	return &Backend{opts: opts, log: log, ctx: ctx}, nil
}

func (b *Backend) Name() string { return "malgo" }

// Close releases the miniaudio context. Streams must be closed first.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctx == nil {
		return nil
	}
	err := b.ctx.Uninit()
	b.ctx.Free()
	b.ctx = nil
	if err != nil {
		return fmt.Errorf("malgo: uninit context: %w", err)
	}
	return nil
}

// DeviceInfo describes one enumerated device.
type DeviceInfo struct {
	Direction stream.Direction
	Index     int
	Name      string
	Default   bool
}

// Devices lists playback devices followed by capture devices.
func (b *Backend) Devices() ([]DeviceInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctx == nil {
		return nil, errClosed
	}

	var out []DeviceInfo
	for _, dir := range []stream.Direction{stream.Output, stream.Input} {
		infos, err := b.ctx.Devices(deviceType(dir))
		if err != nil {
			return nil, fmt.Errorf("malgo: enumerate %s devices: %w", dir, err)
		}
		for i, info := range infos {
			out = append(out, DeviceInfo{
				Direction: dir,
				Index:     i,
				Name:      info.Name(),
				Default:   info.IsDefault != 0,
			})
		}
	}
	return out, nil
}

var errClosed = errors.New("malgo: backend closed")

func deviceType(dir stream.Direction) gomalgo.DeviceType {
	if dir == stream.Input {
		return gomalgo.Capture
	}
	return gomalgo.Playback
}

// deviceConfig maps a stream request onto a miniaudio device config.
func deviceConfig(req stream.Request) (gomalgo.DeviceConfig, error) {
	if req.Direction != stream.Output && req.Direction != stream.Input {
		return gomalgo.DeviceConfig{}, stream.ErrUnsupportedDirection
	}
	if req.Format != stream.FormatFloat32 {
		return gomalgo.DeviceConfig{}, fmt.Errorf("malgo: unsupported sample format %d", req.Format)
	}

	sub := gomalgo.SubConfig{
		Format:    gomalgo.FormatF32,
		Channels:  uint32(req.ChannelCount),
		ShareMode: gomalgo.Shared,
	}
	if req.SharingMode == stream.SharingExclusive {
		sub.ShareMode = gomalgo.Exclusive
	}

	cfg := gomalgo.DefaultDeviceConfig(deviceType(req.Direction))
	cfg.SampleRate = uint32(max(req.SampleRate, 0))
	cfg.PeriodSizeInFrames = uint32(max(req.FramesPerCallback, 0))
	cfg.Periods = uint32(periods(req))
	cfg.PerformanceProfile = gomalgo.LowLatency
	if req.PerformanceMode != stream.PerformanceLowLatency {
		cfg.PerformanceProfile = gomalgo.Conservative
	}
	if req.Direction == stream.Input {
		cfg.Capture = sub
	} else {
		cfg.Playback = sub
	}
	return cfg, nil
}

// periods is the number of callback periods the buffer capacity holds, at
// least two.
func periods(req stream.Request) int {
	if req.FramesPerCallback <= 0 || req.BufferCapacity <= 0 {
		return 2
	}
	return max(req.BufferCapacity/req.FramesPerCallback, 2)
}

func (b *Backend) deviceID(dir stream.Direction) (unsafe.Pointer, error) {
	idx := b.opts.PlaybackDevice
	if dir == stream.Input {
		idx = b.opts.CaptureDevice
	}
	if idx < 0 {
		return nil, nil
	}
	infos, err := b.ctx.Devices(deviceType(dir))
	if err != nil {
		return nil, fmt.Errorf("malgo: enumerate %s devices: %w", dir, err)
	}
	if idx >= len(infos) {
		return nil, fmt.Errorf("malgo: %s device index %d out of range (have %d)", dir, idx, len(infos))
	}
	return infos[idx].ID.Pointer(), nil
}

// Open initialises a device for req. An exclusive request the device refuses
// is retried in shared mode.
func (b *Backend) Open(req stream.Request, fn stream.DataFunc) (stream.Stream, error) {
	cfg, err := deviceConfig(req)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctx == nil {
		return nil, errClosed
	}

	id, err := b.deviceID(req.Direction)
	if err != nil {
		return nil, err
	}
	if req.Direction == stream.Input {
		cfg.Capture.DeviceID = id
	} else {
		cfg.Playback.DeviceID = id
	}

	s := &Stream{req: req, fn: fn, sharing: req.SharingMode}
	callbacks := gomalgo.DeviceCallbacks{Data: s.onData}

	dev, err := gomalgo.InitDevice(b.ctx.Context, cfg, callbacks)
	if err != nil && req.SharingMode == stream.SharingExclusive {
		b.log.Warn("exclusive mode refused, retrying shared", "direction", req.Direction, "err", err)
		if req.Direction == stream.Input {
			cfg.Capture.ShareMode = gomalgo.Shared
		} else {
			cfg.Playback.ShareMode = gomalgo.Shared
		}
		s.sharing = stream.SharingShared
		dev, err = gomalgo.InitDevice(b.ctx.Context, cfg, callbacks)
	}
	if err != nil {
		return nil, fmt.Errorf("malgo: init %s device: %w", req.Direction, err)
	}

	s.dev = dev
	s.period = int(cfg.PeriodSizeInFrames)
	s.periods = int(cfg.Periods)
	return s, nil
}

// Stream wraps one miniaudio device.
type Stream struct {
	req     stream.Request
	fn      stream.DataFunc
	dev     *gomalgo.Device
	sharing stream.SharingMode
	period  int
	periods int
}

// onData runs on the miniaudio callback thread.
func (s *Stream) onData(out, in []byte, frames uint32) {
	if s.req.Direction == stream.Input {
		s.fn(bytesAsFloat32(in), int(frames))
		return
	}
	s.fn(bytesAsFloat32(out), int(frames))
}

func bytesAsFloat32(data []byte) []float32 {
	if len(data) < 4 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), len(data)/4)
}

func (s *Stream) Direction() stream.Direction { return s.req.Direction }
func (s *Stream) SampleRate() int             { return int(s.dev.SampleRate()) }

func (s *Stream) ChannelCount() int {
	if s.req.Direction == stream.Input {
		return int(s.dev.CaptureChannels())
	}
	return int(s.dev.PlaybackChannels())
}

func (s *Stream) FramesPerCallback() int          { return s.period }
func (s *Stream) FramesPerBurst() int             { return s.period }
func (s *Stream) BufferCapacity() int             { return s.period * s.periods }
func (s *Stream) BufferSize() int                 { return s.period * s.periods }
func (s *Stream) SharingMode() stream.SharingMode { return s.sharing }

func (s *Stream) Start() error {
	if err := s.dev.Start(); err != nil {
		return fmt.Errorf("malgo: start %s device: %w", s.req.Direction, err)
	}
	return nil
}

// Stop returns once the device callback has finished.
func (s *Stream) Stop() error {
	if !s.dev.IsStarted() {
		return nil
	}
	if err := s.dev.Stop(); err != nil {
		return fmt.Errorf("malgo: stop %s device: %w", s.req.Direction, err)
	}
	return nil
}

func (s *Stream) Close() error {
	if s.dev != nil {
		s.dev.Uninit()
		s.dev = nil
	}
	return nil
}
