// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML configuration of the ldsp command.
package config

import (
	"log/slog"

	"github.com/ik5/ldsp/ctrl"
	"github.com/ik5/ldsp/stream"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level maps l to a slog level. Unknown and empty levels map to Info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Backend names.
const (
	BackendMalgo    = "malgo"
	BackendOto      = "oto"
	BackendHeadless = "headless"
)

// Config is the root configuration.
type Config struct {
	ProjectName string   `yaml:"project_name"`
	LogLevel    LogLevel `yaml:"log_level"`
	// Backend is one of malgo, oto or headless.
	Backend string `yaml:"backend"`
	// Sketch names a built-in sketch; Params are passed to it.
	Sketch string            `yaml:"sketch"`
	Params map[string]string `yaml:"params"`
	// AssetsDir is the packaged asset store for relative file paths.
	AssetsDir string `yaml:"assets_dir"`

	Audio AudioConfig `yaml:"audio"`
	Touch TouchConfig `yaml:"touch"`
}

// AudioConfig describes the streams.
type AudioConfig struct {
	// SampleRate in Hz, 0 for the device's native rate.
	SampleRate           int    `yaml:"sample_rate"`
	FramesPerCallback    int    `yaml:"frames_per_callback"`
	InputChannels        int    `yaml:"input_channels"`
	OutputChannels       int    `yaml:"output_channels"`
	FullDuplex           bool   `yaml:"full_duplex"`
	Sharing              string `yaml:"sharing"`
	Performance          string `yaml:"performance"`
	BufferCapacityFactor int    `yaml:"buffer_capacity_factor"`
	InputBurstsCushion   int    `yaml:"input_bursts_cushion"`
	// PlaybackDevice and CaptureDevice index the malgo device lists; -1
	// selects the default device.
	PlaybackDevice int `yaml:"playback_device"`
	CaptureDevice  int `yaml:"capture_device"`
}

// TouchConfig describes the touch surface.
type TouchConfig struct {
	Slots    int        `yaml:"slots"`
	AxisMax  int        `yaml:"axis_max"`
	WidthMax int        `yaml:"width_max"`
	AnyTouch bool       `yaml:"any_touch"`
	Screen   [2]float32 `yaml:"screen"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	touch := ctrl.DefaultMultiTouchInfo()
	return &Config{
		ProjectName: "ldsp",
		LogLevel:    LogInfo,
		Backend:     BackendMalgo,
		Sketch:      "sine",
		Audio: AudioConfig{
			SampleRate:           48000,
			FramesPerCallback:    384,
			InputChannels:        1,
			OutputChannels:       1,
			FullDuplex:           true,
			Sharing:              "exclusive",
			Performance:          "low-latency",
			BufferCapacityFactor: 2,
			PlaybackDevice:       -1,
			CaptureDevice:        -1,
		},
		Touch: TouchConfig{
			Slots:    touch.TouchSlots,
			AxisMax:  touch.TouchAxisMax,
			WidthMax: touch.TouchWidthMax,
			AnyTouch: touch.AnyTouchSupported,
			Screen:   touch.ScreenResolution,
		},
	}
}

var sharingModes = map[string]stream.SharingMode{
	"exclusive": stream.SharingExclusive,
	"shared":    stream.SharingShared,
}

var performanceModes = map[string]stream.PerformanceMode{
	"low-latency":  stream.PerformanceLowLatency,
	"power-saving": stream.PerformancePowerSaving,
	"none":         stream.PerformanceNone,
}

// StreamConfig maps the audio section to a coordinator config.
func (c *Config) StreamConfig() stream.Config {
	return stream.Config{
		HasInput:             c.Audio.FullDuplex,
		SampleRate:           c.Audio.SampleRate,
		InputChannels:        c.Audio.InputChannels,
		OutputChannels:       c.Audio.OutputChannels,
		FramesPerCallback:    c.Audio.FramesPerCallback,
		BufferCapacityFactor: c.Audio.BufferCapacityFactor,
		InputBurstsCushion:   c.Audio.InputBurstsCushion,
		SharingMode:          sharingModes[c.Audio.Sharing],
		PerformanceMode:      performanceModes[c.Audio.Performance],
	}
}

// TouchInfo maps the touch section to touch metadata.
func (c *Config) TouchInfo() ctrl.MultiTouchInfo {
	return ctrl.MultiTouchInfo{
		TouchSlots:        c.Touch.Slots,
		TouchAxisMax:      c.Touch.AxisMax,
		TouchWidthMax:     c.Touch.WidthMax,
		AnyTouchSupported: c.Touch.AnyTouch,
		ScreenResolution:  c.Touch.Screen,
	}
}
