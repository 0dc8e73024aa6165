// SPDX-License-Identifier: EPL-2.0

package malgo

import (
	"errors"
	"testing"

	gomalgo "github.com/gen2brain/malgo"

	"github.com/ik5/ldsp/stream"
)

func TestDeviceConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		req         stream.Request
		wantType    gomalgo.DeviceType
		wantPeriods uint32
		wantShare   gomalgo.ShareMode
		wantProfile gomalgo.PerformanceProfile
	}{
		{
			name: "exclusive low-latency output",
			req: stream.Request{
				Direction: stream.Output, ChannelCount: 2, SampleRate: 48000,
				FramesPerCallback: 384, BufferCapacity: 768,
				SharingMode: stream.SharingExclusive, PerformanceMode: stream.PerformanceLowLatency,
			},
			wantType:    gomalgo.Playback,
			wantPeriods: 2,
			wantShare:   gomalgo.Exclusive,
			wantProfile: gomalgo.LowLatency,
		},
		{
			name: "shared input with deep buffer",
			req: stream.Request{
				Direction: stream.Input, ChannelCount: 1,
				FramesPerCallback: 128, BufferCapacity: 1024,
				SharingMode: stream.SharingShared, PerformanceMode: stream.PerformancePowerSaving,
			},
			wantType:    gomalgo.Capture,
			wantPeriods: 8,
			wantShare:   gomalgo.Shared,
			wantProfile: gomalgo.Conservative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := deviceConfig(tt.req)
			if err != nil {
				t.Fatalf("deviceConfig() error = %v", err)
			}
			if cfg.DeviceType != tt.wantType {
				t.Errorf("DeviceType = %v, want %v", cfg.DeviceType, tt.wantType)
			}
			if cfg.SampleRate != uint32(tt.req.SampleRate) {
				t.Errorf("SampleRate = %d, want %d", cfg.SampleRate, tt.req.SampleRate)
			}
			if cfg.PeriodSizeInFrames != uint32(tt.req.FramesPerCallback) {
				t.Errorf("PeriodSizeInFrames = %d, want %d", cfg.PeriodSizeInFrames, tt.req.FramesPerCallback)
			}
			if cfg.Periods != tt.wantPeriods {
				t.Errorf("Periods = %d, want %d", cfg.Periods, tt.wantPeriods)
			}
			if cfg.PerformanceProfile != tt.wantProfile {
				t.Errorf("PerformanceProfile = %v, want %v", cfg.PerformanceProfile, tt.wantProfile)
			}

			sub := cfg.Playback
			if tt.req.Direction == stream.Input {
				sub = cfg.Capture
			}
			if sub.Format != gomalgo.FormatF32 || sub.Channels != uint32(tt.req.ChannelCount) || sub.ShareMode != tt.wantShare {
				t.Errorf("sub config = %+v", sub)
			}
		})
	}
}

func TestDeviceConfig_Rejects(t *testing.T) {
	t.Parallel()

	if _, err := deviceConfig(stream.Request{Direction: stream.Direction(9)}); !errors.Is(err, stream.ErrUnsupportedDirection) {
		t.Errorf("unknown direction error = %v, want ErrUnsupportedDirection", err)
	}
	if _, err := deviceConfig(stream.Request{Format: stream.Format(3)}); err == nil {
		t.Error("unknown format should be rejected")
	}
}

func TestPeriods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fpc, capacity, want int
	}{
		{384, 768, 2},
		{384, 384, 2},
		{128, 1024, 8},
		{0, 1024, 2},
		{256, 0, 2},
	}
	for _, tt := range tests {
		got := periods(stream.Request{FramesPerCallback: tt.fpc, BufferCapacity: tt.capacity})
		if got != tt.want {
			t.Errorf("periods(%d, %d) = %d, want %d", tt.fpc, tt.capacity, got, tt.want)
		}
	}
}

func TestBytesAsFloat32(t *testing.T) {
	t.Parallel()

	if got := bytesAsFloat32(nil); got != nil {
		t.Errorf("bytesAsFloat32(nil) = %v, want nil", got)
	}

	want := []float32{0.5, -1}
	raw := unsafeBytes(want)
	got := bytesAsFloat32(raw)
	if len(got) != 2 || got[0] != 0.5 || got[1] != -1 {
		t.Errorf("bytesAsFloat32 = %v, want %v", got, want)
	}
}
