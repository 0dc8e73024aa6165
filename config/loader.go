// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ik5/ldsp/ctrl"
)

// Load reads the YAML file at path over Default and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over Default and validates the result.
// Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cfg and returns every problem joined.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	switch cfg.Backend {
	case BackendMalgo, BackendOto, BackendHeadless:
	default:
		errs = append(errs, fmt.Errorf("backend %q is invalid; valid values: malgo, oto, headless", cfg.Backend))
	}
	if cfg.Sketch == "" {
		errs = append(errs, errors.New("sketch is required"))
	}

	a := cfg.Audio
	if _, ok := sharingModes[a.Sharing]; !ok {
		errs = append(errs, fmt.Errorf("audio.sharing %q is invalid; valid values: exclusive, shared", a.Sharing))
	}
	if _, ok := performanceModes[a.Performance]; !ok {
		errs = append(errs, fmt.Errorf("audio.performance %q is invalid; valid values: low-latency, power-saving, none", a.Performance))
	}
	if cfg.Backend == BackendOto {
		if a.FullDuplex {
			errs = append(errs, errors.New("backend oto is output only; set audio.full_duplex to false"))
		}
		if a.OutputChannels > 2 {
			errs = append(errs, fmt.Errorf("backend oto supports at most 2 output channels, got %d", a.OutputChannels))
		}
	}
	if err := cfg.StreamConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("audio: %w", err))
	}

	t := cfg.Touch
	if t.Slots < 1 || t.Slots > ctrl.MaxSlots {
		errs = append(errs, fmt.Errorf("touch.slots must be between 1 and %d, got %d", ctrl.MaxSlots, t.Slots))
	}
	if t.AxisMax <= 0 || t.WidthMax <= 0 {
		errs = append(errs, fmt.Errorf("touch.axis_max and touch.width_max must be positive, got %d and %d", t.AxisMax, t.WidthMax))
	}
	if t.Screen[0] <= 0 || t.Screen[1] <= 0 {
		errs = append(errs, fmt.Errorf("touch.screen must be positive, got %v", t.Screen))
	}

	return errors.Join(errs...)
}
