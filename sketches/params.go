// SPDX-License-Identifier: EPL-2.0

package sketches

import (
	"fmt"
	"strconv"
)

// Params are sketch parameters keyed by name.
type Params map[string]string

// Float returns the parameter key parsed as a float, or def when unset.
func (p Params) Float(key string, def float32) (float32, error) {
	s, ok := p[key]
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("param %s: %w", key, err)
	}
	return float32(v), nil
}

// Int returns the parameter key parsed as an int, or def when unset.
func (p Params) Int(key string, def int) (int, error) {
	s, ok := p[key]
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("param %s: %w", key, err)
	}
	return v, nil
}

// Bool returns the parameter key parsed as a bool, or def when unset.
func (p Params) Bool(key string, def bool) (bool, error) {
	s, ok := p[key]
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("param %s: %w", key, err)
	}
	return v, nil
}

// String returns the parameter key, or def when unset.
func (p Params) String(key, def string) string {
	if s, ok := p[key]; ok && s != "" {
		return s
	}
	return def
}
