// SPDX-License-Identifier: EPL-2.0

package sketches

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/ik5/ldsp/files"
	"github.com/ik5/ldsp/render"
)

var (
	ErrUnknownSketch = errors.New("sketches: unknown sketch")
	ErrMissingParam  = errors.New("sketches: missing parameter")
)

// Env carries the collaborators a sketch may need.
type Env struct {
	// Loader resolves asset paths. It may be nil for sketches that load
	// nothing.
	Loader *files.Loader
	Logger *slog.Logger
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Factory builds a sketch from its parameters.
type Factory func(p Params, env Env) (render.Sketch, error)

var builtin = map[string]Factory{
	"sine":        newSine,
	"ringmod":     newRingMod,
	"passthrough": newPassthrough,
	"sampler":     newSampler,
	"recorder":    newRecorder,
	"touchsynth":  newTouchSynth,
}

// Names returns the built-in sketch names in order.
func Names() []string {
	return slices.Sorted(maps.Keys(builtin))
}

// New builds the built-in sketch name.
func New(name string, p Params, env Env) (render.Sketch, error) {
	f, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownSketch, name, Names())
	}
	s, err := f(p, env)
	if err != nil {
		return nil, fmt.Errorf("sketches: %s: %w", name, err)
	}
	return s, nil
}
