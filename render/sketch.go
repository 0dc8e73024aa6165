// SPDX-License-Identifier: EPL-2.0

package render

// Sketch is user render code driven by the engine.
//
// Setup is called once per start, after the streams are open and before the
// hardware delivers callbacks. Returning false aborts the start.
// Render is called on the audio thread and must not block or allocate.
// Cleanup is called once on stop, only when Setup succeeded.
type Sketch interface {
	Setup(ctx *Context) bool
	Render(ctx *Context)
	Cleanup(ctx *Context)
}

// SketchFuncs adapts plain functions to a Sketch. Nil hooks are no-ops and a
// nil SetupFunc succeeds.
type SketchFuncs struct {
	SetupFunc   func(ctx *Context) bool
	RenderFunc  func(ctx *Context)
	CleanupFunc func(ctx *Context)
}

func (s SketchFuncs) Setup(ctx *Context) bool {
	if s.SetupFunc == nil {
		return true
	}
	return s.SetupFunc(ctx)
}

func (s SketchFuncs) Render(ctx *Context) {
	if s.RenderFunc != nil {
		s.RenderFunc(ctx)
	}
}

func (s SketchFuncs) Cleanup(ctx *Context) {
	if s.CleanupFunc != nil {
		s.CleanupFunc(ctx)
	}
}
