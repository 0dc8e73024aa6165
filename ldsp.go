// SPDX-License-Identifier: EPL-2.0

package ldsp

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ik5/ldsp/ctrl"
	"github.com/ik5/ldsp/engine"
	"github.com/ik5/ldsp/observe"
	"github.com/ik5/ldsp/stream"
)

// Options configures an instance. See engine.Options.
type Options = engine.Options

// Button channels accepted by SetButton.
const (
	ButtonPower   = ctrl.ChnBtnPower
	ButtonVolUp   = ctrl.ChnBtnVolUp
	ButtonVolDown = ctrl.ChnBtnVolDown
)

// LDSP is the object handed to a platform bridge. Start and Stop are
// serialised; the control setters are lock-free and safe from any
// goroutine.
type LDSP struct {
	mu      sync.Mutex
	eng     *engine.Engine
	log     *slog.Logger
	started atomic.Bool
	closed  atomic.Bool
}

// New creates an idle instance.
func New(opts Options) (*LDSP, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	eng, err := engine.New(opts)
	if err != nil {
		return nil, err
	}
	return &LDSP{
		eng: eng,
		log: opts.Logger.With("component", "ldsp", "engine", eng.ID()),
	}, nil
}

// Close stops the instance and releases it. Every later call is logged and
// ignored.
func (l *LDSP) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed.Swap(true) {
		return nil
	}
	err := l.eng.Close()
	l.started.Store(false)
	l.log.Info("destroyed")
	return err
}

// gone reports, and logs, a call on a closed instance.
func (l *LDSP) gone(op string) bool {
	if !l.closed.Load() {
		return false
	}
	l.log.Warn("not created", "op", op)
	return true
}

// Start opens the streams, runs setup and starts the hardware. It is a
// no-op when already started.
func (l *LDSP) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.gone("start") {
		return engine.ErrClosed
	}
	if err := l.eng.Start(); err != nil {
		l.log.Error("start failed", "err", err)
		return err
	}
	l.started.Store(true)
	return nil
}

// Stop halts the hardware and runs cleanup. Stopping a stopped instance
// does nothing.
func (l *LDSP) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.gone("stop") {
		return nil
	}
	err := l.eng.Stop()
	l.started.Store(false)
	return err
}

// IsStarted reports whether the last Start succeeded and no Stop followed.
func (l *LDSP) IsStarted() bool { return l.started.Load() }

// IsRunning reports whether the hardware is delivering callbacks.
func (l *LDSP) IsRunning() bool { return !l.closed.Load() && l.eng.IsRunning() }

// Negotiated returns the stream values of the last successful start.
func (l *LDSP) Negotiated() stream.Negotiated { return l.eng.Negotiated() }

// Stats returns the render counters of the engine.
func (l *LDSP) Stats() observe.EngineStats { return l.eng.EngineStats() }

func (l *LDSP) SetSlider0(v float32) { l.SetSlider(0, v) }
func (l *LDSP) SetSlider1(v float32) { l.SetSlider(1, v) }
func (l *LDSP) SetSlider2(v float32) { l.SetSlider(2, v) }
func (l *LDSP) SetSlider3(v float32) { l.SetSlider(3, v) }

// SetSlider stores slider n. Out-of-range sliders are ignored.
func (l *LDSP) SetSlider(n int, v float32) {
	if l.gone("setSlider") {
		return
	}
	l.eng.Sliders().Set(n, v)
}

// Slider returns the value last stored in slider n.
func (l *LDSP) Slider(n int) float32 {
	return l.eng.Sliders().Get(n)
}

// UpdateTouch publishes a contact in slot. Out-of-range slots are ignored.
func (l *LDSP) UpdateTouch(slot, id int, x, y, pressure, majAxis, minAxis, orientation, majWidth, minWidth float32) {
	if l.gone("updateTouch") {
		return
	}
	l.eng.Inputs().UpdateTouch(slot, ctrl.Touch{
		ID:          id,
		X:           x,
		Y:           y,
		Pressure:    pressure,
		MajAxis:     majAxis,
		MinAxis:     minAxis,
		Orientation: orientation,
		MajWidth:    majWidth,
		MinWidth:    minWidth,
	})
}

// UpdateHover publishes the hover position of slot.
func (l *LDSP) UpdateHover(slot int, x, y float32) {
	if l.gone("updateHover") {
		return
	}
	l.eng.Inputs().UpdateHover(slot, x, y)
}

// UpdateAnyTouch publishes the any-touch flag.
func (l *LDSP) UpdateAnyTouch(state int) {
	if l.gone("updateAnyTouch") {
		return
	}
	l.eng.Inputs().UpdateAnyTouch(state)
}

// ClearTouch marks slot inactive. Its other fields keep their last values.
func (l *LDSP) ClearTouch(slot int) {
	if l.gone("clearTouch") {
		return
	}
	l.eng.Inputs().ClearTouch(slot)
}

// SetButton publishes the state of one of the Button channels.
func (l *LDSP) SetButton(button int, pressed bool) {
	if l.gone("setButton") {
		return
	}
	l.eng.Inputs().SetButton(button, pressed)
}

// SetScreenResolution publishes the screen size in pixels.
func (l *LDSP) SetScreenResolution(width, height float32) {
	if l.gone("setScreenResolution") {
		return
	}
	l.eng.Inputs().SetScreenResolution(width, height)
}
