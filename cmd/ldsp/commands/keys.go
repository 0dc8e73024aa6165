// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// errQuit ends a run from the keyboard.
var errQuit = errors.New("quit requested")

const sliderStep = 0.05

// controls is the part of the facade the keyboard drives.
type controls interface {
	SetSlider(n int, v float32)
	Slider(n int) float32
	UpdateTouch(slot, id int, x, y, pressure, majAxis, minAxis, orientation, majWidth, minWidth float32)
	ClearTouch(slot int)
}

// keyController maps key presses to control input:
// 1-4 select a slider, + and - move it, t toggles a touch on slot 0 and q
// quits.
type keyController struct {
	c        controls
	log      *slog.Logger
	slider   int
	touching bool
	touchID  int
}

// handle applies one key. It returns errQuit for q.
func (k *keyController) handle(key byte) error {
	switch key {
	case '1', '2', '3', '4':
		k.slider = int(key - '1')
		k.log.Info("slider selected", "slider", k.slider, "value", k.c.Slider(k.slider))
	case '+', '=':
		k.nudge(sliderStep)
	case '-', '_':
		k.nudge(-sliderStep)
	case 't', 'T':
		if k.touching {
			k.c.ClearTouch(0)
		} else {
			k.touchID++
			k.c.UpdateTouch(0, k.touchID, 960, 540, 1, 10, 10, 0, 10, 10)
		}
		k.touching = !k.touching
		k.log.Info("touch", "slot", 0, "active", k.touching)
	case 'q', 'Q', 3: // 3 is Ctrl+C in raw mode
		return errQuit
	}
	return nil
}

func (k *keyController) nudge(delta float32) {
	v := min(max(k.c.Slider(k.slider)+delta, 0), 1)
	k.c.SetSlider(k.slider, v)
	k.log.Info("slider", "slider", k.slider, "value", v)
}

// readKeys feeds bytes from r to k until q, ctx is done or r fails.
// The reader runs on its own goroutine since reads cannot be interrupted.
func readKeys(ctx context.Context, r io.Reader, k *keyController) error {
	keys := make(chan byte)
	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		for {
			if _, err := r.Read(buf); err != nil {
				readErr <- err
				return
			}
			select {
			case keys <- buf[0]:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read keyboard: %w", err)
		case key := <-keys:
			if err := k.handle(key); err != nil {
				return err
			}
		}
	}
}

// rawStdin puts stdin in raw mode and returns the restore function.
func rawStdin() (func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("raw mode: %w", err)
	}
	return func() { _ = term.Restore(fd, old) }, nil
}
