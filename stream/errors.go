// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"
)

var (
	ErrStreamOpen           = errors.New("stream open failed")
	ErrStreamStart          = errors.New("stream start failed")
	ErrStreamStop           = errors.New("stream stop failed")
	ErrInvalidConfig        = errors.New("invalid stream config")
	ErrNotOpen              = errors.New("streams not open")
	ErrAlreadyOpen          = errors.New("streams already open")
	ErrUnsupportedDirection = errors.New("direction not supported by backend")
)

// StreamError records which operation failed on which direction. It matches
// both the operation's sentinel (ErrStreamOpen, ErrStreamStart or
// ErrStreamStop) and the backend cause with errors.Is.
type StreamError struct {
	Op        string
	Direction Direction
	Err       error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s %s stream: %v", e.Op, e.Direction, e.Err)
}

func (e *StreamError) Unwrap() []error {
	if s := opSentinel(e.Op); s != nil {
		return []error{s, e.Err}
	}
	return []error{e.Err}
}

func opSentinel(op string) error {
	switch op {
	case "open":
		return ErrStreamOpen
	case "start":
		return ErrStreamStart
	case "stop", "close":
		return ErrStreamStop
	default:
		return nil
	}
}
