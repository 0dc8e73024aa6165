// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"

	"github.com/ik5/ldsp/stream"
)

var (
	ErrSetupFailed = errors.New("sketch setup failed")
	ErrClosed      = errors.New("engine closed")
	ErrNoBackend   = errors.New("no stream backend")
	ErrNoSketch    = errors.New("no sketch")
)

// streamErrors collects every *stream.StreamError in err's tree.
func streamErrors(err error) []*stream.StreamError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*stream.StreamError); ok {
		return []*stream.StreamError{se}
	}
	var out []*stream.StreamError
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			out = append(out, streamErrors(e)...)
		}
	case interface{ Unwrap() error }:
		out = streamErrors(u.Unwrap())
	}
	return out
}
