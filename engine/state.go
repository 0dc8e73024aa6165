// SPDX-License-Identifier: EPL-2.0

package engine

import "fmt"

// State of an Engine.
type State int32

const (
	StateIdle State = iota
	StateInitialized
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}
