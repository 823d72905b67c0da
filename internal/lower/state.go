package lower

import (
	"fmt"
	"sync/atomic"

	"github.com/zclconf/go-cty/cty"
)

// State is the lowering state of a single node.
type State int32

const (
	// Parsed means the slot exists but no object has been created yet.
	Parsed State = iota
	// Created means the adapter returned a handle for the node.
	Created
	// Connected means the node's parameters were wired.
	Connected
	// Failed means a pass returned an error for the node.
	Failed
)

func (s State) String() string {
	switch s {
	case Parsed:
		return "parsed"
	case Created:
		return "created"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Slot holds the lowered object of one node.
type Slot struct {
	ID string

	state atomic.Int32
	// handle and initial are written once during the create pass, before
	// the transition to Created publishes them.
	handle  any
	initial cty.Value
	// failure is the error that moved the slot to Failed.
	failure error
}

// State atomically returns the slot state.
func (s *Slot) State() State {
	return State(s.state.Load())
}

// transition atomically moves the slot from one state to another.
func (s *Slot) transition(from, to State) error {
	if !s.state.CompareAndSwap(int32(from), int32(to)) {
		return fmt.Errorf("node %q: cannot move from %s to %s", s.ID, s.State(), to)
	}
	return nil
}

// fail marks the slot Failed regardless of its current state.
func (s *Slot) fail(err error) {
	s.failure = err
	s.state.Store(int32(Failed))
}

// Err returns the error that failed the slot, if any.
func (s *Slot) Err() error {
	if s.State() != Failed {
		return nil
	}
	return s.failure
}
