package booking

import "sync/atomic"

// State is the run-scoped at-most-once booking flag. It only ever moves from
// unconfirmed to confirmed; the transition uses test-and-set so that even a
// driver processing venues in parallel cannot book twice.
type State struct {
	confirmed atomic.Bool
}

func NewState() *State { return &State{} }

// Confirmed reports whether a reservation has been confirmed this run.
func (s *State) Confirmed() bool { return s.confirmed.Load() }

// markConfirmed flips the flag and reports whether this caller won the
// transition.
func (s *State) markConfirmed() bool { return s.confirmed.CompareAndSwap(false, true) }
