package async

// Action is an imperative one-shot cell for user-initiated jobs, such as
// kicking off a backend extraction. Unlike a Resource it represents a fresh
// job each time: Trigger discards the previous result before running.
type Action[P, T any] struct {
	state State[T]
	seq   uint64
}

// NewAction returns an idle cell.
func NewAction[P, T any]() *Action[P, T] {
	return &Action[P, T]{}
}

// Trigger begins a job with the given params and returns the call to run.
// Owner only. The closure is safe to run on any goroutine; deliver its
// Completion to Apply on the owner. Triggering again while a job is in
// flight supersedes it.
func (a *Action[P, T]) Trigger(params P, run func(P) (T, error)) func() Completion[T] {
	a.seq++
	seq := a.seq
	a.state = State[T]{Loading: true}
	return func() Completion[T] {
		data, err := run(params)
		return settle(seq, data, err)
	}
}

// Apply settles the cell with a finished job's outcome and reports whether
// it was applied. Superseded completions are dropped.
func (a *Action[P, T]) Apply(c Completion[T]) bool {
	if c.seq != a.seq {
		return false
	}
	a.state.Loading = false
	if c.Failed() {
		a.state.Err = c.err
		a.state.Data = nil
		return true
	}
	a.state.Data = c.data
	a.state.Err = ""
	return true
}

// Clear resets the cell to idle and supersedes any job still in flight.
func (a *Action[P, T]) Clear() {
	a.seq++
	a.state = State[T]{}
}

// State returns a snapshot of the cell.
func (a *Action[P, T]) State() State[T] {
	return a.state
}

// Data returns the last job's payload, or nil if none is held.
func (a *Action[P, T]) Data() *T {
	return a.state.Data
}

// Err returns the last job's error message, or "" if none.
func (a *Action[P, T]) Err() string {
	return a.state.Err
}

// Loading reports whether a job is in flight.
func (a *Action[P, T]) Loading() bool {
	return a.state.Loading
}
