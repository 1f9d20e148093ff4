package async

// Resource is a fetch-and-refetch cell for data the dashboard reads,
// such as the article list or the source catalog.
//
// Lifecycle: idle -> loading -> ready or failed, re-entering loading on every
// Fetch. While reloading, the previous Data stays visible so the view can
// keep rendering it; a failure then drops it.
type Resource[T any] struct {
	state State[T]
	seq   uint64
}

// NewResource returns an idle cell.
func NewResource[T any]() *Resource[T] {
	return &Resource[T]{}
}

// Fetch begins a (re)load and returns the call to run.
// Owner only. The closure is safe to run on any goroutine; deliver its
// Completion to Apply on the owner. Fetching again while a call is in flight
// supersedes it: the superseded completion will be dropped.
func (r *Resource[T]) Fetch(run func() (T, error)) func() Completion[T] {
	r.seq++
	seq := r.seq
	r.state.Loading = true
	r.state.Err = ""
	// Data stays; views keep rendering the previous payload during a reload.
	return func() Completion[T] {
		data, err := run()
		return settle(seq, data, err)
	}
}

// Apply settles the cell with a finished call's outcome and reports whether
// it was applied. Completions superseded by a later Fetch or a Clear are
// dropped without touching state.
func (r *Resource[T]) Apply(c Completion[T]) bool {
	if c.seq != r.seq {
		return false
	}
	r.state.Loading = false
	if c.Failed() {
		r.state.Err = c.err
		r.state.Data = nil
		return true
	}
	r.state.Data = c.data
	r.state.Err = ""
	return true
}

// Clear resets the cell to idle and supersedes any call still in flight.
func (r *Resource[T]) Clear() {
	r.seq++
	r.state = State[T]{}
}

// State returns a snapshot of the cell.
func (r *Resource[T]) State() State[T] {
	return r.state
}

// Data returns the current payload, or nil if none is held.
func (r *Resource[T]) Data() *T {
	return r.state.Data
}

// Err returns the current error message, or "" if none.
func (r *Resource[T]) Err() string {
	return r.state.Err
}

// Loading reports whether a call is in flight.
func (r *Resource[T]) Loading() bool {
	return r.state.Loading
}
