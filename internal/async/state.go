// Package async implements the request lifecycle cells behind the dashboard:
// single-flight resource fetches, imperative one-shot actions, and phased
// tracking of long-running extraction jobs.
//
// Each cell is owned by one goroutine, normally a bubbletea update loop.
// Begin a call with Fetch/Trigger/Start on the owner, run the returned
// closure on any goroutine, and deliver the Completion it produces back to
// Apply on the owner. Every issued call carries a sequence number; Apply
// drops completions whose sequence is not the latest issued, so a cell always
// reflects the newest call even when an older one settles late.
package async

// State is a snapshot of a cell.
// After a settled call at most one of Data and Err is set, and Loading is
// true only while a call is in flight.
type State[T any] struct {
	Data    *T
	Err     string
	Loading bool
}

// Settled reports whether no call is in flight.
func (s State[T]) Settled() bool {
	return !s.Loading
}

// Completion carries the outcome of one issued call back to its cell.
// Values are produced by the closures returned from Fetch/Trigger/Start and
// consumed by Apply. The zero Completion is inert.
type Completion[T any] struct {
	seq  uint64
	data *T
	err  string
}

// Failed reports whether the call settled with an error.
func (c Completion[T]) Failed() bool {
	return c.err != ""
}

// settle produces the terminal state fields for a finished call.
func settle[T any](seq uint64, data T, err error) Completion[T] {
	if err != nil {
		return Completion[T]{seq: seq, err: err.Error()}
	}
	return Completion[T]{seq: seq, data: &data}
}
