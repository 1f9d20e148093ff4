package async

import (
	"fmt"
	"time"
)

// =============================================================================
// PHASED PROGRESS TRACKER
// =============================================================================
//
// The enhanced extraction endpoint performs its whole pipeline server-side
// and answers once, after minutes. The tracker gives that single call a
// phase indicator so the user sees what the backend is working through.
// Only extraction and complete are ever set from real events; the middle
// phases exist for the progress legend, not as confirmed checkpoints.

// Phase represents where a tracked job is in the extraction pipeline.
type Phase int

const (
	// PhaseNone - no job running and no completed job on display
	PhaseNone Phase = iota
	// PhaseExtraction - job issued, backend is scraping sources
	PhaseExtraction
	// PhaseSimilarity - clustering related articles across sources
	PhaseSimilarity
	// PhasePrioritization - scoring and ranking the clustered stories
	PhasePrioritization
	// PhaseComplete - job finished, results on display
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseExtraction:
		return "extraction"
	case PhaseSimilarity:
		return "similarity"
	case PhasePrioritization:
		return "prioritization"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// Message returns the display message for the phase.
func (p Phase) Message() string {
	switch p {
	case PhaseExtraction:
		return "Extracting articles from news sources..."
	case PhaseSimilarity:
		return "Detecting similar stories across sources..."
	case PhasePrioritization:
		return "Scoring and ranking top stories..."
	case PhaseComplete:
		return "Top stories ready"
	default:
		return ""
	}
}

// Percent returns the display progress for the phase.
// Strictly increasing along the phase order, complete = 100.
func (p Phase) Percent() int {
	switch p {
	case PhaseExtraction:
		return 25
	case PhaseSimilarity:
		return 55
	case PhasePrioritization:
		return 85
	case PhaseComplete:
		return 100
	default:
		return 0
	}
}

// Phases returns the pipeline phases in display order.
func Phases() []Phase {
	return []Phase{PhaseExtraction, PhaseSimilarity, PhasePrioritization, PhaseComplete}
}

// CompleteLinger is how long the complete indicator stays visible after a
// successful run before it clears. The results themselves stay.
const CompleteLinger = 3 * time.Second

// Tracker is an Action cell with a phase indicator for the long enhanced
// extraction job.
type Tracker[P, T any] struct {
	state State[T]
	phase Phase
	seq   uint64
}

// NewTracker returns an idle tracker.
func NewTracker[P, T any]() *Tracker[P, T] {
	return &Tracker[P, T]{}
}

// Start begins a run with the given params and returns the call to run.
// The phase indicator jumps to extraction immediately and prior results are
// discarded. Owner only; the closure is safe to run on any goroutine.
func (tk *Tracker[P, T]) Start(params P, run func(P) (T, error)) func() Completion[T] {
	tk.seq++
	seq := tk.seq
	tk.state = State[T]{Loading: true}
	tk.phase = PhaseExtraction
	return func() Completion[T] {
		data, err := run(params)
		return settle(seq, data, err)
	}
}

// Apply settles the run and reports whether it was applied. Success parks
// the phase on complete; schedule ExpireCompleted(Seq()) after
// CompleteLinger to clear the indicator. Failure clears the phase
// immediately and records the error. Superseded completions are dropped.
func (tk *Tracker[P, T]) Apply(c Completion[T]) bool {
	if c.seq != tk.seq {
		return false
	}
	tk.state.Loading = false
	if c.Failed() {
		tk.state.Err = c.err
		tk.state.Data = nil
		tk.phase = PhaseNone
		return true
	}
	tk.state.Data = c.data
	tk.state.Err = ""
	tk.phase = PhaseComplete
	return true
}

// ExpireCompleted clears the complete indicator once its linger elapses,
// leaving the results in place. The seq fences the expiry to the run that
// scheduled it: if a newer run started or the tracker was cleared in the
// meantime, the expiry is dropped. Reports whether the indicator cleared.
func (tk *Tracker[P, T]) ExpireCompleted(seq uint64) bool {
	if seq != tk.seq || tk.phase != PhaseComplete {
		return false
	}
	tk.phase = PhaseNone
	return true
}

// ClearResults drops data, error, and phase unconditionally and supersedes
// any run still in flight.
func (tk *Tracker[P, T]) ClearResults() {
	tk.seq++
	tk.state = State[T]{}
	tk.phase = PhaseNone
}

// Seq returns the sequence number of the most recently issued run.
func (tk *Tracker[P, T]) Seq() uint64 {
	return tk.seq
}

// Phase returns the current phase indicator.
func (tk *Tracker[P, T]) Phase() Phase {
	return tk.phase
}

// Running reports whether a run is in flight.
func (tk *Tracker[P, T]) Running() bool {
	return tk.state.Loading
}

// State returns a snapshot of the cell.
func (tk *Tracker[P, T]) State() State[T] {
	return tk.state
}

// Data returns the last run's payload, or nil if none is held.
func (tk *Tracker[P, T]) Data() *T {
	return tk.state.Data
}

// Err returns the last run's error message, or "" if none.
func (tk *Tracker[P, T]) Err() string {
	return tk.state.Err
}
