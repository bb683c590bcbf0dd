package session

import "github.com/hyperjump/newsprobe/internal/models"

// Phase tags a State.
type Phase int

const (
	// PhaseIdle means nothing has been searched yet.
	PhaseIdle Phase = iota
	// PhaseLoading means a dispatch is in flight.
	PhaseLoading
	// PhaseSuccess holds exactly what the endpoint returned, possibly nothing.
	PhaseSuccess
	// PhaseDegraded holds the fallback dataset and a user-facing reason.
	PhaseDegraded
)

// String returns the lower-case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase as its name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is the observable state of a session. Results and Reason are only
// meaningful for the phases that carry them; use the constructors.
type State struct {
	Phase Phase
	// Seq is the dispatch sequence number that produced this state; 0 when idle.
	Seq uint64
	// Params are the parameters of that dispatch.
	Params  models.SearchParameters
	Results []models.SearchResult
	Reason  string
}

// Idle returns the initial state.
func Idle() State {
	return State{Phase: PhaseIdle}
}

// Loading returns the in-flight state for dispatch seq.
func Loading(seq uint64, p models.SearchParameters) State {
	return State{Phase: PhaseLoading, Seq: seq, Params: p}
}

// Success returns a completed state holding results exactly as received.
func Success(seq uint64, p models.SearchParameters, results []models.SearchResult) State {
	if results == nil {
		results = []models.SearchResult{}
	}
	return State{Phase: PhaseSuccess, Seq: seq, Params: p, Results: results}
}

// Degraded returns a completed state holding substitute results and the reason
// they are shown.
func Degraded(seq uint64, p models.SearchParameters, results []models.SearchResult, reason string) State {
	return State{Phase: PhaseDegraded, Seq: seq, Params: p, Results: results, Reason: reason}
}

// Completed reports whether a search has finished, successfully or not.
func (s State) Completed() bool {
	return s.Phase == PhaseSuccess || s.Phase == PhaseDegraded
}

// InFlight reports whether a dispatch is in flight.
func (s State) InFlight() bool {
	return s.Phase == PhaseLoading
}

// VisibleResults returns the first limit results of state in received order.
// limit is clamped to the allowed range. The returned slice is a copy.
// Changing limit never requires a new dispatch.
func VisibleResults(state State, limit int) []models.SearchResult {
	if !state.Completed() {
		return nil
	}
	n := models.ClampLimit(limit)
	if n > len(state.Results) {
		n = len(state.Results)
	}
	out := make([]models.SearchResult, n)
	copy(out, state.Results[:n])
	return out
}
