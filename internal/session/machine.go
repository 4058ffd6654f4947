// Package session owns the five-state navigation model and every piece of
// data that flows between views. All mutation goes through the transition
// methods below; views hold the machine by reference and only read it.
package session

import (
	"errors"
	"strings"

	"manifest/internal/intention"
)

// State is the active top-level view. Exactly one is active at a time.
type State int

const (
	StateWelcome State = iota
	StateFormulate
	StateRefine
	StateFocus
	StateHistory
)

// String returns the display name for each state.
func (s State) String() string {
	names := []string{"welcome", "formulate", "refine", "focus", "history"}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

var (
	// ErrEmptyDraft rejects submission of a blank or whitespace-only draft.
	ErrEmptyDraft = errors.New("session: draft is empty")

	// ErrNoRefinement rejects confirmation without a refinement result.
	ErrNoRefinement = errors.New("session: no refinement result")

	// ErrBadTransition rejects an event the current state does not accept.
	ErrBadTransition = errors.New("session: event not valid in current state")

	// ErrAlreadyCommitting rejects a duplicate commit while the commit
	// animation is still playing.
	ErrAlreadyCommitting = errors.New("session: commit already in progress")
)

// Machine is the session state machine. It is not safe for concurrent use;
// the owning event loop serializes all transitions.
type Machine struct {
	state      State
	draft      string
	result     *intention.RefinementResult
	imageURL   string
	progress   int
	collapsed  bool
	committing bool
	loading    bool

	// generation increments on every entry into Focus and on every exit
	// from it. Async results tagged with an older generation are stale and
	// must be discarded on arrival.
	generation uint64
}

// New returns a machine in the Welcome state.
func New() *Machine {
	return &Machine{state: StateWelcome}
}

func (m *Machine) State() State                           { return m.state }
func (m *Machine) Draft() string                          { return m.draft }
func (m *Machine) Result() *intention.RefinementResult    { return m.result }
func (m *Machine) ImageURL() string                       { return m.imageURL }
func (m *Machine) Progress() int                          { return m.progress }
func (m *Machine) Collapsed() bool                        { return m.collapsed }
func (m *Machine) Committing() bool                       { return m.committing }
func (m *Machine) Loading() bool                          { return m.loading }
func (m *Machine) Generation() uint64                     { return m.generation }

// SetDraft records the in-progress input text. Allowed only while
// formulating; elsewhere the draft is frozen.
func (m *Machine) SetDraft(text string) {
	if m.state == StateFormulate && !m.loading {
		m.draft = text
	}
}

// Start begins a new formulation from the welcome screen.
func (m *Machine) Start() error {
	if m.state != StateWelcome {
		return ErrBadTransition
	}
	m.draft = ""
	m.state = StateFormulate
	return nil
}

// Submit validates the draft and marks the refine call in flight. The
// caller fires exactly one refine request iff Submit returns nil.
func (m *Machine) Submit() error {
	if m.state != StateFormulate || m.loading {
		return ErrBadTransition
	}
	if strings.TrimSpace(m.draft) == "" {
		return ErrEmptyDraft
	}
	m.loading = true
	return nil
}

// RefineSucceeded stores the result and moves to the Refine view. A result
// arriving after the user navigated away is dropped.
func (m *Machine) RefineSucceeded(res *intention.RefinementResult) {
	if m.state != StateFormulate || !m.loading {
		return
	}
	m.loading = false
	m.result = res
	m.state = StateRefine
}

// RefineFailed clears the in-flight flag and nothing else: the user stays
// in Formulate with the draft preserved verbatim.
func (m *Machine) RefineFailed() {
	if m.state == StateFormulate {
		m.loading = false
	}
}

// ResetRefinement discards the current result and returns to Formulate.
func (m *Machine) ResetRefinement() error {
	if m.state != StateRefine {
		return ErrBadTransition
	}
	m.result = nil
	m.state = StateFormulate
	return nil
}

// Confirm enters the Focus state and hands back the generation the caller
// must attach to the simulator ticks and the image request it starts.
func (m *Machine) Confirm() (uint64, error) {
	if m.state != StateRefine {
		return 0, ErrBadTransition
	}
	if m.result == nil {
		return 0, ErrNoRefinement
	}
	m.state = StateFocus
	m.progress = 0
	m.collapsed = false
	m.imageURL = ""
	m.generation++
	return m.generation, nil
}

// ApplyProgress records a simulator tick. Reports whether the tick was
// accepted; stale generations and non-Focus states are ignored.
func (m *Machine) ApplyProgress(gen uint64, value int) bool {
	if m.state != StateFocus || gen != m.generation || m.collapsed {
		return false
	}
	if value < m.progress {
		value = m.progress
	}
	if value > 100 {
		value = 100
	}
	m.progress = value
	if m.progress >= 100 {
		m.collapsed = true
	}
	return true
}

// ApplyImage records a resolved anchor image. A late response from a
// previous focus run must not overwrite the current session's image.
func (m *Machine) ApplyImage(gen uint64, url string) bool {
	if m.state != StateFocus || gen != m.generation {
		return false
	}
	m.imageURL = url
	return true
}

// BeginCommit gates the commit behind the committing flag so the fixed
// commit animation cannot be double-triggered.
func (m *Machine) BeginCommit() error {
	if m.state != StateFocus || !m.collapsed {
		return ErrBadTransition
	}
	if m.committing {
		return ErrAlreadyCommitting
	}
	m.committing = true
	return nil
}

// CompleteCommit assembles the archived record, clears the transient
// session data and lands in History. The caller appends the returned
// record to the archive store.
func (m *Machine) CompleteCommit() (intention.Intention, error) {
	if m.state != StateFocus || !m.committing {
		return intention.Intention{}, ErrBadTransition
	}
	if m.result == nil {
		return intention.Intention{}, ErrNoRefinement
	}
	rec := intention.New(m.draft, m.result, m.imageURL)
	m.draft = ""
	m.result = nil
	m.imageURL = ""
	m.progress = 0
	m.collapsed = false
	m.committing = false
	m.generation++
	m.state = StateHistory
	return rec, nil
}

// Navigate jumps to one of the footer targets. Leaving Focus invalidates
// the generation so in-flight ticks and image responses become stale.
func (m *Machine) Navigate(target State) error {
	switch target {
	case StateWelcome, StateFormulate, StateHistory:
	default:
		return ErrBadTransition
	}
	if m.committing {
		return ErrAlreadyCommitting
	}
	if m.state == StateFocus {
		m.generation++
		m.progress = 0
		m.collapsed = false
	}
	m.loading = false
	m.state = target
	return nil
}
