// Package tui implements the interactive manifestation interface using
// bubbletea. The model drives the session state machine; all async work
// (refine call, anchor image, focus ticks) flows back in as messages
// tagged with the focus generation so stale results are discarded.
package tui

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"manifest/cmd/manifest/ui"
	"manifest/internal/focus"
	"manifest/internal/intention"
	"manifest/internal/session"
)

// Gateway is the slice of the AI adapter the TUI needs.
type Gateway interface {
	Refine(ctx context.Context, intentionText string) (*intention.RefinementResult, error)
	GenerateAnchorImage(ctx context.Context, visualPrompt string) (string, error)
}

// Archive is the slice of the archive store the TUI needs.
type Archive interface {
	Append(it intention.Intention) error
	List() []intention.Intention
}

// Options wires the model's collaborators and pacing.
type Options struct {
	Gateway Gateway
	Archive Archive
	Logger  *zap.Logger

	TickInterval  time.Duration
	FlashDuration time.Duration
	BurstDuration time.Duration

	// Rand seeds the simulator; nil uses a time-seeded source.
	Rand *rand.Rand
}

// Model is the bubbletea model for the manifest interface.
type Model struct {
	machine *session.Machine
	gateway Gateway
	archive Archive
	logger  *zap.Logger

	// UI components
	textarea textarea.Model
	spinner  spinner.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	// Focus sequence
	sim           *focus.Simulator
	rng           *rand.Rand
	tickInterval  time.Duration
	flashDuration time.Duration
	burstDuration time.Duration
	showFlash     bool

	// History view
	selected int
	copiedID string

	// Transient failure notice (refine errors)
	notice string

	width  int
	height int
	ready  bool
}

const (
	// noticeDuration is how long the refine-failure alert stays up.
	noticeDuration = 3 * time.Second

	// copiedDuration is how long the "copied" marker stays on a card.
	copiedDuration = 2 * time.Second
)

// Messages for tea updates.
type (
	refineOKMsg  struct{ result *intention.RefinementResult }
	refineErrMsg struct{ err error }

	focusTickMsg struct{ gen uint64 }

	imageOKMsg struct {
		gen uint64
		url string
	}
	imageErrMsg struct {
		gen uint64
		err error
	}

	flashDoneMsg  struct{}
	burstDoneMsg  struct{}
	noticeGoneMsg struct{}
	copiedGoneMsg struct{}
)
