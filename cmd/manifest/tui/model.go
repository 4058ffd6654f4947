package tui

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"manifest/cmd/manifest/ui"
	"manifest/internal/focus"
	"manifest/internal/session"
)

// New builds the interactive model.
func New(opts Options) Model {
	styles := ui.DefaultStyles()

	ta := textarea.New()
	ta.Placeholder = "Which possibility do you want to observe and fix in your reality?"
	ta.Focus()
	ta.CharLimit = 2048
	ta.SetWidth(72)
	ta.SetHeight(6)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = focus.DefaultTickInterval
	}
	if opts.FlashDuration <= 0 {
		opts.FlashDuration = 500 * time.Millisecond
	}
	if opts.BurstDuration <= 0 {
		opts.BurstDuration = 1200 * time.Millisecond
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return Model{
		machine:       session.New(),
		gateway:       opts.Gateway,
		archive:       opts.Archive,
		logger:        opts.Logger,
		textarea:      ta,
		spinner:       sp,
		styles:        styles,
		renderer:      renderer,
		rng:           rng,
		tickInterval:  opts.TickInterval,
		flashDuration: opts.FlashDuration,
		burstDuration: opts.BurstDuration,
	}
}

// Machine exposes the session machine for inspection.
func (m Model) Machine() *session.Machine { return m.machine }

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}
