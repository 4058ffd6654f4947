package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"manifest/internal/focus"
	"manifest/internal/session"
)

const disturbanceNotice = "A disturbance in the observation matrix. Try again."

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(min(msg.Width-8, 90))
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if m.machine.Loading() || (m.machine.State() == session.StateFocus && m.machine.ImageURL() == "") {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case refineOKMsg:
		m.machine.RefineSucceeded(msg.result)
		return m, nil

	case refineErrMsg:
		m.logger.Warn("refine failed", zap.Error(msg.err))
		m.machine.RefineFailed()
		m.notice = disturbanceNotice
		return m, after(noticeDuration, noticeGoneMsg{})

	case noticeGoneMsg:
		m.notice = ""
		return m, nil

	case focusTickMsg:
		return m.handleFocusTick(msg)

	case flashDoneMsg:
		m.showFlash = false
		return m, nil

	case imageOKMsg:
		if !m.machine.ApplyImage(msg.gen, msg.url) {
			m.logger.Debug("stale anchor image discarded", zap.Uint64("gen", msg.gen))
		}
		return m, nil

	case imageErrMsg:
		// Image failure degrades to the placeholder visualizer and never
		// blocks the focus flow.
		m.logger.Warn("anchor image failed", zap.Uint64("gen", msg.gen), zap.Error(msg.err))
		return m, nil

	case burstDoneMsg:
		rec, err := m.machine.CompleteCommit()
		if err != nil {
			return m, nil
		}
		if err := m.archive.Append(rec); err != nil {
			m.logger.Error("archive append failed", zap.Error(err))
		}
		m.textarea.Reset()
		m.selected = 0
		return m, nil

	case copiedMsg:
		m.copiedID = msg.id
		return m, after(copiedDuration, copiedGoneMsg{})

	case copiedGoneMsg:
		m.copiedID = ""
		return m, nil
	}

	return m, nil
}

// handleFocusTick advances the simulator by one step. A tick from a stale
// generation is dropped and never rescheduled, so no timer chain outlives
// its focus run.
func (m Model) handleFocusTick(msg focusTickMsg) (tea.Model, tea.Cmd) {
	if m.sim == nil || m.machine.State() != session.StateFocus || msg.gen != m.machine.Generation() {
		return m, nil
	}
	value := m.sim.Tick()
	m.machine.ApplyProgress(msg.gen, value)
	if m.sim.Done() {
		m.showFlash = true
		return m, after(m.flashDuration, flashDoneMsg{})
	}
	return m, m.focusTickCmd(msg.gen)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.machine.State() {
	case session.StateWelcome:
		return m.handleWelcomeKey(msg)
	case session.StateFormulate:
		return m.handleFormulateKey(msg)
	case session.StateRefine:
		return m.handleRefineKey(msg)
	case session.StateFocus:
		return m.handleFocusKey(msg)
	case session.StateHistory:
		return m.handleHistoryKey(msg)
	}
	return m, nil
}

func (m Model) handleWelcomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := m.machine.Start(); err == nil {
			m.textarea.Reset()
			m.textarea.Focus()
		}
		return m, nil
	case "h":
		_ = m.machine.Navigate(session.StateHistory)
		return m, nil
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleFormulateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.machine.Loading() {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		_ = m.machine.Navigate(session.StateWelcome)
		return m, nil
	case tea.KeyEnter:
		m.machine.SetDraft(m.textarea.Value())
		err := m.machine.Submit()
		switch {
		case err == nil:
			return m, tea.Batch(m.refineCmd(m.machine.Draft()), m.spinner.Tick)
		case errors.Is(err, session.ErrEmptyDraft):
			// Whitespace-only input: no call, no state change.
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) handleRefineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		result := m.machine.Result()
		gen, err := m.machine.Confirm()
		if err != nil {
			return m, nil
		}
		m.sim = focus.NewSimulator(m.rng)
		return m, tea.Batch(
			m.focusTickCmd(gen),
			m.imageCmd(gen, result.VisualPrompt),
			m.spinner.Tick,
		)
	case "r":
		// Back to formulation with the draft intact.
		if err := m.machine.ResetRefinement(); err == nil {
			m.textarea.Focus()
		}
		return m, nil
	case "esc":
		_ = m.machine.Navigate(session.StateWelcome)
		return m, nil
	}
	return m, nil
}

func (m Model) handleFocusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := m.machine.BeginCommit(); err != nil {
			return m, nil
		}
		return m, after(m.burstDuration, burstDoneMsg{})
	case "esc":
		// Leaving focus invalidates the generation: pending ticks and the
		// in-flight image become stale.
		_ = m.machine.Navigate(session.StateFormulate)
		return m, nil
	}
	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.archive.List()
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < len(items)-1 {
			m.selected++
		}
		return m, nil
	case "s":
		if m.selected < len(items) {
			return m, m.shareCmd(items[m.selected])
		}
		return m, nil
	case "n":
		if err := m.machine.Navigate(session.StateFormulate); err == nil {
			m.textarea.Focus()
		}
		return m, nil
	case "esc", "h":
		_ = m.machine.Navigate(session.StateWelcome)
		return m, nil
	}
	return m, nil
}
