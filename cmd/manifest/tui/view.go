package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"manifest/cmd/manifest/ui"
	"manifest/internal/focus"
	"manifest/internal/session"
)

func (m Model) View() string {
	if !m.ready {
		return "initializing..."
	}

	var body string
	switch m.machine.State() {
	case session.StateWelcome:
		body = m.viewWelcome()
	case session.StateFormulate:
		body = m.viewFormulate()
	case session.StateRefine:
		body = m.viewRefine()
	case session.StateFocus:
		body = m.viewFocus()
	case session.StateHistory:
		body = m.viewHistory()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		body,
		m.viewFooter(),
	)
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("◈ QUANTUM MANIFEST")
	sub := m.styles.Tagline.Render("reality architect engine")
	return lipgloss.JoinVertical(lipgloss.Left, title, sub, "")
}

func (m Model) viewFooter() string {
	nav := func(label string, active bool) string {
		if active {
			return m.styles.NavActive.Render("● " + label)
		}
		return m.styles.NavIdle.Render("○ " + label)
	}
	st := m.machine.State()
	observing := st == session.StateFormulate || st == session.StateRefine || st == session.StateFocus
	items := []string{
		nav("home", st == session.StateWelcome),
		nav("observe", observing),
		nav("archive", st == session.StateHistory),
	}
	return "\n" + m.styles.Muted.Render(strings.Join(items, "   ")+"   ·   ctrl+c quit")
}

func (m Model) viewWelcome() string {
	lines := []string{
		m.styles.Subtitle.Render("Direct your awareness to create your reality."),
		"",
		m.styles.Body.Render("Write your intention, observe it with full awareness, and"),
		m.styles.Body.Render("experience the wave function collapsing in your favor."),
		"",
		m.styles.Button.Render("enter · begin observing") + "  " + m.styles.ButtonDim.Render("h · archive"),
	}
	return m.styles.Card.Render(strings.Join(lines, "\n"))
}

func (m Model) viewFormulate() string {
	var lines []string
	lines = append(lines, m.styles.Subtitle.Render("Formulate the intention to observe"))
	lines = append(lines, "")
	lines = append(lines, m.textarea.View())
	lines = append(lines, "")
	if m.machine.Loading() {
		lines = append(lines, m.spinner.View()+m.styles.Body.Render(" concentrating probabilities..."))
	} else {
		lines = append(lines, m.styles.ButtonDim.Render("enter · concentrate probabilities")+"  "+m.styles.ButtonDim.Render("esc · back"))
	}
	if m.notice != "" {
		lines = append(lines, "", m.styles.Notice.Render(m.notice))
	}
	return m.styles.Card.Render(strings.Join(lines, "\n"))
}

func (m Model) viewRefine() string {
	res := m.machine.Result()
	if res == nil {
		return ""
	}
	var lines []string
	lines = append(lines, m.styles.Accent.Render(fmt.Sprintf("resonance %d%%", int(res.ResonanceScore*100+0.5))))
	lines = append(lines, "")
	lines = append(lines, m.styles.Muted.Render("the energetically aligned intention:"))
	lines = append(lines, m.styles.Statement.Render("“"+res.RefinedIntention+"”"))
	lines = append(lines, "")
	explanation := res.Explanation
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(explanation); err == nil {
			explanation = strings.TrimSpace(rendered)
		}
	}
	lines = append(lines, explanation)
	lines = append(lines, "")
	lines = append(lines, m.styles.Button.Render("enter · send to the universe")+"  "+m.styles.ButtonDim.Render("r · reformulate"))
	return m.styles.Card.Render(strings.Join(lines, "\n"))
}

func (m Model) viewFocus() string {
	res := m.machine.Result()
	if res == nil {
		return ""
	}
	progress := m.machine.Progress()

	if m.showFlash {
		return m.styles.Flash.Render(strings.Repeat(" ", 20) + "COLLAPSE" + strings.Repeat(" ", 20))
	}

	var lines []string
	lines = append(lines, m.styles.Statement.Render("“"+res.RefinedIntention+"”"))
	if len(res.FocusKeywords) > 0 {
		tags := make([]string, 0, len(res.FocusKeywords))
		for _, kw := range res.FocusKeywords {
			tags = append(tags, m.styles.Keyword.Render("#"+kw))
		}
		lines = append(lines, strings.Join(tags, " "))
	}
	lines = append(lines, "")

	// Placeholder visualizer until the anchor resolves, whatever the bar
	// says; the two finish in either order.
	if m.machine.ImageURL() == "" {
		lines = append(lines, ui.VisualizerFrame(m.styles, 48, progress))
		if !m.machine.Collapsed() {
			lines = append(lines, m.spinner.View()+m.styles.Muted.Render(" observing reality probabilities..."))
		}
	} else {
		lines = append(lines, m.styles.Success.Render("✦ visual anchor encoded"))
	}
	lines = append(lines, "")
	lines = append(lines, ui.ProgressBar(m.styles, 48, progress)+m.styles.Accent.Render(fmt.Sprintf(" %d%%", progress)))

	if m.machine.Collapsed() {
		lines = append(lines, "", m.styles.Success.Render("Wave function collapse complete."))
		if m.machine.Committing() {
			lines = append(lines, ui.BurstFrame(m.styles, 48))
			lines = append(lines, m.styles.ButtonDim.Render("fixing the frequency..."))
		} else {
			lines = append(lines, m.styles.Button.Render("enter · fix the observed possibility"))
		}
	} else {
		lines = append(lines, "", m.styles.Subtitle.Render(focus.Message(progress)))
		lines = append(lines, m.styles.Muted.Render("Your awareness is the only engine of this possibility. Hold the observation."))
	}
	return m.styles.Card.Render(strings.Join(lines, "\n"))
}

func (m Model) viewHistory() string {
	items := m.archive.List()
	var lines []string
	lines = append(lines, m.styles.Subtitle.Render("Quantum archive"))
	lines = append(lines, m.styles.Muted.Render("captured realities, newest first"))
	lines = append(lines, "")

	if len(items) == 0 {
		lines = append(lines, m.styles.Body.Render("No observed possibilities in this matrix yet."))
	}
	for i, it := range items {
		marker := "  "
		if i == m.selected {
			marker = m.styles.NavActive.Render("> ")
		}
		status := m.styles.Success.Render(strings.ToUpper(string(it.QuantumState)))
		anchor := ""
		if it.ImageURL != "" {
			anchor = m.styles.Accent.Render(" ✦ anchored")
		}
		copied := ""
		if m.copiedID == it.ID {
			copied = m.styles.Accent.Render("  copied!")
		}
		lines = append(lines, fmt.Sprintf("%s%s  %s%s%s",
			marker,
			m.styles.Statement.Render("“"+it.Refined+"”"),
			status, anchor, copied,
		))
		lines = append(lines, "  "+m.styles.Muted.Render(fmt.Sprintf("resonance %d%% · %s",
			int(it.Resonance*100+0.5), it.Timestamp.Format("2006-01-02 15:04"))))
	}
	lines = append(lines, "")
	lines = append(lines, m.styles.ButtonDim.Render("n · new observation")+"  "+m.styles.ButtonDim.Render("s · share")+"  "+m.styles.ButtonDim.Render("esc · home"))
	return m.styles.Card.Render(strings.Join(lines, "\n"))
}
