package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"manifest/internal/clipboard"
	"manifest/internal/intention"
)

// refineCmd fires the single refine request for a submitted draft.
func (m Model) refineCmd(draft string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.gateway.Refine(context.Background(), draft)
		if err != nil {
			return refineErrMsg{err: err}
		}
		return refineOKMsg{result: res}
	}
}

// imageCmd fires the anchor-image request for one focus run. The result
// carries the generation so a late response from an abandoned run is
// thrown away on arrival.
func (m Model) imageCmd(gen uint64, visualPrompt string) tea.Cmd {
	return func() tea.Msg {
		url, err := m.gateway.GenerateAnchorImage(context.Background(), visualPrompt)
		if err != nil {
			return imageErrMsg{gen: gen, err: err}
		}
		return imageOKMsg{gen: gen, url: url}
	}
}

// focusTickCmd schedules the next simulator tick. Each tick schedules its
// successor; a stale generation simply never reschedules, so navigating
// away leaves no live timer behind.
func (m Model) focusTickCmd(gen uint64) tea.Cmd {
	return tea.Tick(m.tickInterval, func(time.Time) tea.Msg {
		return focusTickMsg{gen: gen}
	})
}

// shareCmd copies the share summary for one archived intention. Failure is
// logged only; the copied marker just never appears.
func (m Model) shareCmd(it intention.Intention) tea.Cmd {
	logger := m.logger
	return func() tea.Msg {
		if err := clipboard.Copy(intention.ShareText(it)); err != nil {
			logger.Warn("share copy failed", zap.Error(err), zap.String("id", it.ID))
			return nil
		}
		return copiedMsg{id: it.ID}
	}
}

type copiedMsg struct{ id string }

// after emits a message once the duration elapses.
func after(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}
