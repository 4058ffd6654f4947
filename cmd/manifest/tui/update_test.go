package tui

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifest/internal/gateway"
	"manifest/internal/intention"
	"manifest/internal/session"
)

type fakeGateway struct {
	mu          sync.Mutex
	refineCalls int
	imageCalls  int
	refineErr   error
	imageErr    error
}

func (f *fakeGateway) Refine(ctx context.Context, text string) (*intention.RefinementResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refineCalls++
	if f.refineErr != nil {
		return nil, f.refineErr
	}
	return &intention.RefinementResult{
		RefinedIntention: "I enjoy complete health now",
		Explanation:      "Observation concentrates energy here.",
		ResonanceScore:   0.87,
		FocusKeywords:    []string{"abundance"},
		VisualPrompt:     "a sunlit valley",
	}, nil
}

func (f *fakeGateway) GenerateAnchorImage(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageCalls++
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return "data:image/png;base64,abc", nil
}

type fakeArchive struct {
	items []intention.Intention
}

func (f *fakeArchive) Append(it intention.Intention) error {
	f.items = append([]intention.Intention{it}, f.items...)
	return nil
}

func (f *fakeArchive) List() []intention.Intention { return f.items }

func newTestModel(gw *fakeGateway, store *fakeArchive) Model {
	m := New(Options{
		Gateway:       gw,
		Archive:       store,
		Rand:          rand.New(rand.NewSource(42)),
		TickInterval:  time.Millisecond,
		FlashDuration: time.Millisecond,
		BurstDuration: time.Millisecond,
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

// drain executes a command tree synchronously and returns the produced
// messages, descending into batches.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// advance applies a message and returns the new model and command.
func advance(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// intoRefine drives a fresh model through formulation to the refine view.
func intoRefine(t *testing.T, gw *fakeGateway, store *fakeArchive) Model {
	t.Helper()
	m := newTestModel(gw, store)
	m, _ = advance(t, m, enter())
	require.Equal(t, session.StateFormulate, m.Machine().State())

	m.textarea.SetValue("I am healthy and wealthy")
	m, cmd := advance(t, m, enter())
	require.True(t, m.Machine().Loading())

	for _, msg := range drain(cmd) {
		if ok, is := msg.(refineOKMsg); is {
			m, _ = advance(t, m, ok)
		}
	}
	require.Equal(t, session.StateRefine, m.Machine().State())
	return m
}

func TestEmptySubmitMakesNoCall(t *testing.T) {
	gw := &fakeGateway{}
	m := newTestModel(gw, &fakeArchive{})
	m, _ = advance(t, m, enter())

	m.textarea.SetValue("   ")
	m, cmd := advance(t, m, enter())

	for range drain(cmd) {
	}
	assert.Equal(t, 0, gw.refineCalls)
	assert.Equal(t, session.StateFormulate, m.Machine().State())
	assert.False(t, m.Machine().Loading())
}

func TestSubmitTriggersExactlyOneRefineCall(t *testing.T) {
	gw := &fakeGateway{}
	intoRefine(t, gw, &fakeArchive{})
	assert.Equal(t, 1, gw.refineCalls)
}

func TestRefineFailureShowsNoticeAndPreservesDraft(t *testing.T) {
	gw := &fakeGateway{refineErr: &gateway.RefinementError{Err: errors.New("transport down")}}
	store := &fakeArchive{}
	m := newTestModel(gw, store)
	m, _ = advance(t, m, enter())

	m.textarea.SetValue("I am healthy and wealthy")
	m, cmd := advance(t, m, enter())

	for _, msg := range drain(cmd) {
		if errMsg, is := msg.(refineErrMsg); is {
			m, _ = advance(t, m, errMsg)
		}
	}

	assert.Equal(t, session.StateFormulate, m.Machine().State())
	assert.False(t, m.Machine().Loading())
	assert.Equal(t, "I am healthy and wealthy", m.textarea.Value())
	assert.Equal(t, disturbanceNotice, m.notice)
	assert.Empty(t, store.items)
}

func TestConfirmEntersFocusAndFiresImageRequest(t *testing.T) {
	gw := &fakeGateway{}
	m := intoRefine(t, gw, &fakeArchive{})

	m, cmd := advance(t, m, enter())
	require.Equal(t, session.StateFocus, m.Machine().State())
	require.NotNil(t, m.sim)

	gen := m.Machine().Generation()
	for _, msg := range drain(cmd) {
		switch msg := msg.(type) {
		case imageOKMsg:
			m, _ = advance(t, m, msg)
		case focusTickMsg:
			m, _ = advance(t, m, msg)
		}
	}
	assert.Equal(t, 1, gw.imageCalls)
	assert.Equal(t, "data:image/png;base64,abc", m.Machine().ImageURL())
	assert.Equal(t, gen, m.Machine().Generation())
}

func TestFocusRunsToCollapse(t *testing.T) {
	gw := &fakeGateway{}
	m := intoRefine(t, gw, &fakeArchive{})
	m, _ = advance(t, m, enter())
	gen := m.Machine().Generation()

	for i := 0; i < 1000 && !m.Machine().Collapsed(); i++ {
		m, _ = advance(t, m, focusTickMsg{gen: gen})
	}
	assert.True(t, m.Machine().Collapsed())
	assert.Equal(t, 100, m.Machine().Progress())
	assert.True(t, m.showFlash)

	m, _ = advance(t, m, flashDoneMsg{})
	assert.False(t, m.showFlash)
}

func TestStaleTickDoesNotReschedule(t *testing.T) {
	gw := &fakeGateway{}
	m := intoRefine(t, gw, &fakeArchive{})
	m, _ = advance(t, m, enter())
	gen := m.Machine().Generation()

	// Walk away mid-run.
	m, _ = advance(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, session.StateFormulate, m.Machine().State())

	m, cmd := advance(t, m, focusTickMsg{gen: gen})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.Machine().Progress())
}

func TestLateImageAfterLeavingFocusIsIgnored(t *testing.T) {
	gw := &fakeGateway{}
	m := intoRefine(t, gw, &fakeArchive{})
	m, _ = advance(t, m, enter())
	gen := m.Machine().Generation()

	m, _ = advance(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = advance(t, m, imageOKMsg{gen: gen, url: "data:image/png;base64,late"})

	assert.Empty(t, m.Machine().ImageURL())
}

func TestImageFailureDoesNotBlockCommit(t *testing.T) {
	gw := &fakeGateway{imageErr: &gateway.ImageGenerationError{Err: errors.New("no image part")}}
	store := &fakeArchive{}
	m := intoRefine(t, gw, store)
	m, cmd := advance(t, m, enter())
	gen := m.Machine().Generation()

	for _, msg := range drain(cmd) {
		if errMsg, is := msg.(imageErrMsg); is {
			m, _ = advance(t, m, errMsg)
		}
	}

	for i := 0; i < 1000 && !m.Machine().Collapsed(); i++ {
		m, _ = advance(t, m, focusTickMsg{gen: gen})
	}
	require.True(t, m.Machine().Collapsed())

	m, _ = advance(t, m, enter())
	require.True(t, m.Machine().Committing())
	m, _ = advance(t, m, burstDoneMsg{})

	require.Len(t, store.items, 1)
	assert.Empty(t, store.items[0].ImageURL)
	assert.Equal(t, session.StateHistory, m.Machine().State())
}

func TestCommitArchivesScenario(t *testing.T) {
	gw := &fakeGateway{}
	store := &fakeArchive{}
	m := intoRefine(t, gw, store)
	m, cmd := advance(t, m, enter())
	gen := m.Machine().Generation()

	for _, msg := range drain(cmd) {
		if ok, is := msg.(imageOKMsg); is {
			m, _ = advance(t, m, ok)
		}
	}
	for i := 0; i < 1000 && !m.Machine().Collapsed(); i++ {
		m, _ = advance(t, m, focusTickMsg{gen: gen})
	}
	require.True(t, m.Machine().Collapsed())

	m, _ = advance(t, m, enter())
	// Duplicate commit while the burst plays is a no-op.
	m, cmd = advance(t, m, enter())
	assert.Nil(t, cmd)

	m, _ = advance(t, m, burstDoneMsg{})

	require.Len(t, store.items, 1)
	rec := store.items[0]
	assert.Equal(t, "I am healthy and wealthy", rec.Original)
	assert.InDelta(t, 0.87, rec.Resonance, 1e-9)
	assert.Equal(t, intention.StateCollapsed, rec.QuantumState)
	assert.Equal(t, session.StateHistory, m.Machine().State())
	assert.Empty(t, m.textarea.Value())
}

func TestHistorySelectionBounds(t *testing.T) {
	store := &fakeArchive{items: []intention.Intention{
		{ID: "b", Refined: "B"},
		{ID: "a", Refined: "A"},
	}}
	m := newTestModel(&fakeGateway{}, store)
	m, _ = advance(t, m, key('h'))
	require.Equal(t, session.StateHistory, m.Machine().State())

	m, _ = advance(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.selected)
	m, _ = advance(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = advance(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.selected)
}

func TestViewRendersEachState(t *testing.T) {
	gw := &fakeGateway{}
	store := &fakeArchive{}
	m := newTestModel(gw, store)
	assert.Contains(t, m.View(), "QUANTUM MANIFEST")

	m, _ = advance(t, m, enter())
	assert.Contains(t, m.View(), "Formulate")

	m = intoRefine(t, gw, store)
	assert.Contains(t, m.View(), "resonance 87%")

	m, _ = advance(t, m, enter())
	assert.Contains(t, m.View(), "%")

	m, _ = advance(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = advance(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = advance(t, m, key('h'))
	assert.Contains(t, m.View(), "Quantum archive")
}
