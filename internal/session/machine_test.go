package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifest/internal/intention"
)

func sampleResult() *intention.RefinementResult {
	return &intention.RefinementResult{
		RefinedIntention: "I enjoy complete health and sustained abundance now",
		Explanation:      "The observer effect is concentrating energy into this version of reality.",
		ResonanceScore:   0.87,
		FocusKeywords:    []string{"abundance", "harmony"},
		VisualPrompt:     "a sunlit valley with golden light",
	}
}

// confirmInto drives a fresh machine into Focus and returns it with the
// active generation.
func confirmInto(t *testing.T, draft string) (*Machine, uint64) {
	t.Helper()
	m := New()
	require.NoError(t, m.Start())
	m.SetDraft(draft)
	require.NoError(t, m.Submit())
	m.RefineSucceeded(sampleResult())
	gen, err := m.Confirm()
	require.NoError(t, err)
	return m, gen
}

func TestInitialStateIsWelcome(t *testing.T) {
	m := New()
	assert.Equal(t, StateWelcome, m.State())
}

func TestStartClearsDraft(t *testing.T) {
	m := New()
	require.NoError(t, m.Start())
	assert.Equal(t, StateFormulate, m.State())
	assert.Empty(t, m.Draft())
}

func TestSubmitRejectsWhitespaceDraft(t *testing.T) {
	m := New()
	require.NoError(t, m.Start())
	m.SetDraft("   \t\n ")
	err := m.Submit()
	assert.ErrorIs(t, err, ErrEmptyDraft)
	assert.Equal(t, StateFormulate, m.State())
	assert.False(t, m.Loading())
}

func TestSubmitRejectedWhileLoading(t *testing.T) {
	m := New()
	require.NoError(t, m.Start())
	m.SetDraft("I am healthy")
	require.NoError(t, m.Submit())
	assert.ErrorIs(t, m.Submit(), ErrBadTransition)
}

func TestRefineFailureKeepsDraftVerbatim(t *testing.T) {
	m := New()
	require.NoError(t, m.Start())
	m.SetDraft("  I am healthy and wealthy  ")
	require.NoError(t, m.Submit())
	require.True(t, m.Loading())

	m.RefineFailed()

	assert.Equal(t, StateFormulate, m.State())
	assert.False(t, m.Loading())
	assert.Equal(t, "  I am healthy and wealthy  ", m.Draft())
	assert.Nil(t, m.Result())
}

func TestDraftFrozenWhileLoading(t *testing.T) {
	m := New()
	require.NoError(t, m.Start())
	m.SetDraft("original")
	require.NoError(t, m.Submit())
	m.SetDraft("mutated")
	assert.Equal(t, "original", m.Draft())
}

func TestRefineResultAfterNavigationIsDropped(t *testing.T) {
	m := New()
	require.NoError(t, m.Start())
	m.SetDraft("I am healthy")
	require.NoError(t, m.Submit())
	require.NoError(t, m.Navigate(StateWelcome))

	m.RefineSucceeded(sampleResult())

	assert.Equal(t, StateWelcome, m.State())
	assert.Nil(t, m.Result())
}

func TestConfirmRequiresResult(t *testing.T) {
	m := New()
	require.NoError(t, m.Start())
	_, err := m.Confirm()
	assert.ErrorIs(t, err, ErrBadTransition)
}

func TestResetDiscardsResult(t *testing.T) {
	m := New()
	require.NoError(t, m.Start())
	m.SetDraft("I am healthy")
	require.NoError(t, m.Submit())
	m.RefineSucceeded(sampleResult())
	require.Equal(t, StateRefine, m.State())

	require.NoError(t, m.ResetRefinement())
	assert.Equal(t, StateFormulate, m.State())
	assert.Nil(t, m.Result())
	assert.Equal(t, "I am healthy", m.Draft())
}

func TestConfirmResetsFocusFields(t *testing.T) {
	m, gen := confirmInto(t, "I am healthy")
	assert.Equal(t, StateFocus, m.State())
	assert.Equal(t, 0, m.Progress())
	assert.Empty(t, m.ImageURL())
	assert.False(t, m.Collapsed())
	assert.Equal(t, gen, m.Generation())
}

func TestApplyProgressReachesCollapse(t *testing.T) {
	m, gen := confirmInto(t, "I am healthy")
	assert.True(t, m.ApplyProgress(gen, 40))
	assert.Equal(t, 40, m.Progress())
	assert.True(t, m.ApplyProgress(gen, 100))
	assert.True(t, m.Collapsed())

	// Terminal: further ticks are ignored.
	assert.False(t, m.ApplyProgress(gen, 100))
}

func TestApplyProgressNeverRegresses(t *testing.T) {
	m, gen := confirmInto(t, "I am healthy")
	require.True(t, m.ApplyProgress(gen, 50))
	require.True(t, m.ApplyProgress(gen, 30))
	assert.Equal(t, 50, m.Progress())
}

func TestStaleProgressIgnored(t *testing.T) {
	m, gen := confirmInto(t, "I am healthy")
	require.NoError(t, m.Navigate(StateFormulate))
	assert.False(t, m.ApplyProgress(gen, 60))
	assert.Equal(t, 0, m.Progress())
}

func TestLateImageAfterLeavingFocusIsDiscarded(t *testing.T) {
	m, gen := confirmInto(t, "I am healthy")
	require.NoError(t, m.Navigate(StateFormulate))

	assert.False(t, m.ApplyImage(gen, "data:image/png;base64,xyz"))
	assert.Empty(t, m.ImageURL())

	// A whole new run must not see the old response either.
	m.RefineSucceeded(sampleResult())
	gen2, err := m.Confirm()
	require.NoError(t, err)
	assert.False(t, m.ApplyImage(gen, "data:image/png;base64,xyz"))
	assert.True(t, m.ApplyImage(gen2, "data:image/png;base64,abc"))
	assert.Equal(t, "data:image/png;base64,abc", m.ImageURL())
}

func TestCommitIsDebounced(t *testing.T) {
	m, gen := confirmInto(t, "I am healthy")
	require.True(t, m.ApplyProgress(gen, 100))

	require.NoError(t, m.BeginCommit())
	assert.ErrorIs(t, m.BeginCommit(), ErrAlreadyCommitting)
	assert.ErrorIs(t, m.Navigate(StateWelcome), ErrAlreadyCommitting)
}

func TestCommitBeforeCollapseRejected(t *testing.T) {
	m, gen := confirmInto(t, "I am healthy")
	require.True(t, m.ApplyProgress(gen, 99))
	assert.ErrorIs(t, m.BeginCommit(), ErrBadTransition)
}

func TestFullManifestationScenario(t *testing.T) {
	m, gen := confirmInto(t, "I am healthy and wealthy")
	require.True(t, m.ApplyImage(gen, "data:image/png;base64,abc"))
	require.True(t, m.ApplyProgress(gen, 100))
	require.NoError(t, m.BeginCommit())

	rec, err := m.CompleteCommit()
	require.NoError(t, err)

	assert.Equal(t, "I am healthy and wealthy", rec.Original)
	assert.Equal(t, "I enjoy complete health and sustained abundance now", rec.Refined)
	assert.InDelta(t, 0.87, rec.Resonance, 1e-9)
	assert.Equal(t, intention.StateCollapsed, rec.QuantumState)
	assert.Equal(t, "data:image/png;base64,abc", rec.ImageURL)
	assert.NotEmpty(t, rec.ID)

	assert.Equal(t, StateHistory, m.State())
	assert.Empty(t, m.Draft())
	assert.Nil(t, m.Result())
	assert.Empty(t, m.ImageURL())
	assert.False(t, m.Committing())
}

func TestCommitWithoutImageSucceeds(t *testing.T) {
	m, gen := confirmInto(t, "I am healthy")
	require.True(t, m.ApplyProgress(gen, 100))
	require.NoError(t, m.BeginCommit())

	rec, err := m.CompleteCommit()
	require.NoError(t, err)
	assert.Empty(t, rec.ImageURL)
	assert.Equal(t, intention.StateCollapsed, rec.QuantumState)
}

func TestNavigateTargets(t *testing.T) {
	m := New()
	assert.ErrorIs(t, m.Navigate(StateRefine), ErrBadTransition)
	assert.ErrorIs(t, m.Navigate(StateFocus), ErrBadTransition)
	require.NoError(t, m.Navigate(StateHistory))
	require.NoError(t, m.Navigate(StateFormulate))
	require.NoError(t, m.Navigate(StateWelcome))
}
