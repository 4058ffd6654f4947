package intention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsCollapsed(t *testing.T) {
	res := &RefinementResult{
		RefinedIntention: "I enjoy complete health now",
		ResonanceScore:   0.87,
	}
	before := time.Now()
	it := New("I am healthy", res, "data:image/png;base64,abc")

	assert.NotEmpty(t, it.ID)
	assert.Equal(t, "I am healthy", it.Original)
	assert.Equal(t, "I enjoy complete health now", it.Refined)
	assert.InDelta(t, 0.87, it.Resonance, 1e-9)
	assert.Equal(t, StateCollapsed, it.QuantumState)
	assert.Equal(t, "data:image/png;base64,abc", it.ImageURL)
	assert.False(t, it.Timestamp.Before(before))
}

func TestNewMintsUniqueIDs(t *testing.T) {
	res := &RefinementResult{}
	a := New("x", res, "")
	b := New("x", res, "")
	require.NotEqual(t, a.ID, b.ID)
}

func TestShareText(t *testing.T) {
	it := Intention{
		Refined:   "I enjoy complete health now",
		Resonance: 0.87,
		Timestamp: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	text := ShareText(it)
	assert.Contains(t, text, "I enjoy complete health now")
	assert.Contains(t, text, "87%")
	assert.Contains(t, text, "2026-03-14")
	assert.Contains(t, text, "Quantum Manifest")
}
