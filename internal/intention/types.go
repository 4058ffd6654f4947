// Package intention defines the core domain types shared across the
// session machine, the gateway adapter and the archive store.
package intention

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// QuantumState is the lifecycle status of an archived intention.
type QuantumState string

const (
	// StateSuperposition is reserved for intentions that have not yet been
	// committed. Nothing produces it today; it exists so the serialized
	// form has room for a pre-commit status later.
	StateSuperposition QuantumState = "superposition"

	// StateCollapsed marks a committed, archived intention.
	StateCollapsed QuantumState = "collapsed"
)

// Intention is one archived record. Once appended to the archive it is
// immutable.
type Intention struct {
	ID           string       `json:"id"`
	Original     string       `json:"original"`
	Refined      string       `json:"refined"`
	Resonance    float64      `json:"resonance"`
	Timestamp    time.Time    `json:"timestamp"`
	QuantumState QuantumState `json:"quantumState"`
	ImageURL     string       `json:"imageUrl,omitempty"`
}

// RefinementResult is the structured output of one refine call. It lives
// for a single formulate->focus cycle and is discarded on reset or commit.
type RefinementResult struct {
	RefinedIntention string   `json:"refinedIntention"`
	Explanation      string   `json:"explanation"`
	ResonanceScore   float64  `json:"resonanceScore"`
	FocusKeywords    []string `json:"focusKeywords"`
	VisualPrompt     string   `json:"visualPrompt"`
}

// New assembles a collapsed Intention from the raw draft, its refinement
// and an optional anchor image URL.
func New(original string, res *RefinementResult, imageURL string) Intention {
	return Intention{
		ID:           uuid.NewString(),
		Original:     original,
		Refined:      res.RefinedIntention,
		Resonance:    res.ResonanceScore,
		Timestamp:    time.Now(),
		QuantumState: StateCollapsed,
		ImageURL:     imageURL,
	}
}

// ShareText formats the clipboard summary for one archived intention.
func ShareText(it Intention) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I observed a new reality: %q\n", it.Refined)
	fmt.Fprintf(&b, "Resonance %d%% · anchored %s\n", int(it.Resonance*100+0.5), it.Timestamp.Format("2006-01-02"))
	b.WriteString("Committed via Quantum Manifest.")
	return b.String()
}
