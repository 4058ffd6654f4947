// Package focus drives the simulated focus counter. The counter paces the
// narrative while the anchor-image request runs in the background; the two
// are unsynchronized on purpose, so the image may land before or after the
// counter reaches 100.
package focus

import (
	"math/rand"
	"time"
)

// DefaultTickInterval is the reference pacing of the original sequence.
const DefaultTickInterval = 60 * time.Millisecond

// fastPhaseStart is the counter value at which stepping switches from the
// slow to the fast phase. The phase is chosen by the value at the start of
// the tick, so a tick straddling the boundary still uses the slow step.
const fastPhaseStart = 80.0

// Messages are the five narrative lines shown while focusing. The active
// line changes at 0, 20, 40, 60 and 80.
var Messages = [...]string{
	"Observing the superposition of probabilities in the unified field...",
	"Neutralizing scatter and directing the observer's awareness...",
	"Encoding the chosen frequency into the consciousness matrix...",
	"Initiating wave-function collapse toward the selected reality...",
	"Fixing the visual anchor for material manifestation...",
}

// MessageIndex maps a progress value to its narrative line:
// floor(progress/20), clamped to the last index.
func MessageIndex(progress int) int {
	idx := progress / 20
	if idx < 0 {
		idx = 0
	}
	if idx > len(Messages)-1 {
		idx = len(Messages) - 1
	}
	return idx
}

// Message returns the narrative line for a progress value.
func Message(progress int) string {
	return Messages[MessageIndex(progress)]
}

// Simulator advances a synthetic 0-100 counter with a random step per tick:
// [0.3, 0.8) below 80, [1.2, 3.2) at or above. The displayed value is the
// floor of the counter, clamped to 100 on overshoot. Not safe for
// concurrent use.
type Simulator struct {
	counter float64
	rng     *rand.Rand
	done    bool
}

// NewSimulator returns a simulator at zero. A nil rng falls back to a
// time-seeded source; tests inject a fixed seed.
func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{rng: rng}
}

// Tick advances one step and returns the new display value. Once the
// counter hits 100 the simulator is terminal and further ticks are no-ops.
func (s *Simulator) Tick() int {
	if s.done {
		return 100
	}
	var step float64
	if s.counter < fastPhaseStart {
		step = 0.3 + s.rng.Float64()*0.5
	} else {
		step = 1.2 + s.rng.Float64()*2.0
	}
	s.counter += step
	if s.counter >= 100 {
		s.counter = 100
		s.done = true
	}
	return s.Display()
}

// Display returns the floored, clamped counter.
func (s *Simulator) Display() int {
	if s.done {
		return 100
	}
	return int(s.counter)
}

// Done reports whether the counter has reached 100.
func (s *Simulator) Done() bool { return s.done }
