// Package gesture detects a double press of a single key.
package gesture

import (
	"time"

	"summon/internal/input"
)

// State is the detector's position in the double-press sequence.
type State int

const (
	// Idle has no baseline press.
	Idle State = iota
	// Armed has a baseline press and no release since.
	Armed
	// ReleasedArmed has a baseline press followed by a release.
	ReleasedArmed
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case ReleasedArmed:
		return "released-armed"
	default:
		return "idle"
	}
}

// Detector fires on the second press of the target key when the key was
// released in between and both presses fall within the interval. A key held
// down produces a stream of presses without releases and never fires.
type Detector struct {
	interval time.Duration
	target   input.Key

	lastPress  time.Time
	hasPress   bool
	sawRelease bool
}

func NewDetector(interval time.Duration, target input.Key) *Detector {
	return &Detector{interval: interval, target: target}
}

// OnPress records a key press and reports whether it completes a double press.
func (d *Detector) OnPress(key input.Key, now time.Time) bool {
	if key != d.target {
		return false
	}

	if d.hasPress && d.sawRelease && now.Sub(d.lastPress) <= d.interval {
		// reset so a third press cannot chain into another trigger
		d.hasPress = false
		d.sawRelease = false
		d.lastPress = time.Time{}
		return true
	}

	d.lastPress = now
	d.hasPress = true
	d.sawRelease = false
	return false
}

// OnRelease records a key release. It never triggers.
func (d *Detector) OnRelease(key input.Key, _ time.Time) {
	if key != d.target || !d.hasPress {
		return
	}
	d.sawRelease = true
}

func (d *Detector) State() State {
	switch {
	case !d.hasPress:
		return Idle
	case d.sawRelease:
		return ReleasedArmed
	default:
		return Armed
	}
}

func (d *Detector) Target() input.Key {
	return d.target
}
