// Package power maps the panel's power-state encodings onto one canonical
// State and derives which power actions the UI may offer.
package power

import "strings"

// State is the game server process's coarse lifecycle phase.
type State int

const (
	Offline State = iota
	Starting
	Running
	Stopping
)

// String returns the lowercase wire name of the state.
func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "offline"
	}
}

// FromNumber maps the numeric enum used by some panel versions.
// Anything outside 0-3 (including the documented 4) is offline.
func FromNumber(n int64) State {
	switch n {
	case 1:
		return Starting
	case 2:
		return Running
	case 3:
		return Stopping
	default:
		return Offline
	}
}

// FromString matches the string form case-insensitively.
// Unrecognized strings are offline.
func FromString(s string) State {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "running":
		return Running
	case "starting":
		return Starting
	case "stopping":
		return Stopping
	default:
		return Offline
	}
}

// Tracker holds the latest known power state. The last frame to arrive wins;
// there is no ordering reconciliation beyond arrival order.
type Tracker struct {
	state State
}

// State returns the current power state.
func (t *Tracker) State() State {
	return t.state
}

// Set records a state reported by the server.
func (t *Tracker) Set(s State) {
	t.state = s
}

// Reset forces the state back to offline. Called on every disconnect so a
// stale "running" is never shown for a server we can no longer see.
func (t *Tracker) Reset() {
	t.state = Offline
}
