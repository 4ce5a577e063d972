package power

import (
	"fmt"
	"strings"
)

// Action is a power intent the user can send. The server is authoritative
// for the resulting state.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
	ActionKill    Action = "kill"
)

// Actions lists every action in display order.
var Actions = []Action{ActionStart, ActionStop, ActionRestart, ActionKill}

// ParseAction parses a user-supplied action name.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown power action %q (want start, stop, restart or kill)", s)
}

// Enabled reports whether an action should be offered in the given state.
//
//	start    disabled while running or starting
//	stop     disabled while offline
//	restart  disabled while offline
//	kill     disabled while offline
func Enabled(a Action, s State) bool {
	switch a {
	case ActionStart:
		return s != Running && s != Starting
	case ActionStop, ActionRestart, ActionKill:
		return s != Offline
	default:
		return false
	}
}

// RequiresConfirmation reports whether an action must be confirmed before the
// intent is sent. Only kill is gated: it terminates uncleanly and can lose data.
func RequiresConfirmation(a Action) bool {
	return a == ActionKill
}

// Affordances returns the enabled flag of every action for the given state.
func Affordances(s State) map[Action]bool {
	out := make(map[Action]bool, len(Actions))
	for _, a := range Actions {
		out[a] = Enabled(a, s)
	}
	return out
}
