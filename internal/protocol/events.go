// Package protocol decodes frames received on the console socket into typed
// events and encodes the commands the client sends back.
//
// Inbound frames are JSON objects tagged by a "type" field. Each recognized
// type decodes into exactly one Event variant; payload aliases are resolved
// here so nothing downstream sees the raw wire shape.
package protocol

import (
	"github.com/rileyhilliard/gsconsole/internal/power"
	"github.com/rileyhilliard/gsconsole/internal/stats"
)

// Inbound frame discriminants.
const (
	TypeConsoleOutput  = "console_output"
	TypeConsoleHistory = "console_history"
	TypeStatsUpdate    = "stats_update"
	TypePowerState     = "power_state"
	TypeAuthSuccess    = "auth_success"
	TypeError          = "error"
)

// Event is a decoded inbound frame. The set of implementations is closed.
type Event interface {
	frameType() string
}

// ConsoleOutput carries one console line to append.
type ConsoleOutput struct {
	Line string
}

// ConsoleHistory carries the full console history, replacing what the client holds.
type ConsoleHistory struct {
	Lines []string
}

// StatsUpdate carries a normalized resource sample and, when the panel
// included one, the server's power state.
type StatsUpdate struct {
	Sample   stats.Sample
	State    power.State
	HasState bool
}

// PowerStateChanged reports a power state transition.
type PowerStateChanged struct {
	State power.State
}

// AuthSuccess acknowledges the auth frame. Informational only.
type AuthSuccess struct{}

// ServerError is an error reported by the panel. The session does not surface
// it to the console stream.
type ServerError struct {
	Message string
}

func (ConsoleOutput) frameType() string     { return TypeConsoleOutput }
func (ConsoleHistory) frameType() string    { return TypeConsoleHistory }
func (StatsUpdate) frameType() string       { return TypeStatsUpdate }
func (PowerStateChanged) frameType() string { return TypePowerState }
func (AuthSuccess) frameType() string       { return TypeAuthSuccess }
func (ServerError) frameType() string       { return TypeError }
