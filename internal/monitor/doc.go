// Package monitor implements the full-screen console dashboard for one game
// server session.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds dashboard state (latest session snapshot, console surface, input line)
//   - Update: Processes messages (keystrokes, mouse scrolls, session updates)
//   - View: Renders the current state to a string for display
//
// The model never mutates session state. It reads snapshots from a Controller
// and sends intents (commands, power actions) back through it.
//
// # Message Flow
//
//  1. waitForUpdate blocks on the session's Updates channel
//  2. updateMsg arrives; the model takes a Snapshot and syncs the console
//     bridge, which writes only unseen lines into the viewport
//  3. View() re-renders the dashboard
//  4. When the session loop exits, sessionClosedMsg quits the program
//
// # Console
//
// Console lines are written through terminal.Bridge into a viewport. New
// lines pull the viewport to the bottom only while the viewer is at the
// bottom; scrolling up pauses following until End or scrolling back down.
// Typed characters accumulate on the input line and Enter sends them.
//
// # Power Controls
//
//	F1  start     disabled while running or starting
//	F2  stop      disabled while offline
//	F3  restart   disabled while offline
//	F4  kill      disabled while offline; asks for confirmation first
//
// All power controls are disabled while the session is not connected.
package monitor
