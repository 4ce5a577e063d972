// Package ui provides shared terminal styling for gsconsole's CLI output and
// dashboard.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Connected, running
//	ColorError     (red)    - Errors, offline
//	ColorWarning   (yellow) - Transitional states (starting, stopping, connecting)
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, disabled controls
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
//
// # Badges
//
// ConnectionBadge and PowerBadge render a symbol plus label for a session's
// connection status and server power state.
package ui
