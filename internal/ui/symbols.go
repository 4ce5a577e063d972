package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Operation succeeded
	SymbolFail     = "✗" // Operation failed
	SymbolWarning  = "⚠"
	SymbolPending  = "○" // Not connected
	SymbolProgress = "◐" // Connecting, starting, stopping
	SymbolComplete = "●" // Connected, running
	SymbolDisabled = "⊘" // Control unavailable in the current state
)
