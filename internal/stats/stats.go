// Package stats keeps the resource samples reported for a game server and
// the time-bounded window used for charting them.
package stats

import "time"

// DefaultWindow is how far back the chart window reaches.
const DefaultWindow = 60 * time.Second

// Sample is the canonical resource usage shape. Wire payloads are normalized
// into this struct by the protocol codec before anything else sees them.
type Sample struct {
	CPUPercent       float64
	MemoryBytes      uint64
	MemoryLimitBytes uint64
	DiskBytes        uint64
	DiskLimitBytes   uint64
	NetworkRxBytes   uint64
	NetworkTxBytes   uint64
	// Uptime as reported by the panel, in milliseconds.
	Uptime uint64
}

// MemoryPercent returns memory use as a percentage of the limit, or 0 when
// the limit is unknown.
func (s Sample) MemoryPercent() float64 {
	if s.MemoryLimitBytes == 0 {
		return 0
	}
	return float64(s.MemoryBytes) / float64(s.MemoryLimitBytes) * 100
}

// DiskPercent returns disk use as a percentage of the limit, or 0 when the
// limit is unknown.
func (s Sample) DiskPercent() float64 {
	if s.DiskLimitBytes == 0 {
		return 0
	}
	return float64(s.DiskBytes) / float64(s.DiskLimitBytes) * 100
}

// Point is one charted entry. Values are stored raw; clamping to 0-100 is
// left to whatever renders them.
type Point struct {
	Timestamp     time.Time
	CPUPercent    float64
	MemoryPercent float64
}
