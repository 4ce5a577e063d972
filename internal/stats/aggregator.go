package stats

import "time"

// Aggregator tracks the latest sample and feeds the chart window.
// It is owned by a single session and is not safe for concurrent use.
type Aggregator struct {
	window *Window
	latest Sample
	have   bool
	now    func() time.Time
}

// NewAggregator creates an aggregator with the given window horizon.
// A nil clock defaults to time.Now.
func NewAggregator(horizon time.Duration, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		window: NewWindow(horizon),
		now:    now,
	}
}

// Ingest records a normalized sample, stamping it with the current time.
func (a *Aggregator) Ingest(s Sample) Point {
	p := Point{
		Timestamp:     a.now(),
		CPUPercent:    s.CPUPercent,
		MemoryPercent: s.MemoryPercent(),
	}
	a.latest = s
	a.have = true
	a.window.Add(p)
	return p
}

// Latest returns the most recent sample and whether one has arrived yet.
func (a *Aggregator) Latest() (Sample, bool) {
	return a.latest, a.have
}

// Points returns a copy of the chart window, oldest first.
func (a *Aggregator) Points() []Point {
	return a.window.Points()
}

// CPUSeries extracts the CPU values of points.
func CPUSeries(points []Point) []float64 {
	return series(points, func(p Point) float64 { return p.CPUPercent })
}

// MemorySeries extracts the memory percentages of points.
func MemorySeries(points []Point) []float64 {
	return series(points, func(p Point) float64 { return p.MemoryPercent })
}

func series(points []Point, pick func(Point) float64) []float64 {
	if len(points) == 0 {
		return nil
	}
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = pick(p)
	}
	return out
}
