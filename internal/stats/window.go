package stats

import "time"

// Window is a time-ordered sequence of points where every retained point is
// younger than the horizon. Old points are purged on insertion, never on a
// timer, so the window is exact at every Add.
type Window struct {
	horizon time.Duration
	points  []Point
}

// NewWindow creates a window that keeps points younger than horizon.
func NewWindow(horizon time.Duration) *Window {
	if horizon <= 0 {
		horizon = DefaultWindow
	}
	return &Window{horizon: horizon}
}

// Add appends a point and drops every point with now - timestamp >= horizon,
// where now is the new point's timestamp.
func (w *Window) Add(p Point) {
	w.points = append(w.points, p)
	w.purge(p.Timestamp)
}

func (w *Window) purge(now time.Time) {
	i := 0
	for i < len(w.points) && now.Sub(w.points[i].Timestamp) >= w.horizon {
		i++
	}
	if i == 0 {
		return
	}
	n := copy(w.points, w.points[i:])
	for j := n; j < len(w.points); j++ {
		w.points[j] = Point{}
	}
	w.points = w.points[:n]
}

// Points returns a copy of the retained points, oldest first.
func (w *Window) Points() []Point {
	if len(w.points) == 0 {
		return nil
	}
	out := make([]Point, len(w.points))
	copy(out, w.points)
	return out
}

// Len returns the number of retained points.
func (w *Window) Len() int {
	return len(w.points)
}
