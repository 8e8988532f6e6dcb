package series

import (
	"sort"
	"time"
)

// Point is a single day in a price series.
type Point struct {
	Index      int
	Date       time.Time
	Price      float64
	Breakpoint bool
}

// Series is an ordered, immutable price series. Points are sorted by date
// ascending and indexed densely from 0. Build one with Load or New.
type Series struct {
	points      []Point
	breakpoints []int
}

// New builds a Series from raw points: sorts by date (stable, so rows with
// equal dates keep their input order), re-indexes from 0 and extracts the
// breakpoint positions. Callers that need validation should use Load instead.
func New(points []Point) *Series {
	ps := make([]Point, len(points))
	copy(ps, points)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Date.Before(ps[j].Date) })

	var bps []int
	for i := range ps {
		ps[i].Index = i
		if ps[i].Breakpoint {
			bps = append(bps, i)
		}
	}
	return &Series{points: ps, breakpoints: bps}
}

// Len returns the number of points.
func (s *Series) Len() int { return len(s.points) }

// At returns the point at index i. Panics if i is out of range, like a slice.
func (s *Series) At(i int) Point { return s.points[i] }

// LastIndex returns the index of the final point.
func (s *Series) LastIndex() int { return len(s.points) - 1 }

// Price returns the price at index i.
func (s *Series) Price(i int) float64 { return s.points[i].Price }

// Breakpoints returns the ascending indices where trading is permitted.
func (s *Series) Breakpoints() []int {
	out := make([]int, len(s.breakpoints))
	copy(out, s.breakpoints)
	return out
}

// IsBreakpoint reports whether index i is a trading decision point.
func (s *Series) IsBreakpoint(i int) bool {
	return i >= 0 && i < len(s.points) && s.points[i].Breakpoint
}

// NextBreakpoint returns the first breakpoint index strictly greater than
// after, or false if none remains.
func (s *Series) NextBreakpoint(after int) (int, bool) {
	for _, bp := range s.breakpoints {
		if bp > after {
			return bp, true
		}
	}
	return 0, false
}

// Visible returns the points up to and including idx. Presentation layers use
// this to reveal the series progressively without seeing future prices.
func (s *Series) Visible(idx int) []Point {
	if idx < 0 {
		return nil
	}
	if idx >= len(s.points) {
		idx = len(s.points) - 1
	}
	out := make([]Point, idx+1)
	copy(out, s.points[:idx+1])
	return out
}
