package series

import "time"

// Sample returns a built-in series so the simulator can run without a data
// file: 30 trading days of swinging prices with a decision point roughly every
// five days.
func Sample() *Series {
	prices := []float64{
		185.25, 187.30, 186.75, 188.20, 189.80,
		188.90, 190.40, 191.75, 192.20, 191.50,
		193.30, 194.15, 193.80, 191.25, 188.40,
		186.10, 184.75, 185.90, 187.45, 189.20,
		191.80, 193.55, 195.10, 194.30, 192.85,
		194.60, 196.25, 197.90, 196.70, 198.45,
	}
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	points := make([]Point, len(prices))
	for i, p := range prices {
		points[i] = Point{
			Date:       start.AddDate(0, 0, i),
			Price:      p,
			Breakpoint: i > 0 && i%5 == 0,
		}
	}
	return New(points)
}
