package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// MinRows is the minimum number of data rows a loaded series must have.
const MinRows = 5

const dateFormat = "2006-01-02" // ISO 8601 date

// FormatError describes why an input series was rejected. Row is 1-based and
// counts data rows (0 when the problem is not tied to a row).
type FormatError struct {
	Field  string
	Row    int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("invalid series: %s (row %d): %s", e.Field, e.Row, e.Reason)
	}
	return fmt.Sprintf("invalid series: %s: %s", e.Field, e.Reason)
}

// Load reads a CSV series with Date, Price and Breakpoint columns (any order,
// header match is case-insensitive). Rows may arrive unsorted; the result is
// sorted by date and re-indexed from 0. Returns a *FormatError on missing
// columns, unparseable dates, non-numeric or non-positive prices, bad
// breakpoint flags, or fewer than MinRows rows.
func Load(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &FormatError{Field: "header", Reason: "file is empty"}
	}
	if err != nil {
		return nil, &FormatError{Field: "header", Reason: err.Error()}
	}

	dateCol, priceCol, bpCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "price":
			priceCol = i
		case "breakpoint":
			bpCol = i
		}
	}
	var missing []string
	if dateCol < 0 {
		missing = append(missing, "Date")
	}
	if priceCol < 0 {
		missing = append(missing, "Price")
	}
	if bpCol < 0 {
		missing = append(missing, "Breakpoint")
	}
	if len(missing) > 0 {
		return nil, &FormatError{
			Field:  strings.Join(missing, ", "),
			Reason: "missing required column(s)",
		}
	}

	var points []Point
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &FormatError{Field: "row", Row: row, Reason: err.Error()}
		}

		date, err := time.Parse(dateFormat, strings.TrimSpace(rec[dateCol]))
		if err != nil {
			return nil, &FormatError{Field: "Date", Row: row, Reason: "use YYYY-MM-DD format"}
		}

		priceStr := strings.TrimSpace(rec[priceCol])
		if priceStr == "" {
			return nil, &FormatError{Field: "Price", Row: row, Reason: "missing value"}
		}
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			return nil, &FormatError{Field: "Price", Row: row, Reason: "non-numeric value"}
		}
		if price <= 0 {
			return nil, &FormatError{Field: "Price", Row: row, Reason: "price must be positive"}
		}

		bp, err := parseBreakpoint(rec[bpCol])
		if err != nil {
			return nil, &FormatError{Field: "Breakpoint", Row: row, Reason: "use 0/1 or true/false"}
		}

		points = append(points, Point{Date: date, Price: price, Breakpoint: bp})
	}

	if len(points) < MinRows {
		return nil, &FormatError{
			Field:  "rows",
			Reason: fmt.Sprintf("need at least %d rows, got %d", MinRows, len(points)),
		}
	}

	return New(points), nil
}

// LoadFile opens and loads a CSV series from disk.
func LoadFile(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func parseBreakpoint(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("bad breakpoint flag %q", s)
	}
}
