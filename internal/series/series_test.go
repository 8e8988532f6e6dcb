package series

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const validCSV = `Date,Price,Breakpoint
2024-01-03,186.75,1
2024-01-01,185.25,0
2024-01-02,187.30,false
2024-01-04,188.20,true
2024-01-05,189.80,0
2024-01-06,188.90,1
`

func mustLoad(t *testing.T, csv string) *Series {
	t.Helper()
	s, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	return s
}

func TestLoad_SortsAndReindexes(t *testing.T) {
	s := mustLoad(t, validCSV)

	if s.Len() != 6 {
		t.Fatalf("len got %d", s.Len())
	}
	for i := 0; i < s.Len(); i++ {
		if s.At(i).Index != i {
			t.Fatalf("index %d got %d", i, s.At(i).Index)
		}
		if i > 0 && !s.At(i).Date.After(s.At(i-1).Date) {
			t.Fatalf("dates not ascending at %d", i)
		}
	}
	// Rows arrived unsorted; after sorting, 2024-01-01 must be first.
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !s.At(0).Date.Equal(want) {
		t.Fatalf("first date got %v", s.At(0).Date)
	}
}

func TestLoad_Breakpoints(t *testing.T) {
	s := mustLoad(t, validCSV)

	got := s.Breakpoints()
	want := []int{2, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("breakpoints got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("breakpoints got %v want %v", got, want)
		}
	}

	if bp, ok := s.NextBreakpoint(2); !ok || bp != 3 {
		t.Fatalf("NextBreakpoint(2) got %d ok=%v", bp, ok)
	}
	if _, ok := s.NextBreakpoint(5); ok {
		t.Fatalf("expected no breakpoint after 5")
	}
}

func TestLoad_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		csv   string
		field string
	}{
		{
			name:  "missing column",
			csv:   "Date,Price\n2024-01-01,1.0\n",
			field: "Breakpoint",
		},
		{
			name:  "bad date",
			csv:   "Date,Price,Breakpoint\n01/02/2024,1.0,0\n2024-01-02,1.0,0\n2024-01-03,1.0,0\n2024-01-04,1.0,0\n2024-01-05,1.0,0\n",
			field: "Date",
		},
		{
			name:  "non-numeric price",
			csv:   "Date,Price,Breakpoint\n2024-01-01,abc,0\n2024-01-02,1.0,0\n2024-01-03,1.0,0\n2024-01-04,1.0,0\n2024-01-05,1.0,0\n",
			field: "Price",
		},
		{
			name:  "negative price",
			csv:   "Date,Price,Breakpoint\n2024-01-01,-5,0\n2024-01-02,1.0,0\n2024-01-03,1.0,0\n2024-01-04,1.0,0\n2024-01-05,1.0,0\n",
			field: "Price",
		},
		{
			name:  "bad breakpoint flag",
			csv:   "Date,Price,Breakpoint\n2024-01-01,1.0,maybe\n2024-01-02,1.0,0\n2024-01-03,1.0,0\n2024-01-04,1.0,0\n2024-01-05,1.0,0\n",
			field: "Breakpoint",
		},
		{
			name:  "too few rows",
			csv:   "Date,Price,Breakpoint\n2024-01-01,1.0,0\n2024-01-02,1.0,0\n",
			field: "rows",
		},
		{
			name:  "empty file",
			csv:   "",
			field: "header",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.csv))
			if err == nil {
				t.Fatalf("expected error")
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FormatError, got %T: %v", err, err)
			}
			if !strings.Contains(fe.Field, tc.field) {
				t.Fatalf("field got %q want %q", fe.Field, tc.field)
			}
		})
	}
}

func TestLoad_HeaderCaseInsensitive(t *testing.T) {
	csv := "date,PRICE,breakpoint\n2024-01-01,1.0,0\n2024-01-02,1.0,0\n2024-01-03,1.0,0\n2024-01-04,1.0,0\n2024-01-05,1.0,1\n"
	s := mustLoad(t, csv)
	if got := s.Breakpoints(); len(got) != 1 || got[0] != 4 {
		t.Fatalf("breakpoints got %v", got)
	}
}

func TestLoad_DuplicateDatesKeepInputOrder(t *testing.T) {
	// Duplicate dates are not rejected; the stable sort keeps their input
	// order, matching the sort-and-reindex behavior of the loader contract.
	csv := "Date,Price,Breakpoint\n" +
		"2024-01-02,20.0,0\n" +
		"2024-01-01,10.0,0\n" +
		"2024-01-02,30.0,1\n" +
		"2024-01-03,40.0,0\n" +
		"2024-01-04,50.0,0\n"
	s := mustLoad(t, csv)

	if s.Price(1) != 20.0 || s.Price(2) != 30.0 {
		t.Fatalf("duplicate-date order got %v, %v", s.Price(1), s.Price(2))
	}
	if got := s.Breakpoints(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("breakpoints got %v", got)
	}
}

func TestVisible_MasksFuture(t *testing.T) {
	s := mustLoad(t, validCSV)

	vis := s.Visible(2)
	if len(vis) != 3 {
		t.Fatalf("visible len got %d", len(vis))
	}
	if vis[len(vis)-1].Index != 2 {
		t.Fatalf("last visible index got %d", vis[len(vis)-1].Index)
	}

	if got := s.Visible(-1); got != nil {
		t.Fatalf("Visible(-1) got %v", got)
	}
	if got := s.Visible(100); len(got) != s.Len() {
		t.Fatalf("Visible past end got %d points", len(got))
	}
}

func TestSample_IsValid(t *testing.T) {
	s := Sample()
	if s.Len() < MinRows {
		t.Fatalf("sample too short: %d", s.Len())
	}
	if len(s.Breakpoints()) == 0 {
		t.Fatalf("sample has no breakpoints")
	}
	for i := 0; i < s.Len(); i++ {
		if s.Price(i) <= 0 {
			t.Fatalf("sample price %d not positive", i)
		}
	}
}
