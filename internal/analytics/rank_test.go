package analytics

import (
	"testing"
	"time"

	"github.com/oliviakdata/data-jobs-postings/internal/models"
)

// helpers shared by the aggregation tests

func salary(v float64) *float64 {
	return &v
}

func posted(month time.Month) time.Time {
	return time.Date(2023, month, 15, 0, 0, 0, 0, time.UTC)
}

func TestCounterFirstSeenTieBreak(t *testing.T) {
	c := newCounter()
	for _, key := range []string{"b", "a", "b", "c", "a", "d"} {
		c.add(key)
	}

	// b and a both count 2, c and d both count 1; first-seen wins ties
	want := []string{"b", "a", "c", "d"}
	got := c.ranked()
	if len(got) != len(want) {
		t.Fatalf("ranked() returned %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ranked()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCounterTop(t *testing.T) {
	c := newCounter()
	for _, key := range []string{"x", "y", "x", "z"} {
		c.add(key)
	}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "cut to n", n: 2, want: []string{"x", "y"}},
		{name: "n larger than keys", n: 10, want: []string{"x", "y", "z"}},
		{name: "zero", n: 0, want: []string{}},
		{name: "negative returns all", n: -1, want: []string{"x", "y", "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.top(tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("top(%d) returned %d keys, want %d", tt.n, len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("top(%d)[%d] = %q, want %q", tt.n, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "single value", values: []float64{90000}, want: 90000},
		{name: "odd length", values: []float64{110000, 90000, 100000}, want: 100000},
		{name: "even length averages middles", values: []float64{90000, 110000}, want: 100000},
		{name: "unsorted input", values: []float64{5, 1, 4, 2, 3}, want: 3},
		{name: "empty", values: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.values); got != tt.want {
				t.Errorf("median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("median mutated its input: %v", values)
	}
}

// requireRows fails the test unless the table rows match key/value pairs.
func requireRows(t *testing.T, table models.SummaryTable, want []models.Row) {
	t.Helper()
	if len(table.Rows) != len(want) {
		t.Fatalf("table %q has %d rows, want %d: %+v", table.Name, len(table.Rows), len(want), table.Rows)
	}
	for i, w := range want {
		got := table.Rows[i]
		if got.Key != w.Key || got.Value != w.Value || got.Group != w.Group {
			t.Errorf("table %q row %d = %+v, want %+v", table.Name, i, got, w)
		}
	}
}
