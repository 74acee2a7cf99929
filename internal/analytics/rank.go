package analytics

import (
	"sort"
)

// counter accumulates occurrence counts and remembers the order keys
// were first seen. Equal counts rank in first-seen order, which keeps
// every top-N selection deterministic across runs.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) count(key string) int {
	return c.counts[key]
}

// ranked returns all keys ordered by count descending, ties broken by
// first-seen order.
func (c *counter) ranked() []string {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	return keys
}

// top returns the n highest-counted keys in ranked order. A negative n
// returns all keys.
func (c *counter) top(n int) []string {
	keys := c.ranked()
	if n >= 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// median returns the middle value of values, averaging the two middle
// values for even lengths. The input slice is left untouched. An empty
// input yields 0; callers only invoke it with at least one sample.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
