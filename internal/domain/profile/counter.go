package profile

// Counter is an insertion-ordered frequency counter. Most-common lookups
// break ties in favor of the first value seen, so aggregation order is
// stable across rebuilds from the same history snapshot.
type Counter struct {
	counts map[string]int
	order  []string
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add increments the count for value. Empty values are ignored: a blank
// code is missing data, not an observation, so profiles built from
// uncoded history degrade to "no dominant value" instead of reporting a
// dominant empty string.
func (c *Counter) Add(value string) {
	if value == "" {
		return
	}
	if _, seen := c.counts[value]; !seen {
		c.order = append(c.order, value)
	}
	c.counts[value]++
}

// MostCommon returns the value with the highest count, or false when the
// counter is empty. Ties resolve to the earliest-inserted value.
func (c *Counter) MostCommon() (string, bool) {
	if len(c.order) == 0 {
		return "", false
	}
	best := c.order[0]
	bestCount := c.counts[best]
	for _, value := range c.order[1:] {
		if c.counts[value] > bestCount {
			best = value
			bestCount = c.counts[value]
		}
	}
	return best, true
}
