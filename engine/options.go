package engine

// ============================================================================
// GROUPING OPTIONS — Functional options for GroupBy()
// ============================================================================

// Option configures GroupBy via functional options pattern.
type Option func(*config)

type config struct {
	MinGroupSize int    // groups with fewer rows are dropped
	SortField    string // reduced field to sort by; empty keeps discovery order
	SortDesc     bool
	Limit        int // 0 = all
}

// WithMinGroupSize drops groups with fewer than n rows.
func WithMinGroupSize(n int) Option {
	return func(c *config) {
		c.MinGroupSize = n
	}
}

// WithSort orders groups by a reduced field (or "count").
func WithSort(field string, desc bool) Option {
	return func(c *config) {
		c.SortField = field
		c.SortDesc = desc
	}
}

// WithLimit keeps at most n groups after sorting.
func WithLimit(n int) Option {
	return func(c *config) {
		c.Limit = n
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
