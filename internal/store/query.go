package store

import (
	entsql "entgo.io/ent/dialect/sql"
)

// applyQueryOpts adds the common sequence, time and limit filters to s and
// orders results newest first.
func applyQueryOpts(s *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if opts.After > 0 {
		s.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		s.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		s.Where(entsql.GTE("timestamp_ms", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		s.Where(entsql.LTE("timestamp_ms", opts.To.UnixMilli()))
	}
	s.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}
	return s
}
