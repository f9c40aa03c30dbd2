package geo

// DefaultMinDistance is the separation threshold, in meters, used by the aggregator.
const DefaultMinDistance = 100.0

// ProgressFunc receives filter progress: candidates processed so far, total
// candidates, and the size of the accepted set.
type ProgressFunc func(processed, total, kept int)

type filterOptions struct {
	every    int
	progress ProgressFunc
}

// FilterOption configures Filter.
type FilterOption func(*filterOptions)

// WithProgress calls fn after every `every` candidates and once at the end.
func WithProgress(every int, fn ProgressFunc) FilterOption {
	return func(o *filterOptions) {
		o.every = every
		o.progress = fn
	}
}

// Filter greedily reduces candidates to a set in which every pair of points is
// at least minDistance meters apart. A nil seed means no prior result: the first
// candidate is accepted outright. A non-nil seed is copied and extended by
// testing every candidate against it. The seed is never modified.
//
// Acceptance depends on iteration order; callers wanting a reproducible result
// must fix the candidate order themselves.
func Filter(candidates, seed CoordinateSet, minDistance float64, opts ...FilterOption) CoordinateSet {
	var o filterOptions
	for _, opt := range opts {
		opt(&o)
	}

	if len(candidates) == 0 {
		return seed.Clone()
	}

	var accepted CoordinateSet
	rest := candidates
	if seed == nil {
		accepted = CoordinateSet{candidates[0]}
		rest = candidates[1:]
	} else {
		accepted = make(CoordinateSet, len(seed), len(seed)+len(candidates))
		copy(accepted, seed)
	}

	total := len(candidates)
	processed := total - len(rest)
	for _, c := range rest {
		if farFromAll(c, accepted, minDistance) {
			accepted = append(accepted, c)
		}
		processed++
		if o.progress != nil && o.every > 0 && processed%o.every == 0 {
			o.progress(processed, total, len(accepted))
		}
	}
	if o.progress != nil {
		o.progress(total, total, len(accepted))
	}

	return accepted
}

// farFromAll reports whether c is at least minDistance from every accepted point.
func farFromAll(c Coordinate, accepted CoordinateSet, minDistance float64) bool {
	for _, a := range accepted {
		if Haversine(c, a) < minDistance {
			return false
		}
	}
	return true
}
