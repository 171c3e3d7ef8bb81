// Package bloom provides a probabilistic prefilter for visited URLs.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Default sizing used when NewFilter is given zero values.
const (
	DefaultCapacity = 10000
	DefaultFPRate   = 0.01
)

// Filter answers "definitely not seen" for URLs without touching an exact set.
// Filter is not safe for concurrent use; callers serialize access.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = DefaultCapacity
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultFPRate
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records url in the filter.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test reports whether url might have been added.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// TestAndAdd adds url and reports whether it might have been present before.
func (f *Filter) TestAndAdd(url string) bool {
	return f.f.TestAndAddString(url)
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// FalsePositiveRate estimates the current false positive probability
// given the number of URLs added so far.
func (f *Filter) FalsePositiveRate() float64 {
	return bloom.EstimateFalsePositiveRate(f.f.Cap(), f.f.K(), f.EstimatedCount())
}
