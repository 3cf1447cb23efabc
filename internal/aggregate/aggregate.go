// Package aggregate turns raw per-activation rows into deduplicated
// per-dealer totals and the rollup views built on top of them.
//
// The pipeline is pure: every stage takes materialized inputs and
// returns freshly allocated output, so two concurrent computations for
// the same period produce identical results. All outputs are sorted
// explicitly; nothing depends on input order or map iteration order.
package aggregate

import (
	"sort"

	"github.com/omniapartners/incentive-engine/internal/bucket"
	"github.com/omniapartners/incentive-engine/internal/domain"
)

// ProvinceUnknown is the sentinel province for dealers with no declared
// province. Rows under it are counted in dealer totals but excluded
// from every numeric province sum.
const ProvinceUnknown = "N/D"

// DealerAggregate is the deduplicated per-dealer record for one period.
//
// Values holds exactly one running total per classified bucket.
// Unclassified preserves rows whose (operator, category) matched no
// normalization rule, keyed by their original label; they stay visible
// for audit but never enter goal evaluation.
type DealerAggregate struct {
	Key          string                 `json:"key"`
	DisplayName  string                 `json:"displayName"`
	Province     string                 `json:"province"`
	Values       map[bucket.Key]float64 `json:"-"`
	Unclassified map[string]float64     `json:"-"`
	Provenance   domain.Provenance      `json:"provenance"`
	Flagged      bool                   `json:"flagged,omitempty"`
}

// Total sums every classified bucket for the dealer.
func (a *DealerAggregate) Total() float64 {
	var sum float64
	for _, v := range a.Values {
		sum += v
	}
	return sum
}

// Engaged reports whether the dealer produced any activation at all in
// the period.
func (a *DealerAggregate) Engaged() bool { return a.Total() > 0 }

// SortedBuckets returns the dealer's classified bucket keys in stable
// order.
func (a *DealerAggregate) SortedBuckets() []bucket.Key {
	keys := make([]bucket.Key, 0, len(a.Values))
	for k := range a.Values {
		keys = append(keys, k)
	}
	sortBucketKeys(keys)
	return keys
}

func sortBucketKeys(keys []bucket.Key) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})
}
