// Package goal evaluates achieved volumes against tiered incentive
// thresholds.
//
// Each metric (one canonical bucket) carries up to four ordered,
// non-overlapping tiers per period. The progress calculator turns an
// achieved value into the reached level, the next target, the shortfall
// and a percent-complete, with explicit rules for values below the
// first goal, inside a band, and past the last one.
package goal

import (
	"github.com/omniapartners/incentive-engine/internal/bucket"
	"github.com/omniapartners/incentive-engine/internal/domain"
)

// MaxTiers is the number of tier slots a metric configuration carries.
const MaxTiers = 4

// Tier is one band of a stepped incentive goal.
type Tier struct {
	Level int     `json:"level"` // 1..4
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// TierBound is one optional (min, max) slot in a configuration row.
// A slot with either bound missing is not a configured tier.
type TierBound struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// ConfigRow is one threshold configuration row as fetched for a period:
// the metric identity plus the four tier slots.
type ConfigRow struct {
	Period   domain.YearMonth `json:"period"`
	Operator string           `json:"operator"`
	Category bucket.Category  `json:"category"`
	Segment  bucket.Segment   `json:"segment"`
	RA       bool             `json:"ra,omitempty"`
	Tiers    [MaxTiers]TierBound
}

// Metric returns the bucket key this row configures.
func (r ConfigRow) Metric() bucket.Key {
	return bucket.Key{Operator: r.Operator, Category: r.Category, Segment: r.Segment, RA: r.RA}
}

// Progress is the outcome of evaluating one achieved value.
//
// Level 0 means the first goal has not been reached yet. NextTarget
// stays at the last tier's max once every goal is passed; it is 0 only
// for the no-goal sentinel.
type Progress struct {
	Level      int     `json:"levelReached"`
	NextTarget float64 `json:"nextTarget"`
	Shortfall  float64 `json:"shortfall"`
	Percent    int     `json:"percent"` // 0..100
}

// NoGoal is the fixed result for metrics with no configured tiers.
// Missing configuration is expected, not an error.
var NoGoal = Progress{}
