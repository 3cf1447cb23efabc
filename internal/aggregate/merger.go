package aggregate

import (
	"errors"
	"log"
	"math"
	"sort"

	"github.com/omniapartners/incentive-engine/internal/bucket"
	"github.com/omniapartners/incentive-engine/internal/dealer"
	"github.com/omniapartners/incentive-engine/internal/domain"
)

var (
	// ErrNilResolver is returned when Merge is called without an
	// identity resolver. This is a caller bug, not a data problem.
	ErrNilResolver = errors.New("aggregate: nil dealer resolver")

	// ErrNilNormalizer is returned when Merge is called without a
	// bucket normalizer.
	ErrNilNormalizer = errors.New("aggregate: nil bucket normalizer")
)

// Merge combines the automated activation rows with the manually
// entered override rows into one deduplicated dealer-level record set.
//
// The merge is additive: a manual row for a dealer already present in
// the automated set adds its quantity on top of the automated total.
// Manual rows represent supplementary activations the automated
// pipeline has not captured yet, not corrections to it. Dealers seen
// only in manual rows get their own aggregates.
//
// The summed totals are independent of which collection is processed
// first; so is the provenance tag, because provenance is combined per
// contributing row rather than assigned by insertion order.
func Merge(autoRows, manualRows []domain.ActivationRow, res *dealer.Resolver, norm *bucket.Normalizer) ([]DealerAggregate, error) {
	if res == nil {
		return nil, ErrNilResolver
	}
	if norm == nil {
		return nil, ErrNilNormalizer
	}

	byKey := make(map[string]*DealerAggregate, len(autoRows))
	for _, row := range autoRows {
		addRow(byKey, row, res, norm)
	}
	for _, row := range manualRows {
		addRow(byKey, row, res, norm)
	}

	out := make([]DealerAggregate, 0, len(byKey))
	for _, agg := range byKey {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func addRow(byKey map[string]*DealerAggregate, row domain.ActivationRow, res *dealer.Resolver, norm *bucket.Normalizer) {
	r := res.Resolve(row.Dealer)
	if r.Ambiguous {
		log.Printf("[aggregate] ambiguous dealer reference %+v kept under key %s", row.Dealer, r.Key)
	}

	agg, ok := byKey[r.Key]
	if !ok {
		agg = &DealerAggregate{
			Key:          r.Key,
			DisplayName:  displayName(r, row),
			Values:       make(map[bucket.Key]float64),
			Unclassified: make(map[string]float64),
			Provenance:   row.Provenance,
		}
		if r.Dealer != nil {
			agg.Province = r.Dealer.Province
		}
		byKey[r.Key] = agg
	} else {
		agg.Provenance = agg.Provenance.Combine(row.Provenance)
	}
	if r.Ambiguous || !r.Known {
		agg.Flagged = true
	}

	qty := row.Quantity
	if math.IsNaN(qty) || math.IsInf(qty, 0) {
		log.Printf("[aggregate] malformed quantity for dealer %s (%s/%s), coerced to 0",
			r.Key, row.Operator, row.RawCategory)
		qty = 0
	}

	key := norm.Normalize(row.Operator, row.RawCategory, row.RawSegment)
	if key.Classified() {
		agg.Values[key] += qty
		return
	}
	agg.Unclassified[auditLabel(row)] += qty
}

// displayName prefers the registry name; unresolved rows fall back to
// whatever the source row carried.
func displayName(r dealer.Resolution, row domain.ActivationRow) string {
	if r.Dealer != nil {
		return r.Dealer.Name
	}
	if row.Dealer.Name != "" {
		return row.Dealer.Name
	}
	return r.Key
}

// auditLabel preserves the original source labelling of rows that
// matched no bucket rule.
func auditLabel(row domain.ActivationRow) string {
	label := row.Operator + "/" + row.RawCategory
	if row.RawSegment != "" {
		label += "/" + row.RawSegment
	}
	return label
}
