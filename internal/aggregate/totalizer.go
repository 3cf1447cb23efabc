package aggregate

import (
	"sort"

	"github.com/omniapartners/incentive-engine/internal/bucket"
	"github.com/omniapartners/incentive-engine/internal/domain"
)

// BucketValue is one (bucket, total) pair in a rollup view, flattened
// for stable serialization.
type BucketValue struct {
	Bucket bucket.Key `json:"bucket"`
	Label  string     `json:"label"`
	Value  float64    `json:"value"`
}

// DealerRow is the dealer-level output view: one row per aggregate plus
// the derived engagement flag.
type DealerRow struct {
	Key        string            `json:"key"`
	Name       string            `json:"name"`
	Province   string            `json:"province"`
	Provenance domain.Provenance `json:"provenance"`
	Engaged    bool              `json:"engaged"`
	Total      float64           `json:"total"`
	Values     []BucketValue     `json:"values"`
	Flagged    bool              `json:"flagged,omitempty"`
}

// ProvinceTotals is the per-province rollup. Coverage is the engaged
// share of the province's dealers.
type ProvinceTotals struct {
	Province string        `json:"province"`
	Dealers  int           `json:"dealers"`
	Engaged  int           `json:"engaged"`
	Coverage float64       `json:"coverage"`
	Total    float64       `json:"total"`
	Values   []BucketValue `json:"values"`
}

// Rollups bundles the three output views of one period's aggregates.
//
// ProvinceSum excludes the "N/D" sentinel province, while TotalDealers
// counts every dealer including those without a province. The source
// reporting keeps this asymmetry on purpose: unplaced dealers inflate
// no regional number but still appear in the network headcount.
type Rollups struct {
	DealerLevel    []DealerRow      `json:"dealerLevel"`
	Provinces      []ProvinceTotals `json:"provinces"`
	Operators      []BucketValue    `json:"operators"`
	TotalDealers   int              `json:"totalDealers"`
	EngagedDealers int              `json:"engagedDealers"`
	ProvinceSum    float64          `json:"provinceSum"`
}

// Totalize computes the dealer-level, province, and operator views from
// a merged aggregate set. The input is not modified.
func Totalize(aggs []DealerAggregate) Rollups {
	out := Rollups{
		DealerLevel:  make([]DealerRow, 0, len(aggs)),
		TotalDealers: len(aggs),
	}

	provinces := make(map[string]*ProvinceTotals)
	operators := make(map[bucket.Key]float64)

	for i := range aggs {
		agg := &aggs[i]
		engaged := agg.Engaged()
		if engaged {
			out.EngagedDealers++
		}

		out.DealerLevel = append(out.DealerLevel, DealerRow{
			Key:        agg.Key,
			Name:       agg.DisplayName,
			Province:   agg.Province,
			Provenance: agg.Provenance,
			Engaged:    engaged,
			Total:      agg.Total(),
			Values:     bucketValues(agg.Values),
			Flagged:    agg.Flagged,
		})

		prov := provinceOf(agg)
		pt, ok := provinces[prov]
		if !ok {
			pt = &ProvinceTotals{Province: prov}
			provinces[prov] = pt
		}
		pt.Dealers++
		if engaged {
			pt.Engaged++
		}
		if prov != ProvinceUnknown {
			pt.Total += agg.Total()
			out.ProvinceSum += agg.Total()
		}

		for k, v := range agg.Values {
			operators[k] += v
		}
	}

	sort.Slice(out.DealerLevel, func(i, j int) bool {
		return out.DealerLevel[i].Key < out.DealerLevel[j].Key
	})

	for prov, pt := range provinces {
		if pt.Dealers > 0 {
			pt.Coverage = float64(pt.Engaged) / float64(pt.Dealers)
		}
		if prov != ProvinceUnknown {
			pt.Values = provinceBucketValues(aggs, prov)
		}
		out.Provinces = append(out.Provinces, *pt)
	}
	sort.Slice(out.Provinces, func(i, j int) bool {
		a, b := out.Provinces[i], out.Provinces[j]
		// Sentinel province sorts last regardless of alphabet.
		if (a.Province == ProvinceUnknown) != (b.Province == ProvinceUnknown) {
			return b.Province == ProvinceUnknown
		}
		return a.Province < b.Province
	})

	out.Operators = bucketValues(operators)
	return out
}

// OperatorTotal returns the network-wide total for one bucket, the
// achieved value fed into goal progress evaluation.
func (r Rollups) OperatorTotal(k bucket.Key) float64 {
	for _, bv := range r.Operators {
		if bv.Bucket == k {
			return bv.Value
		}
	}
	return 0
}

func provinceOf(agg *DealerAggregate) string {
	if agg.Province == "" || agg.Province == ProvinceUnknown {
		return ProvinceUnknown
	}
	return agg.Province
}

func provinceBucketValues(aggs []DealerAggregate, province string) []BucketValue {
	sums := make(map[bucket.Key]float64)
	for i := range aggs {
		if provinceOf(&aggs[i]) != province {
			continue
		}
		for k, v := range aggs[i].Values {
			sums[k] += v
		}
	}
	return bucketValues(sums)
}

func bucketValues(m map[bucket.Key]float64) []BucketValue {
	keys := make([]bucket.Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortBucketKeys(keys)

	out := make([]BucketValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, BucketValue{Bucket: k, Label: k.Label(), Value: m[k]})
	}
	return out
}
