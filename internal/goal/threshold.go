package goal

import (
	"fmt"
	"log"

	"github.com/omniapartners/incentive-engine/internal/bucket"
	"github.com/omniapartners/incentive-engine/internal/domain"
)

// ResolveTiers returns the ordered tier configuration for one metric in
// one period. A metric with no matching row, or a row with no complete
// tier slot, legitimately resolves to zero tiers: progress evaluation
// then short-circuits to the no-goal sentinel instead of erroring.
//
// Malformed configurations (inverted bounds, overlapping bands) are
// contract violations and come back as errors.
func ResolveTiers(rows []ConfigRow, period domain.YearMonth, metric bucket.Key) ([]Tier, error) {
	for _, row := range rows {
		if row.Period != period || row.Metric() != metric {
			continue
		}
		tiers, err := buildTiers(row)
		if err != nil {
			return nil, fmt.Errorf("threshold config for %s %s: %w", period.Key(), metric, err)
		}
		return tiers, nil
	}
	return nil, nil
}

// buildTiers extracts the configured tiers from one row. Slots missing
// either bound are skipped; levels follow the slot position.
func buildTiers(row ConfigRow) ([]Tier, error) {
	var tiers []Tier
	for i, slot := range row.Tiers {
		if slot.Min == nil || slot.Max == nil {
			if slot.Min != nil || slot.Max != nil {
				log.Printf("[goal] half-configured tier %d for %s ignored", i+1, row.Metric())
			}
			continue
		}
		if *slot.Max < *slot.Min {
			return nil, fmt.Errorf("tier %d has max %v below min %v", i+1, *slot.Max, *slot.Min)
		}
		tiers = append(tiers, Tier{Level: i + 1, Min: *slot.Min, Max: *slot.Max})
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Min <= tiers[i-1].Max {
			return nil, fmt.Errorf("tier %d (min %v) overlaps tier %d (max %v)",
				tiers[i].Level, tiers[i].Min, tiers[i-1].Level, tiers[i-1].Max)
		}
	}
	return tiers, nil
}
