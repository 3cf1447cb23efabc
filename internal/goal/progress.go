package goal

import "math"

// Evaluate computes the goal progress for one achieved value against
// one metric's ordered tiers.
//
// The rules, in order:
//
//  1. No configured tiers: the fixed no-goal sentinel.
//  2. Achieved below the first goal (the first tier's max): level 0,
//     ramping linearly from zero toward that first goal.
//  3. Achieved inside a band: that band's level; the next target is the
//     following band's max, and percent measures the run from the
//     current band's min to that target. At the last band the goal
//     ladder is complete.
//  4. Achieved past the last band's max: last level, nothing left to do.
//
// A degenerate single-point band (min == max) counts as fully complete
// the moment achieved reaches it; the percent math must never divide
// by the zero-width band.
func Evaluate(achieved float64, tiers []Tier) Progress {
	if len(tiers) == 0 {
		return NoGoal
	}

	if achieved < tiers[0].Max {
		return belowFirstGoal(achieved, tiers[0])
	}

	for i, t := range tiers {
		if achieved >= t.Min && achieved <= t.Max {
			return insideBand(achieved, tiers, i)
		}
	}

	last := tiers[len(tiers)-1]
	if achieved > last.Max {
		return Progress{Level: last.Level, NextTarget: last.Max, Shortfall: 0, Percent: 100}
	}

	// Achieved sits in a gap between two bands: past tier i's max but
	// short of tier i+1's min. Treat it as still working from tier i.
	for i := len(tiers) - 1; i >= 0; i-- {
		if achieved > tiers[i].Max {
			return insideBand(achieved, tiers, i)
		}
	}
	return belowFirstGoal(achieved, tiers[0])
}

func belowFirstGoal(achieved float64, first Tier) Progress {
	target := first.Max
	var percent int
	if target > 0 {
		percent = clampPercent(roundPercent(100 * achieved / target))
	}
	return Progress{
		Level:      0,
		NextTarget: target,
		Shortfall:  math.Max(0, target-achieved),
		Percent:    percent,
	}
}

func insideBand(achieved float64, tiers []Tier, i int) Progress {
	t := tiers[i]
	if i+1 >= len(tiers) {
		// Last band: the ladder is complete.
		return Progress{Level: t.Level, NextTarget: t.Max, Shortfall: 0, Percent: 100}
	}

	next := tiers[i+1].Max
	p := Progress{
		Level:      t.Level,
		NextTarget: next,
		Shortfall:  math.Max(0, next-achieved),
	}
	span := next - t.Min
	if t.Max == t.Min || span <= 0 {
		// Zero-width band, or bounds that leave no run to measure.
		p.Percent = 100
		return p
	}
	p.Percent = clampPercent(roundPercent(100 * (achieved - t.Min) / span))
	return p
}

func roundPercent(v float64) int { return int(math.Round(v)) }

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
