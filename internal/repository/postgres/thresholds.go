package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/omniapartners/incentive-engine/internal/bucket"
	"github.com/omniapartners/incentive-engine/internal/domain"
	"github.com/omniapartners/incentive-engine/internal/goal"
)

// ThresholdRows fetches every threshold configuration row for one
// period. Tier slots with either bound NULL come back unset; the goal
// resolver skips them.
func (r *Repo) ThresholdRows(ctx context.Context, period domain.YearMonth) ([]goal.ConfigRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id_operatore, categoria, segmento, COALESCE(ra,false),
		       soglia1_min, soglia1_max, soglia2_min, soglia2_max,
		       soglia3_min, soglia3_max, soglia4_min, soglia4_max
		FROM soglie_obiettivi
		WHERE anno = $1 AND mese = $2
	`, period.Year, period.Month)
	if err != nil {
		return nil, fmt.Errorf("threshold rows: %w", err)
	}
	defer rows.Close()

	var out []goal.ConfigRow
	for rows.Next() {
		var (
			row    goal.ConfigRow
			cat    string
			seg    string
			bounds [2 * goal.MaxTiers]sql.NullFloat64
		)
		if err := rows.Scan(
			&row.Operator, &cat, &seg, &row.RA,
			&bounds[0], &bounds[1], &bounds[2], &bounds[3],
			&bounds[4], &bounds[5], &bounds[6], &bounds[7],
		); err != nil {
			return nil, fmt.Errorf("scan threshold: %w", err)
		}
		row.Period = period
		row.Category = bucket.Category(cat)
		row.Segment = bucket.Segment(seg)
		for i := 0; i < goal.MaxTiers; i++ {
			row.Tiers[i] = goal.TierBound{
				Min: nullableFloat(bounds[2*i]),
				Max: nullableFloat(bounds[2*i+1]),
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
