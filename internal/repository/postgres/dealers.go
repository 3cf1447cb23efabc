package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/omniapartners/incentive-engine/internal/domain"
)

// DealerLookup fetches the known-dealer registry used for identity
// resolution. COMSY codes and province may be missing on legacy rows.
func (r *Repo) DealerLookup(ctx context.Context) ([]domain.DealerInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, COALESCE(comsy1,''), COALESCE(comsy2,''),
		       ragione_sociale, COALESCE(provincia,'')
		FROM dealer
		WHERE attivo = true
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("dealer lookup: %w", err)
	}
	defer rows.Close()

	var out []domain.DealerInfo
	for rows.Next() {
		var d domain.DealerInfo
		if err := rows.Scan(&d.ID, &d.Comsy1, &d.Comsy2, &d.Name, &d.Province); err != nil {
			return nil, fmt.Errorf("scan dealer: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Dealer fetches one registry row by ID.
func (r *Repo) Dealer(ctx context.Context, id int64) (*domain.DealerInfo, error) {
	d := &domain.DealerInfo{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(comsy1,''), COALESCE(comsy2,''),
		       ragione_sociale, COALESCE(provincia,'')
		FROM dealer
		WHERE id = $1
	`, id).Scan(&d.ID, &d.Comsy1, &d.Comsy2, &d.Name, &d.Province)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dealer: %w", err)
	}
	return d, nil
}
