package postgres

import (
	"context"
	"fmt"

	"github.com/omniapartners/incentive-engine/internal/domain"
	"github.com/omniapartners/incentive-engine/internal/source"
)

// TelecomRows fetches the automated telecom order aggregation for one
// period, already grouped per dealer and category by the view.
func (r *Repo) TelecomRows(ctx context.Context, period domain.YearMonth, scope Scope) ([]domain.ActivationRow, error) {
	q := `
		SELECT comsy1, comsy2, id_operatore, categoria, segmento, pezzi
		FROM v_ordini_telefonia
		WHERE anno = $1 AND mese = $2`
	args := []interface{}{period.Year, period.Month}
	q, args, _ = scopeClause(q, args, scope, "id_dealer", 3)

	recs, err := r.queryRecords(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("telecom rows: %w", err)
	}
	return source.TelecomOrders{}.Rows(recs, period), nil
}

// EnergyRows fetches the energy contract import batch totals.
func (r *Repo) EnergyRows(ctx context.Context, period domain.YearMonth, scope Scope) ([]domain.ActivationRow, error) {
	q := `
		SELECT ragione_sociale, id_operatore, tipo_contratto, contratti
		FROM v_contratti_energia
		WHERE anno = $1 AND mese = $2`
	args := []interface{}{period.Year, period.Month}
	q, args, _ = scopeClause(q, args, scope, "id_dealer", 3)

	recs, err := r.queryRecords(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("energy rows: %w", err)
	}
	return source.EnergyContracts{}.Rows(recs, period), nil
}

// ManualRows fetches the manually entered override rows.
func (r *Repo) ManualRows(ctx context.Context, period domain.YearMonth, scope Scope) ([]domain.ActivationRow, error) {
	q := `
		SELECT id_dealer, id_operatore, categoria, segmento, pezzi
		FROM inserimenti_manuali
		WHERE anno = $1 AND mese = $2`
	args := []interface{}{period.Year, period.Month}
	q, args, _ = scopeClause(q, args, scope, "id_dealer", 3)

	recs, err := r.queryRecords(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("manual rows: %w", err)
	}
	return source.ManualOverrides{}.Rows(recs, period), nil
}

// AutoRows concatenates every automated pipeline for one period. The
// manual override table stays separate because the merge treats it
// additively.
func (r *Repo) AutoRows(ctx context.Context, period domain.YearMonth, scope Scope) ([]domain.ActivationRow, error) {
	telecom, err := r.TelecomRows(ctx, period, scope)
	if err != nil {
		return nil, err
	}
	energy, err := r.EnergyRows(ctx, period, scope)
	if err != nil {
		return nil, err
	}
	return append(telecom, energy...), nil
}
