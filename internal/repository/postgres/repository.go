// Package postgres implements the engine's query collaborator against
// PostgreSQL: activation rows per pipeline, the manual override table,
// threshold configuration, and the dealer registry.
//
// The engine never sees this package; it consumes already-materialized
// collections. Isolation across the independent queries of one request
// is the caller's concern.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/omniapartners/incentive-engine/internal/source"
)

// Repo bundles the incentive queries over one database handle.
type Repo struct{ db *sql.DB }

// NewRepo creates a Postgres-backed incentive repository.
func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

// Scope restricts activation queries to part of the dealer network.
// The zero value means the whole network.
type Scope struct {
	DealerID int64 // one dealer
	AgentID  int64 // every dealer assigned to one agent
}

func (s Scope) String() string {
	switch {
	case s.DealerID != 0:
		return fmt.Sprintf("dealer:%d", s.DealerID)
	case s.AgentID != 0:
		return fmt.Sprintf("agente:%d", s.AgentID)
	}
	return "all"
}

// scopeClause appends the scope restriction to a query. The positional
// index of the next placeholder is returned for further arguments.
func scopeClause(q string, args []interface{}, s Scope, dealerCol string, idx int) (string, []interface{}, int) {
	switch {
	case s.DealerID != 0:
		q += fmt.Sprintf(" AND %s = $%d", dealerCol, idx)
		args = append(args, s.DealerID)
		idx++
	case s.AgentID != 0:
		q += fmt.Sprintf(" AND %s IN (SELECT id_dealer FROM dealer_agenti WHERE id_agente = $%d)", dealerCol, idx)
		args = append(args, s.AgentID)
		idx++
	}
	return q, args, idx
}

// queryRecords runs a query and scans every row into a generic record,
// keyed by column name. Source strategies own the column semantics.
func (r *Repo) queryRecords(ctx context.Context, q string, args ...interface{}) ([]source.Record, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []source.Record
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec := make(source.Record, len(cols))
		for i, c := range cols {
			rec[c] = values[i]
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
