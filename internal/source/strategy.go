// Package source adapts raw result-set rows from each ingest pipeline
// into canonical activation rows.
//
// Every pipeline (telecom orders, energy contract batches, manual
// override entries) declares exactly one schema: a fixed mapping from
// its column names to the canonical fields. All column knowledge lives
// in that declaration; nothing downstream guesses at aliases.
package source

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/omniapartners/incentive-engine/internal/domain"
)

// Record is one raw row as scanned from a source result set.
type Record map[string]any

// Strategy converts one pipeline's raw rows into activation rows.
// Implementations are stateless and selected by configured name.
type Strategy interface {
	// Name is the configuration identifier of the pipeline.
	Name() string
	// Provenance tags every row the pipeline emits.
	Provenance() domain.Provenance
	// Rows converts raw records for one period. Data-quality problems
	// are coerced and logged, never returned as errors.
	Rows(raw []Record, period domain.YearMonth) []domain.ActivationRow
}

// ForName returns the strategy registered under a configured pipeline
// name. Unknown names are a configuration error.
func ForName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "telecom":
		return TelecomOrders{}, nil
	case "energy":
		return EnergyContracts{}, nil
	case "manual":
		return ManualOverrides{}, nil
	}
	return nil, fmt.Errorf("source: unknown pipeline %q", name)
}

// schema is one pipeline's declared column mapping. Empty column names
// mean the pipeline does not carry that field.
type schema struct {
	dealerID   string
	comsy1     string
	comsy2     string
	dealerName string
	operator   string
	category   string
	segment    string
	quantity   string
}

// convert applies one schema to a raw record batch.
func convert(name string, s schema, prov domain.Provenance, raw []Record, period domain.YearMonth) []domain.ActivationRow {
	out := make([]domain.ActivationRow, 0, len(raw))
	for _, rec := range raw {
		out = append(out, domain.ActivationRow{
			Dealer:      dealerRef(s, rec),
			Operator:    stringField(rec, s.operator),
			RawCategory: stringField(rec, s.category),
			RawSegment:  stringField(rec, s.segment),
			Period:      period,
			Quantity:    numericField(name, rec, s.quantity),
			Provenance:  prov,
		})
	}
	return out
}

// dealerRef builds the reference in the schema's preferred shape:
// registry ID when the pipeline carries one, else COMSY codes, else
// the raw company name.
func dealerRef(s schema, rec Record) domain.DealerRef {
	if s.dealerID != "" {
		if id, ok := intField(rec, s.dealerID); ok {
			return domain.RefID(id)
		}
	}
	if s.comsy1 != "" || s.comsy2 != "" {
		c1 := stringField(rec, s.comsy1)
		c2 := stringField(rec, s.comsy2)
		if c1 != "" || c2 != "" {
			return domain.RefComsy(c1, c2)
		}
	}
	return domain.RefName(stringField(rec, s.dealerName))
}

func stringField(rec Record, col string) string {
	if col == "" {
		return ""
	}
	switch v := rec[col].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func intField(rec Record, col string) (int64, bool) {
	switch v := rec[col].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, true
		}
	case []byte:
		if n, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// numericField extracts the quantity. Upstream sources are known to
// emit partial rows, so a missing or unparsable value is coerced to 0
// with a warning rather than failing the batch.
func numericField(name string, rec Record, col string) float64 {
	v, ok := rec[col]
	if !ok || v == nil {
		log.Printf("[source] %s: row missing %q, coerced to 0", name, col)
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case []byte:
		return parseQuantity(name, col, string(n))
	case string:
		return parseQuantity(name, col, n)
	}
	log.Printf("[source] %s: unsupported %q value %T, coerced to 0", name, col, v)
	return 0
}

func parseQuantity(name, col, raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("[source] %s: unparsable %q value %q, coerced to 0", name, col, raw)
		return 0
	}
	return f
}
