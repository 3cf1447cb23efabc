package domain

import "fmt"

// Provenance tags where a dealer's totals came from.
type Provenance string

const (
	ProvenanceAuto   Provenance = "auto"
	ProvenanceManual Provenance = "manual"
	ProvenanceBoth   Provenance = "auto+manual"
)

// Combine merges two provenance tags. Any mix of auto and manual
// contributions yields ProvenanceBoth.
func (p Provenance) Combine(other Provenance) Provenance {
	if p == other {
		return p
	}
	return ProvenanceBoth
}

// YearMonth identifies one competence period.
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
}

// Key returns the canonical "YYYY-MM" form used in cache keys and logs.
func (ym YearMonth) Key() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// Valid reports whether the period is a plausible calendar month.
func (ym YearMonth) Valid() bool {
	return ym.Year >= 2000 && ym.Year <= 2100 && ym.Month >= 1 && ym.Month <= 12
}

// ActivationRow is one raw record harvested from a source system:
// a telecom order table, an energy contract import batch, or the
// manually entered override table. Rows are immutable once built.
type ActivationRow struct {
	Dealer      DealerRef  `json:"dealer"`
	Operator    string     `json:"operator"`
	RawCategory string     `json:"rawCategory"`
	RawSegment  string     `json:"rawSegment"`
	Period      YearMonth  `json:"period"`
	Quantity    float64    `json:"quantity"`
	Provenance  Provenance `json:"provenance"`
}
