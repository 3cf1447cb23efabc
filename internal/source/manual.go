package source

import "github.com/omniapartners/incentive-engine/internal/domain"

// manualSchema is the declared column mapping of the manually entered
// override table. Operators enter rows against the registry directly,
// so the dealer reference is always a registry ID.
var manualSchema = schema{
	dealerID: "id_dealer",
	operator: "id_operatore",
	category: "categoria",
	segment:  "segmento",
	quantity: "pezzi",
}

// ManualOverrides adapts the manual override table. Its rows are
// supplementary activations not yet captured by the automated
// pipelines and merge additively on top of them.
type ManualOverrides struct{}

func (ManualOverrides) Name() string                  { return "manual" }
func (ManualOverrides) Provenance() domain.Provenance { return domain.ProvenanceManual }

func (m ManualOverrides) Rows(raw []Record, period domain.YearMonth) []domain.ActivationRow {
	return convert(m.Name(), manualSchema, m.Provenance(), raw, period)
}
