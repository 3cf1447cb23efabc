package source

import "github.com/omniapartners/incentive-engine/internal/domain"

// telecomSchema is the declared column mapping of the telecom order
// feed. The feed identifies dealers by their legacy COMSY codes only.
var telecomSchema = schema{
	comsy1:   "comsy1",
	comsy2:   "comsy2",
	operator: "id_operatore",
	category: "categoria",
	segment:  "segmento",
	quantity: "pezzi",
}

// TelecomOrders adapts the automated telecom order aggregation feed.
type TelecomOrders struct{}

func (TelecomOrders) Name() string                  { return "telecom" }
func (TelecomOrders) Provenance() domain.Provenance { return domain.ProvenanceAuto }

func (t TelecomOrders) Rows(raw []Record, period domain.YearMonth) []domain.ActivationRow {
	return convert(t.Name(), telecomSchema, t.Provenance(), raw, period)
}
