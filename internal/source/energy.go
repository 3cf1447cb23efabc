package source

import "github.com/omniapartners/incentive-engine/internal/domain"

// energySchema is the declared column mapping of the energy contract
// import batches. The batches carry no registry ID and no COMSY codes;
// dealers are identified by company name only, and the category column
// holds contract labels ("Conv RES", "di cui CONV_BUS") rather than
// product families, which is why energy detection also keys off the
// operator ID.
var energySchema = schema{
	dealerName: "ragione_sociale",
	operator:   "id_operatore",
	category:   "tipo_contratto",
	quantity:   "contratti",
}

// EnergyContracts adapts the energy contract import pipeline.
type EnergyContracts struct{}

func (EnergyContracts) Name() string                  { return "energy" }
func (EnergyContracts) Provenance() domain.Provenance { return domain.ProvenanceAuto }

func (e EnergyContracts) Rows(raw []Record, period domain.YearMonth) []domain.ActivationRow {
	return convert(e.Name(), energySchema, e.Provenance(), raw, period)
}
