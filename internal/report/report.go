// Package report assembles the engine's output views into the response
// payload the HTTP layer serializes.
//
// The core payload is fully resolved and deterministic, so it is safe
// to cache verbatim. Request metadata (generation time, run ID) lives
// in the envelope, outside the cached core, so a cache hit and a fresh
// computation compare equal.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/omniapartners/incentive-engine/internal/aggregate"
	"github.com/omniapartners/incentive-engine/internal/bucket"
	"github.com/omniapartners/incentive-engine/internal/domain"
	"github.com/omniapartners/incentive-engine/internal/goal"
)

// Categoria is one goal-bearing bucket row. Field names are the stable
// wire contract consumed by the dashboard.
type Categoria struct {
	Nome             string  `json:"nome"`
	Attuale          float64 `json:"attuale"`
	LivelloRaggiunto int     `json:"livelloRaggiunto"`
	ProssimoTarget   float64 `json:"prossimoTarget"`
	Mancano          float64 `json:"mancano"`
	Percentuale      int     `json:"percentuale"`
}

// Provincia is the per-province rollup row.
type Provincia struct {
	Sigla      string  `json:"sigla"`
	Dealer     int     `json:"dealer"`
	Ingaggiati int     `json:"ingaggiati"`
	Copertura  float64 `json:"copertura"`
	Totale     float64 `json:"totale"`
}

// DealerRiga is one dealer-level row with its provenance tag.
type DealerRiga struct {
	Chiave      string            `json:"chiave"`
	Nome        string            `json:"nome"`
	Provincia   string            `json:"provincia"`
	Provenienza domain.Provenance `json:"provenienza"`
	Ingaggiato  bool              `json:"ingaggiato"`
	Totale      float64           `json:"totale"`
	Anomalo     bool              `json:"anomalo,omitempty"`
}

// NonClassificata is one audit row for volumes that matched no bucket
// rule, preserved under the original source label.
type NonClassificata struct {
	Etichetta string  `json:"etichetta"`
	Totale    float64 `json:"totale"`
}

// Report is the cache-safe core payload for one (period, scope).
type Report struct {
	Periodo          string            `json:"periodo"`
	DealerTotali     int               `json:"dealerTotali"`
	DealerIngaggiati int               `json:"dealerIngaggiati"`
	Categorie        []Categoria       `json:"categorie"`
	Province         []Provincia       `json:"province"`
	Dealer           []DealerRiga      `json:"dealer"`
	NonClassificate  []NonClassificata `json:"nonClassificate,omitempty"`
}

// Envelope wraps a Report with request metadata that must never enter
// the cache comparison.
type Envelope struct {
	RunID       uuid.UUID `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`
	FromCache   bool      `json:"fromCache"`
	Report      Report    `json:"report"`
}

// Wrap stamps a report with fresh request metadata.
func Wrap(r Report, fromCache bool) Envelope {
	return Envelope{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		FromCache:   fromCache,
		Report:      r,
	}
}

// Build assembles the full report for one period from merged dealer
// aggregates and the period's threshold configuration rows.
//
// Goal progress is evaluated on the network-wide operator rollup, one
// row per classified bucket; a configured metric with no volume in the
// period still gets its row, evaluated at zero. Buckets without
// configured tiers surface with the zero no-goal sentinel; unclassified
// volumes go to the audit section only.
func Build(period domain.YearMonth, aggs []aggregate.DealerAggregate, thresholds []goal.ConfigRow) (Report, error) {
	rollups := aggregate.Totalize(aggs)

	rep := Report{
		Periodo:          period.Key(),
		DealerTotali:     rollups.TotalDealers,
		DealerIngaggiati: rollups.EngagedDealers,
		Categorie:        make([]Categoria, 0, len(rollups.Operators)),
		Province:         make([]Provincia, 0, len(rollups.Provinces)),
		Dealer:           make([]DealerRiga, 0, len(rollups.DealerLevel)),
	}

	achieved := make(map[bucket.Key]float64, len(rollups.Operators))
	metrics := make([]bucket.Key, 0, len(rollups.Operators))
	for _, bv := range rollups.Operators {
		achieved[bv.Bucket] = bv.Value
		metrics = append(metrics, bv.Bucket)
	}
	// Configured metrics with no volume this period still get a goal
	// row, evaluated at zero.
	for _, row := range thresholds {
		m := row.Metric()
		if row.Period != period || !m.Classified() {
			continue
		}
		if _, ok := achieved[m]; !ok {
			achieved[m] = 0
			metrics = append(metrics, m)
		}
	}
	sort.Slice(metrics, func(i, j int) bool { return metrics[i].Less(metrics[j]) })

	for _, m := range metrics {
		tiers, err := goal.ResolveTiers(thresholds, period, m)
		if err != nil {
			return Report{}, err
		}
		p := goal.Evaluate(achieved[m], tiers)
		rep.Categorie = append(rep.Categorie, Categoria{
			Nome:             m.Label(),
			Attuale:          achieved[m],
			LivelloRaggiunto: p.Level,
			ProssimoTarget:   p.NextTarget,
			Mancano:          p.Shortfall,
			Percentuale:      p.Percent,
		})
	}

	for _, pt := range rollups.Provinces {
		rep.Province = append(rep.Province, Provincia{
			Sigla:      pt.Province,
			Dealer:     pt.Dealers,
			Ingaggiati: pt.Engaged,
			Copertura:  pt.Coverage,
			Totale:     pt.Total,
		})
	}

	for _, dr := range rollups.DealerLevel {
		rep.Dealer = append(rep.Dealer, DealerRiga{
			Chiave:      dr.Key,
			Nome:        dr.Name,
			Provincia:   dr.Province,
			Provenienza: dr.Provenance,
			Ingaggiato:  dr.Engaged,
			Totale:      dr.Total,
			Anomalo:     dr.Flagged,
		})
	}

	rep.NonClassificate = auditRows(aggs)
	return rep, nil
}

func auditRows(aggs []aggregate.DealerAggregate) []NonClassificata {
	sums := make(map[string]float64)
	for i := range aggs {
		for label, v := range aggs[i].Unclassified {
			sums[label] += v
		}
	}
	if len(sums) == 0 {
		return nil
	}
	labels := make([]string, 0, len(sums))
	for l := range sums {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	out := make([]NonClassificata, 0, len(labels))
	for _, l := range labels {
		out = append(out, NonClassificata{Etichetta: l, Totale: sums[l]})
	}
	return out
}
