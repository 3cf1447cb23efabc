package aggregate

import (
	"math"
	"testing"

	"github.com/omniapartners/incentive-engine/internal/bucket"
	"github.com/omniapartners/incentive-engine/internal/dealer"
	"github.com/omniapartners/incentive-engine/internal/domain"
)

var testPeriod = domain.YearMonth{Year: 2026, Month: 7}

func testResolver() *dealer.Resolver {
	return dealer.NewResolver([]domain.DealerInfo{
		{ID: 1, Comsy1: "AA11", Name: "Alfa Telecom", Province: "MI"},
		{ID: 2, Comsy1: "BB22", Name: "Beta Store", Province: "TO"},
		{ID: 3, Name: "Gamma Energia"},
	})
}

func row(ref domain.DealerRef, op, cat, seg string, qty float64, prov domain.Provenance) domain.ActivationRow {
	return domain.ActivationRow{
		Dealer: ref, Operator: op, RawCategory: cat, RawSegment: seg,
		Period: testPeriod, Quantity: qty, Provenance: prov,
	}
}

func findAgg(t *testing.T, aggs []DealerAggregate, key string) *DealerAggregate {
	t.Helper()
	for i := range aggs {
		if aggs[i].Key == key {
			return &aggs[i]
		}
	}
	t.Fatalf("no aggregate with key %s in %d aggregates", key, len(aggs))
	return nil
}

func TestMergeNoDoubleCounting(t *testing.T) {
	// Three references to the same dealer through three different
	// source vocabularies: registry ID, COMSY code, company name.
	auto := []domain.ActivationRow{
		row(domain.RefComsy("aa-11", ""), "3", "MOBILI RES", "", 5, domain.ProvenanceAuto),
		row(domain.RefName("alfa telecom"), "3", "MOBILI RES", "", 3, domain.ProvenanceAuto),
	}
	manual := []domain.ActivationRow{
		row(domain.RefID(1), "3", "MOBILI RES", "", 2, domain.ProvenanceManual),
	}

	aggs, err := Merge(auto, manual, testResolver(), bucket.NewNormalizer())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(aggs) != 1 {
		t.Fatalf("expected one aggregate, got %d", len(aggs))
	}

	agg := aggs[0]
	if agg.Key != "id:1" {
		t.Errorf("key = %s, want id:1", agg.Key)
	}
	mobRes := bucket.Key{Operator: "3", Category: bucket.CategoryMobile, Segment: bucket.SegmentRes}
	if got := agg.Values[mobRes]; got != 10 {
		t.Errorf("merged quantity = %v, want 10", got)
	}
	if agg.Provenance != domain.ProvenanceBoth {
		t.Errorf("provenance = %s, want %s", agg.Provenance, domain.ProvenanceBoth)
	}
	if agg.Province != "MI" {
		t.Errorf("province = %q, want MI", agg.Province)
	}
}

func TestMergeManualOnlyDealer(t *testing.T) {
	manual := []domain.ActivationRow{
		row(domain.RefID(2), "5", "FISSO", "RES", 4, domain.ProvenanceManual),
	}

	aggs, err := Merge(nil, manual, testResolver(), bucket.NewNormalizer())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	agg := findAgg(t, aggs, "id:2")
	if agg.Provenance != domain.ProvenanceManual {
		t.Errorf("provenance = %s, want manual", agg.Provenance)
	}
	if agg.DisplayName != "Beta Store" {
		t.Errorf("display name = %q", agg.DisplayName)
	}
}

func TestMergeSumOrderIndependent(t *testing.T) {
	auto := []domain.ActivationRow{
		row(domain.RefID(1), "3", "MOBILI RES", "", 7, domain.ProvenanceAuto),
		row(domain.RefID(2), "5", "FISSO", "SHP", 2, domain.ProvenanceAuto),
	}
	manual := []domain.ActivationRow{
		row(domain.RefID(1), "3", "MOBILI RES", "", 3, domain.ProvenanceManual),
		row(domain.RefID(3), "20", "Conv RES", "", 9, domain.ProvenanceManual),
	}

	forward, err := Merge(auto, manual, testResolver(), bucket.NewNormalizer())
	if err != nil {
		t.Fatalf("Merge forward: %v", err)
	}
	reversed, err := Merge(manual, auto, testResolver(), bucket.NewNormalizer())
	if err != nil {
		t.Fatalf("Merge reversed: %v", err)
	}

	if len(forward) != len(reversed) {
		t.Fatalf("aggregate counts differ: %d vs %d", len(forward), len(reversed))
	}
	for i := range forward {
		if forward[i].Key != reversed[i].Key {
			t.Fatalf("sorted keys differ at %d: %s vs %s", i, forward[i].Key, reversed[i].Key)
		}
		for k, v := range forward[i].Values {
			if reversed[i].Values[k] != v {
				t.Errorf("dealer %s bucket %s: %v vs %v", forward[i].Key, k, v, reversed[i].Values[k])
			}
		}
		// Provenance is combined per row, so it is order-independent too.
		if forward[i].Provenance != reversed[i].Provenance {
			t.Errorf("dealer %s provenance: %s vs %s", forward[i].Key, forward[i].Provenance, reversed[i].Provenance)
		}
	}
}

func TestMergePreservesUnclassifiedForAudit(t *testing.T) {
	auto := []domain.ActivationRow{
		row(domain.RefID(1), "3", "ACCESSORI VARI", "", 6, domain.ProvenanceAuto),
		row(domain.RefID(1), "3", "MOBILI RES", "", 2, domain.ProvenanceAuto),
	}

	aggs, err := Merge(auto, nil, testResolver(), bucket.NewNormalizer())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	agg := findAgg(t, aggs, "id:1")
	if got := agg.Unclassified["3/ACCESSORI VARI"]; got != 6 {
		t.Errorf("unclassified audit value = %v, want 6 (map: %v)", got, agg.Unclassified)
	}
	// Unclassified rows never enter the goal-bearing values.
	if agg.Total() != 2 {
		t.Errorf("Total() = %v, want 2 (classified only)", agg.Total())
	}
}

func TestMergeAmbiguousReferenceKeptAndFlagged(t *testing.T) {
	registry := []domain.DealerInfo{
		{ID: 10, Name: "Doppio Nome"},
		{ID: 11, Name: "DOPPIO NOME"},
	}
	res := dealer.NewResolver(registry)

	auto := []domain.ActivationRow{
		row(domain.RefName("doppio nome"), "3", "MOBILI RES", "", 5, domain.ProvenanceAuto),
	}
	aggs, err := Merge(auto, nil, res, bucket.NewNormalizer())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	agg := findAgg(t, aggs, "name:DOPPIO NOME")
	if !agg.Flagged {
		t.Error("ambiguous row must be flagged")
	}
	if agg.Total() != 5 {
		t.Errorf("ambiguous row dropped: total = %v", agg.Total())
	}
}

func TestMergeMalformedQuantityCoercedToZero(t *testing.T) {
	auto := []domain.ActivationRow{
		row(domain.RefID(1), "3", "MOBILI RES", "", math.NaN(), domain.ProvenanceAuto),
		row(domain.RefID(1), "3", "MOBILI RES", "", 4, domain.ProvenanceAuto),
	}
	aggs, err := Merge(auto, nil, testResolver(), bucket.NewNormalizer())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := findAgg(t, aggs, "id:1").Total(); got != 4 {
		t.Errorf("Total() = %v, want 4 after NaN coercion", got)
	}
}

func TestMergeContractViolations(t *testing.T) {
	if _, err := Merge(nil, nil, nil, bucket.NewNormalizer()); err != ErrNilResolver {
		t.Errorf("nil resolver: err = %v", err)
	}
	if _, err := Merge(nil, nil, testResolver(), nil); err != ErrNilNormalizer {
		t.Errorf("nil normalizer: err = %v", err)
	}
}
