package dealer

import (
	"testing"

	"github.com/omniapartners/incentive-engine/internal/domain"
)

func testRegistry() []domain.DealerInfo {
	return []domain.DealerInfo{
		{ID: 101, Comsy1: "AB-12.34", Comsy2: "XY 99", Name: "Rossi Telefonia SRL", Province: "MI"},
		{ID: 102, Comsy1: "CD5678", Name: "Bianchi Store", Province: "TO"},
		{ID: 103, Name: "Verdi  Communication", Province: "NA"},
		// Shares a normalized name with 103 on purpose.
		{ID: 104, Name: "VERDI COMMUNICATION", Province: "RM"},
	}
}

func TestResolveByID(t *testing.T) {
	r := NewResolver(testRegistry())

	res := r.Resolve(domain.RefID(101))
	if !res.Known || res.Key != "id:101" {
		t.Errorf("Resolve(id 101) = %+v, want known id:101", res)
	}
	if res.Dealer == nil || res.Dealer.Province != "MI" {
		t.Errorf("Resolve(id 101) did not carry registry row: %+v", res.Dealer)
	}

	// Unknown IDs still get a deterministic key, just unflagged as known.
	res = r.Resolve(domain.RefID(999))
	if res.Known || res.Key != "id:999" {
		t.Errorf("Resolve(id 999) = %+v, want unknown id:999", res)
	}
}

func TestResolveByComsy(t *testing.T) {
	r := NewResolver(testRegistry())

	tests := []struct {
		name    string
		c1, c2  string
		wantKey string
	}{
		{"exact first code", "AB-12.34", "", "id:101"},
		{"separators stripped", "ab 12 34", "", "id:101"},
		{"dots and hyphens mixed", "A.B-1234", "", "id:101"},
		{"match on second code", "", "xy99", "id:101"},
		{"other dealer", "cd-56-78", "", "id:102"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(domain.RefComsy(tt.c1, tt.c2))
			if res.Key != tt.wantKey || !res.Known {
				t.Errorf("Resolve(comsy %q/%q) = %+v, want known %s", tt.c1, tt.c2, res, tt.wantKey)
			}
		})
	}

	res := r.Resolve(domain.RefComsy("ZZ-00", ""))
	if res.Known {
		t.Errorf("unknown comsy resolved to %+v", res)
	}
	if res.Key != "comsy:ZZ00/" {
		t.Errorf("unknown comsy key = %q", res.Key)
	}
}

func TestResolveByName(t *testing.T) {
	r := NewResolver(testRegistry())

	res := r.Resolve(domain.RefName("  rossi   telefonia  srl "))
	if !res.Known || res.Key != "id:101" {
		t.Errorf("Resolve(name rossi) = %+v, want known id:101", res)
	}

	res = r.Resolve(domain.RefName("Sconosciuto SNC"))
	if res.Known || res.Key != "name:SCONOSCIUTO SNC" {
		t.Errorf("Resolve(unknown name) = %+v", res)
	}
}

func TestResolveAmbiguousName(t *testing.T) {
	r := NewResolver(testRegistry())

	// Dealers 103 and 104 collapse to the same normalized name. The
	// reference must be flagged, never merged into either one.
	res := r.Resolve(domain.RefName("Verdi Communication"))
	if !res.Ambiguous {
		t.Fatalf("expected ambiguous resolution, got %+v", res)
	}
	if res.Known || res.Dealer != nil {
		t.Errorf("ambiguous resolution must not pick a dealer: %+v", res)
	}
	if res.Key != "name:VERDI COMMUNICATION" {
		t.Errorf("ambiguous key = %q", res.Key)
	}
}

func TestResolveAmbiguousComsy(t *testing.T) {
	registry := []domain.DealerInfo{
		{ID: 1, Comsy1: "SAME1"},
		{ID: 2, Comsy2: "SAME-1"},
	}
	r := NewResolver(registry)

	res := r.Resolve(domain.RefComsy("same.1", ""))
	if !res.Ambiguous {
		t.Fatalf("expected ambiguous comsy resolution, got %+v", res)
	}
	if res.Known {
		t.Errorf("ambiguous comsy must not resolve: %+v", res)
	}
}

func TestNormalizeHelpers(t *testing.T) {
	if got := NormalizeComsy(" a.b-c 1 "); got != "ABC1" {
		t.Errorf("NormalizeComsy = %q, want ABC1", got)
	}
	if got := NormalizeName("  Mario \t Rossi  spa "); got != "MARIO ROSSI SPA" {
		t.Errorf("NormalizeName = %q", got)
	}
}
