package source

import (
	"testing"

	"github.com/omniapartners/incentive-engine/internal/domain"
)

var period = domain.YearMonth{Year: 2026, Month: 7}

func TestForName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"telecom", "telecom", false},
		{" Energy ", "energy", false},
		{"MANUAL", "manual", false},
		{"whatsapp", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		s, err := ForName(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && s.Name() != tt.want {
			t.Errorf("ForName(%q).Name() = %q, want %q", tt.in, s.Name(), tt.want)
		}
	}
}

func TestTelecomOrdersRows(t *testing.T) {
	raw := []Record{
		{"comsy1": "AB12", "comsy2": "XY99", "id_operatore": int64(3), "categoria": "MOBILI RES", "segmento": "", "pezzi": int64(7)},
	}

	rows := TelecomOrders{}.Rows(raw, period)
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	r := rows[0]
	if r.Dealer.Kind != domain.RefByComsy || r.Dealer.Comsy1 != "AB12" || r.Dealer.Comsy2 != "XY99" {
		t.Errorf("dealer ref = %+v", r.Dealer)
	}
	if r.Operator != "3" || r.RawCategory != "MOBILI RES" || r.Quantity != 7 {
		t.Errorf("row = %+v", r)
	}
	if r.Provenance != domain.ProvenanceAuto {
		t.Errorf("provenance = %s", r.Provenance)
	}
	if r.Period != period {
		t.Errorf("period = %+v", r.Period)
	}
}

func TestEnergyContractsRows(t *testing.T) {
	raw := []Record{
		{"ragione_sociale": " Gamma Energia ", "id_operatore": "20", "tipo_contratto": "Conv RES", "contratti": "4"},
	}

	rows := EnergyContracts{}.Rows(raw, period)
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	r := rows[0]
	if r.Dealer.Kind != domain.RefByName || r.Dealer.Name != "Gamma Energia" {
		t.Errorf("dealer ref = %+v", r.Dealer)
	}
	if r.Quantity != 4 {
		t.Errorf("quantity = %v, want 4 (string coercion)", r.Quantity)
	}
}

func TestManualOverridesRows(t *testing.T) {
	raw := []Record{
		{"id_dealer": int64(42), "id_operatore": int64(5), "categoria": "FISSO", "segmento": "RES", "pezzi": float64(2)},
	}

	rows := ManualOverrides{}.Rows(raw, period)
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	r := rows[0]
	if r.Dealer.Kind != domain.RefByID || r.Dealer.ID != 42 {
		t.Errorf("dealer ref = %+v", r.Dealer)
	}
	if r.Provenance != domain.ProvenanceManual {
		t.Errorf("provenance = %s", r.Provenance)
	}
}

func TestMalformedRowsCoercedNotDropped(t *testing.T) {
	raw := []Record{
		{"id_dealer": int64(1), "id_operatore": int64(3), "categoria": "MOBILE"}, // missing pezzi
		{"id_dealer": int64(1), "id_operatore": int64(3), "categoria": "MOBILE", "pezzi": "non-un-numero"},
		{"id_dealer": int64(1), "id_operatore": int64(3), "categoria": "MOBILE", "pezzi": "3,5"},
	}

	rows := ManualOverrides{}.Rows(raw, period)
	if len(rows) != 3 {
		t.Fatalf("malformed rows must be kept, got %d of 3", len(rows))
	}
	if rows[0].Quantity != 0 || rows[1].Quantity != 0 {
		t.Errorf("malformed quantities = %v, %v, want 0, 0", rows[0].Quantity, rows[1].Quantity)
	}
	if rows[2].Quantity != 3.5 {
		t.Errorf("comma decimal = %v, want 3.5", rows[2].Quantity)
	}
}

func TestDealerRefFallbackOrder(t *testing.T) {
	// Manual schema prefers the registry ID; a row without one falls
	// back to nothing useful and must still produce a deterministic ref.
	raw := []Record{{"id_operatore": int64(3), "categoria": "MOBILE", "pezzi": int64(1)}}
	rows := ManualOverrides{}.Rows(raw, period)
	if rows[0].Dealer.Kind != domain.RefByName {
		t.Errorf("fallback ref kind = %s, want name", rows[0].Dealer.Kind)
	}
}
