package domain

// DealerRefKind discriminates the union of ways a source system can
// point at a physical dealer.
type DealerRefKind string

const (
	RefByID    DealerRefKind = "id"
	RefByComsy DealerRefKind = "comsy"
	RefByName  DealerRefKind = "name"
)

// DealerRef is a heterogeneous dealer reference as it appears in a raw
// source row: a numeric ID, a pair of legacy COMSY technical codes, or
// a free-text company name. Used only for identity resolution, never
// for display.
type DealerRef struct {
	Kind   DealerRefKind `json:"kind"`
	ID     int64         `json:"id,omitempty"`
	Comsy1 string        `json:"comsy1,omitempty"`
	Comsy2 string        `json:"comsy2,omitempty"`
	Name   string        `json:"name,omitempty"`
}

// RefID builds an id-kind reference.
func RefID(id int64) DealerRef { return DealerRef{Kind: RefByID, ID: id} }

// RefComsy builds a comsy-kind reference. Either code may be empty.
func RefComsy(c1, c2 string) DealerRef {
	return DealerRef{Kind: RefByComsy, Comsy1: c1, Comsy2: c2}
}

// RefName builds a name-kind reference.
func RefName(name string) DealerRef { return DealerRef{Kind: RefByName, Name: name} }

// DealerInfo is one row of the known-dealer lookup table fetched from
// the registry (anagrafica). COMSY codes are the legacy technical
// identifiers still emitted by the telecom order feeds.
type DealerInfo struct {
	ID       int64  `json:"id" db:"id"`
	Comsy1   string `json:"comsy1" db:"comsy1"`
	Comsy2   string `json:"comsy2" db:"comsy2"`
	Name     string `json:"name" db:"ragione_sociale"`
	Province string `json:"province" db:"provincia"`
}
