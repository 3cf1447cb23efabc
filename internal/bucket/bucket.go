// Package bucket normalizes source-specific (operator, category, segment)
// labels onto the fixed taxonomy used for commission aggregation and
// threshold evaluation.
//
// Source systems disagree on vocabulary: the telecom order feed writes
// "MOBILI RES", the energy importer writes "Conv RES", manual rows write
// whatever the operator typed. All of them must land on exactly one
// canonical bucket, or be preserved under their original label as
// unclassified for audit.
package bucket

import "fmt"

// Category is the canonical product family.
type Category string

const (
	CategoryFisso  Category = "FISSO"
	CategoryMobile Category = "MOBILE"
	CategoryEnergy Category = "ENERGY"
	CategorySky    Category = "SKY"
	CategoryOther  Category = "OTHER"
)

// Segment is the canonical customer segment.
type Segment string

const (
	SegmentRes         Segment = "RES"
	SegmentShp         Segment = "SHP"
	SegmentUnspecified Segment = "UNSPECIFIED"
)

// Key identifies one canonical bucket. RA marks the "Ricarica
// Automatica" sub-metric: mobile activations with automatic recharge
// are counted apart from pure ones.
type Key struct {
	Operator string   `json:"operator"`
	Category Category `json:"category"`
	Segment  Segment  `json:"segment"`
	RA       bool     `json:"ra,omitempty"`
}

// Classified reports whether the key belongs to a named bucket.
// OTHER buckets are kept for audit but never evaluated against goals.
func (k Key) Classified() bool { return k.Category != CategoryOther }

// Label returns the display form used in report rows, e.g. "FISSO RES"
// or "MOBILE RA SHP".
func (k Key) Label() string {
	s := string(k.Category)
	if k.RA {
		s += " RA"
	}
	if k.Segment != SegmentUnspecified {
		s += " " + string(k.Segment)
	}
	return s
}

// Less orders keys by operator, then category, then segment, with the
// plain key before its RA variant. Every sorted bucket listing in the
// output views uses this ordering.
func (k Key) Less(o Key) bool {
	if k.Operator != o.Operator {
		return k.Operator < o.Operator
	}
	if k.Category != o.Category {
		return k.Category < o.Category
	}
	if k.Segment != o.Segment {
		return k.Segment < o.Segment
	}
	return !k.RA && o.RA
}

// String implements fmt.Stringer for log lines and map dumps.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Operator, k.Label())
}
