package bucket

import "strings"

// categoryKeywords maps category substrings to canonical categories.
// Matching is case-insensitive and order matters: the first keyword
// found in the raw label wins.
var categoryKeywords = []struct {
	keyword  string
	category Category
}{
	{"MOB", CategoryMobile},
	{"FIS", CategoryFisso},
	{"ENERG", CategoryEnergy},
	{"SKY", CategorySky},
}

// defaultEnergyOperators are operator IDs whose rows are always energy
// contracts regardless of what the category text says. The import
// batches for these operators label rows with contract names, not
// product families, so detection is by operator membership.
var defaultEnergyOperators = map[string]bool{
	"20": true,
	"21": true,
	"27": true,
}

// raKeywords mark the Ricarica Automatica sub-metric on mobile rows.
var raKeywords = []string{"RICARICA AUTOMATICA", "RIC.AUT", "RIC AUT"}

// Normalizer maps raw source labels onto canonical bucket keys.
// The zero value is not usable; use NewNormalizer.
type Normalizer struct {
	energyOperators map[string]bool
}

// NewNormalizer builds a normalizer with the default energy operator
// allowlist. Pass extra operator IDs to extend it (configuration
// override, empty in the common case).
func NewNormalizer(extraEnergyOperators ...string) *Normalizer {
	ops := make(map[string]bool, len(defaultEnergyOperators)+len(extraEnergyOperators))
	for id := range defaultEnergyOperators {
		ops[id] = true
	}
	for _, id := range extraEnergyOperators {
		id = strings.TrimSpace(id)
		if id != "" {
			ops[id] = true
		}
	}
	return &Normalizer{energyOperators: ops}
}

// Normalize maps one (operator, rawCategory, rawSegment) triple onto its
// canonical Key. Unrecognized categories come back as CategoryOther with
// the original label preserved in Key.Operator's bucket; callers keep
// those rows for audit and exclude them from goal evaluation.
func (n *Normalizer) Normalize(operator, rawCategory, rawSegment string) Key {
	k := Key{
		Operator: strings.TrimSpace(operator),
		Category: n.category(operator, rawCategory),
		Segment:  normalizeSegment(rawCategory, rawSegment),
	}
	if k.Category == CategoryMobile {
		k.RA = isRA(rawCategory)
	}
	return k
}

// category applies the double detection rule: textual keyword match OR
// operator-id membership in the energy allowlist. Both paths are live
// in production data and neither subsumes the other.
func (n *Normalizer) category(operator, rawCategory string) Category {
	if n.energyOperators[strings.TrimSpace(operator)] {
		return CategoryEnergy
	}
	upper := strings.ToUpper(rawCategory)
	for _, ck := range categoryKeywords {
		if strings.Contains(upper, ck.keyword) {
			return ck.category
		}
	}
	return CategoryOther
}

// normalizeSegment resolves the customer segment. The segment hint can
// live in either the dedicated segment column or inside the category
// label itself ("MOBILI RES"), so both are scanned. BUS is a legacy
// alias for the shop/business segment.
func normalizeSegment(rawCategory, rawSegment string) Segment {
	joined := strings.ToUpper(rawSegment + " " + rawCategory)
	if strings.Contains(joined, "SHP") || strings.Contains(joined, "BUS") {
		return SegmentShp
	}
	if strings.Contains(joined, "RES") {
		return SegmentRes
	}
	return SegmentUnspecified
}

func isRA(rawCategory string) bool {
	upper := strings.ToUpper(rawCategory)
	for _, kw := range raKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
