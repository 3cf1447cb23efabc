// Package dealer resolves heterogeneous dealer references onto one
// canonical key per physical dealer.
//
// The same dealer shows up as a numeric registry ID in manual rows, as
// a pair of legacy COMSY technical codes in the telecom order feed, and
// as a free-text company name in the energy import batches. Merging
// per-dealer totals across sources without double counting depends on
// collapsing all three onto the same key.
package dealer

import (
	"fmt"
	"strings"

	"github.com/omniapartners/incentive-engine/internal/domain"
)

// Resolution is the outcome of resolving one DealerRef.
//
// Known is false when the reference matched nothing in the registry;
// the row is still kept under a deterministic synthetic key so totals
// stay auditable. Ambiguous is true when the reference matched more
// than one registry entry; such rows are never silently merged into
// either candidate.
type Resolution struct {
	Key       string
	Dealer    *domain.DealerInfo
	Known     bool
	Ambiguous bool
}

// Resolver maps DealerRefs onto canonical keys using the known-dealer
// registry. Build one per request from the lookup table snapshot; the
// resolver itself is read-only after construction.
type Resolver struct {
	byID    map[int64]*domain.DealerInfo
	byComsy map[string][]*domain.DealerInfo
	byName  map[string][]*domain.DealerInfo
}

// NewResolver indexes the registry snapshot. Duplicate COMSY codes and
// duplicate normalized names are retained as multi-entry slots so that
// Resolve can flag them instead of picking a winner.
func NewResolver(registry []domain.DealerInfo) *Resolver {
	r := &Resolver{
		byID:    make(map[int64]*domain.DealerInfo, len(registry)),
		byComsy: make(map[string][]*domain.DealerInfo),
		byName:  make(map[string][]*domain.DealerInfo),
	}
	for i := range registry {
		d := &registry[i]
		r.byID[d.ID] = d
		for _, code := range []string{d.Comsy1, d.Comsy2} {
			if norm := NormalizeComsy(code); norm != "" {
				r.byComsy[norm] = appendUnique(r.byComsy[norm], d)
			}
		}
		if norm := NormalizeName(d.Name); norm != "" {
			r.byName[norm] = appendUnique(r.byName[norm], d)
		}
	}
	return r
}

// Resolve turns one DealerRef into its canonical key.
//
// Precedence is fixed: registry ID, then COMSY code, then normalized
// name. A reference that resolves cleanly gets the "id:<n>" key of the
// matched dealer; anything else gets a synthetic key derived from the
// raw reference.
func (r *Resolver) Resolve(ref domain.DealerRef) Resolution {
	switch ref.Kind {
	case domain.RefByID:
		if d, ok := r.byID[ref.ID]; ok {
			return Resolution{Key: idKey(d.ID), Dealer: d, Known: true}
		}
		return Resolution{Key: idKey(ref.ID)}

	case domain.RefByComsy:
		return r.resolveComsy(ref)

	case domain.RefByName:
		return r.resolveName(ref.Name)
	}
	return Resolution{Key: "name:" + NormalizeName(ref.Name)}
}

func (r *Resolver) resolveComsy(ref domain.DealerRef) Resolution {
	var candidates []*domain.DealerInfo
	for _, code := range []string{ref.Comsy1, ref.Comsy2} {
		norm := NormalizeComsy(code)
		if norm == "" {
			continue
		}
		for _, d := range r.byComsy[norm] {
			candidates = appendUnique(candidates, d)
		}
	}
	switch len(candidates) {
	case 1:
		return Resolution{Key: idKey(candidates[0].ID), Dealer: candidates[0], Known: true}
	case 0:
		return Resolution{Key: comsyKey(ref)}
	default:
		// Two registry entries share a COMSY code. Keep the row apart
		// under its synthetic key and let it surface in the audit view.
		return Resolution{Key: comsyKey(ref), Ambiguous: true}
	}
}

func (r *Resolver) resolveName(name string) Resolution {
	norm := NormalizeName(name)
	candidates := r.byName[norm]
	switch len(candidates) {
	case 1:
		return Resolution{Key: idKey(candidates[0].ID), Dealer: candidates[0], Known: true}
	case 0:
		return Resolution{Key: "name:" + norm}
	default:
		return Resolution{Key: "name:" + norm, Ambiguous: true}
	}
}

func idKey(id int64) string { return fmt.Sprintf("id:%d", id) }

func comsyKey(ref domain.DealerRef) string {
	return "comsy:" + NormalizeComsy(ref.Comsy1) + "/" + NormalizeComsy(ref.Comsy2)
}

// NormalizeComsy uppercases a COMSY technical code and strips the
// separator characters the feeds disagree on (spaces, dots, hyphens).
func NormalizeComsy(code string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		switch r {
		case ' ', '.', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeName canonicalizes a free-text company name: uppercase,
// trimmed, internal whitespace collapsed to single spaces.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), " ")
}

func appendUnique(list []*domain.DealerInfo, d *domain.DealerInfo) []*domain.DealerInfo {
	for _, have := range list {
		if have == d {
			return list
		}
	}
	return append(list, d)
}
