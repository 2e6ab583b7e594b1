package domain

import (
	"sort"
	"strings"
)

// MaxContactResults caps SearchContacts.
const MaxContactResults = 5

// SameContact reports whether two profiles describe the same person: matching e-mail
// when both carry one, otherwise matching name.
func SameContact(a, b *Profile) bool {
	ae, be := strings.TrimSpace(a.Email), strings.TrimSpace(b.Email)
	if ae != "" && be != "" && strings.EqualFold(ae, be) {
		return true
	}
	return a.Name != "" && SameText(a.Name, b.Name)
}

// MatchContacts returns up to MaxContactResults contacts whose name contains query,
// names starting with it first. An empty query matches nothing.
func MatchContacts(contacts []Contact, query string) []Contact {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Contact{}
	}
	type hit struct {
		c      Contact
		prefix bool
	}
	var hits []hit
	for _, c := range contacts {
		name := strings.ToLower(c.Name)
		if !strings.Contains(name, q) {
			continue
		}
		hits = append(hits, hit{c: c, prefix: strings.HasPrefix(name, q)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].prefix && !hits[j].prefix })
	out := make([]Contact, 0, min(len(hits), MaxContactResults))
	for _, h := range hits {
		if len(out) == MaxContactResults {
			break
		}
		out = append(out, h.c)
	}
	return out
}
