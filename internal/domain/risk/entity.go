package risk

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMalformedEntry means a curated entry lacks data every flag needs.
var ErrMalformedEntry = errors.New("malformed knowledge base entry")

// Entry is the curated metadata for one marker.
type Entry struct {
	Gene         string `json:"gene" yaml:"gene"`
	Variant      string `json:"variant" yaml:"variant"`
	Significance string `json:"significance" yaml:"significance"`
	Description  string `json:"description" yaml:"description"`
	// Genotypes maps a two-allele call to a short reading such as "Slow".
	Genotypes map[string]string `json:"genotypes,omitempty" yaml:"genotypes,omitempty"`
}

// Reading returns the curated reading for genotype. Calls are matched
// case-insensitively and in either allele order, so "ag" finds "GA".
func (e Entry) Reading(genotype string) (string, bool) {
	g := strings.ToUpper(strings.TrimSpace(genotype))
	if g == "" || len(e.Genotypes) == 0 {
		return "", false
	}
	if r, ok := e.Genotypes[g]; ok {
		return r, true
	}
	if len(g) == 2 {
		if r, ok := e.Genotypes[string([]byte{g[1], g[0]})]; ok {
			return r, true
		}
	}
	return "", false
}

// KnowledgeBase is an immutable rsid -> Entry table.
// Concurrent reads need no locking because nothing writes after New.
type KnowledgeBase struct {
	entries map[string]Entry
}

// New validates and copies entries.
func New(entries map[string]Entry) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{entries: make(map[string]Entry, len(entries))}
	for rsid, e := range entries {
		id := strings.TrimSpace(rsid)
		if id == "" {
			return nil, fmt.Errorf("%w: empty rsid", ErrMalformedEntry)
		}
		if strings.TrimSpace(e.Variant) == "" || strings.TrimSpace(e.Significance) == "" {
			return nil, fmt.Errorf("%w: %s needs variant and significance", ErrMalformedEntry, id)
		}
		if len(e.Genotypes) > 0 {
			calls := make(map[string]string, len(e.Genotypes))
			for g, r := range e.Genotypes {
				calls[strings.ToUpper(strings.TrimSpace(g))] = r
			}
			e.Genotypes = calls
		}
		kb.entries[id] = e
	}
	return kb, nil
}

// Lookup returns the curated entry for rsid.
func (kb *KnowledgeBase) Lookup(rsid string) (Entry, bool) {
	e, ok := kb.entries[rsid]
	return e, ok
}

func (kb *KnowledgeBase) Len() int { return len(kb.entries) }

// RSIDs returns every key, sorted.
func (kb *KnowledgeBase) RSIDs() []string {
	out := make([]string, 0, len(kb.entries))
	for id := range kb.entries {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
