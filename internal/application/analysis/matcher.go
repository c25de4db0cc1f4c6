package analysis

import (
	"sort"

	"github.com/bryanwahyu/myblueprint/internal/domain/genome"
	"github.com/bryanwahyu/myblueprint/internal/domain/report"
	"github.com/bryanwahyu/myblueprint/internal/domain/risk"
)

// Match is a marker found in both the user's table and the knowledge base.
type Match struct {
	RSID     string
	Genotype string
	Flag     report.HealthFlag
}

// MatchLocal intersects the table's distinct rsids with the knowledge base.
// Genotypes come from each rsid's first occurrence; output is sorted by rsid.
func MatchLocal(table genome.MarkerTable, kb *risk.KnowledgeBase) []Match {
	if kb == nil || kb.Len() == 0 {
		return nil
	}
	genotypes := table.FirstGenotypes()

	// walk the smaller side of the intersection
	var ids []string
	if kb.Len() <= len(genotypes) {
		for _, id := range kb.RSIDs() {
			if _, ok := genotypes[id]; ok {
				ids = append(ids, id)
			}
		}
	} else {
		for id := range genotypes {
			if _, ok := kb.Lookup(id); ok {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
	}

	out := make([]Match, 0, len(ids))
	for _, id := range ids {
		entry, _ := kb.Lookup(id)
		gt := genotypes[id]
		out = append(out, Match{
			RSID:     id,
			Genotype: gt,
			Flag:     report.LocalFlag(id, gt, entry),
		})
	}
	return out
}
