package analysis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/myblueprint/internal/domain/genome"
	"github.com/bryanwahyu/myblueprint/internal/domain/report"
	"github.com/bryanwahyu/myblueprint/internal/domain/risk"
)

func testKB(t *testing.T) *risk.KnowledgeBase {
	t.Helper()
	kb, err := risk.New(map[string]risk.Entry{
		"rs4977574": {Gene: "CDKN2A/B", Variant: "Heart Disease Risk", Significance: "Pathogenic (High Risk)"},
		"rs1815739": {Gene: "ACTN3", Variant: "Muscle Performance", Significance: "Trait"},
	})
	require.NoError(t, err)
	return kb
}

func TestMatchLocalScenario(t *testing.T) {
	table := genome.MarkerTable{
		{RSID: "rs4977574", Chromosome: "9", Position: "22098574", Genotype: "GA"},
		{RSID: "rs1815739", Chromosome: "11", Position: "66560624", Genotype: "CC"},
		{RSID: "rs000001", Chromosome: "1", Position: "1", Genotype: "AB"},
	}

	matches := MatchLocal(table, testKB(t))
	require.Len(t, matches, 2)

	assert.Equal(t, "rs1815739", matches[0].RSID)
	assert.Equal(t, report.HealthFlag{
		Source:       report.SourceLocal,
		Variant:      "Muscle Performance (Genotype: CC)",
		Significance: "Trait",
		Link:         report.Link("rs1815739"),
	}, matches[0].Flag)

	assert.Equal(t, "rs4977574", matches[1].RSID)
	assert.Equal(t, "Heart Disease Risk (Genotype: GA)", matches[1].Flag.Variant)
}

func TestMatchLocalUsesFirstOccurrence(t *testing.T) {
	table := genome.MarkerTable{
		{RSID: "rs4977574", Genotype: "GA"},
		{RSID: "rs4977574", Genotype: "AA"},
	}
	matches := MatchLocal(table, testKB(t))
	require.Len(t, matches, 1)
	assert.Equal(t, "GA", matches[0].Genotype)
}

func TestMatchLocalSetIsOrderInvariant(t *testing.T) {
	table := genome.MarkerTable{
		{RSID: "rs1", Genotype: "AA"},
		{RSID: "rs4977574", Genotype: "GA"},
		{RSID: "rs2", Genotype: "CT"},
		{RSID: "rs1815739", Genotype: "CC"},
	}
	kb := testKB(t)
	want := rsids(MatchLocal(table, kb))

	shuffled := append(genome.MarkerTable(nil), table...)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, rsids(MatchLocal(shuffled, kb)))
	}
}

func TestMatchLocalLargeTable(t *testing.T) {
	table := make(genome.MarkerTable, 0, 50000)
	for i := 0; i < 50000; i++ {
		table = append(table, genome.MarkerRecord{RSID: "i" + string(rune('a'+i%26)), Genotype: "AA"})
	}
	table = append(table, genome.MarkerRecord{RSID: "rs4977574", Genotype: "GG"})

	matches := MatchLocal(table, risk.Builtin())
	require.Len(t, matches, 1)
	assert.Equal(t, "GG", matches[0].Genotype)
}

func TestMatchLocalEmptyKB(t *testing.T) {
	kb, err := risk.New(nil)
	require.NoError(t, err)
	assert.Empty(t, MatchLocal(genome.MarkerTable{{RSID: "rs1"}}, kb))
	assert.Empty(t, MatchLocal(genome.MarkerTable{{RSID: "rs1"}}, nil))
}

func rsids(ms []Match) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.RSID)
	}
	return out
}
