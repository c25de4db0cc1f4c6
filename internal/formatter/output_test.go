package formatter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/myblueprint/internal/domain/genome"
	"github.com/bryanwahyu/myblueprint/internal/domain/report"
	"github.com/bryanwahyu/myblueprint/internal/domain/risk"
)

func init() { color.NoColor = true }

func sampleResult() *Result {
	return &Result{
		File:    "genome.txt",
		Markers: 3,
		HealthFlags: []report.HealthFlag{{
			Source:       report.SourceLocal,
			Variant:      "Muscle Performance (Genotype: CC)",
			Significance: "Trait",
			Link:         report.Link("rs1815739"),
			Reading:      "Power",
		}},
		GenomeSample: []genome.MarkerRecord{{RSID: "rs1815739", Chromosome: "11", Position: "66560624", Genotype: "CC"}},
	}
}

func TestDisplayResultsHuman(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayResults(&buf, sampleResult(), "human"))

	out := buf.String()
	assert.Contains(t, out, "GENOME: genome.txt")
	assert.Contains(t, out, "HEALTH FLAGS (1):")
	assert.Contains(t, out, "1. Muscle Performance (Genotype: CC)")
	assert.Contains(t, out, "Reading: Power")
	assert.Contains(t, out, "https://www.ncbi.nlm.nih.gov/clinvar/?term=rs1815739")
	assert.Contains(t, out, "SAMPLE (first 1 rows):")
}

func TestDisplayResultsNoFlags(t *testing.T) {
	res := sampleResult()
	res.HealthFlags = nil
	var buf bytes.Buffer
	require.NoError(t, DisplayResults(&buf, res, ""))
	assert.Contains(t, buf.String(), "No notable markers found")
}

func TestDisplayResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayResults(&buf, sampleResult(), "json"))

	var got Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *sampleResult(), got)
}

func TestDisplayResultsYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayResults(&buf, sampleResult(), "yaml"))
	assert.Contains(t, buf.String(), "health_flags:")

	var got Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Trait", got.HealthFlags[0].Significance)
}

func TestDisplayResultsUnknownFormat(t *testing.T) {
	assert.Error(t, DisplayResults(&bytes.Buffer{}, sampleResult(), "xml"))
}

func TestDisplayKnowledgeBase(t *testing.T) {
	kb, err := risk.New(map[string]risk.Entry{
		"rs429358":  {Gene: "APOE", Variant: "Alzheimer's Risk (APOE4)", Significance: "Risk Factor"},
		"rs1815739": {Gene: "ACTN3", Variant: "Muscle Performance", Significance: "Trait"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, DisplayKnowledgeBase(&buf, kb, "yaml"))
	var rows []KnowledgeBaseRow
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "rs1815739", rows[0].RSID)
	assert.Equal(t, "ACTN3", rows[0].Gene)

	buf.Reset()
	require.NoError(t, DisplayKnowledgeBase(&buf, kb, "human"))
	assert.Contains(t, buf.String(), "APOE")
}
