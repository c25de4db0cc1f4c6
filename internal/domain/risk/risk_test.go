package risk

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	kb := Builtin()
	assert.Equal(t, 14, kb.Len())

	e, ok := kb.Lookup("rs4977574")
	require.True(t, ok)
	assert.Equal(t, "CDKN2A/B", e.Gene)
	assert.Equal(t, "Pathogenic (High Risk)", e.Significance)

	_, ok = kb.Lookup("rs000001")
	assert.False(t, ok)
}

func TestRSIDsSorted(t *testing.T) {
	kb, err := New(map[string]Entry{
		"rs9": {Variant: "v", Significance: "s"},
		"rs1": {Variant: "v", Significance: "s"},
		"rs5": {Variant: "v", Significance: "s"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"rs1", "rs5", "rs9"}, kb.RSIDs())
}

func TestNewRejectsMalformed(t *testing.T) {
	cases := map[string]map[string]Entry{
		"empty key":            {" ": {Variant: "v", Significance: "s"}},
		"missing variant":      {"rs1": {Significance: "s"}},
		"missing significance": {"rs1": {Variant: "v"}},
	}
	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(entries)
			assert.True(t, errors.Is(err, ErrMalformedEntry), "got %v", err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	data := []byte(`
rs6025:
  gene: F5
  variant: Factor V Leiden
  significance: Pathogenic
  description: Increased risk of blood clots.
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	kb, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, kb.Len())
	e, ok := kb.Lookup("rs6025")
	require.True(t, ok)
	assert.Equal(t, "Factor V Leiden", e.Variant)
}

func TestLoadEmptyPathUsesBuiltin(t *testing.T) {
	kb, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Builtin().Len(), kb.Len())
}

func TestDecodeInvalidYAML(t *testing.T) {
	_, err := Decode([]byte("rs1: [unterminated"))
	assert.Error(t, err)
}

func TestEntryReading(t *testing.T) {
	kb := Builtin()
	e, ok := kb.Lookup("rs762551")
	require.True(t, ok)

	tests := []struct {
		genotype string
		want     string
		found    bool
	}{
		{"AA", "Fast", true},
		{"AC", "Normal", true},
		{"CA", "Normal", true},
		{" cc ", "Slow", true},
		{"--", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, found := e.Reading(tt.genotype)
		assert.Equal(t, tt.found, found, tt.genotype)
		assert.Equal(t, tt.want, got, tt.genotype)
	}

	plain, ok := kb.Lookup("rs6025")
	require.True(t, ok)
	_, found := plain.Reading("AA")
	assert.False(t, found)
}

func TestDecodeGenotypes(t *testing.T) {
	kb, err := Decode([]byte(`
rs1815739:
  gene: ACTN3
  variant: Muscle Performance
  significance: Trait
  genotypes:
    cc: Power
    CT: Normal
    TT: Endurance
`))
	require.NoError(t, err)

	e, ok := kb.Lookup("rs1815739")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"CC": "Power", "CT": "Normal", "TT": "Endurance"}, e.Genotypes)
	r, found := e.Reading("TC")
	assert.True(t, found)
	assert.Equal(t, "Normal", r)
}
