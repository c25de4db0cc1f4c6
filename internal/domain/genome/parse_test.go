package genome

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTabSeparated(t *testing.T) {
	raw := "# This data file generated by 23andMe\n" +
		"# rsid\tchromosome\tposition\tgenotype\n" +
		"rs4477212\t1\t82154\tAA\n" +
		"rs3094315\t1\t752566\tAG \n" +
		"i713426\tMT\t16519\t--\n"

	table, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)

	want := MarkerTable{
		{RSID: "rs4477212", Chromosome: "1", Position: "82154", Genotype: "AA"},
		{RSID: "rs3094315", Chromosome: "1", Position: "752566", Genotype: "AG"},
		{RSID: "i713426", Chromosome: "MT", Position: "16519", Genotype: "--"},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCommaSkipsMalformedLine(t *testing.T) {
	raw := "rs4977574,9,22098574,GA\n" +
		"rs1815739,CC\n" +
		"rs429358,19,44908684,TT\n"

	table, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "rs4977574", table[0].RSID)
	assert.Equal(t, "rs429358", table[1].RSID)
	assert.Equal(t, "TT", table[1].Genotype)
}

func TestParseWhitespaceSeparated(t *testing.T) {
	raw := "rs4977574   9  22098574  GA\n" +
		"rs1815739 11 66560624 CC\n" +
		"rs000001 X 1 AB\n"

	table, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, table, 3)
	assert.Equal(t, "X", table[2].Chromosome)
	assert.Equal(t, "AB", table[2].Genotype)
}

func TestParseNoValidRows(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"comments only": "# one\n# two\n",
		"two columns":   "rs1 AA\nrs2 GG\n",
		"header only":   "rsid\tchromosome\tposition\tgenotype\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			table, err := Parse(strings.NewReader(raw))
			assert.Nil(t, table)
			assert.True(t, errors.Is(err, ErrNoValidData), "got %v", err)
		})
	}
}

func TestParseSkipsHeaderRowAndBOM(t *testing.T) {
	raw := "\ufeffrsid,chromosome,position,genotype\r\n" +
		"rs762551,15,74749576,AC\r\n"

	table, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "AC", table[0].Genotype)
}

func TestParseSniffsBeyondSampleWindow(t *testing.T) {
	var b strings.Builder
	for i := 0; i < sniffSampleLines*3; i++ {
		fmt.Fprintf(&b, "rs%d\t1\t%d\tAG\n", i+1, 1000+i)
	}
	b.WriteString("broken line\n")

	table, err := Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Len(t, table, sniffSampleLines*3)
	assert.Equal(t, "rs1", table[0].RSID)
	assert.Equal(t, fmt.Sprintf("rs%d", sniffSampleLines*3), table[len(table)-1].RSID)
}

func TestParseSkipsOverlongLine(t *testing.T) {
	raw := "rs1\t1\t10\tAA\n" +
		strings.Repeat("x", 2*maxLineBytes) + "\n" +
		"rs2\t1\t20\tGG\n"

	table, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "rs1", table[0].RSID)
	assert.Equal(t, "rs2", table[1].RSID)
}

func TestParseOverlongFinalLineWithoutNewline(t *testing.T) {
	raw := "rs1\t1\t10\tAA\n" + strings.Repeat("y", maxLineBytes+1)

	table, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, table, 1)
}

func TestParseKeepsLastLineWithoutNewline(t *testing.T) {
	table, err := Parse(strings.NewReader("rs1\t1\t10\tAA\nrs2\t1\t20\tGG"))
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "GG", table[1].Genotype)
}

func TestParseReaderErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("rs1\t1\t10\tAA\n"), iotest.ErrReader(boom))

	table, err := Parse(r)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNoValidData)
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name   string
		sample []string
		want   Separator
	}{
		{"tab", []string{"rs1\t1\t10\tAA", "rs2\t2\t20\tGG"}, SeparatorTab},
		{"comma", []string{"rs1,1,10,AA", "rs2,2,20,GG"}, SeparatorComma},
		{"comma with spaces", []string{"rs1, 1, 10, AA"}, SeparatorComma},
		{"spaces", []string{"rs1 1 10 AA", "rs2  2  20  GG"}, SeparatorWhitespace},
		{"nothing fits", []string{"garbage"}, SeparatorWhitespace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sniff(tt.sample))
		})
	}
}

func TestMarkerTableFirstGenotypes(t *testing.T) {
	table := MarkerTable{
		{RSID: "rs1", Genotype: "AA"},
		{RSID: "rs2", Genotype: "CT"},
		{RSID: "rs1", Genotype: "GG"},
	}
	assert.Equal(t, map[string]string{"rs1": "AA", "rs2": "CT"}, table.FirstGenotypes())
}

func TestMarkerTableHead(t *testing.T) {
	table := MarkerTable{{RSID: "rs1"}, {RSID: "rs2"}, {RSID: "rs3"}}
	assert.Len(t, table.Head(2), 2)
	assert.Len(t, table.Head(100), 3)
	assert.Empty(t, table.Head(-1))
}
