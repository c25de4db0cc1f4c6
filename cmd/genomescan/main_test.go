package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/myblueprint/internal/formatter"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genome.txt")
	require.NoError(t, os.WriteFile(path, []byte(
		"# rsid\tchromosome\tposition\tgenotype\n"+
			"rs429358\t19\t44908684\tTC\n"+
			"rs000001\t1\t1\tAA\n"), 0o600))

	out, err := execute(t, "analyze", path, "-o", "json", "--sample", "1")
	require.NoError(t, err)

	var res formatter.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "genome.txt", res.File)
	assert.Equal(t, 2, res.Markers)
	assert.False(t, res.Live)
	require.Len(t, res.HealthFlags, 1)
	assert.Contains(t, res.HealthFlags[0].Variant, "(Genotype: TC)")
	assert.Len(t, res.GenomeSample, 1)
}

func TestAnalyzeRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genome.pdf")
	require.NoError(t, os.WriteFile(path, []byte("rs1 1 1 AA\n"), 0o600))

	_, err := execute(t, "analyze", path)
	assert.Error(t, err)
}

func TestKBCommand(t *testing.T) {
	out, err := execute(t, "kb", "-o", "json")
	require.NoError(t, err)

	var rows []formatter.KnowledgeBaseRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.NotEmpty(t, rows)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "genomescan version "+version+"\n", out)
}
