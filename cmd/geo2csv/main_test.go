package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `{"features": [
	{"properties": {"Nom": "Dr Martin", "Commune": "Bastia", "Categorie": "Médecin généraliste", "Coordonnées": "42.681512, 9.433763"}},
	{"properties": {"Nom": "Pharmacie du Port", "Commune": "Ajaccio", "Categorie": "Pharmacie", "Coordonnées": "41.919, 8.738"}}
]}`

func defaultOptions(dir string) Options {
	return Options{
		Input:    filepath.Join(dir, "sante.geojson"),
		Output:   filepath.Join(dir, "generaliste.csv"),
		Category: "Médecin généraliste",
		Format:   "csv",
	}
}

func TestRunSingleExport(t *testing.T) {
	dir := t.TempDir()
	opts := defaultOptions(dir)
	require.NoError(t, os.WriteFile(opts.Input, []byte(doc), 0o644))

	var out bytes.Buffer
	assert.Equal(t, 0, run(opts, &out))
	assert.Contains(t, out.String(), "Succès !")
	assert.FileExists(t, opts.Output)
}

func TestRunMissingInputExitsNormally(t *testing.T) {
	opts := defaultOptions(t.TempDir())

	var out bytes.Buffer
	assert.Equal(t, 0, run(opts, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Lecture de "+opts.Input+"...", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Une erreur est survenue : "), lines[1])
	assert.NoFileExists(t, opts.Output)
}

func TestRunConfigExports(t *testing.T) {
	dir := t.TempDir()
	opts := defaultOptions(dir)
	require.NoError(t, os.WriteFile(opts.Input, []byte(doc), 0o644))

	cfg := "exports:\n" +
		"  - name: generalistes\n" +
		"    output: " + filepath.Join(dir, "gen.csv") + "\n" +
		"  - name: pharmacies\n" +
		"    category: Pharmacie\n" +
		"    format: geojson\n" +
		"    output: " + filepath.Join(dir, "pharma.geojson") + "\n"
	opts.ConfigFile = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(opts.ConfigFile, []byte(cfg), 0o644))

	var out bytes.Buffer
	assert.Equal(t, 0, run(opts, &out))
	assert.FileExists(t, filepath.Join(dir, "gen.csv"))
	assert.FileExists(t, filepath.Join(dir, "pharma.geojson"))
	assert.NoFileExists(t, opts.Output)
}

func TestRunConfigLimit(t *testing.T) {
	dir := t.TempDir()
	opts := defaultOptions(dir)
	require.NoError(t, os.WriteFile(opts.Input, []byte(doc), 0o644))

	cfg := "exports:\n" +
		"  - name: a\n" +
		"    output: " + filepath.Join(dir, "a.csv") + "\n" +
		"  - name: b\n" +
		"    output: " + filepath.Join(dir, "b.csv") + "\n"
	opts.ConfigFile = filepath.Join(dir, "config.yaml")
	opts.Limit = []string{"b", "unknown"}
	require.NoError(t, os.WriteFile(opts.ConfigFile, []byte(cfg), 0o644))

	assert.Equal(t, 0, run(opts, &bytes.Buffer{}))
	assert.NoFileExists(t, filepath.Join(dir, "a.csv"))
	assert.FileExists(t, filepath.Join(dir, "b.csv"))
}

func TestRunBadConfig(t *testing.T) {
	opts := defaultOptions(t.TempDir())
	opts.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")

	var out bytes.Buffer
	assert.Equal(t, 1, run(opts, &out))
	assert.True(t, strings.HasPrefix(out.String(), "Une erreur est survenue : "))
}
