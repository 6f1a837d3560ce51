package cliapp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunGeneratesOutputFile(t *testing.T) {
	dir := t.TempDir()
	schemaFile := filepath.Join(dir, "schema.surql")
	writeFile(t, schemaFile, `
DEFINE TABLE person SCHEMAFULL;
DEFINE FIELD name ON person TYPE string;
DEFINE FIELD age ON person TYPE option<int>;
`)

	queryDir := filepath.Join(dir, "queries")
	writeFile(t, filepath.Join(queryDir, "get_person.surql"), `SELECT name, age FROM person;`)

	outputFile := filepath.Join(dir, "out", "generated.ts")

	r := NewRunner(Config{
		QueryDir:   queryDir,
		SchemaFile: schemaFile,
		OutputFile: outputFile,
	})
	require.NoError(t, r.Run())

	out, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Contains(t, string(out), "GetPersonQuery")
	assert.Contains(t, string(out), "export type Queries")
}

func TestRunServesSecondRunFromCache(t *testing.T) {
	dir := t.TempDir()
	schemaFile := filepath.Join(dir, "schema.surql")
	writeFile(t, schemaFile, `
DEFINE TABLE person SCHEMAFULL;
DEFINE FIELD name ON person TYPE string;
`)

	queryDir := filepath.Join(dir, "queries")
	writeFile(t, filepath.Join(queryDir, "create_person.surql"), `CREATE person CONTENT $data;`)

	outputFile := filepath.Join(dir, "out.ts")
	cfg := Config{
		QueryDir:   queryDir,
		SchemaFile: schemaFile,
		OutputFile: outputFile,
		CacheDSN:   filepath.Join(dir, "cache.db"),
	}

	require.NoError(t, NewRunner(cfg).Run())
	first, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	require.NoError(t, os.Remove(outputFile))

	// The second run hits the cache (same schema and query hashes) and
	// must still emit an identical module from the persisted kinds.
	require.NoError(t, NewRunner(cfg).Run())
	second, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	assert.Contains(t, string(second), "CreatePersonVariables")
}

func TestRunRequiresAllThreeInputs(t *testing.T) {
	r := NewRunner(Config{QueryDir: "x"})
	err := r.Run()
	require.Error(t, err)
}

func TestRunErrorsOnEmptyQueryDir(t *testing.T) {
	dir := t.TempDir()
	schemaFile := filepath.Join(dir, "schema.surql")
	writeFile(t, schemaFile, `DEFINE TABLE person SCHEMAFULL;`)
	queryDir := filepath.Join(dir, "queries")
	require.NoError(t, os.MkdirAll(queryDir, 0o755))

	r := NewRunner(Config{
		QueryDir:   queryDir,
		SchemaFile: schemaFile,
		OutputFile: filepath.Join(dir, "out.ts"),
	})
	require.Error(t, r.Run())
}
