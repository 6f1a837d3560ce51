package main

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

func TestGenerateCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	schemaFile := filepath.Join(dir, "schema.surql")
	writeFile(t, schemaFile, "DEFINE TABLE person SCHEMAFULL;\nDEFINE FIELD name ON person TYPE string;\n")

	queryDir := filepath.Join(dir, "queries")
	writeFile(t, filepath.Join(queryDir, "get_person.surql"), "SELECT name FROM person;")

	outputFile := filepath.Join(dir, "out.ts")

	root := newRootCmd()
	root.SetArgs([]string{
		"generate",
		"--queries", queryDir,
		"--schema", schemaFile,
		"--output", outputFile,
	})
	require.NoError(t, root.Execute())

	out, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Contains(t, string(out), "GetPersonQuery")
}

func TestGenerateCommandMissingFlags(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"generate"})
	err := root.Execute()
	require.Error(t, err)
}

func TestCacheClearRequiresFlag(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"cache", "clear"})
	err := root.Execute()
	require.Error(t, err)
}
