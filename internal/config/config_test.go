package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadReadsEnvVars(t *testing.T) {
	t.Setenv("SURREALGEN_QUERY_DIR", "./queries")
	t.Setenv("SURREALGEN_SCHEMA_FILE", "./schema.surql")
	t.Setenv("SURREALGEN_WORKERS", "4")

	d := Load()
	assert.Equal(t, "./queries", d.QueryDir)
	assert.Equal(t, "./schema.surql", d.SchemaFile)
	assert.Equal(t, 4, d.Workers)
}

func TestLoadIgnoresInvalidWorkers(t *testing.T) {
	t.Setenv("SURREALGEN_WORKERS", "not-a-number")
	os.Unsetenv("SURREALGEN_QUERY_DIR")

	d := Load()
	assert.Equal(t, 0, d.Workers)
}
