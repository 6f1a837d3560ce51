// Package config loads generator defaults from the environment (and an
// optional .env file) so a CI job or local shell can pin the
// generator's inputs once instead of repeating flags on every
// invocation. Explicit flags still take precedence over these.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults holds env-sourced fallback values for cmd/surrealgen's flags.
// Flags explicitly passed on the command line always win; these only
// fill in values the user omitted.
type Defaults struct {
	QueryDir    string
	SchemaFile  string
	OutputFile  string
	GlobalsFile string
	CacheDSN    string
	Workers     int
}

// Load reads a .env file if present (missing file is not an error,
// matching godotenv.Load's own convention) and returns the
// SURREALGEN_*-derived defaults.
func Load() Defaults {
	_ = godotenv.Load()

	d := Defaults{
		QueryDir:    os.Getenv("SURREALGEN_QUERY_DIR"),
		SchemaFile:  os.Getenv("SURREALGEN_SCHEMA_FILE"),
		OutputFile:  os.Getenv("SURREALGEN_OUTPUT_FILE"),
		GlobalsFile: os.Getenv("SURREALGEN_GLOBALS_FILE"),
		CacheDSN:    os.Getenv("SURREALGEN_CACHE_DSN"),
		Workers:     0,
	}

	if workersStr := os.Getenv("SURREALGEN_WORKERS"); workersStr != "" {
		if workers, err := strconv.Atoi(workersStr); err == nil && workers >= 0 {
			d.Workers = workers
		}
	}

	return d
}
