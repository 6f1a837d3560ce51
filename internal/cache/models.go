// Package cache memoizes schema elaboration and per-query inference
// runs in a local SQLite (or remote libsql/Turso) database, so a
// generator invocation that sees the same schema and query text twice
// can skip re-running the inferencer. Runs are keyed by a content hash
// of their source rather than a file path, since two directories with
// identical query text should share a cache entry.
package cache

import (
	"time"

	"gorm.io/datatypes"
)

// SchemaRun records one schema elaboration: the hash of the concatenated
// schema source, and whether it elaborated cleanly.
type SchemaRun struct {
	ID        string `gorm:"primaryKey;type:varchar(64)"` // sha256 of schema source
	Source    string `gorm:"type:text"`
	Errors    datatypes.JSON `gorm:"type:jsonb"` // []diag.CLIError, empty when clean
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

// QueryRun records one query document's inference result, keyed by the
// combined hash of its own source and the schema it was typed against,
// so a schema change invalidates every query run against it. The
// statement kinds and required variables are persisted in kind's JSON
// wire form, so a later run with the same hash can skip parsing and
// interpretation entirely.
type QueryRun struct {
	ID         string         `gorm:"primaryKey;type:varchar(64)"` // sha256(schemaID + querySource)
	SchemaID   string         `gorm:"type:varchar(64);index"`
	Name       string         `gorm:"type:varchar(255)"`
	Source     string         `gorm:"type:text"`
	Emitted    string         `gorm:"type:text"` // last emitted TypeScript for this query
	Statements datatypes.JSON `gorm:"type:jsonb"` // []kind wire forms, one per statement result
	Variables  datatypes.JSON `gorm:"type:jsonb"` // map of required variable name to kind wire form
	Errors     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
}

func (SchemaRun) TableName() string { return "schema_runs" }
func (QueryRun) TableName() string  { return "query_runs" }
