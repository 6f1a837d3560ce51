package cache

import (
	"crypto/sha256"
	"database/sql"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	glebarezSqlite "github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

// Store wraps a gorm connection to the run cache.
type Store struct {
	db *gorm.DB
}

// Open connects to dsn, a local file path (run through the pure-Go
// glebarez/sqlite driver, no cgo required) or a libsql/Turso URL
// (http(s):// or libsql://, run through the libsql connector the same
// way db/sqlite.go wires Turso), and migrates the run tables.
func Open(dsn string, debug bool) (*Store, error) {
	if !isURL(dsn) && dsn != ":memory:" {
		dir := filepath.Dir(dsn)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, diag.Wrap(diag.ErrParseError, "creating cache directory", err)
			}
		}
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		dialector gorm.Dialector
		conn      *sql.DB
	)
	if isURL(dsn) {
		var (
			connector driver.Connector
			err       error
		)
		if token := os.Getenv("SURREALGEN_LIBSQL_AUTH_TOKEN"); token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, diag.Wrap(diag.ErrParseError, "creating libsql connector", err)
		}
		conn = sql.OpenDB(connector)
		dialector = gormsqlite.New(gormsqlite.Config{
			DriverName: "libsql",
			Conn:       conn,
			DSN:        dsn,
		})
	} else {
		dialector = glebarezSqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, diag.Wrap(diag.ErrParseError, "connecting to cache database", err)
	}

	if err := db.AutoMigrate(&SchemaRun{}, &QueryRun{}); err != nil {
		return nil, diag.Wrap(diag.ErrParseError, "migrating cache schema", err)
	}
	return &Store{db: db}, nil
}

func isURL(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "libsql")
}

// HashSource returns the cache key for a piece of schema or query text.
func HashSource(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// LookupSchema returns a previously recorded schema run, or nil if none
// matches id.
func (s *Store) LookupSchema(id string) (*SchemaRun, error) {
	var row SchemaRun
	err := s.db.First(&row, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, diag.Wrap(diag.ErrParseError, "reading schema cache", err)
	}
	return &row, nil
}

// PutSchema records a schema elaboration run, keyed by its source hash.
func (s *Store) PutSchema(id, source string, errs []diag.CLIError) error {
	payload, err := json.Marshal(errs)
	if err != nil {
		return diag.Wrap(diag.ErrParseError, "encoding schema cache errors", err)
	}
	row := SchemaRun{ID: id, Source: source, Errors: payload}
	return s.db.Save(&row).Error
}

// LookupQuery returns a previously recorded query run, or nil if none
// matches id.
func (s *Store) LookupQuery(id string) (*QueryRun, error) {
	var row QueryRun
	err := s.db.First(&row, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, diag.Wrap(diag.ErrParseError, "reading query cache", err)
	}
	return &row, nil
}

// PutQuery records a query inference run: its statement result kinds,
// required variables, emitted output, and any errors.
func (s *Store) PutQuery(id, schemaID, name, source, emitted string, statements []kind.Kind, variables map[string]kind.Kind, errs []diag.CLIError) error {
	payload, err := json.Marshal(errs)
	if err != nil {
		return diag.Wrap(diag.ErrParseError, "encoding query cache errors", err)
	}
	stmts, err := encodeStatements(statements)
	if err != nil {
		return diag.Wrap(diag.ErrParseError, "encoding query cache statements", err)
	}
	vars, err := encodeVariables(variables)
	if err != nil {
		return diag.Wrap(diag.ErrParseError, "encoding query cache variables", err)
	}
	row := QueryRun{
		ID:         id,
		SchemaID:   schemaID,
		Name:       name,
		Source:     source,
		Emitted:    emitted,
		Statements: stmts,
		Variables:  vars,
		Errors:     payload,
	}
	return s.db.Save(&row).Error
}

func encodeStatements(statements []kind.Kind) (datatypes.JSON, error) {
	out := make([]json.RawMessage, 0, len(statements))
	for _, k := range statements {
		b, err := kind.Marshal(k)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return json.Marshal(out)
}

func encodeVariables(variables map[string]kind.Kind) (datatypes.JSON, error) {
	out := make(map[string]json.RawMessage, len(variables))
	for name, k := range variables {
		b, err := kind.Marshal(k)
		if err != nil {
			return nil, err
		}
		out[name] = b
	}
	return json.Marshal(out)
}

// HasErrors reports whether the recorded run failed. A row whose
// Errors column cannot be decoded counts as failed, so a corrupt cache
// entry is re-interpreted rather than trusted.
func (q *QueryRun) HasErrors() bool {
	if len(q.Errors) == 0 {
		return false
	}
	var errs []diag.CLIError
	if err := json.Unmarshal(q.Errors, &errs); err != nil {
		return true
	}
	return len(errs) > 0
}

// DecodeStatements rebuilds the recorded per-statement result kinds.
func (q *QueryRun) DecodeStatements() ([]kind.Kind, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(q.Statements, &raw); err != nil {
		return nil, err
	}
	out := make([]kind.Kind, 0, len(raw))
	for _, r := range raw {
		k, err := kind.Unmarshal(r)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// DecodeVariables rebuilds the recorded required-variable kinds.
func (q *QueryRun) DecodeVariables() (map[string]kind.Kind, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(q.Variables, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]kind.Kind, len(raw))
	for name, r := range raw {
		k, err := kind.Unmarshal(r)
		if err != nil {
			return nil, err
		}
		out[name] = k
	}
	return out, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
