// Package cliapp wires discover, surql, schema, interpret, emit/typescript,
// and cache into one generator invocation: discover the query files,
// elaborate the schema, type-check every query against it, and emit the
// resulting TypeScript module, all behind a single entry point consumed
// by cmd/surrealgen.
package cliapp

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/cache"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/discover"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/emit/typescript"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/interpret"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/schema"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/surql"
)

// Config is the CLI contract's full set of inputs: three required
// (QueryDir, SchemaFile, OutputFile), the rest optional.
type Config struct {
	QueryDir    string
	SchemaFile  string
	OutputFile  string
	GlobalsFile string // optional bare `<K> $name;` casts document

	CacheDSN string // optional; empty disables the run cache
	Diff     bool   // print a unified diff against OutputFile's previous contents
	Verbose  bool
	Workers  int // 0 means runtime.NumCPU()
}

// Runner executes one generator invocation.
type Runner struct {
	cfg Config
	out *os.File
}

// NewRunner builds a Runner writing status lines to stderr.
func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg, out: os.Stderr}
}

// Run carries out the full discover -> parse -> elaborate -> interpret
// -> emit pipeline and writes the result to cfg.OutputFile. It returns a
// diag.CLIError on any failure; cmd/surrealgen translates that into a
// process exit code.
func (r *Runner) Run() error {
	cfg := r.cfg
	if cfg.QueryDir == "" || cfg.SchemaFile == "" || cfg.OutputFile == "" {
		return diag.New(diag.ErrParseError, "query directory, schema file, and output file are all required")
	}

	schemaSrc, err := os.ReadFile(cfg.SchemaFile)
	if err != nil {
		return diag.Wrap(diag.ErrParseError, "reading schema file", err)
	}

	var store *cache.Store
	if cfg.CacheDSN != "" {
		store, err = cache.Open(cfg.CacheDSN, cfg.Verbose)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	schemaID := cache.HashSource(string(schemaSrc))
	sch, err := r.elaborateSchema(string(schemaSrc), schemaID, store)
	if err != nil {
		return err
	}

	globals := map[string]kind.Kind{}
	if cfg.GlobalsFile != "" {
		globalsSrc, err := os.ReadFile(cfg.GlobalsFile)
		if err != nil {
			return diag.Wrap(diag.ErrParseError, "reading globals file", err)
		}
		decls, err := surql.ParseGlobals(string(globalsSrc))
		if err != nil {
			return err
		}
		for _, d := range decls {
			globals[d.Name] = d.Kind
		}
	}

	files, err := discover.Walk(cfg.QueryDir, discover.Options{})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return diag.Wrapf(diag.ErrParseError, "no query files found", cfg.QueryDir)
	}

	queries, err := r.interpretAll(files, sch, globals, schemaID, store)
	if err != nil {
		return err
	}

	sort.Slice(queries, func(i, j int) bool { return queries[i].Name < queries[j].Name })
	output, err := typescript.Generate(queries, sch.IDKinds())
	if err != nil {
		return err
	}

	if cfg.Diff {
		r.printDiff(cfg.OutputFile, output)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0o755); err != nil {
		return diag.Wrap(diag.ErrParseError, "creating output directory", err)
	}
	if err := os.WriteFile(cfg.OutputFile, []byte(output), 0o644); err != nil {
		return diag.Wrap(diag.ErrParseError, "writing output file", err)
	}
	if cfg.Verbose {
		fmt.Fprintf(r.out, "wrote %d queries to %s\n", len(queries), cfg.OutputFile)
	}
	return nil
}

func (r *Runner) elaborateSchema(src, schemaID string, store *cache.Store) (*schema.Schema, error) {
	stmts, err := surql.ParseSchema(src)
	if err != nil {
		return nil, err
	}
	sch, err := schema.Elaborate(stmts)
	if err != nil {
		if store != nil {
			_ = store.PutSchema(schemaID, src, []diag.CLIError{toCLIError(err)})
		}
		return nil, err
	}
	if store != nil {
		_ = store.PutSchema(schemaID, src, nil)
	}
	return sch, nil
}

// interpretAll runs one goroutine per worker, fanning out over files
// through a bounded worker pool: each query file is independent of
// every other, so the only shared state is the results slice each
// worker appends to under a mutex.
func (r *Runner) interpretAll(files []discover.QueryFile, sch *schema.Schema, globals map[string]kind.Kind, schemaID string, store *cache.Store) ([]typescript.Query, error) {
	numW := r.cfg.Workers
	if numW < 1 {
		numW = runtime.NumCPU()
	}

	jobs := make(chan discover.QueryFile)
	results := make([]typescript.Query, 0, len(files))
	var firstErr error
	var mu sync.Mutex
	var wg sync.WaitGroup

	ip := interpret.New(sch)

	for i := 0; i < numW; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				q, err := r.interpretOne(ip, f, globals, schemaID, store)
				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
				} else {
					results = append(results, q)
				}
				mu.Unlock()
			}
		}()
	}

	for _, f := range files {
		jobs <- f
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func (r *Runner) interpretOne(ip *interpret.Interpreter, f discover.QueryFile, globals map[string]kind.Kind, schemaID string, store *cache.Store) (typescript.Query, error) {
	src, err := os.ReadFile(f.Path)
	if err != nil {
		return typescript.Query{}, diag.Wrap(diag.ErrParseError, "reading query file", err)
	}

	queryID := cache.HashSource(schemaID, string(src))
	if store != nil {
		// A hit carries the persisted statement kinds and required
		// variables, which is everything emission needs: parse and
		// interpretation are skipped entirely. An undecodable row falls
		// through to a fresh interpretation that overwrites it.
		if cached, err := store.LookupQuery(queryID); err == nil && cached != nil && !cached.HasErrors() {
			stmts, sErr := cached.DecodeStatements()
			vars, vErr := cached.DecodeVariables()
			if sErr == nil && vErr == nil {
				return typescript.Query{
					Name:       f.Name,
					Source:     string(src),
					Statements: stmts,
					Variables:  vars,
				}, nil
			}
		}
	}

	prog, err := surql.Parse(string(src))
	if err != nil {
		if store != nil {
			_ = store.PutQuery(queryID, schemaID, f.Name, string(src), "", nil, nil, []diag.CLIError{toCLIError(err)})
		}
		return typescript.Query{}, err
	}

	result, err := ip.InterpretProgram(prog, globals)
	if err != nil {
		if store != nil {
			_ = store.PutQuery(queryID, schemaID, f.Name, string(src), "", nil, nil, []diag.CLIError{toCLIError(err)})
		}
		return typescript.Query{}, err
	}

	q := typescript.Query{
		Name:       f.Name,
		Source:     string(src),
		Statements: result.Statements,
		Variables:  result.Env.RequiredVariables(),
	}
	if store != nil {
		emitted, _ := typescript.Generate([]typescript.Query{q}, ip.Schema.IDKinds())
		_ = store.PutQuery(queryID, schemaID, f.Name, string(src), emitted, q.Statements, q.Variables, nil)
	}
	return q, nil
}

func (r *Runner) printDiff(outputFile, newContent string) {
	prev, err := os.ReadFile(outputFile)
	if err != nil {
		prev = nil
	}
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(prev)),
		B:        difflib.SplitLines(newContent),
		FromFile: outputFile,
		ToFile:   outputFile + " (generated)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		fmt.Fprintf(r.out, "(diff error: %v)\n", err)
		return
	}
	fmt.Fprint(r.out, text)
}

func toCLIError(err error) diag.CLIError {
	if ce, ok := err.(diag.CLIError); ok {
		return ce
	}
	return diag.CLIError{Code: diag.ErrParseError, Message: err.Error()}
}
