// Package discover walks a query directory and derives a per-query
// identifier from each file's name, using doublestar-driven
// include/exclude glob matching against a single-pass directory read
// (a query directory is small enough that a parallel worker-pool walk
// would only add overhead).
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
)

// QueryFile is one discovered `.surql` query document.
type QueryFile struct {
	Path string // absolute or root-relative path on disk
	Name string // PascalCase identifier derived from the filename
}

// Options configures a query-directory walk.
type Options struct {
	Extension string   // file extension to match, default ".surql"
	Include   []string // optional doublestar include globs, relative to root
	Exclude   []string // optional doublestar exclude globs, relative to root
}

// Walk discovers every query file under root matching opts, sorted by
// path for deterministic emission order.
func Walk(root string, opts Options) ([]QueryFile, error) {
	ext := opts.Extension
	if ext == "" {
		ext = ".surql"
	}

	var matches []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ext {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if len(opts.Include) > 0 && !matchesAny(opts.Include, rel) {
			return nil
		}
		if matchesAny(opts.Exclude, rel) {
			return nil
		}
		matches = append(matches, path)
		return nil
	})
	if err != nil {
		return nil, diag.Wrap(diag.ErrParseError, "walking query directory", err)
	}
	sort.Strings(matches)

	out := make([]QueryFile, 0, len(matches))
	for _, path := range matches {
		name, err := identifierFor(filepath.Base(path))
		if err != nil {
			return nil, err
		}
		out = append(out, QueryFile{Path: path, Name: name})
	}
	return out, nil
}

func matchesAny(globs []string, rel string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.PathMatch(g, rel); ok {
			return true
		}
	}
	return false
}

// identifierFor derives a PascalCase identifier from a query filename
// (get_user.surql -> GetUser); the filename must have exactly one dot
// (the extension's).
func identifierFor(base string) (string, error) {
	if strings.Count(base, ".") != 1 {
		return "", diag.Wrapf(diag.ErrParseError, "query filename must have exactly one dot", base)
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return pascalCase(stem), nil
}

func pascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
