// Command surrealgen is the CLI entry point wiring internal/cliapp into
// a cobra command tree, with each subcommand defining its own explicit
// flag set rather than sharing one hand-rolled top-level FlagSet.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/cliapp"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/config"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printFatal(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "surrealgen",
		Short:         "Generate typed TypeScript client code from SurrealQL queries and schema.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newCacheCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	defaults := config.Load()

	var cfg cliapp.Config
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Type-check every query under a directory and emit a TypeScript module.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.QueryDir == "" {
				return diag.New(diag.ErrParseError, "--queries is required")
			}
			if cfg.SchemaFile == "" {
				return diag.New(diag.ErrParseError, "--schema is required")
			}
			if cfg.OutputFile == "" {
				return diag.New(diag.ErrParseError, "--output is required")
			}
			return cliapp.NewRunner(cfg).Run()
		},
	}

	addGenerateFlags(cmd.Flags(), &cfg, defaults)
	return cmd
}

func addGenerateFlags(fs *pflag.FlagSet, cfg *cliapp.Config, defaults config.Defaults) {
	fs.StringVarP(&cfg.QueryDir, "queries", "q", defaults.QueryDir, "Directory of *.surql query files. (Required)")
	fs.StringVarP(&cfg.SchemaFile, "schema", "s", defaults.SchemaFile, "Path to the schema document. (Required)")
	fs.StringVarP(&cfg.OutputFile, "output", "o", defaults.OutputFile, "Path to write the generated TypeScript module. (Required)")
	fs.StringVarP(&cfg.GlobalsFile, "globals", "g", defaults.GlobalsFile, "Optional globals document of bare `<Kind> $name;` casts.")
	fs.StringVar(&cfg.CacheDSN, "cache", defaults.CacheDSN, "Optional cache DSN (local SQLite file path or libsql:// URL).")
	fs.BoolVarP(&cfg.Diff, "diff", "D", false, "Print a unified diff of the output file's previous contents.")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose output.")
	fs.IntVarP(&cfg.Workers, "workers", "w", defaults.Workers, "Number of concurrent workers, 0 means use all available CPUs.")
}

func newCacheCmd() *cobra.Command {
	var cacheDSN string
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Clear the local run cache.",
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded schema/query run from the cache database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cacheDSN == "" {
				return diag.New(diag.ErrParseError, "--cache is required")
			}
			if err := os.Remove(cacheDSN); err != nil && !os.IsNotExist(err) {
				return diag.Wrap(diag.ErrParseError, "clearing cache database", err)
			}
			fmt.Printf("cleared cache at %s\n", cacheDSN)
			return nil
		},
	}
	clearCmd.Flags().StringVar(&cacheDSN, "cache", "", "Cache DSN to clear. (Required, local file paths only)")

	cmd.AddCommand(clearCmd)
	return cmd
}

func printFatal(err error) {
	if ce, ok := err.(diag.CLIError); ok {
		fmt.Fprintln(os.Stderr, ce.JSON())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
