// Package main is the ort command-line tool: a thin wrapper around the
// compiler and its supporting catalog/introspection packages, structured
// the way smf's own CLI is (a root cobra.Command, one subcommand
// constructor per verb, a small xFlags struct per subcommand).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"ort/internal/catalog"
	"ort/internal/catalogio"
	"ort/internal/introspect"
	_ "ort/internal/introspect/mysql"
	_ "ort/internal/introspect/postgres"
	"ort/internal/macro"
	"ort/internal/normalize"
	"ort/internal/ort"
	"ort/internal/run"
	"ort/internal/value"
)

type compileFlags struct {
	catalogFile string
	descriptor  string
	object      string
	op          string
	filter      string
}

type introspectFlags struct {
	dialect string
	dsn     string
	out     string
	timeout int
}

type schemaValidateFlags struct {
	catalogFile string
}

type runFlags struct {
	catalogFile string
	descriptor  string
	object      string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "ort",
		Short: "Object-Relational Transformation compiler",
	}

	rootCmd.AddCommand(compileCmd())
	rootCmd.AddCommand(introspectCmd())
	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func compileCmd() *cobra.Command {
	flags := &compileFlags{}
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a save descriptor and a JSON object into a TRESQL expression",
		Long: `compile reads a relational catalog (TOML) and a JSON object, and emits the
TRESQL DSL expression that the ORT compiler would hand to an execution engine
to insert, update, or delete the object tree.

Example:
  ort compile --catalog schema.toml --name "dept[+=]" --op update --json row.json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCompile(flags)
		},
	}

	cmd.Flags().StringVar(&flags.catalogFile, "catalog", "", "Path to a TOML catalog file (required)")
	cmd.Flags().StringVar(&flags.descriptor, "name", "", "Save descriptor string (required)")
	cmd.Flags().StringVar(&flags.object, "json", "-", "Path to a JSON object file, or - for stdin")
	cmd.Flags().StringVar(&flags.op, "op", "insert", "Operation: insert, update, or delete")
	cmd.Flags().StringVar(&flags.filter, "filter", "", "Optional user filter conjoined onto the root statement")

	return cmd
}

func runCompile(flags *compileFlags) error {
	if flags.catalogFile == "" || flags.descriptor == "" {
		return fmt.Errorf("--catalog and --name are required")
	}

	schema, err := catalogio.Load(flags.catalogFile)
	if err != nil {
		return err
	}

	raw, err := readObjectSource(flags.object)
	if err != nil {
		return err
	}
	obj, err := value.FromJSON(raw)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	normalized := normalize.Normalize(obj)

	var expr string
	switch flags.op {
	case "insert":
		expr, err = ort.Insert(schema, flags.descriptor, normalized, flagFilterArgs(flags.filter)...)
	case "update":
		expr, err = ort.Update(schema, flags.descriptor, normalized, flagFilterArgs(flags.filter)...)
	case "delete":
		expr, err = ort.Delete(schema, flags.descriptor, normalized)
	default:
		return fmt.Errorf("compile: unknown --op %q (want insert, update, or delete)", flags.op)
	}
	if err != nil {
		return err
	}

	fmt.Println(expr)
	return nil
}

func flagFilterArgs(filter string) []string {
	if filter == "" {
		return nil
	}
	return []string{filter}
}

func readObjectSource(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func introspectCmd() *cobra.Command {
	flags := &introspectFlags{}
	cmd := &cobra.Command{
		Use:   "introspect",
		Short: "Load a live database schema and print it as a TOML catalog",
		Long: `introspect connects to a live database, discovers its tables, columns,
primary keys, and foreign keys via the dialect's information_schema views,
and prints the result in the same TOML catalog format "ort compile" reads —
so a user can point the compiler at a real database without hand-writing
catalog TOML.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runIntrospect(flags)
		},
	}

	cmd.Flags().StringVar(&flags.dialect, "dialect", "mysql", "Database dialect: mysql, mariadb, postgres, or postgresql")
	cmd.Flags().StringVar(&flags.dsn, "dsn", "", "Database connection string (required)")
	cmd.Flags().StringVarP(&flags.out, "output", "o", "", "Output file for the generated catalog (default stdout)")
	cmd.Flags().IntVar(&flags.timeout, "timeout", 30, "Connection timeout in seconds")

	return cmd
}

func runIntrospect(flags *introspectFlags) error {
	if flags.dsn == "" {
		return fmt.Errorf("--dsn is required")
	}

	driver := sqlDriverFor(flags.dialect)
	db, err := sqlx.Open(driver, flags.dsn)
	if err != nil {
		return fmt.Errorf("introspect: open %q: %w", driver, err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(flags.timeout)*time.Second)
	defer cancel()

	introspecter, err := introspect.New(flags.dialect)
	if err != nil {
		return err
	}
	schema, err := introspecter.Introspect(ctx, db)
	if err != nil {
		return fmt.Errorf("introspect: %w", err)
	}

	doc := catalogio.Render(schema)
	if flags.out == "" {
		fmt.Print(doc)
		return nil
	}
	if err := os.WriteFile(flags.out, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("introspect: write %q: %w", flags.out, err)
	}
	fmt.Printf("catalog saved to %s\n", flags.out)
	return nil
}

func sqlDriverFor(dialect string) string {
	switch dialect {
	case "postgres", "postgresql":
		return "postgres"
	default:
		return "mysql"
	}
}

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Operate on a TOML catalog file",
	}
	cmd.AddCommand(schemaValidateCmd())
	return cmd
}

func schemaValidateCmd() *cobra.Command {
	flags := &schemaValidateFlags{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a TOML catalog's internal consistency",
		Long: `validate checks that every foreign key's target table and columns exist in
the catalog and reports tables with no declared primary key, the way smf's
core package validates a parsed Database before diffing it.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSchemaValidate(flags)
		},
	}
	cmd.Flags().StringVar(&flags.catalogFile, "catalog", "", "Path to a TOML catalog file (required)")
	return cmd
}

func runSchemaValidate(flags *schemaValidateFlags) error {
	if flags.catalogFile == "" {
		return fmt.Errorf("--catalog is required")
	}
	schema, err := catalogio.Load(flags.catalogFile)
	if err != nil {
		return err
	}

	problems := catalog.Validate(schema)
	if len(problems) == 0 {
		fmt.Println("catalog is consistent")
		return nil
	}
	for _, p := range problems {
		fmt.Println(p)
	}
	return fmt.Errorf("catalog: %d problem(s) found", len(problems))
}

func runCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Insert an object against an in-memory table store (teaching aid)",
		Long: `run is not part of the compiler's contract: it walks the same object tree
and catalog "ort compile" would, but instead of emitting TRESQL text it
drives an in-memory macro.Executor directly, so a reader can see an insert
actually happen without a real database or TRESQL parser.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRun(flags)
		},
	}
	cmd.Flags().StringVar(&flags.catalogFile, "catalog", "", "Path to a TOML catalog file (required)")
	cmd.Flags().StringVar(&flags.descriptor, "name", "", "Save descriptor string (required)")
	cmd.Flags().StringVar(&flags.object, "json", "-", "Path to a JSON object file, or - for stdin")
	return cmd
}

func runRun(flags *runFlags) error {
	if flags.catalogFile == "" || flags.descriptor == "" {
		return fmt.Errorf("--catalog and --name are required")
	}

	schema, err := catalogio.Load(flags.catalogFile)
	if err != nil {
		return err
	}
	raw, err := readObjectSource(flags.object)
	if err != nil {
		return err
	}
	obj, err := value.FromJSON(raw)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	exec := macro.NewMemExecutor()
	id, err := run.Insert(context.Background(), schema, flags.descriptor, obj, exec)
	if err != nil {
		return err
	}

	fmt.Printf("inserted row id: %v\n", id)
	return nil
}
