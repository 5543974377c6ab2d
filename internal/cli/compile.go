package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/scribe/internal/grammar"
	"github.com/roach88/scribe/internal/harness"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
	Prefix string // table prefix
	Name   string // document name within the file
}

// CompiledStatement is a statement of a compiled document.
type CompiledStatement struct {
	Document string `json:"document"`
	SQL      string `json:"sql"`
	Bindings []any  `json:"bindings"`
}

// CompilationResult holds the compiled statements of a file.
type CompilationResult struct {
	Statements []CompiledStatement `json:"statements"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile query documents to SQL",
		Long: `Compile the query documents of a YAML or CUE file to SQL statements
with positional bindings.

INSERT documents can produce several statements, printed in order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the SQL to this file")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "table prefix")
	cmd.Flags().StringVar(&opts.Name, "name", "", "compile only the named document")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := formatter.Logger()

	docs, err := LoadDocuments(path, opts.Name)
	if err != nil {
		return outputCompileError(formatter, MapErrorToCode(err), loadMessage(err), nil)
	}
	logger.Debug("documents loaded", "file", path, "count", len(docs))

	g := grammar.NewCompiler()
	result := &CompilationResult{Statements: []CompiledStatement{}}
	for _, doc := range docs {
		statements, err := harness.CompileDocument(g, doc, opts.Prefix)
		if err != nil {
			return outputCompileError(formatter, MapErrorToCode(err), err.Error(),
				map[string]string{"document": doc.Name})
		}
		logger.Debug("document compiled", "document", doc.Name, "statements", len(statements))
		for _, s := range statements {
			result.Statements = append(result.Statements, CompiledStatement{
				Document: doc.Name,
				SQL:      s.SQL,
				Bindings: s.Bindings,
			})
		}
	}

	if opts.Output != "" {
		if err := writeSQLToFile(result, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// loadMessage drops the code prefix of load errors.
func loadMessage(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		if loadErr.Pos.IsValid() {
			return fmt.Sprintf("%s:%d:%d: %s", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column(), loadErr.Message)
		}
		return loadErr.Message
	}
	return err.Error()
}

// renderText prints each statement with its document name and bindings.
func (r *CompilationResult) renderText(w io.Writer) error {
	for _, s := range r.Statements {
		bindings, err := harness.FormatBindings(s.Bindings)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "-- %s\n%s;\n-- bindings: %s\n\n", s.Document, s.SQL, bindings); err != nil {
			return err
		}
	}
	return nil
}

// outputCompileSuccess outputs the compiled statements.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if err := formatter.Success(result); err != nil {
		return err
	}
	if outputFile != "" && formatter.Format != "json" {
		fmt.Fprintf(formatter.Writer, "Wrote %d statement(s) to %s\n", len(result.Statements), outputFile)
	}
	return nil
}

// outputCompileError outputs a compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// writeSQLToFile writes the statements as a SQL script.
func writeSQLToFile(result *CompilationResult, filename string) error {
	var b strings.Builder
	for _, s := range result.Statements {
		fmt.Fprintf(&b, "-- %s\n%s;\n\n", s.Document, s.SQL)
	}

	if err := os.WriteFile(filename, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
