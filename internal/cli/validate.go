package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/scribe/internal/grammar"
	"github.com/roach88/scribe/internal/harness"
)

// ValidationError is a problem found in a document file.
type ValidationError struct {
	File     string `json:"file"`
	Document string `json:"document,omitempty"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Documents int               `json:"documents"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Prefix string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check that query documents compile",
		Long: `Build and compile every document of the given files without printing
the SQL. All files are checked; every problem is reported.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "table prefix")

	return cmd
}

func runValidate(opts *ValidateOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	result := ValidateFiles(paths, opts.Prefix, formatter.Logger())
	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}
	return formatter.Success(result)
}

// ValidateFiles builds and compiles every document of the files.
func ValidateFiles(paths []string, tablePrefix string, logger *slog.Logger) ValidationResult {
	g := grammar.NewCompiler()
	result := ValidationResult{Valid: true}

	for _, path := range paths {
		docs, err := LoadDocuments(path, "")
		if err != nil {
			logger.Debug("file not loaded", "file", path, "error", err)
			result.Errors = append(result.Errors, ValidationError{
				File:    path,
				Code:    MapErrorToCode(err),
				Message: loadMessage(err),
				Line:    loadLine(err),
			})
			continue
		}

		for _, doc := range docs {
			result.Documents++
			if _, err := harness.CompileDocument(g, doc, tablePrefix); err != nil {
				logger.Debug("document invalid", "file", path, "document", doc.Name, "error", err)
				result.Errors = append(result.Errors, ValidationError{
					File:     path,
					Document: doc.Name,
					Code:     MapErrorToCode(err),
					Message:  err.Error(),
				})
				continue
			}
			logger.Debug("document valid", "file", path, "document", doc.Name)
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func loadLine(err error) int {
	var loadErr *LoadError
	if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
		return loadErr.Pos.Line()
	}
	return 0
}

// renderText prints the document count, or every problem by location.
func (r ValidationResult) renderText(w io.Writer) error {
	if r.Valid {
		_, err := fmt.Fprintf(w, "✓ %d document(s) valid\n", r.Documents)
		return err
	}

	fmt.Fprintln(w, "✗ Validation failed")
	fmt.Fprintln(w)
	for _, e := range r.Errors {
		location := e.File
		if e.Line > 0 {
			location = fmt.Sprintf("%s:%d", e.File, e.Line)
		}
		if e.Document != "" {
			location += " (" + e.Document + ")"
		}
		fmt.Fprintln(w, location)
		if _, err := fmt.Fprintf(w, "  %s: %s\n\n", e.Code, e.Message); err != nil {
			return err
		}
	}
	return nil
}

// outputValidationErrors outputs every validation error and fails with
// ExitFailure.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
			TraceID: formatter.TraceID,
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
	} else if err := result.renderText(formatter.Writer); err != nil {
		return err
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
