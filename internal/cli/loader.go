package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/scribe/internal/document"
	"github.com/roach88/scribe/internal/harness"
)

// LoadError is a document loading failure with an error code.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNoDocuments = "E003" // No documents found
	ErrCodeLoadFailed  = "E004" // Document parse failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeNoMatch     = "E006" // Named document not found
	ErrCodeWriteFailed = "E007" // File write error

	// Query errors
	ErrCodeInvalidDocument    = "E101" // Invalid document field
	ErrCodeInvalidArgument    = "E102" // Builder argument of the wrong shape
	ErrCodeInvalidReturnValue = "E103" // Callback returned a non-query
	ErrCodeInvalidQuery       = "E104" // Query cannot compile
)

// LoadDocuments reads the documents of a file. A non-empty name keeps only
// the document with that name.
func LoadDocuments(path, name string) ([]*document.Document, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("document file not found: %s", path)}
	}

	docs, err := document.Load(path)
	if err != nil {
		return nil, convertLoadError(err)
	}
	if len(docs) == 0 {
		return nil, &LoadError{Code: ErrCodeNoDocuments, Message: fmt.Sprintf("no documents found in %s", path)}
	}

	if name == "" {
		return docs, nil
	}
	for _, doc := range docs {
		if doc.Name == name {
			return []*document.Document{doc}, nil
		}
	}
	return nil, &LoadError{Code: ErrCodeNoMatch, Message: fmt.Sprintf("document %q not found in %s", name, path)}
}

// convertLoadError keeps the position of CUE errors.
func convertLoadError(err error) *LoadError {
	var fieldErr *document.FieldError
	if errors.As(err, &fieldErr) {
		return &LoadError{Code: ErrCodeLoadFailed, Message: fieldErr.Message, Pos: fieldErr.Pos}
	}
	return &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
}

// MapErrorToCode maps a build or compile error to an error code.
func MapErrorToCode(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	switch harness.ErrorKind(err) {
	case harness.KindDocument:
		return ErrCodeInvalidDocument
	case harness.KindInvalidArgument:
		return ErrCodeInvalidArgument
	case harness.KindInvalidReturnValue:
		return ErrCodeInvalidReturnValue
	case harness.KindInvalidQuery:
		return ErrCodeInvalidQuery
	default:
		return ErrCodeGeneric
	}
}
