package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/scribe/internal/document"
)

// Scenario is a named list of query cases.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Prefix is the default table prefix for the cases.
	Prefix string `yaml:"prefix,omitempty"`

	Cases []Case `yaml:"cases"`

	// BaseDir resolves relative document paths. LoadScenario sets it to
	// the directory of the scenario file.
	BaseDir string `yaml:"-"`
}

// Case builds one query and checks what it compiles to. The query comes
// either from a document file or inline.
type Case struct {
	Name string `yaml:"name"`

	// Document is the path of a document file.
	Document string `yaml:"document,omitempty"`
	// Select names the document within a file holding several. Defaults
	// to the first one.
	Select string `yaml:"select,omitempty"`

	// Query is an inline query description.
	Query *document.Query `yaml:"query,omitempty"`

	// Prefix overrides the scenario prefix. "-" disables prefixing.
	Prefix string `yaml:"prefix,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect lists what a case must compile to. SQL and Bindings check a single
// statement; Statements checks every statement of an INSERT. Error expects
// the build or compilation to fail with a message containing it.
type Expect struct {
	SQL string `yaml:"sql,omitempty"`

	// Bindings is only checked when present. Use [] to expect none.
	Bindings []any `yaml:"bindings"`

	Statements []ExpectStatement `yaml:"statements,omitempty"`

	Error string `yaml:"error,omitempty"`

	// ErrorKind is invalid_argument, invalid_return_value, invalid_query
	// or document.
	ErrorKind string `yaml:"error_kind,omitempty"`
}

// ExpectStatement is one expected statement.
type ExpectStatement struct {
	SQL      string `yaml:"sql"`
	Bindings []any  `yaml:"bindings"`
}

// Error kinds.
const (
	KindInvalidArgument    = "invalid_argument"
	KindInvalidReturnValue = "invalid_return_value"
	KindInvalidQuery       = "invalid_query"
	KindDocument           = "document"
	KindOther              = "other"
)

var errorKinds = map[string]bool{
	KindInvalidArgument:    true,
	KindInvalidReturnValue: true,
	KindInvalidQuery:       true,
	KindDocument:           true,
	KindOther:              true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "expects:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	scenario.BaseDir = filepath.Dir(path)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml scenario in dir, sorted by
// file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		if (c.Document == "") == (c.Query == nil) {
			return fmt.Errorf("cases[%d]: exactly one of document or query is required", i)
		}
		if c.Select != "" && c.Document == "" {
			return fmt.Errorf("cases[%d]: select requires document", i)
		}
		if err := validateExpect(i, c.Expect); err != nil {
			return err
		}
	}

	return nil
}

func validateExpect(index int, e Expect) error {
	if e.SQL == "" && len(e.Statements) == 0 && e.Error == "" && e.ErrorKind == "" {
		return fmt.Errorf("cases[%d].expect: one of sql, statements or error is required", index)
	}
	if e.SQL != "" && len(e.Statements) > 0 {
		return fmt.Errorf("cases[%d].expect: sql and statements are exclusive", index)
	}
	if (e.Error != "" || e.ErrorKind != "") && (e.SQL != "" || len(e.Statements) > 0) {
		return fmt.Errorf("cases[%d].expect: error cannot be combined with sql or statements", index)
	}
	if e.ErrorKind != "" && !errorKinds[e.ErrorKind] {
		return fmt.Errorf("cases[%d].expect: unknown error_kind %q", index, e.ErrorKind)
	}
	return nil
}
