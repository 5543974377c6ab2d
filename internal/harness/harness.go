package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/roach88/scribe/internal/document"
	"github.com/roach88/scribe/internal/grammar"
	"github.com/roach88/scribe/internal/prefix"
	"github.com/roach88/scribe/internal/query"
)

// noPrefix disables the scenario prefix for a case.
const noPrefix = "-"

// Harness runs scenarios against a grammar.
type Harness struct {
	grammar grammar.Grammar
	logger  *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithGrammar sets the grammar cases compile with.
func WithGrammar(g grammar.Grammar) Option {
	return func(h *Harness) {
		h.grammar = g
	}
}

// WithLogger sets the logger. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// New creates a Harness using the common SQL grammar.
func New(opts ...Option) *Harness {
	h := &Harness{
		grammar: grammar.NewCompiler(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(scenario)
}

// Run builds and compiles every case of the scenario and checks its
// expectations. Case failures are reported in the result; the error is
// reserved for scenarios that cannot run at all.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	if scenario == nil {
		return nil, errors.New("scenario is nil")
	}

	result := NewResult(scenario.Name)
	files := make(map[string][]*document.Document)
	for _, c := range scenario.Cases {
		doc, err := h.resolveDocument(scenario, c, files)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.Name, err)
		}

		cr := h.runCase(doc, casePrefix(scenario, c))
		cr.Name = c.Name
		checkExpectations(&cr, c.Expect)

		h.logger.Debug("case finished",
			"scenario", scenario.Name,
			"case", c.Name,
			"pass", cr.Pass,
			"statements", len(cr.Statements),
		)
		for _, failure := range cr.Failures {
			h.logger.Warn("expectation failed",
				"scenario", scenario.Name,
				"case", c.Name,
				"failure", failure,
			)
		}
		result.Add(cr)
	}

	return result, nil
}

func casePrefix(s *Scenario, c Case) string {
	switch c.Prefix {
	case noPrefix:
		return ""
	case "":
		return s.Prefix
	default:
		return c.Prefix
	}
}

// resolveDocument returns the document a case builds. Files are loaded once
// per run.
func (h *Harness) resolveDocument(s *Scenario, c Case, files map[string][]*document.Document) (*document.Document, error) {
	if c.Query != nil {
		return &document.Document{Name: c.Name, Query: *c.Query}, nil
	}

	path := c.Document
	if !filepath.IsAbs(path) && s.BaseDir != "" {
		path = filepath.Join(s.BaseDir, path)
	}
	docs, ok := files[path]
	if !ok {
		var err error
		docs, err = document.Load(path)
		if err != nil {
			return nil, err
		}
		files[path] = docs
	}

	if c.Select == "" {
		return docs[0], nil
	}
	for _, doc := range docs {
		if doc.Name == c.Select {
			return doc, nil
		}
	}
	return nil, fmt.Errorf("document %q not found in %s", c.Select, c.Document)
}

// runCase builds and compiles the document. Build and compile errors are
// recorded on the result.
func (h *Harness) runCase(doc *document.Document, tablePrefix string) CaseResult {
	cr := CaseResult{Pass: true}
	statements, err := CompileDocument(h.grammar, doc, tablePrefix)
	if err != nil {
		cr.err = err
		cr.Error = err.Error()
		return cr
	}
	cr.Statements = statements
	return cr
}

// CompileDocument builds the document and compiles it with g. A non-empty
// tablePrefix routes the build through a prefix.Prefixer. INSERT queries
// yield one statement per VALUES or SELECT source.
func CompileDocument(g grammar.Grammar, doc *document.Document, tablePrefix string) ([]Statement, error) {
	var opts []query.Option
	var p *prefix.Prefixer
	if tablePrefix != "" {
		p = prefix.New(tablePrefix, nil)
		opts = append(opts, query.WithResolver(p))
	}

	q, err := doc.Build(opts...)
	if err != nil {
		return nil, err
	}
	if p != nil {
		p.Apply(q)
	}

	var raws []query.Raw
	if len(q.Inserts) > 0 {
		raws, err = g.CompileInsert(q)
	} else {
		var raw query.Raw
		raw, err = g.Compile(q)
		raws = []query.Raw{raw}
	}
	if err != nil {
		return nil, err
	}
	return statementsFrom(raws), nil
}

// ErrorKind classifies a build or compile error.
func ErrorKind(err error) string {
	var fieldErr *document.FieldError
	switch {
	case err == nil:
		return ""
	case query.IsInvalidArgument(err):
		return KindInvalidArgument
	case query.IsInvalidReturnValue(err):
		return KindInvalidReturnValue
	case grammar.IsInvalidQuery(err):
		return KindInvalidQuery
	case errors.As(err, &fieldErr):
		return KindDocument
	default:
		return KindOther
	}
}
