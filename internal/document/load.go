package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// Format is the syntax of a document file.
type Format string

// Supported formats. JSON is read as YAML.
const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFor returns the format matching the extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("unsupported document extension %q", filepath.Ext(path))
	}
}

// Load reads the documents of a file. Documents without a name are named
// after the file.
func Load(path string) ([]*Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}
	docs, err := Parse(data, format, path)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i, doc := range docs {
		if doc.Name != "" {
			continue
		}
		doc.Name = base
		if len(docs) > 1 {
			doc.Name += "#" + strconv.Itoa(i+1)
		}
	}
	return docs, nil
}

// Parse decodes documents. YAML input may hold several documents separated
// by "---"; CUE input is a single document or a list of documents. The
// filename is used in CUE error positions.
func Parse(data []byte, format Format, filename string) ([]*Document, error) {
	switch format {
	case FormatYAML:
		return parseYAML(data)
	case FormatCUE:
		return parseCUE(data, filename)
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
}

func parseYAML(data []byte) ([]*Document, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var docs []*Document
	for {
		var doc Document
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		docs = append(docs, &doc)
	}
	if len(docs) == 0 {
		return nil, errors.New("no documents found")
	}
	return docs, nil
}

// parseCUE evaluates the CUE source, requires it to be concrete and reads
// the exported JSON.
func parseCUE(data []byte, filename string) ([]*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	js, err := v.MarshalJSON()
	if err != nil {
		return nil, formatCUEError(err)
	}

	if v.Kind() != cue.ListKind {
		return parseYAML(js)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(js))
	decoder.KnownFields(true)
	var docs []*Document
	if err := decoder.Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to parse CUE export: %w", err)
	}
	if len(docs) == 0 {
		return nil, errors.New("no documents found")
	}
	return docs, nil
}
