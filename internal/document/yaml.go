package document

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts a plain column name or a mapping.
func (c *Column) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.Column)
	}
	type plain Column
	return node.Decode((*plain)(c))
}

// UnmarshalYAML accepts a plain column name or a mapping.
func (o *OrderEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&o.Column)
	}
	type plain OrderEntry
	return node.Decode((*plain)(o))
}

// UnmarshalYAML accepts a plain SQL string or a mapping.
func (r *Raw) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&r.SQL)
	}
	type plain Raw
	return node.Decode((*plain)(r))
}

// UnmarshalYAML decodes a literal, or a mapping with exactly one of raw or
// query.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return node.Decode(&v.Literal)
	}
	var m struct {
		Raw   *Raw   `yaml:"raw"`
		Query *Query `yaml:"query"`
	}
	if err := node.Decode(&m); err != nil {
		return err
	}
	if (m.Raw == nil) == (m.Query == nil) {
		return fmt.Errorf("line %d: value mapping needs exactly one of raw or query", node.Line)
	}
	v.Raw, v.Query = m.Raw, m.Query
	return nil
}

// UnmarshalYAML decodes a mapping keeping its key order. A null value is
// kept as a nil literal.
func (r *Row) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: row must be a mapping", node.Line)
	}
	row := make(Row, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var column string
		if err := node.Content[i].Decode(&column); err != nil {
			return err
		}
		var v Value
		if err := v.UnmarshalYAML(node.Content[i+1]); err != nil {
			return err
		}
		row = append(row, Assignment{Column: column, Value: v})
	}
	*r = row
	return nil
}
