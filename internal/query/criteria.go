package query

// Combinator joins a criterion to its preceding sibling.
type Combinator string

// Combinators. The zero value behaves as And.
const (
	And Combinator = "AND"
	Or  Combinator = "OR"
)

// Criterion is one node of a boolean filter tree.
//
// This is a sealed interface. The combinator of the first criterion in a
// list is ignored.
type Criterion interface {
	criterionNode()
	// Connective returns how the criterion attaches to the previous one.
	Connective() Combinator
}

// ValueCriterion compares a column with a value: column <op> value.
type ValueCriterion struct {
	Logic    Combinator
	Column   Expr
	Operator string
	Value    Expr
}

// BetweenCriterion is column [NOT] BETWEEN min AND max.
type BetweenCriterion struct {
	Logic  Combinator
	Column Expr
	Min    Expr
	Max    Expr
	Not    bool
}

// InCriterion is column [NOT] IN (values) or column [NOT] IN (subquery).
// When Subquery is set Values is ignored.
type InCriterion struct {
	Logic    Combinator
	Column   Expr
	Values   []Expr
	Subquery Expr // *Query or Raw
	Not      bool
}

// NullCriterion is column IS [NOT] NULL.
type NullCriterion struct {
	Logic  Combinator
	Column Expr
	IsNull bool
}

// RawCriterion is a literal SQL condition.
type RawCriterion struct {
	Logic Combinator
	Raw   Raw
}

// GroupCriterion is a parenthesized list of criteria.
type GroupCriterion struct {
	Logic    Combinator
	Criteria []Criterion
}

// ColumnsCriterion compares two columns: left <op> right.
type ColumnsCriterion struct {
	Logic    Combinator
	Left     Expr
	Operator string
	Right    Expr
}

// ExistsCriterion is [NOT] EXISTS (subquery).
type ExistsCriterion struct {
	Logic    Combinator
	Subquery Expr // *Query or Raw
	Not      bool
}

func (ValueCriterion) criterionNode()   {}
func (BetweenCriterion) criterionNode() {}
func (InCriterion) criterionNode()      {}
func (NullCriterion) criterionNode()    {}
func (RawCriterion) criterionNode()     {}
func (GroupCriterion) criterionNode()   {}
func (ColumnsCriterion) criterionNode() {}
func (ExistsCriterion) criterionNode()  {}

func (c ValueCriterion) Connective() Combinator   { return c.Logic }
func (c BetweenCriterion) Connective() Combinator { return c.Logic }
func (c InCriterion) Connective() Combinator      { return c.Logic }
func (c NullCriterion) Connective() Combinator    { return c.Logic }
func (c RawCriterion) Connective() Combinator     { return c.Logic }
func (c GroupCriterion) Connective() Combinator   { return c.Logic }
func (c ColumnsCriterion) Connective() Combinator { return c.Logic }
func (c ExistsCriterion) Connective() Combinator  { return c.Logic }
