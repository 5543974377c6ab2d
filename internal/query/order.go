package query

// OrderEntry is an item of the ORDER BY list.
//
// This is a sealed interface - Order, NullOrder, ExplicitOrder, RandomOrder
// and Raw implement it.
type OrderEntry interface {
	orderNode()
}

// Order sorts by a column or expression.
type Order struct {
	Column     Expr
	Descending bool
}

// NullOrder sorts by the nullness of a column. NullsLast places NULL values
// after the others.
type NullOrder struct {
	Column    Expr
	NullsLast bool
}

// ExplicitOrder sorts rows by the position of the column value in Values.
// Rows whose value is not listed go last, or first when OthersFirst is set.
type ExplicitOrder struct {
	Column      Expr
	Values      []Expr
	OthersFirst bool
}

// RandomOrder shuffles the rows.
type RandomOrder struct{}

func (Order) orderNode()         {}
func (NullOrder) orderNode()     {}
func (ExplicitOrder) orderNode() {}
func (RandomOrder) orderNode()   {}

// JoinType is the kind of a JOIN clause.
type JoinType string

// Supported join types.
const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
	OuterJoin JoinType = "OUTER"
	CrossJoin JoinType = "CROSS"
)

// Join is a JOIN clause. Criteria is empty for cross joins.
type Join struct {
	Type       JoinType
	Table      Expr // Identifier, *Query or Raw
	TableAlias string
	Criteria   []Criterion
}
