// Package sqlast defines the SQL syntax tree consumed and mutated by the
// sqlbind resolver, together with a lexer, a recursive-descent parser, a
// text renderer and a statement traversal utility.
//
// What: A closed vocabulary of expression, query and statement nodes covering
// a practical subset of SQL (DML, SELECT with joins/grouping/set ops, CTEs,
// CREATE TABLE [AS SELECT], EXPLAIN) plus positional placeholders ($1, $2, …).
// How: Plain structs behind two small interface types (Expr, Statement) so
// callers can pattern-match with type switches and rewrite nodes in place.
// Why: The resolver needs exclusive mutable access to a tree whose shapes are
// enumerable; keeping the vocabulary small and flat makes the traversal code
// obvious and the package re-targetable.
package sqlast

import "github.com/shopspring/decimal"

// Expr is the root interface for all expression nodes.
type Expr interface{}

type (
	// VarRef refers to a column (qualified or unqualified) in expressions.
	VarRef struct{ Name string }

	// Literal holds a constant value. Val is nil (NULL), bool, string or
	// decimal.Decimal; numeric literals always carry decimals so their
	// spelling round-trips exactly.
	Literal struct{ Val any }

	// TypedLiteral is a literal carrying an explicit type, e.g.
	// DATE '2024-05-01'. Text is kept verbatim.
	TypedLiteral struct {
		Type DataType
		Text string
	}

	// Placeholder is a positional parameter marker such as $1.
	// Text keeps the original token including the marker rune.
	Placeholder struct{ Text string }

	// Unary represents unary operators like +, -, NOT.
	Unary struct {
		Op   string
		Expr Expr
	}

	// Binary represents binary operators (+,-,*,/, comparisons, AND/OR).
	Binary struct {
		Op          string
		Left, Right Expr
	}

	// IsNull represents IS [NOT] NULL.
	IsNull struct {
		Expr   Expr
		Negate bool
	}

	// InList represents expr [NOT] IN (e1, e2, ...).
	InList struct {
		Expr    Expr
		List    []Expr
		Negated bool
	}

	// InSubquery represents expr [NOT] IN (SELECT ...).
	InSubquery struct {
		Expr     Expr
		Subquery *Query
		Negated  bool
	}

	// Between represents expr [NOT] BETWEEN low AND high.
	Between struct {
		Expr      Expr
		Low, High Expr
		Negated   bool
	}

	// Like represents expr [NOT] LIKE/ILIKE pattern [ESCAPE 'c'].
	Like struct {
		Expr    Expr
		Pattern Expr
		Escape  string
		ILike   bool
		Negated bool
	}

	// Nested is a parenthesized expression.
	Nested struct{ Expr Expr }

	// Exists represents [NOT] EXISTS (SELECT ...).
	Exists struct {
		Subquery *Query
		Negated  bool
	}

	// Subquery is a scalar subquery used in expression position.
	Subquery struct{ Query *Query }

	// When is one WHEN condition THEN result arm of a CASE expression.
	When struct {
		Cond   Expr
		Result Expr
	}

	// Case represents CASE [operand] WHEN ... THEN ... [ELSE ...] END.
	Case struct {
		Operand Expr // nil for searched CASE
		Whens   []When
		Else    Expr // nil when absent
	}

	// Interval represents INTERVAL <expr> [unit].
	Interval struct {
		Value Expr
		Unit  string
	}

	// ArrayExpr is an array literal: ARRAY[e1, e2, ...].
	ArrayExpr struct{ Elems []Expr }

	// MapEntry is one key/value pair of a MapExpr.
	MapEntry struct {
		Key   Expr
		Value Expr
	}

	// MapExpr is an ordered literal map: MAP {k1: v1, ...}. It is produced
	// when dictionary values are bound into a tree; the parser does not
	// build it.
	MapExpr struct{ Entries []MapEntry }

	// FuncCall represents a function call, optionally with a star (COUNT(*)).
	FuncCall struct {
		Name string
		Args []Expr
		Star bool
	}
)

// DataType tags a TypedLiteral. Only the distinctions the renderer needs are
// modeled; column definitions keep their raw type text instead.
type DataType int

const (
	// TypeUnspecified marks a typed literal with no recognized type keyword.
	TypeUnspecified DataType = iota
	// TypeDate marks DATE and DATETIME literals.
	TypeDate
)

// NumberLiteral builds a numeric Literal from its exact decimal spelling.
// Malformed input yields a zero literal.
func NumberLiteral(s string) *Literal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return &Literal{Val: decimal.Zero}
	}
	return &Literal{Val: d}
}

// ------------------------------ Queries ------------------------------

// SetExpr is the body of a query: a plain select, a literal row set, or a
// set operation combining two bodies.
type SetExpr interface{}

// SelectBody is a plain SELECT body.
type SelectBody struct {
	Distinct bool
	Projs    []SelectItem
	From     []TableRef
	Where    Expr
	GroupBy  []Expr
	Having   Expr
}

// ValuesBody is a literal row set: VALUES (a, b), (c, d).
type ValuesBody struct{ Rows [][]Expr }

// SetOpType enumerates set operations combining two query bodies.
type SetOpType int

const (
	// Union corresponds to UNION [ALL].
	Union SetOpType = iota
	// Except corresponds to EXCEPT.
	Except
	// Intersect corresponds to INTERSECT.
	Intersect
)

func (t SetOpType) String() string {
	switch t {
	case Union:
		return "UNION"
	case Except:
		return "EXCEPT"
	case Intersect:
		return "INTERSECT"
	default:
		return "UNKNOWN"
	}
}

// SetOp combines two query bodies with a set operation.
type SetOp struct {
	Op          SetOpType
	All         bool
	Left, Right SetExpr
}

// Query is a full query: optional CTEs, a body, and trailing clauses.
type Query struct {
	CTEs    []CTE
	Body    SetExpr
	OrderBy []OrderItem
	Limit   *int
	Offset  *int
}

// CTE is one WITH entry binding a name to a query.
type CTE struct {
	Name  string
	Query *Query
}

// SelectItem represents a projection item, optionally with alias or *.
type SelectItem struct {
	Expr  Expr
	Alias string
	Star  bool // bare * or qualifier.*
	Qual  string
}

// TableRef binds a source table and its alias in FROM, with optional joins.
type TableRef struct {
	Table string
	Alias string
	Joins []JoinClause
}

// JoinType enumerates supported join flavors.
type JoinType int

const (
	// JoinInner represents INNER JOIN.
	JoinInner JoinType = iota
	// JoinLeft represents LEFT (OUTER) JOIN.
	JoinLeft
	// JoinRight represents RIGHT (OUTER) JOIN.
	JoinRight
)

// JoinClause holds a JOIN type with the right side and join condition.
type JoinClause struct {
	Type  JoinType
	Right TableRef
	On    Expr
}

// OrderItem specifies ordering expression and direction.
type OrderItem struct {
	Expr Expr
	Desc bool
}

// ------------------------------ Statements ------------------------------

// Statement is the root interface for all parsed SQL statements.
type Statement interface{}

// ColumnDef is a column definition in CREATE TABLE. The type is kept as raw
// SQL text; this package performs no semantic validation.
type ColumnDef struct {
	Name string
	Type string
}

// CreateTable represents CREATE TABLE with column defs or AS SELECT.
type CreateTable struct {
	Name     string
	Cols     []ColumnDef
	IsTemp   bool
	AsSelect *Query
}

// DropTable represents a DROP TABLE statement.
type DropTable struct{ Name string }

// Insert represents INSERT INTO with a VALUES or SELECT source. Source is
// nil for the bare DEFAULT VALUES form.
type Insert struct {
	Table  string
	Cols   []string
	Source *Query
}

// Assignment is one SET column = expr of an UPDATE.
type Assignment struct {
	Col   string
	Value Expr
}

// Update represents an UPDATE statement. Sets preserves declaration order.
type Update struct {
	Table string
	Sets  []Assignment
	Where Expr
}

// Delete represents a DELETE statement.
type Delete struct {
	Table string
	Where Expr
}

// Explain wraps another statement: EXPLAIN <stmt>.
type Explain struct{ Stmt Statement }
