package sqlbind

import (
	"strconv"

	"github.com/SimonWaldherr/sqlbind/sqlast"
)

// DefaultMaxDepth bounds expression and query recursion so pathological
// nesting fails with a structured error instead of exhausting the stack.
const DefaultMaxDepth = 1000

// Resolver substitutes positional placeholders in a syntax tree with literal
// nodes built from a Parameters source. Substitution is in place and
// single-threaded; a Resolver must not be used on the same tree from
// multiple goroutines.
type Resolver struct {
	params Parameters

	// MaxDepth bounds recursion; zero means DefaultMaxDepth.
	MaxDepth int

	// OnSkip, when set, is called for every node shape the resolver passes
	// through without descending. Placeholders inside such shapes stay
	// unresolved.
	OnSkip func(node any)

	skipped int
}

// NewResolver builds a resolver reading bound values from params.
func NewResolver(params Parameters) *Resolver {
	return &Resolver{params: params}
}

// Skipped reports how many unhandled node shapes the resolver passed through
// since construction.
func (r *Resolver) Skipped() int { return r.skipped }

func (r *Resolver) maxDepth() int {
	if r.MaxDepth > 0 {
		return r.MaxDepth
	}
	return DefaultMaxDepth
}

func (r *Resolver) skip(node any) {
	r.skipped++
	if r.OnSkip != nil {
		r.OnSkip(node)
	}
}

// placeholderIndex parses the numeric index of a placeholder token by
// stripping the marker rune and parsing the remaining digits. Malformed or
// missing digits yield 0, which no parameter source satisfies, so such
// tokens always resolve to NotFound.
func placeholderIndex(p string) int {
	if len(p) < 2 {
		return 0
	}
	i, err := strconv.Atoi(p[1:])
	if err != nil || i < 0 {
		return 0
	}
	return i
}

// lookup fetches the value for a placeholder token. A NotFound failure is
// re-labeled with the original token text so diagnostics echo the query
// verbatim rather than the parsed index.
func (r *Resolver) lookup(text string) (Value, error) {
	v, err := r.params.Get(placeholderIndex(text))
	if err != nil {
		if e, ok := err.(*Error); ok && e.Kind == KindNotFound {
			return Value{}, notFoundErr(text)
		}
		return Value{}, err
	}
	return v, nil
}

// ResolveExpr substitutes placeholders in an expression tree in place. The
// first failure aborts the walk; nodes rewritten before it stay rewritten.
func (r *Resolver) ResolveExpr(x *sqlast.Expr) error {
	return r.resolveExpr(x, 0)
}

func (r *Resolver) resolveExpr(x *sqlast.Expr, depth int) error {
	if depth > r.maxDepth() {
		return unsupportedErr("expression nesting deeper than %d", r.maxDepth())
	}
	switch e := (*x).(type) {
	case *sqlast.Placeholder:
		v, err := r.lookup(e.Text)
		if err != nil {
			return err
		}
		*x = v.Expr()
	case *sqlast.IsNull:
		return r.resolveExpr(&e.Expr, depth+1)
	case *sqlast.InList:
		if err := r.resolveExpr(&e.Expr, depth+1); err != nil {
			return err
		}
		for i := range e.List {
			if err := r.resolveExpr(&e.List[i], depth+1); err != nil {
				return err
			}
		}
	case *sqlast.InSubquery:
		if err := r.resolveExpr(&e.Expr, depth+1); err != nil {
			return err
		}
		return r.resolveQuery(e.Subquery, depth+1)
	case *sqlast.Between:
		if err := r.resolveExpr(&e.Expr, depth+1); err != nil {
			return err
		}
		if err := r.resolveExpr(&e.Low, depth+1); err != nil {
			return err
		}
		return r.resolveExpr(&e.High, depth+1)
	case *sqlast.Like:
		// the escape character is a bare literal, never a placeholder
		if err := r.resolveExpr(&e.Expr, depth+1); err != nil {
			return err
		}
		return r.resolveExpr(&e.Pattern, depth+1)
	case *sqlast.Binary:
		if err := r.resolveExpr(&e.Left, depth+1); err != nil {
			return err
		}
		return r.resolveExpr(&e.Right, depth+1)
	case *sqlast.Unary:
		return r.resolveExpr(&e.Expr, depth+1)
	case *sqlast.Nested:
		return r.resolveExpr(&e.Expr, depth+1)
	case *sqlast.Exists:
		return r.resolveQuery(e.Subquery, depth+1)
	case *sqlast.Subquery:
		return r.resolveQuery(e.Query, depth+1)
	case *sqlast.Case:
		if e.Operand != nil {
			if err := r.resolveExpr(&e.Operand, depth+1); err != nil {
				return err
			}
		}
		for i := range e.Whens {
			if err := r.resolveExpr(&e.Whens[i].Cond, depth+1); err != nil {
				return err
			}
			if err := r.resolveExpr(&e.Whens[i].Result, depth+1); err != nil {
				return err
			}
		}
		if e.Else != nil {
			return r.resolveExpr(&e.Else, depth+1)
		}
	case *sqlast.Interval:
		return r.resolveExpr(&e.Value, depth+1)
	case *sqlast.ArrayExpr:
		for i := range e.Elems {
			if err := r.resolveExpr(&e.Elems[i], depth+1); err != nil {
				return err
			}
		}
	default:
		// column refs, function calls, literals and any future shapes
		// pass through untouched
		r.skip(e)
	}
	return nil
}

// ResolveQuery substitutes placeholders across one query in place.
func (r *Resolver) ResolveQuery(q *sqlast.Query) error {
	return r.resolveQuery(q, 0)
}

func (r *Resolver) resolveQuery(q *sqlast.Query, depth int) error {
	if depth > r.maxDepth() {
		return unsupportedErr("query nesting deeper than %d", r.maxDepth())
	}
	switch body := q.Body.(type) {
	case *sqlast.SelectBody:
		if body.Where != nil {
			if err := r.resolveExpr(&body.Where, depth+1); err != nil {
				return err
			}
		}
		for i := range body.Projs {
			if body.Projs[i].Star || body.Projs[i].Expr == nil {
				continue
			}
			if err := r.resolveExpr(&body.Projs[i].Expr, depth+1); err != nil {
				return err
			}
		}
		for i := range body.GroupBy {
			if err := r.resolveExpr(&body.GroupBy[i], depth+1); err != nil {
				return err
			}
		}
		if body.Having != nil {
			if err := r.resolveExpr(&body.Having, depth+1); err != nil {
				return err
			}
		}
	case *sqlast.ValuesBody:
		for i := range body.Rows {
			for j := range body.Rows[i] {
				if err := r.resolveExpr(&body.Rows[i][j], depth+1); err != nil {
					return err
				}
			}
		}
	default:
		return unsupportedErr("query body %T", q.Body)
	}
	return nil
}

// ResolveStatement substitutes placeholders across one statement in place.
// Statement shapes outside the supported set are left unchanged.
func (r *Resolver) ResolveStatement(s sqlast.Statement) error {
	switch st := s.(type) {
	case *sqlast.Query:
		return r.ResolveQuery(st)
	case *sqlast.Insert:
		if st.Source != nil {
			return r.ResolveQuery(st.Source)
		}
	case *sqlast.Update:
		// Assignments are resolved only when a WHERE clause is present;
		// an UPDATE without WHERE is left untouched. Covered by
		// TestUpdateWithoutWhereKeepsPlaceholders.
		if st.Where != nil {
			for i := range st.Sets {
				if err := r.ResolveExpr(&st.Sets[i].Value); err != nil {
					return err
				}
			}
			return r.ResolveExpr(&st.Where)
		}
	case *sqlast.Delete:
		if st.Where != nil {
			return r.ResolveExpr(&st.Where)
		}
	case *sqlast.CreateTable:
		if st.AsSelect != nil {
			return r.ResolveQuery(st.AsSelect)
		}
	case *sqlast.Explain:
		// nothing to do here; VisitStatements hands the wrapped statement
		// to this method separately
	default:
		r.skip(s)
	}
	return nil
}

// ResolveAll walks the statement list in declaration order, descending into
// nested statements, and resolves each one. It stops at the first error;
// statements mutated before the failing one keep their mutations.
func (r *Resolver) ResolveAll(stmts []sqlast.Statement) error {
	return sqlast.VisitStatements(stmts, r.ResolveStatement)
}

// ResolveAll resolves every placeholder reachable from stmts against ps
// using a fresh Resolver with default settings.
func ResolveAll(ps Parameters, stmts []sqlast.Statement) error {
	return NewResolver(ps).ResolveAll(stmts)
}
