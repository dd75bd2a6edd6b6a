package sqlast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Render returns the SQL text of a statement. The output parses back to an
// equivalent tree and is accepted by common engines for the supported subset.
func Render(s Statement) string {
	var sb strings.Builder
	renderStatement(&sb, s)
	return sb.String()
}

// RenderAll renders a statement list as a semicolon-separated script.
func RenderAll(stmts []Statement) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = Render(s)
	}
	return strings.Join(parts, ";\n")
}

// RenderExpr returns the SQL text of a single expression node.
func RenderExpr(e Expr) string {
	var sb strings.Builder
	renderExpr(&sb, e)
	return sb.String()
}

// RenderQuery returns the SQL text of a query node.
func RenderQuery(q *Query) string {
	var sb strings.Builder
	renderQuery(&sb, q)
	return sb.String()
}

// QuoteString renders s as a single-quoted SQL string literal, doubling
// embedded quotes.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func renderStatement(sb *strings.Builder, s Statement) {
	switch st := s.(type) {
	case *Query:
		renderQuery(sb, st)
	case *Insert:
		sb.WriteString("INSERT INTO ")
		sb.WriteString(st.Table)
		if len(st.Cols) > 0 {
			sb.WriteString(" (")
			sb.WriteString(strings.Join(st.Cols, ", "))
			sb.WriteString(")")
		}
		if st.Source != nil {
			sb.WriteString(" ")
			renderQuery(sb, st.Source)
		} else {
			sb.WriteString(" DEFAULT VALUES")
		}
	case *Update:
		sb.WriteString("UPDATE ")
		sb.WriteString(st.Table)
		sb.WriteString(" SET ")
		for i, a := range st.Sets {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.Col)
			sb.WriteString(" = ")
			renderExpr(sb, a.Value)
		}
		if st.Where != nil {
			sb.WriteString(" WHERE ")
			renderExpr(sb, st.Where)
		}
	case *Delete:
		sb.WriteString("DELETE FROM ")
		sb.WriteString(st.Table)
		if st.Where != nil {
			sb.WriteString(" WHERE ")
			renderExpr(sb, st.Where)
		}
	case *CreateTable:
		sb.WriteString("CREATE ")
		if st.IsTemp {
			sb.WriteString("TEMP ")
		}
		sb.WriteString("TABLE ")
		sb.WriteString(st.Name)
		if st.AsSelect != nil {
			sb.WriteString(" AS ")
			renderQuery(sb, st.AsSelect)
			return
		}
		sb.WriteString(" (")
		for i, c := range st.Cols {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(c.Name)
			sb.WriteString(" ")
			sb.WriteString(c.Type)
		}
		sb.WriteString(")")
	case *DropTable:
		sb.WriteString("DROP TABLE ")
		sb.WriteString(st.Name)
	case *Explain:
		sb.WriteString("EXPLAIN ")
		renderStatement(sb, st.Stmt)
	default:
		fmt.Fprintf(sb, "/* unrenderable statement %T */", s)
	}
}

func renderQuery(sb *strings.Builder, q *Query) {
	if len(q.CTEs) > 0 {
		sb.WriteString("WITH ")
		for i, c := range q.CTEs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(c.Name)
			sb.WriteString(" AS (")
			renderQuery(sb, c.Query)
			sb.WriteString(")")
		}
		sb.WriteString(" ")
	}
	renderSetExpr(sb, q.Body)
	if len(q.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, o := range q.OrderBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			renderExpr(sb, o.Expr)
			if o.Desc {
				sb.WriteString(" DESC")
			}
		}
	}
	if q.Limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(*q.Limit))
	}
	if q.Offset != nil {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(*q.Offset))
	}
}

func renderSetExpr(sb *strings.Builder, body SetExpr) {
	switch b := body.(type) {
	case *SelectBody:
		sb.WriteString("SELECT ")
		if b.Distinct {
			sb.WriteString("DISTINCT ")
		}
		for i, it := range b.Projs {
			if i > 0 {
				sb.WriteString(", ")
			}
			switch {
			case it.Star && it.Qual != "":
				sb.WriteString(it.Qual)
				sb.WriteString(".*")
			case it.Star:
				sb.WriteString("*")
			default:
				renderExpr(sb, it.Expr)
				if it.Alias != "" {
					sb.WriteString(" AS ")
					sb.WriteString(it.Alias)
				}
			}
		}
		if len(b.From) > 0 {
			sb.WriteString(" FROM ")
			for i, tr := range b.From {
				if i > 0 {
					sb.WriteString(", ")
				}
				renderTableRef(sb, tr)
			}
		}
		if b.Where != nil {
			sb.WriteString(" WHERE ")
			renderExpr(sb, b.Where)
		}
		if len(b.GroupBy) > 0 {
			sb.WriteString(" GROUP BY ")
			for i, e := range b.GroupBy {
				if i > 0 {
					sb.WriteString(", ")
				}
				renderExpr(sb, e)
			}
		}
		if b.Having != nil {
			sb.WriteString(" HAVING ")
			renderExpr(sb, b.Having)
		}
	case *ValuesBody:
		sb.WriteString("VALUES ")
		for i, row := range b.Rows {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(")
			for j, e := range row {
				if j > 0 {
					sb.WriteString(", ")
				}
				renderExpr(sb, e)
			}
			sb.WriteString(")")
		}
	case *SetOp:
		renderSetExpr(sb, b.Left)
		sb.WriteString(" ")
		sb.WriteString(b.Op.String())
		if b.All {
			sb.WriteString(" ALL")
		}
		sb.WriteString(" ")
		renderSetExpr(sb, b.Right)
	default:
		fmt.Fprintf(sb, "/* unrenderable body %T */", body)
	}
}

func renderTableRef(sb *strings.Builder, tr TableRef) {
	sb.WriteString(tr.Table)
	if tr.Alias != "" {
		sb.WriteString(" ")
		sb.WriteString(tr.Alias)
	}
	for _, j := range tr.Joins {
		switch j.Type {
		case JoinLeft:
			sb.WriteString(" LEFT JOIN ")
		case JoinRight:
			sb.WriteString(" RIGHT JOIN ")
		default:
			sb.WriteString(" JOIN ")
		}
		sb.WriteString(j.Right.Table)
		if j.Right.Alias != "" {
			sb.WriteString(" ")
			sb.WriteString(j.Right.Alias)
		}
		sb.WriteString(" ON ")
		renderExpr(sb, j.On)
	}
}

func renderExpr(sb *strings.Builder, e Expr) {
	switch x := e.(type) {
	case *VarRef:
		sb.WriteString(x.Name)
	case *Literal:
		switch v := x.Val.(type) {
		case nil:
			sb.WriteString("NULL")
		case bool:
			if v {
				sb.WriteString("TRUE")
			} else {
				sb.WriteString("FALSE")
			}
		case string:
			sb.WriteString(QuoteString(v))
		case decimal.Decimal:
			sb.WriteString(v.String())
		default:
			fmt.Fprintf(sb, "%v", v)
		}
	case *TypedLiteral:
		if x.Type == TypeDate {
			sb.WriteString("DATE ")
		}
		sb.WriteString(QuoteString(x.Text))
	case *Placeholder:
		sb.WriteString(x.Text)
	case *Unary:
		sb.WriteString(x.Op)
		if x.Op == "NOT" {
			sb.WriteString(" ")
		}
		renderExpr(sb, x.Expr)
	case *Binary:
		renderExpr(sb, x.Left)
		sb.WriteString(" ")
		sb.WriteString(x.Op)
		sb.WriteString(" ")
		renderExpr(sb, x.Right)
	case *IsNull:
		renderExpr(sb, x.Expr)
		if x.Negate {
			sb.WriteString(" IS NOT NULL")
		} else {
			sb.WriteString(" IS NULL")
		}
	case *InList:
		renderExpr(sb, x.Expr)
		if x.Negated {
			sb.WriteString(" NOT")
		}
		sb.WriteString(" IN (")
		for i, e := range x.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			renderExpr(sb, e)
		}
		sb.WriteString(")")
	case *InSubquery:
		renderExpr(sb, x.Expr)
		if x.Negated {
			sb.WriteString(" NOT")
		}
		sb.WriteString(" IN (")
		renderQuery(sb, x.Subquery)
		sb.WriteString(")")
	case *Between:
		renderExpr(sb, x.Expr)
		if x.Negated {
			sb.WriteString(" NOT")
		}
		sb.WriteString(" BETWEEN ")
		renderExpr(sb, x.Low)
		sb.WriteString(" AND ")
		renderExpr(sb, x.High)
	case *Like:
		renderExpr(sb, x.Expr)
		if x.Negated {
			sb.WriteString(" NOT")
		}
		if x.ILike {
			sb.WriteString(" ILIKE ")
		} else {
			sb.WriteString(" LIKE ")
		}
		renderExpr(sb, x.Pattern)
		if x.Escape != "" {
			sb.WriteString(" ESCAPE ")
			sb.WriteString(QuoteString(x.Escape))
		}
	case *Nested:
		sb.WriteString("(")
		renderExpr(sb, x.Expr)
		sb.WriteString(")")
	case *Exists:
		if x.Negated {
			sb.WriteString("NOT ")
		}
		sb.WriteString("EXISTS (")
		renderQuery(sb, x.Subquery)
		sb.WriteString(")")
	case *Subquery:
		sb.WriteString("(")
		renderQuery(sb, x.Query)
		sb.WriteString(")")
	case *Case:
		sb.WriteString("CASE")
		if x.Operand != nil {
			sb.WriteString(" ")
			renderExpr(sb, x.Operand)
		}
		for _, w := range x.Whens {
			sb.WriteString(" WHEN ")
			renderExpr(sb, w.Cond)
			sb.WriteString(" THEN ")
			renderExpr(sb, w.Result)
		}
		if x.Else != nil {
			sb.WriteString(" ELSE ")
			renderExpr(sb, x.Else)
		}
		sb.WriteString(" END")
	case *Interval:
		sb.WriteString("INTERVAL ")
		renderExpr(sb, x.Value)
		if x.Unit != "" {
			sb.WriteString(" ")
			sb.WriteString(x.Unit)
		}
	case *ArrayExpr:
		sb.WriteString("ARRAY[")
		for i, e := range x.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			renderExpr(sb, e)
		}
		sb.WriteString("]")
	case *MapExpr:
		sb.WriteString("MAP {")
		for i, en := range x.Entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			renderExpr(sb, en.Key)
			sb.WriteString(": ")
			renderExpr(sb, en.Value)
		}
		sb.WriteString("}")
	case *FuncCall:
		sb.WriteString(x.Name)
		sb.WriteString("(")
		if x.Star {
			sb.WriteString("*")
		}
		for i, a := range x.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			renderExpr(sb, a)
		}
		sb.WriteString(")")
	default:
		fmt.Fprintf(sb, "/* unrenderable expr %T */", e)
	}
}
