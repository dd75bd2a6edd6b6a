package sqlast

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser holds the lexer and current/peek tokens for recursive-descent parsing.
type Parser struct {
	lx   *lexer
	cur  token
	peek token
}

// NewParser creates a new SQL parser for the provided input string.
func NewParser(sql string) *Parser {
	p := &Parser{lx: newLexer(sql)}
	p.cur = p.lx.nextToken()
	p.peek = p.lx.nextToken()
	return p
}

// Parse parses a semicolon-separated script into a statement list.
func Parse(sql string) ([]Statement, error) {
	p := NewParser(sql)
	var stmts []Statement
	for {
		for p.cur.Typ == tSymbol && p.cur.Val == ";" {
			p.next()
		}
		if p.cur.Typ == tEOF {
			return stmts, nil
		}
		st, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
		if p.cur.Typ == tSymbol && p.cur.Val == ";" {
			continue
		}
		if p.cur.Typ != tEOF {
			return nil, p.errf("expected ; between statements")
		}
	}
}

func (p *Parser) next() { p.cur, p.peek = p.peek, p.lx.nextToken() }
func (p *Parser) expectSymbol(sym string) error {
	if p.cur.Typ == tSymbol && p.cur.Val == sym {
		p.next()
		return nil
	}
	return p.errf("expected symbol %q", sym)
}
func (p *Parser) expectKeyword(kw string) error {
	if p.cur.Typ == tKeyword && p.cur.Val == kw {
		p.next()
		return nil
	}
	return p.errf("expected keyword %q", kw)
}
func (p *Parser) isKeyword(kw string) bool {
	return p.cur.Typ == tKeyword && p.cur.Val == kw
}
func (p *Parser) isSymbol(sym string) bool {
	return p.cur.Typ == tSymbol && p.cur.Val == sym
}
func (p *Parser) errf(format string, a ...any) error {
	return fmt.Errorf("parse error near %q: %s", p.cur.Val, fmt.Sprintf(format, a...))
}

func (p *Parser) parseIdentLike() string {
	// Accept both identifiers and keywords as identifier-like names.
	// This allows column/table names like "date" even if they are keywords.
	if p.cur.Typ == tIdent || p.cur.Typ == tKeyword {
		s := p.cur.Val
		p.next()
		return s
	}
	return ""
}

func (p *Parser) parseIntLiteral() *int {
	if p.cur.Typ == tNumber && !strings.Contains(p.cur.Val, ".") {
		n, _ := strconv.Atoi(p.cur.Val)
		p.next()
		return &n
	}
	return nil
}

// atQueryStart reports whether the current token can open a query.
func (p *Parser) atQueryStart() bool {
	return p.isKeyword("SELECT") || p.isKeyword("WITH") || p.isKeyword("VALUES")
}

// ParseStatement parses a single SQL statement into an AST.
func (p *Parser) ParseStatement() (Statement, error) {
	switch {
	case p.isKeyword("CREATE"):
		return p.parseCreate()
	case p.isKeyword("DROP"):
		return p.parseDrop()
	case p.isKeyword("INSERT"):
		return p.parseInsert()
	case p.isKeyword("UPDATE"):
		return p.parseUpdate()
	case p.isKeyword("DELETE"):
		return p.parseDelete()
	case p.isKeyword("EXPLAIN"):
		p.next()
		inner, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		return &Explain{Stmt: inner}, nil
	case p.atQueryStart():
		return p.parseQuery()
	default:
		return nil, p.errf("expected a statement")
	}
}

// ------------------------------ DDL / DML ------------------------------

func (p *Parser) parseCreate() (Statement, error) {
	p.next()
	isTemp := false
	if p.isKeyword("TEMP") || p.isKeyword("TEMPORARY") {
		isTemp = true
		p.next()
	}
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	name := p.parseIdentLike()
	if name == "" {
		return nil, p.errf("expected table name")
	}
	if p.isKeyword("AS") {
		p.next()
		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		return &CreateTable{Name: name, IsTemp: isTemp, AsSelect: q}, nil
	}
	cols, err := p.parseColumnDefs()
	if err != nil {
		return nil, err
	}
	return &CreateTable{Name: name, Cols: cols, IsTemp: isTemp}, nil
}

func (p *Parser) parseColumnDefs() ([]ColumnDef, error) {
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	cols := make([]ColumnDef, 0, 8)
	for {
		name := p.parseIdentLike()
		if name == "" {
			return nil, p.errf("expected column name")
		}
		typ, err := p.parseRawType()
		if err != nil {
			return nil, err
		}
		cols = append(cols, ColumnDef{Name: name, Type: typ})
		if p.isSymbol(",") {
			p.next()
			continue
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		break
	}
	return cols, nil
}

// parseRawType collects the column type as raw text up to the next top-level
// comma or closing paren. Parenthesized arguments (varchar(20)) stay intact.
func (p *Parser) parseRawType() (string, error) {
	var parts []string
	depth := 0
	for {
		if p.cur.Typ == tEOF {
			return "", p.errf("unterminated column definition")
		}
		if depth == 0 && (p.isSymbol(",") || p.isSymbol(")")) {
			break
		}
		if p.isSymbol("(") {
			depth++
			parts = append(parts, "(")
			p.next()
			continue
		}
		if p.isSymbol(")") {
			depth--
			parts = append(parts, ")")
			p.next()
			continue
		}
		if p.isSymbol(",") {
			parts = append(parts, ",")
			p.next()
			continue
		}
		parts = append(parts, p.cur.Val)
		p.next()
	}
	if len(parts) == 0 {
		return "", p.errf("expected column type")
	}
	out := parts[0]
	for _, t := range parts[1:] {
		switch t {
		case "(", ")", ",":
			out += t
		default:
			if strings.HasSuffix(out, "(") {
				out += t
			} else {
				out += " " + t
			}
		}
	}
	return out, nil
}

func (p *Parser) parseDrop() (Statement, error) {
	p.next()
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	name := p.parseIdentLike()
	if name == "" {
		return nil, p.errf("expected table name")
	}
	return &DropTable{Name: name}, nil
}

func (p *Parser) parseInsert() (Statement, error) {
	p.next()
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	name := p.parseIdentLike()
	if name == "" {
		return nil, p.errf("expected table name")
	}
	ins := &Insert{Table: name}
	if p.isSymbol("(") {
		p.next()
		for {
			col := p.parseIdentLike()
			if col == "" {
				return nil, p.errf("expected column name")
			}
			ins.Cols = append(ins.Cols, col)
			if p.isSymbol(",") {
				p.next()
				continue
			}
			if err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			break
		}
	}
	if p.isKeyword("DEFAULT") {
		p.next()
		if err := p.expectKeyword("VALUES"); err != nil {
			return nil, err
		}
		return ins, nil
	}
	if !p.atQueryStart() {
		return nil, p.errf("expected VALUES or SELECT")
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	ins.Source = q
	return ins, nil
}

func (p *Parser) parseUpdate() (Statement, error) {
	p.next()
	name := p.parseIdentLike()
	if name == "" {
		return nil, p.errf("expected table name")
	}
	if err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}
	up := &Update{Table: name}
	for {
		col := p.parseIdentLike()
		if col == "" {
			return nil, p.errf("expected column name")
		}
		if err := p.expectSymbol("="); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		up.Sets = append(up.Sets, Assignment{Col: col, Value: val})
		if p.isSymbol(",") {
			p.next()
			continue
		}
		break
	}
	if p.isKeyword("WHERE") {
		p.next()
		w, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		up.Where = w
	}
	return up, nil
}

func (p *Parser) parseDelete() (Statement, error) {
	p.next()
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	name := p.parseIdentLike()
	if name == "" {
		return nil, p.errf("expected table name")
	}
	del := &Delete{Table: name}
	if p.isKeyword("WHERE") {
		p.next()
		w, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		del.Where = w
	}
	return del, nil
}

// ------------------------------ Queries ------------------------------

func (p *Parser) parseQuery() (*Query, error) {
	q := &Query{}
	if p.isKeyword("WITH") {
		p.next()
		if p.isKeyword("RECURSIVE") {
			p.next()
		}
		for {
			name := p.parseIdentLike()
			if name == "" {
				return nil, p.errf("expected CTE name")
			}
			if err := p.expectKeyword("AS"); err != nil {
				return nil, err
			}
			if err := p.expectSymbol("("); err != nil {
				return nil, err
			}
			cq, err := p.parseQuery()
			if err != nil {
				return nil, err
			}
			if err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			q.CTEs = append(q.CTEs, CTE{Name: name, Query: cq})
			if p.isSymbol(",") {
				p.next()
				continue
			}
			break
		}
	}
	body, err := p.parseSetExpr()
	if err != nil {
		return nil, err
	}
	q.Body = body
	if p.isKeyword("ORDER") {
		p.next()
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			it := OrderItem{Expr: e}
			if p.isKeyword("ASC") {
				p.next()
			} else if p.isKeyword("DESC") {
				it.Desc = true
				p.next()
			}
			q.OrderBy = append(q.OrderBy, it)
			if p.isSymbol(",") {
				p.next()
				continue
			}
			break
		}
	}
	if p.isKeyword("LIMIT") {
		p.next()
		if q.Limit = p.parseIntLiteral(); q.Limit == nil {
			return nil, p.errf("expected LIMIT count")
		}
	}
	if p.isKeyword("OFFSET") {
		p.next()
		if q.Offset = p.parseIntLiteral(); q.Offset == nil {
			return nil, p.errf("expected OFFSET count")
		}
	}
	return q, nil
}

func (p *Parser) parseSetExpr() (SetExpr, error) {
	left, err := p.parseBodyPrimary()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("UNION") || p.isKeyword("EXCEPT") || p.isKeyword("INTERSECT") {
		var op SetOpType
		switch p.cur.Val {
		case "UNION":
			op = Union
		case "EXCEPT":
			op = Except
		case "INTERSECT":
			op = Intersect
		}
		p.next()
		all := false
		if p.isKeyword("ALL") {
			all = true
			p.next()
		}
		right, err := p.parseBodyPrimary()
		if err != nil {
			return nil, err
		}
		left = &SetOp{Op: op, All: all, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBodyPrimary() (SetExpr, error) {
	switch {
	case p.isKeyword("SELECT"):
		return p.parseSelectBody()
	case p.isKeyword("VALUES"):
		return p.parseValuesBody()
	case p.isSymbol("("):
		p.next()
		body, err := p.parseSetExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return body, nil
	default:
		return nil, p.errf("expected SELECT or VALUES")
	}
}

func (p *Parser) parseValuesBody() (*ValuesBody, error) {
	p.next() // VALUES
	vb := &ValuesBody{}
	for {
		if err := p.expectSymbol("("); err != nil {
			return nil, err
		}
		var row []Expr
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			row = append(row, e)
			if p.isSymbol(",") {
				p.next()
				continue
			}
			break
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		vb.Rows = append(vb.Rows, row)
		if p.isSymbol(",") {
			p.next()
			continue
		}
		break
	}
	return vb, nil
}

func (p *Parser) parseSelectBody() (*SelectBody, error) {
	p.next() // SELECT
	sb := &SelectBody{}
	if p.isKeyword("DISTINCT") {
		sb.Distinct = true
		p.next()
	}
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		sb.Projs = append(sb.Projs, item)
		if p.isSymbol(",") {
			p.next()
			continue
		}
		break
	}
	if p.isKeyword("FROM") {
		p.next()
		for {
			tr, err := p.parseTableRef()
			if err != nil {
				return nil, err
			}
			sb.From = append(sb.From, tr)
			if p.isSymbol(",") {
				p.next()
				continue
			}
			break
		}
	}
	if p.isKeyword("WHERE") {
		p.next()
		w, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sb.Where = w
	}
	if p.isKeyword("GROUP") {
		p.next()
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			sb.GroupBy = append(sb.GroupBy, e)
			if p.isSymbol(",") {
				p.next()
				continue
			}
			break
		}
	}
	if p.isKeyword("HAVING") {
		p.next()
		h, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sb.Having = h
	}
	return sb, nil
}

func (p *Parser) parseSelectItem() (SelectItem, error) {
	if p.isSymbol("*") {
		p.next()
		return SelectItem{Star: true}, nil
	}
	// qualified star: the lexer folds dots into identifiers, so "t.*"
	// arrives as ident "t." followed by symbol "*"
	if p.cur.Typ == tIdent && strings.HasSuffix(p.cur.Val, ".") && p.peek.Typ == tSymbol && p.peek.Val == "*" {
		qual := strings.TrimSuffix(p.cur.Val, ".")
		p.next()
		p.next()
		return SelectItem{Star: true, Qual: qual}, nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return SelectItem{}, err
	}
	item := SelectItem{Expr: e}
	if p.isKeyword("AS") {
		p.next()
		item.Alias = p.parseIdentLike()
		if item.Alias == "" {
			return SelectItem{}, p.errf("expected alias")
		}
	} else if p.cur.Typ == tIdent {
		item.Alias = p.cur.Val
		p.next()
	}
	return item, nil
}

func (p *Parser) parseTableRef() (TableRef, error) {
	name := p.parseIdentLike()
	if name == "" {
		return TableRef{}, p.errf("expected table")
	}
	tr := TableRef{Table: name}
	if p.isKeyword("AS") {
		p.next()
		tr.Alias = p.parseIdentLike()
		if tr.Alias == "" {
			return TableRef{}, p.errf("expected alias")
		}
	} else if p.cur.Typ == tIdent {
		tr.Alias = p.cur.Val
		p.next()
	}
	for {
		jt, ok := p.parseJoinHead()
		if !ok {
			break
		}
		rt := p.parseIdentLike()
		if rt == "" {
			return TableRef{}, p.errf("expected table")
		}
		right := TableRef{Table: rt}
		if p.isKeyword("AS") {
			p.next()
			right.Alias = p.parseIdentLike()
		} else if p.cur.Typ == tIdent {
			right.Alias = p.cur.Val
			p.next()
		}
		if err := p.expectKeyword("ON"); err != nil {
			return TableRef{}, err
		}
		on, err := p.parseExpr()
		if err != nil {
			return TableRef{}, err
		}
		tr.Joins = append(tr.Joins, JoinClause{Type: jt, Right: right, On: on})
	}
	return tr, nil
}

// parseJoinHead consumes [INNER|LEFT|RIGHT [OUTER]] JOIN when present.
func (p *Parser) parseJoinHead() (JoinType, bool) {
	jt := JoinInner
	switch {
	case p.isKeyword("JOIN"):
		p.next()
		return jt, true
	case p.isKeyword("INNER"):
		p.next()
	case p.isKeyword("LEFT"):
		jt = JoinLeft
		p.next()
		if p.isKeyword("OUTER") {
			p.next()
		}
	case p.isKeyword("RIGHT"):
		jt = JoinRight
		p.next()
		if p.isKeyword("OUTER") {
			p.next()
		}
	default:
		return jt, false
	}
	if p.isKeyword("JOIN") {
		p.next()
		return jt, true
	}
	return jt, false
}

// ------------------------------ Expressions ------------------------------

func (p *Parser) parseExpr() (Expr, error) { return p.parseOr() }

func (p *Parser) parseOr() (Expr, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("OR") {
		p.next()
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l = &Binary{Op: "OR", Left: l, Right: r}
	}
	return l, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	l, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("AND") {
		p.next()
		r, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		l = &Binary{Op: "AND", Left: l, Right: r}
	}
	return l, nil
}

func (p *Parser) parseNot() (Expr, error) {
	if p.isKeyword("NOT") && !p.predicateFollows() {
		p.next()
		e, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "NOT", Expr: e}, nil
	}
	return p.parsePredicate()
}

// predicateFollows reports whether the upcoming NOT belongs to an infix
// predicate (NOT IN, NOT BETWEEN, NOT LIKE, NOT ILIKE, NOT EXISTS).
func (p *Parser) predicateFollows() bool {
	if p.peek.Typ != tKeyword {
		return false
	}
	switch p.peek.Val {
	case "IN", "BETWEEN", "LIKE", "ILIKE", "EXISTS":
		return true
	}
	return false
}

// parsePredicate handles the postfix predicates IS [NOT] NULL, [NOT] IN,
// [NOT] BETWEEN and [NOT] LIKE/ILIKE on top of plain comparisons.
func (p *Parser) parsePredicate() (Expr, error) {
	if p.isKeyword("NOT") && p.peek.Typ == tKeyword && p.peek.Val == "EXISTS" {
		p.next()
		e, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if ex, ok := e.(*Exists); ok {
			ex.Negated = true
			return ex, nil
		}
		return &Unary{Op: "NOT", Expr: e}, nil
	}
	l, err := p.parseCmp()
	if err != nil {
		return nil, err
	}
	for {
		negated := false
		if p.isKeyword("NOT") && p.predicateFollows() {
			negated = true
			p.next()
		}
		switch {
		case p.isKeyword("IS"):
			p.next()
			neg := false
			if p.isKeyword("NOT") {
				neg = true
				p.next()
			}
			if !p.isKeyword("NULL") {
				return nil, p.errf("expected NULL after IS/IS NOT")
			}
			p.next()
			l = &IsNull{Expr: l, Negate: neg}
		case p.isKeyword("IN"):
			p.next()
			if err := p.expectSymbol("("); err != nil {
				return nil, err
			}
			if p.atQueryStart() {
				q, err := p.parseQuery()
				if err != nil {
					return nil, err
				}
				if err := p.expectSymbol(")"); err != nil {
					return nil, err
				}
				l = &InSubquery{Expr: l, Subquery: q, Negated: negated}
				continue
			}
			var list []Expr
			for {
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				list = append(list, e)
				if p.isSymbol(",") {
					p.next()
					continue
				}
				break
			}
			if err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			l = &InList{Expr: l, List: list, Negated: negated}
		case p.isKeyword("BETWEEN"):
			p.next()
			low, err := p.parseCmp()
			if err != nil {
				return nil, err
			}
			if err := p.expectKeyword("AND"); err != nil {
				return nil, err
			}
			high, err := p.parseCmp()
			if err != nil {
				return nil, err
			}
			l = &Between{Expr: l, Low: low, High: high, Negated: negated}
		case p.isKeyword("LIKE"), p.isKeyword("ILIKE"):
			ilike := p.cur.Val == "ILIKE"
			p.next()
			pat, err := p.parseCmp()
			if err != nil {
				return nil, err
			}
			lk := &Like{Expr: l, Pattern: pat, ILike: ilike, Negated: negated}
			if p.isKeyword("ESCAPE") {
				p.next()
				if p.cur.Typ != tString {
					return nil, p.errf("expected ESCAPE character")
				}
				lk.Escape = p.cur.Val
				p.next()
			}
			l = lk
		default:
			if negated {
				return nil, p.errf("expected IN, BETWEEN or LIKE after NOT")
			}
			return l, nil
		}
	}
}

func (p *Parser) parseCmp() (Expr, error) {
	l, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}
	for {
		if p.cur.Typ == tSymbol {
			switch p.cur.Val {
			case "=", "!=", "<>", "<", "<=", ">", ">=":
				op := p.cur.Val
				p.next()
				r, err := p.parseAddSub()
				if err != nil {
					return nil, err
				}
				l = &Binary{Op: op, Left: l, Right: r}
				continue
			}
		}
		break
	}
	return l, nil
}

func (p *Parser) parseAddSub() (Expr, error) {
	l, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}
	for p.cur.Typ == tSymbol && (p.cur.Val == "+" || p.cur.Val == "-") {
		op := p.cur.Val
		p.next()
		r, err := p.parseMulDiv()
		if err != nil {
			return nil, err
		}
		l = &Binary{Op: op, Left: l, Right: r}
	}
	return l, nil
}

func (p *Parser) parseMulDiv() (Expr, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Typ == tSymbol && (p.cur.Val == "*" || p.cur.Val == "/") {
		op := p.cur.Val
		p.next()
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = &Binary{Op: op, Left: l, Right: r}
	}
	return l, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.cur.Typ == tSymbol && (p.cur.Val == "+" || p.cur.Val == "-") {
		op := p.cur.Val
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Expr: e}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Expr, error) {
	switch p.cur.Typ {
	case tNumber:
		val := p.cur.Val
		p.next()
		return NumberLiteral(val), nil
	case tString:
		s := p.cur.Val
		p.next()
		return &Literal{Val: s}, nil
	case tPlaceholder:
		t := p.cur.Val
		p.next()
		return &Placeholder{Text: t}, nil
	case tKeyword:
		switch p.cur.Val {
		case "TRUE":
			p.next()
			return &Literal{Val: true}, nil
		case "FALSE":
			p.next()
			return &Literal{Val: false}, nil
		case "NULL":
			p.next()
			return &Literal{Val: nil}, nil
		case "DATE", "DATETIME":
			if p.peek.Typ == tString {
				p.next()
				text := p.cur.Val
				p.next()
				return &TypedLiteral{Type: TypeDate, Text: text}, nil
			}
			// bare keyword used as a column name
			name := p.parseIdentLike()
			return &VarRef{Name: name}, nil
		case "CASE":
			return p.parseCase()
		case "EXISTS":
			p.next()
			if err := p.expectSymbol("("); err != nil {
				return nil, err
			}
			q, err := p.parseQuery()
			if err != nil {
				return nil, err
			}
			if err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			return &Exists{Subquery: q}, nil
		case "INTERVAL":
			return p.parseInterval()
		case "ARRAY":
			return p.parseArray()
		default:
			return nil, p.errf("unexpected keyword %q", p.cur.Val)
		}
	case tIdent:
		name := p.cur.Val
		p.next()
		if p.isSymbol("(") {
			return p.parseFuncCall(name)
		}
		return &VarRef{Name: name}, nil
	case tSymbol:
		if p.cur.Val == "(" {
			p.next()
			if p.atQueryStart() {
				q, err := p.parseQuery()
				if err != nil {
					return nil, err
				}
				if err := p.expectSymbol(")"); err != nil {
					return nil, err
				}
				return &Subquery{Query: q}, nil
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			return &Nested{Expr: e}, nil
		}
	}
	return nil, p.errf("unexpected token %q", p.cur.Val)
}

func (p *Parser) parseCase() (Expr, error) {
	p.next() // CASE
	c := &Case{}
	if !p.isKeyword("WHEN") {
		op, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Operand = op
	}
	for p.isKeyword("WHEN") {
		p.next()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("THEN"); err != nil {
			return nil, err
		}
		res, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Whens = append(c.Whens, When{Cond: cond, Result: res})
	}
	if len(c.Whens) == 0 {
		return nil, p.errf("expected WHEN in CASE")
	}
	if p.isKeyword("ELSE") {
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Else = e
	}
	if err := p.expectKeyword("END"); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *Parser) parseInterval() (Expr, error) {
	p.next() // INTERVAL
	v, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	iv := &Interval{Value: v}
	if p.cur.Typ == tKeyword {
		switch p.cur.Val {
		case "YEAR", "MONTH", "DAY", "HOUR", "MINUTE", "SECOND":
			iv.Unit = p.cur.Val
			p.next()
		}
	}
	return iv, nil
}

func (p *Parser) parseArray() (Expr, error) {
	p.next() // ARRAY
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	arr := &ArrayExpr{}
	if !p.isSymbol("]") {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, e)
			if p.isSymbol(",") {
				p.next()
				continue
			}
			break
		}
	}
	if err := p.expectSymbol("]"); err != nil {
		return nil, err
	}
	return arr, nil
}

func (p *Parser) parseFuncCall(name string) (Expr, error) {
	// "(" already current
	p.next()
	if p.isSymbol("*") && p.peek.Typ == tSymbol && p.peek.Val == ")" {
		p.next()
		p.next()
		return &FuncCall{Name: name, Star: true}, nil
	}
	fc := &FuncCall{Name: name}
	if !p.isSymbol(")") {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			fc.Args = append(fc.Args, e)
			if p.isSymbol(",") {
				p.next()
				continue
			}
			break
		}
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return fc, nil
}
