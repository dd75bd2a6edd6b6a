package sqlast

import (
	"strings"
	"unicode"
)

type tokenType int

const (
	tEOF tokenType = iota
	tIdent
	tNumber
	tString
	tSymbol
	tKeyword
	tPlaceholder
)

type token struct {
	Typ tokenType
	Val string
	Pos int
}

type lexer struct {
	s   string
	pos int
}

func newLexer(s string) *lexer { return &lexer{s: s} }

func (lx *lexer) peek() rune {
	if lx.pos >= len(lx.s) {
		return 0
	}
	return rune(lx.s[lx.pos])
}
func (lx *lexer) peekN(n int) rune {
	p := lx.pos + n
	if p >= len(lx.s) {
		return 0
	}
	return rune(lx.s[p])
}
func (lx *lexer) next() rune {
	if lx.pos >= len(lx.s) {
		return 0
	}
	r := rune(lx.s[lx.pos])
	lx.pos++
	return r
}
func (lx *lexer) skipWS() {
	for {
		if lx.pos >= len(lx.s) {
			return
		}
		r := rune(lx.s[lx.pos])
		if unicode.IsSpace(r) {
			lx.pos++
			continue
		}
		// -- Kommentar
		if r == '-' && lx.peekN(1) == '-' {
			lx.pos += 2
			for lx.pos < len(lx.s) && lx.s[lx.pos] != '\n' {
				lx.pos++
			}
			continue
		}
		// /* block */
		if r == '/' && lx.peekN(1) == '*' {
			lx.pos += 2
			for lx.pos < len(lx.s) {
				if lx.s[lx.pos] == '*' && lx.peekN(1) == '/' {
					lx.pos += 2
					break
				}
				lx.pos++
			}
			continue
		}
		return
	}
}

func (lx *lexer) nextToken() token {
	lx.skipWS()
	start := lx.pos
	if start >= len(lx.s) {
		return token{Typ: tEOF, Pos: start}
	}
	r := lx.peek()

	if r == '\'' {
		return lx.tokenizeString(start)
	}
	// double-quoted identifiers (SQL-style) -> treat as identifier preserving case
	if r == '"' {
		return lx.tokenizeQuotedIdent(start)
	}
	// positional placeholders ($1, $2, ...); the whole token including the
	// marker rune is preserved so diagnostics can echo it verbatim
	if r == '$' {
		return lx.tokenizePlaceholder(start)
	}
	if unicode.IsDigit(r) {
		return lx.tokenizeNumber(start)
	}
	if unicode.IsLetter(r) || r == '_' {
		return lx.tokenizeIdentOrKeyword(start)
	}
	return lx.tokenizeSymbol(start)
}

// tokenizeString handles single-quoted string literals with '' escapes.
func (lx *lexer) tokenizeString(start int) token {
	lx.next() // consume opening quote
	var val strings.Builder
	for lx.pos < len(lx.s) {
		ch := lx.next()
		if ch == '\'' {
			if lx.peek() == '\'' {
				lx.next()
				val.WriteRune('\'')
				continue
			}
			break
		}
		val.WriteRune(ch)
	}
	return token{Typ: tString, Val: val.String(), Pos: start}
}

// tokenizeQuotedIdent handles SQL-style double-quoted identifiers.
// It preserves case and allows embedded double-quotes escaped by doubling ("").
func (lx *lexer) tokenizeQuotedIdent(start int) token {
	lx.next() // consume opening double-quote
	var val strings.Builder
	for lx.pos < len(lx.s) {
		ch := lx.next()
		if ch == '"' {
			if lx.peek() == '"' {
				lx.next()
				val.WriteRune('"')
				continue
			}
			break
		}
		val.WriteRune(ch)
	}
	return token{Typ: tIdent, Val: val.String(), Pos: start}
}

// tokenizePlaceholder consumes '$' plus any following word characters. The
// suffix is not validated here; a non-numeric suffix still forms a
// placeholder token and is rejected later during resolution.
func (lx *lexer) tokenizePlaceholder(start int) token {
	var val strings.Builder
	val.WriteRune(lx.next())
	for lx.pos < len(lx.s) {
		ch := lx.peek()
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			val.WriteRune(ch)
			lx.pos++
		} else {
			break
		}
	}
	return token{Typ: tPlaceholder, Val: val.String(), Pos: start}
}

// tokenizeNumber handles numeric literals with at most one decimal point.
func (lx *lexer) tokenizeNumber(start int) token {
	var val strings.Builder
	dot := false
	for lx.pos < len(lx.s) {
		ch := lx.peek()
		if unicode.IsDigit(ch) || (!dot && ch == '.') {
			if ch == '.' {
				dot = true
			}
			val.WriteRune(ch)
			lx.pos++
		} else {
			break
		}
	}
	return token{Typ: tNumber, Val: val.String(), Pos: start}
}

// tokenizeIdentOrKeyword handles identifiers, uppercasing keywords.
func (lx *lexer) tokenizeIdentOrKeyword(start int) token {
	var val strings.Builder
	for lx.pos < len(lx.s) {
		ch := lx.peek()
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '.' {
			val.WriteRune(ch)
			lx.pos++
		} else {
			break
		}
	}
	up := upper(val.String())
	if isKeyword(up) {
		return token{Typ: tKeyword, Val: up, Pos: start}
	}
	return token{Typ: tIdent, Val: val.String(), Pos: start}
}

// tokenizeSymbol handles symbols and multi-rune comparison operators.
func (lx *lexer) tokenizeSymbol(start int) token {
	r := lx.peek()
	switch r {
	case '(', ')', '[', ']', ',', '*', '+', '-', '/', '.', ';', '?':
		lx.next()
		return token{Typ: tSymbol, Val: string(r), Pos: start}
	case '=', '<', '>', '!':
		a := lx.next()
		b := lx.peek()
		if (a == '<' && (b == '=' || b == '>')) || (a == '>' && b == '=') || (a == '!' && b == '=') {
			lx.next()
			return token{Typ: tSymbol, Val: string(a) + string(b), Pos: start}
		}
		return token{Typ: tSymbol, Val: string(a), Pos: start}
	default:
		lx.next()
		return token{Typ: tSymbol, Val: string(r), Pos: start}
	}
}

func upper(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if 'a' <= r && r <= 'z' {
			out = append(out, r-32)
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}

func isKeyword(up string) bool {
	switch up {
	case "SELECT", "DISTINCT", "FROM", "WHERE", "GROUP", "BY", "HAVING",
		"ORDER", "ASC", "DESC", "LIMIT", "OFFSET",
		"CASE", "WHEN", "THEN", "ELSE", "END",
		"JOIN", "INNER", "LEFT", "RIGHT", "OUTER", "ON", "AS",
		"UNION", "ALL", "EXCEPT", "INTERSECT", "WITH", "RECURSIVE",
		"CREATE", "TABLE", "TEMP", "TEMPORARY", "DROP",
		"INSERT", "INTO", "VALUES", "DEFAULT",
		"UPDATE", "SET", "DELETE",
		"AND", "OR", "NOT", "IS", "NULL", "TRUE", "FALSE",
		"IN", "BETWEEN", "LIKE", "ILIKE", "ESCAPE", "EXISTS",
		"INTERVAL", "ARRAY", "MAP", "DATE", "DATETIME", "EXPLAIN",
		"YEAR", "MONTH", "DAY", "HOUR", "MINUTE", "SECOND":
		return true
	default:
		return false
	}
}
