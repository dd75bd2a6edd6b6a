// Package sqlbind binds positional placeholders ($1, $2, …) inside parsed
// SQL statements to caller-supplied values, producing a mutated syntax tree
// ready for rendering or execution.
//
// The flow is parse, bind, render:
//
//	stmts, _ := sqlbind.Parse("select $1 px, t.* from test t")
//
//	ps := sqlbind.NewParameterSet()
//	ps.Add(sqlbind.FromInt(123))
//
//	if err := sqlbind.ResolveAll(ps, stmts); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(sqlast.RenderAll(stmts)) // SELECT 123 AS px, t.* FROM test t
//
// Values form a closed union (bool, arbitrary-precision number, string,
// typed string, array, ordered dict, null); every variant converts
// deterministically into exactly one literal node shape. Resolution walks
// statements depth-first in declaration order and stops at the first
// missing placeholder or unsupported construct, leaving earlier rewrites in
// place. Set-operation query bodies (UNION/INTERSECT/EXCEPT) are reported
// as unsupported rather than resolved.
//
// Parsing and rendering live in the sqlast package; the resolver itself
// only pattern-matches the node shapes sqlast defines and can be retargeted
// to any tree exposing equivalent shapes.
package sqlbind

import "github.com/SimonWaldherr/sqlbind/sqlast"

// Parse parses a semicolon-separated SQL script into a statement list using
// the sqlast parser.
func Parse(sql string) ([]sqlast.Statement, error) {
	return sqlast.Parse(sql)
}

// ResolveSQL parses sql, resolves every placeholder against values in order
// ($1 is the first value), and returns the rendered script.
func ResolveSQL(sql string, values ...Value) (string, error) {
	stmts, err := Parse(sql)
	if err != nil {
		return "", err
	}
	if err := ResolveAll(NewParameterSet(values...), stmts); err != nil {
		return "", err
	}
	return sqlast.RenderAll(stmts), nil
}
