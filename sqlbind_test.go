package sqlbind_test

import (
	"database/sql"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	sqlbind "github.com/SimonWaldherr/sqlbind"
	"github.com/SimonWaldherr/sqlbind/sqlast"
)

const demoScript = `create table test(x int, y int, title varchar);
insert into test (x, y, title) values($1, $2, $3);
select $1 px, t.* from test t;`

func demoParams() *sqlbind.ParameterSet {
	ps := sqlbind.NewParameterSet()
	ps.Add(sqlbind.FromInt(123))
	ps.Add(sqlbind.FromInt(456))
	ps.Add(sqlbind.FromString("Hell!"))
	return ps
}

func TestResolveScript(t *testing.T) {
	stmts, err := sqlbind.Parse(demoScript)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(stmts) != 3 {
		t.Fatalf("parsed %d statements, want 3", len(stmts))
	}
	if err := sqlbind.ResolveAll(demoParams(), stmts); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if got := sqlast.Render(stmts[1]); got != "INSERT INTO test (x, y, title) VALUES (123, 456, 'Hell!')" {
		t.Fatalf("insert rendered as %q", got)
	}
	if got := sqlast.Render(stmts[2]); got != "SELECT 123 AS px, t.* FROM test t" {
		t.Fatalf("select rendered as %q", got)
	}
}

func TestResolveSQL(t *testing.T) {
	out, err := sqlbind.ResolveSQL("select title from test where x = $1 and title like $2",
		sqlbind.FromInt(123), sqlbind.FromString("H%"))
	if err != nil {
		t.Fatalf("ResolveSQL: %v", err)
	}
	if out != "SELECT title FROM test WHERE x = 123 AND title LIKE 'H%'" {
		t.Fatalf("got %q", out)
	}

	if _, err := sqlbind.ResolveSQL("select $2", sqlbind.FromInt(1)); err == nil {
		t.Fatalf("expected error for unbound placeholder")
	}
}

// TestExecuteResolvedScript runs the resolved statements against an
// in-memory SQLite database to prove the rendered output is executable SQL.
func TestExecuteResolvedScript(t *testing.T) {
	stmts, err := sqlbind.Parse(demoScript)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := sqlbind.ResolveAll(demoParams(), stmts); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	for _, st := range stmts[:2] {
		if _, err := db.Exec(sqlast.Render(st)); err != nil {
			t.Fatalf("exec %q: %v", sqlast.Render(st), err)
		}
	}

	rows, err := db.Query(sqlast.Render(stmts[2]))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	if !rows.Next() {
		t.Fatalf("no rows returned")
	}
	var px, x, y int
	var title string
	if err := rows.Scan(&px, &x, &y, &title); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if px != 123 || x != 123 || y != 456 || title != "Hell!" {
		t.Fatalf("row = (%d, %d, %d, %q)", px, x, y, title)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}

	// a second batch with the same set, this time filtering via placeholders
	q, err := sqlbind.ResolveSQL("select count(*) from test where x = $1 and title = $3",
		sqlbind.FromInt(123), sqlbind.FromInt(456), sqlbind.FromString("Hell!"))
	if err != nil {
		t.Fatalf("resolve filter: %v", err)
	}
	var n int
	if err := db.QueryRow(q).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestWireDocumentEndToEnd(t *testing.T) {
	ps, err := sqlbind.DecodeValues([]byte(`[
		{"type": "number", "value": "123"},
		{"type": "number", "value": "456"},
		{"type": "string", "value": "Hell!"}
	]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	stmts, err := sqlbind.Parse(demoScript)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := sqlbind.ResolveAll(ps, stmts); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := sqlast.RenderAll(stmts); strings.Contains(got, "$") {
		t.Fatalf("unresolved placeholder in %q", got)
	}
}
