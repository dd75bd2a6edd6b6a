package sqlast

import (
	"strings"
	"testing"
)

func parseOne(t *testing.T, sql string) Statement {
	t.Helper()
	stmts, err := Parse(sql)
	if err != nil {
		t.Fatalf("parse %q: %v", sql, err)
	}
	if len(stmts) != 1 {
		t.Fatalf("parse %q: %d statements", sql, len(stmts))
	}
	return stmts[0]
}

func TestParseRenderRoundTrip(t *testing.T) {
	cases := []string{
		"SELECT * FROM t",
		"SELECT DISTINCT a, b AS bb, t.* FROM t",
		"SELECT a FROM t u JOIN v w ON u.id = w.id WHERE a > 1",
		"SELECT a FROM t LEFT JOIN u ON t.id = u.id",
		"SELECT a, COUNT(*) FROM t GROUP BY a HAVING COUNT(*) > 2 ORDER BY a DESC LIMIT 5 OFFSET 2",
		"SELECT CASE WHEN a > 1 THEN 'big' ELSE 'small' END FROM t",
		"SELECT CASE a WHEN 1 THEN 'one' END FROM t",
		"SELECT a FROM t WHERE b IN (1, 2, 3)",
		"SELECT a FROM t WHERE b NOT IN (SELECT c FROM u)",
		"SELECT a FROM t WHERE b BETWEEN 1 AND 10",
		"SELECT a FROM t WHERE b NOT LIKE 'x%' ESCAPE '!'",
		"SELECT a FROM t WHERE b ILIKE '%y%'",
		"SELECT a FROM t WHERE b IS NOT NULL",
		"SELECT a FROM t WHERE EXISTS (SELECT 1 FROM u)",
		"SELECT a FROM t WHERE NOT EXISTS (SELECT 1 FROM u)",
		"SELECT ARRAY[1, 2, 3]",
		"SELECT a FROM t WHERE ts < INTERVAL 7 DAY",
		"SELECT a FROM t WHERE x = $1 AND y = $2",
		"SELECT DATE '2024-05-01'",
		"WITH c AS (SELECT a FROM t) SELECT * FROM c",
		"SELECT a FROM t UNION ALL SELECT b FROM u",
		"SELECT a FROM t INTERSECT SELECT b FROM u",
		"VALUES (1, 'a'), (2, 'b')",
		"INSERT INTO t (a, b) VALUES (1, 2)",
		"INSERT INTO t SELECT a, b FROM u",
		"INSERT INTO t DEFAULT VALUES",
		"UPDATE t SET a = 1, b = 'x' WHERE id = 3",
		"UPDATE t SET a = a + 1",
		"DELETE FROM t WHERE id = 3",
		"DELETE FROM t",
		"CREATE TABLE test (x int, y int, title varchar)",
		"CREATE TEMP TABLE c AS SELECT a FROM t",
		"DROP TABLE t",
		"EXPLAIN SELECT a FROM t",
	}
	for _, sql := range cases {
		st := parseOne(t, sql)
		got := Render(st)
		if got != sql {
			t.Fatalf("round trip:\n in   %q\n out  %q", sql, got)
		}
	}
}

func TestParseNormalization(t *testing.T) {
	// keywords are uppercased, aliases keep AS, whitespace is canonical
	cases := []struct{ in, out string }{
		{"select  a px from t", "SELECT a AS px FROM t"},
		{"select a from t where b like 'x'", "SELECT a FROM t WHERE b LIKE 'x'"},
		{"insert into t values(1)", "INSERT INTO t VALUES (1)"},
		{"create table t(x varchar(20), y int)", "CREATE TABLE t (x varchar(20), y int)"},
		{"select 'it''s'", "SELECT 'it''s'"},
		{"select 1.250", "SELECT 1.25"},
	}
	for _, tc := range cases {
		if got := Render(parseOne(t, tc.in)); got != tc.out {
			t.Fatalf("%q:\n got  %q\n want %q", tc.in, got, tc.out)
		}
	}
}

func TestParsePlaceholderToken(t *testing.T) {
	st := parseOne(t, "SELECT $17")
	body := st.(*Query).Body.(*SelectBody)
	ph, ok := body.Projs[0].Expr.(*Placeholder)
	if !ok || ph.Text != "$17" {
		t.Fatalf("placeholder not preserved: %#v", body.Projs[0].Expr)
	}

	// a malformed suffix still lexes as one placeholder token
	st = parseOne(t, "SELECT $1a")
	ph = st.(*Query).Body.(*SelectBody).Projs[0].Expr.(*Placeholder)
	if ph.Text != "$1a" {
		t.Fatalf("got %q", ph.Text)
	}
}

func TestParseComments(t *testing.T) {
	sql := `-- leading comment
SELECT a /* inline */ FROM t`
	if got := Render(parseOne(t, sql)); got != "SELECT a FROM t" {
		t.Fatalf("got %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"SELECT",
		"SELECT a FROM",
		"INSERT t VALUES (1)",
		"UPDATE t SET",
		"DELETE t",
		"CREATE TABLE t",
		"SELECT a WHERE b IS 3",
		"SELECT CASE END",
		"SELECT a FROM t WHERE b NOT 5",
	}
	for _, sql := range cases {
		if _, err := Parse(sql); err == nil {
			t.Fatalf("%q: expected parse error", sql)
		} else if !strings.Contains(err.Error(), "parse error") {
			t.Fatalf("%q: unexpected error text %q", sql, err)
		}
	}
}

func TestParseScript(t *testing.T) {
	stmts, err := Parse("SELECT 1; SELECT 2;\n; SELECT 3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(stmts) != 3 {
		t.Fatalf("got %d statements", len(stmts))
	}
}

func TestNumberLiteralExactness(t *testing.T) {
	lit := NumberLiteral("123456789012345678901234567890.5")
	if RenderExpr(lit) != "123456789012345678901234567890.5" {
		t.Fatalf("got %q", RenderExpr(lit))
	}
	if RenderExpr(NumberLiteral("bogus")) != "0" {
		t.Fatalf("malformed spelling must collapse to zero")
	}
}
