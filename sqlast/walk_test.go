package sqlast

import (
	"errors"
	"testing"
)

func TestVisitStatementsOrder(t *testing.T) {
	stmts, err := Parse(`
		EXPLAIN SELECT 1;
		WITH a AS (SELECT 2), b AS (SELECT 3) SELECT 4;
		DELETE FROM t`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var seen []string
	err = VisitStatements(stmts, func(s Statement) error {
		switch st := s.(type) {
		case *Explain:
			seen = append(seen, "explain")
		case *Query:
			seen = append(seen, "query:"+Render(st))
		case *Delete:
			seen = append(seen, "delete")
		default:
			seen = append(seen, "other")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("visit: %v", err)
	}

	want := []string{
		"explain",
		"query:SELECT 1",
		"query:WITH a AS (SELECT 2), b AS (SELECT 3) SELECT 4",
		"query:SELECT 2",
		"query:SELECT 3",
		"delete",
	}
	if len(seen) != len(want) {
		t.Fatalf("visited %d nodes, want %d: %v", len(seen), len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("visit %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestVisitStatementsShortCircuit(t *testing.T) {
	stmts, err := Parse("SELECT 1; SELECT 2; SELECT 3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	boom := errors.New("boom")
	count := 0
	err = VisitStatements(stmts, func(s Statement) error {
		count++
		if count == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	if count != 2 {
		t.Fatalf("visited %d statements after failure, want 2", count)
	}
}
