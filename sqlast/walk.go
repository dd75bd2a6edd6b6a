package sqlast

// VisitStatements walks a statement list in declaration order, calling fn on
// each statement before descending into statement-valued children. EXPLAIN
// bodies and CTE queries are exposed as statement-level nodes, so a visitor
// sees nested statements other traversals would miss. The walk stops at the
// first error fn returns and hands it back to the caller.
func VisitStatements(stmts []Statement, fn func(Statement) error) error {
	for _, s := range stmts {
		if err := visitStatement(s, fn); err != nil {
			return err
		}
	}
	return nil
}

func visitStatement(s Statement, fn func(Statement) error) error {
	if err := fn(s); err != nil {
		return err
	}
	switch st := s.(type) {
	case *Explain:
		return visitStatement(st.Stmt, fn)
	case *Query:
		for _, c := range st.CTEs {
			if err := visitStatement(c.Query, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
