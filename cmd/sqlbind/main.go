// Command sqlbind resolves positional placeholders in a SQL script from the
// command line.
//
// Usage:
//
//	sqlbind -params '[{"type":"number","value":"123"}]' "select * from t where id = $1"
//	cat script.sql | sqlbind -params-file values.json
//
// The resolved script is printed to stdout; parse and resolution failures go
// to stderr with a non-zero exit code.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	sqlbind "github.com/SimonWaldherr/sqlbind"
	"github.com/SimonWaldherr/sqlbind/sqlast"
)

var (
	flagParams     = flag.String("params", "", "JSON array of tagged parameter values")
	flagParamsFile = flag.String("params-file", "", "file containing the JSON parameter document")
	flagFile       = flag.String("f", "", "read the SQL script from this file instead of arguments/stdin")
	flagVerbose    = flag.Bool("v", false, "report skipped node shapes on stderr")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "sqlbind:", err)
		os.Exit(1)
	}
}

func run() error {
	sql, err := readScript()
	if err != nil {
		return err
	}
	doc, err := readParams()
	if err != nil {
		return err
	}

	params := sqlbind.NewParameterSet()
	if len(doc) > 0 {
		params, err = sqlbind.DecodeValues(doc)
		if err != nil {
			return err
		}
	}

	stmts, err := sqlbind.Parse(sql)
	if err != nil {
		return err
	}
	r := sqlbind.NewResolver(params)
	if *flagVerbose {
		r.OnSkip = func(node any) {
			fmt.Fprintf(os.Stderr, "sqlbind: skipped %T\n", node)
		}
	}
	if err := r.ResolveAll(stmts); err != nil {
		return err
	}
	fmt.Println(sqlast.RenderAll(stmts) + ";")
	return nil
}

func readScript() (string, error) {
	if *flagFile != "" {
		data, err := os.ReadFile(*flagFile)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if args := flag.Args(); len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no SQL given (argument, -f or stdin)")
	}
	return string(data), nil
}

func readParams() ([]byte, error) {
	if *flagParams != "" && *flagParamsFile != "" {
		return nil, fmt.Errorf("-params and -params-file are mutually exclusive")
	}
	if *flagParams != "" {
		return []byte(*flagParams), nil
	}
	if *flagParamsFile != "" {
		return os.ReadFile(*flagParamsFile)
	}
	return nil, nil
}
