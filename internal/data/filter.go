// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package data

import (
	"fmt"
	"regexp"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

var celIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var celReserved = map[string]bool{
	"true": true, "false": true, "null": true, "in": true, "as": true,
	"break": true, "const": true, "continue": true, "else": true, "for": true,
	"function": true, "if": true, "import": true, "let": true, "loop": true,
	"package": true, "namespace": true, "return": true, "var": true, "void": true,
	"while": true, "row": true,
}

// Filter keeps the rows for which a CEL expression evaluates to true.
//
// Columns whose names are valid identifiers are bound as variables; every
// column is also reachable through the row map:
//
//	rating >= 3 && row["item_id"] != "B"
type Filter struct {
	Expr string

	program cel.Program
	columns []string
}

// Fit compiles the expression against the columns of f.
func (t *Filter) Fit(f *Frame) error {
	opts := []cel.EnvOption{
		cel.CrossTypeNumericComparisons(true),
		cel.Variable("row", cel.MapType(cel.StringType, cel.DynType)),
	}
	var bound []string
	for _, c := range f.Columns() {
		if celIdent.MatchString(c) && !celReserved[c] {
			opts = append(opts, cel.Variable(c, cel.DynType))
			bound = append(bound, c)
		}
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return fmt.Errorf("filter env: %w", err)
	}
	ast, iss := env.Compile(t.Expr)
	if iss != nil && iss.Err() != nil {
		return fmt.Errorf("compile filter %q: %w", t.Expr, iss.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(types.BoolType) && !out.IsExactType(types.DynType) {
		return fmt.Errorf("filter %q must evaluate to bool, got %s", t.Expr, out)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return fmt.Errorf("filter program: %w", err)
	}
	t.program = prg
	t.columns = bound
	return nil
}

// Transform evaluates the expression per row.
func (t *Filter) Transform(f *Frame) (*Frame, error) {
	if t.program == nil {
		return nil, ErrNotFitted
	}

	var evalErr error
	out := f.Filter(func(i int) bool {
		if evalErr != nil {
			return false
		}
		row := f.Row(i)
		vars := make(map[string]any, len(t.columns)+1)
		vars["row"] = row
		for _, c := range t.columns {
			vars[c] = row[c]
		}
		val, _, err := t.program.Eval(vars)
		if err != nil {
			evalErr = fmt.Errorf("filter row %d: %w", i, err)
			return false
		}
		keep, ok := val.Value().(bool)
		if !ok {
			evalErr = fmt.Errorf("filter row %d: result %v is not bool", i, val.Value())
			return false
		}
		return keep
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return out, nil
}
