package engine

import (
	"context"
	"strings"

	"github.com/SamsonMokaya/pesapal-challenge/ast"
	"github.com/SamsonMokaya/pesapal-challenge/dberr"
)

// Select executes a SELECT. Column projection: an empty Columns list
// (or Star) returns every column of the result schema; every named
// column must exist. With joins present, execution defers to the
// nested-loop pipeline in join.go.
func (e *Engine) Select(ctx context.Context, stmt *ast.SelectStmt) ([]Row, error) {
	done := e.logOp(ctx, "SELECT", stmt.Table)

	var (
		rows []Row
		err  error
	)
	if len(stmt.Joins) > 0 {
		rows, err = e.selectJoin(stmt)
	} else {
		rows, err = e.selectSingle(stmt)
	}
	done(err)
	return rows, err
}

func (e *Engine) selectSingle(stmt *ast.SelectStmt) ([]Row, error) {
	snap, err := e.loadTable(stmt.Table)
	if err != nil {
		return nil, err
	}
	sch := snap.Schema

	if !stmt.Star {
		for _, c := range stmt.Columns {
			if !sch.HasColumn(stripQualifier(c, stmt.Table)) {
				return nil, dberr.New(dberr.Schema, "unknown column %q in table %q", c, stmt.Table)
			}
		}
	}

	positions, err := matchPositions(sch, snap.Rows, snap.Indexes, stmt.Where)
	if err != nil {
		return nil, err
	}

	out := make([]Row, 0, len(positions))
	for _, pos := range positions {
		full := rowToResult(snap.Rows[pos])
		if stmt.Star || len(stmt.Columns) == 0 {
			out = append(out, full)
			continue
		}
		projected := make(Row, len(stmt.Columns))
		for _, c := range stmt.Columns {
			bare := stripQualifier(c, stmt.Table)
			projected[bare] = full[bare]
		}
		out = append(out, projected)
	}
	return out, nil
}

// stripQualifier removes a "<table>." prefix from col when it
// qualifies table, leaving unqualified names untouched.
func stripQualifier(col, table string) string {
	prefix := table + "."
	if strings.HasPrefix(col, prefix) {
		return strings.TrimPrefix(col, prefix)
	}
	return col
}
