package engine

import (
	"context"

	"github.com/SamsonMokaya/pesapal-challenge/ast"
	"github.com/SamsonMokaya/pesapal-challenge/dberr"
	"github.com/SamsonMokaya/pesapal-challenge/parser"
)

// Result is the outcome of one dispatched request: Rows is populated
// for SELECT and LIST TABLES, Affected for INSERT (always 1), UPDATE,
// and DELETE.
type Result struct {
	Rows     []Row
	Affected int
}

// Execute parses text as one statement of the accepted dialect and
// dispatches it to the matching Engine method. It is the text-driven
// counterpart to Dispatch, which accepts an already-built
// ast.Statement from a programmatic caller whose shape mirrors the
// parser's own output tree.
func (e *Engine) Execute(ctx context.Context, text string) (Result, error) {
	stmt, err := parser.Parse(text)
	if err != nil {
		return Result{}, err
	}
	return e.Dispatch(ctx, stmt)
}

// Dispatch runs one already-parsed statement against the engine,
// regardless of whether it came from the parser or was built directly
// by a programmatic caller.
func (e *Engine) Dispatch(ctx context.Context, stmt ast.Statement) (Result, error) {
	switch s := stmt.(type) {
	case *ast.CreateTableStmt:
		err := e.CreateTable(ctx, s)
		return Result{}, err
	case *ast.InsertStmt:
		err := e.Insert(ctx, s)
		if err != nil {
			return Result{}, err
		}
		return Result{Affected: 1}, nil
	case *ast.SelectStmt:
		rows, err := e.Select(ctx, s)
		return Result{Rows: rows}, err
	case *ast.UpdateStmt:
		n, err := e.Update(ctx, s)
		return Result{Affected: n}, err
	case *ast.DeleteStmt:
		n, err := e.Delete(ctx, s)
		return Result{Affected: n}, err
	case *ast.ListTablesStmt:
		names, err := e.ListTables(ctx)
		if err != nil {
			return Result{}, err
		}
		rows := make([]Row, len(names))
		for i, name := range names {
			rows[i] = Row{"table": name}
		}
		return Result{Rows: rows}, nil
	default:
		return Result{}, dberr.New(dberr.Parse, "unsupported statement type %T", stmt)
	}
}
