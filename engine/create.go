package engine

import (
	"context"

	"github.com/SamsonMokaya/pesapal-challenge/ast"
	"github.com/SamsonMokaya/pesapal-challenge/dberr"
	"github.com/SamsonMokaya/pesapal-challenge/index"
	"github.com/SamsonMokaya/pesapal-challenge/schema"
	"github.com/SamsonMokaya/pesapal-challenge/storage"
)

// CreateTable creates an empty table with indexes for every declared
// index descriptor. It fails if a table with this name already exists
// or the schema is invalid.
func (e *Engine) CreateTable(ctx context.Context, stmt *ast.CreateTableStmt) error {
	done := e.logOp(ctx, "CREATE TABLE", stmt.Table)

	exists, err := e.store.Exists(stmt.Table)
	if err != nil {
		err = dberr.Wrap(dberr.Storage, err, "checking table %q", stmt.Table)
		done(err)
		return err
	}
	if exists {
		err = dberr.New(dberr.Schema, "table %q already exists", stmt.Table)
		done(err)
		return err
	}

	sch, err := schema.New(stmt.Table, stmt.Columns)
	if err != nil {
		done(err)
		return err
	}

	snap := storage.Snapshot{
		Schema:  sch,
		Rows:    []index.Row{},
		Indexes: buildIndexes(sch, nil),
	}
	if err := e.store.Create(stmt.Table, snap); err != nil {
		err = dberr.Wrap(dberr.Storage, err, "creating table %q", stmt.Table)
		done(err)
		return err
	}
	done(nil)
	return nil
}
