package engine

import (
	"context"

	"github.com/SamsonMokaya/pesapal-challenge/ast"
	"github.com/SamsonMokaya/pesapal-challenge/dberr"
)

// Delete removes every row of stmt.Table matching stmt.Where,
// returning the number of rows removed.
//
// Before any state changes, every other table's schema is scanned for
// foreign keys referencing stmt.Table. If a RESTRICT foreign key still
// has at least one row pointing at a row about to be removed, the
// whole DELETE fails and nothing changes. A CASCADE foreign key
// instead recursively deletes the referencing rows first, following
// the FK graph to whatever depth it reaches, guarded against cycles by
// the configured fk_cycle_policy.
func (e *Engine) Delete(ctx context.Context, stmt *ast.DeleteStmt) (int, error) {
	done := e.logOp(ctx, "DELETE", stmt.Table)

	snap, err := e.loadTable(stmt.Table)
	if err != nil {
		done(err)
		return 0, err
	}
	sch := snap.Schema

	positions, err := matchPositions(sch, snap.Rows, snap.Indexes, stmt.Where)
	if err != nil {
		done(err)
		return 0, err
	}
	if len(positions) == 0 {
		done(nil)
		return 0, nil
	}

	if sch.PrimaryKey != "" {
		removedPKs := collectColumn(snap.Rows, positions, sch.PrimaryKey)
		if err := e.enforceFKOnRemoval(ctx, stmt.Table, removedPKs, make(map[string]bool)); err != nil {
			done(err)
			return 0, err
		}
	} else if children, cerr := e.referencingChildren(stmt.Table); cerr != nil {
		done(cerr)
		return 0, cerr
	} else if len(children) > 0 {
		err = dberr.New(dberr.Schema, "table %q has no primary key but is referenced by a foreign key", stmt.Table)
		done(err)
		return 0, err
	}

	newRows := removeRows(snap.Rows, positions)
	snap.Rows = newRows
	snap.Indexes = buildIndexes(sch, newRows)

	if err := e.store.Save(stmt.Table, snap); err != nil {
		err = dberr.Wrap(dberr.Storage, err, "saving table %q", stmt.Table)
		done(err)
		return 0, err
	}
	done(nil)
	return len(positions), nil
}
