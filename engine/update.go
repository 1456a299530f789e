package engine

import (
	"context"
	"strings"

	"github.com/SamsonMokaya/pesapal-challenge/ast"
	"github.com/SamsonMokaya/pesapal-challenge/dberr"
	"github.com/SamsonMokaya/pesapal-challenge/index"
	"github.com/SamsonMokaya/pesapal-challenge/schema"
	"github.com/SamsonMokaya/pesapal-challenge/value"
)

// Update applies stmt.Assignments to every row of stmt.Table matching
// stmt.Where, returning the number of rows changed. Every candidate
// row is built and validated before anything is written back: if any
// candidate would violate a not-null, primary key, or unique
// constraint, the whole UPDATE fails and no row changes. Indexes are
// then updated incrementally by diffing each changed column's old and
// new value.
//
// When the "strict_fk_on_update" configuration flag is set and the
// assignments include the primary-key column, the matched rows' old
// primary-key values go through the same foreign-key check DELETE
// uses: a RESTRICT reference rejects the UPDATE, and a CASCADE
// reference deletes the referencing child rows (their FK column is not
// rewritten to the new value). The default leaves UPDATE unchecked,
// matching the asymmetry between
// DELETE (always checked) and UPDATE in the system this engine
// replaces.
func (e *Engine) Update(ctx context.Context, stmt *ast.UpdateStmt) (int, error) {
	done := e.logOp(ctx, "UPDATE", stmt.Table)

	snap, err := e.loadTable(stmt.Table)
	if err != nil {
		done(err)
		return 0, err
	}
	sch := snap.Schema

	for _, a := range stmt.Assignments {
		if !sch.HasColumn(a.Column) {
			err = dberr.New(dberr.Schema, "unknown column %q in table %q", a.Column, stmt.Table)
			done(err)
			return 0, err
		}
	}

	positions, err := matchPositions(sch, snap.Rows, snap.Indexes, stmt.Where)
	if err != nil {
		done(err)
		return 0, err
	}
	if len(positions) == 0 {
		done(nil)
		return 0, nil
	}

	changesPK := sch.PrimaryKey != "" && assignsColumn(stmt.Assignments, sch.PrimaryKey)
	if changesPK && e.cfg.Engine.StrictFKOnUpdate {
		oldPKs := collectColumn(snap.Rows, positions, sch.PrimaryKey)
		if err := e.enforceFKOnRemoval(ctx, stmt.Table, oldPKs, make(map[string]bool)); err != nil {
			done(err)
			return 0, err
		}
	}

	candidates := make(map[int]index.Row, len(positions))
	for _, pos := range positions {
		newRow := make(index.Row, len(snap.Rows[pos]))
		for k, v := range snap.Rows[pos] {
			newRow[k] = v
		}
		for _, a := range stmt.Assignments {
			col, _ := sch.Column(a.Column)
			coerced, cerr := value.Coerce(a.Value, col.Type)
			if cerr != nil {
				err = dberr.Wrap(dberr.Type, cerr, "column %q of table %q", a.Column, stmt.Table)
				done(err)
				return 0, err
			}
			if coerced.IsNull() && !col.Nullable {
				err = dberr.New(dberr.Constraint, "column %q of table %q is not nullable", a.Column, stmt.Table)
				done(err)
				return 0, err
			}
			newRow[a.Column] = coerced
		}
		candidates[pos] = newRow
	}

	if err := checkUpdateConstraints(sch, snap.Rows, candidates); err != nil {
		done(err)
		return 0, err
	}

	for pos, newRow := range candidates {
		old := snap.Rows[pos]
		for _, id := range sch.Indexes {
			index.OnUpdate(snap.Indexes[id.Name], old[id.Column], newRow[id.Column], pos)
		}
		snap.Rows[pos] = newRow
	}

	if err := e.store.Save(stmt.Table, snap); err != nil {
		err = dberr.Wrap(dberr.Storage, err, "saving table %q", stmt.Table)
		done(err)
		return 0, err
	}
	done(nil)
	return len(positions), nil
}

func assignsColumn(assignments []ast.Assignment, column string) bool {
	for _, a := range assignments {
		if a.Column == column {
			return true
		}
	}
	return false
}

// checkUpdateConstraints validates primary-key and unique constraints
// against the table's final row set, after candidates are applied over
// rows, rejecting the whole batch on the first conflict found (whether
// against an unchanged row or another candidate in the same UPDATE).
func checkUpdateConstraints(sch *schema.Schema, rows []index.Row, candidates map[int]index.Row) error {
	for _, col := range sch.Columns {
		if !col.Unique {
			continue
		}
		seen := make(map[value.Value]int, len(rows))
		for pos, row := range rows {
			v := row[col.Name]
			if nr, ok := candidates[pos]; ok {
				v = nr[col.Name]
			}
			if v.IsNull() {
				continue
			}
			k := foldKey(v)
			if other, exists := seen[k]; exists && other != pos {
				return dberr.New(dberr.Constraint, "duplicate value %v for unique column %q in table %q", v.Raw(), col.Name, sch.Table)
			}
			seen[k] = pos
		}
	}
	return nil
}

// foldKey normalizes v the same way the Index Manager folds Text keys,
// so unique-constraint re-validation agrees with index lookups.
func foldKey(v value.Value) value.Value {
	if v.Kind == value.Text {
		return value.Value{Kind: value.Text, Str: strings.ToLower(v.Str)}
	}
	return v
}
