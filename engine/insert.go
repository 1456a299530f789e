package engine

import (
	"context"

	"github.com/SamsonMokaya/pesapal-challenge/ast"
	"github.com/SamsonMokaya/pesapal-challenge/dberr"
	"github.com/SamsonMokaya/pesapal-challenge/index"
	"github.com/SamsonMokaya/pesapal-challenge/schema"
	"github.com/SamsonMokaya/pesapal-challenge/value"
)

// Insert appends one row to table. values is a positional list
// matching column order, or column order minus the auto-increment
// column when the caller omits it entirely.
//
// Preprocessing: an omitted or Null auto-increment value is replaced
// by max(counter, current-max-pk)+1; an explicit value is accepted but
// still checked for uniqueness. Every other value is coerced to its
// column's declared type; Null violates a not-null column.
//
// Constraint checks, in order: primary-key non-null, primary-key
// uniqueness, per-column uniqueness. On success the row is appended,
// the auto-increment counter is raised if the new primary key exceeds
// it, and every index is updated incrementally.
func (e *Engine) Insert(ctx context.Context, stmt *ast.InsertStmt) error {
	done := e.logOp(ctx, "INSERT", stmt.Table)

	snap, err := e.loadTable(stmt.Table)
	if err != nil {
		done(err)
		return err
	}
	sch := snap.Schema

	values := stmt.Values
	if sch.AutoIncrementCol != "" && len(values) == len(sch.Columns)-1 {
		aiPos := columnPosition(sch, sch.AutoIncrementCol)
		values = insertPlaceholder(values, aiPos)
	}
	if len(values) != len(sch.Columns) {
		err = dberr.New(dberr.Schema, "table %q expects %d values, got %d", stmt.Table, len(sch.Columns), len(values))
		done(err)
		return err
	}

	row := make(index.Row, len(sch.Columns))
	for i, col := range sch.Columns {
		raw := values[i]

		if col.Name == sch.AutoIncrementCol && value.IsNullLiteral(raw) {
			next := sch.AutoIncrementCount
			if m := maxColumnValue(snap.Rows, col.Name); m >= next {
				next = m
			}
			next++
			row[col.Name] = value.Value{Kind: value.Int, Int: next}
			continue
		}

		coerced, cerr := value.Coerce(raw, col.Type)
		if cerr != nil {
			cerr = dberr.Wrap(dberr.Type, cerr, "column %q of table %q", col.Name, stmt.Table)
			done(cerr)
			return cerr
		}
		if coerced.IsNull() && !col.Nullable {
			cerr = dberr.New(dberr.Constraint, "column %q of table %q is not nullable", col.Name, stmt.Table)
			done(cerr)
			return cerr
		}
		row[col.Name] = coerced
	}

	if sch.PrimaryKey != "" {
		pkVal := row[sch.PrimaryKey]
		if pkVal.IsNull() {
			err = dberr.New(dberr.Constraint, "primary key %q of table %q cannot be null", sch.PrimaryKey, stmt.Table)
			done(err)
			return err
		}
		if existingPositions(snap.Indexes, sch, sch.PrimaryKey, pkVal) {
			err = dberr.New(dberr.Constraint, "duplicate primary key %v in table %q", pkVal.Raw(), stmt.Table)
			done(err)
			return err
		}
	}

	for _, col := range sch.Columns {
		if !col.Unique || col.Name == sch.PrimaryKey {
			continue
		}
		v := row[col.Name]
		if v.IsNull() {
			continue
		}
		if existingPositions(snap.Indexes, sch, col.Name, v) {
			err = dberr.New(dberr.Constraint, "duplicate value %v for unique column %q in table %q", v.Raw(), col.Name, stmt.Table)
			done(err)
			return err
		}
	}

	pos := len(snap.Rows)
	snap.Rows = append(snap.Rows, row)
	if sch.AutoIncrementCol != "" {
		if pk := row[sch.AutoIncrementCol]; pk.Int > sch.AutoIncrementCount {
			sch.AutoIncrementCount = pk.Int
		}
	}
	for _, id := range sch.Indexes {
		index.OnInsert(snap.Indexes[id.Name], row[id.Column], pos)
	}

	if err := e.store.Save(stmt.Table, snap); err != nil {
		err = dberr.Wrap(dberr.Storage, err, "saving table %q", stmt.Table)
		done(err)
		return err
	}
	done(nil)
	return nil
}

func columnPosition(sch *schema.Schema, name string) int {
	for i, c := range sch.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// insertPlaceholder inserts a nil (NULL literal) value at pos, used
// when the caller omits the auto-increment column entirely.
func insertPlaceholder(values []any, pos int) []any {
	out := make([]any, 0, len(values)+1)
	out = append(out, values[:pos]...)
	out = append(out, nil)
	out = append(out, values[pos:]...)
	return out
}

// existingPositions reports whether v already has at least one row
// position recorded for column's index, i.e. whether inserting v would
// violate uniqueness. Every unique or primary column always has an
// index (schema.New), so this never falls back to a scan.
func existingPositions(indexes map[string]index.Index, sch *schema.Schema, column string, v value.Value) bool {
	id, ok := sch.IndexOn(column)
	if !ok {
		return false
	}
	return len(index.Lookup(indexes[id.Name], v)) > 0
}
