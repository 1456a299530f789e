package engine

import (
	"context"

	"github.com/SamsonMokaya/pesapal-challenge/config"
	"github.com/SamsonMokaya/pesapal-challenge/dberr"
	"github.com/SamsonMokaya/pesapal-challenge/index"
	"github.com/SamsonMokaya/pesapal-challenge/schema"
	"github.com/SamsonMokaya/pesapal-challenge/value"
)

// childRef is one other table's foreign key column pointing back at a
// parent table.
type childRef struct {
	Table string
	FK    schema.ForeignKeyDesc
}

// referencingChildren scans every other table's schema for foreign
// keys that reference table.
func (e *Engine) referencingChildren(table string) ([]childRef, error) {
	names, err := e.store.List()
	if err != nil {
		return nil, dberr.Wrap(dberr.Storage, err, "listing tables")
	}
	var out []childRef
	for _, name := range names {
		if name == table {
			continue
		}
		snap, err := e.loadTable(name)
		if err != nil {
			return nil, err
		}
		for _, fk := range snap.Schema.ForeignKeys {
			if fk.ReferencesTable == table {
				out = append(out, childRef{Table: name, FK: fk})
			}
		}
	}
	return out, nil
}

// cycleKey identifies one (table, primary-key) pair for the cascade
// visited set.
func cycleKey(table string, pk value.Value) string {
	return table + "\x00" + pk.String()
}

// filterUnvisited applies the configured FK cycle policy to the
// (table, pk) pairs about to be cascaded into: dedup drops pairs
// already visited earlier in this cascade, error fails the whole
// operation on first re-entry.
func filterUnvisited(visited map[string]bool, table string, pks []value.Value, policy config.FKCyclePolicy) ([]value.Value, error) {
	out := make([]value.Value, 0, len(pks))
	for _, pk := range pks {
		k := cycleKey(table, pk)
		if visited[k] {
			if policy == config.FKCycleError {
				return nil, dberr.New(dberr.Referential, "cyclic foreign key cascade re-enters table %q at primary key %v", table, pk.Raw())
			}
			continue
		}
		visited[k] = true
		out = append(out, pk)
	}
	return out, nil
}

// matchingPositions returns the positions of rows whose column holds
// one of targets. A Null column value never matches.
func matchingPositions(rows []index.Row, column string, targets []value.Value) []int {
	var out []int
	for pos, row := range rows {
		v, ok := row[column]
		if !ok || v.IsNull() {
			continue
		}
		for _, t := range targets {
			if v.Equal(t) {
				out = append(out, pos)
				break
			}
		}
	}
	return out
}

// collectColumn extracts column's value at each of positions.
func collectColumn(rows []index.Row, positions []int, column string) []value.Value {
	out := make([]value.Value, 0, len(positions))
	for _, pos := range positions {
		if v, ok := rows[pos][column]; ok && !v.IsNull() {
			out = append(out, v)
		}
	}
	return out
}

// removeRows returns rows with every position in positions dropped,
// preserving the relative order of everything else.
func removeRows(rows []index.Row, positions []int) []index.Row {
	drop := make(map[int]bool, len(positions))
	for _, p := range positions {
		drop[p] = true
	}
	out := make([]index.Row, 0, len(rows)-len(positions))
	for pos, row := range rows {
		if !drop[pos] {
			out = append(out, row)
		}
	}
	return out
}

// enforceFKOnRemoval runs the foreign-key RESTRICT/CASCADE check for
// rows about to disappear from table, identified by the primary-key
// values in removedPKs. RESTRICT fails the whole operation with no
// partial state changes so long as at least one referencing child row
// exists; CASCADE recursively deletes referencing rows and continues
// down the FK graph. The same check is reused by UPDATE when the
// "strict_fk_on_update" config flag is set.
func (e *Engine) enforceFKOnRemoval(ctx context.Context, table string, removedPKs []value.Value, visited map[string]bool) error {
	removedPKs, err := filterUnvisited(visited, table, removedPKs, e.cfg.Engine.FKCyclePolicy)
	if err != nil {
		return err
	}
	if len(removedPKs) == 0 {
		return nil
	}

	children, err := e.referencingChildren(table)
	if err != nil {
		return err
	}

	for _, child := range children {
		snap, err := e.loadTable(child.Table)
		if err != nil {
			return err
		}
		matched := matchingPositions(snap.Rows, child.FK.Column, removedPKs)
		if len(matched) == 0 {
			continue
		}
		if child.FK.OnDelete == schema.Restrict {
			e.log.Restrict(ctx, table, child.Table)
			return dberr.New(dberr.Referential,
				"cannot remove %d row(s) from table %q: referenced by %d row(s) in table %q",
				len(removedPKs), table, len(matched), child.Table)
		}

		childPKs := collectColumn(snap.Rows, matched, snap.Schema.PrimaryKey)

		newRows := removeRows(snap.Rows, matched)
		snap.Rows = newRows
		snap.Indexes = buildIndexes(snap.Schema, newRows)
		if err := e.store.Save(child.Table, snap); err != nil {
			return dberr.Wrap(dberr.Storage, err, "saving table %q", child.Table)
		}
		e.log.Cascade(ctx, child.Table, len(matched))

		if len(childPKs) > 0 {
			if err := e.enforceFKOnRemoval(ctx, child.Table, childPKs, visited); err != nil {
				return err
			}
		}
	}
	return nil
}
