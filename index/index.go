// Package index implements the engine's per-column hash indexes: an
// in-memory map from a scalar Value to the list of row positions that
// hold it.
package index

import (
	"strings"

	"github.com/SamsonMokaya/pesapal-challenge/value"
)

// Index maps an indexed column's value to the 0-based insertion-order
// positions of the rows holding it. Value is used as the map key
// directly (after key, which case-folds Text): every declared scalar
// Kind is a comparable Go struct, so it is always hashable; no value
// in this dialect ever needs a defensive stringify-before-keying
// fallback (that fallback would key on Value.String() instead).
type Index map[value.Value][]int

// Row is the minimal row shape the Index Manager needs: a lookup from
// column name to cell value.
type Row map[string]value.Value

// key normalizes v for use as an index map key. Text keys are folded
// to lower-case so that the index groups values the same way the
// Executor's case-insensitive Text equality does: without this,
// 'a@x' and 'A@X' would occupy different buckets and both the unique
// constraint and index-assisted equality lookups would miss each
// other.
func key(v value.Value) value.Value {
	if v.Kind == value.Text {
		return value.Value{Kind: value.Text, Str: strings.ToLower(v.Str)}
	}
	return v
}

// Build constructs an index from scratch over rows for column: every
// position in the result reflects the row's current value at that
// position. Null values are never indexed.
func Build(rows []Row, column string) Index {
	idx := make(Index)
	for pos, row := range rows {
		v, ok := row[column]
		if !ok || v.IsNull() {
			continue
		}
		k := key(v)
		idx[k] = append(idx[k], pos)
	}
	return idx
}

// OnInsert appends a newly inserted row's position to the index.
// Positions are appended in insertion order, same as the row vector
// itself.
func OnInsert(idx Index, v value.Value, pos int) {
	if v.IsNull() {
		return
	}
	k := key(v)
	idx[k] = append(idx[k], pos)
}

// OnUpdate diffs a single row's old and new value for an indexed
// column at a fixed position, incrementally updating the index
// instead of rebuilding it. A no-op when the value did not change.
func OnUpdate(idx Index, oldVal, newVal value.Value, pos int) {
	if oldVal.Equal(newVal) {
		return
	}
	if !oldVal.IsNull() {
		removePosition(idx, oldVal, pos)
	}
	if !newVal.IsNull() {
		k := key(newVal)
		idx[k] = append(idx[k], pos)
	}
}

func removePosition(idx Index, v value.Value, pos int) {
	k := key(v)
	positions := idx[k]
	for i, p := range positions {
		if p == pos {
			positions = append(positions[:i], positions[i+1:]...)
			break
		}
	}
	if len(positions) == 0 {
		delete(idx, k)
	} else {
		idx[k] = positions
	}
}

// Lookup returns the row positions currently associated with v.
func Lookup(idx Index, v value.Value) []int {
	return idx[key(v)]
}
