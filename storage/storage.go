// Package storage defines the durable per-table blob contract the
// executor consumes. The blob's byte layout is intentionally opaque
// to the engine; this package only fixes the Go-level shape that must
// round-trip losslessly, and the Store interface implementations must
// satisfy.
package storage

import (
	"github.com/SamsonMokaya/pesapal-challenge/index"
	"github.com/SamsonMokaya/pesapal-challenge/schema"
)

// Snapshot is everything a table's blob holds: its schema, its row
// vector in insertion order, and one Index per index descriptor,
// keyed by index name.
type Snapshot struct {
	Schema  *schema.Schema
	Rows    []index.Row
	Indexes map[string]index.Index
}

// Clone returns a deep copy of the copy of fields a caller must not be
// able to mutate through the stored snapshot (the row vector and the
// index maps); the copy is used as the unit of "whole-blob replace"
// writes a conforming Store makes.
func (s Snapshot) Clone() Snapshot {
	rows := make([]index.Row, len(s.Rows))
	for i, r := range s.Rows {
		row := make(index.Row, len(r))
		for k, v := range r {
			row[k] = v
		}
		rows[i] = row
	}
	indexes := make(map[string]index.Index, len(s.Indexes))
	for name, idx := range s.Indexes {
		cp := make(index.Index, len(idx))
		for k, positions := range idx {
			ps := make([]int, len(positions))
			copy(ps, positions)
			cp[k] = ps
		}
		indexes[name] = cp
	}
	return Snapshot{Schema: s.Schema, Rows: rows, Indexes: indexes}
}

// Store is the key/value blob interface the executor consumes: keyed
// by table name, providing existence checks, conflict-checked
// creation, load, whole-blob overwrite, drop, and enumeration.
type Store interface {
	Exists(table string) (bool, error)
	Create(table string, snap Snapshot) error
	Load(table string) (Snapshot, error)
	Save(table string, snap Snapshot) error
	Drop(table string) error
	List() ([]string, error)
}
