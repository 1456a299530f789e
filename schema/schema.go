// Package schema defines a table's column layout, keys, foreign-key
// declarations, index metadata, and auto-increment counter.
package schema

import (
	"fmt"

	"github.com/SamsonMokaya/pesapal-challenge/ast"
	"github.com/SamsonMokaya/pesapal-challenge/dberr"
	"github.com/SamsonMokaya/pesapal-challenge/value"
)

// OnDelete is a foreign key's behavior when its referenced row is
// removed.
type OnDelete int

const (
	Restrict OnDelete = iota
	Cascade
)

func (o OnDelete) String() string {
	if o == Cascade {
		return "CASCADE"
	}
	return "RESTRICT"
}

// ForeignKeyDesc describes one column's reference to another table.
type ForeignKeyDesc struct {
	Column           string
	ReferencesTable  string
	ReferencesColumn string
	OnDelete         OnDelete
}

// Column is one declared column of a table.
type Column struct {
	Name          string
	Type          value.Kind
	Nullable      bool
	Unique        bool
	PrimaryKey    bool
	AutoIncrement bool
	ForeignKey    *ForeignKeyDesc
}

// IndexDesc names one hash index the Index Manager must maintain,
// conventionally "<column>_idx".
type IndexDesc struct {
	Name   string
	Column string
}

// Schema is a table's full declared structure.
type Schema struct {
	Table              string
	Columns            []Column
	PrimaryKey         string // column name, "" if none
	AutoIncrementCol   string // column name, "" if none
	AutoIncrementCount int64
	Indexes            []IndexDesc
	ForeignKeys        []ForeignKeyDesc
}

// Column looks up a column definition by name, reporting whether it
// exists.
func (s *Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the schema's columns in declared (positional)
// order, the order used by INSERT.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether name is a declared column.
func (s *Schema) HasColumn(name string) bool {
	_, ok := s.Column(name)
	return ok
}

// IndexOn returns the index descriptor for column, if one exists.
func (s *Schema) IndexOn(column string) (IndexDesc, bool) {
	for _, idx := range s.Indexes {
		if idx.Column == column {
			return idx, true
		}
	}
	return IndexDesc{}, false
}

// New validates a CREATE TABLE request and builds its Schema.
//
//   - The table must have >=1 column.
//   - Column names must be unique within the table.
//   - At most one primary key; a primary key implies not-null and
//     unique.
//   - AUTO_INCREMENT requires the column to be the primary key and of
//     type INT.
//   - Every unique or primary column gets a hash index descriptor
//     "<col>_idx".
//   - Foreign keys are recorded but never resolved against target
//     tables here; forward references to not-yet-created tables are
//     permitted.
func New(table string, defs []ast.ColumnDef) (*Schema, error) {
	if len(defs) == 0 {
		return nil, dberr.New(dberr.Schema, "table %q must declare at least one column", table)
	}

	s := &Schema{Table: table}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if seen[d.Name] {
			return nil, dberr.New(dberr.Schema, "duplicate column %q in table %q", d.Name, table)
		}
		seen[d.Name] = true

		kind, err := value.ParseKind(d.Type)
		if err != nil {
			return nil, dberr.Wrap(dberr.Schema, err, "column %q of table %q", d.Name, table)
		}

		col := Column{
			Name:          d.Name,
			Type:          kind,
			Nullable:      !d.PrimaryKey,
			Unique:        d.Unique || d.PrimaryKey,
			PrimaryKey:    d.PrimaryKey,
			AutoIncrement: d.AutoIncrement,
		}

		if d.PrimaryKey {
			if s.PrimaryKey != "" {
				return nil, dberr.New(dberr.Schema, "table %q declares more than one PRIMARY KEY", table)
			}
			s.PrimaryKey = d.Name
		}

		if d.AutoIncrement {
			if !d.PrimaryKey {
				return nil, dberr.New(dberr.Schema, "AUTO_INCREMENT column %q must be the PRIMARY KEY", d.Name)
			}
			if kind != value.Int {
				return nil, dberr.New(dberr.Schema, "AUTO_INCREMENT column %q must be of type INT", d.Name)
			}
			s.AutoIncrementCol = d.Name
		}

		if d.ForeignKey != nil {
			onDelete := Restrict
			if d.ForeignKey.OnDelete == "CASCADE" {
				onDelete = Cascade
			}
			fk := ForeignKeyDesc{
				Column:           d.Name,
				ReferencesTable:  d.ForeignKey.ReferencesTable,
				ReferencesColumn: d.ForeignKey.ReferencesColumn,
				OnDelete:         onDelete,
			}
			col.ForeignKey = &fk
			s.ForeignKeys = append(s.ForeignKeys, fk)
		}

		s.Columns = append(s.Columns, col)

		if col.Unique {
			s.Indexes = append(s.Indexes, IndexDesc{Name: fmt.Sprintf("%s_idx", col.Name), Column: col.Name})
		}
	}

	return s, nil
}
