// Package ast defines the request tree produced by the parser for the
// engine's restricted SQL-like dialect. The same shapes are also a
// programmatic entry point: callers may construct these values
// directly instead of going through the parser.
package ast

import "github.com/SamsonMokaya/pesapal-challenge/token"

// Statement is any parsed request.
type Statement interface {
	Pos() token.Pos
	stmtNode()
}

// ForeignKeyRef declares a column's reference to another table. The
// textual grammar has no FOREIGN KEY clause; this field is populated
// only by programmatic callers constructing a request tree directly.
type ForeignKeyRef struct {
	ReferencesTable  string
	ReferencesColumn string
	OnDelete         string // "RESTRICT" (default) or "CASCADE"
}

// ColumnDef is one column declaration inside CREATE TABLE.
type ColumnDef struct {
	Name          string
	Type          string // "INT", "TEXT", "BOOL", "FLOAT"
	PrimaryKey    bool
	AutoIncrement bool
	Unique        bool
	ForeignKey    *ForeignKeyRef
}

// CreateTableStmt is CREATE TABLE <name> ( <col_def>, ... ).
type CreateTableStmt struct {
	StmtPos token.Pos
	Table   string
	Columns []ColumnDef
}

func (*CreateTableStmt) stmtNode()        {}
func (s *CreateTableStmt) Pos() token.Pos { return s.StmtPos }

// InsertStmt is INSERT INTO <name> VALUES ( <value>, ... ). Values are
// the raw literals as parsed (nil, bool, int64, float64, or string);
// coercion to the declared column type happens in the executor.
type InsertStmt struct {
	StmtPos token.Pos
	Table   string
	Values  []any
}

func (*InsertStmt) stmtNode()        {}
func (s *InsertStmt) Pos() token.Pos { return s.StmtPos }

// FilterOp is the comparison operator of a WHERE predicate.
type FilterOp int

const (
	OpEq FilterOp = iota
	OpLike
)

// Filter is a single WHERE predicate: <column> = <value> or
// <column> LIKE <pattern>. Column may be qualified (table.column),
// which only makes sense in the presence of joins.
type Filter struct {
	Column string
	Op     FilterOp
	Value  any
}

// JoinClause is one JOIN <table> ON <left>.<col> = <right>.<col> entry.
type JoinClause struct {
	Table       string
	LeftTable   string
	LeftColumn  string
	RightTable  string
	RightColumn string
}

// SelectStmt is SELECT <projection> FROM <name> [JOIN ...]* [WHERE ...].
// Star is true for SELECT * (Columns is then ignored).
type SelectStmt struct {
	StmtPos token.Pos
	Table   string
	Star    bool
	Columns []string
	Joins   []JoinClause
	Where   []Filter
}

func (*SelectStmt) stmtNode()        {}
func (s *SelectStmt) Pos() token.Pos { return s.StmtPos }

// Assignment is one SET <column> = <value> entry of an UPDATE.
type Assignment struct {
	Column string
	Value  any
}

// UpdateStmt is UPDATE <name> SET <assignment>, ... [WHERE ...].
type UpdateStmt struct {
	StmtPos     token.Pos
	Table       string
	Assignments []Assignment
	Where       []Filter
}

func (*UpdateStmt) stmtNode()        {}
func (s *UpdateStmt) Pos() token.Pos { return s.StmtPos }

// DeleteStmt is DELETE FROM <name> [WHERE ...].
type DeleteStmt struct {
	StmtPos token.Pos
	Table   string
	Where   []Filter
}

func (*DeleteStmt) stmtNode()        {}
func (s *DeleteStmt) Pos() token.Pos { return s.StmtPos }

// ListTablesStmt is LIST TABLES.
type ListTablesStmt struct {
	StmtPos token.Pos
}

func (*ListTablesStmt) stmtNode()        {}
func (s *ListTablesStmt) Pos() token.Pos { return s.StmtPos }
