package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamsonMokaya/pesapal-challenge/ast"
	"github.com/SamsonMokaya/pesapal-challenge/config"
	"github.com/SamsonMokaya/pesapal-challenge/storage/memkv"
)

func createUsersAndPostsWithFK(t *testing.T, e *Engine, onDelete string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.CreateTable(ctx, &ast.CreateTableStmt{
		Table: "users",
		Columns: []ast.ColumnDef{
			{Name: "id", Type: "INT", PrimaryKey: true, AutoIncrement: true},
			{Name: "name", Type: "TEXT"},
		},
	}))
	require.NoError(t, e.CreateTable(ctx, &ast.CreateTableStmt{
		Table: "posts",
		Columns: []ast.ColumnDef{
			{Name: "id", Type: "INT", PrimaryKey: true, AutoIncrement: true},
			{Name: "title", Type: "TEXT"},
			{
				Name: "author_id",
				Type: "INT",
				ForeignKey: &ast.ForeignKeyRef{
					ReferencesTable:  "users",
					ReferencesColumn: "id",
					OnDelete:         onDelete,
				},
			},
		},
	}))
	require.NoError(t, e.Insert(ctx, &ast.InsertStmt{Table: "users", Values: []any{"alice"}}))
	require.NoError(t, e.Insert(ctx, &ast.InsertStmt{Table: "posts", Values: []any{"hello", int64(1)}}))
}

func TestDeleteRestrictedByReferencingRow(t *testing.T) {
	e := newTestEngine()
	createUsersAndPostsWithFK(t, e, "RESTRICT")
	ctx := context.Background()

	_, err := e.Delete(ctx, &ast.DeleteStmt{Table: "users", Where: []ast.Filter{
		{Column: "id", Op: ast.OpEq, Value: int64(1)},
	}})
	assert.Error(t, err)

	rows, err := e.Select(ctx, &ast.SelectStmt{Table: "users", Star: true})
	require.NoError(t, err)
	assert.Len(t, rows, 1, "a RESTRICT violation must leave state unchanged")
}

func TestDeleteCascadesToReferencingRows(t *testing.T) {
	e := newTestEngine()
	createUsersAndPostsWithFK(t, e, "CASCADE")
	ctx := context.Background()

	n, err := e.Delete(ctx, &ast.DeleteStmt{Table: "users", Where: []ast.Filter{
		{Column: "id", Op: ast.OpEq, Value: int64(1)},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := e.Select(ctx, &ast.SelectStmt{Table: "posts", Star: true})
	require.NoError(t, err)
	assert.Empty(t, rows, "cascade delete must remove referencing rows too")
}

func TestCascadeStopsOnRepeatedVisitUnderDedupPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.FKCyclePolicy = config.FKCycleDedup
	e := New(memkv.New(), cfg, nil)
	ctx := context.Background()

	require.NoError(t, e.CreateTable(ctx, &ast.CreateTableStmt{
		Table: "a",
		Columns: []ast.ColumnDef{
			{Name: "id", Type: "INT", PrimaryKey: true},
			{Name: "b_id", Type: "INT", ForeignKey: &ast.ForeignKeyRef{ReferencesTable: "b", ReferencesColumn: "id", OnDelete: "CASCADE"}},
		},
	}))
	require.NoError(t, e.CreateTable(ctx, &ast.CreateTableStmt{
		Table: "b",
		Columns: []ast.ColumnDef{
			{Name: "id", Type: "INT", PrimaryKey: true},
			{Name: "a_id", Type: "INT", ForeignKey: &ast.ForeignKeyRef{ReferencesTable: "a", ReferencesColumn: "id", OnDelete: "CASCADE"}},
		},
	}))
	require.NoError(t, e.Insert(ctx, &ast.InsertStmt{Table: "a", Values: []any{int64(1), int64(1)}}))
	require.NoError(t, e.Insert(ctx, &ast.InsertStmt{Table: "b", Values: []any{int64(1), int64(1)}}))

	_, err := e.Delete(ctx, &ast.DeleteStmt{Table: "a", Where: []ast.Filter{
		{Column: "id", Op: ast.OpEq, Value: int64(1)},
	}})
	require.NoError(t, err)
}

func TestStrictFKOnUpdateRejectsChangingReferencedPrimaryKey(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.StrictFKOnUpdate = true
	e := New(memkv.New(), cfg, nil)
	createUsersAndPostsWithFK(t, e, "RESTRICT")
	ctx := context.Background()

	_, err := e.Update(ctx, &ast.UpdateStmt{
		Table:       "users",
		Assignments: []ast.Assignment{{Column: "id", Value: int64(2)}},
		Where:       []ast.Filter{{Column: "id", Op: ast.OpEq, Value: int64(1)}},
	})
	assert.Error(t, err)
}

func TestUpdateOfNonKeyColumnSkipsFKCheck(t *testing.T) {
	e := newTestEngine()
	createUsersAndPostsWithFK(t, e, "RESTRICT")
	ctx := context.Background()

	_, err := e.Update(ctx, &ast.UpdateStmt{
		Table:       "users",
		Assignments: []ast.Assignment{{Column: "name", Value: "alice2"}},
		Where:       []ast.Filter{{Column: "id", Op: ast.OpEq, Value: int64(1)}},
	})
	assert.NoError(t, err, "updating a non-key column must never trigger the FK check")
}
