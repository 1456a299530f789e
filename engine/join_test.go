package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamsonMokaya/pesapal-challenge/ast"
)

func createUsersAndPosts(t *testing.T, e *Engine) {
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
			{Name: "author_id", Type: "INT"},
		},
	}))
	require.NoError(t, e.Insert(ctx, &ast.InsertStmt{Table: "users", Values: []any{"alice"}}))
	require.NoError(t, e.Insert(ctx, &ast.InsertStmt{Table: "users", Values: []any{"bob"}}))
	require.NoError(t, e.Insert(ctx, &ast.InsertStmt{Table: "posts", Values: []any{"hello", int64(1)}}))
	require.NoError(t, e.Insert(ctx, &ast.InsertStmt{Table: "posts", Values: []any{"world", int64(1)}}))
	require.NoError(t, e.Insert(ctx, &ast.InsertStmt{Table: "posts", Values: []any{"orphaned", nil}}))
}

func TestSelectJoinQualifiesAndProjectsExplicitColumns(t *testing.T) {
	e := newTestEngine()
	createUsersAndPosts(t, e)
	ctx := context.Background()

	rows, err := e.Select(ctx, &ast.SelectStmt{
		Table:   "users",
		Columns: []string{"users.name", "posts.title"},
		Joins: []ast.JoinClause{
			{Table: "posts", LeftTable: "users", LeftColumn: "id", RightTable: "posts", RightColumn: "author_id"},
		},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2, "only posts with a non-null matching author_id join")

	titles := []string{rows[0]["posts.title"].(string), rows[1]["posts.title"].(string)}
	assert.ElementsMatch(t, []string{"hello", "world"}, titles)
	for _, r := range rows {
		assert.Equal(t, "alice", r["users.name"])
	}
}

func TestSelectJoinNullNeverMatches(t *testing.T) {
	e := newTestEngine()
	createUsersAndPosts(t, e)
	ctx := context.Background()

	rows, err := e.Select(ctx, &ast.SelectStmt{
		Table: "users",
		Star:  true,
		Joins: []ast.JoinClause{
			{Table: "posts", LeftTable: "users", LeftColumn: "id", RightTable: "posts", RightColumn: "author_id"},
		},
	})
	require.NoError(t, err)
	for _, r := range rows {
		assert.NotEqual(t, "orphaned", r["title"])
	}
}

func TestSelectJoinStarSimplifiesUnambiguousNames(t *testing.T) {
	e := newTestEngine()
	createUsersAndPosts(t, e)
	ctx := context.Background()

	rows, err := e.Select(ctx, &ast.SelectStmt{
		Table: "users",
		Star:  true,
		Joins: []ast.JoinClause{
			{Table: "posts", LeftTable: "users", LeftColumn: "id", RightTable: "posts", RightColumn: "author_id"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	// "name" and "title" are unique across users/posts; "id" is declared
	// by both and must stay qualified.
	_, hasUnqualifiedName := rows[0]["name"]
	_, hasUnqualifiedTitle := rows[0]["title"]
	_, hasQualifiedUsersID := rows[0]["users.id"]
	_, hasQualifiedPostsID := rows[0]["posts.id"]
	assert.True(t, hasUnqualifiedName)
	assert.True(t, hasUnqualifiedTitle)
	assert.True(t, hasQualifiedUsersID)
	assert.True(t, hasQualifiedPostsID)
}

func TestSelectJoinWhereResolvesUnqualifiedToFirstDeclaringTable(t *testing.T) {
	e := newTestEngine()
	createUsersAndPosts(t, e)
	ctx := context.Background()

	rows, err := e.Select(ctx, &ast.SelectStmt{
		Table: "users",
		Star:  true,
		Joins: []ast.JoinClause{
			{Table: "posts", LeftTable: "users", LeftColumn: "id", RightTable: "posts", RightColumn: "author_id"},
		},
		Where: []ast.Filter{{Column: "name", Op: ast.OpEq, Value: "alice"}},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
