package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamsonMokaya/pesapal-challenge/ast"
)

func TestParseCreateTable(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE users (
		id INT PRIMARY KEY AUTO_INCREMENT,
		email TEXT UNIQUE,
		bio TEXT
	)`)
	require.NoError(t, err)
	ct, ok := stmt.(*ast.CreateTableStmt)
	require.True(t, ok)
	assert.Equal(t, "users", ct.Table)
	require.Len(t, ct.Columns, 3)
	assert.True(t, ct.Columns[0].PrimaryKey)
	assert.True(t, ct.Columns[0].AutoIncrement)
	assert.True(t, ct.Columns[1].Unique)
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse(`INSERT INTO users VALUES (NULL, 'a@x.com', TRUE)`)
	require.NoError(t, err)
	ins, ok := stmt.(*ast.InsertStmt)
	require.True(t, ok)
	assert.Equal(t, "users", ins.Table)
	require.Len(t, ins.Values, 3)
	assert.Nil(t, ins.Values[0])
	assert.Equal(t, "a@x.com", ins.Values[1])
	assert.Equal(t, true, ins.Values[2])
}

func TestParseSelectWithWhere(t *testing.T) {
	stmt, err := Parse(`SELECT id, email FROM users WHERE email = 'a@x.com'`)
	require.NoError(t, err)
	sel, ok := stmt.(*ast.SelectStmt)
	require.True(t, ok)
	assert.False(t, sel.Star)
	assert.Equal(t, []string{"id", "email"}, sel.Columns)
	require.Len(t, sel.Where, 1)
	assert.Equal(t, ast.OpEq, sel.Where[0].Op)
}

func TestParseSelectStar(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM users`)
	require.NoError(t, err)
	sel := stmt.(*ast.SelectStmt)
	assert.True(t, sel.Star)
}

func TestParseSelectWithJoin(t *testing.T) {
	stmt, err := Parse(`SELECT users.id, posts.title FROM users JOIN posts ON users.id = posts.author_id`)
	require.NoError(t, err)
	sel := stmt.(*ast.SelectStmt)
	require.Len(t, sel.Joins, 1)
	j := sel.Joins[0]
	assert.Equal(t, "posts", j.Table)
	assert.Equal(t, "users", j.LeftTable)
	assert.Equal(t, "id", j.LeftColumn)
	assert.Equal(t, "author_id", j.RightColumn)
}

func TestParseSelectLike(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM users WHERE email LIKE '%@x.com'`)
	require.NoError(t, err)
	sel := stmt.(*ast.SelectStmt)
	require.Len(t, sel.Where, 1)
	assert.Equal(t, ast.OpLike, sel.Where[0].Op)
	assert.Equal(t, "%@x.com", sel.Where[0].Value)
}

func TestParseUpdate(t *testing.T) {
	stmt, err := Parse(`UPDATE users SET bio = 'hi', email = 'b@x.com' WHERE id = 1`)
	require.NoError(t, err)
	upd := stmt.(*ast.UpdateStmt)
	require.Len(t, upd.Assignments, 2)
	assert.Equal(t, "bio", upd.Assignments[0].Column)
}

func TestParseDelete(t *testing.T) {
	stmt, err := Parse(`DELETE FROM users WHERE id = 1`)
	require.NoError(t, err)
	del := stmt.(*ast.DeleteStmt)
	assert.Equal(t, "users", del.Table)
	require.Len(t, del.Where, 1)
}

func TestParseListTables(t *testing.T) {
	stmt, err := Parse(`LIST TABLES`)
	require.NoError(t, err)
	_, ok := stmt.(*ast.ListTablesStmt)
	assert.True(t, ok)
}

func TestParseErrorOnMalformedInput(t *testing.T) {
	_, err := Parse(`SELECT FROM WHERE`)
	assert.Error(t, err)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}
