// Package parser implements a recursive descent parser for the
// engine's restricted SQL-like dialect: CREATE TABLE, INSERT, SELECT
// with joins and a single WHERE predicate, UPDATE, DELETE, and LIST
// TABLES.
package parser

import (
	"fmt"
	"strconv"

	"github.com/SamsonMokaya/pesapal-challenge/ast"
	"github.com/SamsonMokaya/pesapal-challenge/lexer"
	"github.com/SamsonMokaya/pesapal-challenge/token"
)

// ParseError is a malformed command: unknown keyword, bad literal, or
// unexpected token.
type ParseError struct {
	Pos     token.Pos
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Parser consumes tokens from a Lexer and builds an ast.Statement.
type Parser struct {
	lexer *lexer.Lexer
	cur   token.Item
	err   *ParseError
}

// New creates a Parser over input.
func New(input string) *Parser {
	p := &Parser{lexer: lexer.New(input)}
	p.advance()
	return p
}

// Parse parses exactly one statement, optionally followed by a single
// trailing ';'.
func Parse(input string) (ast.Statement, error) {
	p := New(input)
	stmt := p.parseStatement()
	if p.err != nil {
		return nil, p.err
	}
	if p.curIs(token.SEMICOLON) {
		p.advance()
	}
	if !p.curIs(token.EOF) {
		p.errorf("unexpected token %s after statement", p.cur.Type)
		return nil, p.err
	}
	return stmt, nil
}

func (p *Parser) advance() {
	p.cur = p.lexer.Next()
}

func (p *Parser) curIs(t token.Token) bool { return p.cur.Type == t }

func (p *Parser) errorf(format string, args ...any) {
	if p.err == nil {
		p.err = &ParseError{Pos: p.cur.Pos, Message: fmt.Sprintf(format, args...)}
	}
}

// expect consumes the current token if it matches t, else records a
// parse error and returns the zero Item.
func (p *Parser) expect(t token.Token) token.Item {
	if p.cur.Type != t {
		p.errorf("expected %s, got %s %q", t, p.cur.Type, p.cur.Value)
		return token.Item{}
	}
	it := p.cur
	p.advance()
	return it
}

func (p *Parser) parseStatement() ast.Statement {
	pos := p.cur.Pos
	switch p.cur.Type {
	case token.CREATE:
		return p.parseCreateTable(pos)
	case token.INSERT:
		return p.parseInsert(pos)
	case token.SELECT:
		return p.parseSelect(pos)
	case token.UPDATE:
		return p.parseUpdate(pos)
	case token.DELETE:
		return p.parseDelete(pos)
	case token.LIST:
		return p.parseListTables(pos)
	default:
		p.errorf("unexpected token %s %q at start of statement", p.cur.Type, p.cur.Value)
		return nil
	}
}

func (p *Parser) parseIdent() string {
	it := p.expect(token.IDENT)
	return it.Value
}

// parseQualifiedIdent parses `ident` or `ident.ident` and returns the
// joined string, preserving qualification for later resolution.
func (p *Parser) parseQualifiedIdent() string {
	first := p.parseIdent()
	if p.curIs(token.DOT) {
		p.advance()
		second := p.parseIdent()
		return first + "." + second
	}
	return first
}

func (p *Parser) parseCreateTable(pos token.Pos) ast.Statement {
	p.expect(token.CREATE)
	p.expect(token.TABLE)
	name := p.parseIdent()
	p.expect(token.LPAREN)
	var cols []ast.ColumnDef
	for {
		cols = append(cols, p.parseColumnDef())
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	if p.err != nil {
		return nil
	}
	return &ast.CreateTableStmt{StmtPos: pos, Table: name, Columns: cols}
}

func (p *Parser) parseColumnDef() ast.ColumnDef {
	col := ast.ColumnDef{Name: p.parseIdent()}
	switch p.cur.Type {
	case token.INTTYPE:
		col.Type = "INT"
	case token.TEXTTYPE:
		col.Type = "TEXT"
	case token.BOOLTYPE:
		col.Type = "BOOL"
	case token.FLOATTYPE:
		col.Type = "FLOAT"
	default:
		p.errorf("expected column type, got %s %q", p.cur.Type, p.cur.Value)
		return col
	}
	p.advance()
	for {
		switch p.cur.Type {
		case token.PRIMARY:
			p.advance()
			p.expect(token.KEY)
			col.PrimaryKey = true
			continue
		case token.AUTOINCREMENT:
			p.advance()
			col.AutoIncrement = true
			continue
		case token.UNIQUE:
			p.advance()
			col.Unique = true
			continue
		}
		break
	}
	return col
}

func (p *Parser) parseInsert(pos token.Pos) ast.Statement {
	p.expect(token.INSERT)
	p.expect(token.INTO)
	name := p.parseIdent()
	p.expect(token.VALUES)
	p.expect(token.LPAREN)
	var values []any
	if !p.curIs(token.RPAREN) {
		for {
			values = append(values, p.parseValue())
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RPAREN)
	if p.err != nil {
		return nil
	}
	return &ast.InsertStmt{StmtPos: pos, Table: name, Values: values}
}

// parseValue parses a literal value: NULL, TRUE/FALSE, an integer, a
// decimal, a quoted string, or a bare unquoted identifier falling
// back to a string literal.
func (p *Parser) parseValue() any {
	switch p.cur.Type {
	case token.NULLKW:
		p.advance()
		return nil
	case token.TRUEKW:
		p.advance()
		return true
	case token.FALSEKW:
		p.advance()
		return false
	case token.INTLIT:
		v := p.cur.Value
		p.advance()
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			p.errorf("invalid integer literal %q", v)
			return nil
		}
		return n
	case token.FLOATLIT:
		v := p.cur.Value
		p.advance()
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.errorf("invalid float literal %q", v)
			return nil
		}
		return f
	case token.STRING:
		v := p.cur.Value
		p.advance()
		return v
	case token.IDENT:
		// Bare unquoted token in value position: string literal fallback.
		v := p.cur.Value
		p.advance()
		return v
	default:
		p.errorf("unexpected token %s %q in value position", p.cur.Type, p.cur.Value)
		return nil
	}
}

func (p *Parser) parseSelect(pos token.Pos) ast.Statement {
	p.expect(token.SELECT)
	stmt := &ast.SelectStmt{StmtPos: pos}
	if p.curIs(token.ASTERISK) {
		p.advance()
		stmt.Star = true
	} else {
		for {
			stmt.Columns = append(stmt.Columns, p.parseQualifiedIdent())
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.FROM)
	stmt.Table = p.parseIdent()
	for p.curIs(token.JOIN) {
		stmt.Joins = append(stmt.Joins, p.parseJoin())
	}
	if p.curIs(token.WHERE) {
		p.advance()
		stmt.Where = []ast.Filter{p.parseFilter()}
	}
	if p.err != nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseJoin() ast.JoinClause {
	p.expect(token.JOIN)
	table := p.parseIdent()
	p.expect(token.ON)
	leftTable := p.parseIdent()
	p.expect(token.DOT)
	leftCol := p.parseIdent()
	p.expect(token.EQ)
	rightTable := p.parseIdent()
	p.expect(token.DOT)
	rightCol := p.parseIdent()
	return ast.JoinClause{
		Table:       table,
		LeftTable:   leftTable,
		LeftColumn:  leftCol,
		RightTable:  rightTable,
		RightColumn: rightCol,
	}
}

func (p *Parser) parseFilter() ast.Filter {
	col := p.parseQualifiedIdent()
	switch p.cur.Type {
	case token.EQ:
		p.advance()
		return ast.Filter{Column: col, Op: ast.OpEq, Value: p.parseValue()}
	case token.LIKE:
		p.advance()
		v := p.expect(token.STRING)
		return ast.Filter{Column: col, Op: ast.OpLike, Value: v.Value}
	default:
		p.errorf("expected = or LIKE, got %s %q", p.cur.Type, p.cur.Value)
		return ast.Filter{Column: col}
	}
}

func (p *Parser) parseUpdate(pos token.Pos) ast.Statement {
	p.expect(token.UPDATE)
	stmt := &ast.UpdateStmt{StmtPos: pos, Table: p.parseIdent()}
	p.expect(token.SET)
	for {
		col := p.parseIdent()
		p.expect(token.EQ)
		stmt.Assignments = append(stmt.Assignments, ast.Assignment{Column: col, Value: p.parseValue()})
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if p.curIs(token.WHERE) {
		p.advance()
		stmt.Where = []ast.Filter{p.parseFilter()}
	}
	if p.err != nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseDelete(pos token.Pos) ast.Statement {
	p.expect(token.DELETE)
	p.expect(token.FROM)
	stmt := &ast.DeleteStmt{StmtPos: pos, Table: p.parseIdent()}
	if p.curIs(token.WHERE) {
		p.advance()
		stmt.Where = []ast.Filter{p.parseFilter()}
	}
	if p.err != nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseListTables(pos token.Pos) ast.Statement {
	p.expect(token.LIST)
	p.expect(token.TABLES)
	if p.err != nil {
		return nil
	}
	return &ast.ListTablesStmt{StmtPos: pos}
}
