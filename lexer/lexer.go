// Package lexer provides a hand-rolled scanner for the engine's
// restricted SQL-like dialect.
package lexer

import (
	"strings"

	"github.com/SamsonMokaya/pesapal-challenge/token"
)

// Lexer tokenizes a command string one item at a time.
type Lexer struct {
	input   string
	start   int // start offset of the token being scanned
	pos     int // current scan offset
	line    int
	linePos int // offset of the start of the current line
	item    token.Item
	peeked  bool
}

// New creates a Lexer over input.
func New(input string) *Lexer {
	return &Lexer{input: input, line: 1}
}

// Next consumes and returns the next token.
func (l *Lexer) Next() token.Item {
	if l.peeked {
		l.peeked = false
		return l.item
	}
	l.item = l.scan()
	return l.item
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() token.Item {
	if !l.peeked {
		l.item = l.scan()
		l.peeked = true
	}
	return l.item
}

func (l *Lexer) scan() token.Item {
	l.skipWhitespace()
	l.start = l.pos

	if l.pos >= len(l.input) {
		return l.makeItem(token.EOF, "")
	}

	ch := l.input[l.pos]
	switch {
	case ch == '(':
		l.pos++
		return l.makeItem(token.LPAREN, "(")
	case ch == ')':
		l.pos++
		return l.makeItem(token.RPAREN, ")")
	case ch == ',':
		l.pos++
		return l.makeItem(token.COMMA, ",")
	case ch == ';':
		l.pos++
		return l.makeItem(token.SEMICOLON, ";")
	case ch == '*':
		l.pos++
		return l.makeItem(token.ASTERISK, "*")
	case ch == '=':
		l.pos++
		return l.makeItem(token.EQ, "=")
	case ch == '.':
		if l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1]) {
			return l.scanNumber()
		}
		l.pos++
		return l.makeItem(token.DOT, ".")
	case ch == '\'':
		return l.scanString('\'')
	case ch == '"':
		return l.scanString('"')
	case isIdentStart(ch):
		return l.scanIdent()
	case isDigit(ch):
		return l.scanNumber()
	default:
		l.pos++
		return l.makeItem(token.ILLEGAL, string(ch))
	}
}

func (l *Lexer) makeItem(typ token.Token, val string) token.Item {
	return token.Item{
		Type:  typ,
		Value: val,
		Pos: token.Pos{
			Offset: l.start,
			Line:   l.line,
			Column: l.start - l.linePos + 1,
		},
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
		case '\n':
			l.pos++
			l.line++
			l.linePos = l.pos
		default:
			return
		}
	}
}

func (l *Lexer) scanIdent() token.Item {
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	val := l.input[l.start:l.pos]
	tok := token.LookupIdent(strings.ToLower(val))
	return l.makeItem(tok, val)
}

func (l *Lexer) scanNumber() token.Item {
	tok := token.INTLIT
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1]) {
		tok = token.FLOATLIT
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	return l.makeItem(tok, l.input[l.start:l.pos])
}

// scanString reads a quoted string literal delimited by quote, honoring
// a backslash escape for the enclosing quote character.
func (l *Lexer) scanString(quote byte) token.Item {
	l.pos++ // consume opening quote
	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) && l.input[l.pos+1] == quote {
			sb.WriteByte(quote)
			l.pos += 2
			continue
		}
		if ch == quote {
			l.pos++
			return l.makeItem(token.STRING, sb.String())
		}
		sb.WriteByte(ch)
		l.pos++
	}
	// unterminated string: return what we have, parser reports the error
	return l.makeItem(token.ILLEGAL, sb.String())
}

func isDigit(ch byte) bool      { return ch >= '0' && ch <= '9' }
func isIdentStart(ch byte) bool { return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }
func isIdentChar(ch byte) bool  { return isIdentStart(ch) || isDigit(ch) }
