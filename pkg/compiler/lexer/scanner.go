// Package lexer performs lexical analysis on CleanWorld source.
package lexer

import (
	"github.com/cleanworld/cleanc/pkg/diag"
)

// Scanner walks the source bytes and produces tokens on demand.
type Scanner struct {
	source []byte
	cursor int
	line   int
	column int
}

// NewScanner creates a new scanner for the given source.
func NewScanner(source []byte) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
		column: 1,
	}
}

// Reset re-initializes the scanner with new source for reuse.
func (s *Scanner) Reset(source []byte) {
	s.source = source
	s.cursor = 0
	s.line = 1
	s.column = 1
}

// Next returns the next token from the source. Whitespace and comments
// are consumed without interrupting line/column tracking. An unrecognized
// character or unterminated string yields a KindError token whose lexeme
// is the offending text.
func (s *Scanner) Next() Token {
	s.skipWhitespace()

	if s.cursor >= len(s.source) {
		return Token{Kind: KindEOF, Offset: s.cursor, Line: s.line, Column: s.column}
	}

	ch := s.source[s.cursor]

	// Comments (# ...) run to end of line.
	if ch == '#' {
		s.skipComment()
		return s.Next()
	}

	if ch == '"' {
		return s.scanString()
	}

	if isDigit(ch) {
		return s.scanNumber()
	}

	if isAlpha(ch) || ch == '_' {
		return s.scanIdentifier()
	}

	return s.scanOperator()
}

// Scan collects the whole token stream, ending in an EOF token. It stops
// at the first lexical error and reports it as a LEX diagnostic.
func Scan(source []byte) ([]Token, *diag.Diagnostic) {
	s := NewScanner(source)
	var tokens []Token
	for {
		tok := s.Next()
		if tok.Kind == KindError {
			return tokens, diag.Errorf(diag.StageLex, tok.Line, tok.Column, "unexpected character sequence %q", tok.Lexeme)
		}
		tokens = append(tokens, tok)
		if tok.Kind == KindEOF {
			return tokens, nil
		}
	}
}

func (s *Scanner) skipWhitespace() {
	for s.cursor < len(s.source) {
		switch s.source[s.cursor] {
		case ' ', '\t', '\r':
			s.cursor++
			s.column++
		case '\n':
			s.cursor++
			s.line++
			s.column = 1
		default:
			return
		}
	}
}

func (s *Scanner) skipComment() {
	for s.cursor < len(s.source) && s.source[s.cursor] != '\n' {
		s.cursor++
		s.column++
	}
}

func (s *Scanner) scanString() Token {
	start, line, col := s.cursor, s.line, s.column
	s.cursor++ // opening '"'
	s.column++
	for s.cursor < len(s.source) && s.source[s.cursor] != '"' {
		if s.source[s.cursor] == '\n' {
			// Strings may not span lines; treat as unterminated.
			break
		}
		s.cursor++
		s.column++
	}

	if s.cursor >= len(s.source) || s.source[s.cursor] != '"' {
		return Token{Kind: KindError, Lexeme: string(s.source[start:s.cursor]), Offset: start, Line: line, Column: col}
	}

	s.cursor++ // closing '"'
	s.column++
	return Token{Kind: KindStringLiteral, Lexeme: string(s.source[start:s.cursor]), Offset: start, Line: line, Column: col}
}

func (s *Scanner) scanNumber() Token {
	start, line, col := s.cursor, s.line, s.column
	for s.cursor < len(s.source) && isDigit(s.source[s.cursor]) {
		s.cursor++
		s.column++
	}
	return Token{Kind: KindIntLiteral, Lexeme: string(s.source[start:s.cursor]), Offset: start, Line: line, Column: col}
}

func (s *Scanner) scanIdentifier() Token {
	start, line, col := s.cursor, s.line, s.column
	for s.cursor < len(s.source) && (isAlpha(s.source[s.cursor]) || isDigit(s.source[s.cursor]) || s.source[s.cursor] == '_') {
		s.cursor++
		s.column++
	}

	lexeme := string(s.source[start:s.cursor])
	kind := KindIdentifier
	if kw, ok := keywords[lexeme]; ok {
		kind = kw
	}
	return Token{Kind: kind, Lexeme: lexeme, Offset: start, Line: line, Column: col}
}

// scanOperator matches operators and punctuation, longest lexeme first.
func (s *Scanner) scanOperator() Token {
	start, line, col := s.cursor, s.line, s.column
	ch := s.source[s.cursor]

	// Two-character operators take precedence over their prefixes.
	if s.cursor+1 < len(s.source) && s.source[s.cursor+1] == '=' {
		kind, ok := Kind(0), true
		switch ch {
		case '=':
			kind = KindEq
		case '!':
			kind = KindNeq
		case '<':
			kind = KindLe
		case '>':
			kind = KindGe
		default:
			ok = false
		}
		if ok {
			s.cursor += 2
			s.column += 2
			return Token{Kind: kind, Lexeme: string(s.source[start:s.cursor]), Offset: start, Line: line, Column: col}
		}
	}

	kind := KindError
	switch ch {
	case '=':
		kind = KindAssign
	case '<':
		kind = KindLt
	case '>':
		kind = KindGt
	case '+':
		kind = KindPlus
	case '-':
		kind = KindMinus
	case '*':
		kind = KindMul
	case '/':
		kind = KindDiv
	case '(':
		kind = KindLParen
	case ')':
		kind = KindRParen
	case '{':
		kind = KindLBrace
	case '}':
		kind = KindRBrace
	case ';':
		kind = KindSemicolon
	case ':':
		kind = KindColon
	case ',':
		kind = KindComma
	}

	s.cursor++
	s.column++
	return Token{Kind: kind, Lexeme: string(s.source[start:s.cursor]), Offset: start, Line: line, Column: col}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
