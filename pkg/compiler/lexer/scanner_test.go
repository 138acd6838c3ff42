package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cleanworld/cleanc/pkg/compiler/lexer"
)

func TestScannerKeywordsAndOperators(t *testing.T) {
	src := []byte(`program Demo { grid(5, 5); var n : int = 10; while (n >= 2) { move; } }`)
	s := lexer.NewScanner(src)

	expected := []lexer.Kind{
		lexer.KindProgram, lexer.KindIdentifier, lexer.KindLBrace,
		lexer.KindGrid, lexer.KindLParen, lexer.KindIntLiteral, lexer.KindComma,
		lexer.KindIntLiteral, lexer.KindRParen, lexer.KindSemicolon,
		lexer.KindVar, lexer.KindIdentifier, lexer.KindColon, lexer.KindTypeInt,
		lexer.KindAssign, lexer.KindIntLiteral, lexer.KindSemicolon,
		lexer.KindWhile, lexer.KindLParen, lexer.KindIdentifier, lexer.KindGe,
		lexer.KindIntLiteral, lexer.KindRParen, lexer.KindLBrace,
		lexer.KindMove, lexer.KindSemicolon, lexer.KindRBrace,
		lexer.KindRBrace, lexer.KindEOF,
	}

	for i, exp := range expected {
		tok := s.Next()
		require.Equalf(t, exp, tok.Kind, "token %d (%q)", i, tok.Lexeme)
	}
}

func TestScannerMaximalMunch(t *testing.T) {
	tests := []struct {
		src  string
		want []lexer.Kind
	}{
		{"<=", []lexer.Kind{lexer.KindLe, lexer.KindEOF}},
		{"< =", []lexer.Kind{lexer.KindLt, lexer.KindAssign, lexer.KindEOF}},
		{"== =", []lexer.Kind{lexer.KindEq, lexer.KindAssign, lexer.KindEOF}},
		{"!=", []lexer.Kind{lexer.KindNeq, lexer.KindEOF}},
		{"movement", []lexer.Kind{lexer.KindIdentifier, lexer.KindEOF}},
		{"move", []lexer.Kind{lexer.KindMove, lexer.KindEOF}},
		{"northern", []lexer.Kind{lexer.KindIdentifier, lexer.KindEOF}},
	}

	s := lexer.NewScanner(nil)
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s.Reset([]byte(tt.src))
			for i, exp := range tt.want {
				tok := s.Next()
				require.Equalf(t, exp, tok.Kind, "token %d", i)
			}
		})
	}
}

// Every token's lexeme must equal the source bytes at its offset, so the
// stream can be spliced back over the original text.
func TestScannerLosslessOffsets(t *testing.T) {
	src := []byte("program P {\n  grid(3, 3); # set up\n  var x : int = 1;\n  move;\n}\n")
	tokens, d := lexer.Scan(src)
	require.Nil(t, d)

	prevEnd := 0
	for _, tok := range tokens {
		if tok.Kind == lexer.KindEOF {
			continue
		}
		require.Equal(t, string(src[tok.Offset:tok.Offset+len(tok.Lexeme)]), tok.Lexeme)
		require.GreaterOrEqual(t, tok.Offset, prevEnd, "tokens must not overlap")
		prevEnd = tok.Offset + len(tok.Lexeme)
	}
}

func TestScannerPositions(t *testing.T) {
	src := []byte("move;\n  clean;")
	s := lexer.NewScanner(src)

	tok := s.Next()
	require.Equal(t, lexer.KindMove, tok.Kind)
	require.Equal(t, 1, tok.Line)
	require.Equal(t, 1, tok.Column)

	s.Next() // ;

	tok = s.Next()
	require.Equal(t, lexer.KindClean, tok.Kind)
	require.Equal(t, 2, tok.Line)
	require.Equal(t, 3, tok.Column)
}

func TestScannerCommentsAndStrings(t *testing.T) {
	src := []byte("# full line comment\n\"Kitchen\" # trailing\nmove")
	s := lexer.NewScanner(src)

	tok := s.Next()
	require.Equal(t, lexer.KindStringLiteral, tok.Kind)
	require.Equal(t, `"Kitchen"`, tok.Lexeme)
	require.Equal(t, 2, tok.Line)

	tok = s.Next()
	require.Equal(t, lexer.KindMove, tok.Kind)
	require.Equal(t, 3, tok.Line)
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown character", "move @ clean"},
		{"unterminated string", `"never closed`},
		{"string across newline", "\"broken\nstring\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, d := lexer.Scan([]byte(tt.src))
			require.NotNil(t, d)
			require.Equal(t, "LEX", d.Stage.String())
		})
	}
}
