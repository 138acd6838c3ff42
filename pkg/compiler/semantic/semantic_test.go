package semantic_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cleanworld/cleanc/pkg/compiler/ast"
	"github.com/cleanworld/cleanc/pkg/compiler/lower"
	"github.com/cleanworld/cleanc/pkg/compiler/parser"
	"github.com/cleanworld/cleanc/pkg/compiler/semantic"
	"github.com/cleanworld/cleanc/pkg/diag"
)

func analyzeSource(t *testing.T, src string) []diag.Diagnostic {
	t.Helper()
	root, d := parser.Parse([]byte(src))
	require.Nil(t, d, "test program must parse")
	prog, err := lower.Lower(root)
	require.NoError(t, err)
	return semantic.Analyze(prog)
}

func wrap(stmts string) string {
	return "program P {\n grid(4, 4);\n" + stmts + "\n}"
}

func TestAnalyzeCleanProgram(t *testing.T) {
	diags := analyzeSource(t, wrap(`
 const limit : int = 3;
 var cleaned : int = 0;
 var done : bool = false;
 while (not done) {
     if (sense) {
         clean;
         cleaned = cleaned + 1;
     } else {
         move;
     }
     if (cleaned >= limit) {
         done = true;
     }
 }`))
	require.Empty(t, diags)
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name    string
		stmts   string
		message string
	}{
		{
			name:    "undefined variable in assignment",
			stmts:   "x = 1;",
			message: "undefined variable: x",
		},
		{
			name:    "undefined variable in expression",
			stmts:   "var y : int = x + 1;",
			message: "undefined variable: x",
		},
		{
			name:    "duplicate declaration",
			stmts:   "var x : int = 1;\nvar x : int = 2;",
			message: "duplicate declaration: x",
		},
		{
			name:    "constant reassignment",
			stmts:   "const k : int = 1;\nk = 2;",
			message: "cannot reassign constant: k",
		},
		{
			name:    "assignment type mismatch",
			stmts:   "var x : int = 1;\nx = true;",
			message: "cannot assign bool value to int variable",
		},
		{
			name:    "initializer type mismatch",
			stmts:   "var x : bool = 3;",
			message: "cannot initialize bool variable",
		},
		{
			name:    "arithmetic on bool",
			stmts:   "var x : int = 1 + true;",
			message: `operands of "+" must be int`,
		},
		{
			name:    "logical on int",
			stmts:   "var x : bool = 1 and true;",
			message: `operands of "and" must be bool`,
		},
		{
			name:    "ordering on directions",
			stmts:   "if (north < south) { move; }",
			message: `operator "<" requires int operands`,
		},
		{
			name:    "comparison across types",
			stmts:   "if (1 == true) { move; }",
			message: "cannot compare int with bool",
		},
		{
			name:    "non-bool condition",
			stmts:   "while (1 + 2) { move; }",
			message: "condition must be bool",
		},
		{
			name:    "not on int",
			stmts:   "var x : bool = not 3;",
			message: "operand of 'not' must be bool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := analyzeSource(t, wrap(tt.stmts))
			require.True(t, diag.HasErrors(diags), "expected at least one error")
			found := false
			for _, d := range diags {
				require.Equal(t, diag.StageSemantic, d.Stage)
				if strings.Contains(d.Message, tt.message) {
					found = true
				}
			}
			require.Truef(t, found, "no diagnostic contains %q in %v", tt.message, diags)
		})
	}
}

func TestAnalyzeUndeclaredExactlyOneDiagnostic(t *testing.T) {
	diags := analyzeSource(t, wrap("x = 1;"))
	require.Len(t, diags, 1)
	require.Equal(t, diag.Error, diags[0].Severity)
	require.Contains(t, diags[0].Message, "undefined variable: x")
}

func TestAnalyzeDuplicatePointsAtSecondDeclaration(t *testing.T) {
	diags := analyzeSource(t, "program P {\n grid(4, 4);\n var x : int = 1;\n var x : int = 2;\n}")
	require.Len(t, diags, 1)
	require.Equal(t, 4, diags[0].Line, "position must point at the second declaration")
}

func TestAnalyzeCollectsAllErrors(t *testing.T) {
	diags := analyzeSource(t, wrap("var c : bool = 3;\na = 1;\nb = 2;"))
	errs := 0
	for _, d := range diags {
		if d.Severity == diag.Error {
			errs++
		}
	}
	require.Equal(t, 3, errs, "analysis must not stop at the first error")
}

func TestAnalyzeIdempotent(t *testing.T) {
	root, d := parser.Parse([]byte(wrap("var x : int = 1;\nx = x + 1;")))
	require.Nil(t, d)
	prog, err := lower.Lower(root)
	require.NoError(t, err)

	first := semantic.Analyze(prog)
	second := semantic.Analyze(prog)
	require.Empty(t, first)
	require.Empty(t, second, "re-analysis of a validated AST must stay clean")
}

func TestAnalyzeSenseStatementWarns(t *testing.T) {
	diags := analyzeSource(t, wrap("sense;"))
	require.Len(t, diags, 1)
	require.Equal(t, diag.Warning, diags[0].Severity)
	require.False(t, diag.HasErrors(diags), "a warning must not block interpretation")
}

// Artifacts decoded from disk can carry variants the grammar cannot
// produce; the analyzer still validates them.
func TestAnalyzeHandcraftedAST(t *testing.T) {
	t.Run("unknown direction literal", func(t *testing.T) {
		prog := &ast.Program{
			World: &ast.WorldDef{Width: 3, Height: 3},
			Body: []ast.Stmt{
				&ast.VarDecl{Name: "d", Type: ast.TypeDirection,
					Init: &ast.Literal{Type: ast.TypeDirection, Text: "upward"}},
			},
		}
		diags := semantic.Analyze(prog)
		require.Len(t, diags, 1)
		require.Contains(t, diags[0].Message, `unknown direction "upward"`)
	})

	t.Run("unknown sensor", func(t *testing.T) {
		prog := &ast.Program{
			World: &ast.WorldDef{Width: 3, Height: 3},
			Body: []ast.Stmt{
				&ast.VarDecl{Name: "b", Type: ast.TypeBool,
					Init: &ast.SensorCheck{Name: "radar"}},
			},
		}
		diags := semantic.Analyze(prog)
		require.Len(t, diags, 1)
		require.Contains(t, diags[0].Message, `unknown sensor "radar"`)
	})

	t.Run("degenerate grid", func(t *testing.T) {
		prog := &ast.Program{World: &ast.WorldDef{Width: 0, Height: 3}}
		diags := semantic.Analyze(prog)
		require.Len(t, diags, 1)
		require.Contains(t, diags[0].Message, "grid dimensions must be positive")
	})
}
