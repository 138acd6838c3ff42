package ast_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cleanworld/cleanc/pkg/compiler/ast"
)

func intLit(n int64) *ast.Literal {
	return &ast.Literal{Type: ast.TypeInt, Int: n}
}

// The round-trip program touches every node variant the codec handles.
func TestProgramArtifactRoundTrip(t *testing.T) {
	prog := &ast.Program{
		Position: ast.Position{Line: 1, Column: 1},
		Name:     "Demo",
		World:    &ast.WorldDef{Position: ast.Position{Line: 2, Column: 2}, Width: 4, Height: 3},
		Body: []ast.Stmt{
			&ast.ConstDecl{Name: "limit", Type: ast.TypeInt, Value: intLit(3)},
			&ast.VarDecl{Name: "d", Type: ast.TypeDirection,
				Init: &ast.Literal{Type: ast.TypeDirection, Text: "west"}},
			&ast.VarDecl{Name: "n", Type: ast.TypeInt},
			&ast.VarDecl{Name: "b", Type: ast.TypeBool,
				Init: &ast.Literal{Type: ast.TypeBool, Bool: false}},
			&ast.Assign{Name: "n", Value: &ast.BinaryExpr{
				Op:    ast.OpAdd,
				Left:  &ast.VarRef{Name: "n"},
				Right: intLit(1),
			}},
			&ast.If{
				Cond: &ast.UnaryExpr{Operand: &ast.SensorCheck{Name: "sense"}},
				Then: []ast.Stmt{&ast.Action{Op: ast.ActionMove}},
				Else: []ast.Stmt{},
			},
			&ast.While{
				Cond: &ast.BinaryExpr{
					Op:    ast.OpLt,
					Left:  &ast.VarRef{Name: "n"},
					Right: &ast.VarRef{Name: "limit"},
				},
				Body: []ast.Stmt{&ast.Action{Op: ast.ActionClean}},
			},
			&ast.Block{Body: []ast.Stmt{&ast.Action{Op: ast.ActionTurnLeft}}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ast.Encode(&buf, prog))

	decoded, err := ast.Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(prog, decoded); diff != "" {
		t.Fatalf("program changed over round trip (-want +got):\n%s", diff)
	}
}

// Zero-valued payloads must survive: omitempty may not drop an int 0 or a
// bool false literal.
func TestLiteralZeroValuesRoundTrip(t *testing.T) {
	prog := &ast.Program{
		Name:  "Z",
		World: &ast.WorldDef{Width: 1, Height: 1},
		Body: []ast.Stmt{
			&ast.VarDecl{Name: "n", Type: ast.TypeInt, Init: intLit(0)},
			&ast.VarDecl{Name: "b", Type: ast.TypeBool,
				Init: &ast.Literal{Type: ast.TypeBool, Bool: false}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ast.Encode(&buf, prog))
	decoded, err := ast.Decode(&buf)
	require.NoError(t, err)

	n := decoded.Body[0].(*ast.VarDecl)
	require.NotNil(t, n.Init, "int 0 initializer must not decode as absent")
	require.Equal(t, int64(0), n.Init.(*ast.Literal).Int)

	b := decoded.Body[1].(*ast.VarDecl)
	require.NotNil(t, b.Init, "bool false initializer must not decode as absent")
	require.False(t, b.Init.(*ast.Literal).Bool)
}

func TestDecodeRejectsCorruptArtifacts(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"unknown kind", `{"kind": "Goto"}`},
		{"root is not a program", `{"kind": "VarRef", "name": "x"}`},
		{"const without value",
			`{"kind": "Program", "body": [{"kind": "ConstDecl", "name": "k", "varType": "int"}]}`},
		{"assignment without value",
			`{"kind": "Program", "body": [{"kind": "Assign", "name": "x"}]}`},
		{"if without condition",
			`{"kind": "Program", "body": [{"kind": "If"}]}`},
		{"while without condition",
			`{"kind": "Program", "body": [{"kind": "While"}]}`},
		{"binary missing an operand",
			`{"kind": "Program", "body": [{"kind": "VarDecl", "name": "x", "varType": "int",
			  "init": {"kind": "BinaryExpr", "op": "+",
			           "left": {"kind": "Literal", "varType": "int", "int": 1}}}]}`},
		{"unary without operand",
			`{"kind": "Program", "body": [{"kind": "VarDecl", "name": "x", "varType": "bool",
			  "init": {"kind": "UnaryExpr"}}]}`},
		{"int literal missing value",
			`{"kind": "Program", "body": [{"kind": "VarDecl", "name": "x", "varType": "int",
			  "init": {"kind": "Literal", "varType": "int"}}]}`},
		{"bool literal missing value",
			`{"kind": "Program", "body": [{"kind": "VarDecl", "name": "b", "varType": "bool",
			  "init": {"kind": "Literal", "varType": "bool"}}]}`},
		{"unknown literal type",
			`{"kind": "Program", "body": [{"kind": "VarDecl", "name": "x", "varType": "int",
			  "init": {"kind": "Literal", "varType": "float"}}]}`},
		{"unknown declared type",
			`{"kind": "Program", "body": [{"kind": "VarDecl", "name": "x", "varType": "float"}]}`},
		{"unknown action",
			`{"kind": "Program", "body": [{"kind": "Action", "action": "fly"}]}`},
		{"unknown operator",
			`{"kind": "Program", "body": [{"kind": "VarDecl", "name": "x", "varType": "int",
			  "init": {"kind": "BinaryExpr", "op": "**",
			           "left": {"kind": "Literal", "varType": "int", "int": 1},
			           "right": {"kind": "Literal", "varType": "int", "int": 2}}}]}`},
		{"statement where expression required",
			`{"kind": "Program", "body": [{"kind": "VarDecl", "name": "x", "varType": "int",
			  "init": {"kind": "Block"}}]}`},
		{"expression in statement position",
			`{"kind": "Program", "body": [{"kind": "VarRef", "name": "x"}]}`},
		{"world is not a world definition",
			`{"kind": "Program", "world": {"kind": "Block"}}`},
		{"not json", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ast.Decode(strings.NewReader(tt.json))
			require.Error(t, err)
		})
	}
}
