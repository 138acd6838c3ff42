package cst_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cleanworld/cleanc/pkg/compiler/cst"
)

func TestArtifactRoundTrip(t *testing.T) {
	root := cst.New(cst.RuleProgram).Add(
		cst.Terminal("program", 1, 1),
		cst.Terminal("Demo", 1, 9),
		cst.New(cst.RuleStatements).Add(
			cst.New(cst.RuleAction).Add(
				cst.Terminal("move", 2, 3),
				cst.Terminal(";", 2, 7),
			),
		),
	)

	var buf bytes.Buffer
	require.NoError(t, cst.Encode(&buf, root))

	decoded, err := cst.Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(root, decoded); diff != "" {
		t.Fatalf("tree changed over round trip (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsCorruptArtifacts(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"unknown rule", `{"rule": "NOT_A_RULE"}`},
		{"terminal with children", `{"rule": "TERMINAL", "value": "x", "children": [{"rule": "TERMINAL"}]}`},
		{"null child", `{"rule": "PROGRAM", "children": [null]}`},
		{"not json", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cst.Decode(strings.NewReader(tt.json))
			require.Error(t, err)
		})
	}
}

func TestPosFindsFirstTerminal(t *testing.T) {
	node := cst.New(cst.RuleExpression).Add(
		cst.New(cst.RuleExpressionTail), // empty interior node first
		cst.New(cst.RuleTerm).Add(cst.Terminal("42", 3, 7)),
	)
	line, col := node.Pos()
	require.Equal(t, 3, line)
	require.Equal(t, 7, col)
}
