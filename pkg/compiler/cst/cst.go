// Package cst defines the concrete syntax tree produced by the parser.
//
// The CST mirrors the grammar exactly: every production becomes an interior
// node and every consumed token becomes a Terminal leaf, punctuation
// included. Nodes are never mutated after construction; the lowerer reads
// them and discards them.
package cst

import (
	"encoding/json"
	"fmt"
	"io"
)

// Rule names a grammar production. Terminals use RuleTerminal.
type Rule string

const (
	RuleProgram        Rule = "PROGRAM"
	RuleWorldDef       Rule = "WORLD_DEF"
	RuleDeclarations   Rule = "DECLARATIONS"
	RuleDeclaration    Rule = "DECLARATION"
	RuleVarTail        Rule = "VAR_TAIL"
	RuleType           Rule = "TYPE"
	RuleStatements     Rule = "STATEMENTS"
	RuleStatement      Rule = "STATEMENT"
	RuleBlock          Rule = "BLOCK"
	RuleAssignment     Rule = "ASSIGNMENT"
	RuleIfStatement    Rule = "IF_STATEMENT"
	RuleElsePart       Rule = "ELSE_PART"
	RuleWhileStatement Rule = "WHILE_STATEMENT"
	RuleAction         Rule = "ACTION"
	RuleCondition      Rule = "CONDITION"
	RuleConditionTail  Rule = "CONDITION_TAIL"
	RuleRelOp          Rule = "REL_OP"
	RuleExpression     Rule = "EXPRESSION"
	RuleExpressionTail Rule = "EXPRESSION_TAIL"
	RuleTerm           Rule = "TERM"
	RuleTermTail       Rule = "TERM_TAIL"
	RuleFactor         Rule = "FACTOR"
	RuleLiteral        Rule = "LITERAL"
	RuleAddOp          Rule = "ADD_OP"
	RuleMulOp          Rule = "MUL_OP"
	RuleTerminal       Rule = "TERMINAL"
)

var knownRules = map[Rule]bool{
	RuleProgram: true, RuleWorldDef: true, RuleDeclarations: true,
	RuleDeclaration: true, RuleVarTail: true, RuleType: true,
	RuleStatements: true, RuleStatement: true, RuleBlock: true,
	RuleAssignment: true, RuleIfStatement: true, RuleElsePart: true,
	RuleWhileStatement: true, RuleAction: true, RuleCondition: true,
	RuleConditionTail: true, RuleRelOp: true, RuleExpression: true,
	RuleExpressionTail: true, RuleTerm: true, RuleTermTail: true,
	RuleFactor: true, RuleLiteral: true, RuleAddOp: true, RuleMulOp: true,
	RuleTerminal: true,
}

// Node is one vertex of the concrete syntax tree. Terminals carry the
// token lexeme in Value and a source position; interior nodes carry only
// their rule and ordered children.
type Node struct {
	Rule     Rule    `json:"rule"`
	Value    string  `json:"value,omitempty"`
	Line     int     `json:"line,omitempty"`
	Column   int     `json:"column,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// New creates an interior node for the given production.
func New(rule Rule) *Node {
	return &Node{Rule: rule}
}

// Terminal creates a leaf node for a consumed token.
func Terminal(lexeme string, line, column int) *Node {
	return &Node{Rule: RuleTerminal, Value: lexeme, Line: line, Column: column}
}

// Add appends children in source order and returns the node.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Child returns the i-th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Pos returns the position of the first terminal under the node.
func (n *Node) Pos() (line, column int) {
	if n.Rule == RuleTerminal {
		return n.Line, n.Column
	}
	for _, c := range n.Children {
		if l, col := c.Pos(); l != 0 {
			return l, col
		}
	}
	return 0, 0
}

func (n *Node) String() string {
	if n.Rule == RuleTerminal {
		return fmt.Sprintf("<TERMINAL %q>", n.Value)
	}
	return fmt.Sprintf("<%s>", n.Rule)
}

// Encode writes the tree as an indented JSON artifact.
func Encode(w io.Writer, root *Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(root)
}

// Decode reads a CST artifact and validates every rule tag, so a corrupt
// or hand-edited artifact fails here rather than confusing the lowerer.
func Decode(r io.Reader) (*Node, error) {
	var root Node
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("cst: decoding artifact: %w", err)
	}
	if err := validate(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

func validate(n *Node) error {
	if !knownRules[n.Rule] {
		return fmt.Errorf("cst: unknown rule %q in artifact", n.Rule)
	}
	if n.Rule == RuleTerminal && len(n.Children) > 0 {
		return fmt.Errorf("cst: terminal %q has children", n.Value)
	}
	for _, c := range n.Children {
		if c == nil {
			return fmt.Errorf("cst: null child under %s", n.Rule)
		}
		if err := validate(c); err != nil {
			return err
		}
	}
	return nil
}
