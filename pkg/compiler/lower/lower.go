// Package lower transforms a concrete syntax tree into the abstract one.
//
// Lowering strips punctuation and grouping, folds the grammar's tail
// productions into left-associative binary expression trees, and
// canonicalizes sugar (an if with no else gets an empty else branch).
// It is total over parser-produced CSTs; errors surface only for
// malformed artifacts read back from disk.
package lower

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cleanworld/cleanc/pkg/compiler/ast"
	"github.com/cleanworld/cleanc/pkg/compiler/cst"
)

// Lower converts a CST rooted at PROGRAM into an AST Program.
func Lower(root *cst.Node) (*ast.Program, error) {
	if root == nil || root.Rule != cst.RuleProgram {
		return nil, fmt.Errorf("lower: root must be PROGRAM, got %v", root)
	}
	if len(root.Children) != 7 {
		return nil, fmt.Errorf("lower: PROGRAM has %d children, want 7", len(root.Children))
	}

	name, err := terminal(root.Child(1))
	if err != nil {
		return nil, err
	}

	world, err := lowerWorldDef(root.Child(3))
	if err != nil {
		return nil, err
	}

	prog := &ast.Program{
		Position: position(root),
		Name:     name.Value,
		World:    world,
	}

	for _, decl := range root.Child(4).Children {
		stmt, err := lowerDeclaration(decl)
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, stmt)
	}

	stmts, err := lowerStatements(root.Child(5))
	if err != nil {
		return nil, err
	}
	prog.Body = append(prog.Body, stmts...)

	return prog, nil
}

func position(n *cst.Node) ast.Position {
	line, col := n.Pos()
	return ast.Position{Line: line, Column: col}
}

func terminal(n *cst.Node) (*cst.Node, error) {
	if n == nil || n.Rule != cst.RuleTerminal {
		return nil, fmt.Errorf("lower: expected terminal, got %v", n)
	}
	return n, nil
}

func lowerWorldDef(n *cst.Node) (*ast.WorldDef, error) {
	if n == nil || n.Rule != cst.RuleWorldDef || len(n.Children) != 7 {
		return nil, fmt.Errorf("lower: malformed WORLD_DEF %v", n)
	}
	width, err := intTerminal(n.Child(2))
	if err != nil {
		return nil, err
	}
	height, err := intTerminal(n.Child(4))
	if err != nil {
		return nil, err
	}
	return &ast.WorldDef{Position: position(n), Width: width, Height: height}, nil
}

func intTerminal(n *cst.Node) (int, error) {
	t, err := terminal(n)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(t.Value)
	if err != nil {
		return 0, fmt.Errorf("lower: %q is not an integer", t.Value)
	}
	return v, nil
}

func lowerDeclaration(n *cst.Node) (ast.Stmt, error) {
	if n.Rule != cst.RuleDeclaration || len(n.Children) < 5 {
		return nil, fmt.Errorf("lower: malformed DECLARATION %v", n)
	}
	keyword, err := terminal(n.Child(0))
	if err != nil {
		return nil, err
	}
	name, err := terminal(n.Child(1))
	if err != nil {
		return nil, err
	}
	typ, err := lowerType(n.Child(3))
	if err != nil {
		return nil, err
	}

	switch keyword.Value {
	case "const":
		// const ID : TYPE = EXPR ;
		if len(n.Children) != 7 {
			return nil, fmt.Errorf("lower: malformed const declaration %q", name.Value)
		}
		value, err := lowerExpression(n.Child(5))
		if err != nil {
			return nil, err
		}
		return &ast.ConstDecl{Position: position(n), Name: name.Value, Type: typ, Value: value}, nil
	case "var":
		// var ID : TYPE <var_tail>
		tail := n.Child(4)
		if tail == nil || tail.Rule != cst.RuleVarTail {
			return nil, fmt.Errorf("lower: malformed var declaration %q", name.Value)
		}
		var init ast.Expr
		if len(tail.Children) == 3 {
			if init, err = lowerExpression(tail.Child(1)); err != nil {
				return nil, err
			}
		}
		return &ast.VarDecl{Position: position(n), Name: name.Value, Type: typ, Init: init}, nil
	default:
		return nil, fmt.Errorf("lower: declaration starts with %q", keyword.Value)
	}
}

func lowerType(n *cst.Node) (ast.Type, error) {
	if n == nil || n.Rule != cst.RuleType || len(n.Children) != 1 {
		return ast.TypeUnknown, fmt.Errorf("lower: malformed TYPE %v", n)
	}
	t, err := terminal(n.Child(0))
	if err != nil {
		return ast.TypeUnknown, err
	}
	return ast.ParseType(t.Value)
}

func lowerStatements(n *cst.Node) ([]ast.Stmt, error) {
	if n == nil || n.Rule != cst.RuleStatements {
		return nil, fmt.Errorf("lower: malformed STATEMENTS %v", n)
	}
	stmts := make([]ast.Stmt, 0, len(n.Children))
	for _, child := range n.Children {
		stmt, err := lowerStatement(child)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func lowerStatement(n *cst.Node) (ast.Stmt, error) {
	switch n.Rule {
	case cst.RuleAssignment:
		return lowerAssignment(n)
	case cst.RuleIfStatement:
		return lowerIf(n)
	case cst.RuleWhileStatement:
		return lowerWhile(n)
	case cst.RuleBlock:
		body, err := lowerBlock(n)
		if err != nil {
			return nil, err
		}
		return &ast.Block{Position: position(n), Body: body}, nil
	case cst.RuleAction:
		return lowerAction(n)
	default:
		return nil, fmt.Errorf("lower: unexpected statement rule %s", n.Rule)
	}
}

func lowerAssignment(n *cst.Node) (ast.Stmt, error) {
	if len(n.Children) != 4 {
		return nil, fmt.Errorf("lower: malformed ASSIGNMENT %v", n)
	}
	name, err := terminal(n.Child(0))
	if err != nil {
		return nil, err
	}
	value, err := lowerExpression(n.Child(2))
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Position: position(n), Name: name.Value, Value: value}, nil
}

func lowerIf(n *cst.Node) (ast.Stmt, error) {
	// IF ( CONDITION ) BLOCK ELSE_PART
	if len(n.Children) != 6 {
		return nil, fmt.Errorf("lower: malformed IF_STATEMENT %v", n)
	}
	cond, err := lowerCondition(n.Child(2))
	if err != nil {
		return nil, err
	}
	then, err := lowerBlock(n.Child(4))
	if err != nil {
		return nil, err
	}

	// Canonical shape: the else branch is always present, possibly empty.
	elseBody := []ast.Stmt{}
	elsePart := n.Child(5)
	if elsePart == nil || elsePart.Rule != cst.RuleElsePart {
		return nil, fmt.Errorf("lower: malformed ELSE_PART %v", elsePart)
	}
	if len(elsePart.Children) == 2 {
		if elseBody, err = lowerBlock(elsePart.Child(1)); err != nil {
			return nil, err
		}
	}

	return &ast.If{Position: position(n), Cond: cond, Then: then, Else: elseBody}, nil
}

func lowerWhile(n *cst.Node) (ast.Stmt, error) {
	// WHILE ( CONDITION ) BLOCK
	if len(n.Children) != 5 {
		return nil, fmt.Errorf("lower: malformed WHILE_STATEMENT %v", n)
	}
	cond, err := lowerCondition(n.Child(2))
	if err != nil {
		return nil, err
	}
	body, err := lowerBlock(n.Child(4))
	if err != nil {
		return nil, err
	}
	return &ast.While{Position: position(n), Cond: cond, Body: body}, nil
}

func lowerBlock(n *cst.Node) ([]ast.Stmt, error) {
	// { STATEMENTS }
	if n == nil || n.Rule != cst.RuleBlock || len(n.Children) != 3 {
		return nil, fmt.Errorf("lower: malformed BLOCK %v", n)
	}
	return lowerStatements(n.Child(1))
}

func lowerAction(n *cst.Node) (ast.Stmt, error) {
	if len(n.Children) != 2 {
		return nil, fmt.Errorf("lower: malformed ACTION %v", n)
	}
	name, err := terminal(n.Child(0))
	if err != nil {
		return nil, err
	}
	op, err := ast.ParseAction(name.Value)
	if err != nil {
		return nil, err
	}
	return &ast.Action{Position: position(n), Op: op}, nil
}

// lowerCondition folds <condition> ::= <expression> [<rel_op> <expression>].
func lowerCondition(n *cst.Node) (ast.Expr, error) {
	if n == nil || n.Rule != cst.RuleCondition || len(n.Children) != 2 {
		return nil, fmt.Errorf("lower: malformed CONDITION %v", n)
	}
	left, err := lowerExpression(n.Child(0))
	if err != nil {
		return nil, err
	}

	tail := n.Child(1)
	if tail.Rule != cst.RuleConditionTail {
		return nil, fmt.Errorf("lower: malformed CONDITION_TAIL %v", tail)
	}
	if len(tail.Children) == 0 {
		return left, nil
	}
	if len(tail.Children) != 2 {
		return nil, fmt.Errorf("lower: malformed CONDITION_TAIL %v", tail)
	}

	op, err := lowerOp(tail.Child(0))
	if err != nil {
		return nil, err
	}
	right, err := lowerExpression(tail.Child(1))
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Position: position(n), Op: op, Left: left, Right: right}, nil
}

// lowerExpression folds the tail-recursive grammar chains into a
// left-associative tree: 1 - 2 - 3 becomes ((1 - 2) - 3).
func lowerExpression(n *cst.Node) (ast.Expr, error) {
	if n == nil || n.Rule != cst.RuleExpression || len(n.Children) != 2 {
		return nil, fmt.Errorf("lower: malformed EXPRESSION %v", n)
	}
	left, err := lowerTerm(n.Child(0))
	if err != nil {
		return nil, err
	}
	return foldTail(left, n.Child(1), cst.RuleExpressionTail, lowerTerm)
}

func lowerTerm(n *cst.Node) (ast.Expr, error) {
	if n == nil || n.Rule != cst.RuleTerm || len(n.Children) != 2 {
		return nil, fmt.Errorf("lower: malformed TERM %v", n)
	}
	left, err := lowerFactor(n.Child(0))
	if err != nil {
		return nil, err
	}
	return foldTail(left, n.Child(1), cst.RuleTermTail, lowerFactor)
}

// foldTail walks a TAIL ::= OP OPERAND TAIL | ε chain, accumulating to
// the left.
func foldTail(acc ast.Expr, tail *cst.Node, rule cst.Rule, operand func(*cst.Node) (ast.Expr, error)) (ast.Expr, error) {
	for {
		if tail == nil || tail.Rule != rule {
			return nil, fmt.Errorf("lower: malformed %s %v", rule, tail)
		}
		if len(tail.Children) == 0 {
			return acc, nil
		}
		if len(tail.Children) != 3 {
			return nil, fmt.Errorf("lower: malformed %s %v", rule, tail)
		}
		op, err := lowerOp(tail.Child(0))
		if err != nil {
			return nil, err
		}
		right, err := operand(tail.Child(1))
		if err != nil {
			return nil, err
		}
		acc = &ast.BinaryExpr{Position: acc.Pos(), Op: op, Left: acc, Right: right}
		tail = tail.Child(2)
	}
}

// lowerOp reads the operator terminal under ADD_OP, MUL_OP or REL_OP.
func lowerOp(n *cst.Node) (ast.BinOp, error) {
	if n == nil || len(n.Children) != 1 {
		return 0, fmt.Errorf("lower: malformed operator node %v", n)
	}
	switch n.Rule {
	case cst.RuleAddOp, cst.RuleMulOp, cst.RuleRelOp:
	default:
		return 0, fmt.Errorf("lower: %s is not an operator rule", n.Rule)
	}
	t, err := terminal(n.Child(0))
	if err != nil {
		return 0, err
	}
	return ast.ParseBinOp(t.Value)
}

func lowerFactor(n *cst.Node) (ast.Expr, error) {
	if n == nil || n.Rule != cst.RuleFactor || len(n.Children) == 0 {
		return nil, fmt.Errorf("lower: malformed FACTOR %v", n)
	}

	first := n.Child(0)
	switch first.Rule {
	case cst.RuleLiteral:
		return lowerLiteral(first)
	case cst.RuleTerminal:
		switch {
		case first.Value == "(":
			// ( EXPRESSION ), where the grouping carries no meaning of its own.
			if len(n.Children) != 3 {
				return nil, fmt.Errorf("lower: malformed grouped FACTOR %v", n)
			}
			return lowerExpression(n.Child(1))
		case first.Value == "not":
			if len(n.Children) != 2 {
				return nil, fmt.Errorf("lower: malformed not FACTOR %v", n)
			}
			operand, err := lowerFactor(n.Child(1))
			if err != nil {
				return nil, err
			}
			return &ast.UnaryExpr{Position: position(first), Operand: operand}, nil
		case first.Value == "sense":
			return &ast.SensorCheck{Position: position(first), Name: "sense"}, nil
		default:
			return &ast.VarRef{Position: position(first), Name: first.Value}, nil
		}
	default:
		return nil, fmt.Errorf("lower: unexpected factor child %s", first.Rule)
	}
}

func lowerLiteral(n *cst.Node) (ast.Expr, error) {
	if len(n.Children) != 1 {
		return nil, fmt.Errorf("lower: malformed LITERAL %v", n)
	}
	t, err := terminal(n.Child(0))
	if err != nil {
		return nil, err
	}
	lit := &ast.Literal{Position: position(t)}

	switch {
	case t.Value == "true" || t.Value == "false":
		lit.Type = ast.TypeBool
		lit.Bool = t.Value == "true"
	case isDirection(t.Value):
		lit.Type = ast.TypeDirection
		lit.Text = t.Value
	case strings.HasPrefix(t.Value, `"`):
		lit.Type = ast.TypeString
		lit.Text = strings.Trim(t.Value, `"`)
	default:
		v, err := strconv.ParseInt(t.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("lower: %q is not a literal", t.Value)
		}
		lit.Type = ast.TypeInt
		lit.Int = v
	}
	return lit, nil
}

func isDirection(s string) bool {
	switch s {
	case "north", "south", "east", "west":
		return true
	}
	return false
}
