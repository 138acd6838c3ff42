// Package ast defines the abstract syntax tree the lowerer emits.
//
// Each variant carries only meaning-bearing fields plus the source
// position of the construct it was lowered from. The tree is immutable
// after lowering; the analyzer and interpreter only read it.
package ast

import "fmt"

// Position locates a node in the original source for diagnostics.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Node is any vertex of the abstract syntax tree.
type Node interface {
	Pos() Position
}

// Stmt is a standalone unit of execution.
type Stmt interface {
	Node
	stmtNode()
}

// Expr yields a value when evaluated.
type Expr interface {
	Node
	exprNode()
}

// Type is a static CleanWorld type.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeInt
	TypeBool
	TypeDirection
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeDirection:
		return "direction"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// ParseType maps a type keyword lexeme to its Type.
func ParseType(name string) (Type, error) {
	switch name {
	case "int":
		return TypeInt, nil
	case "bool":
		return TypeBool, nil
	case "direction":
		return TypeDirection, nil
	default:
		return TypeUnknown, fmt.Errorf("ast: unknown type %q", name)
	}
}

// BinOp is a binary operator kind.
type BinOp uint8

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
)

var binOpNames = [...]string{"+", "-", "*", "/", "and", "or", "==", "!=", "<", "<=", ">", ">="}

func (op BinOp) String() string {
	if int(op) < len(binOpNames) {
		return binOpNames[op]
	}
	return "?"
}

// ParseBinOp maps an operator lexeme to its BinOp.
func ParseBinOp(lexeme string) (BinOp, error) {
	for i, name := range binOpNames {
		if name == lexeme {
			return BinOp(i), nil
		}
	}
	return 0, fmt.Errorf("ast: unknown operator %q", lexeme)
}

// IsComparison reports whether the operator is relational.
func (op BinOp) IsComparison() bool {
	switch op {
	case OpEq, OpNeq, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

// IsLogical reports whether the operator is boolean-valued on booleans.
func (op BinOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// ActionOp identifies a built-in agent action.
type ActionOp uint8

const (
	ActionMove ActionOp = iota
	ActionTurnLeft
	ActionTurnRight
	ActionClean
	ActionSense
)

var actionNames = [...]string{"move", "turnLeft", "turnRight", "clean", "sense"}

func (a ActionOp) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "?"
}

// ParseAction maps an action keyword lexeme to its ActionOp.
func ParseAction(lexeme string) (ActionOp, error) {
	for i, name := range actionNames {
		if name == lexeme {
			return ActionOp(i), nil
		}
	}
	return 0, fmt.Errorf("ast: unknown action %q", lexeme)
}

// Program is the root node.
type Program struct {
	Position
	Name  string
	World *WorldDef
	Body  []Stmt
}

func (p *Program) Pos() Position { return p.Position }

// WorldDef sizes the grid world: grid(width, height);
type WorldDef struct {
	Position
	Width  int
	Height int
}

func (w *WorldDef) Pos() Position { return w.Position }

// ConstDecl: const NAME : TYPE = EXPR;
type ConstDecl struct {
	Position
	Name  string
	Type  Type
	Value Expr
}

func (d *ConstDecl) Pos() Position { return d.Position }
func (d *ConstDecl) stmtNode()     {}

// VarDecl: var NAME : TYPE [= EXPR];  Init is nil when omitted.
type VarDecl struct {
	Position
	Name string
	Type Type
	Init Expr
}

func (d *VarDecl) Pos() Position { return d.Position }
func (d *VarDecl) stmtNode()     {}

// Assign: NAME = EXPR;
type Assign struct {
	Position
	Name  string
	Value Expr
}

func (a *Assign) Pos() Position { return a.Position }
func (a *Assign) stmtNode()     {}

// If with canonical shape: a missing else lowers to an empty Else slice.
type If struct {
	Position
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (i *If) Pos() Position { return i.Position }
func (i *If) stmtNode()     {}

// While re-evaluates Cond before every iteration.
type While struct {
	Position
	Cond Expr
	Body []Stmt
}

func (w *While) Pos() Position { return w.Position }
func (w *While) stmtNode()     {}

// Block is a standalone braced statement group; it opens a scope.
type Block struct {
	Position
	Body []Stmt
}

func (b *Block) Pos() Position { return b.Position }
func (b *Block) stmtNode()     {}

// Action is a niladic agent effect statement.
type Action struct {
	Position
	Op ActionOp
}

func (a *Action) Pos() Position { return a.Position }
func (a *Action) stmtNode()     {}

// BinaryExpr is a left-associative folded binary operation.
type BinaryExpr struct {
	Position
	Op    BinOp
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) Pos() Position { return b.Position }
func (b *BinaryExpr) exprNode()     {}

// UnaryExpr: not EXPR.
type UnaryExpr struct {
	Position
	Operand Expr
}

func (u *UnaryExpr) Pos() Position { return u.Position }
func (u *UnaryExpr) exprNode()     {}

// Literal is a constant of one of the four literal types. The value field
// that applies is selected by Type; Text holds direction names and the
// unquoted string contents.
type Literal struct {
	Position
	Type Type
	Int  int64
	Bool bool
	Text string
}

func (l *Literal) Pos() Position { return l.Position }
func (l *Literal) exprNode()     {}

// VarRef reads a declared variable.
type VarRef struct {
	Position
	Name string
}

func (v *VarRef) Pos() Position { return v.Position }
func (v *VarRef) exprNode()     {}

// SensorCheck queries a world sensor; "sense" is the only one defined.
type SensorCheck struct {
	Position
	Name string
}

func (s *SensorCheck) Pos() Position { return s.Position }
func (s *SensorCheck) exprNode()     {}
