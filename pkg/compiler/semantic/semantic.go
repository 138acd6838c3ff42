// Package semantic validates a lowered program: declaration and
// resolution of names, constant protection, and static type checking.
//
// Analysis never stops at the first problem; it collects every
// diagnostic it can in a single top-down, left-to-right walk. The
// analyzer itself always succeeds; callers refuse interpretation when
// any ERROR-severity diagnostic was collected.
package semantic

import (
	"github.com/cleanworld/cleanc/pkg/compiler/ast"
	"github.com/cleanworld/cleanc/pkg/diag"
)

// sensors names the world queries a program may reference.
var sensors = map[string]ast.Type{
	"sense": ast.TypeBool,
}

// directions is the fixed direction vocabulary.
var directions = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
}

// Analyze walks the program and returns its diagnostics in source order.
// A fresh symbol table is built per call, so repeated analysis of the
// same AST yields identical results.
func Analyze(prog *ast.Program) []diag.Diagnostic {
	a := &analyzer{scope: NewScope(nil)}
	a.program(prog)
	return a.diags
}

type analyzer struct {
	scope *Scope
	diags []diag.Diagnostic
}

func (a *analyzer) errorf(pos ast.Position, format string, args ...any) {
	a.diags = append(a.diags, *diag.Errorf(diag.StageSemantic, pos.Line, pos.Column, format, args...))
}

func (a *analyzer) warnf(pos ast.Position, format string, args ...any) {
	a.diags = append(a.diags, *diag.Warnf(diag.StageSemantic, pos.Line, pos.Column, format, args...))
}

func (a *analyzer) pushScope() { a.scope = NewScope(a.scope) }
func (a *analyzer) popScope()  { a.scope = a.scope.Parent() }

func (a *analyzer) program(prog *ast.Program) {
	if prog.World != nil && (prog.World.Width <= 0 || prog.World.Height <= 0) {
		a.errorf(prog.World.Pos(), "grid dimensions must be positive, got %dx%d",
			prog.World.Width, prog.World.Height)
	}
	a.stmts(prog.Body)
}

func (a *analyzer) stmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		a.stmt(s)
	}
}

func (a *analyzer) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.ConstDecl:
		valueType := a.expr(s.Value)
		if valueType != ast.TypeUnknown && valueType != s.Type {
			a.errorf(s.Pos(), "cannot initialize %s constant %q with %s value",
				s.Type, s.Name, valueType)
		}
		a.declare(s.Name, CategoryConst, s.Type, s.Pos())
	case *ast.VarDecl:
		if s.Init != nil {
			initType := a.expr(s.Init)
			if initType != ast.TypeUnknown && initType != s.Type {
				a.errorf(s.Pos(), "cannot initialize %s variable %q with %s value",
					s.Type, s.Name, initType)
			}
		}
		a.declare(s.Name, CategoryVar, s.Type, s.Pos())
	case *ast.Assign:
		valueType := a.expr(s.Value)
		sym := a.scope.Resolve(s.Name)
		switch {
		case sym == nil:
			a.errorf(s.Pos(), "undefined variable: %s", s.Name)
		case sym.Category == CategoryConst:
			a.errorf(s.Pos(), "cannot reassign constant: %s", s.Name)
		case valueType != ast.TypeUnknown && valueType != sym.Type:
			a.errorf(s.Pos(), "cannot assign %s value to %s variable %q",
				valueType, sym.Type, s.Name)
		}
	case *ast.If:
		a.condition(s.Cond)
		a.pushScope()
		a.stmts(s.Then)
		a.popScope()
		a.pushScope()
		a.stmts(s.Else)
		a.popScope()
	case *ast.While:
		a.condition(s.Cond)
		a.pushScope()
		a.stmts(s.Body)
		a.popScope()
	case *ast.Block:
		a.pushScope()
		a.stmts(s.Body)
		a.popScope()
	case *ast.Action:
		if s.Op == ast.ActionSense {
			a.warnf(s.Pos(), "sense used as a statement has no effect")
		}
	default:
		a.errorf(s.Pos(), "unexpected statement node %T", s)
	}
}

func (a *analyzer) declare(name string, category Category, typ ast.Type, at ast.Position) {
	if typ == ast.TypeString {
		a.errorf(at, "%q cannot be declared with type string", name)
	}
	if _, err := a.scope.Declare(name, category, typ, at); err != nil {
		a.errorf(at, "%v", err)
	}
}

// condition checks an if/while test, which must be boolean.
func (a *analyzer) condition(cond ast.Expr) {
	t := a.expr(cond)
	if t != ast.TypeUnknown && t != ast.TypeBool {
		a.errorf(cond.Pos(), "condition must be bool, got %s", t)
	}
}

// expr infers an expression's type, reporting problems as it goes.
// TypeUnknown means a problem was already reported underneath; callers
// suppress follow-on mismatch reports to avoid cascades.
func (a *analyzer) expr(e ast.Expr) ast.Type {
	switch e := e.(type) {
	case *ast.Literal:
		if e.Type == ast.TypeDirection && !directions[e.Text] {
			a.errorf(e.Pos(), "unknown direction %q", e.Text)
			return ast.TypeUnknown
		}
		return e.Type
	case *ast.VarRef:
		sym := a.scope.Resolve(e.Name)
		if sym == nil {
			a.errorf(e.Pos(), "undefined variable: %s", e.Name)
			return ast.TypeUnknown
		}
		return sym.Type
	case *ast.SensorCheck:
		t, ok := sensors[e.Name]
		if !ok {
			a.errorf(e.Pos(), "unknown sensor %q", e.Name)
			return ast.TypeUnknown
		}
		return t
	case *ast.UnaryExpr:
		t := a.expr(e.Operand)
		if t != ast.TypeUnknown && t != ast.TypeBool {
			a.errorf(e.Pos(), "operand of 'not' must be bool, got %s", t)
			return ast.TypeUnknown
		}
		return ast.TypeBool
	case *ast.BinaryExpr:
		return a.binary(e)
	default:
		a.errorf(e.Pos(), "unexpected expression node %T", e)
		return ast.TypeUnknown
	}
}

func (a *analyzer) binary(e *ast.BinaryExpr) ast.Type {
	left := a.expr(e.Left)
	right := a.expr(e.Right)
	if left == ast.TypeUnknown || right == ast.TypeUnknown {
		return ast.TypeUnknown
	}

	switch {
	case e.Op.IsLogical():
		if left != ast.TypeBool || right != ast.TypeBool {
			a.errorf(e.Pos(), "operands of %q must be bool, got %s and %s", e.Op, left, right)
			return ast.TypeUnknown
		}
		return ast.TypeBool
	case e.Op.IsComparison():
		if left != right {
			a.errorf(e.Pos(), "cannot compare %s with %s", left, right)
			return ast.TypeUnknown
		}
		// Ordering is only defined on numbers.
		if e.Op != ast.OpEq && e.Op != ast.OpNeq && left != ast.TypeInt {
			a.errorf(e.Pos(), "operator %q requires int operands, got %s", e.Op, left)
			return ast.TypeUnknown
		}
		return ast.TypeBool
	default: // arithmetic
		if left != ast.TypeInt || right != ast.TypeInt {
			a.errorf(e.Pos(), "operands of %q must be int, got %s and %s", e.Op, left, right)
			return ast.TypeUnknown
		}
		return ast.TypeInt
	}
}
