// Package interp executes a semantically valid program by walking its
// AST against a simulated grid world.
//
// Each run owns a fresh Environment and World; nothing leaks between
// runs. Execution is bounded by a step budget so that a while loop whose
// condition never turns false fails with a RUNTIME diagnostic instead of
// hanging the run.
package interp

import (
	"github.com/cleanworld/cleanc/pkg/compiler/ast"
	"github.com/cleanworld/cleanc/pkg/core/value"
	"github.com/cleanworld/cleanc/pkg/diag"
)

// Interpreter executes programs under one run configuration. It is
// reusable across programs; all per-run state lives in run.
type Interpreter struct {
	cfg Config
}

// New creates an interpreter with the given run configuration.
func New(cfg Config) *Interpreter {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultConfig().MaxSteps
	}
	if cfg.Facing == "" {
		cfg.Facing = "north"
	}
	return &Interpreter{cfg: cfg}
}

// run is the per-execution state.
type run struct {
	cfg     Config
	env     *Environment
	world   *World
	consts  map[string]bool
	effects []Effect
	steps   int
}

// Run executes the program. The Result is always returned, holding the
// partial trace on failure; the diagnostic is non-nil when execution
// halted with a RUNTIME error.
func (in *Interpreter) Run(prog *ast.Program) (*Result, *diag.Diagnostic) {
	r := &run{
		cfg:    in.cfg,
		env:    NewEnvironment(nil),
		consts: make(map[string]bool),
	}

	var d *diag.Diagnostic
	if prog.World == nil {
		d = diag.Errorf(diag.StageRuntime, prog.Pos().Line, prog.Pos().Column,
			"grid not initialized: missing grid() declaration")
	} else {
		r.world = NewWorld(prog.World.Width, prog.World.Height)
		r.world.AgentX, r.world.AgentY = in.cfg.StartX, in.cfg.StartY
		r.world.Facing = in.cfg.Facing
		if !r.world.InBounds(r.world.AgentX, r.world.AgentY) {
			d = diag.Errorf(diag.StageRuntime, prog.World.Pos().Line, prog.World.Pos().Column,
				"agent start (%d, %d) is outside the %dx%d grid",
				in.cfg.StartX, in.cfg.StartY, prog.World.Width, prog.World.Height)
		}
	}

	if d != nil {
		return &Result{Effects: []Effect{}, Steps: 0}, d
	}

	if len(in.cfg.Dirt) > 0 {
		for _, c := range in.cfg.Dirt {
			if r.world.InBounds(c.X, c.Y) {
				r.world.Dirt[c] = true
			}
		}
	} else {
		r.world.SeedDefaultDirt()
	}

	d = r.execStmts(prog.Body, r.env)

	res := &Result{
		Effects: r.effects,
		World:   r.world.Snapshot(),
		Steps:   r.steps,
	}
	if res.Effects == nil {
		res.Effects = []Effect{}
	}
	return res, d
}

func (r *run) execStmts(stmts []ast.Stmt, env *Environment) *diag.Diagnostic {
	for _, s := range stmts {
		if d := r.execStmt(s, env); d != nil {
			return d
		}
	}
	return nil
}

func (r *run) execStmt(s ast.Stmt, env *Environment) *diag.Diagnostic {
	if d := r.step(s.Pos()); d != nil {
		return d
	}

	switch s := s.(type) {
	case *ast.ConstDecl:
		v, d := r.eval(s.Value, env)
		if d != nil {
			return d
		}
		env.Define(s.Name, v)
		r.consts[s.Name] = true
		return nil
	case *ast.VarDecl:
		v := value.Zero(runtimeType(s.Type))
		if s.Init != nil {
			var d *diag.Diagnostic
			if v, d = r.eval(s.Init, env); d != nil {
				return d
			}
		}
		env.Define(s.Name, v)
		return nil
	case *ast.Assign:
		if r.consts[s.Name] {
			return r.fail(s.Pos(), "cannot assign to constant: %s", s.Name)
		}
		v, d := r.eval(s.Value, env)
		if d != nil {
			return d
		}
		if err := env.Set(s.Name, v); err != nil {
			return r.fail(s.Pos(), "%v", err)
		}
		return nil
	case *ast.If:
		cond, d := r.evalBool(s.Cond, env)
		if d != nil {
			return d
		}
		if cond {
			return r.execStmts(s.Then, NewEnvironment(env))
		}
		return r.execStmts(s.Else, NewEnvironment(env))
	case *ast.While:
		return r.execWhile(s, env)
	case *ast.Block:
		return r.execStmts(s.Body, NewEnvironment(env))
	case *ast.Action:
		return r.execAction(s)
	default:
		return r.fail(s.Pos(), "unexpected statement node %T", s)
	}
}

func (r *run) execWhile(s *ast.While, env *Environment) *diag.Diagnostic {
	for {
		cond, d := r.evalBool(s.Cond, env)
		if d != nil {
			return d
		}
		if !cond {
			return nil
		}
		// Every iteration consumes a step of its own, so an empty loop
		// body still exhausts the budget instead of spinning forever.
		if d := r.step(s.Pos()); d != nil {
			return d
		}
		if d := r.execStmts(s.Body, NewEnvironment(env)); d != nil {
			return d
		}
	}
}

func (r *run) execAction(s *ast.Action) *diag.Diagnostic {
	switch s.Op {
	case ast.ActionMove:
		if err := r.world.Move(); err != nil {
			return r.fail(s.Pos(), "%v", err)
		}
	case ast.ActionTurnLeft:
		r.world.TurnLeft()
	case ast.ActionTurnRight:
		r.world.TurnRight()
	case ast.ActionClean:
		r.world.Clean()
	case ast.ActionSense:
		// Sensing as a statement observes nothing; it mutates no state
		// and leaves no trace entry.
		return nil
	default:
		return r.fail(s.Pos(), "unknown action %s", s.Op)
	}

	r.effects = append(r.effects, Effect{
		Action: s.Op.String(),
		Line:   s.Pos().Line,
		Column: s.Pos().Column,
		X:      r.world.AgentX,
		Y:      r.world.AgentY,
		Facing: r.world.Facing,
	})
	return nil
}

// step consumes one unit of the run budget.
func (r *run) step(pos ast.Position) *diag.Diagnostic {
	r.steps++
	if r.steps > r.cfg.MaxSteps {
		return r.fail(pos, "step budget exhausted after %d steps", r.cfg.MaxSteps)
	}
	return nil
}

func (r *run) fail(pos ast.Position, format string, args ...any) *diag.Diagnostic {
	return diag.Errorf(diag.StageRuntime, pos.Line, pos.Column, format, args...)
}

func (r *run) evalBool(e ast.Expr, env *Environment) (bool, *diag.Diagnostic) {
	v, d := r.eval(e, env)
	if d != nil {
		return false, d
	}
	if v.Type != value.TypeBool {
		return false, r.fail(e.Pos(), "condition evaluated to %s, want bool", v.Type)
	}
	return v.IsTrue(), nil
}

func (r *run) eval(e ast.Expr, env *Environment) (value.Value, *diag.Diagnostic) {
	switch e := e.(type) {
	case *ast.Literal:
		return literalValue(e), nil
	case *ast.VarRef:
		v, err := env.Get(e.Name)
		if err != nil {
			return value.Void, r.fail(e.Pos(), "%v", err)
		}
		return v, nil
	case *ast.SensorCheck:
		if e.Name != "sense" {
			return value.Void, r.fail(e.Pos(), "unknown sensor %q", e.Name)
		}
		return value.Bool(r.world.Sense()), nil
	case *ast.UnaryExpr:
		v, d := r.eval(e.Operand, env)
		if d != nil {
			return value.Void, d
		}
		if v.Type != value.TypeBool {
			return value.Void, r.fail(e.Pos(), "operand of 'not' evaluated to %s, want bool", v.Type)
		}
		return value.Bool(!v.IsTrue()), nil
	case *ast.BinaryExpr:
		return r.evalBinary(e, env)
	default:
		return value.Void, r.fail(e.Pos(), "unexpected expression node %T", e)
	}
}

func (r *run) evalBinary(e *ast.BinaryExpr, env *Environment) (value.Value, *diag.Diagnostic) {
	// and/or short-circuit: the right operand is not evaluated when the
	// left already decides the result.
	if e.Op.IsLogical() {
		left, d := r.evalBoolOperand(e.Left, env, e.Op)
		if d != nil {
			return value.Void, d
		}
		if e.Op == ast.OpAnd && !left {
			return value.Bool(false), nil
		}
		if e.Op == ast.OpOr && left {
			return value.Bool(true), nil
		}
		right, d := r.evalBoolOperand(e.Right, env, e.Op)
		if d != nil {
			return value.Void, d
		}
		return value.Bool(right), nil
	}

	left, d := r.eval(e.Left, env)
	if d != nil {
		return value.Void, d
	}
	right, d := r.eval(e.Right, env)
	if d != nil {
		return value.Void, d
	}

	if e.Op == ast.OpEq || e.Op == ast.OpNeq {
		if left.Type != right.Type {
			return value.Void, r.fail(e.Pos(), "cannot compare %s with %s", left.Type, right.Type)
		}
		eq := left.Equal(right)
		if e.Op == ast.OpNeq {
			eq = !eq
		}
		return value.Bool(eq), nil
	}

	if left.Type != value.TypeInt || right.Type != value.TypeInt {
		return value.Void, r.fail(e.Pos(), "operands of %q evaluated to %s and %s, want int",
			e.Op, left.Type, right.Type)
	}
	a, b := left.Int64(), right.Int64()

	switch e.Op {
	case ast.OpAdd:
		return value.Int(a + b), nil
	case ast.OpSub:
		return value.Int(a - b), nil
	case ast.OpMul:
		return value.Int(a * b), nil
	case ast.OpDiv:
		if b == 0 {
			return value.Void, r.fail(e.Pos(), "division by zero")
		}
		return value.Int(floorDiv(a, b)), nil
	case ast.OpLt:
		return value.Bool(a < b), nil
	case ast.OpLe:
		return value.Bool(a <= b), nil
	case ast.OpGt:
		return value.Bool(a > b), nil
	case ast.OpGe:
		return value.Bool(a >= b), nil
	default:
		return value.Void, r.fail(e.Pos(), "unknown operator %q", e.Op)
	}
}

func (r *run) evalBoolOperand(e ast.Expr, env *Environment, op ast.BinOp) (bool, *diag.Diagnostic) {
	v, d := r.eval(e, env)
	if d != nil {
		return false, d
	}
	if v.Type != value.TypeBool {
		return false, r.fail(e.Pos(), "operand of %q evaluated to %s, want bool", op, v.Type)
	}
	return v.IsTrue(), nil
}

// floorDiv divides rounding toward negative infinity, so -3 / 2 is -2.
// Go's operator truncates toward zero instead.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func literalValue(l *ast.Literal) value.Value {
	switch l.Type {
	case ast.TypeInt:
		return value.Int(l.Int)
	case ast.TypeBool:
		return value.Bool(l.Bool)
	case ast.TypeDirection:
		return value.Direction(l.Text)
	case ast.TypeString:
		return value.String(l.Text)
	default:
		return value.Void
	}
}

func runtimeType(t ast.Type) value.Type {
	switch t {
	case ast.TypeInt:
		return value.TypeInt
	case ast.TypeBool:
		return value.TypeBool
	case ast.TypeDirection:
		return value.TypeDirection
	case ast.TypeString:
		return value.TypeString
	default:
		return value.TypeVoid
	}
}
