package ast

import (
	"encoding/json"
	"fmt"
	"io"
)

// envelope is the tagged-node artifact shape: a kind field naming the
// variant plus the fields that variant carries. One struct covers every
// variant; omitempty keeps the artifacts minimal.
type envelope struct {
	Kind   string `json:"kind"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`

	Name    string      `json:"name,omitempty"`
	VarType string      `json:"varType,omitempty"`
	Op      string      `json:"op,omitempty"`
	Action  string      `json:"action,omitempty"`
	Width   int         `json:"width,omitempty"`
	Height  int         `json:"height,omitempty"`
	Int     *int64      `json:"int,omitempty"`
	Bool    *bool       `json:"bool,omitempty"`
	Text    string      `json:"text,omitempty"`
	World   *envelope   `json:"world,omitempty"`
	Value   *envelope   `json:"value,omitempty"`
	Init    *envelope   `json:"init,omitempty"`
	Cond    *envelope   `json:"cond,omitempty"`
	Left    *envelope   `json:"left,omitempty"`
	Right   *envelope   `json:"right,omitempty"`
	Operand *envelope   `json:"operand,omitempty"`
	Body    []*envelope `json:"body,omitempty"`
	Then    []*envelope `json:"then,omitempty"`
	Else    []*envelope `json:"else,omitempty"`
}

// Encode writes a program as an indented JSON artifact.
func Encode(w io.Writer, prog *Program) error {
	env, err := encodeNode(prog)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// Decode reads a program artifact, rejecting unknown kinds and missing
// fields so corrupt artifacts fail at the stage boundary.
func Decode(r io.Reader) (*Program, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("ast: decoding artifact: %w", err)
	}
	node, err := decodeNode(&env)
	if err != nil {
		return nil, err
	}
	prog, ok := node.(*Program)
	if !ok {
		return nil, fmt.Errorf("ast: artifact root is %q, want Program", env.Kind)
	}
	return prog, nil
}

func encodeNode(n Node) (*envelope, error) {
	if n == nil {
		return nil, nil
	}
	pos := n.Pos()
	env := &envelope{Line: pos.Line, Column: pos.Column}

	switch n := n.(type) {
	case *Program:
		env.Kind = "Program"
		env.Name = n.Name
		if n.World != nil {
			world, err := encodeNode(n.World)
			if err != nil {
				return nil, err
			}
			env.World = world
		}
		body, err := encodeStmts(n.Body)
		if err != nil {
			return nil, err
		}
		env.Body = body
	case *WorldDef:
		env.Kind = "WorldDef"
		env.Width = n.Width
		env.Height = n.Height
	case *ConstDecl:
		env.Kind = "ConstDecl"
		env.Name = n.Name
		env.VarType = n.Type.String()
		value, err := encodeNode(n.Value)
		if err != nil {
			return nil, err
		}
		env.Value = value
	case *VarDecl:
		env.Kind = "VarDecl"
		env.Name = n.Name
		env.VarType = n.Type.String()
		if n.Init != nil {
			init, err := encodeNode(n.Init)
			if err != nil {
				return nil, err
			}
			env.Init = init
		}
	case *Assign:
		env.Kind = "Assign"
		env.Name = n.Name
		value, err := encodeNode(n.Value)
		if err != nil {
			return nil, err
		}
		env.Value = value
	case *If:
		env.Kind = "If"
		cond, err := encodeNode(n.Cond)
		if err != nil {
			return nil, err
		}
		env.Cond = cond
		if env.Then, err = encodeStmts(n.Then); err != nil {
			return nil, err
		}
		if env.Else, err = encodeStmts(n.Else); err != nil {
			return nil, err
		}
	case *While:
		env.Kind = "While"
		cond, err := encodeNode(n.Cond)
		if err != nil {
			return nil, err
		}
		env.Cond = cond
		if env.Body, err = encodeStmts(n.Body); err != nil {
			return nil, err
		}
	case *Block:
		env.Kind = "Block"
		body, err := encodeStmts(n.Body)
		if err != nil {
			return nil, err
		}
		env.Body = body
	case *Action:
		env.Kind = "Action"
		env.Action = n.Op.String()
	case *BinaryExpr:
		env.Kind = "BinaryExpr"
		env.Op = n.Op.String()
		left, err := encodeNode(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := encodeNode(n.Right)
		if err != nil {
			return nil, err
		}
		env.Left, env.Right = left, right
	case *UnaryExpr:
		env.Kind = "UnaryExpr"
		env.Op = "not"
		operand, err := encodeNode(n.Operand)
		if err != nil {
			return nil, err
		}
		env.Operand = operand
	case *Literal:
		env.Kind = "Literal"
		env.VarType = n.Type.String()
		switch n.Type {
		case TypeInt:
			v := n.Int
			env.Int = &v
		case TypeBool:
			v := n.Bool
			env.Bool = &v
		case TypeDirection, TypeString:
			env.Text = n.Text
		}
	case *VarRef:
		env.Kind = "VarRef"
		env.Name = n.Name
	case *SensorCheck:
		env.Kind = "SensorCheck"
		env.Name = n.Name
	default:
		return nil, fmt.Errorf("ast: cannot encode node type %T", n)
	}
	return env, nil
}

func encodeStmts(stmts []Stmt) ([]*envelope, error) {
	out := make([]*envelope, 0, len(stmts))
	for _, s := range stmts {
		env, err := encodeNode(s)
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return out, nil
}

func decodeNode(env *envelope) (Node, error) {
	if env == nil {
		return nil, nil
	}
	pos := Position{Line: env.Line, Column: env.Column}

	switch env.Kind {
	case "Program":
		var world *WorldDef
		if env.World != nil {
			node, err := decodeNode(env.World)
			if err != nil {
				return nil, err
			}
			w, ok := node.(*WorldDef)
			if !ok {
				return nil, fmt.Errorf("ast: Program.world is %q, want WorldDef", env.World.Kind)
			}
			world = w
		}
		body, err := decodeStmts(env.Body)
		if err != nil {
			return nil, err
		}
		return &Program{Position: pos, Name: env.Name, World: world, Body: body}, nil
	case "WorldDef":
		return &WorldDef{Position: pos, Width: env.Width, Height: env.Height}, nil
	case "ConstDecl":
		typ, err := ParseType(env.VarType)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(env.Value)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, fmt.Errorf("ast: ConstDecl %q missing value", env.Name)
		}
		return &ConstDecl{Position: pos, Name: env.Name, Type: typ, Value: value}, nil
	case "VarDecl":
		typ, err := ParseType(env.VarType)
		if err != nil {
			return nil, err
		}
		init, err := decodeExpr(env.Init)
		if err != nil {
			return nil, err
		}
		return &VarDecl{Position: pos, Name: env.Name, Type: typ, Init: init}, nil
	case "Assign":
		value, err := decodeExpr(env.Value)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, fmt.Errorf("ast: Assign %q missing value", env.Name)
		}
		return &Assign{Position: pos, Name: env.Name, Value: value}, nil
	case "If":
		cond, err := decodeExpr(env.Cond)
		if err != nil {
			return nil, err
		}
		if cond == nil {
			return nil, fmt.Errorf("ast: If missing condition")
		}
		then, err := decodeStmts(env.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeStmts(env.Else)
		if err != nil {
			return nil, err
		}
		return &If{Position: pos, Cond: cond, Then: then, Else: els}, nil
	case "While":
		cond, err := decodeExpr(env.Cond)
		if err != nil {
			return nil, err
		}
		if cond == nil {
			return nil, fmt.Errorf("ast: While missing condition")
		}
		body, err := decodeStmts(env.Body)
		if err != nil {
			return nil, err
		}
		return &While{Position: pos, Cond: cond, Body: body}, nil
	case "Block":
		body, err := decodeStmts(env.Body)
		if err != nil {
			return nil, err
		}
		return &Block{Position: pos, Body: body}, nil
	case "Action":
		op, err := ParseAction(env.Action)
		if err != nil {
			return nil, err
		}
		return &Action{Position: pos, Op: op}, nil
	case "BinaryExpr":
		op, err := ParseBinOp(env.Op)
		if err != nil {
			return nil, err
		}
		left, err := decodeExpr(env.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(env.Right)
		if err != nil {
			return nil, err
		}
		if left == nil || right == nil {
			return nil, fmt.Errorf("ast: BinaryExpr %q missing operand", env.Op)
		}
		return &BinaryExpr{Position: pos, Op: op, Left: left, Right: right}, nil
	case "UnaryExpr":
		operand, err := decodeExpr(env.Operand)
		if err != nil {
			return nil, err
		}
		if operand == nil {
			return nil, fmt.Errorf("ast: UnaryExpr missing operand")
		}
		return &UnaryExpr{Position: pos, Operand: operand}, nil
	case "Literal":
		lit := &Literal{Position: pos}
		switch env.VarType {
		case "int":
			lit.Type = TypeInt
			if env.Int == nil {
				return nil, fmt.Errorf("ast: int literal missing value")
			}
			lit.Int = *env.Int
		case "bool":
			lit.Type = TypeBool
			if env.Bool == nil {
				return nil, fmt.Errorf("ast: bool literal missing value")
			}
			lit.Bool = *env.Bool
		case "direction":
			lit.Type = TypeDirection
			lit.Text = env.Text
		case "string":
			lit.Type = TypeString
			lit.Text = env.Text
		default:
			return nil, fmt.Errorf("ast: unknown literal type %q", env.VarType)
		}
		return lit, nil
	case "VarRef":
		return &VarRef{Position: pos, Name: env.Name}, nil
	case "SensorCheck":
		return &SensorCheck{Position: pos, Name: env.Name}, nil
	default:
		return nil, fmt.Errorf("ast: unknown node kind %q", env.Kind)
	}
}

func decodeExpr(env *envelope) (Expr, error) {
	if env == nil {
		return nil, nil
	}
	node, err := decodeNode(env)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(Expr)
	if !ok {
		return nil, fmt.Errorf("ast: %q is not an expression", env.Kind)
	}
	return expr, nil
}

func decodeStmts(envs []*envelope) ([]Stmt, error) {
	out := make([]Stmt, 0, len(envs))
	for _, env := range envs {
		node, err := decodeNode(env)
		if err != nil {
			return nil, err
		}
		stmt, ok := node.(Stmt)
		if !ok {
			return nil, fmt.Errorf("ast: %q is not a statement", env.Kind)
		}
		out = append(out, stmt)
	}
	return out, nil
}
