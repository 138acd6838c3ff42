// Package parser builds a concrete syntax tree from the token stream.
//
// The parser is deterministic top-down with one token of lookahead; the
// leading keyword of each statement selects the production. It is
// single-shot: the first token that cannot continue any production stops
// the stage with a PARSE diagnostic, no recovery is attempted.
package parser

import (
	"github.com/cleanworld/cleanc/pkg/compiler/cst"
	"github.com/cleanworld/cleanc/pkg/compiler/lexer"
	"github.com/cleanworld/cleanc/pkg/diag"
)

// Parser consumes tokens from a scanner and emits a CST.
type Parser struct {
	scanner *lexer.Scanner
	curTok  lexer.Token
	failure *diag.Diagnostic
}

// NewParser creates a parser reading from the given scanner.
func NewParser(s *lexer.Scanner) *Parser {
	p := &Parser{scanner: s}
	p.advance()
	return p
}

// Parse parses a whole program and returns the CST root, or the first
// LEX/PARSE diagnostic encountered.
func Parse(source []byte) (*cst.Node, *diag.Diagnostic) {
	p := NewParser(lexer.NewScanner(source))
	return p.Program()
}

// Program parses <program> ::= 'program' ID '{' <world_def> <declarations> <statements> '}'.
func (p *Parser) Program() (*cst.Node, *diag.Diagnostic) {
	root := cst.New(cst.RuleProgram)

	root.Add(p.eat(lexer.KindProgram))
	root.Add(p.eat(lexer.KindIdentifier))
	root.Add(p.eat(lexer.KindLBrace))

	root.Add(p.worldDef())
	root.Add(p.declarations())
	root.Add(p.statements())

	root.Add(p.eat(lexer.KindRBrace))
	p.eatEOF()

	if p.failure != nil {
		return nil, p.failure
	}
	return root, nil
}

func (p *Parser) advance() {
	p.curTok = p.scanner.Next()
	if p.curTok.Kind == lexer.KindError && p.failure == nil {
		p.failure = diag.Errorf(diag.StageLex, p.curTok.Line, p.curTok.Column,
			"unexpected character sequence %q", p.curTok.Lexeme)
	}
}

// eat consumes the current token if it matches, producing a terminal leaf.
// On mismatch it records the stage failure; subsequent eats are no-ops so
// the production methods can stay straight-line.
func (p *Parser) eat(kind lexer.Kind) *cst.Node {
	if p.failure != nil {
		return nil
	}
	if p.curTok.Kind != kind {
		p.fail("expected %s but found %s %q", kind, p.curTok.Kind, p.curTok.Lexeme)
		return nil
	}
	node := cst.Terminal(p.curTok.Lexeme, p.curTok.Line, p.curTok.Column)
	p.advance()
	return node
}

func (p *Parser) eatEOF() {
	if p.failure == nil && p.curTok.Kind != lexer.KindEOF {
		p.fail("expected end of program but found %s %q", p.curTok.Kind, p.curTok.Lexeme)
	}
}

func (p *Parser) fail(format string, args ...any) {
	if p.failure == nil {
		p.failure = diag.Errorf(diag.StageParse, p.curTok.Line, p.curTok.Column, format, args...)
	}
}

func (p *Parser) peek() lexer.Kind {
	if p.failure != nil {
		return lexer.KindEOF
	}
	return p.curTok.Kind
}

// worldDef parses <world_def> ::= 'grid' '(' INT ',' INT ')' ';'.
func (p *Parser) worldDef() *cst.Node {
	node := cst.New(cst.RuleWorldDef)
	node.Add(p.eat(lexer.KindGrid))
	node.Add(p.eat(lexer.KindLParen))
	node.Add(p.eat(lexer.KindIntLiteral))
	node.Add(p.eat(lexer.KindComma))
	node.Add(p.eat(lexer.KindIntLiteral))
	node.Add(p.eat(lexer.KindRParen))
	node.Add(p.eat(lexer.KindSemicolon))
	return node
}

// declarations parses <declarations> ::= { <declaration> }.
func (p *Parser) declarations() *cst.Node {
	node := cst.New(cst.RuleDeclarations)
	for p.peek() == lexer.KindConst || p.peek() == lexer.KindVar {
		node.Add(p.declaration())
	}
	return node
}

func (p *Parser) declaration() *cst.Node {
	node := cst.New(cst.RuleDeclaration)

	switch p.peek() {
	case lexer.KindConst:
		// CONST ID ':' <type> '=' <expression> ';'
		node.Add(p.eat(lexer.KindConst))
		node.Add(p.eat(lexer.KindIdentifier))
		node.Add(p.eat(lexer.KindColon))
		node.Add(p.typeSpec())
		node.Add(p.eat(lexer.KindAssign))
		node.Add(p.expression())
		node.Add(p.eat(lexer.KindSemicolon))
	case lexer.KindVar:
		// VAR ID ':' <type> <var_tail>   (left-factored)
		node.Add(p.eat(lexer.KindVar))
		node.Add(p.eat(lexer.KindIdentifier))
		node.Add(p.eat(lexer.KindColon))
		node.Add(p.typeSpec())
		node.Add(p.varTail())
	default:
		p.fail("expected 'const' or 'var', found %s", p.curTok.Kind)
	}
	return node
}

// varTail parses <var_tail> ::= ';' | '=' <expression> ';'.
func (p *Parser) varTail() *cst.Node {
	node := cst.New(cst.RuleVarTail)
	switch p.peek() {
	case lexer.KindSemicolon:
		node.Add(p.eat(lexer.KindSemicolon))
	case lexer.KindAssign:
		node.Add(p.eat(lexer.KindAssign))
		node.Add(p.expression())
		node.Add(p.eat(lexer.KindSemicolon))
	default:
		p.fail("expected ';' or '=' in variable declaration, found %s", p.curTok.Kind)
	}
	return node
}

func (p *Parser) typeSpec() *cst.Node {
	node := cst.New(cst.RuleType)
	switch p.peek() {
	case lexer.KindTypeInt, lexer.KindTypeBool, lexer.KindTypeDirection:
		node.Add(p.eat(p.peek()))
	default:
		p.fail("expected type, found %s", p.curTok.Kind)
	}
	return node
}

// statements parses <statements> ::= { <statement> }.
func (p *Parser) statements() *cst.Node {
	node := cst.New(cst.RuleStatements)
	for p.startsStatement() {
		node.Add(p.statement())
	}
	return node
}

func (p *Parser) startsStatement() bool {
	switch p.peek() {
	case lexer.KindIdentifier, lexer.KindIf, lexer.KindWhile, lexer.KindLBrace:
		return true
	}
	return p.failure == nil && p.curTok.IsAction()
}

func (p *Parser) statement() *cst.Node {
	switch {
	case p.peek() == lexer.KindIdentifier:
		return p.assignment()
	case p.peek() == lexer.KindIf:
		return p.ifStatement()
	case p.peek() == lexer.KindWhile:
		return p.whileStatement()
	case p.peek() == lexer.KindLBrace:
		return p.block()
	case p.failure == nil && p.curTok.IsAction():
		return p.action()
	default:
		p.fail("unexpected token in statement: %s", p.curTok.Kind)
		return nil
	}
}

// block parses <block> ::= '{' <statements> '}'.
func (p *Parser) block() *cst.Node {
	node := cst.New(cst.RuleBlock)
	node.Add(p.eat(lexer.KindLBrace))
	node.Add(p.statements())
	node.Add(p.eat(lexer.KindRBrace))
	return node
}

// assignment parses <assignment> ::= ID '=' <expression> ';'.
func (p *Parser) assignment() *cst.Node {
	node := cst.New(cst.RuleAssignment)
	node.Add(p.eat(lexer.KindIdentifier))
	node.Add(p.eat(lexer.KindAssign))
	node.Add(p.expression())
	node.Add(p.eat(lexer.KindSemicolon))
	return node
}

// ifStatement parses <if> ::= 'if' '(' <condition> ')' <block> <else_part>.
func (p *Parser) ifStatement() *cst.Node {
	node := cst.New(cst.RuleIfStatement)
	node.Add(p.eat(lexer.KindIf))
	node.Add(p.eat(lexer.KindLParen))
	node.Add(p.condition())
	node.Add(p.eat(lexer.KindRParen))
	node.Add(p.block())
	node.Add(p.elsePart())
	return node
}

// elsePart parses <else_part> ::= 'else' <block> | ε. Consuming the else
// here binds a dangling else to the nearest unmatched if.
func (p *Parser) elsePart() *cst.Node {
	node := cst.New(cst.RuleElsePart)
	if p.peek() == lexer.KindElse {
		node.Add(p.eat(lexer.KindElse))
		node.Add(p.block())
	}
	return node
}

// whileStatement parses <while> ::= 'while' '(' <condition> ')' <block>.
func (p *Parser) whileStatement() *cst.Node {
	node := cst.New(cst.RuleWhileStatement)
	node.Add(p.eat(lexer.KindWhile))
	node.Add(p.eat(lexer.KindLParen))
	node.Add(p.condition())
	node.Add(p.eat(lexer.KindRParen))
	node.Add(p.block())
	return node
}

// action parses <action> ::= ('move'|'turnLeft'|'turnRight'|'clean'|'sense') ';'.
func (p *Parser) action() *cst.Node {
	node := cst.New(cst.RuleAction)
	node.Add(p.eat(p.peek()))
	node.Add(p.eat(lexer.KindSemicolon))
	return node
}

// condition parses <condition> ::= <expression> <condition_tail>.
func (p *Parser) condition() *cst.Node {
	node := cst.New(cst.RuleCondition)
	node.Add(p.expression())
	node.Add(p.conditionTail())
	return node
}

// conditionTail parses <condition_tail> ::= <rel_op> <expression> | ε.
func (p *Parser) conditionTail() *cst.Node {
	node := cst.New(cst.RuleConditionTail)
	if p.failure == nil && p.curTok.IsRelOp() {
		node.Add(p.relOp())
		node.Add(p.expression())
	}
	return node
}

func (p *Parser) relOp() *cst.Node {
	node := cst.New(cst.RuleRelOp)
	node.Add(p.eat(p.peek()))
	return node
}

// expression parses <expression> ::= <term> <expression_tail>.
func (p *Parser) expression() *cst.Node {
	node := cst.New(cst.RuleExpression)
	node.Add(p.term())
	node.Add(p.expressionTail())
	return node
}

// expressionTail parses <expression_tail> ::= <add_op> <term> <expression_tail> | ε.
func (p *Parser) expressionTail() *cst.Node {
	node := cst.New(cst.RuleExpressionTail)
	switch p.peek() {
	case lexer.KindPlus, lexer.KindMinus, lexer.KindOr:
		node.Add(p.addOp())
		node.Add(p.term())
		node.Add(p.expressionTail())
	}
	return node
}

// term parses <term> ::= <factor> <term_tail>.
func (p *Parser) term() *cst.Node {
	node := cst.New(cst.RuleTerm)
	node.Add(p.factor())
	node.Add(p.termTail())
	return node
}

// termTail parses <term_tail> ::= <mul_op> <factor> <term_tail> | ε.
func (p *Parser) termTail() *cst.Node {
	node := cst.New(cst.RuleTermTail)
	switch p.peek() {
	case lexer.KindMul, lexer.KindDiv, lexer.KindAnd:
		node.Add(p.mulOp())
		node.Add(p.factor())
		node.Add(p.termTail())
	}
	return node
}

// factor parses <factor> ::= ID | <literal> | '(' <expression> ')' | 'sense' | 'not' <factor>.
func (p *Parser) factor() *cst.Node {
	node := cst.New(cst.RuleFactor)
	switch {
	case p.peek() == lexer.KindIdentifier:
		node.Add(p.eat(lexer.KindIdentifier))
	case p.failure == nil && p.curTok.IsLiteral():
		node.Add(p.literal())
	case p.peek() == lexer.KindLParen:
		node.Add(p.eat(lexer.KindLParen))
		node.Add(p.expression())
		node.Add(p.eat(lexer.KindRParen))
	case p.peek() == lexer.KindSense:
		node.Add(p.eat(lexer.KindSense))
	case p.peek() == lexer.KindNot:
		node.Add(p.eat(lexer.KindNot))
		node.Add(p.factor())
	default:
		p.fail("unexpected token in expression: %s %q", p.curTok.Kind, p.curTok.Lexeme)
	}
	return node
}

func (p *Parser) literal() *cst.Node {
	node := cst.New(cst.RuleLiteral)
	node.Add(p.eat(p.peek()))
	return node
}

func (p *Parser) addOp() *cst.Node {
	node := cst.New(cst.RuleAddOp)
	node.Add(p.eat(p.peek()))
	return node
}

func (p *Parser) mulOp() *cst.Node {
	node := cst.New(cst.RuleMulOp)
	node.Add(p.eat(p.peek()))
	return node
}
