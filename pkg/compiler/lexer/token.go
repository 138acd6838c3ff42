package lexer

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindEOF Kind = iota
	KindError

	// Structure keywords
	KindProgram
	KindGrid
	KindConst
	KindVar

	// Type keywords
	KindTypeInt
	KindTypeBool
	KindTypeDirection

	// Control flow
	KindIf
	KindElse
	KindWhile

	// Agent actions
	KindMove
	KindTurnLeft
	KindTurnRight
	KindClean
	KindSense

	// Literals
	KindIntLiteral
	KindBoolLiteral
	KindDirectionLiteral
	KindStringLiteral

	// Logical operators
	KindAnd
	KindOr
	KindNot

	// Operators and punctuation
	KindEq        // ==
	KindNeq       // !=
	KindLe        // <=
	KindGe        // >=
	KindLt        // <
	KindGt        // >
	KindAssign    // =
	KindPlus      // +
	KindMinus     // -
	KindMul       // *
	KindDiv       // /
	KindLParen    // (
	KindRParen    // )
	KindLBrace    // {
	KindRBrace    // }
	KindSemicolon // ;
	KindColon     // :
	KindComma     // ,

	KindIdentifier
)

var kindNames = map[Kind]string{
	KindEOF:              "EOF",
	KindError:            "ERROR",
	KindProgram:          "PROGRAM",
	KindGrid:             "GRID",
	KindConst:            "CONST",
	KindVar:              "VAR",
	KindTypeInt:          "TYPE_INT",
	KindTypeBool:         "TYPE_BOOL",
	KindTypeDirection:    "TYPE_DIRECTION",
	KindIf:               "IF",
	KindElse:             "ELSE",
	KindWhile:            "WHILE",
	KindMove:             "MOVE",
	KindTurnLeft:         "TURN_LEFT",
	KindTurnRight:        "TURN_RIGHT",
	KindClean:            "CLEAN",
	KindSense:            "SENSE",
	KindIntLiteral:       "INT_LITERAL",
	KindBoolLiteral:      "BOOL_LITERAL",
	KindDirectionLiteral: "DIRECTION_LITERAL",
	KindStringLiteral:    "STRING_LITERAL",
	KindAnd:              "AND",
	KindOr:               "OR",
	KindNot:              "NOT",
	KindEq:               "EQ",
	KindNeq:              "NEQ",
	KindLe:               "LE",
	KindGe:               "GE",
	KindLt:               "LT",
	KindGt:               "GT",
	KindAssign:           "ASSIGN",
	KindPlus:             "PLUS",
	KindMinus:            "MINUS",
	KindMul:              "MUL",
	KindDiv:              "DIV",
	KindLParen:           "LPAREN",
	KindRParen:           "RPAREN",
	KindLBrace:           "LBRACE",
	KindRBrace:           "RBRACE",
	KindSemicolon:        "SEMICOLON",
	KindColon:            "COLON",
	KindComma:            "COMMA",
	KindIdentifier:       "ID",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// keywords maps reserved words to their token kinds. The lookup happens
// after a full identifier is scanned, so "movement" stays an identifier.
var keywords = map[string]Kind{
	"program":   KindProgram,
	"grid":      KindGrid,
	"const":     KindConst,
	"var":       KindVar,
	"int":       KindTypeInt,
	"bool":      KindTypeBool,
	"direction": KindTypeDirection,
	"if":        KindIf,
	"else":      KindElse,
	"while":     KindWhile,
	"move":      KindMove,
	"turnLeft":  KindTurnLeft,
	"turnRight": KindTurnRight,
	"clean":     KindClean,
	"sense":     KindSense,
	"and":       KindAnd,
	"or":        KindOr,
	"not":       KindNot,
	"true":      KindBoolLiteral,
	"false":     KindBoolLiteral,
	"north":     KindDirectionLiteral,
	"south":     KindDirectionLiteral,
	"east":      KindDirectionLiteral,
	"west":      KindDirectionLiteral,
}

// Token represents a lexical unit pointing back to the source.
type Token struct {
	Kind   Kind
	Lexeme string
	Offset int
	Line   int
	Column int
}

// IsAction reports whether the token starts an action statement.
func (t Token) IsAction() bool {
	switch t.Kind {
	case KindMove, KindTurnLeft, KindTurnRight, KindClean, KindSense:
		return true
	}
	return false
}

// IsLiteral reports whether the token is a literal of any kind.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case KindIntLiteral, KindBoolLiteral, KindDirectionLiteral, KindStringLiteral:
		return true
	}
	return false
}

// IsRelOp reports whether the token is a relational operator.
func (t Token) IsRelOp() bool {
	switch t.Kind {
	case KindEq, KindNeq, KindLt, KindLe, KindGt, KindGe:
		return true
	}
	return false
}
