package ast

import (
	"cfa/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprNumber
	ExprCall
	ExprBinary
	ExprUnary
	ExprGroup
)

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprBinaryOp uint8

const (
	ExprBinaryInvalid ExprBinaryOp = iota
	ExprBinaryOr
	ExprBinaryAnd
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq
	ExprBinaryAdd
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod
)

var binaryOpText = [...]string{
	ExprBinaryInvalid:   "?",
	ExprBinaryOr:        "||",
	ExprBinaryAnd:       "&&",
	ExprBinaryEq:        "==",
	ExprBinaryNotEq:     "!=",
	ExprBinaryLess:      "<",
	ExprBinaryLessEq:    "<=",
	ExprBinaryGreater:   ">",
	ExprBinaryGreaterEq: ">=",
	ExprBinaryAdd:       "+",
	ExprBinarySub:       "-",
	ExprBinaryMul:       "*",
	ExprBinaryDiv:       "/",
	ExprBinaryMod:       "%",
}

func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

type ExprUnaryOp uint8

const (
	ExprUnaryNeg ExprUnaryOp = iota
	ExprUnaryPlus
	ExprUnaryNot
)

func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryNeg:
		return "-"
	case ExprUnaryPlus:
		return "+"
	case ExprUnaryNot:
		return "!"
	default:
		return "?"
	}
}

type ExprNumberKind uint8

const (
	ExprNumberInt ExprNumberKind = iota
	ExprNumberFloat
)

type ExprIdentData struct {
	Name string
}

type ExprNumberData struct {
	Kind ExprNumberKind
	Raw  string
}

// ExprCallData is `callee(args)`; ArgsSpan covers the text between the parentheses.
type ExprCallData struct {
	Callee     string
	CalleeSpan source.Span
	Args       []ExprID
	ArgsSpan   source.Span
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprGroupData struct {
	Inner ExprID
}
