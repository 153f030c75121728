package ast

// TypeName is one of the scalar type keywords of the language.
type TypeName uint8

const (
	TypeInvalid TypeName = iota
	TypeInt
	TypeFloat
	TypeDouble
	TypeChar
	TypeVoid
)

func (t TypeName) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeChar:
		return "char"
	case TypeVoid:
		return "void"
	default:
		return "<invalid>"
	}
}
