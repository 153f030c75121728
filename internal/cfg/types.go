package cfg

import "errors"

type BlockID int32

const NoBlockID BlockID = -1

// NoNum marks sentinel blocks, which have no numeric suffix.
const NoNum = -1

type BlockKind uint8

const (
	BlockNormal BlockKind = iota
	BlockEntry
	BlockExit
)

// ErrMalformed reports a syntax tree or graph shape the builder cannot handle.
var ErrMalformed = errors.New("cfg: malformed input")

// BranchRole names the symbolic target a branching statement refers to.
type BranchRole uint8

const (
	RoleThen BranchRole = iota
	RoleElse
	RoleLoopEnd
)

func (r BranchRole) String() string {
	switch r {
	case RoleThen:
		return "then"
	case RoleElse:
		return "else"
	case RoleLoopEnd:
		return "loop_end"
	default:
		return "role(?)"
	}
}

// Placeholder is the token printed for a branch whose final block is not known yet.
func (r BranchRole) Placeholder() string {
	switch r {
	case RoleThen:
		return "@THEN_BLOCK@"
	case RoleElse:
		return "@ELSE_BLOCK@"
	case RoleLoopEnd:
		return "@FOLLOW_BLOCK@"
	default:
		return "@UNKNOWN_BLOCK@"
	}
}
