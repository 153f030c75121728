package cfg

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type StmtKind uint8

const (
	// StmtPlain is a statement whose text is final when built.
	StmtPlain StmtKind = iota
	// StmtIf holds an if-condition with then and optional else branches.
	StmtIf
	// StmtLoop holds a while/for condition with its loop_end branch.
	StmtLoop
)

// Branch is the annotation of a branching statement. Until label resolution
// runs it only knows its role; afterwards Target is the final block.
type Branch struct {
	Role     BranchRole
	Target   BlockID
	Resolved bool
}

// Stmt is one entry of a block's statement list.
// For branching kinds Text is the header ("if (c)", "while (c)", "for (c)").
type Stmt struct {
	Kind     StmtKind
	Text     string
	Branches []Branch
}

func (s *Stmt) branch(role BranchRole) *Branch {
	for i := range s.Branches {
		if s.Branches[i].Role == role {
			return &s.Branches[i]
		}
	}
	return nil
}

// HasUnresolved reports whether any branch still prints a placeholder.
func (s *Stmt) HasUnresolved() bool {
	for _, br := range s.Branches {
		if !br.Resolved {
			return true
		}
	}
	return false
}

// Render produces the statement text as it appears in the CFG dump.
func (s *Stmt) Render(f *Func) string {
	label := func(role BranchRole) string {
		br := s.branch(role)
		if br == nil || !br.Resolved {
			return role.Placeholder()
		}
		return f.BlockName(br.Target)
	}

	switch s.Kind {
	case StmtIf:
		var sb strings.Builder
		sb.WriteString(s.Text)
		sb.WriteString(" # then: ")
		sb.WriteString(label(RoleThen))
		if s.branch(RoleElse) != nil {
			// else выравнивается под конец "if (cond)"
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", runewidth.StringWidth(s.Text)))
			sb.WriteString(" # else: ")
			sb.WriteString(label(RoleElse))
		}
		return sb.String()
	case StmtLoop:
		return s.Text + " # loop_end: " + label(RoleLoopEnd)
	default:
		return s.Text
	}
}
