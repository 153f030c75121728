package cfg

import (
	"fmt"
	"io"
	"strings"
)

// DumpOptions configures CFG dumping.
type DumpOptions struct {
	// DefUse appends USE/DEF lines to every block.
	DefUse bool
}

// DumpProgram writes the CFG text of a program. Unresolved branches print as placeholders.
func DumpProgram(w io.Writer, p *Program, opts DumpOptions) error {
	if w == nil || p == nil {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("# Control Flow Graph\n\n")
	sb.WriteString("@globals {\n")
	for _, g := range p.Globals {
		fmt.Fprintf(&sb, "    %s\n", g)
	}
	sb.WriteString("}\n")
	sb.WriteString("Predecessors: -\n")
	sb.WriteString("Successors: -\n\n")

	for _, f := range p.Funcs {
		dumpFunc(&sb, f, opts)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// DumpFunc writes the blocks of a single function.
func DumpFunc(w io.Writer, f *Func, opts DumpOptions) error {
	if w == nil || f == nil {
		return nil
	}
	var sb strings.Builder
	dumpFunc(&sb, f, opts)
	_, err := io.WriteString(w, sb.String())
	return err
}

func dumpFunc(sb *strings.Builder, f *Func, opts DumpOptions) {
	if f == nil {
		return
	}
	for _, id := range f.Order() {
		b := f.Block(id)
		if b.Kind == BlockEntry {
			dumpEntry(sb, f, b, opts)
			continue
		}
		fmt.Fprintf(sb, "@%s\n{\n", f.BlockName(id))
		for i := range b.Stmts {
			text := b.Stmts[i].Render(f)
			fmt.Fprintf(sb, "    %s\n", strings.ReplaceAll(text, "\n", "\n    "))
		}
		sb.WriteString("}\n")
		fmt.Fprintf(sb, "Predecessors: %s\n", joinNames(f, b.Preds))
		fmt.Fprintf(sb, "Successors: %s\n", joinNames(f, b.Succs))
		if opts.DefUse {
			dumpDefUse(sb, b)
		}
		sb.WriteByte('\n')
	}
}

func dumpEntry(sb *strings.Builder, f *Func, b *Block, opts DumpOptions) {
	fmt.Fprintf(sb, "@%s {\n", f.BlockName(b.ID))
	fmt.Fprintf(sb, "    name: %s\n", f.Name)
	fmt.Fprintf(sb, "    ret_type: %s\n", f.RetType)
	fmt.Fprintf(sb, "    args: %s\n", f.Args)
	sb.WriteString("}\n")
	succ := "-"
	if len(b.Succs) > 0 {
		succ = f.BlockName(b.Succs[0])
	}
	sb.WriteString("Predecessors: -\n")
	fmt.Fprintf(sb, "Successors: %s\n", succ)
	if opts.DefUse {
		dumpDefUse(sb, b)
	}
	sb.WriteByte('\n')
}

func dumpDefUse(sb *strings.Builder, b *Block) {
	fmt.Fprintf(sb, "USE: [%s]\n", strings.Join(b.Use.Sorted(), ", "))
	fmt.Fprintf(sb, "DEF: [%s]\n", strings.Join(b.Def.Sorted(), ", "))
}

func joinNames(f *Func, ids []BlockID) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(f.SortedNames(ids), ", ")
}
