package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cfa/internal/diag"
	"cfa/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note            *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if w == nil || bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	var sb strings.Builder
	for _, d := range bag.Items() {
		prettyOne(&sb, d, fs, opts, p)
	}
	_, _ = io.WriteString(w, sb.String()) //nolint:errcheck
}

func prettyOne(sb *strings.Builder, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	if f == nil {
		fmt.Fprintf(sb, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity), p.code.Sprint(d.Code.ID()), d.Message)
		return
	}
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(sb, "%s:%d:%d: %s %s: %s\n",
		p.path.Sprint(formatPath(f.Path, opts.PathMode, opts.BaseDir)),
		start.Line, start.Col,
		p.severity(d.Severity).Sprint(d.Severity),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)

	width := len(fmt.Sprint(start.Line))
	first := uint32(1)
	if ctx := uint32(max(opts.Context, 0)); start.Line > ctx {
		first = start.Line - ctx
	}
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(sb, "%s %s\n", p.gutter.Sprintf("%*d |", width, ln), expandTabs(f.GetLine(ln)))
	}

	line := f.GetLine(start.Line)
	pad := textWidth(safeSlice(line, 0, int(start.Col)-1))
	n := 1
	if end.Line == start.Line && end.Col > start.Col {
		n = textWidth(safeSlice(line, int(start.Col)-1, int(end.Col)-1))
	} else if end.Line > start.Line {
		n = max(textWidth(line)-pad, 1)
	}
	underline := "^" + strings.Repeat("~", max(n-1, 0))
	fmt.Fprintf(sb, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), strings.Repeat(" ", pad), p.caret.Sprint(underline))

	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		nf := fs.Get(note.Span.File)
		if nf == nil {
			fmt.Fprintf(sb, "  %s %s\n", p.note.Sprint("note:"), note.Msg)
			continue
		}
		ns, _ := fs.Resolve(note.Span)
		fmt.Fprintf(sb, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
			formatPath(nf.Path, opts.PathMode, opts.BaseDir), ns.Line, ns.Col, note.Msg)
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// textWidth is the terminal width of s after tab expansion.
func textWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}

func safeSlice(s string, from, to int) string {
	from = min(max(from, 0), len(s))
	to = min(max(to, from), len(s))
	return s[from:to]
}
