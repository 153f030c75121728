package liveness

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes "<Bk>-IN: ..." and "<Bk>-OUT: ..." lines for every non-sentinel
// block of each result, in print order. Empty sets print as ";".
func Dump(w io.Writer, results []*Result) error {
	if w == nil {
		return nil
	}
	var sb strings.Builder
	for _, r := range results {
		if r == nil || r.Func == nil {
			continue
		}
		f := r.Func
		for _, id := range f.Order() {
			if f.Block(id).IsSentinel() {
				continue
			}
			name := f.ShortName(id)
			fmt.Fprintf(&sb, "%s-IN: %s\n", name, formatSet(r.LiveIn(id)))
			fmt.Fprintf(&sb, "%s-OUT: %s\n", name, formatSet(r.LiveOut(id)))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatSet(names []string) string {
	if len(names) == 0 {
		return ";"
	}
	return strings.Join(names, ", ")
}
