package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"cfa/internal/diag"
	"cfa/internal/source"
)

func sampleBag(t *testing.T, path string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	content := []byte("int main() {\n    int x\n    return x;\n}\n")
	fileID := fs.AddVirtual(path, content)

	bag := diag.NewBag(10)
	// "return" on line 3
	d := diag.New(diag.SevError, diag.SynExpectSemicolon,
		source.Span{File: fileID, Start: 27, End: 33},
		"expected ';' after declaration",
	).WithNote(source.Span{File: fileID, Start: 17, End: 22}, "declaration starts here")
	bag.Add(d)
	return bag, fs
}

func TestPrettyPlain(t *testing.T) {
	bag, fs := sampleBag(t, "/home/user/project/src/prog.c")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename, ShowNotes: true})

	want := "prog.c:3:5: ERROR SYN2002: expected ';' after declaration\n" +
		"2 |     int x\n" +
		"3 |     return x;\n" +
		"  |     ^~~~~~\n" +
		"  note: prog.c:2:5: declaration starts here\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyPathModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     PathMode
		baseDir  string
		contains string
	}{
		{"basename", PathModeBasename, "", "prog.c:3:5"},
		{"relative", PathModeRelative, "/home/user/project", "src/prog.c:3:5"},
		{"auto under base", PathModeAuto, "/home/user/project", "src/prog.c:3:5"},
		{"auto outside base", PathModeAuto, "/elsewhere", "/home/user/project/src/prog.c:3:5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag, fs := sampleBag(t, "/home/user/project/src/prog.c")
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: tt.baseDir})
			if !strings.HasPrefix(buf.String(), tt.contains) {
				t.Errorf("output does not start with %q:\n%s", tt.contains, buf.String())
			}
			if strings.Contains(buf.String(), "note:") {
				t.Error("notes must be hidden unless ShowNotes")
			}
		})
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := sampleBag(t, "prog.c")
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes: %q", colored.String())
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{"": PathModeAuto, "absolute": PathModeAbsolute, "basename": PathModeBasename} {
		if got, ok := ParsePathMode(in); !ok || got != want {
			t.Errorf("ParsePathMode(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParsePathMode("weird"); ok {
		t.Error("unknown mode accepted")
	}
}
