package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const usageLine = "Usage: cfa <input-file.c>"

// errReported marks failures whose details were already written to stderr.
var errReported = errors.New("reported")

// newRootCmd wires the command tree. `cfa <file>` runs the full analysis:
// CFG text to stdout, liveness to the configured file.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cfa <input-file.c>",
		Short:         "Control-flow graphs and liveness for a small C subset",
		Long:          `cfa builds a control-flow graph per function, simplifies it and solves live-variable analysis`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("timings", false, "print phase timings to stderr")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to collect")
	pf.String("diagnostics-format", "pretty", "diagnostics output format (pretty|json)")
	pf.Int("jobs", 0, "functions analysed in parallel (0 = GOMAXPROCS)")
	pf.Bool("no-cache", false, "disable the on-disk result cache")
	pf.Bool("no-verify", false, "skip CFG and liveness self-checks")
	pf.String("ui", "off", "progress view on stderr (auto|on|off)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity for --trace-mode ring|both")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	root.Flags().StringP("output", "o", "", "liveness output file (- for stdout; default from cfa.toml or liveness.out)")
	root.Flags().Bool("defuse", false, "append USE/DEF lines to every block")

	root.AddCommand(newCFGCmd())
	root.AddCommand(newLivenessCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newCacheCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "cfa: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), usageLine)
		return errReported
	}
	return runAnalysis(cmd, args[0], modeFull)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
