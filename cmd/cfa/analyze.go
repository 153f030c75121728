package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cfa/internal/diag"
	"cfa/internal/diagfmt"
	"cfa/internal/driver"
	"cfa/internal/observ"
	"cfa/internal/source"
)

type runMode uint8

const (
	// modeFull writes the CFG to stdout and liveness to the configured file.
	modeFull runMode = iota
	// modeCFG writes only the CFG.
	modeCFG
	// modeLiveness writes only liveness results.
	modeLiveness
)

func runAnalysis(cmd *cobra.Command, path string, mode runMode) error {
	s, err := resolveSettings(cmd, path)
	if err != nil {
		return err
	}
	raw := false
	if mode == modeCFG {
		raw, _ = cmd.Flags().GetBool("raw")
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cleanup, err := setupTracing(cmd, s.traceLevel)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := driver.Options{
		Jobs:           s.jobs,
		Raw:            raw,
		DefUse:         s.defUse,
		Verify:         s.verify,
		MaxDiagnostics: s.maxDiagnostics,
	}
	if s.timings {
		opts.Timer = observ.NewTimer()
	}
	if s.cache {
		if opts.Cache, err = openCache(s); err != nil {
			// без кэша анализ всё равно возможен
			fmt.Fprintf(cmd.ErrOrStderr(), "cfa: cache disabled: %v\n", err)
		}
	}

	var res *driver.Result
	if shouldUseTUI(s.ui) {
		res, err = runAnalyzeWithUI(cmd.Context(), path, opts)
	} else {
		res, err = driver.Analyze(cmd.Context(), path, opts)
	}
	if res != nil && res.Parse != nil {
		if printErr := printDiagnostics(cmd.ErrOrStderr(), res.Parse.Bag, res.Parse.FileSet, s); printErr != nil {
			return printErr
		}
	}
	if err != nil {
		if res != nil && res.Parse != nil && res.Parse.Bag.HasErrors() {
			return errReported
		}
		return err
	}

	switch mode {
	case modeFull:
		// liveness file first: a failed write must not leave a printed CFG behind
		if s.livenessOut != "-" {
			if err := writeOutput(cmd, s.livenessOut, res.LivenessText); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(cmd.OutOrStdout(), res.CFGText); err != nil {
			return err
		}
		if s.livenessOut == "-" {
			if _, err := io.WriteString(cmd.OutOrStdout(), res.LivenessText); err != nil {
				return err
			}
		}
	case modeCFG:
		if _, err := io.WriteString(cmd.OutOrStdout(), res.CFGText); err != nil {
			return err
		}
	case modeLiveness:
		out, _ := cmd.Flags().GetString("output")
		if err := writeOutput(cmd, out, res.LivenessText); err != nil {
			return err
		}
	}

	if s.timings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
		if res.Cached {
			fmt.Fprintln(cmd.ErrOrStderr(), "results served from cache")
		}
		fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
	}
	return nil
}

func openCache(s *settings) (*driver.DiskCache, error) {
	if s.cacheDir != "" {
		return driver.OpenDiskCacheAt(s.cacheDir)
	}
	return driver.OpenDiskCache("cfa")
}

// writeOutput writes text to path; "-" means stdout.
func writeOutput(cmd *cobra.Command, path, text string) error {
	if path == "-" {
		_, err := io.WriteString(cmd.OutOrStdout(), text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, s *settings) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	if s.diagFormat == "json" {
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	}
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     s.color,
		Context:   2,
		ShowNotes: true,
	})
	return nil
}
