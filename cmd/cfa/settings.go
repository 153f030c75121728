package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cfa/internal/project"
)

// settings are cfa.toml values with explicitly set flags applied on top.
type settings struct {
	jobs        int
	verify      bool
	defUse      bool
	livenessOut string
	cache       bool
	cacheDir    string
	traceLevel  string

	maxDiagnostics int
	diagFormat     string
	color          bool
	ui             uiMode
	timings        bool

	manifest *project.Manifest
}

func resolveSettings(cmd *cobra.Command, inputPath string) (*settings, error) {
	manifest, _, err := project.LoadManifest(filepath.Dir(inputPath))
	if err != nil {
		return nil, err
	}
	conf := manifest.Config
	s := &settings{
		jobs:        conf.Analysis.Jobs,
		verify:      conf.Analysis.Verify,
		defUse:      conf.Output.DefUse,
		livenessOut: conf.Output.Liveness,
		cache:       conf.Cache.Enabled,
		cacheDir:    conf.Cache.Dir,
		traceLevel:  conf.Trace.Level,
		manifest:    manifest,
	}
	if s.livenessOut == "" {
		s.livenessOut = project.DefaultLivenessPath
	}

	flags := cmd.Flags()
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
		if s.jobs < 0 {
			return nil, fmt.Errorf("--jobs must be >= 0")
		}
	}
	if flags.Changed("no-verify") {
		noVerify, _ := flags.GetBool("no-verify")
		s.verify = !noVerify
	}
	if flags.Changed("no-cache") {
		noCache, _ := flags.GetBool("no-cache")
		s.cache = !noCache
	}
	if flags.Lookup("defuse") != nil && flags.Changed("defuse") {
		s.defUse, _ = flags.GetBool("defuse")
	}
	if flags.Lookup("output") != nil && flags.Changed("output") {
		s.livenessOut, _ = flags.GetString("output")
	}
	if flags.Changed("trace-level") || s.traceLevel == "" {
		s.traceLevel, _ = flags.GetString("trace-level")
	}

	if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return nil, err
	}
	s.diagFormat, _ = flags.GetString("diagnostics-format")
	s.diagFormat = strings.ToLower(s.diagFormat)
	if s.diagFormat != "pretty" && s.diagFormat != "json" {
		return nil, fmt.Errorf("invalid --diagnostics-format %q (expected pretty|json)", s.diagFormat)
	}
	s.timings, _ = flags.GetBool("timings")

	colorFlag, _ := flags.GetString("color")
	if s.color, err = resolveColor(colorFlag, os.Stderr); err != nil {
		return nil, err
	}
	uiFlag, _ := flags.GetString("ui")
	if s.ui, err = readUIMode(uiFlag); err != nil {
		return nil, err
	}
	return s, nil
}

func resolveColor(value string, f *os.File) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return isTerminal(f), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}
