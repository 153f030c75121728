package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config mirrors cfa.toml. Zero values mean "use the default".
type Config struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Output   OutputConfig   `toml:"output"`
	Cache    CacheConfig    `toml:"cache"`
	Trace    TraceConfig    `toml:"trace"`
}

type AnalysisConfig struct {
	Jobs   int  `toml:"jobs"`   // 0 = GOMAXPROCS
	Verify bool `toml:"verify"` // cfg.Validate + liveness.Verify
}

type OutputConfig struct {
	Liveness string `toml:"liveness"` // "-" = stdout
	DefUse   bool   `toml:"defuse"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type TraceConfig struct {
	Level string `toml:"level"`
}

// DefaultLivenessPath is where liveness results go unless configured.
const DefaultLivenessPath = "liveness.out"

// Defaults returns the configuration used when no cfa.toml exists.
func Defaults() Config {
	return Config{
		Analysis: AnalysisConfig{Verify: true},
		Output:   OutputConfig{Liveness: DefaultLivenessPath},
		Cache:    CacheConfig{Enabled: true},
		Trace:    TraceConfig{Level: "off"},
	}
}

// Manifest is a loaded cfa.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// LoadManifest finds and decodes cfa.toml starting at startDir.
// ok is false when no file exists; Config then holds Defaults().
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &Manifest{Config: Defaults()}, false, nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes a cfa.toml file on top of Defaults().
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Analysis.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [analysis].jobs must be >= 0", path)
	}
	if meta.IsDefined("output", "liveness") && strings.TrimSpace(cfg.Output.Liveness) == "" {
		return Config{}, fmt.Errorf("%s: [output].liveness must not be empty", path)
	}
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	return cfg, nil
}
