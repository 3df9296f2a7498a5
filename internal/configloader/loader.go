// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support and validation.
package configloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/tplparse/pkg/config"
)

// ErrConfig marks errors caused by configuration rather than input.
var ErrConfig = errors.New("configuration error")

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// It overrides TPLPARSE_CONFIG. If either is set, the project config is
	// not loaded.
	ExplicitPath string

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// LookupEnv replaces os.LookupEnv, mostly for tests.
	LookupEnv func(string) (string, bool)

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (TPLPARSE_*)
//  3. Explicit config file (opts.ExplicitPath or TPLPARSE_CONFIG)
//  4. Project config (.tplparse.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/tplparse/config.yaml)
//  6. Defaults
//
// Every returned error wraps ErrConfig.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result, err := load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return result, nil
}

func load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if opts.IgnoreEnv {
		lookup = withoutPrefix(lookup, envVarPrefix)
	}

	cfg := config.NewConfig()

	paths, err := discoverPaths(ctx, workDir, lookup)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	result := &LoadResult{Paths: paths}

	if opts.ExplicitPath != "" {
		paths.Explicit = opts.ExplicitPath
	}

	layers := []struct {
		name string
		path string
		skip bool
	}{
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig || paths.Explicit != ""},
		{"explicit", paths.Explicit, false},
	}

	for _, layer := range layers {
		if layer.skip || layer.path == "" {
			continue
		}

		fileCfg, warnings, err := loadConfigFile(layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}

		validation := ValidateWithFile(fileCfg, layer.path)
		if !validation.Valid() {
			return nil, &validation.Errors[0]
		}

		for _, w := range warnings {
			result.Warnings = append(result.Warnings, layer.path+": "+w)
		}

		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if err := LoadFromLookup(cfg, lookup); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}

	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// withoutPrefix hides the variables starting with prefix from lookup.
func withoutPrefix(lookup func(string) (string, bool), prefix string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if strings.HasPrefix(key, prefix) {
			return "", false
		}
		return lookup(key)
	}
}

// knownKeys are the top-level keys a config file may contain.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownKeys = map[string]bool{
	"mode":               true,
	"delimiters":         true,
	"extensions":         true,
	"ignore":             true,
	"markdown_languages": true,
}

// loadConfigFile loads a configuration from a YAML or TOML file.
// Unknown keys are returned as warnings.
func loadConfigFile(path string) (*config.Config, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	if IsTOMLConfig(path) {
		return config.FromTOML(content)
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, nil, err
	}

	return cfg, unknownYAMLKeys(content), nil
}

func unknownYAMLKeys(content []byte) []string {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil
	}

	var warnings []string
	for key := range raw {
		if !knownKeys[key] {
			warnings = append(warnings, fmt.Sprintf("unknown key %q", key))
		}
	}
	sort.Strings(warnings)

	return warnings
}

// IsTOMLConfig returns true if the path is a TOML config file.
func IsTOMLConfig(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// IsYAMLConfig returns true if the path is a YAML config file.
func IsYAMLConfig(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
