package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigPaths holds the configuration files found for a run. Empty fields
// mean no file was found or given.
type ConfigPaths struct {
	// User is the per-user file, e.g. ~/.config/tplparse/config.yaml.
	User string

	// Project is the nearest .tplparse.{yml,yaml,toml} above the working
	// directory.
	Project string

	// Explicit comes from --config or TPLPARSE_CONFIG.
	Explicit string
}

// EnvConfigPath names an explicit config file when --config is not given.
const EnvConfigPath = envVarPrefix + "CONFIG"

// ProjectConfigFiles are the project file names, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var ProjectConfigFiles = []string{".tplparse.yml", ".tplparse.yaml", ".tplparse.toml"}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	userConfigFiles = []string{"config.yaml", "config.yml", "config.toml"}
	vcsRootMarkers  = []string{".git", ".hg", ".svn"}
)

// discoverPaths finds the user, project and TPLPARSE_CONFIG files for
// workDir. Variables are read through lookup.
func discoverPaths(ctx context.Context, workDir string, lookup func(string) (string, bool)) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	paths := &ConfigPaths{Project: project}
	if dir := userConfigDir(lookup); dir != "" {
		paths.User = firstFile(dir, userConfigFiles)
	}
	if explicit, ok := lookup(EnvConfigPath); ok {
		paths.Explicit = explicit
	}

	return paths, nil
}

// userConfigDir returns $XDG_CONFIG_HOME/tplparse, falling back to
// ~/.config/tplparse.
func userConfigDir(lookup func(string) (string, bool)) string {
	base, _ := lookup("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "tplparse")
}

// FindProjectConfig returns the nearest project config file at or above
// startDir, or "" when there is none. The search does not leave a VCS
// checkout or climb above the home directory.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		if found := firstFile(dir, ProjectConfigFiles); found != "" {
			return found, nil
		}
		if dir == home || hasAnyDir(dir, vcsRootMarkers) {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func hasAnyDir(dir string, names []string) bool {
	for _, name := range names {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
