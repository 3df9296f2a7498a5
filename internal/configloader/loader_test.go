package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/tplparse/pkg/ast"
	"github.com/yaklabco/tplparse/pkg/config"
)

// newRepoDir returns a temp directory marked as a VCS root so project
// discovery never escapes it.
func newRepoDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func noEnv(string) (string, bool) { return "", false }

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := newRepoDir(t)

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
		LookupEnv:        noEnv,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}
	mode, err := result.Config.TextMode()
	if err != nil || mode != ast.ModeData {
		t.Errorf("expected mode DATA, got %v (%v)", mode, err)
	}
	if got := result.Config.ASTDelimiters(); got != ast.DefaultDelimiters() {
		t.Errorf("expected default delimiters, got %+v", got)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := newRepoDir(t)
	writeFile(t, filepath.Join(tmpDir, ".tplparse.yml"), `
mode: RCDATA
delimiters:
  open: "[["
  close: "]]"
ignore:
  - "vendor/*"
`)

	subDir := filepath.Join(tmpDir, "templates", "partials")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       subDir,
		IgnoreUserConfig: true,
		LookupEnv:        noEnv,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Mode != "RCDATA" {
		t.Errorf("expected mode RCDATA, got %q", result.Config.Mode)
	}
	if result.Config.Delimiters.Open != "[[" || result.Config.Delimiters.Close != "]]" {
		t.Errorf("unexpected delimiters %+v", result.Config.Delimiters)
	}
	if len(result.Config.Ignore) != 1 || result.Config.Ignore[0] != "vendor/*" {
		t.Errorf("unexpected ignore %v", result.Config.Ignore)
	}
	// Extensions were not in the file, so defaults survive the merge.
	if len(result.Config.Extensions) != len(config.DefaultExtensions()) {
		t.Errorf("expected default extensions, got %v", result.Config.Extensions)
	}
	if len(result.LoadedFrom) != 1 {
		t.Fatalf("expected 1 loaded file, got %v", result.LoadedFrom)
	}
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".tplparse.yml"), "mode: RAWTEXT\n")

	repo := filepath.Join(outer, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, err := FindProjectConfig(context.Background(), repo)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if path != "" {
		t.Errorf("expected search to stop at repo root, found %q", path)
	}
}

func TestLoad_TOMLConfig(t *testing.T) {
	t.Parallel()

	tmpDir := newRepoDir(t)
	writeFile(t, filepath.Join(tmpDir, ".tplparse.toml"), `
mode = "RAWTEXT"
extensions = [".tpl"]
colour = "blue"
`)

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
		LookupEnv:        noEnv,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Mode != "RAWTEXT" {
		t.Errorf("expected mode RAWTEXT, got %q", result.Config.Mode)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], `unknown key "colour"`) {
		t.Errorf("expected unknown key warning, got %v", result.Warnings)
	}
}

func TestLoad_UnknownYAMLKeyWarns(t *testing.T) {
	t.Parallel()

	tmpDir := newRepoDir(t)
	writeFile(t, filepath.Join(tmpDir, ".tplparse.yaml"), "mode: DATA\nflavour: gfm\n")

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
		LookupEnv:        noEnv,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], `unknown key "flavour"`) {
		t.Errorf("expected unknown key warning, got %v", result.Warnings)
	}
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	tmpDir := newRepoDir(t)
	writeFile(t, filepath.Join(tmpDir, ".tplparse.yml"), "mode: RCDATA\n")

	explicit := filepath.Join(t.TempDir(), "custom.yml")
	writeFile(t, explicit, "mode: CDATA\n")

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		ExplicitPath:     explicit,
		IgnoreUserConfig: true,
		LookupEnv:        noEnv,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Mode != "CDATA" {
		t.Errorf("expected explicit config to win, got %q", result.Config.Mode)
	}
	if len(result.LoadedFrom) != 1 || result.LoadedFrom[0] != explicit {
		t.Errorf("expected only explicit config loaded, got %v", result.LoadedFrom)
	}
	if result.Paths.Explicit != explicit {
		t.Errorf("expected Paths.Explicit = %q, got %q", explicit, result.Paths.Explicit)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Parallel()

	tmpDir := newRepoDir(t)
	writeFile(t, filepath.Join(tmpDir, ".tplparse.yml"), "mode: RCDATA\n")

	env := map[string]string{
		"TPLPARSE_MODE":       "RAWTEXT",
		"TPLPARSE_JOBS":       "3",
		"TPLPARSE_EXTENSIONS": ".tpl, .html ,",
		"TPLPARSE_COMPACT":    "true",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
		LookupEnv:        lookup,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Mode != "RAWTEXT" {
		t.Errorf("expected env mode, got %q", cfg.Mode)
	}
	if cfg.Jobs != 3 {
		t.Errorf("expected jobs 3, got %d", cfg.Jobs)
	}
	if !cfg.Compact {
		t.Error("expected compact from env")
	}
	if len(cfg.Extensions) != 2 || cfg.Extensions[0] != ".tpl" || cfg.Extensions[1] != ".html" {
		t.Errorf("unexpected extensions %v", cfg.Extensions)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Parallel()

	tmpDir := newRepoDir(t)
	lookup := func(key string) (string, bool) {
		if key == "TPLPARSE_STRICT" {
			return "maybe", true
		}
		return "", false
	}

	_, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
		LookupEnv:        lookup,
	})
	if err == nil {
		t.Fatal("expected error for invalid boolean")
	}
	if !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "TPLPARSE_STRICT") {
		t.Errorf("expected variable name in error, got %v", err)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := newRepoDir(t)
	writeFile(t, filepath.Join(tmpDir, ".tplparse.yml"), "mode: RCDATA\n")

	lookup := func(key string) (string, bool) {
		if key == "TPLPARSE_FORMAT" {
			return "yaml", true
		}
		return "", false
	}

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
		LookupEnv:        lookup,
		CLIConfig: &config.Config{
			Mode:   "DATA",
			Format: config.FormatJSON,
			Strict: true,
		},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Mode != "DATA" {
		t.Errorf("expected CLI mode, got %q", result.Config.Mode)
	}
	if result.Config.Format != config.FormatJSON {
		t.Errorf("expected CLI format to beat env, got %q", result.Config.Format)
	}
	if !result.Config.Strict {
		t.Error("expected strict from CLI")
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unknown mode", content: "mode: SCRIPT\n", wantErr: "mode"},
		{name: "identical delimiters", content: "delimiters:\n  open: \"%%\"\n  close: \"%%\"\n", wantErr: "must differ"},
		{name: "half delimiters", content: "delimiters:\n  open: \"<%\"\n", wantErr: "both open and close"},
		{name: "bad glob", content: "ignore:\n  - \"[\"\n", wantErr: "invalid glob"},
		{name: "malformed yaml", content: "mode: [\n", wantErr: "parse yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := newRepoDir(t)
			configPath := filepath.Join(tmpDir, ".tplparse.yml")
			writeFile(t, configPath, tt.content)

			_, err := Load(context.Background(), LoadOptions{
				WorkingDir:       tmpDir,
				IgnoreUserConfig: true,
				LookupEnv:        noEnv,
			})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ValidationErrorNamesFile(t *testing.T) {
	t.Parallel()

	tmpDir := newRepoDir(t)
	configPath := filepath.Join(tmpDir, ".tplparse.yml")
	writeFile(t, configPath, "mode: SCRIPT\n")

	_, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
		LookupEnv:        noEnv,
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.FilePath != configPath {
		t.Errorf("expected FilePath %q, got %q", configPath, verr.FilePath)
	}
	if verr.Field != "mode" {
		t.Errorf("expected field mode, got %q", verr.Field)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, LoadOptions{
		WorkingDir:       t.TempDir(),
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		cfg          *config.Config
		wantErrors   int
		wantWarnings int
	}{
		{name: "nil", cfg: nil},
		{name: "empty", cfg: &config.Config{}},
		{name: "defaults", cfg: config.NewConfig()},
		{name: "lowercase mode", cfg: &config.Config{Mode: "rawtext"}},
		{name: "bad format", cfg: &config.Config{Format: "xml"}, wantErrors: 1},
		{name: "negative jobs", cfg: &config.Config{Jobs: -1}, wantErrors: 1},
		{name: "extension without dot", cfg: &config.Config{Extensions: []string{"tpl", ".html"}}, wantWarnings: 1},
		{
			name: "multiple",
			cfg: &config.Config{
				Mode:   "nope",
				Format: "xml",
				Ignore: []string{"[", "ok/*"},
			},
			wantErrors: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Validate(tt.cfg)
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("errors = %v, want %d", result.Errors, tt.wantErrors)
			}
			if len(result.Warnings) != tt.wantWarnings {
				t.Errorf("warnings = %v, want %d", result.Warnings, tt.wantWarnings)
			}
			if result.Valid() != (tt.wantErrors == 0) {
				t.Errorf("Valid() = %v", result.Valid())
			}
			if result.HasWarnings() != (tt.wantWarnings > 0) {
				t.Errorf("HasWarnings() = %v", result.HasWarnings())
			}
			if got := len(result.AllMessages()); got != tt.wantErrors+tt.wantWarnings {
				t.Errorf("AllMessages() has %d entries", got)
			}
		})
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	file := &config.Config{Mode: "RCDATA", Ignore: []string{"dist/*"}}
	cli := &config.Config{Jobs: 4, Extensions: []string{}}

	got := MergeAll(base, file, cli)

	if got.Mode != "RCDATA" {
		t.Errorf("Mode = %q", got.Mode)
	}
	if got.Jobs != 4 {
		t.Errorf("Jobs = %d", got.Jobs)
	}
	if got.Delimiters != base.Delimiters {
		t.Errorf("Delimiters = %+v", got.Delimiters)
	}
	// A non-nil empty slice replaces the base list.
	if got.Extensions == nil || len(got.Extensions) != 0 {
		t.Errorf("Extensions = %v", got.Extensions)
	}
	if base.Mode != "DATA" {
		t.Errorf("merge mutated base: %q", base.Mode)
	}

	if MergeAll() != nil {
		t.Error("MergeAll() with no configs should be nil")
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	names := make(map[string]bool, len(vars))
	for i, v := range vars {
		if v.Help == "" {
			t.Errorf("%s has no help text", v.Name)
		}
		if i > 0 && vars[i-1].Name >= v.Name {
			t.Errorf("not sorted: %s before %s", vars[i-1].Name, v.Name)
		}
		names[v.Name] = true
	}

	for _, name := range []string{"TPLPARSE_CONFIG", "TPLPARSE_MODE", "TPLPARSE_DELIMITERS_OPEN", "TPLPARSE_JOBS", "TPLPARSE_MARKDOWN_LANGUAGES"} {
		if !names[name] {
			t.Errorf("ListEnvVars() missing %s", name)
		}
	}
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	t.Parallel()

	tmpDir := newRepoDir(t)
	writeFile(t, filepath.Join(tmpDir, ".tplparse.yml"), "mode: RCDATA\n")

	fromEnv := filepath.Join(t.TempDir(), "env.toml")
	writeFile(t, fromEnv, "mode = \"CDATA\"\n")

	lookup := func(key string) (string, bool) {
		if key == EnvConfigPath {
			return fromEnv, true
		}
		return "", false
	}

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
		LookupEnv:        lookup,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Mode != "CDATA" {
		t.Errorf("expected TPLPARSE_CONFIG file to replace the project config, got %q", result.Config.Mode)
	}

	// --config wins over the variable.
	flagPath := filepath.Join(t.TempDir(), "flag.yml")
	writeFile(t, flagPath, "mode: RAWTEXT\n")

	result, err = Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		ExplicitPath:     flagPath,
		IgnoreUserConfig: true,
		LookupEnv:        lookup,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Mode != "RAWTEXT" {
		t.Errorf("expected --config to win, got %q", result.Config.Mode)
	}

	// IgnoreEnv hides the variable, so the project config applies.
	result, err = Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
		LookupEnv:        lookup,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Mode != "RCDATA" {
		t.Errorf("expected project config with IgnoreEnv, got %q", result.Config.Mode)
	}
}

func TestFindProjectConfig_Preference(t *testing.T) {
	t.Parallel()

	repo := newRepoDir(t)
	writeFile(t, filepath.Join(repo, ".tplparse.toml"), "mode = \"DATA\"\n")
	writeFile(t, filepath.Join(repo, ".tplparse.yml"), "mode: DATA\n")

	nested := filepath.Join(repo, "src", "components")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// A directory with a config name is not a config file.
	if err := os.Mkdir(filepath.Join(nested, ".tplparse.yml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := FindProjectConfig(context.Background(), nested)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if want := filepath.Join(repo, ".tplparse.yml"); got != want {
		t.Errorf("FindProjectConfig() = %q, want %q", got, want)
	}
}
