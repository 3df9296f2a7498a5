package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tplparse/internal/cli"
)

// execute runs the root command with stdin and returns its output streams.
// Color is always disabled so output can be matched literally.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--color", "never"))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decodeJSON(t *testing.T, out string) map[string]any {
	t.Helper()

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded), out)
	return decoded
}

// firstRoot returns the tree of the first source of the first file.
func firstRoot(t *testing.T, decoded map[string]any) map[string]any {
	t.Helper()

	files := decoded["files"].([]any)
	require.NotEmpty(t, files)
	sources := files[0].(map[string]any)["sources"].([]any)
	require.NotEmpty(t, sources)
	return sources[0].(map[string]any)["root"].(map[string]any)
}

func TestIntegration_ParseFileJSON(t *testing.T) {
	t.Parallel()

	path := writeTemplate(t, t.TempDir(), "page.html", `<div id="app">{{ title }}</div>`)

	stdout, _, err := execute(t, "", "parse", "--format", "json", path)
	require.NoError(t, err)

	root := firstRoot(t, decodeJSON(t, stdout))
	assert.Equal(t, "Root", root["type"])

	div := root["children"].([]any)[0].(map[string]any)
	assert.Equal(t, "div", div["tag"])
	props := div["props"].([]any)
	require.Len(t, props, 1)
	assert.Equal(t, "id", props[0].(map[string]any)["name"])
	assert.Equal(t, "app", props[0].(map[string]any)["value"])

	interp := div["children"].([]any)[0].(map[string]any)
	assert.Equal(t, "Interpolation", interp["type"])
	assert.Equal(t, " title ", interp["content"])
}

func TestIntegration_ParseStdinTree(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "<p>{{ x }}</p>", "parse")
	require.NoError(t, err)

	assert.Contains(t, stdout, "<input>\nRoot\n")
	assert.Contains(t, stdout, "Element <p>")
	assert.Contains(t, stdout, `Interpolation " x "`)
	assert.Contains(t, stdout, "No issues found (1 file parsed)")
}

func TestIntegration_ParseStdinDash(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "<p>{{ x }}</p>", "parse", "--format", "json", "-")
	require.NoError(t, err)

	decoded := decodeJSON(t, stdout)
	file := decoded["files"].([]any)[0].(map[string]any)
	assert.Equal(t, "<input>", file["path"])
	assert.Equal(t, "p", firstRoot(t, decoded)["children"].([]any)[0].(map[string]any)["tag"])
}

// executeWithNullStdin runs the root command from dir with stdin on
// /dev/null, the way CI jobs and git hooks invoke it.
func executeWithNullStdin(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	t.Chdir(dir)

	devNull, err := os.Open(os.DevNull)
	require.NoError(t, err)
	t.Cleanup(func() { _ = devNull.Close() })

	cmd := cli.NewRootCommand(testInfo)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(devNull)
	cmd.SetArgs(append(args, "--color", "never"))

	err = cmd.Execute()
	return stdout.String(), err
}

// Not parallel: changes the working directory.
func TestIntegration_CheckNullStdinDiscoversFiles(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "broken.html", "<div><span></div>\n")

	stdout, err := executeWithNullStdin(t, dir, "check")
	require.ErrorIs(t, err, cli.ErrDiagnosticsFound)
	assert.Contains(t, stdout, "broken.html")
	assert.Contains(t, stdout, "(missing-end-tag)")
	assert.NotContains(t, stdout, "<input>")
}

// Not parallel: changes the working directory.
func TestIntegration_ParseNullStdinDiscoversFiles(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "a.html", "<p>{{ a }}</p>\n")
	writeTemplate(t, dir, "b.html", "<b/>\n")

	stdout, err := executeWithNullStdin(t, dir, "parse", "--format", "json")
	require.NoError(t, err)

	files := decodeJSON(t, stdout)["files"].([]any)
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.(map[string]any)["path"].(string))
	}
	assert.ElementsMatch(t, []string{"a.html", "b.html"}, paths)
}

func TestIntegration_ParseStdinFilename(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "<script>x</script>\n<template><b/></template>\n",
		"parse", "--format", "json", "--stdin-filename", "App.vue")
	require.NoError(t, err)

	decoded := decodeJSON(t, stdout)
	file := decoded["files"].([]any)[0].(map[string]any)
	assert.Equal(t, "App.vue", file["path"])
	assert.Equal(t, "component", file["kind"])

	b := firstRoot(t, decoded)["children"].([]any)[0].(map[string]any)
	assert.Equal(t, "b", b["tag"])
	assert.Equal(t, true, b["isSelfClosing"])
}

func TestIntegration_ParseMode(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "<b>x</b>", "parse", "--format", "json", "--mode", "RAWTEXT")
	require.NoError(t, err)

	for _, child := range firstRoot(t, decodeJSON(t, stdout))["children"].([]any) {
		assert.NotEqual(t, "Element", child.(map[string]any)["type"], "RAWTEXT does not open tags")
	}
}

func TestIntegration_ParseDelimiters(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "<p><% user %></p>",
		"parse", "--format", "markup", "--delimiters", "<%,%>")
	require.NoError(t, err)
	assert.Equal(t, "<p><% user %></p>", stdout)

	stdout, _, err = execute(t, "<p><% user %></p>",
		"parse", "--format", "json", "--compact", "--delimiters", "<%,%>")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"type":"Interpolation"`)
	assert.Contains(t, stdout, `"content":" user "`)
}

func TestIntegration_ParseOutputFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTemplate(t, dir, "list.html", "<ul>\n  <li>one\n</ul>\n")
	outPath := filepath.Join(dir, "tree.json")

	stdout, _, err := execute(t, "", "parse", "--format", "json", "--output", outPath, path)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	decoded := decodeJSON(t, string(written))
	assert.InDelta(t, 1, decoded["summary"].(map[string]any)["totalIssues"], 0)
}

func TestIntegration_ParseDoesNotFailOnDiagnostics(t *testing.T) {
	t.Parallel()

	path := writeTemplate(t, t.TempDir(), "broken.html", "<div><span></div></span>")

	stdout, _, err := execute(t, "", "parse", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Element <span> unclosed")
	assert.Contains(t, stdout, `Text "</span>"`)
	assert.Contains(t, stdout, "(missing-end-tag)")
}

func TestIntegration_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"parse", "--format", "sarif"}},
		{"unknown mode", []string{"parse", "--mode", "PCDATA"}},
		{"one delimiter", []string{"parse", "--delimiters", "{{"}},
		{"negative jobs", []string{"parse", "--jobs", "-1"}},
		{"unknown flag", []string{"parse", "--fix"}},
		{"bad color", []string{"parse", "--color", "purple"}},
		{"unknown command", []string{"lint"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetIn(strings.NewReader("<p/>"))
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err), err.Error())
		})
	}
}

func TestIntegration_Check(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	clean := writeTemplate(t, dir, "clean.html", "<p>{{ ok }}</p>\n")
	broken := writeTemplate(t, dir, "broken.html", "<ul>\n  <li>one\n</ul>\n")
	infoOnly := writeTemplate(t, dir, "info.html", "<input disabled/>\n")

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantContains []string
	}{
		{
			name:         "clean file passes",
			args:         []string{"check", clean},
			wantCode:     cli.ExitSuccess,
			wantContains: []string{"No issues found (1 file parsed)"},
		},
		{
			name:     "warning fails",
			args:     []string{"check", broken},
			wantCode: cli.ExitDiagnostics,
			wantContains: []string{
				"(1 issue)",
				":2:3  warning  missing closing tag for <li>  (missing-end-tag)",
				"          ^",
			},
		},
		{
			name:         "info passes without strict",
			args:         []string{"check", infoOnly},
			wantCode:     cli.ExitSuccess,
			wantContains: []string{"(attribute-without-value)", "1 issue (1 info) in 1 file"},
		},
		{
			name:         "info fails with strict",
			args:         []string{"check", "--strict", infoOnly},
			wantCode:     cli.ExitDiagnostics,
			wantContains: []string{"(attribute-without-value)"},
		},
		{
			name:         "summary format",
			args:         []string{"check", "--format", "summary", broken, clean},
			wantCode:     cli.ExitDiagnostics,
			wantContains: []string{"CODE", "missing-end-tag", "Files parsed:", "Parsed with warnings"},
		},
		{
			name:     "missing path",
			args:     []string{"check", filepath.Join(dir, "nope")},
			wantCode: cli.ExitIOError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := execute(t, "", tt.args...)
			assert.Equal(t, tt.wantCode, cli.ExitCode(err), "err = %v", err)
			for _, want := range tt.wantContains {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestIntegration_CheckNoContext(t *testing.T) {
	t.Parallel()

	path := writeTemplate(t, t.TempDir(), "broken.html", "<ul>\n  <li>one\n</ul>\n")

	stdout, _, err := execute(t, "", "check", "--no-context", path)
	require.ErrorIs(t, err, cli.ErrDiagnosticsFound)
	assert.NotContains(t, stdout, "^")
}

func TestIntegration_ExplicitConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeTemplate(t, dir, "tplparse.yml", "mode: RCDATA\ndelimiters:\n  open: \"[[\"\n  close: \"]]\"\n")

	stdout, _, err := execute(t, "<b>[[ x ]]</b>", "parse", "--config", cfgPath, "--format", "json", "--compact")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"content":" x "`)
	assert.NotContains(t, stdout, `"type":"Element"`)

	// Flags override the file.
	stdout, _, err = execute(t, "<b>[[ x ]]</b>", "parse", "--config", cfgPath, "--format", "json", "--compact", "--mode", "DATA")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"tag":"b"`)
}

func TestIntegration_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfgPath := writeTemplate(t, t.TempDir(), "bad.yml", "mode: PCDATA\n")

	_, _, err := execute(t, "<p/>", "parse", "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
	assert.Contains(t, err.Error(), "bad.yml")
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yml")

	_, _, err := execute(t, "", "init", "--output", cfgPath)
	require.NoError(t, err)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "mode: DATA")

	// The generated file is a valid configuration.
	_, _, err = execute(t, "<p/>", "parse", "--config", cfgPath)
	require.NoError(t, err)

	_, _, err = execute(t, "", "init", "--output", cfgPath)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, _, err = execute(t, "", "init", "--output", cfgPath, "--force", "--full")
	require.NoError(t, err)

	full, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(full), "\nextensions:\n")
}

func TestIntegration_InitTOML(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "custom.toml")

	_, _, err := execute(t, "", "init", "--format", "toml", "--full", "--output", cfgPath)
	require.NoError(t, err)

	_, _, err = execute(t, "<p/>", "parse", "--config", cfgPath)
	require.NoError(t, err)

	_, _, err = execute(t, "", "init", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_Version(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "tplparse")
	assert.Contains(t, stdout, "test-version")
	assert.Contains(t, stdout, "test-commit")
}

func TestIntegration_Help(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "Available Commands:")
	assert.Contains(t, stdout, "parse")
	assert.Contains(t, stdout, "--config string")
}
