package runner_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tplparse/pkg/ast"
	"github.com/yaklabco/tplparse/pkg/config"
	"github.com/yaklabco/tplparse/pkg/extract"
	"github.com/yaklabco/tplparse/pkg/fsutil"
	"github.com/yaklabco/tplparse/pkg/langdetect"
	"github.com/yaklabco/tplparse/pkg/parser"
	"github.com/yaklabco/tplparse/pkg/runner"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	r := runner.New(nil, nil, nil)
	require.NotNil(t, r.Parser)
	require.NotNil(t, r.Extractor)
	assert.Equal(t, ast.ModeData, r.Parser.Mode())
	assert.Equal(t, extract.DefaultLanguages, r.Extractor.Languages())
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := runner.New(nil, nil, nil).Run(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Equal(t, 0, result.Stats.FilesDiscovered)
	assert.False(t, result.HasIssues())
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	createTree(t, root, map[string]string{
		"ok.html":     "<div id=\"a\">{{ name }}</div>\n",
		"broken.html": "<ul>\n  <li>one\n</ul>\n",
		"Widget.vue":  "<script>export default {}</script>\n<template>\n  <p>{{ msg }}\n</template>\n",
		"notes.md":    "# Notes\n\n```html\n<b>bold\n```\n\n```go\nfunc main() {}\n```\n",
		"empty.md":    "# nothing to see\n",
	})

	result, err := runner.New(nil, nil, nil).Run(context.Background(), runner.Options{
		WorkingDir: root,
		Jobs:       2,
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 5)

	byName := make(map[string]runner.FileOutcome, len(result.Files))
	for _, f := range result.Files {
		require.NoError(t, f.Error, f.Path)
		byName[filepath.Base(f.Path)] = f
	}

	ok := byName["ok.html"]
	assert.Equal(t, langdetect.KindTemplate, ok.Kind)
	require.Len(t, ok.Sources, 1)
	assert.Empty(t, ok.Diagnostics)

	broken := byName["broken.html"]
	require.Len(t, broken.Diagnostics, 1)
	assert.Equal(t, parser.CodeMissingEndTag, broken.Diagnostics[0].Code)
	assert.Equal(t, 2, broken.Diagnostics[0].Line)
	assert.Equal(t, 3, broken.Diagnostics[0].Column)

	// Diagnostics inside a component template are reported at file positions.
	widget := byName["Widget.vue"]
	assert.Equal(t, langdetect.KindComponent, widget.Kind)
	require.Len(t, widget.Diagnostics, 1)
	assert.Equal(t, parser.CodeMissingEndTag, widget.Diagnostics[0].Code)
	assert.Equal(t, 3, widget.Diagnostics[0].Line)
	assert.Equal(t, 3, widget.Diagnostics[0].Column)

	notes := byName["notes.md"]
	assert.Equal(t, langdetect.KindMarkdown, notes.Kind)
	require.Len(t, notes.Sources, 1, "only the html fence is extracted")
	require.Len(t, notes.Diagnostics, 1)
	assert.Equal(t, 4, notes.Diagnostics[0].Line)
	assert.Equal(t, 1, notes.Diagnostics[0].Column)

	empty := byName["empty.md"]
	assert.True(t, empty.Skipped())

	stats := result.Stats
	assert.Equal(t, 5, stats.FilesDiscovered)
	assert.Equal(t, 5, stats.FilesProcessed)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Equal(t, 3, stats.FilesWithIssues)
	assert.Equal(t, 4, stats.SourcesParsed)
	assert.Equal(t, 3, stats.DiagnosticsTotal)
	assert.Equal(t, 3, stats.DiagnosticsBySeverity[parser.SeverityWarning])
	assert.Positive(t, stats.NodesTotal)
	assert.True(t, result.HasIssues())
	assert.True(t, result.HasWarnings())
	assert.False(t, result.HasErrors())
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := make(map[string]string)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files[name+".html"] = "<section><h1>" + name + "</h1><p>{{ " + name + " }}</section>"
	}
	createTree(t, root, files)

	r := runner.New(nil, nil, nil)

	serial, err := r.Run(context.Background(), runner.Options{WorkingDir: root, Jobs: 1})
	require.NoError(t, err)
	parallel, err := r.Run(context.Background(), runner.Options{WorkingDir: root, Jobs: 8})
	require.NoError(t, err)

	require.Len(t, parallel.Files, len(serial.Files))
	for i := range serial.Files {
		assert.Equal(t, serial.Files[i].Path, parallel.Files[i].Path)
		assert.Equal(t, serial.Files[i].Diagnostics, parallel.Files[i].Diagnostics)
		assert.Equal(t,
			ast.Markup(serial.Files[i].Sources[0].Document.Root, ast.DefaultDelimiters()),
			ast.Markup(parallel.Files[i].Sources[0].Document.Root, ast.DefaultDelimiters()))
	}
	assert.Equal(t, serial.Stats, parallel.Stats)
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	createTree(t, root, map[string]string{"a.html": "<a/>", "b.html": "<b/>"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New(nil, nil, nil).Run(ctx, runner.Options{WorkingDir: root})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_ProcessFile_Missing(t *testing.T) {
	t.Parallel()

	outcome := runner.New(nil, nil, nil).ProcessFile(context.Background(), filepath.Join(t.TempDir(), "gone.html"))
	require.ErrorIs(t, outcome.Error, fsutil.ErrNotFound)
	assert.False(t, outcome.Skipped())
}

func TestRunner_ProcessContent_CustomParser(t *testing.T) {
	t.Parallel()

	p := parser.New(parser.WithDelimiters("<%", "%>"), parser.WithMode(ast.ModeData))
	r := runner.New(p, extract.New([]string{"html"}), nil)

	outcome := r.ProcessContent(context.Background(), "<stdin>", []byte("<p><% user %></p>"), langdetect.KindTemplate)
	require.NoError(t, outcome.Error)
	require.Len(t, outcome.Sources, 1)

	interps := ast.FindByKind(outcome.Sources[0].Document.Root, ast.NodeInterpolation)
	require.Len(t, interps, 1)
	assert.Equal(t, " user ", interps[0].Content)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ignore = []string{"dist/**"}
	cfg.Jobs = 3

	opts := runner.OptionsFromConfig(cfg, []string{"src"})
	assert.Equal(t, []string{"src"}, opts.Paths)
	assert.Equal(t, cfg.Extensions, opts.Extensions)
	assert.Equal(t, []string{"dist/**"}, opts.ExcludeGlobs)
	assert.Equal(t, 3, opts.Jobs)

	assert.Equal(t, runner.Options{Paths: nil}, runner.OptionsFromConfig(nil, nil))
}

func TestRunner_RunContent(t *testing.T) {
	t.Parallel()

	r := runner.New(nil, nil, nil)

	t.Run("unclassified input is a template", func(t *testing.T) {
		t.Parallel()

		result := r.RunContent(context.Background(), "", []byte("<p>{{ a }}"))
		require.Len(t, result.Files, 1)
		assert.Equal(t, langdetect.KindTemplate, result.Files[0].Kind)
		assert.Equal(t, 1, result.Stats.FilesDiscovered)
		assert.Equal(t, 1, result.Stats.SourcesParsed)
		require.Len(t, result.Files[0].Diagnostics, 1)
		assert.Equal(t, parser.CodeMissingEndTag, result.Files[0].Diagnostics[0].Code)
		assert.True(t, result.HasWarnings())
	})

	t.Run("diagnostics are ordered by position", func(t *testing.T) {
		t.Parallel()

		result := r.RunContent(context.Background(), "", []byte("<a x>"))
		diags := result.Files[0].Diagnostics
		require.Len(t, diags, 2)
		assert.Equal(t, parser.CodeMissingEndTag, diags[0].Code)
		assert.Equal(t, 1, diags[0].Column)
		assert.Equal(t, parser.CodeAttributeWithoutValue, diags[1].Code)
		assert.Equal(t, 4, diags[1].Column)
	})

	t.Run("name selects extraction", func(t *testing.T) {
		t.Parallel()

		result := r.RunContent(context.Background(), "README.md", []byte("text\n\n```vue\n<b/>\n```\n"))
		require.Len(t, result.Files, 1)
		assert.Equal(t, langdetect.KindMarkdown, result.Files[0].Kind)
		require.Len(t, result.Files[0].Sources, 1)
		assert.Equal(t, "vue", result.Files[0].Sources[0].Source.Language)
		assert.False(t, result.HasIssues())
	})
}
