package ast_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/tplparse/pkg/ast"
)

func TestNodeKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind ast.NodeKind
		want string
	}{
		{ast.NodeRoot, "Root"},
		{ast.NodeElement, "Element"},
		{ast.NodeText, "Text"},
		{ast.NodeInterpolation, "Interpolation"},
		{ast.NodeComment, "Comment"},
		{ast.NodeCDATA, "CDATA"},
		{ast.NodeKind(42), "NodeKind(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestNode_Helpers(t *testing.T) {
	t.Parallel()

	el := ast.NewElement("a", []ast.Attribute{{Name: "href", Value: "/x"}, {Name: "href", Value: "/y"}}, false)
	assert.True(t, el.IsContainer())
	assert.False(t, el.HasChildren())

	el.AppendChild(nil)
	assert.False(t, el.HasChildren())

	el.AppendChild(ast.NewLeaf(ast.NodeText, "x"))
	assert.True(t, el.HasChildren())

	attr, ok := el.Attr("href")
	require.True(t, ok)
	assert.Equal(t, "/x", attr.Value)

	_, ok = el.Attr("missing")
	assert.False(t, ok)

	leaf := ast.NewLeaf(ast.NodeComment, "c")
	assert.False(t, leaf.IsContainer())

	leaf.Span = ast.SourceRange{Start: 2, End: 10}
	assert.Equal(t, "", leaf.Text("short"))
	assert.Equal(t, "<!--c-->", leaf.Text("ab<!--c-->"))
}

func TestNode_MarshalJSON(t *testing.T) {
	t.Parallel()

	root := ast.NewRoot()
	div := ast.NewElement("div", nil, false)
	div.Closed = true
	div.AppendChild(ast.NewLeaf(ast.NodeText, "hi"))
	root.AppendChild(div)
	root.AppendChild(ast.NewElement("br", nil, true))

	data, err := json.Marshal(root)
	require.NoError(t, err)

	want := `{"type":"Root","children":[` +
		`{"type":"Element","tag":"div","props":[],"isSelfClosing":false,"closed":true,"children":[` +
		`{"type":"Text","content":"hi","span":{"start":0,"end":0}}],"span":{"start":0,"end":0}},` +
		`{"type":"Element","tag":"br","props":[],"isSelfClosing":true,"closed":false,"children":[],"span":{"start":0,"end":0}}` +
		`],"span":{"start":0,"end":0}}`
	assert.JSONEq(t, want, string(data))
}

func TestNode_MarshalJSON_EmptyRoot(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ast.NewRoot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Root","children":[],"span":{"start":0,"end":0}}`, string(data))
}

func TestNode_MarshalYAML(t *testing.T) {
	t.Parallel()

	root := ast.NewRoot()
	root.AppendChild(ast.NewLeaf(ast.NodeInterpolation, " x "))

	data, err := yaml.Marshal(root)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "Root", decoded["type"])

	children, ok := decoded["children"].([]any)
	require.True(t, ok)
	require.Len(t, children, 1)

	child, ok := children[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Interpolation", child["type"])
	assert.Equal(t, " x ", child["content"])
	assert.NotContains(t, child, "children")
}
