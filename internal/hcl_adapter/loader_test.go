package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/slotgraph/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipelineHCL = `
state "findings" {
  policy  = "append"
  initial = ["seed"]
}

state "target_currency" {
  initial = "INR"
}

node "analyst" {
  transform  = "generate"
  resource   = "meta-llama/Llama-3.2-3B-Instruct"
  key        = "analyst_out"
  arguments {
    prompt     = "Analyse: ${join(", ", state.findings)}"
    max_tokens = 64
  }
}

node "total" {
  transform  = "value"
  depends_on = ["analyst"]
  arguments {
    value = 40 + 2
  }
}

edge "analyst" "total" {}

route "total" {
  condition = state.target_currency
  branches  = { INR = "to_inr", EUR = "to_eur" }
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return expr
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pipeline.hcl", pipelineHCL)
	writeFile(t, dir, "README.md", "not hcl")

	model, ev, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.NotNil(t, ev)

	require.Len(t, model.State, 2)
	assert.Equal(t, "findings", model.State[0].Name)
	assert.Equal(t, "append", model.State[0].Policy)
	assert.NotNil(t, model.State[0].Initial)
	assert.Equal(t, "", model.State[1].Policy)

	require.Len(t, model.Nodes, 2)
	analyst := model.Nodes[0]
	assert.Equal(t, "analyst", analyst.Name)
	assert.Equal(t, "generate", analyst.Transform)
	assert.Equal(t, "meta-llama/Llama-3.2-3B-Instruct", analyst.Resource)
	assert.Equal(t, "analyst_out", analyst.Key)
	assert.Contains(t, analyst.Arguments, "prompt")
	assert.Contains(t, analyst.Arguments, "max_tokens")
	assert.Equal(t, []string{"analyst"}, model.Nodes[1].DependsOn)

	require.Len(t, model.Edges, 1)
	assert.Equal(t, "analyst", model.Edges[0].From)
	assert.Equal(t, "total", model.Edges[0].To)

	require.Len(t, model.Routes, 1)
	assert.Equal(t, "total", model.Routes[0].From)
	assert.Equal(t, map[string]string{"INR": "to_inr", "EUR": "to_eur"}, model.Routes[0].Branches)

	n, ok := model.NodeByName("total")
	require.True(t, ok)
	assert.Equal(t, "value", n.Transform)
}

func TestLoader_MergesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.hcl", `node "first" { transform = "value" }`)
	writeFile(t, dir, "b.hcl", `node "second" { transform = "value" }`)

	model, _, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, model.Nodes, 2)
	assert.Equal(t, "first", model.Nodes[0].Name)
	assert.Equal(t, "second", model.Nodes[1].Name)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", `node "a" {`, "failed to parse HCL file"},
		{"missing transform", `node "a" {}`, "failed to decode HCL file"},
		{"unknown block", `step "a" "b" {}`, ""},
		{"route without condition", `route "a" { branches = { x = "b" } }`, `route "a": missing required argument "condition"`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "p.hcl", tc.content)
			_, _, err := NewLoader().Load(context.Background(), path)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	_, _, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)

	_, _, err = NewLoader().Load(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl files")
}

func TestConverter_Evaluate(t *testing.T) {
	c := NewConverter()
	snap := state.NewSnapshot(map[string]any{
		"findings": []any{"risk high", "cash low"},
		"total":    42.0,
		"currency": "inr",
	})
	ctx := context.Background()

	v, err := c.Evaluate(ctx, parseExpr(t, `"Analyse: ${join(", ", state.findings)}"`), snap)
	require.NoError(t, err)
	assert.Equal(t, "Analyse: risk high, cash low", v)

	v, err = c.Evaluate(ctx, parseExpr(t, `state.total * 83`), snap)
	require.NoError(t, err)
	assert.Equal(t, 3486.0, v)

	v, err = c.Evaluate(ctx, parseExpr(t, `{ n = length(state.findings), up = upper(state.currency) }`), snap)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 2.0, "up": "INR"}, v)

	_, err = c.Evaluate(ctx, parseExpr(t, `state.missing`), snap)
	require.Error(t, err)

	v, err = c.Evaluate(ctx, parseExpr(t, `"static"`), state.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, "static", v)
}

func TestConverter_EvaluateKey(t *testing.T) {
	c := NewConverter()
	snap := state.NewSnapshot(map[string]any{"currency": "EUR", "n": 3.0, "flag": true})
	ctx := context.Background()

	testCases := []struct {
		expr string
		want string
	}{
		{`state.currency`, "EUR"},
		{`state.n`, "3"},
		{`state.flag`, "true"},
		{`state.n > 2 ? "big" : "small"`, "big"},
	}
	for _, tc := range testCases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := c.EvaluateKey(ctx, parseExpr(t, tc.expr), snap)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := c.EvaluateKey(ctx, parseExpr(t, `null`), snap)
	require.Error(t, err)
	_, err = c.EvaluateKey(ctx, parseExpr(t, `["a"]`), snap)
	require.Error(t, err)
}

type generateArgs struct {
	Prompt    string            `cty:"prompt"`
	MaxTokens int               `cty:"max_tokens,optional"`
	Tags      []string          `cty:"tags,optional"`
	Params    map[string]any    `cty:"params,optional"`
	Labels    map[string]string `cty:"labels,optional"`
	Extra     any               `cty:"extra,optional"`
	Nested    struct {
		Temperature float64 `cty:"temperature"`
	} `cty:"nested,optional"`
}

func TestConverter_DecodeArguments(t *testing.T) {
	c := NewConverter()
	snap := state.NewSnapshot(map[string]any{"topic": "bonds"})
	ctx := context.Background()

	args := map[string]hcl.Expression{
		"prompt":     parseExpr(t, `"About ${state.topic}"`),
		"max_tokens": parseExpr(t, `128`),
		"tags":       parseExpr(t, `["a", "b"]`),
		"params":     parseExpr(t, `{ temperature = 0.2 }`),
		"labels":     parseExpr(t, `{ team = "risk" }`),
		"extra":      parseExpr(t, `[1, "two"]`),
		"nested":     parseExpr(t, `{ temperature = 0.7 }`),
	}
	var got generateArgs
	require.NoError(t, c.DecodeArguments(ctx, args, snap, &got))

	assert.Equal(t, "About bonds", got.Prompt)
	assert.Equal(t, 128, got.MaxTokens)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
	assert.Equal(t, map[string]any{"temperature": 0.2}, got.Params)
	assert.Equal(t, map[string]string{"team": "risk"}, got.Labels)
	assert.Equal(t, []any{1.0, "two"}, got.Extra)
	assert.Equal(t, 0.7, got.Nested.Temperature)

	t.Run("missing required", func(t *testing.T) {
		var out generateArgs
		err := c.DecodeArguments(ctx, map[string]hcl.Expression{}, snap, &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing required argument "prompt"`)
	})

	t.Run("unsupported argument", func(t *testing.T) {
		var out generateArgs
		err := c.DecodeArguments(ctx, map[string]hcl.Expression{
			"prompt": parseExpr(t, `"x"`),
			"bogus":  parseExpr(t, `1`),
		}, snap, &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported argument(s): bogus")
	})

	t.Run("type mismatch", func(t *testing.T) {
		var out generateArgs
		err := c.DecodeArguments(ctx, map[string]hcl.Expression{
			"prompt":     parseExpr(t, `"x"`),
			"max_tokens": parseExpr(t, `"many"`),
		}, snap, &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_tokens")
	})

	t.Run("non-pointer target", func(t *testing.T) {
		err := c.DecodeArguments(ctx, nil, snap, generateArgs{})
		require.Error(t, err)
	})
}

func TestConverter_ToCtyValue(t *testing.T) {
	c := NewConverter()

	v, err := c.ToCtyValue(state.Snapshot{})
	require.NoError(t, err)
	assert.True(t, v.Type().IsObjectType())

	_, err = c.ToCtyValue(state.NewSnapshot(map[string]any{"ch": make(chan int)}))
	require.Error(t, err)
}
