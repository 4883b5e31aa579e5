package hcl

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/odegraph/internal/config"
	"github.com/vk/odegraph/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	ctx := testutil.QuietContext(t)
	m, err := NewLoader().Load(ctx, filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), m)
}

func TestLoad_FullConfiguration(t *testing.T) {
	ctx := testutil.QuietContext(t)
	dir := writeFiles(t, map[string]string{
		"main.hcl": `
engine {
  tick_interval      = "50ms"
  max_steps_per_tick = 8
  prune_received     = true
}

export {
  name       = "sir"
  format     = "hcl"
  path       = "out/sir.hcl"
  delta_time = 0.1
  end_time   = 100
}

editor {
  url     = "http://localhost:3000"
  timeout = "2s"
}
`,
		"graph/nodes.hcl": `
node "beta" {
  kind     = "constant"
  args     = { value = max(0.1, 0.3) }
  position = [10, 20]
}

node "watch" {
  kind = "probe"
}

link {
  from = "beta.value"
  to   = "watch.in"
}
`,
		"notes.txt": "ignored",
	})

	m, err := NewLoader().Load(ctx, dir)
	require.NoError(t, err)

	assert.Equal(t, config.Engine{TickInterval: 50 * time.Millisecond, MaxStepsPerTick: 8, PruneReceived: true}, m.Engine)
	assert.Equal(t, config.Export{Name: "sir", Format: "hcl", Path: "out/sir.hcl", DeltaTime: 0.1, EndTime: 100}, m.Export)
	require.NotNil(t, m.Editor)
	assert.Equal(t, config.Editor{URL: "http://localhost:3000", Namespace: "/", Timeout: 2 * time.Second}, *m.Editor)

	require.Len(t, m.Nodes, 2)
	beta := m.Nodes[0]
	assert.Equal(t, "constant", beta.Kind)
	assert.Equal(t, &config.Position{X: 10, Y: 20}, beta.Position)
	assert.True(t, beta.Args.GetAttr("value").RawEquals(cty.NumberFloatVal(0.3)))
	assert.True(t, m.Nodes[1].Args.IsNull())
	assert.Nil(t, m.Nodes[1].Position)
	assert.Equal(t, []*config.Link{{From: "beta.value", To: "watch.in"}}, m.Links)
}

func TestLoad_Errors(t *testing.T) {
	ctx := testutil.QuietContext(t)
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"syntax", map[string]string{"a.hcl": `engine {`}, "failed to parse HCL file"},
		{"unknown block", map[string]string{"a.hcl": `runner "x" {}`}, "failed to decode HCL file"},
		{"bad duration", map[string]string{"a.hcl": `engine { tick_interval = "soon" }`}, "engine.tick_interval"},
		{"engine twice", map[string]string{
			"a.hcl": `engine {}`,
			"b.hcl": `engine {}`,
		}, "engine block declared in both"},
		{"args not an object", map[string]string{"a.hcl": `
node "x" {
  kind = "constant"
  args = 3
}`}, `node "x": args must be an object`},
		{"bad position", map[string]string{"a.hcl": `
node "x" {
  kind     = "constant"
  position = [1]
}`}, "position must be [x, y]"},
		{"unknown function", map[string]string{"a.hcl": `
node "x" {
  kind = "constant"
  args = { value = nope(1) }
}`}, `node "x": args`},
		{"validation", map[string]string{"a.hcl": `engine { max_steps_per_tick = 0 }`}, "max_steps_per_tick must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, tt.files)
			_, err := NewLoader().Load(ctx, dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_SingleFileAndDedup(t *testing.T) {
	ctx := testutil.QuietContext(t)
	dir := writeFiles(t, map[string]string{"a.hcl": `node "x" { kind = "probe" }`})
	file := filepath.Join(dir, "a.hcl")

	m, err := NewLoader().Load(ctx, file, dir)
	require.NoError(t, err)
	assert.Len(t, m.Nodes, 1, "a file reached twice is loaded once")
}

func TestParse(t *testing.T) {
	ctx := testutil.QuietContext(t)
	m, err := NewLoader().Parse(ctx, "demo.hcl", []byte(`export { name = "demo" }`))
	require.NoError(t, err)
	assert.Equal(t, "demo", m.Export.Name)

	_, err = NewLoader().Parse(ctx, "demo.hcl", []byte(`export {`))
	assert.ErrorContains(t, err, "failed to parse HCL source demo.hcl")
}
