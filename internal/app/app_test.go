package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/odegraph/internal/config"
	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/vk/odegraph/internal/editor"
	"github.com/vk/odegraph/internal/model"
	"github.com/vk/odegraph/modules/probe"
	"github.com/zclconf/go-cty/cty"
)

const chainHCL = `
engine {
  tick_interval      = "1ms"
  max_steps_per_tick = 1
}

node "c" {
  kind = "constant"
  args = { value = 4 }
}

node "double" {
  kind = "operator"
  args = { op = "*" }
}

node "two" {
  kind = "constant"
  args = { value = 2 }
}

node "watch" {
  kind = "probe"
}

link {
  from = "c.value"
  to   = "double.lhs"
}

link {
  from = "two.value"
  to   = "double.rhs"
}

link {
  from = "double.result"
  to   = "watch.in"
}
`

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func probeNamed(t *testing.T, a *App, name string) *probe.Node {
	t.Helper()
	for _, b := range a.Graph().Nodes() {
		if b.Name() == name {
			p, ok := b.(*probe.Node)
			require.True(t, ok, "node %q is a %s", name, b.Kind())
			return p
		}
	}
	t.Fatalf("no node named %q", name)
	return nil
}

func latestFloat(t *testing.T, p *probe.Node) float64 {
	t.Helper()
	v, ok := p.Latest()
	require.True(t, ok, "probe %q observed nothing", p.Name())
	f, _ := v.AsBigFloat().Float64()
	return f
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name   string
		cfg    Config
		errMsg string
	}{
		{name: "config path", cfg: Config{ConfigPath: "main.hcl"}},
		{name: "demo", cfg: Config{Demo: true}},
		{name: "nothing to run", cfg: Config{}, errMsg: "ConfigPath is a required"},
		{name: "both sources", cfg: Config{ConfigPath: "x.hcl", Demo: true}, errMsg: "mutually exclusive"},
		{name: "negative ticks", cfg: Config{Demo: true, Ticks: -1}, errMsg: "Ticks must not be negative"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *cfg)
		})
	}
}

func TestNewApp_BuildsGraphFromConfig(t *testing.T) {
	a, logs, err := SetupAppTest(t, &Config{ConfigPath: writeConfig(t, chainHCL)})
	require.NoError(t, err)

	assert.Len(t, a.Graph().Nodes(), 4)
	assert.Empty(t, a.Graph().Links(), "links are only requested until the first update")
	assert.Equal(t, 3, a.Graph().Pending())
	assert.Equal(t, []string{"constant", "operator", "population", "probe"}, a.Registry().Kinds())
	assert.Contains(t, logs.String(), "run_id="+a.runID)
}

func TestRun_StopsAfterTicks(t *testing.T) {
	a, _, err := SetupAppTest(t, &Config{ConfigPath: writeConfig(t, chainHCL), Ticks: 1})
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))
	assert.Len(t, a.Graph().Links(), 3)
	assert.Positive(t, a.Graph().Pending(), "one step per tick leaves the broadcasts pending")
}

func TestRun_UntilIdle(t *testing.T) {
	a, _, err := SetupAppTest(t, &Config{ConfigPath: writeConfig(t, chainHCL)})
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))
	assert.Zero(t, a.Graph().Pending())
	assert.InDelta(t, 8.0, latestFloat(t, probeNamed(t, a, "watch")), 1e-9)
}

func TestRun_Cancelled(t *testing.T) {
	a, _, err := SetupAppTest(t, &Config{ConfigPath: writeConfig(t, chainHCL), Ticks: 1000})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, a.Run(ctx))
	assert.Positive(t, a.Graph().Pending())
}

func TestRun_DemoExportsModel(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sir.json")
	a, _, err := SetupAppTest(t, &Config{Demo: true, ExportPath: out})
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))
	assert.InDelta(t, 2.97, latestFloat(t, probeNamed(t, a, "watch")), 1e-9)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var m model.Model
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, "sir", m.Metadata.Name)
	assert.Equal(t, model.ODEMetadata{StartTime: 0, DeltaTime: 0.1, EndTime: 160}, m.Metadata.ODE)
	assert.Equal(t, model.Position{X: 200, Y: 0}, m.Metadata.Positions["I"])
	assert.NotContains(t, m.Metadata.Positions, "watch")
	assert.Len(t, m.Arguments, 10)
	assert.Equal(t, map[string]model.Equation{
		"S": {Name: "S", Argument: "dS"},
		"I": {Name: "I", Argument: "dI"},
		"R": {Name: "R", Argument: "recovery"},
	}, m.Equations)
}

func TestRun_ExportToOutput(t *testing.T) {
	a, logs, err := SetupAppTest(t, &Config{ConfigPath: writeConfig(t, chainHCL), ExportPath: "-", ExportFormat: "hcl"})
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, logs.String(), `argument "double"`)
}

type failingLoader struct{}

func (failingLoader) Load(context.Context, ...string) (*config.Model, error) {
	return nil, errors.New("disk on fire")
}

func TestNewApp_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		cfg    Config
		errMsg string
	}{
		{
			name:   "unknown kind",
			cfg:    Config{ConfigPath: writeConfig(t, `node "x" { kind = "spline" }`)},
			errMsg: "unknown node kind",
		},
		{
			name: "unknown pin",
			cfg: Config{ConfigPath: writeConfig(t, `
node "c" { kind = "constant" }
node "w" { kind = "probe" }
link {
  from = "c.out"
  to   = "w.in"
}`)},
			errMsg: `has no output "out"`,
		},
		{
			name: "bad args",
			cfg: Config{ConfigPath: writeConfig(t, `
node "o" {
  kind = "operator"
  args = { op = "^" }
}`)},
			errMsg: `unsupported operation "^"`,
		},
		{
			name:   "bad export override",
			cfg:    Config{ConfigPath: writeConfig(t, ``), ExportFormat: "yaml"},
			errMsg: `export.format "yaml"`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := SetupAppTest(t, &tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}

	t.Run("loader failure", func(t *testing.T) {
		_, err := NewApp(&bytesSink{}, &Config{ConfigPath: "x"}, failingLoader{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load configuration: disk on fire")
	})

	t.Run("demo needs a parser", func(t *testing.T) {
		_, err := NewApp(&bytesSink{}, &Config{Demo: true}, failingLoader{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot parse the built-in demo")
	})
}

type bytesSink struct{}

func (*bytesSink) Write(p []byte) (int, error) { return len(p), nil }

func TestEditorOverride(t *testing.T) {
	m := config.Default()
	applyOverrides(&Config{EditorURL: "http://localhost:3000"}, m)
	require.NotNil(t, m.Editor)
	assert.Equal(t, *config.DefaultEditor("http://localhost:3000"), *m.Editor)

	m.Editor.Namespace = "/graph"
	applyOverrides(&Config{EditorURL: "http://other:4000"}, m)
	assert.Equal(t, "http://other:4000", m.Editor.URL)
	assert.Equal(t, "/graph", m.Editor.Namespace)
}

func TestTick_AppliesEditorCommands(t *testing.T) {
	a, _, err := SetupAppTest(t, &Config{ConfigPath: writeConfig(t, ``)})
	require.NoError(t, err)
	ctx := ctxlog.WithLogger(context.Background(), a.logger)

	require.True(t, a.Commands().Enqueue(editor.AddNode{Kind: "constant", Name: "k", Args: cty.ObjectVal(map[string]cty.Value{"value": cty.NumberIntVal(3)})}))
	require.True(t, a.Commands().Enqueue(editor.AddNode{Kind: "probe", Name: "p", Args: cty.NullVal(cty.DynamicPseudoType)}))
	a.tick(ctx, nil)
	require.Len(t, a.Graph().Nodes(), 2)

	k := a.Graph().Nodes()[0]
	p := probeNamed(t, a, "p")
	require.True(t, a.Commands().Enqueue(editor.AddLink{Output: k.Outputs()[0].ID(), Input: p.In().ID()}))
	a.tick(ctx, nil)
	assert.Len(t, a.Graph().Links(), 1)
	assert.Equal(t, 1, a.Graph().Pending())
	a.tick(ctx, nil)
	assert.InDelta(t, 3.0, latestFloat(t, p), 1e-9)
}

func TestHealthMux(t *testing.T) {
	a, _, err := SetupAppTest(t, &Config{ConfigPath: writeConfig(t, ``)})
	require.NoError(t, err)
	srv := httptest.NewServer(a.healthMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("warn").String())
	assert.Equal(t, "INFO", parseLevel("loud").String())
}
