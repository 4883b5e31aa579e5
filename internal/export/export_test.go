package export

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/odegraph/internal/graph"
	"github.com/vk/odegraph/internal/model"
	"github.com/vk/odegraph/internal/testutil"
	"github.com/vk/odegraph/modules/constant"
	"github.com/vk/odegraph/modules/operator"
	"github.com/vk/odegraph/modules/population"
	"github.com/vk/odegraph/modules/probe"
)

var testMeta = model.Metadata{
	Name: "infection",
	ODE:  model.ODEMetadata{StartTime: 0, DeltaTime: 0.1, EndTime: 10},
}

// infectionGraph wires dI/dt = beta * S.
func infectionGraph(t *testing.T) *graph.Graph {
	t.Helper()
	ctx := testutil.QuietContext(t)
	g := graph.New()

	s := population.New("S", 990)
	i := population.New("I", 10)
	beta := constant.New("beta", 0.3)
	net, err := operator.New("infections", "*")
	require.NoError(t, err)
	watch := probe.New("watch", true, 0)

	require.NoError(t, g.AddNode(ctx, s))
	require.NoError(t, g.AddNode(ctx, i))
	require.NoError(t, g.AddNode(ctx, beta))
	require.NoError(t, g.AddNode(ctx, net))
	require.NoError(t, g.AddNode(ctx, watch))

	g.AddLink(ctx, beta.Out().ID(), net.LHS().ID())
	g.AddLink(ctx, s.Out().ID(), net.RHS().ID())
	g.AddLink(ctx, net.Out().ID(), i.Rate().ID())
	g.AddLink(ctx, net.Out().ID(), watch.In().ID())
	_, err = g.Settle(ctx, 10)
	require.NoError(t, err)

	v, ok := watch.Latest()
	require.True(t, ok)
	f, _ := v.AsBigFloat().Float64()
	require.InDelta(t, 297.0, f, 1e-9)
	return g
}

func TestBuild_RegistryOrder(t *testing.T) {
	ctx := testutil.QuietContext(t)
	g := infectionGraph(t)

	got := New(testMeta).Build(ctx, g)
	want := model.Model{
		Metadata: testMeta,
		Arguments: []model.Argument{
			model.NewValue("S", 990),
			model.NewValue("I", 10),
			model.NewValue("beta", 0.3),
			model.NewComposite("infections", "*",
				model.Component{Name: "beta", Contribution: "*"},
				model.Component{Name: "S", Contribution: "*"},
			),
		},
		Equations: map[string]model.Equation{
			"I": {Name: "I", Argument: "infections"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_EmptyGraph(t *testing.T) {
	m := New(testMeta).Build(testutil.QuietContext(t), graph.New())
	assert.NotNil(t, m.Arguments)
	assert.NotNil(t, m.Equations)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, FormatJSON))
	assert.Contains(t, buf.String(), `"arguments": []`)
	assert.Contains(t, buf.String(), `"equations": {}`)
}

func TestWrite_JSON(t *testing.T) {
	m := New(testMeta).Build(testutil.QuietContext(t), infectionGraph(t))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, FormatJSON))
	out := buf.String()
	assert.Contains(t, out, `"model_metadata": {`)
	assert.Contains(t, out, `"delta_time": 0.1`)
	assert.Contains(t, out, `"operation": "*"`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestWrite_HCL(t *testing.T) {
	m := New(testMeta).Build(testutil.QuietContext(t), infectionGraph(t))
	m.Metadata.Positions = map[string]model.Position{"S": {X: 1, Y: 2}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, FormatHCL))

	f, diags := hclparse.NewParser().ParseHCL(buf.Bytes(), "model.hcl")
	require.False(t, diags.HasErrors(), diags.Error())
	require.NotNil(t, f)
	assert.Contains(t, buf.String(), `argument "infections" {`)
	assert.Contains(t, buf.String(), `component "beta" {`)
	assert.Contains(t, buf.String(), `equation "I" {`)
	assert.Contains(t, buf.String(), `position "S" {`)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_Failures(t *testing.T) {
	good := New(testMeta).Build(testutil.QuietContext(t), graph.New())
	bad := good
	bad.Arguments = []model.Argument{model.NewValue("x", math.NaN())}

	tests := []struct {
		name   string
		w      *bytes.Buffer
		m      model.Model
		format Format
		want   string
	}{
		{"json NaN", &bytes.Buffer{}, bad, FormatJSON, "encode model as json"},
		{"hcl NaN", &bytes.Buffer{}, bad, FormatHCL, `argument "x": value: NaN is not a finite number`},
		{"unknown format", &bytes.Buffer{}, good, Format("yaml"), `unknown format "yaml"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Write(tt.w, tt.m, tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Zero(t, tt.w.Len(), "nothing is written on encode failure")
		})
	}

	err := Write(failingWriter{}, good, FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write model: disk full")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	m := New(testMeta).Build(testutil.QuietContext(t), graph.New())

	path := filepath.Join(dir, "model.json")
	require.NoError(t, WriteFile(path, m, FormatJSON))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "infection"`)

	err = WriteFile(filepath.Join(dir, "missing", "model.json"), m, FormatJSON)
	assert.ErrorContains(t, err, "create ")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("HCL")
	require.NoError(t, err)
	assert.Equal(t, FormatHCL, f)

	_, err = ParseFormat("xml")
	assert.ErrorContains(t, err, "must be one of: json, hcl")
}
