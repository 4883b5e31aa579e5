package pin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/odegraph/internal/ident"
	"github.com/zclconf/go-cty/cty"
)

func TestInput_LinkUnlink(t *testing.T) {
	in := NewInput("x", cty.Number)
	out := NewOutput("y", cty.Number)
	other := NewOutput("z", cty.Number)

	assert.False(t, in.IsLinked())
	_, ok := in.Peer()
	assert.False(t, ok)

	in.LinkTo(out.ID())
	peer, ok := in.Peer()
	require.True(t, ok)
	assert.Equal(t, out.ID(), peer)

	assert.False(t, in.Unlink(other.ID()), "unlinking a different peer must not clear the pin")
	assert.True(t, in.IsLinked())

	assert.True(t, in.Unlink(out.ID()))
	assert.False(t, in.IsLinked())
	assert.False(t, in.Unlink(out.ID()))
}

func TestOutput_FanOutKeepsOrder(t *testing.T) {
	out := NewOutput("y", cty.Number)
	a, b, c := NewInput("a", cty.Number), NewInput("b", cty.Number), NewInput("c", cty.Number)

	out.LinkTo(a.ID())
	out.LinkTo(b.ID())
	out.LinkTo(c.ID())
	out.LinkTo(b.ID())
	assert.Equal(t, []ident.InputPinID{a.ID(), b.ID(), c.ID()}, out.Peers())

	assert.True(t, out.Unlink(b.ID()))
	assert.False(t, out.Unlink(b.ID()))
	assert.Equal(t, []ident.InputPinID{a.ID(), c.ID()}, out.Peers())

	peers := out.Peers()
	peers[0] = c.ID()
	assert.Equal(t, a.ID(), out.Peers()[0], "Peers must return a copy")
}

func TestNewPins_DefaultType(t *testing.T) {
	assert.Equal(t, cty.DynamicPseudoType, NewInput("x", cty.NilType).Type())
	assert.Equal(t, cty.DynamicPseudoType, NewOutput("y", cty.NilType).Type())
	assert.Equal(t, cty.String, NewOutput("s", cty.String).Type())
	assert.NotEqual(t, NewInput("a", cty.Number).ID(), NewInput("a", cty.Number).ID())
}
