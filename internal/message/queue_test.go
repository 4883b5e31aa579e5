package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/odegraph/internal/ident"
	"github.com/zclconf/go-cty/cty"
)

func TestQueue_PreservesEnqueueOrder(t *testing.T) {
	var q Queue
	first := AddLink{Link: NewLink(ident.NewInputPinID(), ident.NewOutputPinID())}
	second := Deliver{Data: cty.NumberIntVal(1), To: ident.NewInputPinID()}
	third := RemoveLink{Link: first.Link}

	q.Push(first, 1)
	q.PushAll([]Message{second, third}, 2)
	require.Equal(t, 3, q.Len())

	items := q.Take()
	require.Len(t, items, 3)
	assert.Equal(t, Tagged{Tag: 1, Message: first}, items[0])
	assert.Equal(t, Tag(2), items[1].Tag)
	assert.Equal(t, KindDeliver, items[1].Message.Kind())
	assert.Equal(t, Tagged{Tag: 2, Message: third}, items[2])

	assert.Equal(t, 0, q.Len(), "Take must leave the queue empty")
	assert.Empty(t, q.Take())
}

func TestQueue_Tags(t *testing.T) {
	var q Queue
	link := NewLink(ident.NewInputPinID(), ident.NewOutputPinID())
	q.Push(AddLink{Link: link}, 4)
	q.Push(RemoveLink{Link: link}, 4)
	q.Push(RemoveLink{Link: link}, 9)

	assert.Equal(t, map[Tag]struct{}{4: {}, 9: {}}, q.Tags())
}

func TestLink_String(t *testing.T) {
	l := Link{ID: 3, Input: 5, Output: 8}
	assert.Equal(t, "link:3(out:8 -> in:5)", l.String())
	assert.NotEqual(t, NewLink(1, 1).ID, NewLink(1, 1).ID)
}
