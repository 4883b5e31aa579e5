package scheduler

import (
	"context"

	"github.com/vk/odegraph/internal/message"
)

// Applier applies one tagged message and returns the messages it produces.
//
// The returned messages are queued for the next generation under the same tag
// as the message that produced them. Returning nil means the message was a
// no-op or produced nothing; the scheduler does not distinguish the two.
//
// Apply must not call back into the Scheduler's Step. It may call Enqueue;
// such messages are queued after the produced ones.
type Applier interface {
	Apply(ctx context.Context, m message.Tagged) []message.Message
}

// ApplierFunc adapts a plain function to the Applier interface.
type ApplierFunc func(ctx context.Context, m message.Tagged) []message.Message

// Apply implements Applier.
func (f ApplierFunc) Apply(ctx context.Context, m message.Tagged) []message.Message {
	return f(ctx, m)
}
