package graph

import (
	"context"
	"fmt"

	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/vk/odegraph/internal/message"
	"github.com/vk/odegraph/internal/scheduler"
)

// Update applies exactly one generation of pending messages. Hosts call it
// once per tick.
func (g *Graph) Update(ctx context.Context) scheduler.Report {
	report := g.sched.Step(ctx, g)
	if g.pruneReceived {
		g.pruneDrained(ctx)
	}
	return report
}

// Settle calls Update until no message is pending and returns the number of
// steps taken. It gives up with ErrNotSettled after maxSteps steps, which is
// the expected outcome for graphs whose cycles keep producing fresh values.
// A maxSteps of zero or less means one step.
func (g *Graph) Settle(ctx context.Context, maxSteps int) (int, error) {
	if maxSteps < 1 {
		maxSteps = 1
	}
	steps := 0
	for g.sched.Pending() > 0 {
		if err := ctx.Err(); err != nil {
			return steps, err
		}
		if steps == maxSteps {
			return steps, fmt.Errorf("%d messages pending after %d steps: %w", g.sched.Pending(), steps, ErrNotSettled)
		}
		g.Update(ctx)
		steps++
	}
	return steps, nil
}

// pruneDrained forgets tags whose wave has no pending message left. Such a
// tag can never be delivered again, so keeping it only costs memory.
func (g *Graph) pruneDrained(ctx context.Context) {
	live := g.sched.PendingTags()
	removed := 0
	for _, set := range g.received {
		var stale []message.Tag
		set.Each(func(v interface{}) bool {
			if _, ok := live[v.(message.Tag)]; !ok {
				stale = append(stale, v.(message.Tag))
			}
			return false
		})
		for _, tag := range stale {
			set.Remove(tag)
		}
		removed += len(stale)
	}
	if removed > 0 {
		ctxlog.FromContext(ctx).Debug("Received tags pruned.", "count", removed)
	}
}
