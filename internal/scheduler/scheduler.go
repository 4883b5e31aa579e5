package scheduler

import (
	"context"
	"time"

	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/vk/odegraph/internal/message"
	"github.com/vk/odegraph/internal/telemetry"
)

// Report summarises one Step.
type Report struct {
	// Generation is the sequence number of the generation that was applied,
	// starting at 1.
	Generation uint64
	// Applied counts messages taken from the generation.
	Applied int
	// Produced counts messages queued for the next generation by Apply.
	Produced int
	// Pending is the size of the new current generation.
	Pending int
}

// Scheduler holds the current generation and the tag counter.
// The zero value is not usable; construct it with New.
type Scheduler struct {
	current    message.Queue
	lastTag    message.Tag
	generation uint64
}

// New returns an idle scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// NewTag issues a fresh tag. Tags increase monotonically and are never reused.
func (s *Scheduler) NewTag() message.Tag {
	s.lastTag++
	return s.lastTag
}

// Enqueue queues m in the current generation under a fresh tag.
func (s *Scheduler) Enqueue(m message.Message) message.Tag {
	tag := s.NewTag()
	s.current.Push(m, tag)
	return tag
}

// EnqueueAll queues ms, in order, under one fresh tag. They form a single wave.
func (s *Scheduler) EnqueueAll(ms []message.Message) message.Tag {
	tag := s.NewTag()
	s.current.PushAll(ms, tag)
	return tag
}

// Pending returns the number of messages waiting in the current generation.
func (s *Scheduler) Pending() int {
	return s.current.Len()
}

// PendingTags returns the distinct tags waiting in the current generation.
func (s *Scheduler) PendingTags() map[message.Tag]struct{} {
	return s.current.Tags()
}

// Generation returns how many generations have been applied so far.
func (s *Scheduler) Generation() uint64 {
	return s.generation
}

// Step applies every message of the current generation in FIFO order and
// installs the produced messages as the next generation.
//
// A Step on an empty queue still counts as a generation; it simply applies
// nothing.
func (s *Scheduler) Step(ctx context.Context, a Applier) Report {
	start := time.Now()
	batch := s.current.Take()
	s.generation++

	var next message.Queue
	produced := 0
	for _, m := range batch {
		out := a.Apply(ctx, m)
		next.PushAll(out, m.Tag)
		produced += len(out)
	}

	// Anything enqueued while the batch was being applied goes after the
	// produced messages.
	late := s.current.Take()
	for _, m := range late {
		next.Push(m.Message, m.Tag)
	}
	s.current = next

	report := Report{
		Generation: s.generation,
		Applied:    len(batch),
		Produced:   produced,
		Pending:    s.current.Len(),
	}

	telemetry.Supersteps.Inc()
	telemetry.QueueDepth.Set(float64(report.Pending))
	telemetry.StepDuration.Observe(time.Since(start).Seconds())
	if report.Applied > 0 {
		ctxlog.FromContext(ctx).Debug("Superstep applied.",
			"generation", report.Generation,
			"applied", report.Applied,
			"produced", report.Produced,
			"pending", report.Pending,
		)
	}
	return report
}
