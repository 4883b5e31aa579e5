// Package scheduler drives message propagation in bulk-synchronous supersteps.
//
// # Why Scheduler Exists
//
// Nodes never call each other. A node reacts to one message by returning more
// messages, and something has to decide when those are applied. The scheduler
// owns that decision: it holds exactly one generation of pending messages and,
// on every Step, applies the whole generation in order while collecting what it
// produces into the next one.
//
// This gives a few useful guarantees:
//   - **Bounded work per step:** a step never applies a message produced in the
//     same step, so cyclic graphs cannot spin forever inside one call
//   - **Deterministic order:** messages are applied in enqueue order, and the
//     output of one message is appended in the order the node returned it
//   - **Wave identity:** every externally enqueued message gets a fresh Tag, and
//     everything derived from it inherits that Tag
//
// # How It Works
//
//	Enqueue(AddLink)  -> tag 1      generation N:   [ (1, AddLink) ]
//	Step              -> Apply(1, AddLink) returns [Deliver]
//	                                generation N+1: [ (1, Deliver) ]
//	Step              -> Apply(1, Deliver) returns [Deliver, Deliver]
//	                                generation N+2: [ (1, Deliver), (1, Deliver) ]
//
// The scheduler knows nothing about nodes or pins. What a message means is up to
// the Applier, which is the graph in practice.
//
// # Thread-Safety
//
// A Scheduler is not safe for concurrent use. Callers that receive edits from
// other goroutines must funnel them onto the goroutine that calls Step.
package scheduler
