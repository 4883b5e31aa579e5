// Package graph owns the live node graph and applies propagation messages to it.
//
// # Why Graph Exists
//
// Nodes only know about their own pins. Something has to keep the global picture
// consistent while the topology changes underneath a running propagation: which
// node owns which pin, which links exist, and which waves each node has already
// seen. The Graph is that single owner. Every cross-node effect (a value moving
// along a link, a link being made or broken) is a message, and only the Graph
// applies messages.
//
// # Responsibilities
//
//   - **Registry:** nodes by id, kept in insertion order for export
//   - **Indices:** input pin -> owning node and output pin -> owning node
//   - **Links:** the ordered list of established links, mirrored in pin state
//   - **Received-sets:** the tags each node has already been pushed
//   - **Apply:** the semantics of Deliver, AddLink and RemoveLink
//   - **Drive:** Update runs one scheduler step, Settle runs until quiet
//
// # Invariants
//
// After every applied message:
//   - an input pin is referenced by at most one registered link, and that link's
//     output is the pin's recorded peer
//   - every registered link is recorded on both of its pins
//   - the pin indices only reference registered nodes
//   - a node is pushed at most once per tag
//
// # Protocol Violations
//
// Edits come from an interaction layer that may race with topology it has not
// seen change yet: a link to a node that was just removed, a second link onto an
// occupied input. Such messages are dropped. A drop returns no follow-up
// messages, logs at debug level with a reason, and increments
// odegraph_messages_dropped_total. Nothing is retried.
//
// # Timing
//
// Update applies exactly one generation. A value crossing k links therefore
// needs k Updates to arrive; hosts that want a whole wave per tick call Settle
// with a step bound instead.
//
// # Thread-Safety
//
// A Graph is not safe for concurrent use. Hosts that receive edits on other
// goroutines must hand them to the goroutine that drives Update.
package graph
