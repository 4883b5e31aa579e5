// Package editor connects the engine to a remote graph editor.
//
// The editor speaks socket.io. Its callbacks run on the client's goroutines
// and never touch the graph: every incoming event is decoded into a Command
// and pushed onto a Queue. The host loop drains that queue on its own
// goroutine between Updates and applies each command through graph.Editor.
// After every tick the host publishes a Snapshot of the current nodes and
// links back to the editor.
package editor
