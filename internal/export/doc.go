// Package export turns a live graph into a model description and encodes it.
//
// Build walks the nodes in registry order and concatenates each node's
// ToEquation contribution. Write encodes the result as indented JSON or as
// HCL. Export never mutates the graph, and an encoding or I/O failure only
// fails the export call.
package export
