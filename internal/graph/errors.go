package graph

import "errors"

var (
	// ErrDuplicateNode is returned when a node id is already registered.
	ErrDuplicateNode = errors.New("node already registered")
	// ErrDuplicatePin is returned when a pin id is already owned by a registered node.
	ErrDuplicatePin = errors.New("pin already owned by another node")
	// ErrNodeNotFound is returned when a node id is not registered.
	ErrNodeNotFound = errors.New("node not found")
	// ErrSameNode is returned when two distinct nodes were required but both ids are equal.
	ErrSameNode = errors.New("both ends belong to the same node")
	// ErrNotSettled is returned by Settle when messages are still pending after the step limit.
	ErrNotSettled = errors.New("graph did not settle within the step limit")
)
