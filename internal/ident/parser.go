// internal/ident/parser.go
package ident

import (
	"fmt"
	"strconv"
	"strings"
)

// parse splits a canonical identifier of the form `<prefix>:<number>`. A bare
// number is accepted as well, since editors frequently send raw integers.
func parse(raw, prefix string) (uint64, error) {
	if raw == "" {
		return 0, fmt.Errorf("identifier cannot be empty")
	}

	digits := raw
	if head, tail, found := strings.Cut(raw, ":"); found {
		if head != prefix {
			return 0, fmt.Errorf("identifier %q: expected kind %q, got %q", raw, prefix, head)
		}
		digits = tail
	}

	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("identifier %q: invalid number: %w", raw, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("identifier %q: zero is reserved", raw)
	}
	return v, nil
}

// ParseNodeID parses `node:N` (or `N`).
func ParseNodeID(raw string) (NodeID, error) {
	v, err := parse(raw, nodePrefix)
	return NodeID(v), err
}

// ParseInputPinID parses `in:N` (or `N`).
func ParseInputPinID(raw string) (InputPinID, error) {
	v, err := parse(raw, inputPrefix)
	return InputPinID(v), err
}

// ParseOutputPinID parses `out:N` (or `N`).
func ParseOutputPinID(raw string) (OutputPinID, error) {
	v, err := parse(raw, outputPrefix)
	return OutputPinID(v), err
}

// ParseLinkID parses `link:N` (or `N`).
func ParseLinkID(raw string) (LinkID, error) {
	v, err := parse(raw, linkPrefix)
	return LinkID(v), err
}
