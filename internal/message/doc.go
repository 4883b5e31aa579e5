// Package message defines the protocol that represents every graph mutation and
// every data hand-off as a value.
//
// There are exactly three message kinds:
//   - Deliver carries a payload from an output pin to an input pin.
//   - AddLink asks the graph to establish a candidate Link.
//   - RemoveLink asks the graph to tear a Link down.
//
// Messages travel in generations. A Queue holds one generation of Tagged
// messages in enqueue order; the scheduler consumes a whole Queue per step and
// builds the next one from whatever applying it produced. A Tag identifies a
// propagation wave: every message caused, directly or transitively, by one
// edit request carries that request's Tag.
package message
