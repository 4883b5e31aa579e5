// Package node defines the capability contract every node behaviour satisfies.
//
// # Why Node Package Exists
//
// The graph never knows what a node computes. It only knows that a node
// declares pins, may refuse an incoming link, reacts to data arriving on or
// disappearing from an input, can re-send its current outputs on demand, and
// can describe itself for export. Behavior captures exactly that, so the
// catalogue of concrete kinds (constants, operators, ODE terms, probes) can
// grow without touching the engine.
//
// # Delivery Contract
//
// Hooks are only ever invoked by the graph while it applies a message, on the
// goroutine that drives the scheduler. For a given propagation wave (tag) a
// node sees at most one Push. Hooks must return promptly and must not reach
// into other nodes; any cross-node effect is expressed as returned messages,
// which the scheduler applies in the next generation.
//
// # Base
//
// Base implements identity, naming and pin lookup. Concrete kinds embed it and
// provide Notify, BroadcastData and ToEquation.
package node
