// Package registry maps node kind names to the Go code that builds them.
//
// Kinds are contributed by modules: each module's Register method calls
// RegisterKind for the kinds it provides. Interaction layers (the remote
// editor, the demo graph, tests) then build nodes by name with Build, passing
// arguments as a cty object. Arguments are decoded into the kind's own Go
// struct through `cty:"..."` field tags, on top of that struct's defaults.
//
// Validate runs once after registration and catches kinds whose argument
// structs cannot be decoded or whose defaults do not build.
package registry
