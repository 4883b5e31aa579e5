// Package model describes the exported form of a graph: an ODE model made of
// metadata, a list of arguments (named constants and composite expressions)
// and a map of equations (one per state variable).
//
// The types carry both json and hcl-friendly field names. The export package
// owns turning a live graph into a Model and encoding it; this package only
// defines the shape.
package model
