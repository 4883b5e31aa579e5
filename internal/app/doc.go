// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the host loop that drives the graph one tick
// at a time, decoupled from any specific entrypoint like a CLI.
package app
