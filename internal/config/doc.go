// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from files.
//
// The config.Model drives the app package: engine timing, export settings, the
// optional remote editor connection, and an initial graph of nodes and links.
// Concrete loaders, such as the HCL one, live in separate packages.
package config
