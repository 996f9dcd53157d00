// Package server runs the application's HTTP transport.
//
// It provides startup, signal handling, and graceful shutdown of the
// server lifecycle.
package server
