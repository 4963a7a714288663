//go:build !windows

// Package main hosts the rhinoline CLI entrypoint and command graph.
//
// The Cobra-based command tree spawns a bridge server subprocess per
// invocation, sends one request over its stdin/stdout, and renders the
// response. It centralizes configuration resolution, logging setup, and
// client lifetime so subcommands can focus on their request shapes.
package main
