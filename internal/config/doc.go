// Package config loads and validates rhinoline CLI configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. Settings map onto client options: the
// server command line, shutdown timing, and protocol line limits.
package config
