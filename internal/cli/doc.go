// Package cli defines the Cobra command tree for the cargonative CLI. Each
// file in this package registers one top-level command (build, test, load,
// etc.) with the root command. Command implementations delegate to internal
// packages and only handle flag parsing, configuration and output.
package cli
