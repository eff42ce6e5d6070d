// Package config manages settings stored at ~/.cargonative/config.yaml,
// overridden by CARGONATIVE_* environment variables, a per-crate
// cargonative.yaml and command-line flags.
package config
