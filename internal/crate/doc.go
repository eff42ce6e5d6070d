// Package crate drives cargo for one Rust crate: it derives the artifact
// names cargo will produce from Cargo.toml, runs build and test, and copies
// the produced libraries and executables into a bundle directory using the
// same names the loader looks for.
package crate
