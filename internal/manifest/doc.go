// Package manifest reads the subset of a crate's Cargo.toml that artifact
// naming depends on. The document is validated once against an embedded
// JSON schema, so every consumed key is either absent or well-typed before
// the typed view is built.
package manifest
