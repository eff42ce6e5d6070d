// Package loader loads native libraries into the running process, first
// through the dynamic linker's search path and then by extracting a copy
// from a resource bundle into a cache directory.
package loader
