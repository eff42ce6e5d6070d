// Package platform resolves the host operating system family and CPU
// architecture into the canonical tokens used to name native artifacts,
// and provides the small filesystem helpers that differ per platform.
//
// Unrecognized operating systems fall back to Linux conventions: a
// "lib" prefix and a ".so" suffix.
package platform
