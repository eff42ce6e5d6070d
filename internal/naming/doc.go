// Package naming derives the platform-decorated names of native artifacts.
//
// The loader and the artifact copier both go through a Namer, so a library
// copied out of a build directory lands exactly where the loader will look
// for it. Every function here is pure: the same logical name and platform
// always produce byte-identical strings.
//
// Two resource layouts exist:
//
//	flat:   {prefix/}{lib}{name}-{os}-{arch}{suffix}   e.g. libmy_lib-linux-x86_64.so
//	nested: {prefix/}{os}-{arch}/{lib}{name}{suffix}   e.g. linux-x86_64/libmy_lib.so
package naming
