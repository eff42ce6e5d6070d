// Package bundle opens the resource contexts native libraries are extracted
// from: a plain directory, a zip/jar archive, or a tar archive that is
// optionally gzip or xz compressed.
package bundle
