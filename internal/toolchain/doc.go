// Package toolchain runs the external build tool and diagnoses why it could
// not be run.
//
// An Invoker launches one tool command with stdout and stderr merged into a
// single pipe, logs every output line while the process runs, and classifies
// the exit status. When the process cannot even be started, the Invoker asks
// its Checker whether the tool is installed so the caller gets an actionable
// message instead of a bare OS error. The Checker memoizes one probe per tool
// path for its whole lifetime; callers own a Checker and pass it down.
package toolchain
