// Package procfs discovers open file descriptors by walking a proc
// filesystem tree. Root is usually /proc but any directory laid out the same
// way works, which is how the tests drive it.
//
// Processes and descriptors come and go while a scan runs. Every lookup that
// fails below the top-level listing skips that unit of work and the scan goes
// on.
package procfs
