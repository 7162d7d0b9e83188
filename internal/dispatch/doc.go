// Package dispatch owns the read-validate-execute loop.
//
// Ownership boundary:
// - line tokenization and command resolution
// - local vs remote execution routing
// - error classification and reporting policy
//
// Dispatch does not implement command semantics or the wire transport.
package dispatch
