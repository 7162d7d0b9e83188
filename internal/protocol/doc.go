// Package protocol owns the rosterctl wire contract.
//
// Ownership boundary:
// - frame/header primitives
// - field payload primitives
// - command request/response message shapes
package protocol
