// Package audit filters npm audit reports against the reviewed allow list.
//
// Filter is the pure core: it flattens the resolves of every action and drops
// findings whose dependency chain path is accepted. Service wraps it with the
// single read of standard input and the report written on failure, and
// CommandBuilder exposes the whole pass as a Cobra command.
package audit
