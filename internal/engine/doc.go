// Package engine implements the flow handlers: one set of operations per
// flow type, each validating input, authorizing the requested action against
// the flow's transition table, computing flow-specific side effects, and
// persisting the result atomically through the instance store. Failures are
// structured and caller-recoverable; a rejected request never mutates stored
// state.
package engine
