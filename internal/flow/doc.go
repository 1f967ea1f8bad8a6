// Package flow holds the static flow definitions and the pure transition
// authorizer. Each business flow is one declarative table of (fromState,
// action, toState, allowedRoles) rows; the authorizer is a side-effect-free
// lookup over that table and never mutates an instance.
package flow
