// Package api defines the wire-level types shared by the flow engine, the
// synthetic dispatcher, and the HTTP server: identifiers, roles, flow state
// and action constants, instance snapshots, request and response messages,
// and the error taxonomy surfaced in response envelopes.
package api
