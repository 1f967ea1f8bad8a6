// Package mesflow is the simulated workflow backend for the MES pilot. It
// hosts the flow state-machine engine, the synthetic request dispatcher, and
// the HTTP surface the pilot UI talks to.
package mesflow

const (
	// Name is the service name reported in logs and health responses
	Name = "mesflow"

	// Version is the service version reported in logs and health responses
	Version = "0.3.4"
)
