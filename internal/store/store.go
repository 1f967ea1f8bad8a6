// Package store provides the instance stores backing the flow engine: a
// mapping from instance identifier to flow instance with create, get, list,
// and atomic update-in-place. The in-memory store is the pilot default; a
// Redis-backed store is available for deployments that want instances to
// survive outside the process.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cellworks/mesflow/pkg/api"
)

type (
	// IDGen produces a fresh unique instance identifier. Injected so that
	// identifier generation is deterministic under test
	IDGen func() string

	// Clock provides the current time for instance timestamps
	Clock func() time.Time

	// Mutator applies an in-place mutation to an instance under the store's
	// update lock. Returning an error abandons the update; the stored
	// instance is left untouched
	Mutator[P any] func(*api.Instance[P]) error

	// Store holds the instances of one flow type
	Store[P any] interface {
		// Create generates a fresh identifier, sets the flow's initial
		// state, and stores and returns the new instance
		Create(ctx context.Context, payload P) (*api.Instance[P], error)

		// Get returns the instance with the given identifier
		Get(ctx context.Context, id api.InstanceID) (*api.Instance[P], error)

		// List returns all instances in creation order
		List(ctx context.Context) ([]*api.Instance[P], error)

		// Update applies a mutation atomically. No other operation observes
		// a partially updated instance; a failed mutator leaves the stored
		// instance untouched
		Update(
			ctx context.Context, id api.InstanceID, fn Mutator[P],
		) (*api.Instance[P], error)
	}
)

var (
	// ErrNotFound is returned when an instance identifier is unknown
	ErrNotFound = errors.New("instance not found")

	// ErrDuplicateID is returned when the identifier generator produces an
	// identifier that is already in use
	ErrDuplicateID = errors.New("duplicate instance id")
)

// NewUUIDGen returns an identifier generator producing prefixed short UUIDs,
// e.g. "sku-3f9a12bc"
func NewUUIDGen(prefix string) IDGen {
	return func() string {
		return prefix + "-" + strings.ToLower(uuid.New().String()[:8])
	}
}

func newInstance[P any](
	flowType api.FlowType, initial api.State,
	id api.InstanceID, payload P, now time.Time,
) *api.Instance[P] {
	return &api.Instance[P]{
		ID:        id,
		FlowType:  flowType,
		State:     initial,
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
