package engine

import (
	"strings"

	"github.com/google/uuid"
)

// IDSource mints short unique identifier fragments for derived fields such
// as battery identities, serial numbers, and consignment notes. Injected so
// generation is deterministic under test and collision-free in concurrent use
type IDSource func() string

// NewUUIDSource returns the production IDSource, an uppercase 8-character
// UUID fragment
func NewUUIDSource() IDSource {
	return func() string {
		return strings.ToUpper(uuid.New().String()[:8])
	}
}
