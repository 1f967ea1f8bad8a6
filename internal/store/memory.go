package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/cellworks/mesflow/pkg/api"
)

// Memory is a goroutine-safe in-memory Store backed by a map plus a creation
// order index. Mutations run to completion under the lock; readers receive
// copies with independent history and derived containers
type Memory[P any] struct {
	mu        sync.RWMutex
	flowType  api.FlowType
	initial   api.State
	newID     IDGen
	clock     Clock
	instances map[api.InstanceID]*api.Instance[P]
	order     []api.InstanceID
}

var _ Store[struct{}] = (*Memory[struct{}])(nil)

// NewMemory creates an empty in-memory store for one flow type
func NewMemory[P any](
	flowType api.FlowType, initial api.State, newID IDGen, clock Clock,
) *Memory[P] {
	return &Memory[P]{
		flowType:  flowType,
		initial:   initial,
		newID:     newID,
		clock:     clock,
		instances: map[api.InstanceID]*api.Instance[P]{},
	}
}

func (m *Memory[P]) Create(
	_ context.Context, payload P,
) (*api.Instance[P], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := api.InstanceID(m.newID())
	if _, exists := m.instances[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	inst := newInstance(m.flowType, m.initial, id, payload, m.clock())
	m.instances[id] = inst
	m.order = append(m.order, id)
	return inst.CloneMeta(), nil
}

func (m *Memory[P]) Get(
	_ context.Context, id api.InstanceID,
) (*api.Instance[P], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inst, ok := m.instances[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return inst.CloneMeta(), nil
}

func (m *Memory[P]) List(_ context.Context) ([]*api.Instance[P], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]*api.Instance[P], 0, len(m.order))
	for _, id := range m.order {
		res = append(res, m.instances[id].CloneMeta())
	}
	return res, nil
}

func (m *Memory[P]) Update(
	_ context.Context, id api.InstanceID, fn Mutator[P],
) (*api.Instance[P], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.instances[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	// mutate a copy so a failed mutator leaves the stored instance untouched
	next := cur.CloneMeta()
	if err := fn(next); err != nil {
		return nil, err
	}

	next.UpdatedAt = m.clock()
	m.instances[id] = next
	return next.CloneMeta(), nil
}
