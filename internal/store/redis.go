package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/cellworks/mesflow/pkg/api"
)

// Redis is a Store backed by Redis. Key structure:
//
//	<prefix>inst:<flowType>:<id>  => JSON-encoded instance
//	<prefix>idx:<flowType>        => LIST of instance IDs in creation order
//
// Updates are serialized by an in-process mutex; the engine is a
// single-process deployment and flow instances are low-volume control
// objects, not a hot data path
type Redis[P any] struct {
	client   *redis.Client
	prefix   string
	flowType api.FlowType
	initial  api.State
	newID    IDGen
	clock    Clock
	mu       sync.Mutex
}

var _ Store[struct{}] = (*Redis[struct{}])(nil)

// NewRedis creates a Redis-backed store for one flow type. An empty prefix
// defaults to "mesflow:"
func NewRedis[P any](
	client *redis.Client, prefix string,
	flowType api.FlowType, initial api.State, newID IDGen, clock Clock,
) *Redis[P] {
	if prefix == "" {
		prefix = "mesflow:"
	}
	return &Redis[P]{
		client:   client,
		prefix:   prefix,
		flowType: flowType,
		initial:  initial,
		newID:    newID,
		clock:    clock,
	}
}

func (r *Redis[P]) keyInstance(id api.InstanceID) string {
	return fmt.Sprintf("%sinst:%s:%s", r.prefix, r.flowType, id)
}

func (r *Redis[P]) keyIndex() string {
	return fmt.Sprintf("%sidx:%s", r.prefix, r.flowType)
}

func (r *Redis[P]) Create(
	ctx context.Context, payload P,
) (*api.Instance[P], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := api.InstanceID(r.newID())
	inst := newInstance(r.flowType, r.initial, id, payload, r.clock())

	data, err := json.Marshal(inst)
	if err != nil {
		return nil, err
	}

	set, err := r.client.SetNX(ctx, r.keyInstance(id), data, 0).Result()
	if err != nil {
		return nil, err
	}
	if !set {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	if err := r.client.RPush(ctx, r.keyIndex(), string(id)).Err(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (r *Redis[P]) Get(
	ctx context.Context, id api.InstanceID,
) (*api.Instance[P], error) {
	data, err := r.client.Get(ctx, r.keyInstance(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var inst api.Instance[P]
	if err := json.Unmarshal(data, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *Redis[P]) List(ctx context.Context) ([]*api.Instance[P], error) {
	ids, err := r.client.LRange(ctx, r.keyIndex(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	res := make([]*api.Instance[P], 0, len(ids))
	for _, id := range ids {
		inst, err := r.Get(ctx, api.InstanceID(id))
		if err != nil {
			return nil, err
		}
		res = append(res, inst)
	}
	return res, nil
}

func (r *Redis[P]) Update(
	ctx context.Context, id api.InstanceID, fn Mutator[P],
) (*api.Instance[P], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(inst); err != nil {
		return nil, err
	}
	inst.UpdatedAt = r.clock()

	data, err := json.Marshal(inst)
	if err != nil {
		return nil, err
	}
	if err := r.client.Set(ctx, r.keyInstance(id), data, 0).Err(); err != nil {
		return nil, err
	}
	return inst, nil
}
