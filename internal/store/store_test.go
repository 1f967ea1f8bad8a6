package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellworks/mesflow/internal/store"
	"github.com/cellworks/mesflow/pkg/api"
)

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func seqIDGen(prefix string) store.IDGen {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%04d", prefix, n)
	}
}

func fixedClock() store.Clock {
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

// exerciseStore runs the Store contract against any implementation
func exerciseStore(t *testing.T, s store.Store[testPayload]) {
	t.Helper()
	ctx := context.Background()

	first, err := s.Create(ctx, testPayload{Name: "first"})
	require.NoError(t, err)
	assert.Equal(t, api.InstanceID("test-0001"), first.ID)
	assert.Equal(t, api.State("OPEN"), first.State)
	assert.Equal(t, "first", first.Payload.Name)

	second, err := s.Create(ctx, testPayload{Name: "second"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = s.Get(ctx, "test-9999")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// creation order, idempotent across calls
	for range 2 {
		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first.ID, list[0].ID)
		assert.Equal(t, second.ID, list[1].ID)
	}

	updated, err := s.Update(ctx, first.ID,
		func(in *api.Instance[testPayload]) error {
			in.State = "ACTIVE"
			in.Payload.Count = 7
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, api.State("ACTIVE"), updated.State)
	assert.Equal(t, 7, updated.Payload.Count)

	got, err = s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, api.State("ACTIVE"), got.State)

	// a failed mutator leaves the stored instance untouched
	_, err = s.Update(ctx, first.ID,
		func(in *api.Instance[testPayload]) error {
			in.State = "BROKEN"
			in.Payload.Count = -1
			return fmt.Errorf("mutator failed")
		})
	require.Error(t, err)

	got, err = s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, api.State("ACTIVE"), got.State)
	assert.Equal(t, 7, got.Payload.Count)

	_, err = s.Update(ctx, "test-9999",
		func(*api.Instance[testPayload]) error { return nil })
	assert.ErrorIs(t, err, store.ErrNotFound)
}
