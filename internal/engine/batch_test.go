package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellworks/mesflow/internal/engine"
	"github.com/cellworks/mesflow/pkg/api"
)

func makeBatch(
	t *testing.T, ctx context.Context, eng *engine.Engine,
) *api.Instance[api.BatchPayload] {
	t.Helper()
	in, err := eng.CreateBatch(ctx, api.BatchPayload{
		BatchNumber:     "B-2026-0042",
		SkuCode:         "BP-LFP-48V-100",
		PlannedQuantity: 50,
	})
	require.NoError(t, err)
	return in
}

func TestCreateBatchValidation(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	_, err := eng.CreateBatch(ctx, api.BatchPayload{SkuCode: "BP-X"})
	require.Error(t, err)
	assert.Equal(t, api.CodeValidationFailed, api.AsError(err).Code)

	_, err = eng.CreateBatch(ctx, api.BatchPayload{
		BatchNumber: "B-1", SkuCode: "BP-X", PlannedQuantity: 0,
	})
	require.Error(t, err)
	assert.Equal(t, api.CodeValidationFailed, api.AsError(err).Code)
}

func TestBatchLifecycle(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)
	in := makeBatch(t, ctx, eng)
	assert.Equal(t, api.BatchStateCreated, in.State)

	in, err := eng.ApproveBatch(ctx, in.ID, api.RoleSupervisor)
	require.NoError(t, err)
	assert.Equal(t, api.BatchStateApproved, in.State)

	in, err = eng.StartBatch(ctx, in.ID, api.RoleProduction)
	require.NoError(t, err)
	assert.Equal(t, api.BatchStateInProgress, in.State)

	in, err = eng.CompleteBatch(ctx, in.ID, api.RoleProduction, 48)
	require.NoError(t, err)
	assert.Equal(t, api.BatchStateCompleted, in.State)
	assert.Equal(t, 48, in.Payload.ProducedQuantity)
}

func TestBatchCancelFromEveryActiveState(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	advance := map[string]func(id api.InstanceID){
		"CREATED": func(api.InstanceID) {},
		"APPROVED": func(id api.InstanceID) {
			_, err := eng.ApproveBatch(ctx, id, api.RoleSupervisor)
			require.NoError(t, err)
		},
		"IN_PROGRESS": func(id api.InstanceID) {
			_, err := eng.ApproveBatch(ctx, id, api.RoleSupervisor)
			require.NoError(t, err)
			_, err = eng.StartBatch(ctx, id, api.RoleProduction)
			require.NoError(t, err)
		},
	}

	for name, setup := range advance {
		t.Run(name, func(t *testing.T) {
			in := makeBatch(t, ctx, eng)
			setup(in.ID)

			got, err := eng.CancelBatch(ctx, in.ID, api.RoleSupervisor)
			require.NoError(t, err)
			assert.Equal(t, api.BatchStateCancelled, got.State)
		})
	}
}

func TestBatchTerminalStatesRefuseActions(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)
	in := makeBatch(t, ctx, eng)

	_, err := eng.ApproveBatch(ctx, in.ID, api.RoleSupervisor)
	require.NoError(t, err)
	_, err = eng.StartBatch(ctx, in.ID, api.RoleProduction)
	require.NoError(t, err)
	_, err = eng.CompleteBatch(ctx, in.ID, api.RoleProduction, 50)
	require.NoError(t, err)

	_, err = eng.CancelBatch(ctx, in.ID, api.RoleSupervisor)
	require.Error(t, err)
	assert.Equal(t, api.CodeNoSuchTransition, api.AsError(err).Code)

	_, err = eng.StartBatch(ctx, in.ID, api.RoleProduction)
	require.Error(t, err)
	assert.Equal(t, api.CodeNoSuchTransition, api.AsError(err).Code)
}

func TestBatchRoleGates(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)
	in := makeBatch(t, ctx, eng)

	_, err := eng.ApproveBatch(ctx, in.ID, api.RoleProduction)
	require.Error(t, err)
	assert.Equal(t, api.CodeRoleNotPermitted, api.AsError(err).Code)

	_, err = eng.ApproveBatch(ctx, in.ID, api.RoleSupervisor)
	require.NoError(t, err)

	_, err = eng.StartBatch(ctx, in.ID, api.RoleSupervisor)
	require.Error(t, err)
	assert.Equal(t, api.CodeRoleNotPermitted, api.AsError(err).Code)
}

func TestCompleteBatchRejectsNegativeQuantity(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)
	in := makeBatch(t, ctx, eng)

	_, err := eng.ApproveBatch(ctx, in.ID, api.RoleSupervisor)
	require.NoError(t, err)
	_, err = eng.StartBatch(ctx, in.ID, api.RoleProduction)
	require.NoError(t, err)

	_, err = eng.CompleteBatch(ctx, in.ID, api.RoleProduction, -1)
	require.Error(t, err)
	assert.Equal(t, api.CodeValidationFailed, api.AsError(err).Code)

	got, err := eng.GetBatch(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, api.BatchStateInProgress, got.State)
}
