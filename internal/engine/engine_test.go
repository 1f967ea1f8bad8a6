package engine_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellworks/mesflow/internal/engine"
	"github.com/cellworks/mesflow/pkg/api"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	mintN := 0
	return engine.NewInMemory(engine.Dependencies{
		Mint: func() string {
			mintN++
			return fmt.Sprintf("MINT%04d", mintN)
		},
		Clock: func() time.Time {
			return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		},
	})
}

func TestRegistry(t *testing.T) {
	eng := newTestEngine(t)

	reg := eng.Registry()
	require.Equal(t, 5, reg.Count)

	var types []api.FlowType
	for _, info := range reg.Flows {
		types = append(types, info.FlowType)
		assert.NotEmpty(t, info.Name)
		assert.NotEmpty(t, info.RolloutStatus)
	}
	assert.Equal(t, []api.FlowType{
		api.FlowSKU,
		api.FlowBatch,
		api.FlowInbound,
		api.FlowFinalQA,
		api.FlowDispatch,
	}, types)

	// idempotent
	assert.Equal(t, reg, eng.Registry())
}

func TestAllowedActions(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	in, err := eng.CreateSku(ctx, api.SkuPayload{
		SkuCode: "BP-LFP-48V", SkuName: "48V LFP Module",
	})
	require.NoError(t, err)

	res, err := eng.AllowedActions(ctx, api.FlowSKU, in.ID, api.RoleMaker)
	require.NoError(t, err)
	assert.Equal(t, []api.Action{api.ActionSubmit}, res.Actions)

	res, err = eng.AllowedActions(ctx, api.FlowSKU, in.ID, api.RoleChecker)
	require.NoError(t, err)
	assert.Empty(t, res.Actions)
}

func TestAllowedActionsUnknownInstance(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	_, err := eng.AllowedActions(ctx, api.FlowSKU, "sku-none", api.RoleMaker)
	require.Error(t, err)
	assert.Equal(t, api.CodeNotFound, api.AsError(err).Code)

	_, err = eng.AllowedActions(ctx, "bogus", "x", api.RoleMaker)
	require.Error(t, err)
	assert.Equal(t, api.CodeNotFound, api.AsError(err).Code)
}

func TestTransitionsPublishEvents(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	consumer := eng.Hub().NewConsumer()
	defer consumer.Close()

	in, err := eng.CreateSku(ctx, api.SkuPayload{
		SkuCode: "BP-X", SkuName: "X",
	})
	require.NoError(t, err)

	_, err = eng.SubmitSku(ctx, in.ID, api.RoleMaker)
	require.NoError(t, err)

	select {
	case ev := <-consumer.Receive():
		assert.Equal(t, api.FlowSKU, ev.FlowType)
		assert.Equal(t, in.ID, ev.InstanceID)
		assert.Equal(t, api.ActionSubmit, ev.Action)
		assert.Equal(t, api.SkuStateDraft, ev.From)
		assert.Equal(t, api.SkuStateReview, ev.To)
	default:
		t.Fatal("expected a transition event")
	}
}

func TestDeniedTransitionPublishesNothing(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	consumer := eng.Hub().NewConsumer()
	defer consumer.Close()

	in, err := eng.CreateSku(ctx, api.SkuPayload{
		SkuCode: "BP-X", SkuName: "X",
	})
	require.NoError(t, err)

	_, err = eng.SubmitSku(ctx, in.ID, api.RoleChecker)
	require.Error(t, err)

	select {
	case ev := <-consumer.Receive():
		t.Fatalf("unexpected event: %+v", ev)
	default:
	}
}

func TestHistoryTracksAppliedTransitionsInOrder(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	in, err := eng.CreateSku(ctx, api.SkuPayload{
		SkuCode: "BP-X", SkuName: "X",
	})
	require.NoError(t, err)
	assert.Empty(t, in.History)

	_, err = eng.SubmitSku(ctx, in.ID, api.RoleMaker)
	require.NoError(t, err)

	_, err = eng.ReviewSku(ctx, in.ID, api.RoleChecker, api.ReviewSendBack)
	require.NoError(t, err)

	// denied attempts leave no trace
	_, err = eng.SubmitSku(ctx, in.ID, api.RoleChecker)
	require.Error(t, err)

	got, err := eng.GetSku(ctx, in.ID)
	require.NoError(t, err)
	require.Len(t, got.History, 2)
	assert.Equal(t, api.ActionSubmit, got.History[0].Action)
	assert.Equal(t, api.ActionSendBack, got.History[1].Action)
	assert.Equal(t, got.History[0].To, got.History[1].From)
}
