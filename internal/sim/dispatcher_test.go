package sim_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/cellworks/mesflow/internal/engine"
	"github.com/cellworks/mesflow/internal/sim"
	"github.com/cellworks/mesflow/pkg/api"
)

func newTestDispatcher(t *testing.T) *sim.Dispatcher {
	t.Helper()
	eng := engine.NewInMemory(engine.Dependencies{})
	return sim.NewDispatcher(sim.NewFlowRouter(eng), 0, 0)
}

func dispatchJSON(
	t *testing.T, d *sim.Dispatcher, method, path string, body any,
) (int, gjson.Result) {
	t.Helper()

	req := &sim.Request{Method: method, Path: path}
	if u, err := url.Parse(path); err == nil {
		req.Path = u.Path
		req.Query = u.Query()
	}
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req.Body = raw
	}

	status, env := d.Dispatch(context.Background(), req)
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	return status, gjson.ParseBytes(raw)
}

func TestDispatchUnknownRoute(t *testing.T) {
	d := newTestDispatcher(t)

	status, env := dispatchJSON(t, d, "GET", "/api/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Get("ok").Bool())
	assert.Equal(t, "RouteNotFound", env.Get("error.code").String())
}

func TestDispatchHealth(t *testing.T) {
	d := newTestDispatcher(t)

	status, env := dispatchJSON(t, d, "GET", "/api/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Get("ok").Bool())
	assert.Equal(t, "ok", env.Get("data.status").String())
	assert.Equal(t, "sim-inapp", env.Get("data.mode").String())
	assert.Equal(t, "mesflow", env.Get("data.service").String())
}

func TestDispatchRegistry(t *testing.T) {
	d := newTestDispatcher(t)

	status, env := dispatchJSON(t, d, "GET", "/api/flows/registry", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(5), env.Get("data.count").Int())
	assert.Equal(t, "sku", env.Get("data.flows.0.flowType").String())
	assert.Equal(t, "pilot", env.Get("data.flows.0.rolloutStatus").String())
	assert.Equal(t, "dispatch", env.Get("data.flows.4.flowType").String())
	assert.Equal(t, "planned", env.Get("data.flows.4.rolloutStatus").String())
}

func TestDispatchSkuRoundTrip(t *testing.T) {
	d := newTestDispatcher(t)

	status, env := dispatchJSON(t, d, "POST", "/api/flows/sku/create",
		api.CreateSkuRequest{Draft: api.SkuPayload{
			SkuCode: "BP-LFP-48V", SkuName: "48V LFP Pack",
		}})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Get("ok").Bool())
	id := env.Get("data.instanceId").String()
	require.NotEmpty(t, id)
	assert.Equal(t, "DRAFT", env.Get("data.state").String())

	status, env = dispatchJSON(t, d, "POST", "/api/flows/sku/submit",
		api.SubmitSkuRequest{
			InstanceID: api.InstanceID(id),
			ActorRole:  api.RoleMaker,
		})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "REVIEW", env.Get("data.state").String())

	status, env = dispatchJSON(t, d, "GET", "/api/flows/sku/get?id="+id, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "REVIEW", env.Get("data.state").String())
	assert.Equal(t, int64(1), env.Get("data.history.#").Int())

	status, env = dispatchJSON(t, d, "GET", "/api/flows/sku/list", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), env.Get("data.count").Int())
}

func TestDispatchErrorStatuses(t *testing.T) {
	d := newTestDispatcher(t)

	// missing body
	status, env := dispatchJSON(t, d, "POST", "/api/flows/sku/create", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ValidationFailed", env.Get("error.code").String())
	assert.NotEmpty(t, env.Get("error.message").String())

	// unknown instance
	status, env = dispatchJSON(
		t, d, "GET", "/api/flows/sku/get?id=sku-none", nil,
	)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NotFound", env.Get("error.code").String())

	// role denied
	status, env = dispatchJSON(t, d, "POST", "/api/flows/sku/create",
		api.CreateSkuRequest{Draft: api.SkuPayload{
			SkuCode: "BP-X", SkuName: "X",
		}})
	require.Equal(t, http.StatusOK, status)
	id := env.Get("data.instanceId").String()

	status, env = dispatchJSON(t, d, "POST", "/api/flows/sku/submit",
		api.SubmitSkuRequest{
			InstanceID: api.InstanceID(id),
			ActorRole:  api.RoleChecker,
		})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "RoleNotPermitted", env.Get("error.code").String())

	// illegal transition
	status, env = dispatchJSON(t, d, "POST", "/api/flows/sku/review",
		api.ReviewSkuRequest{
			InstanceID: api.InstanceID(id),
			ActorRole:  api.RoleChecker,
			Decision:   api.ReviewForward,
		})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NoSuchTransition", env.Get("error.code").String())
}

func TestDispatchAllowedActions(t *testing.T) {
	d := newTestDispatcher(t)

	_, env := dispatchJSON(t, d, "POST", "/api/flows/batch/create",
		api.CreateBatchRequest{Batch: api.BatchPayload{
			BatchNumber: "B-1", SkuCode: "BP-X", PlannedQuantity: 10,
		}})
	id := env.Get("data.instanceId").String()
	require.NotEmpty(t, id)

	status, env := dispatchJSON(t, d, "GET",
		"/api/flows/batch/actions?id="+id+"&role=Supervisor", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "CREATED", env.Get("data.state").String())
	actions := env.Get("data.actions").Array()
	require.Len(t, actions, 2)
	assert.Equal(t, "approve", actions[0].String())
	assert.Equal(t, "cancel", actions[1].String())

	status, env = dispatchJSON(t, d, "GET",
		"/api/flows/batch/actions?id="+id, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ValidationFailed", env.Get("error.code").String())
}

func TestDispatchLatencyBounds(t *testing.T) {
	eng := engine.NewInMemory(engine.Dependencies{})
	d := sim.NewDispatcher(
		sim.NewFlowRouter(eng), 20*time.Millisecond, 40*time.Millisecond,
	)

	start := time.Now()
	status, _ := d.Dispatch(context.Background(), &sim.Request{
		Method: "GET", Path: "/api/health",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDispatchAbortsOnCancelledContext(t *testing.T) {
	eng := engine.NewInMemory(engine.Dependencies{})
	d := sim.NewDispatcher(
		sim.NewFlowRouter(eng), time.Second, 2*time.Second,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status, env := d.Dispatch(ctx, &sim.Request{
		Method: "GET", Path: "/api/health",
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, env.OK)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "context canceled")
}
