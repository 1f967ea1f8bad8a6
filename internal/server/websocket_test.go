package server_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellworks/mesflow/internal/events"
	"github.com/cellworks/mesflow/pkg/api"
)

func TestWebSocketStreamsTransitions(t *testing.T) {
	router, eng := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	// consumer registration happens after the handshake
	time.Sleep(50 * time.Millisecond)

	ctx := context.Background()
	in, err := eng.CreateSku(ctx, api.SkuPayload{
		SkuCode: "BP-X", SkuName: "X",
	})
	require.NoError(t, err)
	_, err = eng.SubmitSku(ctx, in.ID, api.RoleMaker)
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev events.TransitionEvent
	require.NoError(t, conn.ReadJSON(&ev))

	assert.Equal(t, api.FlowSKU, ev.FlowType)
	assert.Equal(t, in.ID, ev.InstanceID)
	assert.Equal(t, api.ActionSubmit, ev.Action)
	assert.Equal(t, api.SkuStateReview, ev.To)
}
