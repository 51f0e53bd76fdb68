// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package visualize

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jontk/bwsched/pkg/plan"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastsGridDeltaToConnectedClient(t *testing.T) {
	srv := NewServer(plan.New(4))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// give the hub a moment to register the client before broadcasting.
	time.Sleep(20 * time.Millisecond)
	srv.SetPlan(plan.New(4))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var delta GridDelta
	require.NoError(t, conn.ReadJSON(&delta))
}
