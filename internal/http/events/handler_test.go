package events_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/coopledger/internal/http/events"
	"github.com/MrJamesThe3rd/coopledger/internal/views"
)

func TestHandler_StreamsStaleViews(t *testing.T) {
	hub := views.NewHub(8)

	srv := httptest.NewServer(events.NewHandler(hub, []string{"*"}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	hub.Changed(context.Background(), views.MemberDetail(12))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var got struct {
		Kind string `json:"kind"`
		ID   string `json:"id"`
		Path string `json:"path"`
	}
	require.NoError(t, conn.ReadJSON(&got))

	assert.Equal(t, "members", got.Kind)
	assert.Equal(t, "12", got.ID)
	assert.Equal(t, "members/12", got.Path)
}

func TestHandler_UnsubscribesOnClose(t *testing.T) {
	hub := views.NewHub(8)

	srv := httptest.NewServer(events.NewHandler(hub, []string{"*"}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	assert.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
