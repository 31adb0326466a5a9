package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/previewtools/tableview/pkg/viewport"
)

// -----------------------------------------------------------------------------
// Hub Tests
// -----------------------------------------------------------------------------

func TestNewHub(t *testing.T) {
	hub := NewHub()
	if hub == nil {
		t.Fatal("Expected hub to be created")
	}
	if hub.clients == nil {
		t.Error("Expected clients map to be initialized")
	}
	if hub.register == nil || hub.unregister == nil {
		t.Error("Expected registration channels to be initialized")
	}
	if count := hub.ClientCount(); count != 0 {
		t.Errorf("Expected 0 clients initially, got %d", count)
	}
}

func TestHub_RunAndStop(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	hub.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Hub did not stop within timeout")
	}
}

// -----------------------------------------------------------------------------
// Subscription Tests
// -----------------------------------------------------------------------------

func TestClient_Subscribe(t *testing.T) {
	client := NewClient(NewHub(), nil)

	if client.IsSubscribed(ChannelViewer) {
		t.Error("Expected no subscriptions initially")
	}

	client.Subscribe(ChannelViewer, ChannelDocuments)

	if !client.IsSubscribed(ChannelViewer) {
		t.Error("Expected viewer subscription")
	}
	if !client.IsSubscribed(ChannelDocuments) {
		t.Error("Expected documents subscription")
	}
	if client.IsSubscribed("other") {
		t.Error("Expected no subscription to unknown channel")
	}
}

// -----------------------------------------------------------------------------
// End-to-End Broadcast Tests
// -----------------------------------------------------------------------------

// dialTestClient connects a real WebSocket client to a hub-backed test
// server and subscribes it to the given channels.
func dialTestClient(t *testing.T, hub *Hub, channels ...string) *websocket.Conn {
	t.Helper()

	handler := NewWebSocketHandler(hub)
	srv := httptest.NewServer(http.HandlerFunc(handler.ServeHTTP))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	sub := WSMessage{Type: EventTypeSubscribe, Channels: channels}
	if err := conn.WriteJSON(sub); err != nil {
		t.Fatalf("Failed to send subscribe: %v", err)
	}

	// Give the server a moment to process the subscription.
	time.Sleep(50 * time.Millisecond)
	return conn
}

func TestHub_BroadcastViewerState(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	conn := dialTestClient(t, hub, ChannelViewer)

	snap := viewport.Snapshot{
		State:      viewport.StateReady,
		Page:       2,
		TotalPages: 3,
		Zoom:       1.25,
		Generation: 1,
	}
	if err := hub.BroadcastViewerState(snap); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read broadcast: %v", err)
	}

	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to parse message: %v", err)
	}
	if msg.Type != EventTypeViewerState {
		t.Errorf("Expected type %s, got %s", EventTypeViewerState, msg.Type)
	}

	payload := msg.Data.(map[string]interface{})
	if payload["page"].(float64) != 2 {
		t.Errorf("Expected page 2, got %v", payload["page"])
	}
	if payload["zoom"].(float64) != 1.25 {
		t.Errorf("Expected zoom 1.25, got %v", payload["zoom"])
	}
}

func TestHub_BroadcastSkipsUnsubscribed(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	conn := dialTestClient(t, hub, ChannelViewer)

	// Documents event must not reach a viewer-only subscriber.
	hub.BroadcastDocumentReady(&DocumentEventData{
		Handle:     "abc",
		Language:   "en",
		PageCount:  2,
		Generation: 1,
	})

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected no message for unsubscribed channel")
	}
}

func TestWebSocket_PingPong(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	conn := dialTestClient(t, hub)

	if err := conn.WriteJSON(WSMessage{Type: EventTypePing}); err != nil {
		t.Fatalf("Failed to send ping: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read pong: %v", err)
	}
	if msg.Type != EventTypePong {
		t.Errorf("Expected pong, got %s", msg.Type)
	}
}
