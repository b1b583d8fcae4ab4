package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visatrack/internal/pipeline"
)

func TestHubPublishReachesClient(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the hub time to register the client before broadcasting.
	time.Sleep(50 * time.Millisecond)

	hub.Publish(pipeline.Event{
		RunID:   "run-1",
		Period:  "June 2024",
		Status:  pipeline.StatusExtracted,
		Records: 3,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope struct {
		Type string         `json:"type"`
		Data pipeline.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(message, &envelope))
	assert.Equal(t, "backfill:progress", envelope.Type)
	assert.Equal(t, "June 2024", envelope.Data.Period)
	assert.Equal(t, pipeline.StatusExtracted, envelope.Data.Status)
	assert.Equal(t, 3, envelope.Data.Records)
}

func TestHubStartStopIdempotent(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	hub.Start()
	hub.Stop()
	hub.Stop()
}

func TestHubPublishWithoutClients(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	// No clients connected; the event is broadcast into the void without
	// blocking.
	hub.Publish(pipeline.Event{RunID: "run-2", Period: "July 2024", Status: pipeline.StatusNoData})
}
