package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/slideconv/internal/orchestrator"
)

func TestProgressHubBroadcast(t *testing.T) {
	hub := NewProgressHub(zerolog.Nop(), nil)
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	// Give the hub a moment to process the registration.
	time.Sleep(50 * time.Millisecond)

	hub.Notify(orchestrator.ProgressEvent{
		ExtractionID:   "run-1",
		PresentationID: "p1",
		Stage:          "started",
		Timestamp:      time.Now(),
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event orchestrator.ProgressEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "run-1", event.ExtractionID)
	assert.Equal(t, "started", event.Stage)

	conn.Close()
	time.Sleep(50 * time.Millisecond)
	hub.Close()
}

func TestProgressHubNotifyNeverBlocks(t *testing.T) {
	hub := NewProgressHub(zerolog.Nop(), nil)
	// No Run loop and no clients: every event must be dropped without
	// blocking the caller.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Notify(orchestrator.ProgressEvent{Stage: "extractor-finished"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked with no consumers")
	}
	hub.Close()
}

func TestProgressHubRejectsDisallowedOrigin(t *testing.T) {
	hub := NewProgressHub(zerolog.Nop(), []string{"https://app.example.com"})
	go hub.Run()
	defer hub.Close()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}
}
