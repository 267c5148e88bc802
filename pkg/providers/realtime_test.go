package providers_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callscope/voicebench/pkg/providers"
)

// newRealtimeServer starts a mock realtime endpoint. It accepts the WebSocket
// upgrade, drains the three client control messages, then hands the
// connection to the script for the test-specific event sequence.
func newRealtimeServer(t *testing.T, script func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		// Session config, conversation item, response request.
		for i := 0; i < 3; i++ {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
		script(conn)
	}))
	t.Cleanup(server.Close)
	return server
}

// wsURL rewrites an httptest server URL to the WebSocket scheme.
func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

// sendEvent marshals and sends one server event, ignoring write failures so
// scripts can race against a client that has already hung up.
func sendEvent(conn *websocket.Conn, event map[string]any) {
	_ = conn.WriteJSON(event)
}

func b64(data string) string { return base64.StdEncoding.EncodeToString([]byte(data)) }

func TestRealtimeClient_Synthesize(t *testing.T) {
	t.Run("Collects Deltas In Arrival Order", func(t *testing.T) {
		server := newRealtimeServer(t, func(conn *websocket.Conn) {
			sendEvent(conn, map[string]any{"type": "session.created"}) // Lifecycle chatter, ignored.
			sendEvent(conn, map[string]any{"type": "response.audio.delta", "delta": b64("abc")})
			sendEvent(conn, map[string]any{"type": "response.audio.delta", "delta": b64("def")})
			sendEvent(conn, map[string]any{"type": "response.done"})
		})

		client := providers.NewOpenAIRealtime("test-key", wsURL(server), "alloy", time.Second)
		audio, err := client.Synthesize(context.Background(), "es", "Hola")

		require.NoError(t, err)
		assert.Equal(t, []byte("abcdef"), audio)
	})

	t.Run("Accepts Protocol Revision Event Names", func(t *testing.T) {
		server := newRealtimeServer(t, func(conn *websocket.Conn) {
			sendEvent(conn, map[string]any{"type": "response.output_audio.delta", "delta": b64("xyz")})
			sendEvent(conn, map[string]any{"type": "response.completed"})
		})

		client := providers.NewOpenAIRealtime("test-key", wsURL(server), "", time.Second)
		audio, err := client.Synthesize(context.Background(), "en", "Hello")

		require.NoError(t, err)
		assert.Equal(t, []byte("xyz"), audio)
	})

	t.Run("Completion Is Idempotent", func(t *testing.T) {
		// A late error event after the completion must not turn the already
		// resolved session into a failure.
		server := newRealtimeServer(t, func(conn *websocket.Conn) {
			sendEvent(conn, map[string]any{"type": "response.audio.delta", "delta": b64("ok")})
			sendEvent(conn, map[string]any{"type": "response.done"})
			sendEvent(conn, map[string]any{"type": "error", "error": map[string]any{"message": "too late"}})
			time.Sleep(50 * time.Millisecond)
		})

		client := providers.NewOpenAIRealtime("test-key", wsURL(server), "", time.Second)
		audio, err := client.Synthesize(context.Background(), "en", "Hello")

		require.NoError(t, err, "the completion should win; the late error must be ignored")
		assert.Equal(t, []byte("ok"), audio)
	})

	t.Run("Error Event Fails The Session", func(t *testing.T) {
		server := newRealtimeServer(t, func(conn *websocket.Conn) {
			sendEvent(conn, map[string]any{"type": "error", "error": map[string]any{"message": "voice not found"}})
		})

		client := providers.NewOpenAIRealtime("test-key", wsURL(server), "", time.Second)
		_, err := client.Synthesize(context.Background(), "en", "Hello")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "server error event")
		assert.Contains(t, err.Error(), "voice not found")
	})

	t.Run("Premature Close Is A Distinct Failure", func(t *testing.T) {
		server := newRealtimeServer(t, func(conn *websocket.Conn) {
			// Hang up without ever sending a terminal event.
			_ = conn.Close()
		})

		client := providers.NewOpenAIRealtime("test-key", wsURL(server), "", time.Second)
		_, err := client.Synthesize(context.Background(), "en", "Hello")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "closed before completion")
	})

	t.Run("Deadline Forces Termination", func(t *testing.T) {
		blockServer := make(chan struct{})
		server := newRealtimeServer(t, func(conn *websocket.Conn) {
			// Never send a terminal event; just sit on the connection.
			<-blockServer
		})
		defer close(blockServer)

		client := providers.NewOpenAIRealtime("test-key", wsURL(server), "", 150*time.Millisecond)

		start := time.Now()
		_, err := client.Synthesize(context.Background(), "en", "Hello")
		elapsed := time.Since(start)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out")
		assert.Less(t, elapsed, 2*time.Second, "the deadline should fire close to the configured timeout")
	})

	t.Run("Dial Failure", func(t *testing.T) {
		// Plain HTTP server that refuses the upgrade.
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := providers.NewOpenAIRealtime("test-key", wsURL(server), "", time.Second)
		_, err := client.Synthesize(context.Background(), "en", "Hello")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "realtime dial failed")
		assert.Contains(t, err.Error(), "403")
	})
}

func TestRealtimeClient_Name(t *testing.T) {
	assert.Equal(t, providers.OpenAIRealtime, providers.NewOpenAIRealtime("k", "", "", 0).Name())
}
