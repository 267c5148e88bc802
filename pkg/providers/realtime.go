package providers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultRealtimeURL   = "wss://api.openai.com/v1/realtime?model=gpt-4o-mini-realtime-preview"
	defaultRealtimeVoice = "alloy"

	// DefaultRealtimeTimeout is the deadline for a whole synthesis session.
	// If no terminal event arrives within it, the connection is forcibly
	// terminated and the call fails.
	DefaultRealtimeTimeout = 25 * time.Second
)

// sessionState tracks a synthesis session through the streaming protocol.
//
// The happy path is stateOpen -> stateAwaitingAudio -> stateComplete. Any
// state can transition to stateFailed or stateTimedOut. The three rightmost
// states are terminal; only the first terminal transition is honored, so late
// events after completion can never re-resolve a session.
type sessionState int

const (
	stateOpen sessionState = iota
	stateAwaitingAudio
	stateComplete
	stateFailed
	stateTimedOut
)

// terminal reports whether the state permits no further transitions.
func (s sessionState) terminal() bool {
	return s == stateComplete || s == stateFailed || s == stateTimedOut
}

// Event type discriminators, with the name variants used across protocol
// revisions. Unknown event types are ignored.
var (
	audioDeltaEvents = map[string]struct{}{
		"response.audio.delta":        {},
		"response.output_audio.delta": {},
	}
	completionEvents = map[string]struct{}{
		"response.done":      {},
		"response.completed": {},
	}
	errorEvents = map[string]struct{}{
		"error":          {},
		"response.error": {},
	}
)

// RealtimeClient is a Synthesizer backed by the OpenAI realtime API: a
// stateful, multi-message protocol over a persistent WebSocket rather than a
// single request/response.
type RealtimeClient struct {
	url     string
	apiKey  string
	voice   string
	timeout time.Duration
	dialer  *websocket.Dialer
}

// NewOpenAIRealtime returns the streaming speech adapter. Empty url or voice
// fall back to the vendor defaults; a non-positive timeout falls back to
// DefaultRealtimeTimeout.
func NewOpenAIRealtime(apiKey, url, voice string, timeout time.Duration) *RealtimeClient {
	if timeout <= 0 {
		timeout = DefaultRealtimeTimeout
	}
	return &RealtimeClient{
		url:     orDefault(url, defaultRealtimeURL),
		apiKey:  apiKey,
		voice:   orDefault(voice, defaultRealtimeVoice),
		timeout: timeout,
		dialer:  websocket.DefaultDialer,
	}
}

// Name returns the adapter's identity.
func (c *RealtimeClient) Name() Name { return OpenAIRealtime }

// serverEvent is an inbound protocol message. Only the discriminator and the
// fields the adapter consumes are decoded.
type serverEvent struct {
	Type  string          `json:"type"`
	Delta string          `json:"delta"`
	Error json.RawMessage `json:"error"`
}

// errorText stringifies the error payload of an error event.
func (e serverEvent) errorText() string {
	if len(e.Error) == 0 {
		return e.Type
	}
	return string(e.Error)
}

// Synthesize opens a realtime session, drives the synthesis handshake and
// collects the streamed audio until a terminal event.
func (c *RealtimeClient) Synthesize(ctx context.Context, language, text string) ([]byte, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)
	header.Set("OpenAI-Beta", "realtime=v1")

	conn, response, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("realtime dial failed with status %d: %w", response.StatusCode, err)
		}
		return nil, fmt.Errorf("realtime dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	session := &synthesisSession{conn: conn, state: stateOpen}
	if err := session.configure(c.voice, language, text); err != nil {
		return nil, err
	}
	return session.collect(c.timeout)
}

// synthesisSession holds the per-call protocol state: the connection, the
// state machine position and the ordered audio buffer.
type synthesisSession struct {
	conn  *websocket.Conn
	state sessionState

	// chunks preserves audio deltas in arrival order; totalBytes is the
	// running sum of their lengths for the final single-allocation join.
	chunks     [][]byte
	totalBytes int
}

// transition moves the session to a new state. It returns false, changing
// nothing, when a terminal state has already been reached. This is the single
// guard that makes completion idempotent.
func (s *synthesisSession) transition(to sessionState) bool {
	if s.state.terminal() {
		return false
	}
	s.state = to
	return true
}

// configure sends the three outbound control messages that set up a synthesis
// session: session configuration, the input text as a conversation item, and
// a response request restricted to audio output.
func (s *synthesisSession) configure(voice, language, text string) error {
	messages := []any{
		map[string]any{
			"type": "session.update",
			"session": map[string]any{
				"modalities":          []string{"audio", "text"},
				"voice":               voice,
				"output_audio_format": "pcm16",
			},
		},
		map[string]any{
			"type": "conversation.item.create",
			"item": map[string]any{
				"type": "message",
				"role": RoleUser,
				"content": []map[string]any{
					{"type": "input_text", "text": text},
				},
			},
		},
		map[string]any{
			"type": "response.create",
			"response": map[string]any{
				"modalities":   []string{"audio"},
				"instructions": fmt.Sprintf("Read the provided text aloud verbatim, in %s.", language),
			},
		},
	}

	for _, message := range messages {
		if err := s.conn.WriteJSON(message); err != nil {
			s.transition(stateFailed)
			return fmt.Errorf("failed to send realtime control message: %w", err)
		}
	}

	s.transition(stateAwaitingAudio)
	return nil
}

// collect reads inbound events until a terminal transition, enforcing the
// session deadline. On success it returns the concatenated audio buffer.
func (s *synthesisSession) collect(timeout time.Duration) ([]byte, error) {
	// The deadline timer forcibly terminates the connection, which unblocks
	// the read loop below. timedOut distinguishes that from a peer close.
	var timedOut atomic.Bool
	timer := time.AfterFunc(timeout, func() {
		timedOut.Store(true)
		_ = s.conn.Close()
	})
	defer timer.Stop()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if timedOut.Load() {
				s.transition(stateTimedOut)
				return nil, fmt.Errorf("synthesis timed out: no terminal event within %s", timeout)
			}
			s.transition(stateFailed)
			return nil, fmt.Errorf("connection closed before completion: %w", err)
		}

		var event serverEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			s.transition(stateFailed)
			return nil, fmt.Errorf("malformed server event: %w", err)
		}

		switch {
		case eventIn(event.Type, audioDeltaEvents):
			chunk, err := base64.StdEncoding.DecodeString(event.Delta)
			if err != nil {
				s.transition(stateFailed)
				return nil, fmt.Errorf("failed to decode audio delta: %w", err)
			}
			s.chunks = append(s.chunks, chunk)
			s.totalBytes += len(chunk)

		case eventIn(event.Type, completionEvents):
			if !s.transition(stateComplete) {
				continue
			}
			return s.joinChunks(), nil

		case eventIn(event.Type, errorEvents):
			if !s.transition(stateFailed) {
				continue
			}
			return nil, fmt.Errorf("server error event: %s", event.errorText())

		default:
			// Lifecycle chatter (session.created, response.created, ...) is
			// irrelevant to the measurement.
		}
	}
}

// joinChunks concatenates all received deltas into one buffer, preserving
// arrival order, with a single allocation sized to the sum of chunk lengths.
func (s *synthesisSession) joinChunks() []byte {
	audio := make([]byte, s.totalBytes)
	var offset int
	for _, chunk := range s.chunks {
		offset += copy(audio[offset:], chunk)
	}
	return audio
}

// eventIn reports whether the event type belongs to the given variant set.
func eventIn(eventType string, set map[string]struct{}) bool {
	_, ok := set[eventType]
	return ok
}
