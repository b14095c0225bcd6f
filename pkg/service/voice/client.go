package voice

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/m-mizutani/goerr/v2"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
	"github.com/bikram-mondal/bikram-ai/pkg/domain/types"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/async"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/logging"
)

// DefaultEndpoint is the realtime endpoint of the voice pipeline service
const DefaultEndpoint = "wss://realtime.vapi.ai/ws"

// Sentinel errors for the voice client
var (
	ErrNoPublicKey   = goerr.New("voice agent public key is not configured")
	ErrSessionOpen   = goerr.New("a voice session is already open")
	ErrConnectFailed = goerr.New("failed to connect to voice pipeline service")
)

// envelope is the JSON frame exchanged with the voice pipeline service
type envelope struct {
	Type      string                 `json:"type"`
	Assistant *model.AssistantConfig `json:"assistant,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Client speaks the voice pipeline's websocket event protocol and
// implements interfaces.VoiceClient. It authenticates with the PUBLIC
// client key only; provider secrets (speech/LLM) live server-side at the
// pipeline service and must never be added here.
type Client struct {
	publicKey string
	endpoint  string
	dialer    *websocket.Dialer

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[types.VoiceEvent][]func(model.VoiceSignal)
}

// Option configures a Client
type Option func(*Client)

// WithEndpoint overrides the realtime endpoint URL
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// New creates a voice client. The public key may be empty; the
// configuration error surfaces on the first Start.
func New(publicKey string, opts ...Option) *Client {
	c := &Client{
		publicKey: publicKey,
		endpoint:  DefaultEndpoint,
		dialer:    websocket.DefaultDialer,
		handlers:  make(map[types.VoiceEvent][]func(model.VoiceSignal)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// On registers a handler for a named pipeline event. Handlers are
// invoked sequentially from the read loop goroutine.
func (c *Client) On(event types.VoiceEvent, handler func(model.VoiceSignal)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], handler)
}

// Start opens a voice session and begins dispatching pipeline events
func (c *Client) Start(ctx context.Context, cfg model.AssistantConfig) error {
	if c.publicKey == "" {
		return goerr.Wrap(ErrNoPublicKey, "cannot start voice session")
	}

	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return goerr.Wrap(ErrSessionOpen, "stop the current session first")
	}
	c.mu.Unlock()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.publicKey)

	conn, resp, err := c.dialer.DialContext(ctx, c.endpoint, header)
	if err != nil {
		if resp != nil {
			return goerr.Wrap(ErrConnectFailed, err.Error(), goerr.V("status", resp.StatusCode))
		}
		return goerr.Wrap(ErrConnectFailed, err.Error())
	}

	if err := conn.WriteJSON(envelope{Type: "start", Assistant: &cfg}); err != nil {
		_ = conn.Close()
		return goerr.Wrap(ErrConnectFailed, "failed to send start frame")
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	async.Dispatch(ctx, func(ctx context.Context) error {
		c.readLoop(ctx, conn)
		return nil
	})

	return nil
}

// Stop terminates the current session. Stopping a closed session is a no-op.
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	if err := conn.WriteJSON(envelope{Type: "stop"}); err != nil {
		logging.From(ctx).Debug("failed to send stop frame", "error", err.Error())
	}
	return conn.Close()
}

// readLoop dispatches incoming event frames until the connection closes
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	logger := logging.From(ctx)

	for {
		var ev envelope
		if err := conn.ReadJSON(&ev); err != nil {
			c.mu.Lock()
			active := c.conn == conn
			if active {
				c.conn = nil
			}
			c.mu.Unlock()

			// A read error on the live connection is a runtime error;
			// after Stop it is just the connection winding down.
			if active {
				logger.Warn("voice stream closed unexpectedly", "error", err.Error())
				c.emit(types.VoiceEventError, model.VoiceSignal{Reason: err.Error()})
				c.emit(types.VoiceEventCallEnd, model.VoiceSignal{})
			}
			return
		}

		event := types.VoiceEvent(ev.Type)
		if !event.IsValid() {
			logger.Debug("ignoring unknown voice event", "type", ev.Type)
			continue
		}
		c.emit(event, model.VoiceSignal{Text: ev.Message, Reason: ev.Error})
	}
}

func (c *Client) emit(event types.VoiceEvent, sig model.VoiceSignal) {
	c.mu.Lock()
	handlers := make([]func(model.VoiceSignal), len(c.handlers[event]))
	copy(handlers, c.handlers[event])
	c.mu.Unlock()

	for _, handler := range handlers {
		handler(sig)
	}
}
