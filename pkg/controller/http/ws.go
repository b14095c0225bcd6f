package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bikram-mondal/bikram-ai/pkg/service/arbiter"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/async"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/logging"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/safe"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The widget is embedded in the portfolio page; the API is same-origin
	// behind the serving host, so cross-origin upgrades are accepted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsFrame is one push to a connected widget
type wsFrame struct {
	Type       string              `json:"type"`
	Transcript *transcriptResponse `json:"transcript,omitempty"`
	Scene      string              `json:"scene,omitempty"`
}

// handleWebSocket streams transcript updates and scene signals to the
// widget. The initial state is pushed immediately so a reconnecting
// client never renders from a stale snapshot.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.From(r.Context()).Warn("websocket upgrade failed", "error", err.Error())
		return
	}

	// The request context dies when the handler returns, so the stream
	// runs on its own context carrying the request logger.
	ctx, cancel := context.WithCancel(logging.With(context.Background(), logging.From(r.Context())))

	updates, cancelWatch := s.uc.Chat.Watch()

	var scene <-chan arbiter.Signal
	cancelScene := func() {}
	if s.arb != nil {
		scene, cancelScene = s.arb.Subscribe()
	}

	// Reader only consumes control frames; any read error means the
	// client went away.
	async.Dispatch(ctx, func(context.Context) error {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return nil
			}
		}
	})

	async.Dispatch(ctx, func(context.Context) error {
		defer cancel()
		defer cancelWatch()
		defer cancelScene()
		defer safe.Close(ctx, conn)

		snapshot := s.transcript()
		if err := s.writeFrame(conn, wsFrame{Type: "transcript", Transcript: &snapshot}); err != nil {
			return nil
		}

		for {
			select {
			case <-ctx.Done():
				return nil

			case <-updates:
				snapshot := s.transcript()
				if err := s.writeFrame(conn, wsFrame{Type: "transcript", Transcript: &snapshot}); err != nil {
					return nil
				}

			case sig, ok := <-scene:
				if !ok {
					return nil
				}
				if err := s.writeFrame(conn, wsFrame{Type: "scene", Scene: string(sig)}); err != nil {
					return nil
				}
			}
		}
	})
}

func (s *Server) writeFrame(conn *websocket.Conn, frame wsFrame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(frame)
}
