package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/trunkcat/fixtures/models"
)

// MatchHandler receives every match pushed to a subscription.
type MatchHandler func(models.Match)

type incomingMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	RoomID  string          `json:"room_id,omitempty"`
}

// Subscriber follows a stage's room on a console server.
type Subscriber struct {
	conn   *websocket.Conn
	logger *slog.Logger
}

// Subscribe dials url (e.g. ws://host/api/ws/stages/{id}).
func Subscribe(ctx context.Context, url string, header http.Header, logger *slog.Logger) (*Subscriber, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: status %d: %w", url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Subscriber{conn: conn, logger: logger.With(slog.String("url", url))}, nil
}

// Run delivers MATCH_UPDATED payloads to handle until ctx is done or the
// server closes the connection. Other message types are skipped.
func (s *Subscriber) Run(ctx context.Context, handle MatchHandler) error {
	stop := context.AfterFunc(ctx, func() { s.conn.Close() })
	defer stop()
	defer s.conn.Close()

	for {
		var msg incomingMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				s.logger.Warn("skipping malformed message", slog.Any("error", err))
				continue
			}
			return fmt.Errorf("read: %w", err)
		}

		if msg.Type != MessageTypeMatchUpdated {
			s.logger.Debug("ignoring message", slog.String("type", msg.Type))
			continue
		}
		var match models.Match
		if err := json.Unmarshal(msg.Payload, &match); err != nil {
			s.logger.Warn("skipping malformed match payload", slog.Any("error", err))
			continue
		}
		handle(match)
	}
}

func (s *Subscriber) Close() error {
	return s.conn.Close()
}
