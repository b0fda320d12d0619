// Package chat is the WebSocket client for event chat rooms.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"riconnect/internal/domain"
)

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
)

type client struct {
	url    string
	dialer *websocket.Dialer
	logger *slog.Logger
}

// NewClient returns a ChatClient for the socket at url (ws:// or wss://).
func NewClient(url string, logger *slog.Logger) domain.ChatClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &client{
		url:    url,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		logger: logger,
	}
}

func (c *client) dial(ctx context.Context, token string) (*websocket.Conn, error) {
	if c.url == "" {
		return nil, fmt.Errorf("chat socket url is not configured: %w", domain.ErrInvalidInput)
	}
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		if resp != nil {
			return nil, &domain.StatusError{Op: "chat connect", StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("chat connect: %w: %w", domain.ErrNetwork, err)
	}
	return conn, nil
}

// Send opens a connection, writes msg and closes it.
func (c *client) Send(ctx context.Context, token string, msg domain.ChatMessage) error {
	conn, err := c.dial(ctx, token)
	if err != nil {
		return err
	}
	defer conn.Close()

	if msg.Action == "" {
		msg.Action = domain.ChatActionSend
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("chat send: %w: %w", domain.ErrNetwork, err)
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	return nil
}

// Listen reads broadcast messages until ctx is cancelled or the server closes the socket.
// Frames that are not chat messages are skipped.
func (c *client) Listen(ctx context.Context, token string, handle func(domain.ChatMessage)) error {
	conn, err := c.dial(ctx, token)
	if err != nil {
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
				_ = conn.Close()
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("chat receive: %w: %w", domain.ErrNetwork, err)
		}
		var msg domain.ChatMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.DebugContext(ctx, "skipping malformed chat frame", "err", err)
			continue
		}
		handle(msg)
	}
}
