package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/pkg/errors"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 << 10
)

// client adapts a websocket connection to domain.Client. Reads and writes
// each happen from a single goroutine, the one serving the match.
type client struct {
	conn *websocket.Conn
	key  string
}

func newClient(conn *websocket.Conn, key string) client {
	conn.SetReadLimit(maxMessageSize)
	return client{conn: conn, key: key}
}

func (c client) WriteMessage(msg domain.Message) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return errors.WithMessage(err, "set write deadline")
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return errors.WithMessage(err, "websocket conn write json")
	}
	return nil
}

// ReadMessage reports a close frame from the peer as
// domain.ErrConnectionClosed.
func (c client) ReadMessage() (domain.Message, error) {
	var msg domain.Message
	err := c.conn.ReadJSON(&msg)
	var closeErr *websocket.CloseError
	switch {
	case errors.As(err, &closeErr):
		return domain.Message{}, errors.WithMessage(domain.ErrConnectionClosed, closeErr.Error())
	case err != nil:
		return domain.Message{}, errors.WithMessage(err, "websocket conn read json")
	}
	return msg, nil
}

func (c client) Key() string {
	return c.key
}

// Close says goodbye with a normal closure frame before dropping the
// connection.
func (c client) Close() {
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	_ = c.conn.Close()
}
