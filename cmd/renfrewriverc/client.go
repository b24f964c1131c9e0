package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// client holds a single WebSocket connection to a renfrewriverd
// instance and speaks its strict request/response protocol: one
// command sent, one response read back, repeat.
type client struct {
	conn *websocket.Conn
}

func dial(address string) (*client, error) {
	u := fmt.Sprintf("ws://%s/ws", address)
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	return &client{conn: conn}, nil
}

// send writes a raw tagged-union command envelope and waits for the
// matching response envelope.
func (c *client) send(raw []byte) (json.RawMessage, error) {
	if err := c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return nil, err
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		return nil, fmt.Errorf("write command: %w", err)
	}

	_, body, err := c.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return json.RawMessage(body), nil
}

func (c *client) close() {
	_ = c.conn.Close()
}
