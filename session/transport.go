package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kannanvijayan/renfrew-river/rulesetstore"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server accepts WebSocket connections and runs one Session per
// client. Only one client is served at a time; a connection attempted
// while another is active is upgraded (so the handshake completes
// cleanly) and then closed immediately (spec.md §6: "only one
// concurrent client is accepted").
type Server struct {
	store              *rulesetstore.Store
	deviceTickInterval time.Duration

	mu     sync.Mutex
	active bool
}

// NewServer wraps store in a transport ready to be registered with an
// http.ServeMux, using the compute device's default poll cadence.
func NewServer(store *rulesetstore.Store) *Server {
	return NewServerWithDeviceTickInterval(store, defaultDeviceTickInterval)
}

// NewServerWithDeviceTickInterval is NewServer with an explicit compute
// device poll cadence (config's Generation.DeviceTickIntervalMs).
func NewServerWithDeviceTickInterval(store *rulesetstore.Store, deviceTickInterval time.Duration) *Server {
	return &Server{store: store, deviceTickInterval: deviceTickInterval}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		sessionLog.Printf("websocket upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "a client is already connected"))
		_ = conn.Close()
		return
	}
	s.active = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.active = false
		s.mu.Unlock()
		_ = conn.Close()
	}()

	s.serve(conn)
}

// serve runs one client's strictly sequential command/response loop:
// read a command, dispatch it, write the response, repeat; until the
// client disconnects or sends an envelope DecodeCommand rejects
// (spec.md §6: "an unrecognized command tag closes the connection").
// Unlike the teacher's websocket.go, there is no separate writer
// goroutine or broadcast channel: this protocol is strict
// request/response, one command in flight at a time (spec.md §5).
func (s *Server) serve(conn *websocket.Conn) {
	sess := NewSessionWithDeviceTickInterval(s.store, s.deviceTickInterval)
	var writeMu sync.Mutex

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, &writeMu, done)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		cmd, decodeErr := DecodeCommand(raw)
		if decodeErr != nil {
			sessionLog.Printf("closing connection: %v", decodeErr)
			return
		}

		resp := sess.Handle(cmd)
		body, err := encodeResponse(resp)
		if err != nil {
			sessionLog.Printf("failed to encode response: %v", err)
			return
		}

		writeMu.Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		err = conn.WriteMessage(websocket.TextMessage, body)
		writeMu.Unlock()
		if err != nil {
			return
		}
	}
}

// pingLoop keeps the connection's read deadline alive between
// commands, mirroring the teacher's websocket.go ping ticker. Writes
// share writeMu with serve's response writes, since a gorilla
// websocket.Conn supports only one concurrent writer.
func pingLoop(conn *websocket.Conn, writeMu *sync.Mutex, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			writeMu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			writeMu.Unlock()
			if err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
