package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// session wraps one spectator connection. Writes are serialized so the
// broadcast fan-out and the per-connection read loop never interleave frames.
type session struct {
	id           string
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu sync.Mutex
}

func (s *session) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *session) close(code int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	message := websocket.FormatCloseMessage(code, reason)
	s.conn.WriteMessage(websocket.CloseMessage, message)
	s.conn.Close()
}
