package broadcast

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSSubscriber adapts a websocket connection to the Subscriber
// capability. Writes are serialized with a mutex since gorilla
// connections allow only one concurrent writer.
type WSSubscriber struct {
	id   string
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

func NewWSSubscriber(conn *websocket.Conn) *WSSubscriber {
	return &WSSubscriber{
		id:   uuid.NewString(),
		conn: conn,
	}
}

func (s *WSSubscriber) ID() string {
	return s.id
}

func (s *WSSubscriber) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *WSSubscriber) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

func (s *WSSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
