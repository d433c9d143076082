package eventhub

import (
	"sync"
	"time"

	"code.cloudfoundry.org/lager/v3"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type subscriber struct {
	id   string
	conn *websocket.Conn

	lock   *sync.Mutex
	closed bool
	send   chan []byte
}

func newSubscriber(conn *websocket.Conn) *subscriber {
	return &subscriber{
		id:   uuid.NewString(),
		conn: conn,
		lock: &sync.Mutex{},
		send: make(chan []byte, sendBuffer),
	}
}

// enqueue never blocks; a subscriber that cannot keep up loses messages.
func (s *subscriber) enqueue(message []byte) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.send <- message:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

func (s *subscriber) writeLoop(logger lager.Logger) {
	defer s.conn.Close()

	for message := range s.send {
		s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Error("failed-to-write", err)
			return
		}
	}
	s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
