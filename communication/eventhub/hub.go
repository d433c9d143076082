package eventhub

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctiontypes"
	"github.com/gorilla/websocket"
)

const (
	JoinAuction  = "join_auction"
	LeaveAuction = "leave_auction"

	sendBuffer   = 32
	writeTimeout = 10 * time.Second
)

type Message struct {
	Type      string `json:"type"`
	AuctionID string `json:"auction_id"`
}

type Envelope struct {
	Event     auctiontypes.EventName `json:"event"`
	AuctionID string                 `json:"auction_id"`
	Data      interface{}            `json:"data"`
}

// Hub accepts websocket subscribers and delivers auction events to the
// subscribers that joined that auction's room. Each subscriber receives
// events in emission order.
type Hub struct {
	logger   lager.Logger
	upgrader websocket.Upgrader

	lock  *sync.RWMutex
	rooms map[string]map[*subscriber]struct{}
}

func New(logger lager.Logger) *Hub {
	return &Hub{
		logger: logger.Session("event-hub"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		lock:  &sync.RWMutex{},
		rooms: map[string]map[*subscriber]struct{}{},
	}
}

func (h *Hub) Emit(auctionID string, event auctiontypes.EventName, payload interface{}) {
	logger := h.logger.Session("emit", lager.Data{"auction-id": auctionID, "event": event})

	message, err := json.Marshal(Envelope{Event: event, AuctionID: auctionID, Data: payload})
	if err != nil {
		logger.Error("failed-to-marshal", err)
		return
	}

	h.lock.RLock()
	subscribers := make([]*subscriber, 0, len(h.rooms[auctionID]))
	for s := range h.rooms[auctionID] {
		subscribers = append(subscribers, s)
	}
	h.lock.RUnlock()

	for _, s := range subscribers {
		if !s.enqueue(message) {
			logger.Info("dropped-message", lager.Data{"subscriber": s.id})
		}
	}
}

func (h *Hub) RoomSize(auctionID string) int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.rooms[auctionID])
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("subscribe")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("failed-to-upgrade", err)
		return
	}

	s := newSubscriber(conn)
	logger = logger.WithData(lager.Data{"subscriber": s.id})
	logger.Info("connected")

	go s.writeLoop(logger)
	defer func() {
		h.leaveAll(s)
		s.close()
		logger.Info("disconnected")
	}()

	for {
		var message Message
		if err := conn.ReadJSON(&message); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Error("failed-to-read", err)
			}
			return
		}

		if message.AuctionID == "" {
			logger.Info("missing-auction-id", lager.Data{"type": message.Type})
			continue
		}

		switch message.Type {
		case JoinAuction:
			h.join(s, message.AuctionID)
			logger.Debug("joined", lager.Data{"auction-id": message.AuctionID})
		case LeaveAuction:
			h.leave(s, message.AuctionID)
			logger.Debug("left", lager.Data{"auction-id": message.AuctionID})
		default:
			logger.Info("unknown-message", lager.Data{"type": message.Type})
		}
	}
}

func (h *Hub) join(s *subscriber, auctionID string) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.rooms[auctionID] == nil {
		h.rooms[auctionID] = map[*subscriber]struct{}{}
	}
	h.rooms[auctionID][s] = struct{}{}
}

func (h *Hub) leave(s *subscriber, auctionID string) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.leaveLocked(s, auctionID)
}

func (h *Hub) leaveAll(s *subscriber) {
	h.lock.Lock()
	defer h.lock.Unlock()

	for auctionID := range h.rooms {
		h.leaveLocked(s, auctionID)
	}
}

func (h *Hub) leaveLocked(s *subscriber, auctionID string) {
	room, ok := h.rooms[auctionID]
	if !ok {
		return
	}
	delete(room, s)
	if len(room) == 0 {
		delete(h.rooms, auctionID)
	}
}
