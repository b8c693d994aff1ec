package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ReviewHub fans review events out to subscribers of entity-scoped topics
// ("menuItem:<id>", "restaurant:<id>"). There is no replay: a client that
// subscribes after an event was published never sees it.
type ReviewHub struct {
	topics     map[string]map[*websocket.Conn]bool // topic -> set of clients
	register   chan subscription
	unregister chan subscription
	broadcast  chan Event
	closed     chan *websocket.Conn
	mu         sync.Mutex
}

type subscription struct {
	Conn  *websocket.Conn
	Topic string
}

// Event is the frame delivered to subscribers.
type Event struct {
	Type    string `json:"type"`
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
}

func NewReviewHub() *ReviewHub {
	return &ReviewHub{
		topics:     make(map[string]map[*websocket.Conn]bool),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		broadcast:  make(chan Event, 64),
		closed:     make(chan *websocket.Conn),
	}
}

// Run loops over register/unregister/broadcast until the process exits.
func (h *ReviewHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.topics[sub.Topic] == nil {
				h.topics[sub.Topic] = make(map[*websocket.Conn]bool)
			}
			h.topics[sub.Topic][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			delete(h.topics[sub.Topic], sub.Conn)
			h.mu.Unlock()

		case conn := <-h.closed:
			h.mu.Lock()
			for _, clients := range h.topics {
				delete(clients, conn)
			}
			h.mu.Unlock()
			conn.Close()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.topics[ev.Topic] {
				if err := conn.WriteJSON(ev); err != nil {
					log.Printf("ws write error: %v", err)
					conn.Close()
					delete(h.topics[ev.Topic], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an event without blocking. When the hub cannot keep up the
// event is dropped and logged; delivery is best effort and must never stall
// the review mutation that produced it.
func (h *ReviewHub) Publish(topic, eventType string, payload any) {
	select {
	case h.broadcast <- Event{Type: eventType, Topic: topic, Payload: payload}:
	default:
		log.Printf("ws: dropping %s event on %s (hub busy)", eventType, topic)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/reviews
func (h *ReviewHub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	go h.listen(conn)
}

// listen reads subscribe/unsubscribe frames from a client until it hangs up.
func (h *ReviewHub) listen(conn *websocket.Conn) {
	defer func() { h.closed <- conn }()

	for {
		_, msgData, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var frame struct {
			Action string `json:"action"` // subscribe | unsubscribe
			Topic  string `json:"topic"`
		}
		if err := json.Unmarshal(msgData, &frame); err != nil {
			log.Printf("ws invalid frame: %v", err)
			continue
		}
		if frame.Topic == "" {
			continue
		}

		switch frame.Action {
		case "subscribe":
			h.register <- subscription{Conn: conn, Topic: frame.Topic}
		case "unsubscribe":
			h.unregister <- subscription{Conn: conn, Topic: frame.Topic}
		}
	}
}
