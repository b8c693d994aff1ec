package ws

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) (*ReviewHub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewReviewHub()
	go hub.Run()

	r := gin.New()
	r.GET("/ws/reviews", hub.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/reviews"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func subscribe(t *testing.T, hub *ReviewHub, conn *websocket.Conn, topic string) {
	t.Helper()
	frame := fmt.Sprintf(`{"action":"subscribe","topic":%q}`, topic)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("subscribe write: %v", err)
	}
	waitFor(t, func() bool { return hub.subscriberCount(topic) > 0 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func (h *ReviewHub) subscriberCount(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

func TestReviewHub_SubscribeAndReceive(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	subscribe(t, hub, conn, "menuItem:7")

	hub.Publish("menuItem:7", "ratingUpdate", map[string]any{"menuItemId": 7})

	ev := readEvent(t, conn)
	if ev.Type != "ratingUpdate" || ev.Topic != "menuItem:7" {
		t.Fatalf("event = %+v, want ratingUpdate on menuItem:7", ev)
	}
}

func TestReviewHub_TopicsAreIsolated(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	subscribe(t, hub, conn, "menuItem:1")

	hub.Publish("menuItem:2", "ratingUpdate", nil)
	hub.Publish("menuItem:1", "newReview", nil)

	// only the subscribed topic's event arrives
	ev := readEvent(t, conn)
	if ev.Topic != "menuItem:1" || ev.Type != "newReview" {
		t.Fatalf("event = %+v, want newReview on menuItem:1", ev)
	}
}

func TestReviewHub_NoReplayForLateSubscribers(t *testing.T) {
	hub, url := startHub(t)

	hub.Publish("restaurant:3", "newReview", nil)
	// let the hub drain the event with nobody listening
	time.Sleep(50 * time.Millisecond)

	conn := dial(t, url)
	subscribe(t, hub, conn, "restaurant:3")

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var ev Event
	if err := conn.ReadJSON(&ev); err == nil {
		t.Fatalf("late subscriber received replayed event %+v", ev)
	}
}

func TestReviewHub_Unsubscribe(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	subscribe(t, hub, conn, "menuItem:9")

	frame := `{"action":"unsubscribe","topic":"menuItem:9"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("unsubscribe write: %v", err)
	}
	waitFor(t, func() bool { return hub.subscriberCount("menuItem:9") == 0 })

	hub.Publish("menuItem:9", "ratingUpdate", nil)

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var ev Event
	if err := conn.ReadJSON(&ev); err == nil {
		t.Fatalf("unsubscribed client received event %+v", ev)
	}
}

func TestReviewHub_PublishNeverBlocks(t *testing.T) {
	// no Run loop: the buffer fills and the rest must drop, not block
	hub := NewReviewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			hub.Publish("menuItem:1", "ratingUpdate", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a saturated hub")
	}
}
