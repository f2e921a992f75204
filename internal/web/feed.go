package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/matchboard/internal/metrics"
	"github.com/yourusername/matchboard/internal/models"
	"github.com/yourusername/matchboard/internal/selector"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	subscriberSend = 8
)

// Feed pushes value-bet selections to websocket subscribers
type Feed struct {
	upgrader    websocket.Upgrader
	logger      *logrus.Logger
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	latest      []byte
	closed      bool
}

type subscriber struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// NewFeed creates an empty feed
func NewFeed(log *logrus.Logger) *Feed {
	return &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:      log,
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Subscribe upgrades the request and streams selections until the peer leaves.
// New subscribers receive the latest broadcast immediately.
func (f *Feed) Subscribe(w http.ResponseWriter, r *http.Request) error {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	sub := &subscriber{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, subscriberSend),
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		conn.Close()
		return fmt.Errorf("feed is closed")
	}
	f.subscribers[sub] = struct{}{}
	if f.latest != nil {
		sub.send <- f.latest
	}
	count := len(f.subscribers)
	f.mu.Unlock()

	metrics.UpdateFeedSubscribers(count)
	f.logger.WithField("subscriber_id", sub.id).Debug("Feed subscriber connected")

	go f.writePump(sub)
	f.readPump(sub)
	return nil
}

// Broadcast sends the selection to every subscriber. Slow subscribers are dropped.
func (f *Feed) Broadcast(selection *selector.Selection) error {
	bets := selection.Candidates
	if bets == nil {
		bets = []models.ValueBet{}
	}
	payload, err := json.Marshal(ValueBetsResponse{ValueBets: bets})
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.latest = payload
	for sub := range f.subscribers {
		select {
		case sub.send <- payload:
		default:
			f.removeLocked(sub)
		}
	}
	metrics.UpdateFeedSubscribers(len(f.subscribers))
	return nil
}

// Subscribers returns the number of connected subscribers
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}

// Close disconnects every subscriber and rejects new ones
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	for sub := range f.subscribers {
		f.removeLocked(sub)
	}
	metrics.UpdateFeedSubscribers(0)
}

// removeLocked must be called with f.mu held.
func (f *Feed) removeLocked(sub *subscriber) {
	if _, ok := f.subscribers[sub]; !ok {
		return
	}
	delete(f.subscribers, sub)
	close(sub.send)
}

func (f *Feed) remove(sub *subscriber) {
	f.mu.Lock()
	f.removeLocked(sub)
	count := len(f.subscribers)
	f.mu.Unlock()
	metrics.UpdateFeedSubscribers(count)
}

// readPump discards client messages and tracks pongs.
func (f *Feed) readPump(sub *subscriber) {
	defer func() {
		f.remove(sub)
		sub.conn.Close()
		f.logger.WithField("subscriber_id", sub.id).Debug("Feed subscriber disconnected")
	}()

	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.NextReader(); err != nil {
			return
		}
	}
}

func (f *Feed) writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				f.logger.WithError(err).WithField("subscriber_id", sub.id).Debug("Feed write failed")
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
