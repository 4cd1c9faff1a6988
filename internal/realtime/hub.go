// Package realtime streams payment status changes to the buyer's browser over websockets.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat, in seconds.
	PingInterval = 30
	PongWait     = 60

	// EventPaymentStatus carries {"payment_id", "status"}.
	EventPaymentStatus = "payment_status"
)

// RedisPublisher publishes payment events to every instance.
type RedisPublisher interface {
	PublishPaymentEvent(ctx context.Context, paymentID int64, event string, payload []byte) error
}

// RedisSubscriber subscribes to payment channels and invokes handler for incoming events.
type RedisSubscriber interface {
	SubscribePayment(paymentID int64, handler func(event string, payload []byte)) (cancel func(), err error)
}

// StatusMessage is the payload of EventPaymentStatus.
type StatusMessage struct {
	PaymentID int64  `json:"payment_id"`
	Status    string `json:"status"`
}

// Hub maintains payment_id -> set of connections and broadcasts messages.
// With Redis configured, events go through pub/sub so every instance delivers them once.
type Hub struct {
	payments map[int64]map[string]*Client
	subs     map[int64]func()
	mu       sync.RWMutex
	logger   *zap.Logger
	redis    RedisPublisher
	redisSub RedisSubscriber
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		payments: make(map[int64]map[string]*Client),
		subs:     make(map[int64]func()),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Register adds a client to a payment room. Starts the Redis subscription on the first client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.payments[c.PaymentID] == nil {
		h.payments[c.PaymentID] = make(map[string]*Client)
		if h.redisSub != nil {
			paymentID := c.PaymentID
			cancel, err := h.redisSub.SubscribePayment(paymentID, func(event string, payload []byte) {
				h.Broadcast(paymentID, event, json.RawMessage(payload))
			})
			if err != nil {
				h.logger.Warn("redis subscribe failed", zap.Int64("payment_id", paymentID), zap.Error(err))
			} else {
				h.subs[paymentID] = cancel
			}
		}
	}
	h.payments[c.PaymentID][c.ID] = c
	h.logger.Debug("client watching payment", zap.String("client_id", c.ID), zap.Int64("payment_id", c.PaymentID))
}

// Unregister removes a client. Cancels the Redis subscription when the last client leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.payments[c.PaymentID]
	if !ok {
		return
	}
	delete(m, c.ID)
	if len(m) == 0 {
		delete(h.payments, c.PaymentID)
		if cancel, ok := h.subs[c.PaymentID]; ok {
			cancel()
			delete(h.subs, c.PaymentID)
		}
	}
}

// Broadcast sends a message to all local clients watching a payment.
func (h *Hub) Broadcast(paymentID int64, event string, payload any) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.payments[paymentID] {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// PublishPaymentStatus notifies every watcher of paymentID, on this and other instances.
func (h *Hub) PublishPaymentStatus(ctx context.Context, paymentID int64, status string) error {
	msg := StatusMessage{PaymentID: paymentID, Status: status}
	if h.redis == nil {
		h.Broadcast(paymentID, EventPaymentStatus, msg)
		return nil
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return h.redis.PublishPaymentEvent(ctx, paymentID, EventPaymentStatus, data)
}

// Watchers returns the number of local clients watching a payment.
func (h *Hub) Watchers(paymentID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.payments[paymentID])
}
