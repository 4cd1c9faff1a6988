package realtime

import (
	"context"
	"encoding/json"
	"testing"
)

type fakePublisher struct {
	paymentID int64
	event     string
	payload   []byte
}

func (f *fakePublisher) PublishPaymentEvent(_ context.Context, paymentID int64, event string, payload []byte) error {
	f.paymentID, f.event, f.payload = paymentID, event, payload
	return nil
}

type fakeSubscriber struct {
	handlers  map[int64]func(string, []byte)
	cancelled []int64
}

func (f *fakeSubscriber) SubscribePayment(paymentID int64, handler func(event string, payload []byte)) (func(), error) {
	f.handlers[paymentID] = handler
	return func() { f.cancelled = append(f.cancelled, paymentID) }, nil
}

func newTestClient(id string, paymentID int64) *Client {
	return &Client{ID: id, PaymentID: paymentID, send: make(chan WSMessage, 4)}
}

func TestHub_PublishPaymentStatus_Local(t *testing.T) {
	h := NewHub(nil, nil, nil)
	watcher := newTestClient("a", 7)
	other := newTestClient("b", 8)
	h.Register(watcher)
	h.Register(other)

	if err := h.PublishPaymentStatus(context.Background(), 7, "PAGO"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case msg := <-watcher.send:
		var got StatusMessage
		if msg.Event != EventPaymentStatus || json.Unmarshal(msg.Data, &got) != nil || got.Status != "PAGO" || got.PaymentID != 7 {
			t.Fatalf("unexpected message %+v", msg)
		}
	default:
		t.Fatal("watcher got nothing")
	}
	if len(other.send) != 0 {
		t.Fatal("other payment's watcher must not be notified")
	}
}

func TestHub_PublishPaymentStatus_Redis(t *testing.T) {
	pub := &fakePublisher{}
	sub := &fakeSubscriber{handlers: map[int64]func(string, []byte){}}
	h := NewHub(nil, pub, sub)
	c := newTestClient("a", 7)
	h.Register(c)

	if err := h.PublishPaymentStatus(context.Background(), 7, "RECUSADO"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pub.paymentID != 7 || pub.event != EventPaymentStatus {
		t.Fatalf("unexpected publish %+v", pub)
	}
	if len(c.send) != 0 {
		t.Fatal("redis mode must not broadcast locally before the subscription fires")
	}

	sub.handlers[7](pub.event, pub.payload)
	if len(c.send) != 1 {
		t.Fatal("subscription must deliver to local watcher")
	}

	h.Unregister(c)
	if h.Watchers(7) != 0 || len(sub.cancelled) != 1 {
		t.Fatalf("expected subscription cancelled, got %v", sub.cancelled)
	}
}
