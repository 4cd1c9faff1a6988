package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mentora/checkout/pkg/queue"
)

type fakeEnqueuer struct {
	payloads []queue.NotificationPayload
	delays   []time.Duration
	err      error
}

func (f *fakeEnqueuer) EnqueueNotification(_ context.Context, p queue.NotificationPayload, delay time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, p)
	f.delays = append(f.delays, delay)
	return nil
}

func TestDispatcher_Enqueue(t *testing.T) {
	q := &fakeEnqueuer{}
	d := NewDispatcher(q, nil)

	err := d.Enqueue(context.Background(), TemplatePaymentReminder, "ana@example.com", map[string]any{"payment_id": int64(9)}, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.payloads) != 1 || q.payloads[0].Template != TemplatePaymentReminder || q.delays[0] != time.Hour {
		t.Fatalf("unexpected enqueue %+v %v", q.payloads, q.delays)
	}
}

func TestDispatcher_NegativeDelaySendsNow(t *testing.T) {
	q := &fakeEnqueuer{}
	if err := NewDispatcher(q, nil).Enqueue(context.Background(), TemplatePaymentReceived, "ana@example.com", nil, -time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.delays[0] != 0 {
		t.Fatalf("expected zero delay, got %v", q.delays[0])
	}
}

func TestDispatcher_RejectsMissingFields(t *testing.T) {
	d := NewDispatcher(&fakeEnqueuer{}, nil)
	if err := d.Enqueue(context.Background(), "", "ana@example.com", nil, 0); !errors.Is(err, ErrMissingTemplate) {
		t.Fatalf("expected ErrMissingTemplate, got %v", err)
	}
	if err := d.Enqueue(context.Background(), TemplatePaymentReceived, " ", nil, 0); !errors.Is(err, ErrMissingRecipient) {
		t.Fatalf("expected ErrMissingRecipient, got %v", err)
	}
}

func TestDispatcher_PropagatesQueueError(t *testing.T) {
	boom := errors.New("redis down")
	if err := NewDispatcher(&fakeEnqueuer{err: boom}, nil).Enqueue(context.Background(), TemplatePaymentReceived, "a@b.c", nil, 0); !errors.Is(err, boom) {
		t.Fatalf("expected queue error, got %v", err)
	}
}
