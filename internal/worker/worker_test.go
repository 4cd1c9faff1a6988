package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mentora/checkout/pkg/queue"
)

type fakeSource struct {
	jobs    []*queue.Job
	retried []*queue.Job
	cancel  context.CancelFunc
}

func (f *fakeSource) Dequeue(context.Context, time.Duration, ...string) (*queue.Job, error) {
	if len(f.jobs) == 0 {
		f.cancel()
		return nil, nil
	}
	j := f.jobs[0]
	f.jobs = f.jobs[1:]
	return j, nil
}

func (f *fakeSource) Retry(_ context.Context, job *queue.Job) error {
	f.retried = append(f.retried, job)
	return nil
}

type fakeArchiver struct {
	err  error
	keys []string
}

func (f *fakeArchiver) ArchiveWebhook(_ context.Context, gatewayID string, eventID int64, _ time.Time, body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key := gatewayID + "/" + string(body)
	f.keys = append(f.keys, key)
	return key, nil
}

type fakeKeys map[int64]string

func (f fakeKeys) SetArchiveKey(_ context.Context, id int64, key string) error {
	f[id] = key
	return nil
}

func archiveJob(t *testing.T, eventID int64) *queue.Job {
	t.Helper()
	job, err := queue.NewJob(queue.JobTypeWebhookArchive, queue.QueueWebhookArchive, queue.WebhookArchivePayload{
		EventID: eventID, GatewayID: "asaas", Body: []byte("x"), ReceivedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	return job
}

func TestArchiveProcessor_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &fakeSource{jobs: []*queue.Job{archiveJob(t, 1), archiveJob(t, 2)}, cancel: cancel}
	keys := fakeKeys{}
	p := NewArchiveProcessor(src, &fakeArchiver{}, keys, nil)

	p.Run(ctx)

	if keys[1] != "asaas/x" || keys[2] != "asaas/x" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if len(src.retried) != 0 {
		t.Fatalf("expected no retries, got %d", len(src.retried))
	}
}

func TestArchiveProcessor_RetriesOnFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &fakeSource{jobs: []*queue.Job{archiveJob(t, 1)}, cancel: cancel}
	keys := fakeKeys{}
	p := NewArchiveProcessor(src, &fakeArchiver{err: errors.New("s3 down")}, keys, nil)
	p.backoff = time.Millisecond

	p.Run(ctx)

	if len(src.retried) != 1 || len(keys) != 0 {
		t.Fatalf("expected one retry and no key, got %d retries %v", len(src.retried), keys)
	}
}

func TestArchiveProcessor_UnknownType(t *testing.T) {
	p := NewArchiveProcessor(&fakeSource{}, &fakeArchiver{}, fakeKeys{}, nil)
	job, _ := queue.NewJob(queue.JobTypeNotification, queue.QueueNotifications, queue.NotificationPayload{Template: "x"})
	if err := p.Process(context.Background(), job); err == nil {
		t.Fatal("expected error for foreign job type")
	}
}

type fakePromoter struct {
	due   int
	calls int
}

func (f *fakePromoter) PromoteDue(_ context.Context, _ time.Time, limit int64) (int, error) {
	f.calls++
	n := min(f.due, int(limit))
	f.due -= n
	return n, nil
}

func TestPromoter_TickDrainsBatches(t *testing.T) {
	q := &fakePromoter{due: 250}
	n, err := NewPromoter(q, time.Second, nil).Tick(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 250 || q.calls != 3 {
		t.Fatalf("expected 250 in 3 calls, got %d in %d", n, q.calls)
	}
}
