// Package worker runs the background jobs of the checkout: webhook archival and
// promotion of delayed notifications.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mentora/checkout/pkg/queue"
)

const dequeueTimeout = 5 * time.Second

// JobSource is the queue side of the archive processor.
type JobSource interface {
	Dequeue(ctx context.Context, timeout time.Duration, queues ...string) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// BodyArchiver uploads a raw webhook body and returns its object key.
type BodyArchiver interface {
	ArchiveWebhook(ctx context.Context, gatewayID string, eventID int64, receivedAt time.Time, body []byte) (string, error)
}

// ArchiveKeyStore records the object key on the webhook event.
type ArchiveKeyStore interface {
	SetArchiveKey(ctx context.Context, id int64, key string) error
}

// ArchiveProcessor uploads raw webhook bodies to S3 and links them to their event row.
type ArchiveProcessor struct {
	queue   JobSource
	storage BodyArchiver
	events  ArchiveKeyStore
	backoff time.Duration
	logger  *zap.Logger
}

// NewArchiveProcessor creates a webhook archive processor.
func NewArchiveProcessor(q JobSource, storage BodyArchiver, events ArchiveKeyStore, logger *zap.Logger) *ArchiveProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveProcessor{queue: q, storage: storage, events: events, backoff: queue.RetryBackoff, logger: logger}
}

// Process executes one archive job.
func (p *ArchiveProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeWebhookArchive {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.WebhookArchivePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	key, err := p.storage.ArchiveWebhook(ctx, payload.GatewayID, payload.EventID, payload.ReceivedAt, payload.Body)
	if err != nil {
		return fmt.Errorf("s3 upload: %w", err)
	}
	if err := p.events.SetArchiveKey(ctx, payload.EventID, key); err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	p.logger.Info("webhook archived", zap.Int64("event_id", payload.EventID), zap.String("s3_key", key))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *ArchiveProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("archive worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx, dequeueTimeout, queue.QueueWebhookArchive)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			sleep(ctx, p.backoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			sleep(ctx, p.backoff)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
