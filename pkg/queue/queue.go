package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// QueueNotifications is the Redis list consumed by the messaging service.
	QueueNotifications = "checkout:notifications"
	// QueueNotificationsDelayed is a sorted set of notification jobs scored by due time (unix ms).
	QueueNotificationsDelayed = "checkout:notifications:delayed"
	// QueueWebhookArchive is the Redis list key for raw webhook archive jobs.
	QueueWebhookArchive = "checkout:webhook_archive"
	// QueueDLQ is the dead-letter queue for failed jobs after retries.
	QueueDLQ = "checkout:dlq"
	// MaxRetries is the number of times to retry a job before moving to DLQ.
	MaxRetries = 3
	// RetryBackoff is the delay between retries.
	RetryBackoff = 10 * time.Second
)

// JobType identifies the job kind.
type JobType string

const (
	JobTypeNotification   JobType = "notification"
	JobTypeWebhookArchive JobType = "webhook_archive"
)

// NotificationPayload is the payload for notification jobs.
type NotificationPayload struct {
	Template  string         `json:"template"`
	Recipient string         `json:"recipient"`
	Data      map[string]any `json:"data,omitempty"`
}

// WebhookArchivePayload is the payload for webhook archive jobs.
type WebhookArchivePayload struct {
	EventID    int64     `json:"event_id"`
	GatewayID  string    `json:"gateway_id"`
	Body       []byte    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// Job is a generic job envelope.
type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Queue     string          `json:"queue"`
	Payload   json.RawMessage `json:"payload"`
	Attempt   int             `json:"attempt"`
	CreatedAt time.Time       `json:"created_at"`
}

// Queue enqueues and dequeues jobs via Redis.
type Queue struct {
	client *redis.Client
	logger *zap.Logger
}

// NewQueue creates a new Redis-backed job queue.
func NewQueue(client *redis.Client, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{client: client, logger: logger}
}

// NewJob wraps payload in an envelope addressed to queueName.
func NewJob(jobType JobType, queueName string, payload any) (*Job, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return &Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Queue:     queueName,
		Payload:   body,
		CreatedAt: time.Now(),
	}, nil
}

// EnqueueNotification pushes a notification job. A positive delay parks it in the delayed set
// until PromoteDue moves it to the ready list.
func (q *Queue) EnqueueNotification(ctx context.Context, payload NotificationPayload, delay time.Duration) error {
	job, err := NewJob(JobTypeNotification, QueueNotifications, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if delay > 0 {
		due := time.Now().Add(delay).UnixMilli()
		if err := q.client.ZAdd(ctx, QueueNotificationsDelayed, redis.Z{Score: float64(due), Member: raw}).Err(); err != nil {
			return fmt.Errorf("zadd: %w", err)
		}
		q.logger.Debug("scheduled notification job", zap.String("job_id", job.ID), zap.String("template", payload.Template), zap.Duration("delay", delay))
		return nil
	}
	if err := q.client.RPush(ctx, QueueNotifications, raw).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	q.logger.Debug("enqueued notification job", zap.String("job_id", job.ID), zap.String("template", payload.Template))
	return nil
}

// EnqueueWebhookArchive enqueues a raw webhook body for upload to object storage.
func (q *Queue) EnqueueWebhookArchive(ctx context.Context, payload WebhookArchivePayload) error {
	job, err := NewJob(JobTypeWebhookArchive, QueueWebhookArchive, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.RPush(ctx, QueueWebhookArchive, raw).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	q.logger.Debug("enqueued webhook archive job", zap.String("job_id", job.ID), zap.Int64("event_id", payload.EventID))
	return nil
}

// PromoteDue moves delayed notifications whose due time has passed to the ready list.
// ZRem decides ownership, so concurrent promoters never push the same job twice.
func (q *Queue) PromoteDue(ctx context.Context, now time.Time, limit int64) (int, error) {
	members, err := q.client.ZRangeByScore(ctx, QueueNotificationsDelayed, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: limit,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("zrangebyscore: %w", err)
	}
	promoted := 0
	for _, m := range members {
		removed, err := q.client.ZRem(ctx, QueueNotificationsDelayed, m).Result()
		if err != nil {
			return promoted, fmt.Errorf("zrem: %w", err)
		}
		if removed == 0 {
			continue
		}
		if err := q.client.RPush(ctx, QueueNotifications, m).Err(); err != nil {
			return promoted, fmt.Errorf("rpush: %w", err)
		}
		promoted++
	}
	return promoted, nil
}

// Dequeue blocks up to timeout for a job on any of the given queues.
// Returns nil job when the wait times out.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration, queues ...string) (*Job, error) {
	result, err := q.client.BLPop(ctx, timeout, queues...).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		q.logger.Warn("invalid job payload", zap.String("queue", result[0]), zap.Error(err))
		return nil, nil
	}
	if job.Queue == "" {
		job.Queue = result[0]
	}
	return &job, nil
}

// Retry re-enqueues a job with incremented attempt. If attempt >= MaxRetries, pushes to DLQ instead.
func (q *Queue) Retry(ctx context.Context, job *Job) error {
	job.Attempt++
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if job.Attempt >= MaxRetries {
		if err := q.client.RPush(ctx, QueueDLQ, raw).Err(); err != nil {
			q.logger.Error("dlq push failed", zap.Error(err), zap.String("job_id", job.ID))
			return err
		}
		q.logger.Warn("job moved to DLQ", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
		return nil
	}
	if err := q.client.RPush(ctx, job.Queue, raw).Err(); err != nil {
		return err
	}
	q.logger.Info("job retried", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
	return nil
}

// Depth returns the length of each known queue, for operator tooling.
func (q *Queue) Depth(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, 4)
	for _, key := range []string{QueueNotifications, QueueWebhookArchive, QueueDLQ} {
		n, err := q.client.LLen(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("llen %s: %w", key, err)
		}
		out[key] = n
	}
	n, err := q.client.ZCard(ctx, QueueNotificationsDelayed).Result()
	if err != nil {
		return nil, fmt.Errorf("zcard: %w", err)
	}
	out[QueueNotificationsDelayed] = n
	return out, nil
}
