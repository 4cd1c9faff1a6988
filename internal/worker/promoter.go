package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const promoteBatch = 100

// DuePromoter moves delayed notifications to the ready list.
type DuePromoter interface {
	PromoteDue(ctx context.Context, now time.Time, limit int64) (int, error)
}

// Promoter periodically releases delayed notifications whose time has come.
type Promoter struct {
	queue    DuePromoter
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewPromoter creates a promoter ticking every interval.
func NewPromoter(q DuePromoter, interval time.Duration, logger *zap.Logger) *Promoter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Promoter{queue: q, interval: interval, now: time.Now, logger: logger}
}

// Tick promotes every due job, batch by batch, and returns how many moved.
func (p *Promoter) Tick(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := p.queue.PromoteDue(ctx, p.now(), promoteBatch)
		total += n
		if err != nil || n < promoteBatch {
			return total, err
		}
	}
}

// Run ticks until ctx is cancelled.
func (p *Promoter) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("promoter stopping")
			return
		case <-ticker.C:
			n, err := p.Tick(ctx)
			if err != nil {
				p.logger.Warn("promote delayed notifications", zap.Error(err))
			}
			if n > 0 {
				p.logger.Debug("promoted notifications", zap.Int("count", n))
			}
		}
	}
}
