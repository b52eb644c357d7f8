// Package workers runs background delivery of notifications outside the
// request/response cycle.
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
	"github.com/yashkamboj/portfolio/internal/notify"
)

// QueueOptions sizes the queue and its retry policy.
type QueueOptions struct {
	BufferSize  int
	WorkerCount int
	MaxAttempts int
	Backoff     time.Duration
}

// NotificationQueue is a buffered channel of messages drained by a pool of
// workers. Every accepted message is attempted until it is delivered or the
// attempt budget runs out.
type NotificationQueue struct {
	jobs    chan notify.Message
	sender  notify.Sender
	opts    QueueOptions
	logger  *zap.Logger
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	stopped chan struct{}
}

// NewNotificationQueue creates a queue. Zero options fall back to one worker,
// one attempt and an unbuffered channel.
func NewNotificationQueue(sender notify.Sender, opts QueueOptions, logger *zap.Logger) *NotificationQueue {
	if opts.WorkerCount < 1 {
		opts.WorkerCount = 1
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.BufferSize < 0 {
		opts.BufferSize = 0
	}
	return &NotificationQueue{
		jobs:    make(chan notify.Message, opts.BufferSize),
		sender:  sender,
		opts:    opts,
		logger:  logger,
		stopped: make(chan struct{}),
	}
}

// Start launches the worker pool. Workers exit once Stop closes the queue and
// the remaining jobs are drained, or when ctx is cancelled.
func (q *NotificationQueue) Start(ctx context.Context) {
	q.logger.Info("starting notification workers",
		zap.Int("workers", q.opts.WorkerCount),
		zap.Int("buffer", q.opts.BufferSize),
	)
	for i := 0; i < q.opts.WorkerCount; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

// Enqueue hands msg to the workers without blocking. It returns false when the
// queue is full or already stopped; the message is then dropped and logged.
func (q *NotificationQueue) Enqueue(msg notify.Message) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.logger.Warn("notification queue stopped, dropping message",
			zap.String("to", msg.To), zap.String("subject", msg.Subject))
		return false
	}
	select {
	case q.jobs <- msg:
		return true
	default:
		q.logger.Warn("notification queue full, dropping message",
			zap.String("to", msg.To), zap.String("subject", msg.Subject))
		return false
	}
}

// Stop closes the queue and waits for the workers to finish what was accepted.
func (q *NotificationQueue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()
	q.wg.Wait()
	close(q.stopped)
}

// Done is closed after Stop has returned.
func (q *NotificationQueue) Done() <-chan struct{} {
	return q.stopped
}

func (q *NotificationQueue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	for {
		select {
		case msg, ok := <-q.jobs:
			if !ok {
				return
			}
			if err := q.deliver(ctx, msg); err != nil {
				q.logger.Error("notification delivery failed",
					zap.Int("worker", id),
					zap.String("to", msg.To),
					zap.String("subject", msg.Subject),
					zap.Error(err),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}

// deliver sends msg with exponential backoff. Every send error is treated as
// transient until the attempt budget is spent.
func (q *NotificationQueue) deliver(ctx context.Context, msg notify.Message) error {
	attempts := 0
	backoff := retry.WithMaxRetries(uint64(q.opts.MaxAttempts-1), retry.NewExponential(q.opts.Backoff))

	var lastErr error
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if err := q.sender.Send(ctx, msg); err != nil {
			lastErr = err
			q.logger.Warn("notification attempt failed",
				zap.String("to", msg.To),
				zap.Int("attempt", attempts),
				zap.Error(err),
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if lastErr == nil {
		lastErr = err
	}
	return customerrors.ErrNotificationFailed{
		To:       msg.To,
		Subject:  msg.Subject,
		Attempts: attempts,
		Reason:   lastErr,
	}
}
