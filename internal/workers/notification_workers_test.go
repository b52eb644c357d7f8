package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
	"github.com/yashkamboj/portfolio/internal/notify"
)

// flakySender fails the first failures calls, then succeeds.
type flakySender struct {
	mu        sync.Mutex
	failures  int
	calls     int
	delivered []notify.Message
}

func (s *flakySender) Send(_ context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return errors.New("smtp: connection refused")
	}
	s.delivered = append(s.delivered, msg)
	return nil
}

func (s *flakySender) snapshot() (int, []notify.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, append([]notify.Message(nil), s.delivered...)
}

func TestDeliverRetriesUntilSuccess(t *testing.T) {
	sender := &flakySender{failures: 2}
	q := NewNotificationQueue(sender, QueueOptions{MaxAttempts: 3, Backoff: time.Millisecond}, zaptest.NewLogger(t))

	err := q.deliver(context.Background(), notify.Message{To: "a@example.com", Subject: "hi"})
	require.NoError(t, err)

	calls, delivered := sender.snapshot()
	assert.Equal(t, 3, calls)
	assert.Len(t, delivered, 1)
}

func TestDeliverGivesUpAfterMaxAttempts(t *testing.T) {
	sender := &flakySender{failures: 10}
	q := NewNotificationQueue(sender, QueueOptions{MaxAttempts: 2, Backoff: time.Millisecond}, zap.NewNop())

	err := q.deliver(context.Background(), notify.Message{To: "a@example.com", Subject: "hi"})
	var failed customerrors.ErrNotificationFailed
	require.True(t, errors.As(err, &failed), "unexpected error %v", err)
	assert.Equal(t, 2, failed.Attempts)
	assert.Equal(t, "a@example.com", failed.To)
	assert.EqualError(t, failed.Reason, "smtp: connection refused")

	calls, _ := sender.snapshot()
	assert.Equal(t, 2, calls)
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	q := NewNotificationQueue(&flakySender{}, QueueOptions{BufferSize: 1}, zap.New(core))

	assert.True(t, q.Enqueue(notify.Message{To: "first@example.com"}))
	assert.False(t, q.Enqueue(notify.Message{To: "second@example.com"}))
	assert.Equal(t, 1, logs.FilterMessage("notification queue full, dropping message").Len())
}

func TestStopDrainsAcceptedMessages(t *testing.T) {
	sender := &flakySender{}
	q := NewNotificationQueue(sender, QueueOptions{BufferSize: 10, WorkerCount: 2, MaxAttempts: 1}, zap.NewNop())
	q.Start(context.Background())

	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.True(t, q.Enqueue(notify.Message{To: to}))
	}
	q.Stop()

	select {
	case <-q.Done():
	case <-time.After(time.Second):
		t.Fatal("queue did not report done")
	}
	_, delivered := sender.snapshot()
	assert.Len(t, delivered, 3)

	assert.False(t, q.Enqueue(notify.Message{To: "late@example.com"}), "a stopped queue accepts nothing")
	q.Stop()
}

func TestWorkerLogsFailedDelivery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	q := NewNotificationQueue(&flakySender{failures: 1}, QueueOptions{BufferSize: 1, MaxAttempts: 1, Backoff: time.Millisecond}, zap.New(core))
	q.Start(context.Background())

	require.True(t, q.Enqueue(notify.Message{To: "a@example.com", Subject: "hello"}))
	q.Stop()

	entries := logs.FilterMessage("notification delivery failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "a@example.com", entries[0].ContextMap()["to"])
}
