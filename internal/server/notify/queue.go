package notify

import (
	"context"
	"sync"
	"time"

	"github.com/landchain/landchain/internal/logging"
)

const (
	sendTimeout  = 30 * time.Second
	drainTimeout = 10 * time.Second
)

// Queue is an in-process, bounded notification queue served by a fixed
// pool of workers. Enqueue never blocks.
type Queue struct {
	jobs    chan Message
	sender  Sender
	logger  logging.Logger
	workers int

	// drain bounds how long Close waits before aborting in-flight sends.
	drain time.Duration
	stop  context.CancelFunc

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewQueue(sender Sender, logger logging.Logger, workers, buffer int) *Queue {
	if workers < 1 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Queue{
		jobs:    make(chan Message, buffer),
		sender:  sender,
		logger:  logger,
		workers: workers,
		drain:   drainTimeout,
		stop:    func() {},
	}
}

// Start launches the workers. Sends use a context detached from ctx's
// cancellation so Close can drain what is already queued; Close cancels it
// once the drain period is over.
func (q *Queue) Start(ctx context.Context) {
	base, stop := context.WithCancel(context.WithoutCancel(ctx))
	q.stop = stop
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for msg := range q.jobs {
				q.deliver(base, msg)
			}
		}()
	}
}

func (q *Queue) deliver(ctx context.Context, msg Message) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := q.sender.Send(ctx, msg); err != nil {
		q.logger.Warn(ctx, "notification failed", "to", msg.To, "error", err)
		return
	}
	q.logger.Debug(ctx, "notification sent", "to", msg.To)
}

// Enqueue hands msg to the workers. It reports false, and logs, when the
// queue is full or closed.
func (q *Queue) Enqueue(ctx context.Context, msg Message) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.logger.Warn(ctx, "notification queue closed, dropping", "to", msg.To)
		return false
	}

	select {
	case q.jobs <- msg:
		return true
	default:
		q.logger.Warn(ctx, "notification queue full, dropping", "to", msg.To)
		return false
	}
}

// Close stops accepting messages and waits for queued ones to be sent.
// Sends still running after the drain period are cancelled.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(q.drain):
		q.logger.Warn(context.Background(), "notification drain timed out, cancelling sends")
		q.stop()
		<-done
	}
	q.stop()
}
