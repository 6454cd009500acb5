package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"propsearch/internal/dispatcher"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Job is a request waiting for a worker together with where its response goes.
type Job struct {
	Request  dispatcher.Request
	Reply    func(dispatcher.Response)
	Enqueued time.Time
}

// RequestQueue is a bounded in-memory queue of engine jobs. Each job is
// handed to exactly one consumer.
type RequestQueue struct {
	items   chan Job
	maxSize int
	closed  bool
	mu      sync.RWMutex
	logger  *logrus.Logger
}

// NewRequestQueue creates a new request queue with the specified buffer size
func NewRequestQueue(bufferSize int, logger *logrus.Logger) *RequestQueue {
	if bufferSize < 1 {
		bufferSize = 1
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &RequestQueue{
		items:   make(chan Job, bufferSize),
		maxSize: bufferSize,
		logger:  logger,
	}
}

// Push adds a job to the queue without blocking
func (q *RequestQueue) Push(job Job) error {
	// Held across the send so Close cannot close the channel under us.
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now()
	}

	select {
	case q.items <- job:
		q.logger.WithFields(logrus.Fields{
			"request_id": job.Request.ID,
			"operation":  job.Request.Operation,
		}).Debug("Pushed request to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Next blocks until a job is available. After Close it keeps returning the
// jobs still buffered, then ErrQueueClosed.
func (q *RequestQueue) Next(ctx context.Context) (Job, error) {
	select {
	case <-ctx.Done():
		return Job{}, ctx.Err()
	case job, ok := <-q.items:
		if !ok {
			return Job{}, ErrQueueClosed
		}
		return job, nil
	}
}

// Close stops the queue and prevents new jobs from being added
func (q *RequestQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.items)
	return nil
}

// Len returns the current number of jobs in the queue
func (q *RequestQueue) Len() int {
	return len(q.items)
}

func (q *RequestQueue) Cap() int {
	return q.maxSize
}

// IsClosed returns whether the queue has been closed
func (q *RequestQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
