// Package processor runs dispatcher requests on a fixed pool of workers fed
// by a bounded queue.
package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"propsearch/config"
	"propsearch/internal/dispatcher"
	"propsearch/internal/metrics"
	"propsearch/internal/queue"
)

// Handler answers a single request. *dispatcher.Dispatcher implements it.
type Handler interface {
	Dispatch(req dispatcher.Request) dispatcher.Response
}

// RequestProcessor pulls jobs off the queue and hands each to the handler.
type RequestProcessor struct {
	handler   Handler
	queue     *queue.RequestQueue
	workers   int
	logger    *logrus.Logger
	waitGroup sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewRequestProcessor creates a new processor instance
func NewRequestProcessor(handler Handler, q *queue.RequestQueue, cfg *config.Config, logger *logrus.Logger) *RequestProcessor {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	workers := 1
	if cfg != nil && cfg.Engine.Workers > 0 {
		workers = cfg.Engine.Workers
	}
	return &RequestProcessor{
		handler: handler,
		queue:   q,
		workers: workers,
		logger:  logger,
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (p *RequestProcessor) Start() {
	p.startOnce.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.waitGroup.Add(1)
			go p.processLoop(i)
		}
		p.logger.WithFields(logrus.Fields{
			"workers":    p.workers,
			"queue_size": p.queue.Cap(),
		}).Info("Request processor started")
	})
}

// Stop closes the queue and waits until every accepted job has been answered.
func (p *RequestProcessor) Stop() {
	p.stopOnce.Do(func() {
		if err := p.queue.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close request queue")
		}
		p.waitGroup.Wait()
		p.logger.Info("Request processor stopped")
	})
}

// Submit enqueues req and returns a channel that receives its one response.
// It never blocks; a full or closed queue is reported immediately.
func (p *RequestProcessor) Submit(req dispatcher.Request) (<-chan dispatcher.Response, error) {
	ch := make(chan dispatcher.Response, 1)
	err := p.SubmitFunc(req, func(resp dispatcher.Response) {
		ch <- resp
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// SubmitFunc enqueues req; reply is called once from a worker goroutine.
func (p *RequestProcessor) SubmitFunc(req dispatcher.Request, reply func(dispatcher.Response)) error {
	err := p.queue.Push(queue.Job{Request: req, Reply: reply})
	if err != nil {
		reason := "full"
		if errors.Is(err, queue.ErrQueueClosed) {
			reason = "closed"
		}
		metrics.QueueRejected.WithLabelValues(reason).Inc()
		return fmt.Errorf("failed to submit %s request: %w", req.Operation, err)
	}
	return nil
}

// Do submits req and waits for its response or for ctx to end.
func (p *RequestProcessor) Do(ctx context.Context, req dispatcher.Request) (dispatcher.Response, error) {
	ch, err := p.Submit(req)
	if err != nil {
		return dispatcher.Response{}, err
	}
	return Await(ctx, ch)
}

// Await waits for a response from Submit. When ctx ends first the request
// still runs to completion and its response is dropped.
func Await(ctx context.Context, ch <-chan dispatcher.Response) (dispatcher.Response, error) {
	select {
	case <-ctx.Done():
		return dispatcher.Response{}, ctx.Err()
	case resp := <-ch:
		return resp, nil
	}
}

// processLoop handles jobs until the queue is closed and drained
func (p *RequestProcessor) processLoop(worker int) {
	defer p.waitGroup.Done()

	for {
		job, err := p.queue.Next(context.Background())
		if err != nil {
			p.logger.WithField("worker", worker).Debug("Worker exiting")
			return
		}
		p.handle(worker, job)
	}
}

func (p *RequestProcessor) handle(worker int, job queue.Job) {
	operation := string(job.Request.Operation)
	if !job.Request.Operation.IsValid() {
		operation = "unknown"
	}

	start := time.Now()
	resp := p.dispatch(worker, job.Request)
	elapsed := time.Since(start)
	metrics.EngineRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())

	fields := logrus.Fields{
		"worker":     worker,
		"request_id": job.Request.ID,
		"operation":  job.Request.Operation,
		"queued":     start.Sub(job.Enqueued).String(),
		"duration":   elapsed.String(),
	}
	if resp.Kind == dispatcher.KindError {
		metrics.EngineRequestsFailed.WithLabelValues(operation).Inc()
		p.logger.WithFields(fields).WithError(resp.Err()).Warn("Request failed")
	} else {
		metrics.EngineRequestsCompleted.WithLabelValues(operation).Inc()
		p.logger.WithFields(fields).Debug("Request completed")
	}

	p.reply(job, resp)
}

// dispatch runs the handler. A handler panic becomes an Error response.
func (p *RequestProcessor) dispatch(worker int, req dispatcher.Request) (resp dispatcher.Response) {
	metrics.EngineRequestsInFlight.Inc()
	defer metrics.EngineRequestsInFlight.Dec()

	defer func() {
		if r := recover(); r != nil {
			p.logger.WithFields(logrus.Fields{
				"worker":     worker,
				"request_id": req.ID,
				"operation":  req.Operation,
				"panic":      fmt.Sprint(r),
			}).Error("Handler panicked")
			resp = dispatcher.ErrorResponse(req, "internal error: %v", r)
		}
	}()

	return p.handler.Dispatch(req)
}

// reply delivers resp, keeping the worker alive if the callback panics.
func (p *RequestProcessor) reply(job queue.Job, resp dispatcher.Response) {
	if job.Reply == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithFields(logrus.Fields{
				"request_id": job.Request.ID,
				"panic":      fmt.Sprint(r),
			}).Error("Reply callback panicked")
		}
	}()
	job.Reply(resp)
}
