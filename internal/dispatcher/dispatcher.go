// Package dispatcher routes typed engine requests to the engine and wraps
// the outcome in a typed response.
package dispatcher

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"propsearch/internal/engine"
	"propsearch/internal/models"
)

// Dispatcher is stateless across calls and safe for concurrent use.
type Dispatcher struct {
	engine       *engine.Engine
	fuzzyDefault bool
	logger       *logrus.Logger
}

// NewDispatcher creates a dispatcher. A nil engine runs every pass
// sequentially.
func NewDispatcher(eng *engine.Engine, fuzzyDefault bool, logger *logrus.Logger) *Dispatcher {
	if eng == nil {
		eng = engine.New()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Dispatcher{
		engine:       eng,
		fuzzyDefault: fuzzyDefault,
		logger:       logger,
	}
}

// Dispatch runs req and returns its single response. It never panics: engine
// panics and malformed requests come back as Error responses.
func (d *Dispatcher) Dispatch(req Request) (resp Response) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithFields(logrus.Fields{
				"request_id": req.ID,
				"operation":  req.Operation,
				"panic":      fmt.Sprint(r),
			}).Error("Engine panicked while handling request")
			resp = ErrorResponse(req, "internal error: %v", r)
		}

		d.logger.WithFields(logrus.Fields{
			"request_id": req.ID,
			"operation":  req.Operation,
			"kind":       resp.Kind,
			"duration":   time.Since(start).String(),
		}).Debug("Dispatched request")
	}()

	return d.route(req)
}

func (d *Dispatcher) route(req Request) Response {
	if !req.Operation.IsValid() {
		return ErrorResponse(req, "unknown operation %q", string(req.Operation))
	}
	if req.Payload == nil {
		return ErrorResponse(req, "missing payload")
	}
	if req.Payload.operation() != req.Operation {
		return ErrorResponse(req, "payload is for %s", req.Payload.operation())
	}

	resp := Response{RequestID: req.ID}
	switch p := req.Payload.(type) {
	case FilterPayload:
		result := d.engine.Filter(p.Records, p.Criteria)
		resp.Kind = KindFilterComplete
		resp.Filter = &result
	case SearchPayload:
		fuzzy := d.fuzzyDefault
		if p.Fuzzy != nil {
			fuzzy = *p.Fuzzy
		}
		result := d.engine.Search(p.Records, p.Query, fuzzy)
		resp.Kind = KindSearchComplete
		resp.Search = &result
	case SortPayload:
		order := models.ParseSortOrder(string(p.Order))
		resp.Kind = KindSortComplete
		resp.Sort = &SortResult{
			Records: d.engine.Sort(p.Records, p.Key, order),
			Key:     p.Key,
			Order:   order,
		}
	case StatsPayload:
		report := d.engine.ComputeStats(p.Records)
		resp.Kind = KindStatsComplete
		resp.Stats = &report
	default:
		return ErrorResponse(req, "unsupported payload %T", req.Payload)
	}
	return resp
}
