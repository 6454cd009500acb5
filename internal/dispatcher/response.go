package dispatcher

import (
	"fmt"

	"propsearch/internal/engine"
	"propsearch/internal/models"
)

// Kind tells which result field of a Response is set.
type Kind string

const (
	KindFilterComplete Kind = "FilterComplete"
	KindSearchComplete Kind = "SearchComplete"
	KindSortComplete   Kind = "SortComplete"
	KindStatsComplete  Kind = "StatsComplete"
	KindError          Kind = "Error"
)

type SortResult struct {
	Records []models.PropertyRecord `json:"records"`
	Key     models.SortKey          `json:"key"`
	Order   models.SortOrder        `json:"order"`
}

// OpError is the failure carried by an Error response. Message always starts
// with the operation name.
type OpError struct {
	Operation string `json:"operation"`
	Message   string `json:"message"`
}

func (e *OpError) Error() string {
	return e.Message
}

func newOpError(operation Operation, format string, args ...any) *OpError {
	return &OpError{
		Operation: string(operation),
		Message:   fmt.Sprintf("%s: %s", operation, fmt.Sprintf(format, args...)),
	}
}

// Response answers exactly one Request. Exactly one of the result fields or
// Error is set, matching Kind.
type Response struct {
	RequestID string               `json:"requestId"`
	Kind      Kind                 `json:"kind"`
	Filter    *engine.FilterResult `json:"filter,omitempty"`
	Search    *engine.SearchResult `json:"search,omitempty"`
	Sort      *SortResult          `json:"sort,omitempty"`
	Stats     *models.StatsReport  `json:"stats,omitempty"`
	Error     *OpError             `json:"error,omitempty"`
}

// Err returns the response's failure as an error, or nil.
func (r Response) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

// ErrorResponse answers req with a failure.
func ErrorResponse(req Request, format string, args ...any) Response {
	return Response{
		RequestID: req.ID,
		Kind:      KindError,
		Error:     newOpError(req.Operation, format, args...),
	}
}
