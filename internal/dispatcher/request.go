package dispatcher

import (
	"propsearch/internal/models"
)

// Operation names one of the engine operations a request can ask for.
type Operation string

const (
	OpFilter Operation = "filter"
	OpSearch Operation = "search"
	OpSort   Operation = "sort"
	OpStats  Operation = "stats"
)

// Operations lists every operation the dispatcher routes.
var Operations = []Operation{OpFilter, OpSearch, OpSort, OpStats}

func (o Operation) IsValid() bool {
	for _, op := range Operations {
		if o == op {
			return true
		}
	}
	return false
}

// Payload is implemented only by the payload types in this package.
type Payload interface {
	operation() Operation
}

type FilterPayload struct {
	Records  []models.PropertyRecord `json:"records"`
	Criteria models.FilterCriteria   `json:"criteria"`
}

type SearchPayload struct {
	Records []models.PropertyRecord `json:"records"`
	Query   string                  `json:"query"`

	// Fuzzy falls back to the dispatcher default when nil.
	Fuzzy *bool `json:"fuzzy,omitempty"`
}

type SortPayload struct {
	Records []models.PropertyRecord `json:"records"`
	Key     models.SortKey          `json:"key"`
	Order   models.SortOrder        `json:"order"`
}

type StatsPayload struct {
	Records []models.PropertyRecord `json:"records"`
}

func (FilterPayload) operation() Operation { return OpFilter }
func (SearchPayload) operation() Operation { return OpSearch }
func (SortPayload) operation() Operation   { return OpSort }
func (StatsPayload) operation() Operation  { return OpStats }

// Request is one unit of engine work. ID is echoed on the response.
type Request struct {
	ID        string    `json:"id"`
	Operation Operation `json:"operation"`
	Payload   Payload   `json:"payload,omitempty"`
}

// NewRequest builds a request whose operation matches the payload.
func NewRequest(id string, payload Payload) Request {
	return Request{ID: id, Operation: payload.operation(), Payload: payload}
}
