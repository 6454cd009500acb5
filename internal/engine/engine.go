// Package engine filters, searches, sorts and summarizes property records.
//
// Every operation is a pure function of its arguments. Input slices and the
// records in them are never modified; results are fresh slices.
package engine

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"propsearch/internal/models"
)

// Engine carries the tuning for the O(n) passes. The zero value is not
// usable; call New.
type Engine struct {
	parallelism int
	threshold   int
}

type Option func(*Engine)

// WithParallelism splits filter and search passes over inputs of at least
// threshold records into workers chunks. Output order is unaffected.
func WithParallelism(workers, threshold int) Option {
	return func(e *Engine) {
		if workers > 0 {
			e.parallelism = workers
		}
		if threshold > 0 {
			e.threshold = threshold
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{parallelism: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var sequential = New()

func Filter(records []models.PropertyRecord, criteria models.FilterCriteria) FilterResult {
	return sequential.Filter(records, criteria)
}

func Search(records []models.PropertyRecord, query string, fuzzy bool) SearchResult {
	return sequential.Search(records, query, fuzzy)
}

func Sort(records []models.PropertyRecord, key models.SortKey, order models.SortOrder) []models.PropertyRecord {
	return sequential.Sort(records, key, order)
}

func ComputeStats(records []models.PropertyRecord) models.StatsReport {
	return sequential.ComputeStats(records)
}

// forEach calls fn for every index in [0, n). Each index is visited exactly
// once; fn must only write to state owned by that index.
func (e *Engine) forEach(n int, fn func(i int)) {
	if e.parallelism <= 1 || n < 2 || n < e.threshold {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	chunk := (n + e.parallelism - 1) / e.parallelism
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		start, end := start, min(start+chunk, n)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("chunk [%d,%d) panicked: %v", start, end, r)
				}
			}()
			for i := start; i < end; i++ {
				fn(i)
			}
			return nil
		})
	}

	// Re-raise on the calling goroutine so the dispatcher can recover it.
	if err := g.Wait(); err != nil {
		panic(err)
	}
}
