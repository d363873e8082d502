// Package query filters freshly generated catalogs.
package query

import (
	"strings"

	"github.com/sabbour/sentinel-mcp-go/internal/catalog"
)

// Filter selects resources. Blank fields match everything.
type Filter struct {
	Type      string
	Status    string
	CountOnly bool
}

// Result is the outcome of a query.
type Result struct {
	Count     int                `json:"count"`
	Resources []catalog.Resource `json:"resources"`
}

// Engine runs queries against a generator.
type Engine struct {
	gen *catalog.Generator
}

// NewEngine creates an engine backed by gen.
func NewEngine(gen *catalog.Generator) *Engine {
	return &Engine{gen: gen}
}

// Query generates one catalog and applies f to it.
func (e *Engine) Query(f Filter) Result {
	typeFilter := strings.TrimSpace(f.Type)
	statusFilter := strings.TrimSpace(f.Status)

	matched := make([]catalog.Resource, 0)
	count := 0
	for _, r := range e.gen.Generate() {
		if typeFilter != "" && !strings.EqualFold(r.Type, typeFilter) {
			continue
		}
		if statusFilter != "" && !strings.EqualFold(r.Status, statusFilter) {
			continue
		}
		count++
		if !f.CountOnly {
			matched = append(matched, r)
		}
	}

	return Result{Count: count, Resources: matched}
}
