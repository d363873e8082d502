// Package catalog generates the simulated plant inventory served by the MCP
// server and describes its static shape.
package catalog

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Resource type names.
const (
	TypeWorker      = "worker"
	TypeStorageBin  = "storage-bin"
	TypeTransporter = "transporter"
)

// Resource is a single generated inventory entry.
type Resource struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// TypeSpec is the static definition of one resource type.
type TypeSpec struct {
	Type     string
	Prefix   string
	Count    int
	Statuses []string
}

// types is the single source of truth for generation and discovery.
// Order here is emission order.
var types = []TypeSpec{
	{
		Type:     TypeWorker,
		Prefix:   "worker",
		Count:    60,
		Statuses: []string{"active", "ready", "maintenance"},
	},
	{
		Type:     TypeStorageBin,
		Prefix:   "bin",
		Count:    30,
		Statuses: []string{"empty", "in-use"},
	},
	{
		Type:     TypeTransporter,
		Prefix:   "transport",
		Count:    10,
		Statuses: []string{"parked", "in-transit-worker", "in-transit-storage-bin", "in-transit-worker-storage-bin"},
	},
}

// Types returns a copy of the static type table in emission order.
func Types() []TypeSpec {
	out := make([]TypeSpec, len(types))
	for i, t := range types {
		t.Statuses = append([]string(nil), t.Statuses...)
		out[i] = t
	}
	return out
}

// ValidStatus reports whether status belongs to the status set of resourceType.
func ValidStatus(resourceType, status string) bool {
	for _, t := range types {
		if t.Type != resourceType {
			continue
		}
		for _, s := range t.Statuses {
			if s == status {
				return true
			}
		}
		return false
	}
	return false
}

// Generator builds fresh catalogs with randomized statuses.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator drawing from src. A nil src uses the
// process-wide source, so statuses differ between runs.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = globalSource{}
	}
	return &Generator{rng: rand.New(src)}
}

// NewSeededGenerator creates a generator with a deterministic PCG source.
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(rand.NewPCG(seed, seed))
}

// Generate returns a newly allocated catalog of TotalCount resources.
func (g *Generator) Generate() []Resource {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Resource, 0, TotalCount())
	for _, t := range types {
		for i := 1; i <= t.Count; i++ {
			out = append(out, Resource{
				Name:   fmt.Sprintf("%s-%03d", t.Prefix, i),
				Type:   t.Type,
				Status: t.Statuses[g.rng.IntN(len(t.Statuses))],
			})
		}
	}
	return out
}

// globalSource adapts the top-level math/rand/v2 functions, which are safe
// for concurrent use, to a rand.Source.
type globalSource struct{}

func (globalSource) Uint64() uint64 { return rand.Uint64() }
