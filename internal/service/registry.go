package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/GriffinCanCode/numderiv/internal/shared/types"
)

// Provider is implemented by every tool service.
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)
}

// Registry maps service IDs to providers.
type Registry struct {
	services sync.Map
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a service provider, replacing any with the same ID
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}
	r.services.Store(def.ID, provider)
	return nil
}

// Unregister removes a service provider
func (r *Registry) Unregister(serviceID string) {
	r.services.Delete(serviceID)
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	val, ok := r.services.Load(serviceID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns registered services sorted by ID, optionally filtered by category
func (r *Registry) List(category *types.Category) []types.Service {
	var services []types.Service
	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
		return true
	})
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services
}

// Discover ranks tools against a free-text query and returns at most limit of them
func (r *Registry) Discover(query string, limit int) []types.Tool {
	type scored struct {
		tool  types.Tool
		score int
	}

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || limit <= 0 {
		return nil
	}

	var results []scored
	r.services.Range(func(_, value interface{}) bool {
		for _, tool := range value.(Provider).Definition().Tools {
			if s := relevance(terms, tool); s > 0 {
				results = append(results, scored{tool: tool, score: s})
			}
		}
		return true
	})

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].tool.ID < results[j].tool.ID
	})

	out := make([]types.Tool, 0, limit)
	for i := 0; i < len(results) && i < limit; i++ {
		out = append(out, results[i].tool)
	}
	return out
}

// Execute routes "service.tool" IDs to the owning provider
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	serviceID, _, found := strings.Cut(toolID, ".")
	if !found || serviceID == "" {
		return failure("invalid tool ID format"), fmt.Errorf("invalid tool ID format: %s", toolID)
	}

	provider, ok := r.Get(serviceID)
	if !ok {
		msg := fmt.Sprintf("service not found: %s", serviceID)
		return failure(msg), fmt.Errorf("%s", msg)
	}
	return provider.Execute(ctx, toolID, params, appCtx)
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	var total, totalTools int
	categories := make(map[string]int)

	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		total++
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
		return true
	})

	return map[string]interface{}{
		"total_services": total,
		"total_tools":    totalTools,
		"categories":     categories,
	}
}

func relevance(terms []string, tool types.Tool) int {
	id := strings.ToLower(tool.ID)
	name := strings.ToLower(tool.Name)
	desc := strings.ToLower(tool.Description)

	score := 0
	for _, term := range terms {
		switch {
		case strings.Contains(id, term):
			score += 10
		case strings.Contains(name, term):
			score += 5
		case strings.Contains(desc, term):
			score += 2
		}
	}
	return score
}

func failure(msg string) *types.Result {
	return &types.Result{Success: false, Error: &msg}
}
