package mcp

import (
	"context"

	"github.com/sabbour/sentinel-mcp-go/internal/catalog"
	"github.com/sabbour/sentinel-mcp-go/internal/query"
)

// Tool names.
const (
	ToolResourceStatus = "getResourceStatus"
	ToolResourceTypes  = "getResourceTypes"
	ToolBackendVersion = "getBackendVersion"
)

// ResourceStatusArgs are the arguments of getResourceStatus.
type ResourceStatusArgs struct {
	ResourceType string `json:"resourceType"`
	Status       string `json:"status"`
	CountOnly    bool   `json:"countOnly"`
}

// ResourceTypesResult is the result of getResourceTypes.
type ResourceTypesResult struct {
	TotalResources int                                     `json:"totalResources"`
	ResourceTypes  map[string]catalog.ResourceTypeMetadata `json:"resourceTypes"`
}

// BackendVersionResult is the result of getBackendVersion.
type BackendVersionResult struct {
	Version string `json:"version"`
}

// RegisterInventoryTools registers the inventory capabilities on d.
func RegisterInventoryTools(d *Dispatcher, engine *query.Engine, backendVersion string) {
	d.Register(Tool{
		Name:        ToolResourceStatus,
		Description: "Returns the current status of Sentinel resources. Optionally filter by resource type and status (case-insensitive), or request only the count.",
		InputSchema: objectSchema(map[string]any{
			"resourceType": map[string]any{
				"type":        "string",
				"description": "Resource type to filter by: worker, storage-bin or transporter.",
			},
			"status": map[string]any{
				"type":        "string",
				"description": "Status to filter by, e.g. active, empty or parked.",
			},
			"countOnly": map[string]any{
				"type":        "boolean",
				"description": "Return only the number of matching resources.",
			},
		}),
	}, Bind(func(_ context.Context, args ResourceStatusArgs) (any, error) {
		return engine.Query(query.Filter{
			Type:      args.ResourceType,
			Status:    args.Status,
			CountOnly: args.CountOnly,
		}), nil
	}))

	d.Register(Tool{
		Name:        ToolResourceTypes,
		Description: "Discovers available Sentinel resource types, their valid statuses, and total counts. Use this to learn what resources can be queried.",
		InputSchema: objectSchema(map[string]any{}),
	}, Bind(func(context.Context, struct{}) (any, error) {
		return ResourceTypesResult{
			TotalResources: catalog.TotalCount(),
			ResourceTypes:  catalog.Metadata(),
		}, nil
	}))

	d.Register(Tool{
		Name:        ToolBackendVersion,
		Description: "Returns the backend server version",
		InputSchema: objectSchema(map[string]any{}),
	}, Bind(func(context.Context, struct{}) (any, error) {
		return BackendVersionResult{Version: backendVersion}, nil
	}))
}

func objectSchema(properties map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   []string{},
	}
}
