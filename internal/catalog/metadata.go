package catalog

// ResourceTypeMetadata describes one resource type for discovery.
type ResourceTypeMetadata struct {
	Type          string   `json:"type"`
	Count         int      `json:"count"`
	ValidStatuses []string `json:"validStatuses"`
}

// Metadata returns discovery information keyed by type name.
func Metadata() map[string]ResourceTypeMetadata {
	out := make(map[string]ResourceTypeMetadata, len(types))
	for _, t := range types {
		out[t.Type] = ResourceTypeMetadata{
			Type:          t.Type,
			Count:         t.Count,
			ValidStatuses: append([]string(nil), t.Statuses...),
		}
	}
	return out
}

// TotalCount is the number of resources in every generated catalog.
func TotalCount() int {
	total := 0
	for _, t := range types {
		total += t.Count
	}
	return total
}
