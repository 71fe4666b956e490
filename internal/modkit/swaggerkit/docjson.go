package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"sync"

	"sdexindex/internal/platform/logger"
)

//go:embed openapi.json
var baseSpec []byte

// SpecMutator lets modules tweak the parsed spec before it is served
type SpecMutator func(map[string]any)

var (
	mu       sync.RWMutex
	mutators []SpecMutator
)

// Register adds a spec mutator, call it from a module package init
func Register(m SpecMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	mutators = append(mutators, m)
	mu.Unlock()
}

// MergePaths returns a mutator that adds every path in raw, a JSON object
// keyed by path, and panics on malformed input since raw is embedded at build time
func MergePaths(raw []byte) SpecMutator {
	return mergeInto(raw, "paths")
}

// MergeSchemas is MergePaths for components.schemas
func MergeSchemas(raw []byte) SpecMutator {
	return mergeInto(raw, "components", "schemas")
}

func mergeInto(raw []byte, at ...string) SpecMutator {
	var frag map[string]any
	if err := json.Unmarshal(raw, &frag); err != nil {
		panic("swaggerkit: bad " + at[len(at)-1] + " fragment: " + err.Error())
	}
	return func(spec map[string]any) {
		dst := spec
		for _, k := range at {
			next, ok := dst[k].(map[string]any)
			if !ok {
				next = map[string]any{}
				dst[k] = next
			}
			dst = next
		}
		for k, v := range frag {
			dst[k] = v
		}
	}
}

// Build parses the base spec, applies mutators then the default error responses
func Build() (map[string]any, error) {
	var spec map[string]any
	if err := json.Unmarshal(baseSpec, &spec); err != nil {
		return nil, err
	}
	mu.RLock()
	for _, m := range mutators {
		m(spec)
	}
	mu.RUnlock()

	addDefaultResponse(spec, "400", "Bad Request", map[string]any{
		"status_code": 400,
		"status":      "Bad Request",
		"code":        8,
		"kind":        "validation",
		"error":       "limit must be at most 200",
		"field":       "limit",
	})
	addDefaultResponse(spec, "500", "Internal Server Error", map[string]any{
		"status_code": 500,
		"status":      "Internal Server Error",
		"code":        1,
		"kind":        "internal",
		"error":       "panic recovered",
	})
	return spec, nil
}

// doc serves the built spec to http-swagger through the swag registry
type doc struct{}

// ReadDoc implements swag.Swagger
func (doc) ReadDoc() string {
	spec, err := Build()
	if err != nil {
		logger.Named("swagger").Error().Err(err).Msg("spec build failed")
		return "{}"
	}
	b, err := json.Marshal(spec)
	if err != nil {
		logger.Named("swagger").Error().Err(err).Msg("spec encode failed")
		return "{}"
	}
	return string(b)
}

// addDefaultResponse injects an error response for status into every operation lacking one
func addDefaultResponse(spec map[string]any, status, desc string, example map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	resp := map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses[status]; !exists {
				responses[status] = resp
			}
		}
	}
}
