package http

import (
	_ "embed"

	"sdexindex/internal/modkit/swaggerkit"
)

var (
	//go:embed paths.json
	pathsJSON []byte
	//go:embed schema.json
	schemaJSON []byte
)

func init() {
	swaggerkit.Register(swaggerkit.MergePaths(pathsJSON))
	swaggerkit.Register(swaggerkit.MergeSchemas(schemaJSON))
}
