package mcp

import (
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/fam-mcp/internal/tools"
)

// ValidateCatalog checks that every tool has a name and that no two tools
// share one. Registration must not proceed when it fails.
func ValidateCatalog(catalog []tools.Tool) error {
	seen := make(map[string]bool, len(catalog))
	for i, t := range catalog {
		if t == nil {
			return fmt.Errorf("tool %d is nil", i)
		}
		name := t.Name()
		if name == "" {
			return fmt.Errorf("tool %d has empty name", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate tool name %q", name)
		}
		seen[name] = true
	}
	return nil
}

// BuildMCPTool converts a tools.Tool into an mcp.Tool with the matching input schema.
func BuildMCPTool(t tools.Tool) mcp.Tool {
	schema := t.Schema()
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	opts := []mcp.ToolOption{mcp.WithDescription(t.Description())}
	for _, name := range names {
		opts = append(opts, buildParamOption(name, schema[name]))
	}
	return mcp.NewTool(t.Name(), opts...)
}

// buildParamOption maps a ParamSpec to the appropriate mcp-go tool option.
func buildParamOption(name string, spec tools.ParamSpec) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if spec.Description != "" {
		opts = append(opts, mcp.Description(spec.Description))
	}
	if spec.Required {
		opts = append(opts, mcp.Required())
	}

	switch spec.Type {
	case tools.TypeNumber:
		if spec.Integer {
			opts = append(opts, integerType())
		}
		if spec.Min != nil {
			opts = append(opts, mcp.Min(*spec.Min))
		}
		if spec.Max != nil {
			opts = append(opts, mcp.Max(*spec.Max))
		}
		if d, ok := spec.Default.(float64); ok {
			opts = append(opts, mcp.DefaultNumber(d))
		}
		return mcp.WithNumber(name, opts...)
	case tools.TypeBoolean:
		if d, ok := spec.Default.(bool); ok {
			opts = append(opts, mcp.DefaultBool(d))
		}
		return mcp.WithBoolean(name, opts...)
	default:
		if d, ok := spec.Default.(string); ok {
			opts = append(opts, mcp.DefaultString(d))
		}
		return mcp.WithString(name, opts...)
	}
}

// integerType narrows a number property to JSON Schema "integer".
func integerType() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}
