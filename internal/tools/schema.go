package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// SchemaValidationError lists every argument that failed validation.
type SchemaValidationError struct {
	Issues []string
}

func (e *SchemaValidationError) Error() string {
	return strings.Join(e.Issues, "; ")
}

// ValidateArgs checks raw arguments against schema and returns the validated
// set with defaults applied. Unknown arguments are dropped.
func ValidateArgs(schema Schema, raw map[string]any) (Args, error) {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make(Args, len(schema))
	var issues []string

	for _, name := range names {
		spec := schema[name]
		v, ok := raw[name]
		if !ok || v == nil {
			if spec.Required {
				issues = append(issues, fmt.Sprintf("%s: is required", name))
			} else if spec.Default != nil {
				args[name] = spec.Default
			}
			continue
		}

		value, issue := checkParam(spec, v)
		if issue != "" {
			issues = append(issues, fmt.Sprintf("%s: %s", name, issue))
			continue
		}
		args[name] = value
	}

	if len(issues) > 0 {
		return nil, &SchemaValidationError{Issues: issues}
	}
	return args, nil
}

func checkParam(spec ParamSpec, v any) (any, string) {
	switch spec.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Sprintf("expected string, received %s", jsonType(v))
		}
		return s, ""

	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Sprintf("expected boolean, received %s", jsonType(v))
		}
		return b, ""

	case TypeNumber:
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Sprintf("expected number, received %s", jsonType(v))
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, "expected a finite number"
		}
		if spec.Integer && f != math.Trunc(f) {
			return nil, "expected integer, received float"
		}
		if spec.Min != nil && f < *spec.Min {
			return nil, fmt.Sprintf("must be greater than or equal to %s", formatBound(*spec.Min))
		}
		if spec.Max != nil && f > *spec.Max {
			return nil, fmt.Sprintf("must be less than or equal to %s", formatBound(*spec.Max))
		}
		return f, ""
	}
	return nil, fmt.Sprintf("unsupported parameter type %q", spec.Type)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func jsonType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

func formatBound(f float64) string {
	return fmt.Sprintf("%g", f)
}
