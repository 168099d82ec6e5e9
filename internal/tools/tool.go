// Package tools defines the Tool abstraction served over MCP and the tools
// fam-mcp ships with.
package tools

import (
	"context"
	"math"
)

// ParamType is the JSON type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
)

// ParamSpec describes one tool parameter.
type ParamSpec struct {
	Type        ParamType
	Description string
	Required    bool
	Integer     bool // only whole numbers accepted; TypeNumber only
	Min         *float64
	Max         *float64
	Default     any
}

// Schema maps parameter names to their specs.
type Schema map[string]ParamSpec

// Bound is a helper for ParamSpec.Min and ParamSpec.Max.
func Bound(v float64) *float64 { return &v }

// Tool is a named, schema-described capability exposed to a calling agent.
//
// Expected failures are reported as a Response with IsError set. A non-nil
// error means an unexpected fault and is wrapped by the dispatcher.
type Tool interface {
	Name() string
	Description() string
	Schema() Schema
	Call(ctx context.Context, args Args) (*Response, error)
}

// Content is a single text block in a Response.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Response is the uniform result of a tool call.
type Response struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Text concatenates the text of all content blocks.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var s string
	for _, c := range r.Content {
		s += c.Text
	}
	return s
}

// TextResponse returns a successful single-block response.
func TextResponse(text string) *Response {
	return &Response{Content: []Content{{Type: "text", Text: text}}}
}

// ErrorResponse returns a diagnostic single-block response.
func ErrorResponse(text string) *Response {
	return &Response{Content: []Content{{Type: "text", Text: text}}, IsError: true}
}

// Args holds validated call arguments. Numbers are float64 as decoded from JSON.
type Args map[string]any

// Has reports whether name was supplied (or defaulted).
func (a Args) Has(name string) bool {
	v, ok := a[name]
	return ok && v != nil
}

// String returns the string argument name, or "" if absent.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Int returns the numeric argument name truncated to an int, or 0 if absent.
func (a Args) Int(name string) int {
	if f, ok := toFloat(a[name]); ok {
		return int(math.Trunc(f))
	}
	return 0
}

// Bool returns the boolean argument name, or false if absent.
func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}
