package bmlt

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text is a meeting field that decodes from any JSON value. Strings, numbers
// and booleans keep their text; objects and arrays are kept as compact JSON.
// BMLT root servers are not consistent about field types.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*t = Text(data)
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*t = Text(buf.String())
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*t = Text(n.String())
	}
	return nil
}

// Meeting is a single search result from the BMLT directory.
type Meeting struct {
	ID           Text `json:"id_bigint"`
	Name         Text `json:"meeting_name"`
	StartTime    Text `json:"start_time"`
	Duration     Text `json:"duration_time"`
	LocationText Text `json:"location_text"`
	Street       Text `json:"location_street"`
	Municipality Text `json:"location_municipality"`
	Province     Text `json:"location_province"`
	Comments     Text `json:"comments"`
	FormatIDs    Text `json:"format_shared_id_list"`
}

// Location joins the non-empty location fields with ", ".
func (m Meeting) Location() string {
	parts := make([]string, 0, 4)
	for _, p := range []Text{m.LocationText, m.Street, m.Municipality, m.Province} {
		if p != "" {
			parts = append(parts, string(p))
		}
	}
	return strings.Join(parts, ", ")
}

// Shape records which response layout the meetings were taken from.
type Shape string

const (
	ShapeArray    Shape = "array"
	ShapeMeetings Shape = "meetings"
	ShapeData     Shape = "data"
	ShapeEmpty    Shape = "empty"
)

// DecodePayload parses JSON text into meetings. Accepted layouts, in priority
// order: a bare array, an object with `meetings`, an object with `data`.
// Any other valid JSON yields no meetings. An object with a truthy `error`
// field returns *APIError.
func DecodePayload(data []byte) ([]Meeting, Shape, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ShapeEmpty, &PayloadError{Reason: "empty body"}
	}

	switch trimmed[0] {
	case '[':
		meetings, err := decodeMeetings(trimmed)
		if err != nil {
			return nil, ShapeArray, err
		}
		return meetings, ShapeArray, nil

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, ShapeEmpty, &PayloadError{Reason: "invalid JSON", Err: err}
		}
		if raw, ok := obj["error"]; ok && truthy(raw) {
			return nil, ShapeEmpty, &APIError{Message: errorText(raw)}
		}
		for _, key := range []Shape{ShapeMeetings, ShapeData} {
			raw, ok := obj[string(key)]
			if !ok || !truthy(raw) {
				continue
			}
			meetings, err := decodeMeetings(raw)
			if err != nil {
				return nil, key, err
			}
			return meetings, key, nil
		}
		return nil, ShapeEmpty, nil

	default:
		if !json.Valid(trimmed) {
			return nil, ShapeEmpty, &PayloadError{Reason: "invalid JSON", Err: syntaxError(trimmed)}
		}
		return nil, ShapeEmpty, nil
	}
}

func decodeMeetings(raw json.RawMessage) ([]Meeting, error) {
	var meetings []Meeting
	if err := json.Unmarshal(raw, &meetings); err != nil {
		return nil, &PayloadError{Reason: "unexpected meeting list", Err: err}
	}
	return meetings, nil
}

// truthy mirrors loose JavaScript truthiness for JSON values: null, false,
// "" and 0 are false, everything else (including [] and {}) is true.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", `""`:
		return false
	}
	if f, err := strconv.ParseFloat(string(raw), 64); err == nil {
		return f != 0
	}
	return true
}

func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err == nil {
		return buf.String()
	}
	return string(raw)
}

func syntaxError(data []byte) error {
	var v any
	return json.Unmarshal(data, &v)
}
