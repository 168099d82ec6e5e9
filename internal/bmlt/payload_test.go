package bmlt

import (
	"errors"
	"testing"
)

func TestDecodePayload_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		count int
		shape Shape
	}{
		{"array", `[{"meeting_name":"A"},{"meeting_name":"B"}]`, 2, ShapeArray},
		{"meetings key", `{"meetings":[{"meeting_name":"A"}]}`, 1, ShapeMeetings},
		{"data key", `{"data":[{"meeting_name":"A"}]}`, 1, ShapeData},
		{"meetings wins over data", `{"meetings":[{"meeting_name":"A"}],"data":[{},{}]}`, 1, ShapeMeetings},
		{"null meetings falls through to data", `{"meetings":null,"data":[{}]}`, 1, ShapeData},
		{"empty meetings array", `{"meetings":[],"data":[{}]}`, 0, ShapeMeetings},
		{"unknown object", `{"other":1}`, 0, ShapeEmpty},
		{"scalar", `42`, 0, ShapeEmpty},
		{"null", `null`, 0, ShapeEmpty},
		{"falsy error ignored", `{"error":"","meetings":[{}]}`, 1, ShapeMeetings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meetings, shape, err := DecodePayload([]byte(tt.data))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(meetings) != tt.count {
				t.Errorf("expected %d meetings, got %d", tt.count, len(meetings))
			}
			if shape != tt.shape {
				t.Errorf("expected shape %q, got %q", tt.shape, shape)
			}
		})
	}
}

func TestDecodePayload_APIError(t *testing.T) {
	_, _, err := DecodePayload([]byte(`{"error":"Invalid switcher"}`))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.Message != "Invalid switcher" {
		t.Errorf("expected message %q, got %q", "Invalid switcher", apiErr.Message)
	}
}

func TestDecodePayload_NonStringAPIError(t *testing.T) {
	_, _, err := DecodePayload([]byte(`{"error":{"code": 5}}`))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != `{"code":5}` {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestDecodePayload_InvalidJSON(t *testing.T) {
	for _, data := range []string{``, `not json`, `{"meetings":`, `{"meetings":"nope"}`} {
		_, _, err := DecodePayload([]byte(data))
		var perr *PayloadError
		if !errors.As(err, &perr) {
			t.Errorf("DecodePayload(%q): expected *PayloadError, got %T (%v)", data, err, err)
		}
	}
}

func TestMeeting_FlexibleFieldTypes(t *testing.T) {
	meetings, _, err := DecodePayload([]byte(`[{"id_bigint":1234,"meeting_name":"Noon","comments":null,"duration_time":true}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := meetings[0]
	if m.ID != "1234" {
		t.Errorf("expected ID 1234, got %q", m.ID)
	}
	if m.Comments != "" {
		t.Errorf("expected empty comments, got %q", m.Comments)
	}
	if m.Duration != "true" {
		t.Errorf("expected duration %q, got %q", "true", m.Duration)
	}
}

func TestMeeting_StructuredFieldKeepsRecord(t *testing.T) {
	meetings, _, err := DecodePayload([]byte(`[{"meeting_name":"A","comments":{"x": 1},"format_shared_id_list":[1, 2]}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meetings) != 1 {
		t.Fatalf("expected 1 meeting, got %d", len(meetings))
	}
	if meetings[0].Comments != `{"x":1}` {
		t.Errorf("comments = %q", meetings[0].Comments)
	}
	if meetings[0].FormatIDs != "[1,2]" {
		t.Errorf("formats = %q", meetings[0].FormatIDs)
	}
}

func TestMeeting_Location(t *testing.T) {
	m := Meeting{LocationText: "Church", Street: "", Municipality: "Missoula", Province: "MT"}
	if got := m.Location(); got != "Church, Missoula, MT" {
		t.Errorf("Location() = %q", got)
	}
	if got := (Meeting{}).Location(); got != "" {
		t.Errorf("empty Location() = %q", got)
	}
}

