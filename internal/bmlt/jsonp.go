package bmlt

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Envelope identifies how the JSON payload was found inside a response body.
type Envelope int

const (
	// EnvelopeNone means no wrapper was recognised and the raw body is used.
	EnvelopeNone Envelope = iota
	// EnvelopeCommented is a callback call preceded by a block comment, e.g. /**/cb(...).
	EnvelopeCommented
	// EnvelopeCallback is a bare callback call, e.g. cb(...).
	EnvelopeCallback
	// EnvelopeBareJSON is a body that is already plain JSON.
	EnvelopeBareJSON
	// EnvelopeParens is the last resort: everything between the first ( and the last ).
	EnvelopeParens
)

func (e Envelope) String() string {
	switch e {
	case EnvelopeCommented:
		return "commented-callback"
	case EnvelopeCallback:
		return "callback"
	case EnvelopeBareJSON:
		return "json"
	case EnvelopeParens:
		return "parentheses"
	default:
		return "none"
	}
}

var (
	commentedCallbackPattern = regexp.MustCompile(`(?s)^\s*/\*.*?\*/\s*[A-Za-z_$][\w$.]*\((.*)\)\s*;?\s*$`)
	callbackPattern          = regexp.MustCompile(`(?s)^\s*[A-Za-z_$][\w$.]*\((.*)\)\s*;?\s*$`)
	parensPattern            = regexp.MustCompile(`(?s)\((.*)\)`)
)

// ExtractJSON pulls the JSON text out of a JSONP body. Patterns are tried from
// most to least specific; when nothing matches the body is returned unchanged.
func ExtractJSON(body string) (string, Envelope) {
	if m := commentedCallbackPattern.FindStringSubmatch(body); m != nil {
		return m[1], EnvelopeCommented
	}
	if m := callbackPattern.FindStringSubmatch(body); m != nil {
		return m[1], EnvelopeCallback
	}
	// A plain JSON body may contain parentheses inside strings; keep it whole.
	if json.Valid([]byte(strings.TrimSpace(body))) {
		return body, EnvelopeBareJSON
	}
	if m := parensPattern.FindStringSubmatch(body); m != nil {
		return m[1], EnvelopeParens
	}
	return body, EnvelopeNone
}
