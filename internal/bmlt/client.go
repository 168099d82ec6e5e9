// Package bmlt is a client for the BMLT (Basic Meeting List Toolbox) JSONP
// search endpoint.
package bmlt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/fam-mcp/internal/common"
)

const (
	// SearchPath is appended to the configured API base.
	SearchPath = "/client_interface/jsonp/"

	// DataFieldKey is the field projection requested from the root server.
	DataFieldKey = "location_text,meeting_name,start_time,duration_time,location_street,location_municipality,location_province,comments,format_shared_id_list"

	// DefaultLimit is used when a query does not set one.
	DefaultLimit = 50

	maxResponseSize = 10 << 20 // 10MB
	previewLength   = 200
)

// Query holds the optional search filters. Zero values mean "not set".
type Query struct {
	Location string
	Weekday  int
	Format   string
	Limit    int
}

// Values encodes the query in the form expected by the jsonp endpoint.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Location != "" {
		v.Set("SearchString", q.Location)
	}
	if q.Weekday != 0 {
		v.Set("weekdays[]", strconv.Itoa(q.Weekday))
	}
	if q.Format != "" {
		v.Set("formats[]", q.Format)
	}
	limit := q.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	v.Set("limit", strconv.Itoa(limit))
	v.Set("switcher", "GetSearchResults")
	v.Set("data_field_key", DataFieldKey)
	return v
}

// Client performs meeting searches against one BMLT root server.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates a client for the given API base URL.
func NewClient(baseURL, userAgent string, timeout time.Duration, logger *common.Logger) *Client {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// SearchURL returns the full request URL for q.
func (c *Client) SearchURL(q Query) string {
	return c.baseURL + SearchPath + "?" + q.Values().Encode()
}

// Search runs q and returns the decoded meetings.
//
// Errors are one of *StatusError, *PayloadError, *APIError, or a transport
// error from the HTTP client.
func (c *Client) Search(ctx context.Context, q Query) ([]Meeting, error) {
	target := c.SearchURL(q)
	c.logger.Debug().Str("method", "GET").Str("url", target).Msg("bmlt request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/javascript")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error().Str("url", target).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("bmlt request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("bmlt response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	text := string(body)
	c.logger.Debug().Int("bytes", len(body)).Str("preview", preview(text)).Msg("bmlt response body")

	payload, envelope := ExtractJSON(text)
	c.logger.Debug().Str("envelope", envelope.String()).Str("payload_preview", preview(payload)).Msg("extracted json")

	meetings, shape, err := DecodePayload([]byte(payload))
	if err != nil {
		var perr *PayloadError
		if envelope == EnvelopeNone && errors.As(err, &perr) {
			perr.Reason = "unrecognised JSONP envelope"
		}
		return nil, err
	}

	c.logger.Debug().Str("shape", string(shape)).Int("meetings", len(meetings)).Msg("bmlt search complete")
	return meetings, nil
}

func preview(s string) string {
	if len(s) <= previewLength {
		return s
	}
	return s[:previewLength] + "..."
}
