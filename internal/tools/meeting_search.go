package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobmcallan/fam-mcp/internal/bmlt"
	"github.com/bobmcallan/fam-mcp/internal/common"
)

// MeetingSearchToolName is the MCP name of the BMLT search tool.
const MeetingSearchToolName = "bmlt_search"

// Searcher runs a meeting search. *bmlt.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, q bmlt.Query) ([]bmlt.Meeting, error)
}

// MeetingSearchTool searches the BMLT meeting directory.
type MeetingSearchTool struct {
	searcher Searcher
	logger   *common.Logger
}

// NewMeetingSearchTool creates the bmlt_search tool.
func NewMeetingSearchTool(searcher Searcher, logger *common.Logger) *MeetingSearchTool {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &MeetingSearchTool{searcher: searcher, logger: logger}
}

func (t *MeetingSearchTool) Name() string { return MeetingSearchToolName }

func (t *MeetingSearchTool) Description() string {
	return "Search for meetings in the BMLT (Basic Meeting List Toolbox) database"
}

func (t *MeetingSearchTool) Schema() Schema {
	return Schema{
		"location": {
			Type:        TypeString,
			Description: "Location to search for meetings (city, zip code, etc.)",
		},
		"weekday": {
			Type:        TypeNumber,
			Integer:     true,
			Min:         Bound(1),
			Max:         Bound(7),
			Description: "Day of week (1=Sunday, 2=Monday, 3=Tuesday, 4=Wednesday, 5=Thursday, 6=Friday, 7=Saturday)",
		},
		"format": {
			Type:        TypeString,
			Description: "Meeting format to search for",
		},
		"limit": {
			Type:        TypeNumber,
			Integer:     true,
			Min:         Bound(1),
			Max:         Bound(200),
			Default:     float64(bmlt.DefaultLimit),
			Description: "Maximum number of results to return (default: 50)",
		},
	}
}

// Call never returns an error: every failure becomes a diagnostic response.
func (t *MeetingSearchTool) Call(ctx context.Context, args Args) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error().Str("tool", MeetingSearchToolName).Str("panic", fmt.Sprint(r)).Msg("meeting search panicked")
			resp, err = ErrorResponse(fmt.Sprintf("Error searching BMLT: %v", r)), nil
		}
	}()

	logger := t.logger
	var callID string
	if cc, ok := GetCallContext(ctx); ok {
		callID = cc.CallID
		logger = logger.WithCorrelationId(callID)
	}

	q := bmlt.Query{
		Location: args.String("location"),
		Weekday:  args.Int("weekday"),
		Format:   args.String("format"),
		Limit:    args.Int("limit"),
	}

	meetings, err := t.searcher.Search(ctx, q)
	if err != nil {
		logger.Warn().Str("tool", MeetingSearchToolName).Str("call_id", callID).Str("error", err.Error()).Msg("meeting search failed")
		return searchErrorResponse(err), nil
	}

	logger.Info().Str("tool", MeetingSearchToolName).Str("call_id", callID).Int("meetings", len(meetings)).Msg("meeting search complete")
	return TextResponse(bmlt.FormatMeetings(meetings)), nil
}

func searchErrorResponse(err error) *Response {
	var statusErr *bmlt.StatusError
	var apiErr *bmlt.APIError
	switch {
	case errors.As(err, &statusErr):
		return ErrorResponse("Failed to retrieve BMLT data: " + statusErr.StatusLine())
	case errors.As(err, &apiErr):
		return ErrorResponse("BMLT API error: " + apiErr.Message)
	default:
		return ErrorResponse("Error searching BMLT: " + err.Error())
	}
}
