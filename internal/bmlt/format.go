package bmlt

import (
	"fmt"
	"strings"
)

// NoMeetingsMessage is returned when a search yields no meetings.
const NoMeetingsMessage = "No meetings found matching your search criteria."

// FormatMeeting renders one meeting as a markdown block.
func FormatMeeting(m Meeting) string {
	comments := string(m.Comments)
	if comments == "" {
		comments = "None"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", m.Name)
	fmt.Fprintf(&b, "- Time: %s (%s)\n", m.StartTime, m.Duration)
	fmt.Fprintf(&b, "- Location: %s\n", m.Location())
	fmt.Fprintf(&b, "- Comments: %s\n", comments)
	fmt.Fprintf(&b, "- ID: %s", m.ID)
	return b.String()
}

// FormatMeetings renders a count summary followed by one block per meeting.
func FormatMeetings(meetings []Meeting) string {
	if len(meetings) == 0 {
		return NoMeetingsMessage
	}

	blocks := make([]string, len(meetings))
	for i, m := range meetings {
		blocks[i] = FormatMeeting(m)
	}
	return fmt.Sprintf("Found %d meeting(s):\n\n%s", len(meetings), strings.Join(blocks, "\n\n"))
}
