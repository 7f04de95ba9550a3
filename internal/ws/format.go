package ws

import "time"

// Display layouts are fixed: two-digit 24-hour clock and a DD/MM/YYYY date.
// The strings are informational only; ordering is by arrival, never by the
// formatted values.
const (
	timeLayout = "15:04:05"
	dateLayout = "02/01/2006"
)

// FormattedMessage is the chat payload delivered to clients.
type FormattedMessage struct {
	Text      string    `json:"text"`
	Time      string    `json:"time"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// formatMessage stamps text with the capture time of the call.
func formatMessage(text string) FormattedMessage {
	return formatMessageAt(text, time.Now())
}

func formatMessageAt(text string, now time.Time) FormattedMessage {
	return FormattedMessage{
		Text:      text,
		Time:      now.Format(timeLayout),
		Date:      now.Format(dateLayout),
		Timestamp: now,
	}
}
