package tools

import (
	"errors"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"lumen/internal/reminders"
)

var errNoReviewDates = errors.New("no usable review dates in reply")

// ReviewSuggestions turns a reminders tool reply into reminders for topic. Entries with a
// malformed date are dropped.
func ReviewSuggestions(doc, topic string) ([]reminders.NewReminder, error) {
	var out []reminders.NewReminder
	gjson.Parse(doc).ForEach(func(_, item gjson.Result) bool {
		date := strings.TrimSpace(item.Get("reviewDate").String())
		if _, err := time.Parse(reminders.DateLayout, date); err != nil {
			return true
		}
		out = append(out, reminders.NewReminder{
			Topic:   strings.TrimSpace(topic),
			Note:    strings.TrimSpace(item.Get("note").String()),
			DueDate: date,
		})
		return true
	})
	if len(out) == 0 {
		return nil, errNoReviewDates
	}
	return out, nil
}
