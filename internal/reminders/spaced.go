package reminders

import (
	"fmt"
	"strings"
	"time"
)

// ReviewOffsets are the spaced-repetition intervals, in days, used by SuggestSchedule.
var ReviewOffsets = []int{1, 7, 30}

// SuggestSchedule returns review reminders for topic at each ReviewOffsets day after today.
// It is the offline fallback when no model is available to plan a schedule.
func SuggestSchedule(topic string, today time.Time) []NewReminder {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil
	}
	base := Midnight(today)
	out := make([]NewReminder, 0, len(ReviewOffsets))
	for i, days := range ReviewOffsets {
		out = append(out, NewReminder{
			Topic:   topic,
			Note:    reviewNote(i, days),
			DueDate: base.AddDate(0, 0, days).Format(DateLayout),
		})
	}
	return out
}

func reviewNote(i, days int) string {
	switch i {
	case 0:
		return "Quick recall: write down the key ideas from memory."
	case len(ReviewOffsets) - 1:
		return fmt.Sprintf("Long-term review after %d days: test yourself end to end.", days)
	default:
		return fmt.Sprintf("Review after %d days: revisit anything you missed.", days)
	}
}
