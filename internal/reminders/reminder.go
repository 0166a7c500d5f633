package reminders

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for due dates.
const DateLayout = "2006-01-02"

type Reminder struct {
	ID      string `json:"id"`
	Topic   string `json:"topic"`
	Note    string `json:"note"`
	DueDate string `json:"dueDate"`
}

// NewReminder is a reminder before it has been assigned an id.
type NewReminder struct {
	Topic   string `json:"topic"`
	Note    string `json:"note"`
	DueDate string `json:"dueDate"`
}

// ValidationError reports a reminder that cannot be stored.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("reminder %d: %s %s", e.Index, e.Field, e.Reason)
}

// ParseDueDate parses a YYYY-MM-DD date as midnight in loc.
func ParseDueDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsDue reports whether r is due on or before today. Unparsable dates are never due.
func IsDue(r Reminder, today time.Time) (bool, error) {
	due, err := ParseDueDate(r.DueDate, today.Location())
	if err != nil {
		return false, err
	}
	return !due.After(Midnight(today)), nil
}

// sortByDueDate orders reminders ascending by due date; unparsable dates go last.
func sortByDueDate(list []Reminder) {
	parsed := make(map[string]time.Time, len(list))
	valid := make(map[string]bool, len(list))
	for _, r := range list {
		if t, err := ParseDueDate(r.DueDate, time.UTC); err == nil {
			parsed[r.ID] = t
			valid[r.ID] = true
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		vi, vj := valid[list[i].ID], valid[list[j].ID]
		if vi != vj {
			return vi
		}
		if !vi {
			return false
		}
		return parsed[list[i].ID].Before(parsed[list[j].ID])
	})
}

func validate(items []NewReminder) error {
	for i, it := range items {
		if strings.TrimSpace(it.Topic) == "" {
			return ValidationError{Index: i, Field: "topic", Reason: "is required"}
		}
		if _, err := ParseDueDate(it.DueDate, time.UTC); err != nil {
			return ValidationError{Index: i, Field: "dueDate", Reason: fmt.Sprintf("must be YYYY-MM-DD (got %q)", it.DueDate)}
		}
	}
	return nil
}
