// Package organizer keeps the student's study schedule.
package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lumen/internal/engine"
	"lumen/internal/storage"
)

const (
	UsageID = "organizer"
	Reward  = 5

	dateLayout = "2006-01-02"
)

type Item struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Task    string `json:"task"`
	Date    string `json:"date"`
}

// Awarder records XP for a new schedule entry.
type Awarder interface {
	AddXP(ctx context.Context, amount int, toolID string) (*engine.XPResult, error)
}

// ValidationError reports a rejected schedule entry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type Organizer struct {
	mu    sync.Mutex
	kv    storage.KV
	xp    Awarder
	log   *slog.Logger
	items []Item
}

func New(ctx context.Context, kv storage.KV, xp Awarder, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Organizer{kv: kv, xp: xp, log: logger.With("component", "organizer")}
	if _, err := storage.GetJSON(ctx, kv, storage.KeyStudySchedule, &o.items); err != nil {
		o.log.Error("failed to load study schedule", "error", err)
		o.items = nil
	}
	sortItems(o.items)
	return o
}

func (o *Organizer) List() []Item {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Add stores a new entry and awards the organizer XP. An empty date means today.
func (o *Organizer) Add(ctx context.Context, subject, task, date string, today time.Time) (Item, *engine.XPResult, error) {
	subject, task, date = strings.TrimSpace(subject), strings.TrimSpace(task), strings.TrimSpace(date)
	if subject == "" {
		return Item{}, nil, ValidationError{Field: "subject", Reason: "is required"}
	}
	if task == "" {
		return Item{}, nil, ValidationError{Field: "task", Reason: "is required"}
	}
	if date == "" {
		date = today.Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return Item{}, nil, ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	item := Item{ID: uuid.NewString(), Subject: subject, Task: task, Date: date}

	o.mu.Lock()
	next := append(append([]Item(nil), o.items...), item)
	sortItems(next)
	if err := storage.SetJSON(ctx, o.kv, storage.KeyStudySchedule, next); err != nil {
		o.mu.Unlock()
		return Item{}, nil, err
	}
	o.items = next
	o.mu.Unlock()

	xp, err := o.xp.AddXP(ctx, Reward, UsageID)
	if err != nil {
		o.log.Error("failed to award xp", "error", err)
	}
	return item, xp, nil
}

// Delete removes the entry with id and reports whether it existed.
func (o *Organizer) Delete(ctx context.Context, id string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	next := make([]Item, 0, len(o.items))
	for _, it := range o.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	if len(next) == len(o.items) {
		return false, nil
	}
	if err := storage.SetJSON(ctx, o.kv, storage.KeyStudySchedule, next); err != nil {
		return false, err
	}
	o.items = next
	return true, nil
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date < items[j].Date })
}
