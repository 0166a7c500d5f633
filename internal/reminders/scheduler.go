package reminders

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lumen/internal/storage"
)

// DefaultInterval is how often the scheduler checks for due reminders.
const DefaultInterval = 60 * time.Second

// Scheduler stores the signed-in user's reminders and fires the ones that fall due.
type Scheduler struct {
	mu         sync.Mutex
	kv         storage.KV
	notifier   Notifier
	log        *slog.Logger
	now        func() time.Time
	newID      func() string
	interval   time.Duration
	key        string
	reminders  []Reminder
	permission Permission

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithIDGenerator(f func() string) Option {
	return func(s *Scheduler) { s.newID = f }
}

// NewScheduler loads the anonymous reminder list and the stored notification permission.
func NewScheduler(ctx context.Context, kv storage.KV, notifier Notifier, logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		kv:         kv,
		notifier:   notifier,
		log:        logger.With("component", "reminders"),
		now:        time.Now,
		newID:      uuid.NewString,
		interval:   DefaultInterval,
		key:        storage.RemindersKey(""),
		permission: PermissionDefault,
	}
	for _, o := range opts {
		o(s)
	}

	if raw, ok, err := kv.Get(ctx, storage.KeyNotificationPermission); err != nil {
		s.log.Error("failed to load notification permission", "error", err)
	} else if ok {
		s.permission = ParsePermission(raw)
	}
	s.reminders = s.load(ctx, s.key)
	return s
}

// SetUser switches to email's reminder list; an empty email selects the anonymous list.
func (s *Scheduler) SetUser(ctx context.Context, email string) {
	key := storage.RemindersKey(email)
	list := s.load(ctx, key)

	s.mu.Lock()
	s.key = key
	s.reminders = list
	s.mu.Unlock()
}

// List returns the reminders sorted by due date.
func (s *Scheduler) List() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Reminder, len(s.reminders))
	copy(out, s.reminders)
	return out
}

// AddReminders assigns ids to items, merges them into the list and persists it.
// An invalid item rejects the whole batch. A failed save is logged, not returned.
func (s *Scheduler) AddReminders(ctx context.Context, items []NewReminder) ([]Reminder, error) {
	if err := validate(items); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]Reminder, 0, len(items))
	for _, it := range items {
		added = append(added, Reminder{
			ID:      s.newID(),
			Topic:   strings.TrimSpace(it.Topic),
			Note:    strings.TrimSpace(it.Note),
			DueDate: strings.TrimSpace(it.DueDate),
		})
	}

	next := make([]Reminder, 0, len(s.reminders)+len(added))
	next = append(next, s.reminders...)
	next = append(next, added...)
	sortByDueDate(next)

	s.reminders = next
	s.save(ctx)
	s.log.Info("reminders added", "count", len(added))
	return added, nil
}

// DeleteReminder removes the reminder with id. It reports whether one was removed.
func (s *Scheduler) DeleteReminder(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		if r.ID != id {
			next = append(next, r)
		}
	}
	if len(next) == len(s.reminders) {
		return false, nil
	}
	s.reminders = next
	s.save(ctx)
	return true, nil
}

func (s *Scheduler) Permission() Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permission
}

// RequestPermission prompts through the notifier and stores the answer.
func (s *Scheduler) RequestPermission(ctx context.Context) (Permission, error) {
	p, err := s.notifier.RequestPermission(ctx)
	if err != nil {
		return s.Permission(), err
	}
	p = ParsePermission(string(p))
	if err := s.kv.Set(ctx, storage.KeyNotificationPermission, string(p)); err != nil {
		s.log.Error("failed to save notification permission", "error", err)
	}

	s.mu.Lock()
	s.permission = p
	s.mu.Unlock()
	return p, nil
}

// CheckDue fires a notification for every reminder due today or earlier and removes it.
// Nothing happens unless permission is granted. Reminders whose notification fails stay
// in the list for the next check.
func (s *Scheduler) CheckDue(ctx context.Context) []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.permission != PermissionGranted || len(s.reminders) == 0 {
		return nil
	}

	today := Midnight(s.now().In(time.Local))
	var fired []Reminder
	kept := make([]Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		due, err := IsDue(r, today)
		if err != nil {
			s.log.Warn("skipping reminder with unparsable due date", "id", r.ID, "dueDate", r.DueDate)
			kept = append(kept, r)
			continue
		}
		if !due {
			kept = append(kept, r)
			continue
		}
		if err := s.notifier.Notify(ctx, NotificationTitle, r.Topic+": "+r.Note); err != nil {
			s.log.Error("failed to show reminder", "id", r.ID, "error", err)
			kept = append(kept, r)
			continue
		}
		fired = append(fired, r)
	}
	if len(fired) == 0 {
		return nil
	}

	s.reminders = kept
	s.save(ctx)
	s.log.Info("reminders fired", "count", len(fired))
	return fired
}

// Start runs an immediate check and then one per interval until ctx is done or Stop is called.
// Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.CheckDue(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CheckDue(ctx)
			}
		}
	}()
}

// Stop halts the periodic check and waits for it to exit.
func (s *Scheduler) Stop() {
	s.runMu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// save persists the list. The in-memory list stays authoritative when the store fails.
// Callers hold s.mu.
func (s *Scheduler) save(ctx context.Context) {
	if err := storage.SetJSON(ctx, s.kv, s.key, s.reminders); err != nil {
		s.log.Error("failed to save reminders", "key", s.key, "error", err)
	}
}

func (s *Scheduler) load(ctx context.Context, key string) []Reminder {
	var list []Reminder
	found, err := storage.GetJSON(ctx, s.kv, key, &list)
	if err != nil {
		s.log.Error("failed to load reminders", "key", key, "error", err)
		return []Reminder{}
	}
	if !found || list == nil {
		return []Reminder{}
	}
	sortByDueDate(list)
	return list
}
