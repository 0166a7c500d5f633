package reminders

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/storage"
)

type fakeNotifier struct {
	mu     sync.Mutex
	answer Permission
	fail   bool
	shown  []string
}

func (f *fakeNotifier) RequestPermission(context.Context) (Permission, error) {
	return f.answer, nil
}

func (f *fakeNotifier) Notify(_ context.Context, title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("notification center unavailable")
	}
	f.shown = append(f.shown, title+"|"+body)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.shown)
}

func newTestKV(t *testing.T) *storage.KVRepo {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewKVRepo(db)
}

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 15, 30, 0, 0, time.Local) }
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("r%d", n)
	}
}

func grant(t *testing.T, s *Scheduler) {
	t.Helper()
	p, err := s.RequestPermission(context.Background())
	require.NoError(t, err)
	require.Equal(t, PermissionGranted, p)
}

func TestAddRemindersSortsByDueDate(t *testing.T) {
	ctx := context.Background()
	s := NewScheduler(ctx, newTestKV(t), &fakeNotifier{}, nil, WithIDGenerator(seqIDs()))

	added, err := s.AddReminders(ctx, []NewReminder{
		{Topic: "Cells", Note: "organelles", DueDate: "2024-05-10"},
		{Topic: "Atoms", Note: "orbitals", DueDate: "2024-05-01"},
	})
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, "r1", added[0].ID)

	_, err = s.AddReminders(ctx, []NewReminder{{Topic: "Waves", DueDate: "2024-05-05"}})
	require.NoError(t, err)

	var dates []string
	for _, r := range s.List() {
		dates = append(dates, r.DueDate)
	}
	assert.Equal(t, []string{"2024-05-01", "2024-05-05", "2024-05-10"}, dates)
}

func TestAddRemindersRejectsInvalidItems(t *testing.T) {
	ctx := context.Background()
	s := NewScheduler(ctx, newTestKV(t), &fakeNotifier{}, nil)

	_, err := s.AddReminders(ctx, []NewReminder{
		{Topic: "ok", DueDate: "2024-05-01"},
		{Topic: "bad", DueDate: "05/01/2024"},
	})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Index)
	assert.Equal(t, "dueDate", verr.Field)

	_, err = s.AddReminders(ctx, []NewReminder{{Topic: "  ", DueDate: "2024-05-01"}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "topic", verr.Field)

	assert.Empty(t, s.List())
}

func TestRemindersRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 50} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			ctx := context.Background()
			kv := newTestKV(t)
			s := NewScheduler(ctx, kv, &fakeNotifier{}, nil)
			s.SetUser(ctx, "ada@x.io")

			items := make([]NewReminder, n)
			for i := range items {
				items[i] = NewReminder{
					Topic:   fmt.Sprintf("topic %d", i),
					Note:    "note",
					DueDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n-i).Format(DateLayout),
				}
			}
			if n > 0 {
				_, err := s.AddReminders(ctx, items)
				require.NoError(t, err)
			}
			want := s.List()

			reopened := NewScheduler(ctx, kv, &fakeNotifier{}, nil)
			reopened.SetUser(ctx, "ada@x.io")
			assert.Equal(t, want, reopened.List())
			assert.Len(t, reopened.List(), n)
		})
	}
}

func TestRemindersAreScopedPerUser(t *testing.T) {
	ctx := context.Background()
	s := NewScheduler(ctx, newTestKV(t), &fakeNotifier{}, nil)

	s.SetUser(ctx, "ada@x.io")
	_, err := s.AddReminders(ctx, []NewReminder{{Topic: "Ada's", DueDate: "2024-05-01"}})
	require.NoError(t, err)

	s.SetUser(ctx, "bob@x.io")
	assert.Empty(t, s.List())

	s.SetUser(ctx, "ADA@x.io")
	assert.Len(t, s.List(), 1)
}

func TestDeleteReminder(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := NewScheduler(ctx, kv, &fakeNotifier{}, nil, WithIDGenerator(seqIDs()))
	_, err := s.AddReminders(ctx, []NewReminder{
		{Topic: "a", DueDate: "2024-05-01"},
		{Topic: "b", DueDate: "2024-05-02"},
	})
	require.NoError(t, err)

	ok, err := s.DeleteReminder(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteReminder(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	reopened := NewScheduler(ctx, kv, &fakeNotifier{}, nil)
	require.Len(t, reopened.List(), 1)
	assert.Equal(t, "b", reopened.List()[0].Topic)
}

func TestCheckDueFiresTodayAndOverdue(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	n := &fakeNotifier{answer: PermissionGranted}
	s := NewScheduler(ctx, kv, n, nil, WithClock(fixedClock(2024, 5, 10)))
	grant(t, s)

	_, err := s.AddReminders(ctx, []NewReminder{
		{Topic: "Overdue", Note: "late", DueDate: "2024-05-01"},
		{Topic: "Today", Note: "now", DueDate: "2024-05-10"},
		{Topic: "Tomorrow", Note: "later", DueDate: "2024-05-11"},
	})
	require.NoError(t, err)

	fired := s.CheckDue(ctx)
	require.Len(t, fired, 2)
	assert.Equal(t, []string{
		NotificationTitle + "|Overdue: late",
		NotificationTitle + "|Today: now",
	}, n.shown)

	left := s.List()
	require.Len(t, left, 1)
	assert.Equal(t, "Tomorrow", left[0].Topic)

	// Fired reminders are gone from storage too.
	reopened := NewScheduler(ctx, kv, n, nil)
	assert.Len(t, reopened.List(), 1)

	assert.Empty(t, s.CheckDue(ctx))
	assert.Len(t, n.shown, 2)
}

// readOnlyKV loads nothing and refuses every write.
type readOnlyKV struct{}

func (readOnlyKV) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (readOnlyKV) Set(context.Context, string, string) error         { return errors.New("quota exceeded") }
func (readOnlyKV) Remove(context.Context, string) error              { return errors.New("quota exceeded") }

func TestStoreFailuresKeepMemoryAuthoritative(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	n := &fakeNotifier{answer: PermissionGranted}
	s := NewScheduler(ctx, readOnlyKV{}, n, logger, WithClock(fixedClock(2024, 5, 10)), WithIDGenerator(seqIDs()))
	grant(t, s)

	added, err := s.AddReminders(ctx, []NewReminder{
		{Topic: "Today", Note: "now", DueDate: "2024-05-10"},
		{Topic: "Later", Note: "soon", DueDate: "2024-06-02"},
		{Topic: "Much later", DueDate: "2024-07-01"},
	})
	require.NoError(t, err)
	require.Len(t, added, 3)
	assert.Len(t, s.List(), 3)
	assert.Contains(t, logs.String(), "failed to save reminders")

	ok, err := s.DeleteReminder(ctx, "r3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, s.List(), 2)

	fired := s.CheckDue(ctx)
	require.Len(t, fired, 1)
	assert.Equal(t, "Today", fired[0].Topic)
	left := s.List()
	require.Len(t, left, 1)
	assert.Equal(t, "Later", left[0].Topic)

	var verr ValidationError
	_, err = s.AddReminders(ctx, []NewReminder{{Topic: "", DueDate: "2024-05-11"}})
	require.ErrorAs(t, err, &verr)
}

func TestCheckDueWithoutPermissionDoesNothing(t *testing.T) {
	ctx := context.Background()
	n := &fakeNotifier{answer: PermissionDenied}
	s := NewScheduler(ctx, newTestKV(t), n, nil, WithClock(fixedClock(2024, 5, 10)))

	_, err := s.AddReminders(ctx, []NewReminder{{Topic: "Overdue", DueDate: "2024-05-01"}})
	require.NoError(t, err)

	assert.Empty(t, s.CheckDue(ctx))

	p, err := s.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, PermissionDenied, p)
	assert.Empty(t, s.CheckDue(ctx))

	assert.Empty(t, n.shown)
	assert.Len(t, s.List(), 1)
}

func TestPermissionIsPersisted(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := NewScheduler(ctx, kv, &fakeNotifier{answer: PermissionGranted}, nil)
	assert.Equal(t, PermissionDefault, s.Permission())
	grant(t, s)

	reopened := NewScheduler(ctx, kv, &fakeNotifier{}, nil)
	assert.Equal(t, PermissionGranted, reopened.Permission())
}

func TestCheckDueSkipsUnparsableDates(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	require.NoError(t, storage.SetJSON(ctx, kv, storage.RemindersKey(""), []Reminder{
		{ID: "x", Topic: "Broken", DueDate: "someday"},
		{ID: "y", Topic: "Due", DueDate: "2024-05-01"},
	}))

	n := &fakeNotifier{answer: PermissionGranted}
	s := NewScheduler(ctx, kv, n, nil, WithClock(fixedClock(2024, 5, 10)))
	grant(t, s)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "y", list[0].ID, "unparsable dates sort last")

	fired := s.CheckDue(ctx)
	require.Len(t, fired, 1)
	assert.Equal(t, "y", fired[0].ID)

	left := s.List()
	require.Len(t, left, 1)
	assert.Equal(t, "x", left[0].ID)
}

func TestFailedNotificationKeepsReminder(t *testing.T) {
	ctx := context.Background()
	n := &fakeNotifier{answer: PermissionGranted, fail: true}
	s := NewScheduler(ctx, newTestKV(t), n, nil, WithClock(fixedClock(2024, 5, 10)))
	grant(t, s)

	_, err := s.AddReminders(ctx, []NewReminder{{Topic: "Due", DueDate: "2024-05-01"}})
	require.NoError(t, err)

	assert.Empty(t, s.CheckDue(ctx))
	assert.Len(t, s.List(), 1)
}

func TestStartChecksImmediatelyAndStopWaits(t *testing.T) {
	ctx := context.Background()
	n := &fakeNotifier{answer: PermissionGranted}
	s := NewScheduler(ctx, newTestKV(t), n, nil,
		WithClock(fixedClock(2024, 5, 10)),
		WithInterval(time.Hour),
	)
	grant(t, s)
	_, err := s.AddReminders(ctx, []NewReminder{{Topic: "Due", DueDate: "2024-05-10"}})
	require.NoError(t, err)

	s.Start(ctx)
	s.Start(ctx)
	require.Eventually(t, func() bool { return n.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	s.Stop()
	s.Stop()

	assert.Empty(t, s.List())
}

func TestSuggestSchedule(t *testing.T) {
	today := time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC)
	got := SuggestSchedule("  Photosynthesis ", today)
	require.Len(t, got, 3)

	assert.Equal(t, "Photosynthesis", got[0].Topic)
	assert.Equal(t, "2024-02-01", got[0].DueDate)
	assert.Equal(t, "2024-02-07", got[1].DueDate)
	assert.Equal(t, "2024-03-01", got[2].DueDate)
	for _, r := range got {
		assert.NotEmpty(t, r.Note)
	}

	assert.Nil(t, SuggestSchedule(" ", today))
}
