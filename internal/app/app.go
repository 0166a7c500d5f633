// Package app wires storage, the session and every feature service for one process.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"lumen/internal/ai"
	"lumen/internal/auth"
	"lumen/internal/config"
	"lumen/internal/engine"
	"lumen/internal/library"
	"lumen/internal/organizer"
	"lumen/internal/prefs"
	"lumen/internal/reminders"
	"lumen/internal/storage"
	"lumen/internal/tools"
)

type Options struct {
	Config *config.Config
	Logger *slog.Logger
	// Notifier delivers reminders; nil prints nothing.
	Notifier reminders.Notifier
	// Generator overrides the Gemini client.
	Generator ai.Generator
	Now       func() time.Time
}

// App is the process-wide set of services sharing one session.
type App struct {
	Config    *config.Config
	Log       *slog.Logger
	KV        *storage.KVRepo
	Engine    *engine.Engine
	Auth      *auth.Store
	Reminders *reminders.Scheduler
	Tools     *tools.Runner
	Library   *library.Library
	Organizer *organizer.Organizer

	db  *sql.DB
	gen ai.Generator
	now func() time.Time
}

// Open opens the database, builds the services and restores the previous session.
func Open(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	path, err := storage.ResolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Log: log, db: db, now: now}
	a.KV = storage.NewKVRepo(db)
	a.Engine = engine.NewEngine(a.KV, log)
	a.Auth = auth.NewStore(a.KV, log, cfg.AdminEmail)

	notifier := opts.Notifier
	if notifier == nil {
		notifier = &reminders.WriterNotifier{Out: io.Discard}
	}
	schedOpts := []reminders.Option{reminders.WithClock(now)}
	if cfg.ReminderInterval > 0 {
		schedOpts = append(schedOpts, reminders.WithInterval(cfg.ReminderInterval))
	}
	a.Reminders = reminders.NewScheduler(ctx, a.KV, notifier, log, schedOpts...)

	a.gen = opts.Generator
	if a.gen == nil {
		g, err := ai.NewGeminiClient(ctx, ai.GeminiConfig{
			APIKey:     cfg.APIKey,
			TextModel:  cfg.TextModel,
			ImageModel: cfg.ImageModel,
		}, log)
		switch {
		case errors.Is(err, ai.ErrNoAPIKey):
			log.Warn("no api key configured; ai tools are disabled")
		case err != nil:
			_ = db.Close()
			return nil, err
		default:
			a.gen = g
		}
	}
	a.Tools = tools.NewRunner(a.gen, a.Engine, a.level, log)

	a.Library, err = library.Load(a.Engine)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.Organizer = organizer.New(ctx, a.KV, a.Engine, log)

	a.Auth.OnSessionChange(func(email string) {
		// Listeners have no caller context; these calls only touch the local store.
		bg := context.Background()
		a.Engine.SetUser(bg, email)
		a.Reminders.SetUser(bg, email)
	})
	if _, err := a.Auth.Restore(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return a, nil
}

func (a *App) Close() error {
	a.Reminders.Stop()
	return a.db.Close()
}

// HasAI reports whether a text/image generator is configured.
func (a *App) HasAI() bool {
	return a.gen != nil
}

func (a *App) Now() time.Time {
	return a.now()
}

// RequireUser returns the signed-in profile or auth.ErrNotSignedIn.
func (a *App) RequireUser() (*auth.Profile, error) {
	p := a.Auth.Current()
	if p == nil {
		return nil, auth.ErrNotSignedIn
	}
	return p, nil
}

func (a *App) Accessibility(ctx context.Context) prefs.Accessibility {
	return prefs.Load(ctx, a.KV)
}

func (a *App) SetAccessibility(ctx context.Context, s prefs.Accessibility) error {
	return prefs.Save(ctx, a.KV, s)
}

// ChatHistory returns the saved private chat for the current user.
func (a *App) ChatHistory(ctx context.Context) []ai.Message {
	var history []ai.Message
	if _, err := storage.GetJSON(ctx, a.KV, storage.ChatHistoryKey(a.email()), &history); err != nil {
		a.Log.Error("failed to load chat history", "error", err)
		return nil
	}
	return history
}

func (a *App) SaveChatHistory(ctx context.Context, history []ai.Message) error {
	return storage.SetJSON(ctx, a.KV, storage.ChatHistoryKey(a.email()), history)
}

func (a *App) ClearChatHistory(ctx context.Context) error {
	return a.KV.Remove(ctx, storage.ChatHistoryKey(a.email()))
}

func (a *App) email() string {
	if p := a.Auth.Current(); p != nil {
		return p.Email
	}
	return ""
}

func (a *App) level() string {
	if p := a.Auth.Current(); p != nil && p.Level != "" {
		return p.Level
	}
	return auth.DefaultEducationalLevel
}
