package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lumen/internal/ai"
	"lumen/internal/engine"
)

// Gamifier is the part of the gamification engine the runner reports to.
type Gamifier interface {
	AddXP(ctx context.Context, amount int, toolID string) (*engine.XPResult, error)
	UsageCount(toolID string) int
}

// Runner executes catalog tools and awards XP for successful runs.
type Runner struct {
	gen   ai.Generator
	game  Gamifier
	log   *slog.Logger
	level func() string
	now   func() time.Time
}

// NewRunner wires a runner. level reports the signed-in user's academic level.
func NewRunner(gen ai.Generator, game Gamifier, level func() string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		gen:   gen,
		game:  game,
		log:   logger.With("component", "tools"),
		level: level,
		now:   time.Now,
	}
}

// Outcome is a successful run plus the XP it earned.
type Outcome struct {
	*Result
	XP *engine.XPResult
}

// Run validates in, calls the model and, only on success, awards the tool's XP once.
func (r *Runner) Run(ctx context.Context, toolID string, in Input) (*Outcome, error) {
	t, ok := Lookup(toolID)
	if !ok {
		return nil, ValidationError{Field: "tool", Reason: fmt.Sprintf("%q is not a known tool", toolID)}
	}
	in, err := t.normalize(in)
	if err != nil {
		return nil, err
	}
	if r.gen == nil {
		return nil, fmt.Errorf("%s: %w: %w", t.ID, ErrGenerationFailed, ai.ErrNoAPIKey)
	}

	start := time.Now()
	res, err := t.run(ctx, r.env(), in)
	if err != nil {
		r.log.Error("tool run failed", "tool", t.ID, "elapsed", time.Since(start), "error", err)
		return nil, fmt.Errorf("%s: %w: %w", t.ID, ErrGenerationFailed, err)
	}
	res.ToolID = t.ID
	r.log.Info("tool run", "tool", t.ID, "kind", res.Kind, "elapsed", time.Since(start))

	out := &Outcome{Result: res}
	out.XP = r.award(ctx, t.xpFor(in, r.game.UsageCount(t.ID)), t.ID)
	return out, nil
}

// Chat sends one message on session and awards the chat reward on success.
func (r *Runner) Chat(ctx context.Context, session *ai.ChatSession, message string) (string, *engine.XPResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", nil, ValidationError{Field: "message", Reason: "is required"}
	}
	reply, err := session.Send(ctx, message)
	if err != nil {
		r.log.Error("chat failed", "error", err)
		return "", nil, fmt.Errorf("%s: %w: %w", IDChat, ErrGenerationFailed, err)
	}
	return reply, r.award(ctx, ChatReward, IDChat), nil
}

// NewChat starts a private chat tuned to the current academic level.
func (r *Runner) NewChat(history []ai.Message) *ai.ChatSession {
	s := ai.NewChatSession(r.gen, fmt.Sprintf("You are Lumen, a friendly and helpful AI assistant talking with a %s student. Adapt the complexity of your answers to their level. Be concise and clear.", r.currentLevel()))
	s.Restore(history)
	return s
}

// Award records a usage event that does not go through the model.
func (r *Runner) Award(ctx context.Context, amount int, toolID string) *engine.XPResult {
	return r.award(ctx, amount, toolID)
}

func (r *Runner) award(ctx context.Context, amount int, toolID string) *engine.XPResult {
	xp, err := r.game.AddXP(ctx, amount, toolID)
	if err != nil {
		r.log.Error("failed to award xp", "tool", toolID, "amount", amount, "error", err)
		return nil
	}
	return xp
}

func (r *Runner) env() env {
	return env{gen: r.gen, level: r.currentLevel(), today: r.now()}
}

func (r *Runner) currentLevel() string {
	if r.level != nil {
		if l := strings.TrimSpace(r.level()); l != "" {
			return l
		}
	}
	return defaultLevel
}

const defaultLevel = "University (Undergraduate)"
