package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"lumen/internal/storage"
)

// Engine owns the gamification state of the signed-in user for one session.
type Engine struct {
	mu    sync.Mutex
	kv    storage.KV
	log   *slog.Logger
	user  string
	state State
}

func NewEngine(kv storage.KV, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		kv:    kv,
		log:   logger.With("component", "gamification"),
		state: DefaultState(),
	}
}

// XPResult summarizes one AddXP call.
type XPResult struct {
	ToolID      string
	XPAwarded   int
	TotalXP     int
	LevelBefore int
	LevelAfter  int
	LevelUp     bool
	Unlocked    []Achievement
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// UsageCount returns how many times toolID has earned XP for the current user.
func (e *Engine) UsageCount(toolID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.UsageCount(toolID)
}

func (e *Engine) User() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.user
}

// SetUser switches the engine to email's persisted state. An empty email resets to defaults.
// A missing or corrupted record also yields defaults; nothing is returned to the caller.
func (e *Engine) SetUser(ctx context.Context, email string) {
	email = strings.ToLower(strings.TrimSpace(email))

	e.mu.Lock()
	defer e.mu.Unlock()

	e.user = email
	if email == "" {
		e.state = DefaultState()
		return
	}
	e.state = e.load(ctx, email)
}

// Reset drops back to a fresh default state with no user.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.user = ""
	e.state = DefaultState()
}

// AddXP awards amount XP for a successful use of toolID, recomputes the level, bumps the
// tool usage count, unlocks achievements and persists the result for the current user.
func (e *Engine) AddXP(ctx context.Context, amount int, toolID string) (*XPResult, error) {
	if amount <= 0 {
		return nil, InvalidAmountError{Amount: amount}
	}
	toolID = strings.TrimSpace(toolID)
	if toolID == "" {
		return nil, InvalidToolError{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.state.Clone()
	levelBefore := next.Level
	next.XP += amount
	next.Level = advanceLevel(next.Level, next.XP, LevelThresholds)
	next.ToolUsage[toolID]++

	next, unlockedIDs := EvaluateAchievements(next)
	e.state = next

	if e.user != "" {
		e.save(ctx, e.user, next)
	}

	res := &XPResult{
		ToolID:      toolID,
		XPAwarded:   amount,
		TotalXP:     next.XP,
		LevelBefore: levelBefore,
		LevelAfter:  next.Level,
		LevelUp:     next.Level > levelBefore,
	}
	for _, id := range unlockedIDs {
		res.Unlocked = append(res.Unlocked, next.Achievements[id])
	}
	if res.LevelUp {
		e.log.Info("level up", "user", e.user, "from", levelBefore, "to", next.Level)
	}
	for _, a := range res.Unlocked {
		e.log.Info("achievement unlocked", "user", e.user, "achievement", a.ID)
	}
	return res, nil
}

func (e *Engine) load(ctx context.Context, email string) State {
	var s State
	found, err := storage.GetJSON(ctx, e.kv, storage.GamificationKey(email), &s)
	if err != nil {
		e.log.Error("failed to load gamification state", "user", email, "error", err)
		return DefaultState()
	}
	if !found || !s.Valid() {
		return DefaultState()
	}
	if s.ToolUsage == nil {
		s.ToolUsage = map[string]int{}
	}
	if s.Achievements == nil {
		s.Achievements = map[AchievementID]Achievement{}
	}
	// Bring records written by older catalogs up to date.
	s.Level = advanceLevel(s.Level, s.XP, LevelThresholds)
	s, _ = EvaluateAchievements(s)
	return s
}

func (e *Engine) save(ctx context.Context, email string, s State) {
	if err := storage.SetJSON(ctx, e.kv, storage.GamificationKey(email), s); err != nil {
		e.log.Error("failed to save gamification state", "user", email, "error", err)
	}
}
