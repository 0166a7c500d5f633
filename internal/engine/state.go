package engine

// State is one player's gamification record, persisted as JSON per user.
type State struct {
	Level        int                           `json:"level"`
	XP           int                           `json:"xp"`
	Achievements map[AchievementID]Achievement `json:"achievements"`
	ToolUsage    map[string]int                `json:"toolUsage"`
}

// DefaultState returns a fresh level-1 state with every achievement locked.
func DefaultState() State {
	return State{
		Level:        1,
		XP:           0,
		Achievements: defaultAchievements(),
		ToolUsage:    map[string]int{},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		Level:        s.Level,
		XP:           s.XP,
		Achievements: make(map[AchievementID]Achievement, len(s.Achievements)),
		ToolUsage:    make(map[string]int, len(s.ToolUsage)),
	}
	for k, v := range s.Achievements {
		out.Achievements[k] = v
	}
	for k, v := range s.ToolUsage {
		out.ToolUsage[k] = v
	}
	return out
}

// Valid reports whether a loaded state is usable: level present and xp non-negative.
func (s State) Valid() bool {
	return s.Level >= 1 && s.XP >= 0
}

// UsageCount returns how many times toolID has been used successfully.
func (s State) UsageCount(toolID string) int {
	return s.ToolUsage[toolID]
}
