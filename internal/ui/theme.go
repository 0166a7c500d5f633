package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lumen/internal/engine"
)

// Lumen theme (CLI + TUI).

const (
	IconLumen    = "💡"
	IconSparkle  = "✨"
	IconPlus     = "➕"
	IconDone     = "✅"
	IconTrophy   = "🏆"
	IconBolt     = "⚡"
	IconInfo     = "ℹ️"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconBell     = "🔔"
	IconCalendar = "🗓️"
	IconBook     = "📚"
	IconChat     = "💬"
	IconLock     = "🔒"
	IconUser     = "🎓"
)

var (
	cPrimary = lipgloss.AdaptiveColor{Light: "25", Dark: "63"}
	cAccent  = lipgloss.AdaptiveColor{Light: "162", Dark: "205"}
	cGood    = lipgloss.AdaptiveColor{Light: "28", Dark: "42"}
	cWarn    = lipgloss.AdaptiveColor{Light: "166", Dark: "214"}
	cBad     = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	cMuted   = lipgloss.AdaptiveColor{Light: "240", Dark: "244"}
	cGold    = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
)

var (
	Title lipgloss.Style
	H2    lipgloss.Style
	Muted lipgloss.Style
	Key   lipgloss.Style
	Good  lipgloss.Style
	Warn  lipgloss.Style
	Bad   lipgloss.Style
	Gold  lipgloss.Style

	Panel       lipgloss.Style
	SelectedRow lipgloss.Style

	BadgeLevelUp string
)

func init() {
	build(false)
}

// Apply switches the theme for the saved accessibility settings. Readable drops bold
// weights and widens panels.
func Apply(dark, readable bool) {
	lipgloss.SetHasDarkBackground(dark)
	build(readable)
}

func build(readable bool) {
	strong := !readable
	Title = lipgloss.NewStyle().Bold(strong).Foreground(cAccent)
	H2 = lipgloss.NewStyle().Bold(strong).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key = lipgloss.NewStyle().Bold(strong).Foreground(cPrimary)
	Good = lipgloss.NewStyle().Bold(strong).Foreground(cGood)
	Warn = lipgloss.NewStyle().Bold(strong).Foreground(cWarn)
	Bad = lipgloss.NewStyle().Bold(strong).Foreground(cBad)
	Gold = lipgloss.NewStyle().Bold(strong).Foreground(cGold)

	pad := 1
	if readable {
		pad = 2
	}
	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, pad)
	SelectedRow = lipgloss.NewStyle().Bold(strong).Foreground(cGold).Background(cPrimary)
	BadgeLevelUp = Gold.Render("LEVEL UP")
}

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// ProgressBar renders value/total as a fixed-width bar.
func ProgressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := int(float64(value) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// LevelLine renders "Level N  XP x/y [bar]" for a state.
func LevelLine(s engine.State, width int) string {
	p := engine.ProgressFor(s)
	if p.MaxLevel {
		return fmt.Sprintf("Level %d  XP %d  %s", p.Level, p.TotalXP, Gold.Render("MAX"))
	}
	return fmt.Sprintf("Level %d  XP %d/%d %s", p.Level, p.TotalXP, p.NextAt, ProgressBar(p.IntoLevel, p.NextAt-p.LevelFloor, width))
}

// XPSummary renders the outcome of an award, or "" when nothing was awarded.
func XPSummary(res *engine.XPResult) string {
	if res == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(Good.Render(fmt.Sprintf("%s +%d XP", IconBolt, res.XPAwarded)))
	b.WriteString(Muted.Render(fmt.Sprintf(" (total %d)", res.TotalXP)))
	if res.LevelUp {
		fmt.Fprintf(&b, "\n%s %s level %d → %d", IconSparkle, BadgeLevelUp, res.LevelBefore, res.LevelAfter)
	}
	for _, a := range res.Unlocked {
		fmt.Fprintf(&b, "\n%s %s %s", IconTrophy, Gold.Render("Achievement unlocked:"), a.Name)
	}
	return b.String()
}

// AchievementLine renders one badge with its lock state.
func AchievementLine(a engine.Achievement) string {
	if !a.Unlocked {
		return Muted.Render(fmt.Sprintf("%s %s - %s", IconLock, a.Name, a.Description))
	}
	return fmt.Sprintf("%s %s %s", engine.AchievementIcon(a.ID), Gold.Render(a.Name), Muted.Render("- "+a.Description))
}
