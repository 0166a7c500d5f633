package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lumen/internal/app"
	"lumen/internal/auth"
	"lumen/internal/engine"
	"lumen/internal/organizer"
	"lumen/internal/reminders"
	"lumen/internal/ui"
)

type pane int

const (
	paneReminders pane = iota
	paneSchedule
)

type boardModel struct {
	ctx context.Context
	app *app.App

	width  int
	height int

	profile   *auth.Profile
	state     engine.State
	reminders []reminders.Reminder
	schedule  []organizer.Item

	focus    pane
	selected int

	lastLog string
	loading bool
}

type loadedMsg struct {
	profile   *auth.Profile
	state     engine.State
	reminders []reminders.Reminder
	schedule  []organizer.Item
}

type tickMsg time.Time

type firedMsg []reminders.Reminder

type deletedMsg struct {
	what string
	ok   bool
	err  error
}

func newBoardModel(ctx context.Context, a *app.App) boardModel {
	return boardModel{
		ctx:     ctx,
		app:     a,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.checkCmd())
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{
			profile:   m.app.Auth.Current(),
			state:     m.app.Engine.State(),
			reminders: m.app.Reminders.List(),
			schedule:  m.app.Organizer.List(),
		}
	}
}

func (m boardModel) checkCmd() tea.Cmd {
	return func() tea.Msg {
		return firedMsg(m.app.Reminders.CheckDue(m.ctx))
	}
}

func (m boardModel) tickCmd() tea.Cmd {
	interval := m.app.Config.ReminderInterval
	if interval <= 0 {
		interval = reminders.DefaultInterval
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m boardModel) deleteCmd() tea.Cmd {
	switch m.focus {
	case paneReminders:
		if m.selected >= len(m.reminders) {
			return nil
		}
		r := m.reminders[m.selected]
		return func() tea.Msg {
			ok, err := m.app.Reminders.DeleteReminder(m.ctx, r.ID)
			return deletedMsg{what: r.Topic, ok: ok, err: err}
		}
	default:
		if m.selected >= len(m.schedule) {
			return nil
		}
		it := m.schedule[m.selected]
		return func() tea.Msg {
			ok, err := m.app.Organizer.Delete(m.ctx, it.ID)
			return deletedMsg{what: it.Task, ok: ok, err: err}
		}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.profile = msg.profile
		m.state = msg.state
		m.reminders = msg.reminders
		m.schedule = msg.schedule
		m.clampSelection()
		return m, nil
	case tickMsg:
		return m, m.checkCmd()
	case firedMsg:
		if len(msg) > 0 {
			lines := []string{ui.IconBell + " " + reminders.NotificationTitle}
			for _, r := range msg {
				line := "  " + r.Topic
				if r.Note != "" {
					line += ": " + r.Note
				}
				lines = append(lines, line)
			}
			m.lastLog = strings.Join(lines, "\n")
			return m, tea.Batch(m.loadCmd(), m.tickCmd())
		}
		return m, m.tickCmd()
	case deletedMsg:
		switch {
		case msg.err != nil:
			m.lastLog = "Delete failed: " + msg.err.Error()
		case !msg.ok:
			m.lastLog = "Already gone."
		default:
			m.lastLog = fmt.Sprintf("Deleted %q.", msg.what)
		}
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
			return m, m.loadCmd()
		case "tab":
			if m.focus == paneReminders {
				m.focus = paneSchedule
			} else {
				m.focus = paneReminders
			}
			m.selected = 0
			return m, nil
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < m.focusLen()-1 {
				m.selected++
			}
			return m, nil
		case "d", "x":
			return m, m.deleteCmd()
		}
	}
	return m, nil
}

func (m boardModel) focusLen() int {
	if m.focus == paneReminders {
		return len(m.reminders)
	}
	return len(m.schedule)
}

func (m *boardModel) clampSelection() {
	if n := m.focusLen(); m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m boardModel) View() string {
	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 44
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := len(linesLeft)
	if len(linesRight) > rows {
		rows = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.loading {
		return "Lumen AI - loading…"
	}
	who := "guest"
	if m.profile != nil {
		who = fmt.Sprintf("%s (%s)", m.profile.Name, m.profile.Level)
	}
	return fmt.Sprintf("Lumen AI | %s | %s", who, ui.LevelLine(m.state, 30))
}

func (m boardModel) renderSidebar() string {
	lines := []string{fmt.Sprintf("Achievements %d/%d", engine.CountUnlocked(m.state), len(m.state.Achievements))}
	for _, a := range engine.SortedAchievements(m.state) {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		lines = append(lines, fmt.Sprintf("%s %s", mark, a.Name))
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- tab: switch list")
	lines = append(lines, "- d: delete selected")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string

	out = append(out, m.title("Reminders", paneReminders))
	if len(m.reminders) == 0 {
		out = append(out, "(none)")
	}
	for i, r := range m.reminders {
		out = append(out, fmt.Sprintf("%s%s  %s", m.cursor(paneReminders, i), r.DueDate, r.Topic))
	}
	if m.app.Reminders.Permission() != reminders.PermissionGranted {
		out = append(out, "(notifications are off: lumen reminders permission)")
	}

	out = append(out, "")
	out = append(out, m.title("Study schedule", paneSchedule))
	if len(m.schedule) == 0 {
		out = append(out, "(empty)")
	}
	for i, it := range m.schedule {
		out = append(out, fmt.Sprintf("%s%s  %s: %s", m.cursor(paneSchedule, i), it.Date, it.Subject, it.Task))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) title(name string, p pane) string {
	if m.focus == p {
		return "» " + name
	}
	return "  " + name
}

func (m boardModel) cursor(p pane, i int) string {
	if m.focus == p && m.selected == i {
		return "> "
	}
	return "  "
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
