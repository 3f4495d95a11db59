package installer

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/gomibot/internal/config"
)

type choice struct {
	label string
	apply func(*InstallState)
}

// SelectStep picks exactly one of its choices.
type SelectStep struct {
	title   string
	choices []choice
	cursor  int
}

func NewReminderStep() Step {
	interval := func(d time.Duration) func(*InstallState) {
		return func(st *InstallState) {
			st.Settings.ReminderEnabled = ""
			st.Settings.ReminderInterval = d
		}
	}

	return &SelectStep{
		title: "How often should reminders be checked?",
		choices: []choice{
			{label: "Every 5 minutes (default)", apply: interval(0)},
			{label: "Every minute", apply: interval(time.Minute)},
			{label: "Every 10 minutes", apply: interval(10 * time.Minute)},
			{label: "Every 30 minutes", apply: interval(30 * time.Minute)},
			{label: "Disable reminders", apply: func(st *InstallState) {
				st.Settings.ReminderEnabled = "false"
				st.Settings.ReminderInterval = 0
			}},
		},
	}
}

func NewSessionStep() Step {
	backend := func(name string) func(*InstallState) {
		return func(st *InstallState) { st.Settings.SessionBackend = name }
	}

	return &SelectStep{
		title: "Where should in-progress edits be kept?",
		choices: []choice{
			{label: "Memory (lost on restart)", apply: backend(config.SessionBackendMemory)},
			{label: "SQLite (survives restarts)", apply: backend(config.SessionBackendSQLite)},
		},
	}
}

func (s *SelectStep) Init() tea.Cmd {
	return nil
}

func (s *SelectStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			s.choices[s.cursor].apply(state)
			return nil, nil
		}
	}
	return s, nil
}

func (s *SelectStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, c := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", c.label)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", c.label)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
