package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ChannelStep toggles which messaging channels to enable.
type ChannelStep struct {
	choices  []string
	selected map[int]bool
	cursor   int
	err      string
}

const (
	channelLINE = iota
	channelTelegram
)

func NewChannelStep() Step {
	return &ChannelStep{
		choices:  []string{"LINE (webhook)", "Telegram (long polling)"},
		selected: map[int]bool{},
	}
}

func (s *ChannelStep) Init() tea.Cmd {
	return nil
}

func (s *ChannelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
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
		case " ", "x":
			s.selected[s.cursor] = !s.selected[s.cursor]
			s.err = ""
		case "enter":
			if !s.selected[channelLINE] && !s.selected[channelTelegram] {
				s.err = "select at least one channel"
				return s, nil
			}
			state.Settings.EnableLINE = s.selected[channelLINE]
			state.Settings.EnableTelegram = s.selected[channelTelegram]
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChannelStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Select the chat channels to enable:\n\n")
	for i, choice := range s.choices {
		cursor := " "
		if s.cursor == i {
			cursor = "❯"
		}
		check := "[ ]"
		if s.selected[i] {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s %s", cursor, check, choice)
		if s.cursor == i {
			b.WriteString(selStyle.Render(line) + "\n")
		} else {
			b.WriteString(itemStyle.Render(line) + "\n")
		}
	}
	if s.err != "" {
		b.WriteString("\n" + errorStyle.Render(s.err) + "\n")
	}
	b.WriteString("\n(space to toggle, enter to confirm, ctrl+c to quit)\n")
	return b.String()
}
