package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputStep collects one value. It is skipped when enabled reports false.
type InputStep struct {
	input   textinput.Model
	title   string
	enabled func(*InstallState) bool
	assign  func(*InstallState, string)
	err     string
}

func newInputStep(
	title, placeholder string,
	secret bool,
	enabled func(*InstallState) bool,
	assign func(*InstallState, string),
) *InputStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = placeholder
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	return &InputStep{
		input:   ti,
		title:   title,
		enabled: enabled,
		assign:  assign,
	}
}

func NewLINESecretStep() Step {
	return newInputStep("Enter your LINE Channel Secret", "0123456789abcdef...", true,
		func(st *InstallState) bool { return st.Settings.EnableLINE },
		func(st *InstallState, v string) { st.Settings.LINEChannelSecret = v },
	)
}

func NewLINETokenStep() Step {
	return newInputStep("Enter your LINE Channel Access Token", "long-lived token", true,
		func(st *InstallState) bool { return st.Settings.EnableLINE },
		func(st *InstallState, v string) { st.Settings.LINEAccessToken = v },
	)
}

func NewTelegramTokenStep() Step {
	return newInputStep("Enter your Telegram Bot Token", "123456789:ABCDEF...", true,
		func(st *InstallState) bool { return st.Settings.EnableTelegram },
		func(st *InstallState, v string) { st.Settings.TelegramToken = v },
	)
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.enabled(state) {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			s.err = "value is required"
			return s, cmd
		}
		s.assign(state, val)
		return nil, nil
	}
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	view := s.title + ":\n\n" + s.input.View() + "\n\n"
	if s.err != "" {
		view += errorStyle.Render(s.err) + "\n\n"
	}
	return view + "(press enter to confirm)\n"
}
