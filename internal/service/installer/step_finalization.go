package installer

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

const catalogFile = "messages.yaml"

// FinalizationStep fills in derived values.
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	Finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

// Finalize clears credentials of disabled channels and points the catalog
// override at the runtime copy.
func Finalize(state *InstallState) {
	if !state.Settings.EnableLINE {
		state.Settings.LINEChannelSecret = ""
		state.Settings.LINEAccessToken = ""
	}
	if !state.Settings.EnableTelegram {
		state.Settings.TelegramToken = ""
	}
	state.Settings.CatalogPath = filepath.Join(state.RuntimePath, catalogFile)
}
