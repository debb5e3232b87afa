package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"askbob/internal/api"
	"askbob/internal/config"
	"askbob/internal/session"
)

func Run(client *api.Client, sess *session.Store, cfg config.Config) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newAppModel(client, sess, cfg)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
