package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sampathkupparaju/coachingapp/internal/api"
	"github.com/sampathkupparaju/coachingapp/internal/auth"
	"github.com/sampathkupparaju/coachingapp/internal/cache"
	"github.com/sampathkupparaju/coachingapp/internal/session"
)

// Deps is everything the TUI needs from the assembled application.
type Deps struct {
	Auth     *auth.Controller
	API      *api.Client
	Cache    *cache.Cache
	Sessions *session.Store
	Log      *zap.Logger
}

func Run(deps Deps) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference()

	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	m := newAppModel(deps)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
