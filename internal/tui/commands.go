package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sampathkupparaju/coachingapp/internal/catalog"
	"github.com/sampathkupparaju/coachingapp/internal/model"
)

const sessionPollInterval = 750 * time.Millisecond

type (
	// sessionTickMsg drives the session-file poll that detects logout or
	// login performed by another process.
	sessionTickMsg struct{}

	verifiedMsg  struct{ err error }
	loginDoneMsg struct{ err error }

	// fetch results carry the user they were fetched for so responses that
	// arrive after a user switch can be discarded.
	problemsFetchedMsg struct {
		userID   string
		problems []model.Problem
		err      error
	}
	notesFetchedMsg struct {
		userID string
		notes  model.Notes
		err    error
	}
	cacheLoadedMsg struct {
		userID   string
		problems []model.Problem
		notes    model.Notes
	}

	toggleDoneMsg struct {
		id    int64
		state model.ToggleState
		err   error
	}
	noteSavedMsg struct {
		id   int64
		text string
		err  error
	}
)

func tickSession() tea.Cmd {
	return tea.Tick(sessionPollInterval, func(time.Time) tea.Msg {
		return sessionTickMsg{}
	})
}

func (m appModel) verifyCmd() tea.Cmd {
	return func() tea.Msg {
		return verifiedMsg{err: m.deps.Auth.Verify(context.Background())}
	}
}

func (m appModel) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: m.deps.Auth.Login(context.Background(), email, password)}
	}
}

func (m appModel) fetchProblemsCmd(userID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		ps, err := m.deps.API.ListProblems(ctx)
		if err == nil && m.deps.Cache != nil {
			if cerr := m.deps.Cache.EnsureOwner(ctx, userID); cerr == nil {
				_ = m.deps.Cache.PutProblems(ctx, ps)
			}
		}
		return problemsFetchedMsg{userID: userID, problems: ps, err: err}
	}
}

func (m appModel) fetchNotesCmd(userID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		notes, err := m.deps.API.ListNotes(ctx, userID)
		if err == nil && m.deps.Cache != nil {
			if cerr := m.deps.Cache.EnsureOwner(ctx, userID); cerr == nil {
				_ = m.deps.Cache.PutNotes(ctx, notes)
			}
		}
		return notesFetchedMsg{userID: userID, notes: notes, err: err}
	}
}

// loadCacheCmd reads the offline copy so a previously seen catalogue shows
// instantly while the network fetch is still running. The cache is skipped
// entirely when it belongs to a different user.
func (m appModel) loadCacheCmd(userID string) tea.Cmd {
	return func() tea.Msg {
		out := cacheLoadedMsg{userID: userID}
		if m.deps.Cache == nil || userID == "" {
			return out
		}
		ctx := context.Background()
		owner, err := m.deps.Cache.UserID(ctx)
		if err != nil || owner != userID {
			return out
		}
		out.problems, _ = m.deps.Cache.Problems(ctx)
		out.notes, _ = m.deps.Cache.Notes(ctx)
		return out
	}
}

func (m appModel) toggleCmd(id int64, star bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			ts  model.ToggleState
			err error
		)
		if star {
			ts, err = m.deps.API.ToggleStarred(ctx, catalog.Key(id))
		} else {
			ts, err = m.deps.API.ToggleSolved(ctx, catalog.Key(id))
		}
		if err == nil && m.deps.Cache != nil {
			_ = m.deps.Cache.ApplyToggle(ctx, id, ts)
		}
		return toggleDoneMsg{id: id, state: ts, err: err}
	}
}

func (m appModel) saveNoteCmd(id int64, text string) tea.Cmd {
	userID := m.deps.Auth.Session().UserID
	return func() tea.Msg {
		ctx := context.Background()
		err := m.deps.API.SaveNote(ctx, userID, catalog.Key(id), text)
		if err == nil && m.deps.Cache != nil {
			if cerr := m.deps.Cache.EnsureOwner(ctx, userID); cerr == nil {
				_ = m.deps.Cache.PutNote(ctx, catalog.Key(id), text)
			}
		}
		return noteSavedMsg{id: id, text: text, err: err}
	}
}
