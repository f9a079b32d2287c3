package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sampathkupparaju/coachingapp/internal/api"
	"github.com/sampathkupparaju/coachingapp/internal/auth"
	"github.com/sampathkupparaju/coachingapp/internal/model"
	"github.com/sampathkupparaju/coachingapp/internal/session"
)

type stubGateway struct {
	loginRes  api.LoginResult
	loginErr  error
	verifyRes api.VerifyResult
	verifyErr error
}

func (g *stubGateway) Login(context.Context, string, string) (api.LoginResult, error) {
	return g.loginRes, g.loginErr
}

func (g *stubGateway) Verify(context.Context) (api.VerifyResult, error) {
	return g.verifyRes, g.verifyErr
}

// newTestModel builds an appModel over a throwaway session dir. When sess is
// valid it is persisted first so the model starts out on the problems view.
func newTestModel(t *testing.T, sess session.Session, gw *stubGateway) appModel {
	t.Helper()
	st := &session.Store{Dir: t.TempDir()}
	if sess.Valid() {
		if err := st.Save(sess); err != nil {
			t.Fatalf("save session: %v", err)
		}
	}
	if gw == nil {
		gw = &stubGateway{}
	}
	ctrl := auth.New(st, gw, nil)
	m := newAppModel(Deps{
		Auth:     ctrl,
		API:      api.New("http://127.0.0.1:0", ctrl.Token),
		Sessions: st,
	})
	m.width, m.height = 100, 30
	m.rows.SetSize(100, 26)
	return m
}

// testProblems is a small catalogue spanning two topics.
func testProblems() []model.Problem {
	return []model.Problem{
		{ID: 1, Title: "Two Sum", Topic: "Arrays & Hashing", Difficulty: "EASY"},
		{ID: 2, Title: "Valid Anagram", Topic: "Arrays & Hashing", Difficulty: "EASY", Solved: true},
		{ID: 3, Title: "Min Stack", Topic: "Stack", Difficulty: "MEDIUM", Starred: true},
	}
}

func loadProblems(m *appModel, ps []model.Problem) {
	m.cat.SetProblems(ps)
	m.loadingProblems = false
	m.loadingNotes = false
	m.refreshRows()
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyEnter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func pressKey(t *testing.T, m appModel, key string) appModel {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+p":
		msg = tea.KeyMsg{Type: tea.KeyCtrlP}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	out, ok := next.(appModel)
	if !ok {
		t.Fatalf("Update returned %T, want appModel", next)
	}
	return out
}
