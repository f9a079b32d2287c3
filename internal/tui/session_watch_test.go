package tui

import (
	"testing"

	"github.com/sampathkupparaju/coachingapp/internal/auth"
	"github.com/sampathkupparaju/coachingapp/internal/session"
)

func TestSessionPoll_LogoutElsewhereForcesLoginView(t *testing.T) {
	m := newTestModel(t, session.Session{Token: "tok", UserID: "u1"}, nil)
	loadProblems(&m, testProblems())

	// Another process clears the session file.
	if err := m.deps.Sessions.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	next, _ := m.Update(sessionTickMsg{})
	m = next.(appModel)

	if m.view != viewLogin {
		t.Fatalf("expected login view after external logout; got %v", m.view)
	}
	if m.deps.Auth.State() != auth.StateUnauthenticated {
		t.Fatalf("expected unauthenticated state; got %v", m.deps.Auth.State())
	}
	if m.cat.Len() != 0 {
		t.Fatal("expected catalogue discarded with the session")
	}
}

func TestSessionPoll_LoginElsewhereTriggersVerify(t *testing.T) {
	m := newTestModel(t, session.Session{}, nil)
	if m.view != viewLogin {
		t.Fatalf("expected login view; got %v", m.view)
	}

	// Another process (cli login) writes a fresh session.
	if err := m.deps.Sessions.Save(session.Session{Token: "tok2", UserID: "u2"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	next, cmd := m.Update(sessionTickMsg{})
	m = next.(appModel)

	if m.deps.Auth.State() != auth.StateVerifying {
		t.Fatalf("expected adopted session to verify; got %v", m.deps.Auth.State())
	}
	if cmd == nil {
		t.Fatal("expected a verify command to be issued")
	}
}

func TestSessionPoll_UnchangedFileDoesNothing(t *testing.T) {
	m := newTestModel(t, session.Session{Token: "tok", UserID: "u1"}, nil)
	loadProblems(&m, testProblems())
	before := m.deps.Auth.State()

	next, _ := m.Update(sessionTickMsg{})
	m = next.(appModel)

	if m.view != viewProblems {
		t.Fatalf("expected problems view untouched; got %v", m.view)
	}
	if m.deps.Auth.State() != before {
		t.Fatalf("expected auth state untouched; got %v", m.deps.Auth.State())
	}
}

func TestSessionPoll_DeletedFileComparesByInequality(t *testing.T) {
	st := &session.Store{Dir: t.TempDir()}
	if err := st.Save(session.Session{Token: "tok", UserID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	mt := st.ModTime()
	if mt.IsZero() {
		t.Fatal("expected a real mod time for an existing file")
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	// A removed file reports the zero time, which sorts before the old
	// mod time; ordering comparisons would miss it.
	if got := st.ModTime(); !got.IsZero() || got.Equal(mt) {
		t.Fatalf("expected zero mod time after clear; got %v", got)
	}
}
