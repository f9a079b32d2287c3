package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sampathkupparaju/coachingapp/internal/api"
	"github.com/sampathkupparaju/coachingapp/internal/auth"
	"github.com/sampathkupparaju/coachingapp/internal/catalog"
	"github.com/sampathkupparaju/coachingapp/internal/model"
	"github.com/sampathkupparaju/coachingapp/internal/route"
)

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tickSession(), textinput.Blink}
	if m.view == viewProblems {
		cmds = append(cmds, m.spin.Tick, m.verifyCmd())
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.rows.SetSize(msg.Width, max(msg.Height-4, 1))
		m.emailInput.Width = 40
		m.passwordInput.Width = 40
		m.noteArea.SetWidth(modalBodyWidth(msg.Width))
		m.noteArea.SetHeight(max(min(msg.Height-10, 14), 4))
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case spinner.TickMsg:
		if m.loadingAny() || m.loggingIn || m.verifying {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case sessionTickMsg:
		return m.updateSessionTick()

	case verifiedMsg:
		m.verifying = false
		if msg.err != nil {
			m.deps.Log.Debug("session verify failed", zap.Error(msg.err))
			return m.toLogin("Session expired. Log in again."), nil
		}
		return m.startCatalogueLoad()

	case loginDoneMsg:
		m.loggingIn = false
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, api.ErrInvalidCredentials):
				m.loginErr = "Invalid email or password."
			case errors.Is(msg.err, api.ErrInvalidArgument):
				m.loginErr = "Email and password are required."
			default:
				m.loginErr = "Login failed: " + msg.err.Error()
			}
			return m, nil
		}
		m.loginErr = ""
		m.passwordInput.SetValue("")
		// Replay the destination the guard captured before redirecting.
		dest := m.requestedDest
		m.requestedDest = ""
		if dest == "" {
			dest = route.PathProblems
		}
		if d := route.Decide(dest, true); !d.Allow {
			dest = route.PathProblems
		}
		_ = dest // single authenticated view for now
		return m.startCatalogueLoad()

	case cacheLoadedMsg:
		// Cached data only fills the gap while the live fetch is pending.
		if m.view != viewProblems || msg.userID != m.deps.Auth.Session().UserID {
			return m, nil
		}
		if m.loadingProblems && m.cat.Len() == 0 && len(msg.problems) > 0 {
			m.cat.SetProblems(msg.problems)
			m.cat.SetNotes(msg.notes)
			m.refreshRows()
		}
		return m, nil

	case problemsFetchedMsg:
		if msg.userID != m.deps.Auth.Session().UserID {
			return m, nil
		}
		m.loadingProblems = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthenticated) {
				return m.toLogin("Session expired. Log in again."), nil
			}
			m.loadErr = "Could not load problems: " + msg.err.Error()
			return m, nil
		}
		m.loadErr = ""
		m.cat.SetProblems(msg.problems)
		m.refreshRows()
		return m, nil

	case notesFetchedMsg:
		if msg.userID != m.deps.Auth.Session().UserID {
			return m, nil
		}
		m.loadingNotes = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthenticated) {
				return m.toLogin("Session expired. Log in again."), nil
			}
			m.statusMsg = "Could not load notes: " + msg.err.Error()
			return m, nil
		}
		m.cat.SetNotes(msg.notes)
		m.refreshRows()
		return m, nil

	case toggleDoneMsg:
		delete(m.busy, msg.id)
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthenticated) {
				return m.toLogin("Session expired. Log in again."), nil
			}
			m.statusMsg = "Update failed: " + msg.err.Error()
			m.refreshRows()
			return m, nil
		}
		m.cat.ApplyToggle(msg.id, msg.state)
		m.refreshRows()
		return m, nil

	case noteSavedMsg:
		m.cat.SetSaving(msg.id, false)
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthenticated) {
				// The typed buffer does not survive a forced logout.
				return m.toLogin("Session expired. Log in again."), nil
			}
			m.noteErr = "Save failed: " + msg.err.Error()
			m.noteUnsaved = true
			return m, nil
		}
		m.noteErr = ""
		m.noteUnsaved = false
		m.cat.SetNote(msg.id, msg.text)
		m.refreshRows()
		return m, nil
	}

	return m.updateFocused(msg)
}

// updateSessionTick polls the session file and reconciles with whatever
// another process (cli login/logout, a second TUI) did to it.
func (m appModel) updateSessionTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickSession()}

	mt := m.deps.Sessions.ModTime()
	// Deleted files report the zero time, so compare by inequality rather
	// than ordering.
	if !mt.Equal(m.lastSessionMod) {
		m.lastSessionMod = mt
		switch m.deps.Auth.SyncFromDisk() {
		case auth.StateUnauthenticated:
			if m.view != viewLogin {
				next := m.toLogin("Signed out.")
				return next, tea.Batch(cmds...)
			}
		case auth.StateVerifying:
			m.verifying = true
			cmds = append(cmds, m.spin.Tick, m.verifyCmd())
		}
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.noteOpen {
		return m.updateNoteKey(msg)
	}
	if m.view == viewLogin {
		return m.updateLoginKey(msg)
	}
	return m.updateProblemsKey(msg)
}

func (m appModel) updateLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.emailInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.passwordInput.Focus()
			m.emailInput.Blur()
		}
		return m, textinput.Blink

	case "enter":
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.passwordInput.Focus()
			m.emailInput.Blur()
			return m, textinput.Blink
		}
		if m.loggingIn {
			return m, nil
		}
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passwordInput.Value()
		if email == "" || password == "" {
			m.loginErr = "Email and password are required."
			return m, nil
		}
		m.loggingIn = true
		m.loginErr = ""
		return m, tea.Batch(m.spin.Tick, m.loginCmd(email, password))
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateProblemsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list's fuzzy filter is typing, it owns the keyboard.
	if m.rows.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.rows, cmd = m.rows.Update(msg)
		return m, cmd
	}

	// A shown link is per-selection; any further key invalidates it.
	m.linkMsg = ""

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "r":
		if !m.loadingAny() {
			next, cmd := m.startCatalogueLoad()
			return next, cmd
		}
		return m, nil

	case "f":
		m.cycleTopicFilter()
		m.refreshRows()
		return m, nil

	case "L":
		m.deps.Auth.Logout()
		m.lastSessionMod = m.deps.Sessions.ModTime()
		return m.toLogin("Signed out."), nil

	case "enter", "tab":
		switch it := m.rows.SelectedItem().(type) {
		case topicHeaderItem:
			m.cat.ToggleCollapsed(it.group.Topic)
			m.refreshRows()
			return m, nil
		case problemRowItem:
			if msg.String() == "enter" {
				return m.openNote(it.problem), nil
			}
		}
		return m, nil

	case "n":
		if it, ok := m.rows.SelectedItem().(problemRowItem); ok {
			return m.openNote(it.problem), nil
		}
		return m, nil

	case "o", "v":
		if it, ok := m.rows.SelectedItem().(problemRowItem); ok {
			url := it.problem.LeetcodeURL
			if msg.String() == "v" {
				url = it.problem.NeetCodeURL
			}
			if url == "" {
				m.statusMsg = "No link for this problem."
			} else {
				// Links are surfaced, never opened; the terminal's own
				// hyperlink handling takes it from here.
				m.linkMsg = url
			}
		}
		return m, nil

	case "s", "*":
		it, ok := m.rows.SelectedItem().(problemRowItem)
		if !ok || m.busy[it.problem.ID] {
			return m, nil
		}
		m.busy[it.problem.ID] = true
		m.statusMsg = ""
		m.refreshRows()
		return m, m.toggleCmd(it.problem.ID, msg.String() == "*")
	}

	var cmd tea.Cmd
	m.rows, cmd = m.rows.Update(msg)
	return m, cmd
}

func (m appModel) updateNoteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	saving := m.cat.Saving(m.noteFor.ID)
	switch msg.String() {
	case "esc":
		if saving {
			return m, nil
		}
		// Closing discards whatever was typed; the saved note is the
		// only durable copy.
		m.noteOpen = false
		m.notePreview = false
		m.noteErr = ""
		m.noteUnsaved = false
		return m, nil

	case "ctrl+s":
		if saving {
			return m, nil
		}
		m.cat.SetSaving(m.noteFor.ID, true)
		m.noteErr = ""
		return m, tea.Batch(m.spin.Tick, m.saveNoteCmd(m.noteFor.ID, m.noteArea.Value()))

	case "ctrl+p":
		m.notePreview = !m.notePreview
		if m.notePreview {
			m.noteArea.Blur()
		} else {
			m.noteArea.Focus()
		}
		return m, nil
	}

	if saving || m.notePreview {
		return m, nil
	}
	var cmd tea.Cmd
	m.noteArea, cmd = m.noteArea.Update(msg)
	m.noteUnsaved = m.noteArea.Value() != m.cat.Note(m.noteFor.ID)
	return m, cmd
}

// updateFocused routes non-key messages (cursor blinks and the like) to
// whichever component currently has focus.
func (m appModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.noteOpen:
		m.noteArea, cmd = m.noteArea.Update(msg)
	case m.view == viewLogin:
		if m.loginFocus == 0 {
			m.emailInput, cmd = m.emailInput.Update(msg)
		} else {
			m.passwordInput, cmd = m.passwordInput.Update(msg)
		}
	default:
		m.rows, cmd = m.rows.Update(msg)
	}
	return m, cmd
}

func (m appModel) startCatalogueLoad() (tea.Model, tea.Cmd) {
	m.view = viewProblems
	m.loadingProblems = true
	m.loadingNotes = true
	m.loadErr = ""
	m.statusMsg = ""
	m.linkMsg = ""
	userID := m.deps.Auth.Session().UserID
	return m, tea.Batch(
		m.spin.Tick,
		m.loadCacheCmd(userID),
		m.fetchProblemsCmd(userID),
		m.fetchNotesCmd(userID),
	)
}

func (m appModel) toLogin(notice string) appModel {
	m.view = viewLogin
	m.noteOpen = false
	m.notePreview = false
	m.noteErr = ""
	m.noteUnsaved = false
	m.loadingProblems = false
	m.loadingNotes = false
	m.loggingIn = false
	m.verifying = false
	m.loginErr = notice
	m.loginFocus = 0
	m.passwordInput.SetValue("")
	m.passwordInput.Blur()
	m.emailInput.Focus()
	m.cat = catalog.New()
	m.busy = map[int64]bool{}
	m.rows.SetItems(nil)
	return m
}

func (m appModel) openNote(p model.Problem) appModel {
	m.noteOpen = true
	m.noteFor = p
	m.notePreview = false
	m.noteErr = ""
	m.noteUnsaved = false
	m.noteArea.SetValue(m.cat.Note(p.ID))
	m.noteArea.CursorEnd()
	m.noteArea.Focus()
	return m
}

func (m appModel) loadingAny() bool {
	return m.loadingProblems || m.loadingNotes
}

// cycleTopicFilter steps all -> topic1 -> topic2 -> ... -> all.
func (m *appModel) cycleTopicFilter() {
	topics := m.cat.Topics()
	if len(topics) == 0 {
		m.cat.SetFilter("")
		return
	}
	cur := m.cat.Filter()
	if cur == "" {
		m.cat.SetFilter(topics[0])
		return
	}
	for i, t := range topics {
		if t == cur {
			if i+1 < len(topics) {
				m.cat.SetFilter(topics[i+1])
			} else {
				m.cat.SetFilter("")
			}
			return
		}
	}
	m.cat.SetFilter("")
}
