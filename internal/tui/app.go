package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"github.com/sampathkupparaju/coachingapp/internal/catalog"
	"github.com/sampathkupparaju/coachingapp/internal/model"
	"github.com/sampathkupparaju/coachingapp/internal/route"
)

type view int

const (
	viewLogin view = iota
	viewProblems
)

type appModel struct {
	deps Deps

	width, height int

	view view
	// destination captured by the guard before the login redirect;
	// replayed once login succeeds.
	requestedDest string

	// login form
	emailInput    textinput.Model
	passwordInput textinput.Model
	loginFocus    int
	loginErr      string
	loggingIn     bool
	verifying     bool

	// problem catalogue
	cat             *catalog.Catalogue
	rows            list.Model
	spin            spinner.Model
	loadingProblems bool
	loadingNotes    bool
	loadErr         string
	statusMsg       string
	linkMsg         string
	busy            map[int64]bool

	// notes modal
	noteOpen    bool
	noteFor     model.Problem
	noteArea    textarea.Model
	notePreview bool
	noteErr     string
	noteUnsaved bool

	lastSessionMod time.Time
}

func newAppModel(deps Deps) appModel {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	ta := textarea.New()
	ta.Placeholder = "Write your notes in markdown…"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleMuted()

	rows := newList("Problems", "", nil)
	rows.SetDelegate(newCompactRowDelegate())

	m := appModel{
		deps:           deps,
		emailInput:     email,
		passwordInput:  password,
		noteArea:       ta,
		spin:           sp,
		cat:            catalog.New(),
		rows:           rows,
		busy:           map[int64]bool{},
		lastSessionMod: deps.Sessions.ModTime(),
	}

	d := route.Decide(route.PathProblems, deps.Auth.Session().Valid())
	if d.Allow {
		m.view = viewProblems
		m.verifying = true
	} else {
		m.view = viewLogin
		m.requestedDest = d.CapturedFrom
	}
	return m
}
