package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.width == 0 {
		return ""
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 1 {
		bodyH = 1
	}

	var body string
	switch {
	case m.noteOpen:
		body = placeCentered(m.width, bodyH, m.renderNoteModal())
	case m.view == viewLogin:
		body = placeCentered(m.width, bodyH, m.renderLoginForm())
	default:
		body = m.renderProblems(bodyH)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m appModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("CoachingApp")

	who := "—"
	if s := m.deps.Auth.Session(); s.Email != "" {
		who = s.Email
	} else if s.UserID != "" {
		who = s.UserID
	}

	state := styleMuted().Render(m.deps.Auth.State().String())
	line := fmt.Sprintf("%s  %s  %s", title, styleMuted().Render(who), state)

	return lipgloss.NewStyle().Padding(0, 1).Render(line) + "\n"
}

func (m appModel) renderFooter() string {
	var help string
	switch {
	case m.noteOpen:
		help = "ctrl+s save · ctrl+p preview · esc close"
	case m.view == viewLogin:
		help = "tab switch field · enter submit · ctrl+c quit"
	default:
		help = "s solve · * star · enter notes/fold · o link · f topic · / filter · r reload · L logout · q quit"
	}
	return styleMuted().Render(" " + help)
}

func (m appModel) renderLoginForm() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Log in"))
	b.WriteString("\n\n")
	b.WriteString(m.emailInput.View())
	b.WriteString("\n")
	b.WriteString(m.passwordInput.View())
	b.WriteString("\n\n")

	switch {
	case m.loggingIn:
		b.WriteString(m.spin.View() + styleMuted().Render(" signing in…"))
	case m.loginErr != "":
		b.WriteString(styleError().Render(m.loginErr))
	default:
		b.WriteString(styleMuted().Render("enter to submit"))
	}

	return renderModalBox(m.width, "CoachingApp", b.String())
}

func (m appModel) renderProblems(bodyH int) string {
	if m.verifying {
		return placeCentered(m.width, bodyH,
			m.spin.View()+styleMuted().Render(" verifying session…"))
	}
	if m.loadingAny() && m.cat.Len() == 0 {
		return placeCentered(m.width, bodyH,
			m.spin.View()+styleMuted().Render(" loading problems…"))
	}

	var banners []string
	if m.loadErr != "" {
		banners = append(banners, styleError().Render(" "+m.loadErr))
	}
	if m.statusMsg != "" {
		banners = append(banners, styleError().Render(" "+m.statusMsg))
	}
	if m.linkMsg != "" {
		banners = append(banners, styleMuted().Render(" "+m.linkMsg))
	}
	if f := m.cat.Filter(); f != "" {
		banners = append(banners, styleMuted().Render(" topic: "+f))
	}

	listH := bodyH - len(banners)
	if listH < 1 {
		listH = 1
	}
	rows := m.rows
	rows.SetSize(m.width, listH)

	parts := append([]string{}, banners...)
	parts = append(parts, rows.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m appModel) renderNoteModal() string {
	title := "Notes — " + m.noteFor.Title

	var b strings.Builder
	if m.notePreview {
		b.WriteString(renderMarkdown(m.noteArea.Value(), modalBodyWidth(m.width)))
	} else {
		b.WriteString(m.noteArea.View())
	}
	b.WriteString("\n")

	switch {
	case m.cat.Saving(m.noteFor.ID):
		b.WriteString(m.spin.View() + styleMuted().Render(" saving…"))
	case m.noteErr != "":
		b.WriteString(styleError().Render(m.noteErr))
	case m.noteUnsaved:
		b.WriteString(styleMuted().Render("unsaved changes"))
	default:
		b.WriteString(styleMuted().Render("saved"))
	}

	return renderModalBox(m.width, title, b.String())
}

// renderMarkdown renders note text for the preview pane. On any renderer
// error the raw text is shown instead.
func renderMarkdown(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return styleMuted().Render("(empty note)")
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
