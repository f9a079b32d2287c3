package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderModalBox draws a bordered, centered modal with a title bar.
// Width adapts to the terminal; body content is wrapped by lipgloss.
func renderModalBox(width int, title, content string) string {
	boxW := modalBodyWidth(width) + 4

	titleBar := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Padding(0, 1).
		Width(boxW - 2).
		Render(title)

	body := lipgloss.NewStyle().
		Padding(0, 1).
		Width(boxW - 2).
		Render(content)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Render(strings.Join([]string{titleBar, body}, "\n"))
}

func modalBodyWidth(width int) int {
	w := width - 12
	if w > 76 {
		w = 76
	}
	if w < 32 {
		w = 32
	}
	return w
}

// placeCentered positions a modal in the middle of the screen.
func placeCentered(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
