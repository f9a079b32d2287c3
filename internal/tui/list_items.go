package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/sampathkupparaju/coachingapp/internal/catalog"
	"github.com/sampathkupparaju/coachingapp/internal/model"
)

// topicHeaderItem is one topic's header row: twisty, topic name,
// solved/total tally, and a small progress bar.
type topicHeaderItem struct {
	group     catalog.Group
	collapsed bool
}

func (i topicHeaderItem) FilterValue() string { return i.group.Topic }

func (i topicHeaderItem) Title() string {
	twisty := glyphTwistyExpanded()
	if i.collapsed {
		twisty = glyphTwistyCollapsed()
	}
	name := lipgloss.NewStyle().Bold(true).Render(i.group.Topic)
	tally := styleMuted().Render(fmt.Sprintf("(%d/%d)", i.group.Solved, i.group.Total))
	return fmt.Sprintf("%s %s %s %s", twisty, name, tally, progressBar(i.group.Percent(), 10))
}

func (i topicHeaderItem) Description() string { return "" }

func progressBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	full := percent * width / 100
	if full > width {
		full = width
	}
	bar := strings.Repeat(glyphProgressFull(), full) + strings.Repeat(glyphProgressEmpty(), width-full)
	return styleMuted().Render(bar)
}

// problemRowItem is one problem's row inside an expanded topic.
type problemRowItem struct {
	problem model.Problem
	hasNote bool
	// busy is set while a toggle or note save for this problem is in
	// flight; the row ignores further toggle keys until it clears.
	busy bool
}

func (i problemRowItem) FilterValue() string { return i.problem.Title }

func (i problemRowItem) Title() string {
	solved := lipgloss.NewStyle().Foreground(colorSolved).Render(glyphSolved())
	if !i.problem.Solved {
		solved = styleMuted().Render(glyphUnsolved())
	}
	starred := lipgloss.NewStyle().Foreground(colorStarred).Render(glyphStarred())
	if !i.problem.Starred {
		starred = styleMuted().Render(glyphUnstarred())
	}

	title := i.problem.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}

	label := i.problem.Difficulty.Label()
	badge := difficultyStyle(label).Render(label)

	parts := []string{"  " + solved, starred, title, badge}
	if i.hasNote {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorAccent).Render(glyphNote()))
	}
	if i.busy {
		parts = append(parts, styleMuted().Render("…"))
	}
	return strings.Join(parts, " ")
}

func (i problemRowItem) Description() string { return i.problem.Topic }

func newList(title, help string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	// We render our own header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetStatusBarItemName("problem", "problems")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases (common muscle memory).
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}
