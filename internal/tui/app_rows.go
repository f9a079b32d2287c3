package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/sampathkupparaju/coachingapp/internal/catalog"
)

// itemKey is a stable identity for a rendered row, used to keep the cursor
// on the same logical row across rebuilds.
func itemKey(it list.Item) string {
	switch it := it.(type) {
	case topicHeaderItem:
		return "t:" + it.group.Topic
	case problemRowItem:
		return "p:" + catalog.Key(it.problem.ID)
	}
	return ""
}

// refreshRows rebuilds the flat list (topic headers with their problem rows,
// collapsed topics contributing only the header) and restores the selection.
func (m *appModel) refreshRows() {
	selected := ""
	if it := m.rows.SelectedItem(); it != nil {
		selected = itemKey(it)
	}

	var items []list.Item
	for _, g := range m.cat.Groups() {
		collapsed := m.cat.Collapsed(g.Topic)
		items = append(items, topicHeaderItem{group: g, collapsed: collapsed})
		if collapsed {
			continue
		}
		for _, p := range g.Problems {
			items = append(items, problemRowItem{
				problem: p,
				hasNote: m.cat.Note(p.ID) != "",
				busy:    m.busy[p.ID] || m.cat.Saving(p.ID),
			})
		}
	}
	m.rows.SetItems(items)

	if selected == "" {
		return
	}
	for i, it := range items {
		if itemKey(it) == selected {
			m.rows.Select(i)
			return
		}
	}
}
