package tui

import (
	"testing"

	"github.com/sampathkupparaju/coachingapp/internal/session"
)

func TestRefreshRows_GroupsByTopicWithHeaders(t *testing.T) {
	m := newTestModel(t, session.Session{Token: "tok", UserID: "u1"}, nil)
	loadProblems(&m, testProblems())

	items := m.rows.Items()
	// Two topics, three problems: 2 headers + 3 rows.
	if len(items) != 5 {
		t.Fatalf("expected 5 rows; got %d", len(items))
	}
	h, ok := items[0].(topicHeaderItem)
	if !ok {
		t.Fatalf("expected first row to be a topic header; got %T", items[0])
	}
	if h.group.Topic != "Arrays & Hashing" || h.group.Solved != 1 || h.group.Total != 2 {
		t.Fatalf("unexpected first header: %+v", h.group)
	}
}

func TestEnterOnHeader_CollapsesTopic(t *testing.T) {
	m := newTestModel(t, session.Session{Token: "tok", UserID: "u1"}, nil)
	loadProblems(&m, testProblems())
	m.rows.Select(0)

	m = pressKey(t, m, "enter")

	if !m.cat.Collapsed("Arrays & Hashing") {
		t.Fatal("expected the selected topic to collapse")
	}
	// Collapsed topic keeps its header but hides its two problems.
	if got := len(m.rows.Items()); got != 3 {
		t.Fatalf("expected 3 rows after collapse; got %d", got)
	}

	m = pressKey(t, m, "enter")
	if m.cat.Collapsed("Arrays & Hashing") {
		t.Fatal("expected a second enter to expand the topic again")
	}
}

func TestTopicFilter_CyclesThroughTopicsAndBack(t *testing.T) {
	m := newTestModel(t, session.Session{Token: "tok", UserID: "u1"}, nil)
	loadProblems(&m, testProblems())

	m = pressKey(t, m, "f")
	if got := m.cat.Filter(); got != "Arrays & Hashing" {
		t.Fatalf("expected first topic filter; got %q", got)
	}
	if got := len(m.rows.Items()); got != 3 {
		t.Fatalf("expected 1 header + 2 rows under filter; got %d", got)
	}

	m = pressKey(t, m, "f")
	if got := m.cat.Filter(); got != "Stack" {
		t.Fatalf("expected second topic filter; got %q", got)
	}

	m = pressKey(t, m, "f")
	if got := m.cat.Filter(); got != "" {
		t.Fatalf("expected filter to cycle back to all topics; got %q", got)
	}
	if got := len(m.rows.Items()); got != 5 {
		t.Fatalf("expected full listing again; got %d rows", got)
	}
}

func TestRefreshRows_KeepsSelectionOnSameProblem(t *testing.T) {
	m := newTestModel(t, session.Session{Token: "tok", UserID: "u1"}, nil)
	loadProblems(&m, testProblems())

	// Select "Min Stack" (last row) then rebuild.
	m.rows.Select(len(m.rows.Items()) - 1)
	m.refreshRows()

	it, ok := m.rows.SelectedItem().(problemRowItem)
	if !ok {
		t.Fatalf("expected a problem row selected; got %T", m.rows.SelectedItem())
	}
	if it.problem.ID != 3 {
		t.Fatalf("expected selection to stay on problem 3; got %d", it.problem.ID)
	}
}
