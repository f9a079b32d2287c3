// Package catalog is the read-side projection of the problem set: grouping
// by topic, topic filtering, per-topic collapse state, and the per-problem
// bookkeeping (notes, save-in-flight flags) the views render from.
package catalog

import (
	"sort"
	"strconv"

	"github.com/sampathkupparaju/coachingapp/internal/model"
)

// Group is one topic's slice of the catalogue plus its solved/total tally.
type Group struct {
	Topic    string
	Problems []model.Problem
	Solved   int
	Total    int
}

// Percent returns the solved ratio as a 0-100 integer for progress display.
func (g Group) Percent() int {
	if g.Total == 0 {
		return 0
	}
	return int(float64(g.Solved)/float64(g.Total)*100 + 0.5)
}

// Catalogue holds the fetched problems and notes. Grouping and filtering
// are recomputed on read and never mutate the underlying problem set.
type Catalogue struct {
	problems []model.Problem
	notes    model.Notes

	filter    string
	collapsed map[string]bool
	saving    map[string]bool
}

func New() *Catalogue {
	return &Catalogue{
		notes:     model.Notes{},
		collapsed: map[string]bool{},
		saving:    map[string]bool{},
	}
}

// SetProblems replaces the problem set, preserving server order. Collapse
// state for topics that no longer exist is dropped so no stale group can
// outlive its problems.
func (c *Catalogue) SetProblems(ps []model.Problem) {
	c.problems = append([]model.Problem(nil), ps...)
	live := map[string]bool{}
	for _, p := range c.problems {
		live[p.Topic] = true
	}
	for topic := range c.collapsed {
		if !live[topic] {
			delete(c.collapsed, topic)
		}
	}
}

func (c *Catalogue) SetNotes(n model.Notes) {
	if n == nil {
		n = model.Notes{}
	}
	c.notes = n
}

func (c *Catalogue) Problems() []model.Problem {
	return append([]model.Problem(nil), c.problems...)
}

func (c *Catalogue) Len() int { return len(c.problems) }

// Topics returns the distinct topic values, sorted, ignoring the active
// filter. Topic keys are case-sensitive.
func (c *Catalogue) Topics() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range c.problems {
		if !seen[p.Topic] {
			seen[p.Topic] = true
			out = append(out, p.Topic)
		}
	}
	sort.Strings(out)
	return out
}

// SetFilter sets the active topic filter; empty means all topics.
func (c *Catalogue) SetFilter(topic string) { c.filter = topic }

func (c *Catalogue) Filter() string { return c.filter }

// Groups recomputes the topic grouping with the active filter applied.
// Groups come back sorted by topic for stable display.
func (c *Catalogue) Groups() []Group {
	byTopic := map[string][]model.Problem{}
	for _, p := range c.problems {
		if c.filter != "" && p.Topic != c.filter {
			continue
		}
		byTopic[p.Topic] = append(byTopic[p.Topic], p)
	}

	topics := make([]string, 0, len(byTopic))
	for t := range byTopic {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	out := make([]Group, 0, len(topics))
	for _, t := range topics {
		g := Group{Topic: t, Problems: byTopic[t], Total: len(byTopic[t])}
		for _, p := range g.Problems {
			if p.Solved {
				g.Solved++
			}
		}
		out = append(out, g)
	}
	return out
}

// Problem looks up one problem by id.
func (c *Catalogue) Problem(id int64) (model.Problem, bool) {
	for _, p := range c.problems {
		if p.ID == id {
			return p, true
		}
	}
	return model.Problem{}, false
}

// ApplyToggle adopts a server-confirmed solved/starred pair for exactly one
// problem. Everything else, group membership included, is untouched.
func (c *Catalogue) ApplyToggle(id int64, ts model.ToggleState) {
	for i := range c.problems {
		if c.problems[i].ID == id {
			c.problems[i].Solved = ts.Solved
			c.problems[i].Starred = ts.Starred
			return
		}
	}
}

// Note returns the saved note for a problem, "" when absent.
func (c *Catalogue) Note(id int64) string {
	return c.notes[Key(id)]
}

// SetNote records note text locally after a successful save.
func (c *Catalogue) SetNote(id int64, text string) {
	c.notes[Key(id)] = text
}

// ToggleCollapsed flips a topic's collapse flag. Topics default to expanded.
func (c *Catalogue) ToggleCollapsed(topic string) {
	c.collapsed[topic] = !c.collapsed[topic]
}

func (c *Catalogue) Collapsed(topic string) bool { return c.collapsed[topic] }

// SetSaving marks or clears a problem's save-in-flight flag.
func (c *Catalogue) SetSaving(id int64, inFlight bool) {
	if inFlight {
		c.saving[Key(id)] = true
		return
	}
	delete(c.saving, Key(id))
}

func (c *Catalogue) Saving(id int64) bool { return c.saving[Key(id)] }

// Key is the wire form of a problem id (the notes endpoint keys by string).
func Key(id int64) string { return strconv.FormatInt(id, 10) }
