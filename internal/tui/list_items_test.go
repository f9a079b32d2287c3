package tui

import (
	"strings"
	"testing"

	"github.com/sampathkupparaju/coachingapp/internal/catalog"
	"github.com/sampathkupparaju/coachingapp/internal/model"
)

func TestProgressBar_FillsByPercent(t *testing.T) {
	setGlyphs(glyphSetASCII)
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	cases := []struct {
		percent int
		want    string
	}{
		{0, "----------"},
		{50, "=====-----"},
		{100, "=========="},
		{150, "=========="}, // clamped
	}
	for _, c := range cases {
		got := progressBar(c.percent, 10)
		if !strings.Contains(got, c.want) {
			t.Fatalf("progressBar(%d): got %q, want it to contain %q", c.percent, got, c.want)
		}
	}
}

func TestTopicHeader_ShowsTallyAndTwisty(t *testing.T) {
	setGlyphs(glyphSetASCII)
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	g := catalog.Group{Topic: "Stack", Solved: 1, Total: 3}
	expanded := topicHeaderItem{group: g}.Title()
	if !strings.Contains(expanded, "Stack") || !strings.Contains(expanded, "(1/3)") {
		t.Fatalf("unexpected header: %q", expanded)
	}
	if !strings.HasPrefix(expanded, "v ") {
		t.Fatalf("expected expanded twisty; got %q", expanded)
	}

	collapsed := topicHeaderItem{group: g, collapsed: true}.Title()
	if !strings.HasPrefix(collapsed, "> ") {
		t.Fatalf("expected collapsed twisty; got %q", collapsed)
	}
}

func TestProblemRow_GlyphsReflectState(t *testing.T) {
	setGlyphs(glyphSetASCII)
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	p := model.Problem{ID: 1, Title: "Two Sum", Difficulty: "EASY", Solved: true, Starred: true}
	row := problemRowItem{problem: p, hasNote: true}.Title()

	for _, want := range []string{"[x]", "*", "Two Sum", "Easy", "#"} {
		if !strings.Contains(row, want) {
			t.Fatalf("row %q missing %q", row, want)
		}
	}

	unsolved := problemRowItem{problem: model.Problem{ID: 2, Title: "Min Stack", Difficulty: "MEDIUM"}}.Title()
	if !strings.Contains(unsolved, "[ ]") || !strings.Contains(unsolved, "Medium") {
		t.Fatalf("unexpected unsolved row: %q", unsolved)
	}

	busy := problemRowItem{problem: p, busy: true}.Title()
	if !strings.Contains(busy, "…") {
		t.Fatalf("expected busy marker; got %q", busy)
	}
}

func TestProblemRow_UnknownDifficultyShowsNA(t *testing.T) {
	row := problemRowItem{problem: model.Problem{ID: 9, Title: "Mystery", Difficulty: "LUDICROUS"}}.Title()
	if !strings.Contains(row, "N/A") {
		t.Fatalf("expected N/A badge for unknown difficulty; got %q", row)
	}
}
