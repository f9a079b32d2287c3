package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sampathkupparaju/coachingapp/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleProblems() []model.Problem {
	return []model.Problem{
		{ID: 3, Title: "Min Stack", Topic: "Stack", Difficulty: model.DifficultyMedium, LeetcodeURL: "https://leetcode.com/problems/min-stack"},
		{ID: 1, Title: "Two Sum", Topic: "Arrays", Difficulty: model.DifficultyEasy, Solved: true},
		{ID: 2, Title: "Valid Anagram", Topic: "Arrays", Difficulty: model.DifficultyEasy, Starred: true},
	}
}

func TestProblems_RoundtripKeepsServerOrder(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)
	require.NoError(t, c.EnsureOwner(ctx, "u1"))

	in := sampleProblems()
	require.NoError(t, c.PutProblems(ctx, in))

	out, err := c.Problems(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out, "rows come back in insertion order, not id order")
}

func TestPutProblems_ReplacesPreviousSet(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)
	require.NoError(t, c.EnsureOwner(ctx, "u1"))
	require.NoError(t, c.PutProblems(ctx, sampleProblems()))

	require.NoError(t, c.PutProblems(ctx, sampleProblems()[:1]))

	out, err := c.Problems(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(3), out[0].ID)
}

func TestEnsureOwner_WipesOnUserChange(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	owner, err := c.UserID(ctx)
	require.NoError(t, err)
	assert.Empty(t, owner, "fresh cache has no owner")

	require.NoError(t, c.EnsureOwner(ctx, "u1"))
	require.NoError(t, c.PutProblems(ctx, sampleProblems()))
	require.NoError(t, c.PutNotes(ctx, model.Notes{"1": "hash map"}))

	// Same user: data survives.
	require.NoError(t, c.EnsureOwner(ctx, "u1"))
	ps, err := c.Problems(ctx)
	require.NoError(t, err)
	assert.Len(t, ps, 3)

	// Different user: everything goes.
	require.NoError(t, c.EnsureOwner(ctx, "u2"))
	ps, err = c.Problems(ctx)
	require.NoError(t, err)
	assert.Empty(t, ps)
	ns, err := c.Notes(ctx)
	require.NoError(t, err)
	assert.Empty(t, ns)

	owner, err = c.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u2", owner)
}

func TestNotes_RoundtripAndSingleUpsert(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)
	require.NoError(t, c.EnsureOwner(ctx, "u1"))

	require.NoError(t, c.PutNotes(ctx, model.Notes{"1": "hash map", "3": "keep a min"}))
	ns, err := c.Notes(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Notes{"1": "hash map", "3": "keep a min"}, ns)

	require.NoError(t, c.PutNote(ctx, "3", "track the min per frame"))
	require.NoError(t, c.PutNote(ctx, "7", "fresh note"))
	ns, err = c.Notes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "track the min per frame", ns["3"])
	assert.Equal(t, "fresh note", ns["7"])
}

func TestApplyToggle_UpdatesOneRow(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)
	require.NoError(t, c.EnsureOwner(ctx, "u1"))
	require.NoError(t, c.PutProblems(ctx, sampleProblems()))

	require.NoError(t, c.ApplyToggle(ctx, 3, model.ToggleState{Solved: true, Starred: true}))

	out, err := c.Problems(ctx)
	require.NoError(t, err)
	assert.True(t, out[0].Solved)
	assert.True(t, out[0].Starred)
	assert.True(t, out[1].Solved, "other rows untouched")
	assert.False(t, out[1].Starred)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, c.EnsureOwner(ctx, "u1"))
	require.NoError(t, c.PutProblems(ctx, sampleProblems()))
	require.NoError(t, c.Close())

	c, err = Open(dir)
	require.NoError(t, err)
	defer c.Close()

	ps, err := c.Problems(ctx)
	require.NoError(t, err)
	assert.Len(t, ps, 3, "cache persists across opens")
}
