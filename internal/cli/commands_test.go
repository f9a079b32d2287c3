package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sampathkupparaju/coachingapp/internal/model"
)

// fakeBackend is a minimal in-memory implementation of the REST contract.
type fakeBackend struct {
	mu       sync.Mutex
	problems []model.Problem
	notes    map[string]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		problems: []model.Problem{
			{ID: 1, Title: "Two Sum", Topic: "Arrays", Difficulty: model.DifficultyEasy},
			{ID: 2, Title: "Min Stack", Topic: "Stack", Difficulty: model.DifficultyMedium},
		},
		notes: map[string]string{},
	}
}

const (
	fakeToken = "tok-test"
	fakeUser  = "7"
)

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "dev@example.com" || req.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"token": fakeToken, "userId": 7})
	})

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+fakeToken {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET /api/auth/me", authed(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"userId": 7, "email": "dev@example.com"})
	}))

	mux.HandleFunc("GET /api/problems", authed(func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(b.problems)
	}))

	toggle := func(star bool) http.HandlerFunc {
		return authed(func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			defer b.mu.Unlock()
			id := r.PathValue("id")
			for i := range b.problems {
				if b.problems[i].ID == parseID(id) {
					if star {
						b.problems[i].Starred = !b.problems[i].Starred
					} else {
						b.problems[i].Solved = !b.problems[i].Solved
					}
					_ = json.NewEncoder(w).Encode(model.ToggleState{
						Solved:  b.problems[i].Solved,
						Starred: b.problems[i].Starred,
					})
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
		})
	}
	mux.HandleFunc("PUT /api/problems/{id}/solve", toggle(false))
	mux.HandleFunc("PUT /api/problems/{id}/star", toggle(true))

	mux.HandleFunc("GET /api/users/{user}/notes", authed(func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(b.notes)
	}))

	mux.HandleFunc("PUT /api/users/{user}/notes/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Note string `json:"note"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.notes[r.PathValue("id")] = req.Note
		w.WriteHeader(http.StatusNoContent)
	}))

	return mux
}

func parseID(s string) int64 {
	var id int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return -1
		}
		id = id*10 + int64(c-'0')
	}
	return id
}

// runCmd executes one CLI invocation against the fake backend.
func runCmd(t *testing.T, apiURL, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--api-url", apiURL, "--dir", dir))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_LoginWhoamiLogoutFlow(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend().handler())
	t.Cleanup(srv.Close)
	dir := t.TempDir()

	// whoami before login fails with the remedy spelled out.
	_, err := runCmd(t, srv.URL, dir, "", "whoami")
	require.ErrorContains(t, err, "coachingapp login")

	out, err := runCmd(t, srv.URL, dir, "", "login", "--email", "dev@example.com", "--password", "hunter2")
	require.NoError(t, err)
	var login map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &login))
	assert.Equal(t, fakeUser, login["userId"])
	assert.Equal(t, "dev@example.com", login["email"])

	out, err = runCmd(t, srv.URL, dir, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, `"userId":"7"`)

	out, err = runCmd(t, srv.URL, dir, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, `"loggedOut":true`)

	_, err = runCmd(t, srv.URL, dir, "", "whoami")
	assert.Error(t, err)
}

func TestCLI_RejectedLogin(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend().handler())
	t.Cleanup(srv.Close)

	_, err := runCmd(t, srv.URL, t.TempDir(), "", "login", "--email", "dev@example.com", "--password", "wrong")
	require.ErrorContains(t, err, "invalid email or password")
}

func TestCLI_LoginPromptsForEmail(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend().handler())
	t.Cleanup(srv.Close)

	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("hunter2"), nil }
	t.Cleanup(func() { readPassword = orig })

	out, err := runCmd(t, srv.URL, t.TempDir(), "dev@example.com\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, `"userId":"7"`)
}

func TestCLI_ProblemsListAndFilters(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend().handler())
	t.Cleanup(srv.Close)
	dir := t.TempDir()

	_, err := runCmd(t, srv.URL, dir, "", "login", "--email", "dev@example.com", "--password", "hunter2")
	require.NoError(t, err)

	out, err := runCmd(t, srv.URL, dir, "", "problems", "list")
	require.NoError(t, err)
	var ps []model.Problem
	require.NoError(t, json.Unmarshal([]byte(out), &ps))
	require.Len(t, ps, 2)

	out, err = runCmd(t, srv.URL, dir, "", "problems", "list", "--topic", "Stack")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &ps))
	require.Len(t, ps, 1)
	assert.Equal(t, "Min Stack", ps[0].Title)

	// The live listing fed the cache; --cached works without the server.
	out, err = runCmd(t, "http://127.0.0.1:0", dir, "", "problems", "list", "--cached")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &ps))
	assert.Len(t, ps, 2)
}

func TestCLI_SolveAndStar(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend().handler())
	t.Cleanup(srv.Close)
	dir := t.TempDir()

	_, err := runCmd(t, srv.URL, dir, "", "login", "--email", "dev@example.com", "--password", "hunter2")
	require.NoError(t, err)

	out, err := runCmd(t, srv.URL, dir, "", "problems", "solve", "1")
	require.NoError(t, err)
	var ts model.ToggleState
	require.NoError(t, json.Unmarshal([]byte(out), &ts))
	assert.True(t, ts.Solved)
	assert.False(t, ts.Starred)

	out, err = runCmd(t, srv.URL, dir, "", "problems", "star", "1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &ts))
	assert.True(t, ts.Solved)
	assert.True(t, ts.Starred)

	// A second solve flips it back; the server owns the state.
	out, err = runCmd(t, srv.URL, dir, "", "problems", "solve", "1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &ts))
	assert.False(t, ts.Solved)
	assert.True(t, ts.Starred)
}

func TestCLI_NotesRoundtrip(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend().handler())
	t.Cleanup(srv.Close)
	dir := t.TempDir()

	_, err := runCmd(t, srv.URL, dir, "", "login", "--email", "dev@example.com", "--password", "hunter2")
	require.NoError(t, err)

	out, err := runCmd(t, srv.URL, dir, "", "notes", "set", "2", "monotonic stack")
	require.NoError(t, err)
	assert.Contains(t, out, `"note":"monotonic stack"`)

	out, err = runCmd(t, srv.URL, dir, "", "notes", "get", "2")
	require.NoError(t, err)
	var note map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &note))
	assert.Equal(t, "monotonic stack", note["note"])

	// Absent note reads back empty, not an error.
	out, err = runCmd(t, srv.URL, dir, "", "notes", "get", "99")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &note))
	assert.Empty(t, note["note"])
}

func TestCLI_NotesSetFromStdin(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend().handler())
	t.Cleanup(srv.Close)
	dir := t.TempDir()

	_, err := runCmd(t, srv.URL, dir, "", "login", "--email", "dev@example.com", "--password", "hunter2")
	require.NoError(t, err)

	out, err := runCmd(t, srv.URL, dir, "piped note text\n", "notes", "set", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"note":"piped note text"`)
}

func TestCLI_PrettyOutput(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend().handler())
	t.Cleanup(srv.Close)
	dir := t.TempDir()

	out, err := runCmd(t, srv.URL, dir, "", "login", "--email", "dev@example.com", "--password", "hunter2", "--pretty")
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"userId\"")
}
