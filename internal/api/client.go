// Package api is the HTTP gateway to the coaching backend. It exposes one
// typed operation per endpoint of the REST contract and centralizes the two
// concerns every call shares: bearer-token injection on the way out and
// 401/403 handling on the way back.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sampathkupparaju/coachingapp/internal/model"
)

// TokenSource yields the current bearer token, or "" when no session exists.
// The request path attaches the Authorization header only for non-empty tokens.
type TokenSource func() string

// Client talks to the backend. Construct with New; the zero value is not usable.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	log     *zap.Logger

	// onUnauthenticated runs once per 401/403 response, before the error is
	// returned to the caller. This is the single place session invalidation
	// hangs off; call sites never check those statuses themselves.
	onUnauthenticated func()
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithUnauthenticatedHook registers the callback invoked on any 401/403.
func WithUnauthenticatedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthenticated = fn }
}

func New(baseURL string, token TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		token:   token,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.token == nil {
		c.token = func() string { return "" }
	}
	if c.onUnauthenticated == nil {
		c.onUnauthenticated = func() {}
	}
	return c
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the success shape of POST /api/auth/login.
type LoginResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

func (r LoginResult) complete() bool {
	return strings.TrimSpace(r.Token) != "" && strings.TrimSpace(r.UserID) != ""
}

// Login authenticates with email/password. A 401/403 here means the
// credentials were rejected, not that a session expired, so it maps to
// ErrInvalidCredentials and does not fire the unauthenticated hook.
// A 2xx response missing either token or userId is also a failure.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out loginResultWire
	err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &out, doOpts{noAuthMapping: true})
	if err != nil {
		if isStatusErr(err, http.StatusUnauthorized) || isStatusErr(err, http.StatusForbidden) || isStatusErr(err, http.StatusBadRequest) {
			return LoginResult{}, fmt.Errorf("login: %w", ErrInvalidCredentials)
		}
		return LoginResult{}, err
	}
	res := LoginResult{Token: out.Token, UserID: out.UserID.String()}
	if !res.complete() {
		return LoginResult{}, fmt.Errorf("login response missing token or userId: %w", ErrInvalidCredentials)
	}
	return res, nil
}

// VerifyResult is the success shape of GET /api/auth/me. Email is optional;
// older backends return only the user id.
type VerifyResult struct {
	UserID string
	Email  string
}

// Verify checks the stored token against the server and returns the
// authenticated user. Fails with ErrUnauthenticated when the token is
// missing or rejected.
func (c *Client) Verify(ctx context.Context) (VerifyResult, error) {
	var out struct {
		UserID flexID `json:"userId"`
		ID     flexID `json:"id"`
		Email  string `json:"email"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out, doOpts{}); err != nil {
		return VerifyResult{}, err
	}
	id := out.UserID.String()
	if id == "" {
		id = out.ID.String()
	}
	return VerifyResult{UserID: id, Email: out.Email}, nil
}

// ListProblems fetches the full problem catalogue in server order.
func (c *Client) ListProblems(ctx context.Context) ([]model.Problem, error) {
	var out []model.Problem
	if err := c.do(ctx, http.MethodGet, "/api/problems", nil, &out, doOpts{}); err != nil {
		return nil, err
	}
	return out, nil
}

// ListNotes fetches every note the user has saved, keyed by problem id.
// Requires a non-empty userID; fails with ErrInvalidArgument before any
// network call otherwise.
func (c *Client) ListNotes(ctx context.Context, userID string) (model.Notes, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required to fetch notes: %w", ErrInvalidArgument)
	}
	var out model.Notes
	p := "/api/users/" + url.PathEscape(userID) + "/notes"
	if err := c.do(ctx, http.MethodGet, p, nil, &out, doOpts{}); err != nil {
		return nil, err
	}
	if out == nil {
		out = model.Notes{}
	}
	return out, nil
}

// SaveNote creates or overwrites the note for one problem. Same precondition
// as ListNotes, extended to the problem id.
func (c *Client) SaveNote(ctx context.Context, userID, problemID, text string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(problemID) == "" {
		return fmt.Errorf("user id and problem id are required to save a note: %w", ErrInvalidArgument)
	}
	body := struct {
		Note string `json:"note"`
	}{Note: text}
	p := "/api/users/" + url.PathEscape(userID) + "/notes/" + url.PathEscape(problemID)
	return c.do(ctx, http.MethodPut, p, body, nil, doOpts{})
}

// ToggleSolved flips the solved flag server-side and returns the confirmed
// state. The toggle is server-authoritative: callers adopt the returned pair
// as-is so concurrent sessions cannot drift.
func (c *Client) ToggleSolved(ctx context.Context, problemID string) (model.ToggleState, error) {
	return c.toggle(ctx, problemID, "solve")
}

// ToggleStarred flips the starred flag server-side; see ToggleSolved.
func (c *Client) ToggleStarred(ctx context.Context, problemID string) (model.ToggleState, error) {
	return c.toggle(ctx, problemID, "star")
}

func (c *Client) toggle(ctx context.Context, problemID, action string) (model.ToggleState, error) {
	if strings.TrimSpace(problemID) == "" {
		return model.ToggleState{}, fmt.Errorf("problem id is required to toggle %s: %w", action, ErrInvalidArgument)
	}
	var out model.ToggleState
	p := "/api/problems/" + url.PathEscape(problemID) + "/" + action
	if err := c.do(ctx, http.MethodPut, p, struct{}{}, &out, doOpts{}); err != nil {
		return model.ToggleState{}, err
	}
	return out, nil
}

type doOpts struct {
	// noAuthMapping suppresses the 401/403 => ErrUnauthenticated mapping and
	// hook. Only the login call sets it: a rejected login is a credentials
	// failure, not an expired session.
	noAuthMapping bool
}

// statusError carries the raw status for the few places that need to
// distinguish specific codes (login). Everything else should match the
// sentinel via errors.Is.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	if e.body != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.status, e.body)
	}
	return fmt.Sprintf("unexpected status %d", e.status)
}

func (e *statusError) Unwrap() error { return ErrServer }

func isStatusErr(err error, status int) bool {
	var se *statusError
	return errors.As(err, &se) && se.status == status
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, opts doOpts) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if !opts.noAuthMapping && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		c.onUnauthenticated()
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthenticated)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %w", method, path, &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(msg))})
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// The backend serializes user ids as JSON numbers; tolerate strings too so a
// contract change in that direction stays invisible here.
type flexID struct {
	raw string
}

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		f.raw = ""
		return nil
	}
	s = strings.Trim(s, `"`)
	f.raw = s
	return nil
}

func (f flexID) String() string { return f.raw }

type loginResultWire struct {
	Token  string `json:"token"`
	UserID flexID `json:"userId"`
}
