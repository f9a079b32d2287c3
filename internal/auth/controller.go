// Package auth owns the client's session lifecycle. The Controller is the
// only writer to the session store; every other component observes its state.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/sampathkupparaju/coachingapp/internal/api"
	"github.com/sampathkupparaju/coachingapp/internal/session"
)

type State int

const (
	StateUnknown State = iota
	StateVerifying
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Gateway is the slice of the API client the controller needs. Tests provide
// a stub; production passes *api.Client.
type Gateway interface {
	Login(ctx context.Context, email, password string) (api.LoginResult, error)
	Verify(ctx context.Context) (api.VerifyResult, error)
}

type Controller struct {
	mu      sync.Mutex
	store   *session.Store
	gateway Gateway
	log     *zap.Logger

	state   State
	current session.Session
}

// New loads the persisted session and seeds the state machine: a stored
// token means "verifying" (the server still has to confirm it), no token
// means "unauthenticated".
func New(store *session.Store, gw Gateway, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{store: store, gateway: gw, log: log, state: StateUnknown}
	s, err := store.Load()
	if err != nil {
		log.Warn("session load failed", zap.Error(err))
	}
	c.current = s
	if s.Valid() {
		c.state = StateVerifying
	} else {
		c.state = StateUnauthenticated
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Session() session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Verify confirms the stored token with the server. On success the returned
// user id must match the stored one; a mismatch is treated like a rejected
// token. Any failure clears the store — partial session state never
// survives a failed verification.
func (c *Controller) Verify(ctx context.Context) error {
	c.mu.Lock()
	if !c.current.Valid() {
		c.state = StateUnauthenticated
		c.mu.Unlock()
		return fmt.Errorf("no session to verify: %w", api.ErrUnauthenticated)
	}
	c.state = StateVerifying
	stored := c.current
	c.mu.Unlock()

	res, err := c.gateway.Verify(ctx)
	if err != nil {
		c.log.Info("verification failed", zap.Error(err))
		c.becomeUnauthenticated()
		return err
	}
	if res.UserID != stored.UserID {
		c.log.Warn("verification user mismatch",
			zap.String("stored", stored.UserID),
			zap.String("server", res.UserID))
		c.becomeUnauthenticated()
		return fmt.Errorf("token belongs to a different user: %w", api.ErrUnauthenticated)
	}

	email := strings.TrimSpace(res.Email)
	if email == "" {
		email = stored.Email
	}
	if email == "" {
		email = session.EmailFromToken(stored.Token)
	}

	c.mu.Lock()
	c.current.Email = email
	c.state = StateAuthenticated
	updated := c.current
	c.mu.Unlock()

	if err := c.store.Save(updated); err != nil {
		c.log.Warn("session save failed", zap.Error(err))
	}
	return nil
}

// Login authenticates and, on success, persists the session and verifies it.
// A response missing token or user id is a failure and changes nothing
// (the gateway enforces that shape).
func (c *Controller) Login(ctx context.Context, email, password string) error {
	res, err := c.gateway.Login(ctx, email, password)
	if err != nil {
		return err
	}

	s := session.Session{Token: res.Token, UserID: res.UserID, Email: strings.TrimSpace(email)}
	if err := c.store.Save(s); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	c.mu.Lock()
	c.current = s
	c.state = StateVerifying
	c.mu.Unlock()

	return c.Verify(ctx)
}

// Logout clears the persisted session. Safe to call in any state.
func (c *Controller) Logout() {
	c.becomeUnauthenticated()
}

// HandleUnauthenticated is the gateway's 401/403 hook: any API call that
// surfaces an expired or rejected token lands here exactly once.
func (c *Controller) HandleUnauthenticated() {
	c.log.Info("session rejected by server")
	c.becomeUnauthenticated()
}

// SyncFromDisk re-reads the session file and reconciles with it. Another
// process logging out removes the file; an authenticated session here must
// follow it into the unauthenticated state. A new session written by
// another process is adopted pending verification.
func (c *Controller) SyncFromDisk() State {
	s, err := c.store.Load()
	if err != nil {
		c.log.Warn("session reload failed", zap.Error(err))
		return c.State()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case !s.Valid():
		c.current = session.Session{}
		c.state = StateUnauthenticated
	case s.Token != c.current.Token || s.UserID != c.current.UserID:
		c.current = s
		c.state = StateVerifying
	default:
		c.current = s
	}
	return c.state
}

func (c *Controller) becomeUnauthenticated() {
	c.mu.Lock()
	c.current = session.Session{}
	c.state = StateUnauthenticated
	c.mu.Unlock()
	if err := c.store.Clear(); err != nil {
		c.log.Warn("session clear failed", zap.Error(err))
	}
}

// Token returns the current bearer token, "" when logged out. The API
// client uses it as its token source.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Token
}
