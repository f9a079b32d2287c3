package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sampathkupparaju/coachingapp/internal/api"
	"github.com/sampathkupparaju/coachingapp/internal/auth"
	"github.com/sampathkupparaju/coachingapp/internal/cache"
	"github.com/sampathkupparaju/coachingapp/internal/session"
)

// Env is the assembled application: session store, auth controller, API
// client, and local cache, all sharing one state dir and one logger.
type Env struct {
	Dir      string
	Sessions *session.Store
	Auth     *auth.Controller
	API      *api.Client
	Cache    *cache.Cache
	Log      *zap.Logger
}

// newEnv builds the object graph. The API client and the auth controller
// reference each other (token source one way, 401/403 hook the other), so
// the controller is bound through a late pointer.
func newEnv(app *App) (*Env, error) {
	dir := app.Dir
	if dir == "" {
		d, err := session.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	sessions := &session.Store{Dir: dir}

	var ctrl *auth.Controller
	client := api.New(app.APIURL,
		func() string {
			if ctrl == nil {
				return ""
			}
			return ctrl.Token()
		},
		api.WithLogger(log),
		api.WithUnauthenticatedHook(func() {
			if ctrl != nil {
				ctrl.HandleUnauthenticated()
			}
		}),
	)
	ctrl = auth.New(sessions, client, log)

	db, err := cache.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open local cache: %w", err)
	}

	return &Env{
		Dir:      dir,
		Sessions: sessions,
		Auth:     ctrl,
		API:      client,
		Cache:    db,
		Log:      log,
	}, nil
}

func (e *Env) Close() {
	if e.Cache != nil {
		_ = e.Cache.Close()
	}
	_ = e.Log.Sync()
}

// requireSession verifies the stored token before a protected command runs.
// The session-expired message is shared by every protected command so the
// remedy is always spelled out the same way.
func (e *Env) requireSession(ctx context.Context) error {
	if e.Auth.State() == auth.StateUnauthenticated {
		return errNotLoggedIn
	}
	if err := e.Auth.Verify(ctx); err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			return errNotLoggedIn
		}
		return err
	}
	return nil
}

var errNotLoggedIn = errors.New("session expired or missing; run `coachingapp login`")

// newLogger writes structured logs to $COACHINGAPP_DEBUG_LOG when set and
// stays silent otherwise. CLI stdout is reserved for JSON output and the
// TUI owns the terminal, so file logging is the only safe sink.
func newLogger() (*zap.Logger, error) {
	path := strings.TrimSpace(os.Getenv("COACHINGAPP_DEBUG_LOG"))
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	return cfg.Build()
}
