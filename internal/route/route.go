// Package route maps requested destinations to views and gates the
// protected ones behind an authenticated session.
package route

import "strings"

const (
	// PathLogin and PathProblems are the two user-facing destinations.
	// PathProblems is the default/home view.
	PathLogin    = "/login"
	PathProblems = "/problems"
)

// Decision is the guard's single output: either the requested path is
// allowed, or RedirectTo names where to go instead. CapturedFrom preserves
// the originally requested destination (path+query) so it can be replayed
// once a login completes.
type Decision struct {
	Allow        bool
	RedirectTo   string
	CapturedFrom string
}

// Decide gates a requested path given whether a session is present.
//
// Rules:
//   - unauthenticated access to a protected path redirects to the login
//     view, capturing the original destination,
//   - authenticated access to the login view redirects to the problems
//     view (no login loop),
//   - unmatched paths fall back to problems when authenticated, login
//     otherwise.
func Decide(path string, authenticated bool) Decision {
	p := normalize(path)

	switch p {
	case PathLogin:
		if authenticated {
			return Decision{RedirectTo: PathProblems}
		}
		return Decision{Allow: true}
	case PathProblems:
		if authenticated {
			return Decision{Allow: true}
		}
		return Decision{RedirectTo: PathLogin, CapturedFrom: path}
	default:
		if authenticated {
			return Decision{RedirectTo: PathProblems}
		}
		return Decision{RedirectTo: PathLogin}
	}
}

func normalize(path string) string {
	p := strings.TrimSpace(path)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return PathProblems
	}
	return p
}
