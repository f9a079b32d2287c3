package api

import "errors"

var (
	// ErrInvalidCredentials is returned when the login endpoint rejects the
	// submitted email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated covers 401 and 403 uniformly: the bearer token is
	// missing, expired, or rejected. The client reaction is always the same
	// (clear the session, go back to login), so the two statuses are never
	// distinguished past this point.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidArgument is a client-side precondition failure. No network
	// call has been made when this is returned.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrServer covers any non-2xx response not mapped above.
	ErrServer = errors.New("server error")
)
