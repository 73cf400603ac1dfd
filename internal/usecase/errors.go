package usecase

import crerr "github.com/cockroachdb/errors"

var (
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
	// ErrUpstreamStatus marks a well-formed provider envelope whose code is not the success sentinel.
	ErrUpstreamStatus = crerr.New("upstream returned non-success status")
)
