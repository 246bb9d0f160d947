package azdo

import "errors"

// Upstream failure classes. All of them are fatal: a partial snapshot is
// never scheduled.
var (
	ErrUnauthorized  = errors.New("azdo: authentication rejected")
	ErrUnreachable   = errors.New("azdo: server unreachable")
	ErrNoUserStories = errors.New("azdo: no user stories in sprint")
)
