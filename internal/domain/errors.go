package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrRemote           = errors.New("remote error")
	ErrRateLimited      = errors.New("rate limited")
	ErrUnreachable      = errors.New("remote unreachable")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyRunning   = errors.New("run already in progress")
	ErrPersistence      = errors.New("failed to persist exclusion list")
)

type RemoteErrorKind int

const (
	RemoteOther RemoteErrorKind = iota
	RemoteRateLimited
	RemoteNotFound
	RemoteUnauthorized
	RemoteUnreachable
)

func (k RemoteErrorKind) String() string {
	switch k {
	case RemoteRateLimited:
		return "rate limited"
	case RemoteNotFound:
		return "not found"
	case RemoteUnauthorized:
		return "unauthorized"
	case RemoteUnreachable:
		return "unreachable"
	default:
		return "remote"
	}
}

// RemoteError is a classified failure from the graph client.
type RemoteError struct {
	Op     string
	Target string
	Kind   RemoteErrorKind
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Target, e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrRemote:
		return true
	case ErrRateLimited:
		return e.Kind == RemoteRateLimited
	case ErrNotFound:
		return e.Kind == RemoteNotFound
	case ErrNotAuthenticated:
		return e.Kind == RemoteUnauthorized
	case ErrUnreachable:
		return e.Kind == RemoteUnreachable
	}
	return false
}

// IsFatal reports whether err should stop a bulk run instead of being
// recorded against a single target.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrUnreachable)
}
