package domain

import (
	"strings"
	"time"
)

type ProviderType string

const (
	ProviderGitHub ProviderType = "github"
)

// Identity is the authenticated account every graph operation acts on behalf of.
type Identity struct {
	Login string
	ID    int64
}

// Account is an immutable snapshot of a remote user. Login is the identity
// key and is compared case-sensitively.
type Account struct {
	Login   string
	ID      int64
	Name    string
	HTMLURL string
}

// SortKey orders accounts for display.
func (a Account) SortKey() string {
	return strings.ToLower(a.Login)
}

type Repository struct {
	FullName    string
	Owner       string
	Name        string
	ID          int64
	Description string
	Stars       int
	HTMLURL     string
}

type RunKind string

const (
	RunUnfollow   RunKind = "unfollow"
	RunFollowBack RunKind = "follow-back"
	RunUnstar     RunKind = "unstar"
)

type RunState string

const (
	RunStateIdle      RunState = "idle"
	RunStateRunning   RunState = "running"
	RunStateSucceeded RunState = "succeeded"
	RunStateFailed    RunState = "failed"
)

// TargetFailure records one mutation that did not go through during a bulk run.
type TargetFailure struct {
	Target string
	Err    error
}

// RunResult is the terminal notification of a bulk run.
type RunResult struct {
	RunID      string
	Kind       RunKind
	State      RunState
	Attempted  int
	Succeeded  int
	Failures   []TargetFailure
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r RunResult) Failed() bool {
	return r.State == RunStateFailed
}
