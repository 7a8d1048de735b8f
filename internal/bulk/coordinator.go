// Package bulk drives the fetch, diff and mutate pipeline behind each bulk
// action, allowing at most one run per kind at a time.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/johanforsgren/followsweep/internal/diff"
	"github.com/johanforsgren/followsweep/internal/domain"
	"github.com/johanforsgren/followsweep/internal/graph"
	"github.com/johanforsgren/followsweep/internal/logger"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Notifier receives the terminal result of every run.
type Notifier func(domain.RunResult)

type Option func(*Coordinator)

func WithNotifier(notify Notifier) Option {
	return func(c *Coordinator) {
		c.notify = notify
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// Overview is the diffed view of the follow graph.
type Overview struct {
	Following    []domain.Account
	Followers    []domain.Account
	NonFollowers []domain.Account
}

type Coordinator struct {
	client domain.GraphClient
	cache  *graph.Cache
	notify Notifier
	now    func() time.Time

	starred singleflight.Group

	mu      sync.Mutex
	running map[domain.RunKind]*RunHandle
}

func NewCoordinator(client domain.GraphClient, cache *graph.Cache, opts ...Option) *Coordinator {
	if cache == nil {
		cache = graph.NewCache()
	}
	c := &Coordinator{
		client:  client,
		cache:   cache,
		now:     time.Now,
		running: make(map[domain.RunKind]*RunHandle),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Cache() *graph.Cache {
	return c.cache
}

// Invalidate drops the cached follow sets. Runs never do this on their own;
// call it before re-diffing after a mutation.
func (c *Coordinator) Invalidate() {
	c.cache.Invalidate()
}

func (c *Coordinator) Running(kind domain.RunKind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.running[kind]
	return ok
}

func (c *Coordinator) State(kind domain.RunKind) domain.RunState {
	if c.Running(kind) {
		return domain.RunStateRunning
	}
	return domain.RunStateIdle
}

func (c *Coordinator) following(ctx context.Context) ([]domain.Account, error) {
	return c.cache.Following(ctx, c.client.ListFollowing)
}

func (c *Coordinator) followers(ctx context.Context) ([]domain.Account, error) {
	return c.cache.Followers(ctx, c.client.ListFollowers)
}

// Overview fetches both sides of the graph concurrently and computes the
// non-followers under excludedUsers.
func (c *Coordinator) Overview(ctx context.Context, excludedUsers domain.StringSet) (Overview, error) {
	var following, followers []domain.Account

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		following, err = c.following(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		followers, err = c.followers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	return Overview{
		Following:    following,
		Followers:    followers,
		NonFollowers: diff.NonFollowers(following, followers, excludedUsers),
	}, nil
}

// NotFollowedBack returns the followers the user does not follow, ordered by
// lowercase login.
func (c *Coordinator) NotFollowedBack(ctx context.Context) ([]string, error) {
	overview, err := c.Overview(ctx, nil)
	if err != nil {
		return nil, err
	}
	return diff.SortedLogins(diff.NotFollowedBack(overview.Followers, overview.Following)), nil
}

// Starred always asks the remote; concurrent callers share one request. Each
// caller stops waiting when its own ctx ends, the request does not.
func (c *Coordinator) Starred(ctx context.Context) ([]domain.Repository, error) {
	ch := c.starred.DoChan("starred", func() (interface{}, error) {
		return c.client.ListStarred(context.WithoutCancel(ctx))
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	repos := res.Val.([]domain.Repository)
	return append([]domain.Repository(nil), repos...), nil
}

// StartUnfollow unfollows every non-follower not in excludedUsers, in sorted
// order.
func (c *Coordinator) StartUnfollow(ctx context.Context, excludedUsers domain.StringSet) (*RunHandle, error) {
	excluded := excludedUsers.Clone()

	return c.start(ctx, domain.RunUnfollow, func(ctx context.Context, t *tally) error {
		overview, err := c.Overview(ctx, excluded)
		if err != nil {
			return zerr.Wrap(err, "failed to fetch follow graph")
		}

		byLogin := make(map[string]domain.Account, len(overview.NonFollowers))
		for _, a := range overview.NonFollowers {
			byLogin[a.Login] = a
		}

		return c.mutateEach(ctx, t, diff.Logins(overview.NonFollowers), func(ctx context.Context, login string) error {
			return c.client.Unfollow(ctx, byLogin[login])
		})
	})
}

// StartFollowBack follows every follower the user does not follow yet.
func (c *Coordinator) StartFollowBack(ctx context.Context) (*RunHandle, error) {
	return c.start(ctx, domain.RunFollowBack, func(ctx context.Context, t *tally) error {
		logins, err := c.NotFollowedBack(ctx)
		if err != nil {
			return zerr.Wrap(err, "failed to fetch follow graph")
		}

		return c.mutateEach(ctx, t, logins, func(ctx context.Context, login string) error {
			account, err := c.client.ResolveAccount(ctx, login)
			if err != nil {
				return err
			}
			return c.client.Follow(ctx, account)
		})
	})
}

// StartUnstar unstars repos minus excludedRepos, keeping the given order. A
// nil repos list means the current starred list is fetched first.
func (c *Coordinator) StartUnstar(ctx context.Context, repos []string, excludedRepos domain.StringSet) (*RunHandle, error) {
	excluded := excludedRepos.Clone()
	var snapshot []string
	if repos != nil {
		snapshot = append([]string{}, repos...)
	}

	return c.start(ctx, domain.RunUnstar, func(ctx context.Context, t *tally) error {
		if snapshot == nil {
			starred, err := c.Starred(ctx)
			if err != nil {
				return zerr.Wrap(err, "failed to fetch starred repositories")
			}
			snapshot = diff.FullNames(starred)
		}

		return c.mutateEach(ctx, t, diff.UnstarCandidates(snapshot, excluded), func(ctx context.Context, fullName string) error {
			repo, err := c.client.ResolveRepository(ctx, fullName)
			if err != nil {
				return err
			}
			return c.client.Unstar(ctx, repo)
		})
	})
}

type workFunc func(ctx context.Context, t *tally) error

func (c *Coordinator) start(ctx context.Context, kind domain.RunKind, work workFunc) (*RunHandle, error) {
	c.mu.Lock()
	if _, busy := c.running[kind]; busy {
		c.mu.Unlock()
		logger.Log("Bulk: rejected %s, a run is already in progress", kind)
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyRunning, kind)
	}

	runCtx, cancel := context.WithCancel(ctx)
	handle := newRunHandle(kind, c.now(), cancel)
	c.running[kind] = handle
	c.mu.Unlock()

	logger.LogRun(string(kind), handle.ID, "started")
	go c.execute(runCtx, handle, work)
	return handle, nil
}

func (c *Coordinator) execute(ctx context.Context, handle *RunHandle, work workFunc) {
	defer handle.cancel()

	t := &tally{}
	err := work(ctx, t)

	result := domain.RunResult{
		RunID:      handle.ID,
		Kind:       handle.Kind,
		State:      domain.RunStateSucceeded,
		Attempted:  t.attempted,
		Succeeded:  t.succeeded,
		Failures:   t.failures,
		StartedAt:  handle.StartedAt,
		FinishedAt: c.now(),
	}
	if err != nil {
		result.State = domain.RunStateFailed
		result.Err = err
		logger.LogError("BULK_"+strings.ToUpper(string(handle.Kind)), handle.ID, err)
	}
	logger.LogRun(string(handle.Kind), handle.ID, "%s: %d/%d succeeded, %d failed",
		result.State, result.Succeeded, result.Attempted, len(result.Failures))

	c.mu.Lock()
	delete(c.running, handle.Kind)
	c.mu.Unlock()

	handle.setResult(result)
	if c.notify != nil {
		c.notify(result)
	}
	close(handle.done)
}

// mutateEach applies mutate to every target. Per-target failures are recorded
// and skipped; fatal errors and cancellation stop the loop.
func (c *Coordinator) mutateEach(ctx context.Context, t *tally, targets []string, mutate func(context.Context, string) error) error {
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return zerr.Wrap(err, "run cancelled")
		}

		t.attempted++
		err := mutate(ctx, target)
		if err == nil {
			t.succeeded++
			continue
		}

		if domain.IsFatal(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zerr.With(zerr.Wrap(err, "run aborted"), "target", target)
		}

		logger.LogError("BULK_TARGET", target, err)
		t.fail(target, zerr.With(zerr.Wrap(err, "mutation failed"), "target", target))
	}
	return nil
}
