// Package graph memoizes the following and follower enumerations for the
// lifetime of the process.
package graph

import (
	"context"
	"slices"
	"sync"

	"github.com/johanforsgren/followsweep/internal/domain"
	"github.com/johanforsgren/followsweep/internal/logger"
	"golang.org/x/sync/singleflight"
)

type Kind string

const (
	KindFollowing Kind = "following"
	KindFollowers Kind = "followers"
)

// FetchFunc enumerates one side of the graph from the remote.
type FetchFunc func(ctx context.Context) ([]domain.Account, error)

type entry struct {
	accounts []domain.Account
	valid    bool
}

// Cache holds the last fetched following and follower sets. Entries are only
// dropped by Invalidate. Concurrent misses for the same kind share one fetch,
// and a fetch that started before an Invalidate never repopulates the cache.
type Cache struct {
	mu         sync.Mutex
	entries    map[Kind]*entry
	generation uint64
	flight     singleflight.Group
}

func NewCache() *Cache {
	return &Cache{
		entries: map[Kind]*entry{
			KindFollowing: {},
			KindFollowers: {},
		},
	}
}

func (c *Cache) Following(ctx context.Context, fetch FetchFunc) ([]domain.Account, error) {
	return c.get(ctx, KindFollowing, fetch)
}

func (c *Cache) Followers(ctx context.Context, fetch FetchFunc) ([]domain.Account, error) {
	return c.get(ctx, KindFollowers, fetch)
}

// Invalidate clears both kinds; the next access of either refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	for _, e := range c.entries {
		e.accounts = nil
		e.valid = false
	}
	logger.Log("Graph cache invalidated (generation %d)", c.generation)
}

func (c *Cache) Valid(kind Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[kind]
	return ok && e.valid
}

func (c *Cache) lookup(kind Kind) ([]domain.Account, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[kind]
	if e.valid {
		return slices.Clone(e.accounts), c.generation, true
	}
	return nil, c.generation, false
}

// fill runs one fetch and stores it unless the cache was invalidated while it
// ran. The result carries the generation the fetch started in.
func (c *Cache) fill(ctx context.Context, kind Kind, fetch FetchFunc) (fetched, error) {
	_, generation, _ := c.lookup(kind)

	accounts, err := fetch(ctx)
	if err != nil {
		logger.LogError("CACHE_FETCH", string(kind), err)
		return fetched{}, err
	}

	sorted := SortAccounts(accounts)

	c.mu.Lock()
	if c.generation == generation {
		e := c.entries[kind]
		e.accounts = sorted
		e.valid = true
	}
	c.mu.Unlock()

	logger.Log("Graph cache: fetched %d %s", len(sorted), kind)
	return fetched{accounts: sorted, generation: generation}, nil
}

type fetched struct {
	accounts   []domain.Account
	generation uint64
}

// get serves kind from the cache or joins the single in-flight fetch for it.
// A caller that arrived after an Invalidate does not accept a fetch that
// started before it; it waits for that fetch to finish and starts another.
// The shared fetch outlives any one caller's cancellation.
func (c *Cache) get(ctx context.Context, kind Kind, fetch FetchFunc) ([]domain.Account, error) {
	for {
		cached, generation, ok := c.lookup(kind)
		if ok {
			return cached, nil
		}

		ch := c.flight.DoChan(string(kind), func() (interface{}, error) {
			return c.fill(context.WithoutCancel(ctx), kind, fetch)
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

		got := res.Val.(fetched)
		if got.generation < generation {
			logger.Log("Graph cache: discarding %s fetch from before invalidation", kind)
			continue
		}
		if res.Shared {
			logger.Log("Graph cache: joined in-flight %s fetch", kind)
		}
		return slices.Clone(got.accounts), nil
	}
}

// SortAccounts returns a copy ordered by lowercase login.
func SortAccounts(accounts []domain.Account) []domain.Account {
	sorted := slices.Clone(accounts)
	slices.SortStableFunc(sorted, func(a, b domain.Account) int {
		return domain.CompareFold(a.Login, b.Login)
	})
	return sorted
}
