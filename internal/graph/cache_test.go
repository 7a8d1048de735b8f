package graph

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/johanforsgren/followsweep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accounts(logins ...string) []domain.Account {
	out := make([]domain.Account, 0, len(logins))
	for _, l := range logins {
		out = append(out, domain.Account{Login: l})
	}
	return out
}

func loginsOf(list []domain.Account) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Login)
	}
	return out
}

type countingFetch struct {
	calls  atomic.Int32
	result []domain.Account
	err    error
}

func (f *countingFetch) fetch(ctx context.Context) ([]domain.Account, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestCacheHitsAfterFirstFetch(t *testing.T) {
	cache := NewCache()
	f := &countingFetch{result: accounts("carol", "Alice", "bob")}

	first, err := cache.Following(context.Background(), f.fetch)
	require.NoError(t, err)
	second, err := cache.Following(context.Background(), f.fetch)
	require.NoError(t, err)

	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, []string{"Alice", "bob", "carol"}, loginsOf(first))
	assert.Equal(t, first, second)
	assert.True(t, cache.Valid(KindFollowing))
	assert.False(t, cache.Valid(KindFollowers))
}

func TestCacheReturnsCopies(t *testing.T) {
	cache := NewCache()
	f := &countingFetch{result: accounts("alice", "bob")}

	first, err := cache.Followers(context.Background(), f.fetch)
	require.NoError(t, err)
	first[0].Login = "mallory"

	second, err := cache.Followers(context.Background(), f.fetch)
	require.NoError(t, err)
	assert.Equal(t, "alice", second[0].Login)
}

func TestInvalidateForcesRefetchOfBothKinds(t *testing.T) {
	cache := NewCache()
	following := &countingFetch{result: accounts("alice")}
	followers := &countingFetch{result: accounts("bob")}
	ctx := context.Background()

	_, err := cache.Following(ctx, following.fetch)
	require.NoError(t, err)
	_, err = cache.Followers(ctx, followers.fetch)
	require.NoError(t, err)

	cache.Invalidate()
	assert.False(t, cache.Valid(KindFollowing))
	assert.False(t, cache.Valid(KindFollowers))

	_, err = cache.Following(ctx, following.fetch)
	require.NoError(t, err)
	_, err = cache.Followers(ctx, followers.fetch)
	require.NoError(t, err)

	assert.Equal(t, int32(2), following.calls.Load())
	assert.Equal(t, int32(2), followers.calls.Load())
}

func TestFetchErrorLeavesPriorState(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := cache.Following(ctx, (&countingFetch{err: boom}).fetch)
	assert.ErrorIs(t, err, boom)
	assert.False(t, cache.Valid(KindFollowing))

	ok := &countingFetch{result: accounts("alice")}
	_, err = cache.Following(ctx, ok.fetch)
	require.NoError(t, err)
	assert.True(t, cache.Valid(KindFollowing))
}

func TestConcurrentMissesShareOneFetch(t *testing.T) {
	cache := NewCache()
	release := make(chan struct{})
	var calls atomic.Int32

	fetch := func(ctx context.Context) ([]domain.Account, error) {
		calls.Add(1)
		<-release
		return accounts("alice"), nil
	}

	const callers = 8
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			got, err := cache.Following(context.Background(), fetch)
			assert.NoError(t, err)
			assert.Equal(t, []string{"alice"}, loginsOf(got))
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchStartedBeforeInvalidateIsNotStored(t *testing.T) {
	cache := NewCache()
	started := make(chan struct{})
	release := make(chan struct{})

	stale := func(ctx context.Context) ([]domain.Account, error) {
		close(started)
		<-release
		return accounts("stale"), nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = cache.Following(context.Background(), stale)
	}()

	<-started
	cache.Invalidate()
	close(release)
	<-done

	assert.False(t, cache.Valid(KindFollowing))

	fresh := &countingFetch{result: accounts("fresh")}
	got, err := cache.Following(context.Background(), fresh.fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, loginsOf(got))
	assert.Equal(t, int32(1), fresh.calls.Load())
}

func TestSortAccountsIsCaseInsensitive(t *testing.T) {
	sorted := SortAccounts(accounts("b", "B", "a", "C"))
	assert.Equal(t, []string{"a", "B", "b", "C"}, loginsOf(sorted))
}

func TestInvalidateQueuesBehindInFlightFetch(t *testing.T) {
	cache := NewCache()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls, inFlight, peak atomic.Int32

	fetch := func(ctx context.Context) ([]domain.Account, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return accounts("stale"), nil
		}
		return accounts("fresh"), nil
	}

	first := make(chan []domain.Account, 1)
	go func() {
		got, err := cache.Following(context.Background(), fetch)
		assert.NoError(t, err)
		first <- got
	}()
	<-started
	cache.Invalidate()

	second := make(chan []domain.Account, 1)
	go func() {
		got, err := cache.Following(context.Background(), fetch)
		assert.NoError(t, err)
		second <- got
	}()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "second fetch must wait for the first")

	close(release)
	assert.Equal(t, []string{"stale"}, loginsOf(<-first))
	assert.Equal(t, []string{"fresh"}, loginsOf(<-second))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), peak.Load())

	cached, err := cache.Following(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, loginsOf(cached))
}

func TestCancelledCallerDoesNotFailJoiners(t *testing.T) {
	cache := NewCache()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	fetch := func(ctx context.Context) ([]domain.Account, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return accounts("alice"), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	leader := make(chan error, 1)
	go func() {
		_, err := cache.Following(ctx, fetch)
		leader <- err
	}()
	<-started
	cancel()
	assert.ErrorIs(t, <-leader, context.Canceled)

	joiner := make(chan []domain.Account, 1)
	go func() {
		got, err := cache.Following(context.Background(), fetch)
		assert.NoError(t, err)
		joiner <- got
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)

	assert.Equal(t, []string{"alice"}, loginsOf(<-joiner))
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, cache.Valid(KindFollowing))
}
