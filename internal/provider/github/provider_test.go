package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/johanforsgren/followsweep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu        sync.Mutex
	following []string
	followers []string
	starred   []string
	unfollows []string
	follows   []string
	unstars   []string
	server    *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":"me","id":1}`)
	})
	mux.HandleFunc("GET /user/following", func(w http.ResponseWriter, r *http.Request) {
		api.writeUserPage(w, r, "/user/following", api.following)
	})
	mux.HandleFunc("GET /user/followers", func(w http.ResponseWriter, r *http.Request) {
		api.writeUserPage(w, r, "/user/followers", api.followers)
	})
	mux.HandleFunc("GET /user/starred", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[")
		for i, name := range api.starred {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"starred_at":"2024-01-01T00:00:00Z","repo":{"id":%d,"full_name":%q,"name":"x","owner":{"login":"a"}}}`, i+1, name)
		}
		fmt.Fprint(w, "]")
	})
	mux.HandleFunc("PUT /user/following/{login}", func(w http.ResponseWriter, r *http.Request) {
		api.record(&api.follows, r.PathValue("login"))
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /user/following/{login}", func(w http.ResponseWriter, r *http.Request) {
		login := r.PathValue("login")
		if login == "limited" {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
			return
		}
		api.record(&api.unfollows, login)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /user/starred/{owner}/{repo}", func(w http.ResponseWriter, r *http.Request) {
		api.record(&api.unstars, r.PathValue("owner")+"/"+r.PathValue("repo"))
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /users/{login}", func(w http.ResponseWriter, r *http.Request) {
		login := r.PathValue("login")
		if login == "ghost" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
			return
		}
		fmt.Fprintf(w, `{"login":%q,"id":42,"name":"Some Body"}`, login)
	})
	mux.HandleFunc("GET /repos/{owner}/{repo}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id":7,"full_name":"%s/%s","name":%q,"owner":{"login":%q},"stargazers_count":12}`,
			r.PathValue("owner"), r.PathValue("repo"), r.PathValue("repo"), r.PathValue("owner"))
	})

	api.server = httptest.NewServer(mux)
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeAPI) record(list *[]string, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	*list = append(*list, value)
}

// writeUserPage paginates logins with GitHub-style Link headers.
func (a *fakeAPI) writeUserPage(w http.ResponseWriter, r *http.Request, path string, logins []string) {
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage <= 0 {
		perPage = 30
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * perPage
	end := min(start+perPage, len(logins))
	if start > len(logins) {
		start = len(logins)
	}
	if end < len(logins) {
		w.Header().Set("Link", fmt.Sprintf(`<%s%s?page=%d&per_page=%d>; rel="next"`, a.server.URL, path, page+1, perPage))
	}

	fmt.Fprint(w, "[")
	for i, login := range logins[start:end] {
		if i > 0 {
			fmt.Fprint(w, ",")
		}
		fmt.Fprintf(w, `{"login":%q,"id":%d}`, login, start+i+1)
	}
	fmt.Fprint(w, "]")
}

func newTestProvider(t *testing.T, api *fakeAPI) *Provider {
	t.Helper()
	p, err := NewProvider("test-token", ClientOptions{BaseURL: api.server.URL, PageSize: 2})
	require.NoError(t, err)
	return p
}

func logins(accounts []domain.Account) []string {
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Login)
	}
	return out
}

func TestAuthenticate(t *testing.T) {
	api := newFakeAPI(t)
	p := newTestProvider(t, api)

	identity, err := p.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me", identity.Login)
	assert.Equal(t, int64(1), identity.ID)
}

func TestAuthenticateWithoutToken(t *testing.T) {
	api := newFakeAPI(t)
	p, err := NewProvider("", ClientOptions{BaseURL: api.server.URL})
	require.NoError(t, err)

	_, err = p.Authenticate(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, err = p.ListFollowing(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestAuthenticateUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Bad credentials"}`)
	}))
	defer server.Close()

	p, err := NewProvider("bad-token", ClientOptions{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = p.Authenticate(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.True(t, domain.IsFatal(err))
}

func TestListFollowingWalksAllPages(t *testing.T) {
	api := newFakeAPI(t)
	api.following = []string{"alice", "bob", "carol", "dave", "erin"}
	p := newTestProvider(t, api)

	accounts, err := p.ListFollowing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.following, logins(accounts))
}

func TestListFollowers(t *testing.T) {
	api := newFakeAPI(t)
	api.followers = []string{"bob", "dave", "erin"}
	p := newTestProvider(t, api)

	accounts, err := p.ListFollowers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.followers, logins(accounts))
}

func TestListStarred(t *testing.T) {
	api := newFakeAPI(t)
	api.starred = []string{"a/x", "a/y", "b/z"}
	p := newTestProvider(t, api)

	repos, err := p.ListStarred(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 3)
	assert.Equal(t, "a/x", repos[0].FullName)
	assert.Equal(t, "b/z", repos[2].FullName)
}

func TestMutations(t *testing.T) {
	api := newFakeAPI(t)
	p := newTestProvider(t, api)
	ctx := context.Background()

	require.NoError(t, p.Follow(ctx, domain.Account{Login: "dave"}))
	require.NoError(t, p.Unfollow(ctx, domain.Account{Login: "alice"}))
	require.NoError(t, p.Unstar(ctx, domain.Repository{FullName: "a/x"}))

	assert.Equal(t, []string{"dave"}, api.follows)
	assert.Equal(t, []string{"alice"}, api.unfollows)
	assert.Equal(t, []string{"a/x"}, api.unstars)
}

func TestUnstarRejectsMalformedFullName(t *testing.T) {
	api := newFakeAPI(t)
	p := newTestProvider(t, api)

	err := p.Unstar(context.Background(), domain.Repository{FullName: "not-a-repo"})
	assert.Error(t, err)
	assert.Empty(t, api.unstars)
}

func TestUnfollowRateLimited(t *testing.T) {
	api := newFakeAPI(t)
	p := newTestProvider(t, api)

	err := p.Unfollow(context.Background(), domain.Account{Login: "limited"})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.False(t, domain.IsFatal(err))
}

func TestResolveAccount(t *testing.T) {
	api := newFakeAPI(t)
	p := newTestProvider(t, api)

	account, err := p.ResolveAccount(context.Background(), "dave")
	require.NoError(t, err)
	assert.Equal(t, "dave", account.Login)
	assert.Equal(t, "Some Body", account.Name)

	_, err = p.ResolveAccount(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, domain.IsFatal(err))
}

func TestResolveRepository(t *testing.T) {
	api := newFakeAPI(t)
	p := newTestProvider(t, api)

	repo, err := p.ResolveRepository(context.Background(), "a/x")
	require.NoError(t, err)
	assert.Equal(t, "a/x", repo.FullName)
	assert.Equal(t, "a", repo.Owner)
	assert.Equal(t, 12, repo.Stars)
}

func TestUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	p, err := NewProvider("token", ClientOptions{BaseURL: url})
	require.NoError(t, err)

	_, err = p.ListFollowing(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnreachable)
	assert.True(t, domain.IsFatal(err))
}

func TestClassifyPassesContextErrors(t *testing.T) {
	assert.Equal(t, context.Canceled, classify("op", "", context.Canceled))
	assert.Nil(t, classify("op", "", nil))
}
