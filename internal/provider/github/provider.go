package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/google/go-github/v57/github"
	"github.com/johanforsgren/followsweep/internal/domain"
	"github.com/johanforsgren/followsweep/internal/logger"
	"github.com/johanforsgren/followsweep/internal/provider/common"
)

// Provider implements domain.GraphClient on top of the GitHub REST API.
type Provider struct {
	client   *Client
	hasToken bool

	mu       sync.Mutex
	identity *domain.Identity
}

func NewProvider(token string, opts ClientOptions) (*Provider, error) {
	client, err := NewClient(token, opts)
	if err != nil {
		return nil, err
	}
	return &Provider{
		client:   client,
		hasToken: token != "",
	}, nil
}

func (p *Provider) GetType() domain.ProviderType {
	return domain.ProviderGitHub
}

func (p *Provider) Authenticate(ctx context.Context) (domain.Identity, error) {
	if !p.hasToken {
		logger.LogError("GITHUB_AUTH", "", domain.ErrNotAuthenticated)
		return domain.Identity{}, fmt.Errorf("%w: no token configured", domain.ErrNotAuthenticated)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.identity != nil {
		return *p.identity, nil
	}

	user, err := p.client.GetAuthenticatedUser(ctx)
	if err != nil {
		err = classify("authenticate", "", err)
		logger.LogError("GITHUB_AUTH", "", err)
		return domain.Identity{}, err
	}

	p.identity = &domain.Identity{Login: user.GetLogin(), ID: user.GetID()}
	logger.Log("GitHub: Authenticated as %s", p.identity.Login)
	return *p.identity, nil
}

func (p *Provider) ListFollowing(ctx context.Context) ([]domain.Account, error) {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	logger.Log("GitHub: Listing following")
	users, err := p.client.ListFollowing(ctx)
	if err != nil {
		err = classify("list following", "", err)
		logger.LogError("GITHUB_LIST_FOLLOWING", "", err)
		return nil, err
	}

	logger.Log("GitHub: Found %d followed accounts", len(users))
	return convertUsers(users), nil
}

func (p *Provider) ListFollowers(ctx context.Context) ([]domain.Account, error) {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	logger.Log("GitHub: Listing followers")
	users, err := p.client.ListFollowers(ctx)
	if err != nil {
		err = classify("list followers", "", err)
		logger.LogError("GITHUB_LIST_FOLLOWERS", "", err)
		return nil, err
	}

	logger.Log("GitHub: Found %d followers", len(users))
	return convertUsers(users), nil
}

func (p *Provider) ListStarred(ctx context.Context) ([]domain.Repository, error) {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	logger.Log("GitHub: Listing starred repositories")
	starred, err := p.client.ListStarred(ctx)
	if err != nil {
		err = classify("list starred", "", err)
		logger.LogError("GITHUB_LIST_STARRED", "", err)
		return nil, err
	}

	repos := make([]domain.Repository, 0, len(starred))
	for _, s := range starred {
		if s.Repository == nil {
			continue
		}
		repos = append(repos, convertRepository(s.Repository))
	}

	logger.Log("GitHub: Found %d starred repositories", len(repos))
	return repos, nil
}

func (p *Provider) Follow(ctx context.Context, account domain.Account) error {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return err
	}
	if err := common.ValidateLogin(account.Login); err != nil {
		return err
	}

	if err := p.client.Follow(ctx, account.Login); err != nil {
		err = classify("follow", account.Login, err)
		logger.LogError("GITHUB_FOLLOW", account.Login, err)
		return err
	}

	logger.LogMutation("FOLLOW", account.Login)
	return nil
}

func (p *Provider) Unfollow(ctx context.Context, account domain.Account) error {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return err
	}
	if err := common.ValidateLogin(account.Login); err != nil {
		return err
	}

	if err := p.client.Unfollow(ctx, account.Login); err != nil {
		err = classify("unfollow", account.Login, err)
		logger.LogError("GITHUB_UNFOLLOW", account.Login, err)
		return err
	}

	logger.LogMutation("UNFOLLOW", account.Login)
	return nil
}

func (p *Provider) Unstar(ctx context.Context, repo domain.Repository) error {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return err
	}

	owner, name, err := common.ParseRepositoryFullName(repo.FullName)
	if err != nil {
		logger.LogError("GITHUB_UNSTAR", repo.FullName, err)
		return err
	}

	if err := p.client.Unstar(ctx, owner, name); err != nil {
		err = classify("unstar", repo.FullName, err)
		logger.LogError("GITHUB_UNSTAR", repo.FullName, err)
		return err
	}

	logger.LogMutation("UNSTAR", repo.FullName)
	return nil
}

func (p *Provider) ResolveAccount(ctx context.Context, login string) (domain.Account, error) {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return domain.Account{}, err
	}
	if err := common.ValidateLogin(login); err != nil {
		return domain.Account{}, err
	}

	user, err := p.client.GetUser(ctx, login)
	if err != nil {
		err = classify("resolve account", login, err)
		logger.LogError("GITHUB_RESOLVE_ACCOUNT", login, err)
		return domain.Account{}, err
	}

	return convertUser(user), nil
}

func (p *Provider) ResolveRepository(ctx context.Context, fullName string) (domain.Repository, error) {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return domain.Repository{}, err
	}

	owner, name, err := common.ParseRepositoryFullName(fullName)
	if err != nil {
		logger.LogError("GITHUB_RESOLVE_REPO", fullName, err)
		return domain.Repository{}, err
	}

	repo, err := p.client.GetRepository(ctx, owner, name)
	if err != nil {
		err = classify("resolve repository", fullName, err)
		logger.LogError("GITHUB_RESOLVE_REPO", fullName, err)
		return domain.Repository{}, err
	}

	return convertRepository(repo), nil
}

func (p *Provider) ensureAuthenticated(ctx context.Context) error {
	_, err := p.Authenticate(ctx)
	return err
}

// classify maps go-github and transport errors onto the domain taxonomy.
// Context errors pass through untouched.
func classify(op, target string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	remote := &domain.RemoteError{Op: op, Target: target, Kind: domain.RemoteOther, Err: err}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var respErr *github.ErrorResponse
	var netErr net.Error

	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		remote.Kind = domain.RemoteRateLimited
	case errors.As(err, &respErr) && respErr.Response != nil:
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized:
			remote.Kind = domain.RemoteUnauthorized
		case http.StatusNotFound:
			remote.Kind = domain.RemoteNotFound
		case http.StatusTooManyRequests:
			remote.Kind = domain.RemoteRateLimited
		}
	case errors.As(err, &netErr):
		remote.Kind = domain.RemoteUnreachable
	}

	return remote
}

func convertUsers(users []*github.User) []domain.Account {
	accounts := make([]domain.Account, 0, len(users))
	for _, u := range users {
		if u == nil || u.GetLogin() == "" {
			continue
		}
		accounts = append(accounts, convertUser(u))
	}
	return accounts
}

func convertUser(u *github.User) domain.Account {
	return domain.Account{
		Login:   u.GetLogin(),
		ID:      u.GetID(),
		Name:    u.GetName(),
		HTMLURL: u.GetHTMLURL(),
	}
}

func convertRepository(r *github.Repository) domain.Repository {
	return domain.Repository{
		FullName:    r.GetFullName(),
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		ID:          r.GetID(),
		Description: r.GetDescription(),
		Stars:       r.GetStargazersCount(),
		HTMLURL:     r.GetHTMLURL(),
	}
}
