package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/johanforsgren/followsweep/internal/provider/common"
	"golang.org/x/oauth2"
)

const defaultPageSize = 100

type ClientOptions struct {
	// BaseURL targets GitHub Enterprise or a test server. Empty means api.github.com.
	BaseURL  string
	PageSize int
	LogHTTP  bool
}

type Client struct {
	client   *github.Client
	pageSize int
}

func NewClient(token string, opts ClientOptions) (*Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	if opts.LogHTTP {
		tc.Transport = common.NewLoggingTransport(tc.Transport)
	}
	client := github.NewClient(tc)

	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", opts.BaseURL, err)
		}
		client.BaseURL = u
	}

	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = defaultPageSize
	}

	return &Client{
		client:   client,
		pageSize: pageSize,
	}, nil
}

func (c *Client) GetAuthenticatedUser(ctx context.Context) (*github.User, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return nil, err
	}
	return user, nil
}

// listAllUsers walks every page of a user listing.
func (c *Client) listAllUsers(ctx context.Context, list func(context.Context, string, *github.ListOptions) ([]*github.User, *github.Response, error)) ([]*github.User, error) {
	opts := &github.ListOptions{PerPage: c.pageSize}
	var all []*github.User

	for {
		users, resp, err := list(ctx, "", opts)
		if err != nil {
			return nil, err
		}
		all = append(all, users...)

		if resp == nil || resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}

func (c *Client) ListFollowing(ctx context.Context) ([]*github.User, error) {
	return c.listAllUsers(ctx, c.client.Users.ListFollowing)
}

func (c *Client) ListFollowers(ctx context.Context) ([]*github.User, error) {
	return c.listAllUsers(ctx, c.client.Users.ListFollowers)
}

func (c *Client) ListStarred(ctx context.Context) ([]*github.StarredRepository, error) {
	opts := &github.ActivityListStarredOptions{
		Sort:        "full_name",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: c.pageSize},
	}
	var all []*github.StarredRepository

	for {
		repos, resp, err := c.client.Activity.ListStarred(ctx, "", opts)
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)

		if resp == nil || resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}

func (c *Client) GetUser(ctx context.Context, login string) (*github.User, error) {
	user, _, err := c.client.Users.Get(ctx, login)
	return user, err
}

func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error) {
	r, _, err := c.client.Repositories.Get(ctx, owner, repo)
	return r, err
}

func (c *Client) Follow(ctx context.Context, login string) error {
	_, err := c.client.Users.Follow(ctx, login)
	return err
}

func (c *Client) Unfollow(ctx context.Context, login string) error {
	_, err := c.client.Users.Unfollow(ctx, login)
	return err
}

func (c *Client) Unstar(ctx context.Context, owner, repo string) error {
	_, err := c.client.Activity.Unstar(ctx, owner, repo)
	return err
}
