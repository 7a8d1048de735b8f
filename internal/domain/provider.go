package domain

import "context"

// GraphClient is the remote social graph of the authenticated user.
// Implementations return errors matching ErrRemote, ErrNotFound,
// ErrNotAuthenticated, ErrRateLimited or ErrUnreachable.
type GraphClient interface {
	GetType() ProviderType

	Authenticate(ctx context.Context) (Identity, error)

	ListFollowing(ctx context.Context) ([]Account, error)

	ListFollowers(ctx context.Context) ([]Account, error)

	ListStarred(ctx context.Context) ([]Repository, error)

	Follow(ctx context.Context, account Account) error

	Unfollow(ctx context.Context, account Account) error

	Unstar(ctx context.Context, repo Repository) error

	ResolveAccount(ctx context.Context, login string) (Account, error)

	ResolveRepository(ctx context.Context, fullName string) (Repository, error)
}
