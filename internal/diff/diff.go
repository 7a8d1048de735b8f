// Package diff computes the set differences behind each bulk action. Every
// function here is pure and total.
package diff

import (
	"slices"

	"github.com/johanforsgren/followsweep/internal/domain"
)

// NonFollowers returns the accounts in following whose login is neither in
// followers nor in excludedUsers, de-duplicated by login and sorted by
// lowercase login.
func NonFollowers(following, followers []domain.Account, excludedUsers domain.StringSet) []domain.Account {
	followerLogins := loginSet(followers)
	seen := make(domain.StringSet, len(following))

	var out []domain.Account
	for _, account := range following {
		login := account.Login
		if followerLogins.Has(login) || excludedUsers.Has(login) {
			continue
		}
		if !seen.Add(login) {
			continue
		}
		out = append(out, account)
	}

	slices.SortStableFunc(out, func(a, b domain.Account) int {
		return domain.CompareFold(a.Login, b.Login)
	})
	return out
}

// NotFollowedBack returns the logins in followers that are absent from
// following. The result carries no order; use SortedLogins for display.
func NotFollowedBack(followers, following []domain.Account) domain.StringSet {
	followingLogins := loginSet(following)
	out := domain.StringSet{}
	for _, account := range followers {
		if !followingLogins.Has(account.Login) {
			out.Add(account.Login)
		}
	}
	return out
}

func SortedLogins(logins domain.StringSet) []string {
	return logins.Sorted()
}

// UnstarCandidates drops excluded and repeated names while keeping the input
// order.
func UnstarCandidates(all []string, excludedRepos domain.StringSet) []string {
	seen := make(domain.StringSet, len(all))
	out := make([]string, 0, len(all))
	for _, name := range all {
		if excludedRepos.Has(name) || !seen.Add(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func FullNames(repos []domain.Repository) []string {
	out := make([]string, 0, len(repos))
	for _, r := range repos {
		out = append(out, r.FullName)
	}
	return out
}

func Logins(accounts []domain.Account) []string {
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Login)
	}
	return out
}

func loginSet(accounts []domain.Account) domain.StringSet {
	set := make(domain.StringSet, len(accounts))
	for _, a := range accounts {
		set.Add(a.Login)
	}
	return set
}
