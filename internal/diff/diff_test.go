package diff

import (
	"testing"

	"github.com/johanforsgren/followsweep/internal/domain"
	"github.com/stretchr/testify/assert"
)

func accounts(logins ...string) []domain.Account {
	out := make([]domain.Account, 0, len(logins))
	for i, l := range logins {
		out = append(out, domain.Account{Login: l, ID: int64(i + 1)})
	}
	return out
}

func TestNonFollowers(t *testing.T) {
	tests := []struct {
		name      string
		following []string
		followers []string
		excluded  []string
		want      []string
	}{
		{
			name:      "basic scenario",
			following: []string{"alice", "bob", "carol"},
			followers: []string{"bob"},
			want:      []string{"alice", "carol"},
		},
		{
			name:      "exclusions are dropped",
			following: []string{"alice", "bob", "carol"},
			followers: []string{"bob"},
			excluded:  []string{"carol"},
			want:      []string{"alice"},
		},
		{
			name:      "sorted by lowercase login",
			following: []string{"zed", "Bea", "adam"},
			want:      []string{"adam", "Bea", "zed"},
		},
		{
			name:      "duplicates collapse",
			following: []string{"alice", "alice", "bob"},
			want:      []string{"alice", "bob"},
		},
		{
			name:      "login matching is case-sensitive",
			following: []string{"Alice"},
			followers: []string{"alice"},
			excluded:  []string{"ALICE"},
			want:      []string{"Alice"},
		},
		{
			name:      "everyone follows back",
			following: []string{"bob"},
			followers: []string{"bob", "dave"},
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NonFollowers(accounts(tt.following...), accounts(tt.followers...), domain.NewStringSet(tt.excluded...))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, Logins(got))
		})
	}
}

func TestNonFollowersMatchesByLoginNotSnapshot(t *testing.T) {
	following := []domain.Account{{Login: "bob", ID: 2, Name: "Bob"}}
	followers := []domain.Account{{Login: "bob", ID: 99, Name: "Robert"}}

	assert.Empty(t, NonFollowers(following, followers, nil))
}

func TestNonFollowersIsRepeatable(t *testing.T) {
	following := accounts("carol", "alice", "bob")
	followers := accounts("bob")
	excluded := domain.NewStringSet()

	first := NonFollowers(following, followers, excluded)
	second := NonFollowers(following, followers, excluded)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"carol", "alice", "bob"}, Logins(following), "input must not be reordered")
}

func TestNotFollowedBack(t *testing.T) {
	got := NotFollowedBack(accounts("dave", "erin"), accounts("erin"))
	assert.Equal(t, domain.NewStringSet("dave"), got)

	assert.Empty(t, NotFollowedBack(nil, accounts("erin")))
}

func TestSortedLogins(t *testing.T) {
	got := SortedLogins(domain.NewStringSet("erin", "Dave", "carol"))
	assert.Equal(t, []string{"carol", "Dave", "erin"}, got)
}

func TestUnstarCandidates(t *testing.T) {
	all := []string{"a/x", "a/y", "b/z"}

	assert.Equal(t, []string{"a/x", "b/z"}, UnstarCandidates(all, domain.NewStringSet("a/y")))
	assert.Equal(t, all, UnstarCandidates(all, nil))
	assert.Equal(t, []string{"b/z", "a/x"}, UnstarCandidates([]string{"b/z", "a/x", "b/z"}, nil))
	assert.Empty(t, UnstarCandidates(nil, nil))
}

func TestFullNames(t *testing.T) {
	repos := []domain.Repository{{FullName: "a/x"}, {FullName: "b/z"}}
	assert.Equal(t, []string{"a/x", "b/z"}, FullNames(repos))
}
