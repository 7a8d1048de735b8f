package domain

import (
	"slices"
	"strings"
)

// StringSet is a set of identifiers (logins or repository full names).
type StringSet map[string]struct{}

func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Add reports whether item was not already present.
func (s StringSet) Add(item string) bool {
	if _, ok := s[item]; ok {
		return false
	}
	s[item] = struct{}{}
	return true
}

// Remove reports whether item was present.
func (s StringSet) Remove(item string) bool {
	if _, ok := s[item]; !ok {
		return false
	}
	delete(s, item)
	return true
}

func (s StringSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for item := range s {
		out[item] = struct{}{}
	}
	return out
}

// Sorted returns the members ordered by lowercase value, then by raw value.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for item := range s {
		out = append(out, item)
	}
	slices.SortFunc(out, CompareFold)
	return out
}

// CompareFold orders strings case-insensitively with a case-sensitive tie-break
// so the resulting order is total.
func CompareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// ExclusionList holds the logins and repositories that bulk runs never touch.
type ExclusionList struct {
	Users StringSet
	Repos StringSet
}

func NewExclusionList() ExclusionList {
	return ExclusionList{
		Users: StringSet{},
		Repos: StringSet{},
	}
}

func (l ExclusionList) Clone() ExclusionList {
	return ExclusionList{
		Users: l.Users.Clone(),
		Repos: l.Repos.Clone(),
	}
}

func (l ExclusionList) Len() int {
	return len(l.Users) + len(l.Repos)
}

func (l ExclusionList) Equal(other ExclusionList) bool {
	return setsEqual(l.Users, other.Users) && setsEqual(l.Repos, other.Repos)
}

func setsEqual(a, b StringSet) bool {
	if len(a) != len(b) {
		return false
	}
	for item := range a {
		if !b.Has(item) {
			return false
		}
	}
	return true
}
