package storage

import "github.com/johanforsgren/followsweep/internal/domain"

// exclusionFile is the on-disk form of the exclusion list.
type exclusionFile struct {
	Users []string `json:"users"`
	Repos []string `json:"repos"`
}

func toFile(list domain.ExclusionList) exclusionFile {
	return exclusionFile{
		Users: list.Users.Sorted(),
		Repos: list.Repos.Sorted(),
	}
}

func (f exclusionFile) toList() domain.ExclusionList {
	list := domain.NewExclusionList()
	for _, login := range f.Users {
		list.Users.Add(login)
	}
	for _, fullName := range f.Repos {
		list.Repos.Add(fullName)
	}
	return list
}
