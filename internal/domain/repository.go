package domain

// ExclusionRepository persists the exclusion list. Mutations are idempotent
// and persist immediately; a failed save keeps the in-memory change and
// returns an error matching ErrPersistence.
type ExclusionRepository interface {
	Load() (ExclusionList, error)

	Save(list ExclusionList) error

	Snapshot() ExclusionList

	AddUser(login string) error

	RemoveUser(login string) error

	AddRepo(fullName string) error

	RemoveRepo(fullName string) error

	Clear() error
}
