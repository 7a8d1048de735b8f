package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/johanforsgren/followsweep/internal/domain"
	"github.com/johanforsgren/followsweep/internal/logger"
)

const (
	configDir         = ".followsweep"
	exclusionFileName = "exclude_list.json"
)

// LocalExclusionStore keeps the exclusion list in memory and mirrors every
// mutation to a JSON file.
type LocalExclusionStore struct {
	path string
	list domain.ExclusionList
	mu   sync.RWMutex
}

// DefaultExclusionPath returns ~/.followsweep/exclude_list.json.
func DefaultExclusionPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir, exclusionFileName), nil
}

// NewLocalExclusionStore opens the store at path, or at the default location
// when path is empty. A missing file yields an empty list.
func NewLocalExclusionStore(path string) (*LocalExclusionStore, error) {
	if path == "" {
		defaultPath, err := DefaultExclusionPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	store := &LocalExclusionStore{
		path: path,
		list: domain.NewExclusionList(),
	}

	if err := store.ensureDir(); err != nil {
		return nil, err
	}

	list, err := store.Load()
	if err != nil {
		return nil, err
	}

	store.mu.Lock()
	store.list = list
	store.mu.Unlock()

	return store, nil
}

func (s *LocalExclusionStore) Path() string {
	return s.path
}

func (s *LocalExclusionStore) ensureDir() error {
	return os.MkdirAll(filepath.Dir(s.path), 0700)
}

// Load reads the file from disk without touching the in-memory list.
func (s *LocalExclusionStore) Load() (domain.ExclusionList, error) {
	logger.LogFileOpen(s.path)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Log("No exclusion list at %s, starting empty", s.path)
			return domain.NewExclusionList(), nil
		}
		logger.LogError("LOAD", s.path, err)
		return domain.ExclusionList{}, fmt.Errorf("failed to read exclusion list: %w", err)
	}

	var file exclusionFile
	if err := json.Unmarshal(data, &file); err != nil {
		logger.LogError("UNMARSHAL", s.path, err)
		return domain.ExclusionList{}, fmt.Errorf("failed to parse exclusion list %s: %w", s.path, err)
	}

	list := file.toList()
	logger.Log("Exclusion list loaded from %s: %d users, %d repos", s.path, len(list.Users), len(list.Repos))
	return list, nil
}

// Save replaces the file with list and makes list the in-memory state.
func (s *LocalExclusionStore) Save(list domain.ExclusionList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.list = list.Clone()
	return s.save()
}

// save writes s.list atomically. Callers hold s.mu.
func (s *LocalExclusionStore) save() error {
	data, err := json.MarshalIndent(toFile(s.list), "", "    ")
	if err != nil {
		logger.LogError("MARSHAL", s.path, err)
		return fmt.Errorf("%w: failed to marshal: %w", domain.ErrPersistence, err)
	}
	data = append(data, '\n')

	logger.LogFileWrite(s.path)
	if err := writeFileAtomic(s.path, data, 0600); err != nil {
		logger.LogError("SAVE", s.path, err)
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	logger.Log("Exclusion list saved to %s", s.path)
	return nil
}

// writeFileAtomic never leaves path truncated: the data goes to a temp file
// in the same directory which is then renamed over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (s *LocalExclusionStore) Snapshot() domain.ExclusionList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list.Clone()
}

func (s *LocalExclusionStore) HasUser(login string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list.Users.Has(login)
}

func (s *LocalExclusionStore) HasRepo(fullName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list.Repos.Has(fullName)
}

func (s *LocalExclusionStore) AddUser(login string) error {
	return s.mutate(func(list domain.ExclusionList) bool {
		return list.Users.Add(login)
	}, "Excluding user "+login)
}

func (s *LocalExclusionStore) RemoveUser(login string) error {
	return s.mutate(func(list domain.ExclusionList) bool {
		return list.Users.Remove(login)
	}, "Removing user exclusion "+login)
}

func (s *LocalExclusionStore) AddRepo(fullName string) error {
	return s.mutate(func(list domain.ExclusionList) bool {
		return list.Repos.Add(fullName)
	}, "Excluding repo "+fullName)
}

func (s *LocalExclusionStore) RemoveRepo(fullName string) error {
	return s.mutate(func(list domain.ExclusionList) bool {
		return list.Repos.Remove(fullName)
	}, "Removing repo exclusion "+fullName)
}

func (s *LocalExclusionStore) Clear() error {
	return s.mutate(func(list domain.ExclusionList) bool {
		changed := list.Len() > 0
		clear(list.Users)
		clear(list.Repos)
		return changed
	}, "Clearing all exclusions")
}

// mutate applies change under the lock and persists. No-op changes skip the
// write.
func (s *LocalExclusionStore) mutate(change func(domain.ExclusionList) bool, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !change(s.list) {
		return nil
	}

	logger.Log("%s", description)
	return s.save()
}

// Flush persists the in-memory list, e.g. to retry after a failed save.
func (s *LocalExclusionStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// reload replaces the in-memory list with what is on disk and reports whether
// anything changed.
func (s *LocalExclusionStore) reload() (domain.ExclusionList, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.Load()
	if err != nil {
		return domain.ExclusionList{}, false, err
	}
	if list.Equal(s.list) {
		return s.list.Clone(), false, nil
	}

	s.list = list
	return list.Clone(), true, nil
}
