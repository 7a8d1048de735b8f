package common

import (
	"fmt"
	"strings"
)

// ParseRepositoryFullName splits "owner/name".
func ParseRepositoryFullName(fullName string) (owner, repo string, err error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: expected 'owner/repo', got '%s'", ErrInvalidIdentifierFormat, fullName)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("%w: owner and repo must be non-empty", ErrInvalidIdentifierFormat)
	}

	return owner, repo, nil
}

// ValidateLogin rejects logins that could not address a GitHub account.
func ValidateLogin(login string) error {
	if login == "" {
		return fmt.Errorf("%w: login must be non-empty", ErrInvalidIdentifierFormat)
	}
	if strings.ContainsAny(login, "/ \t\n") {
		return fmt.Errorf("%w: invalid login '%s'", ErrInvalidIdentifierFormat, login)
	}
	return nil
}
