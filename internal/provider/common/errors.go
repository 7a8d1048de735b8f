package common

import (
	"errors"

	"github.com/google/go-github/v57/github"
	"github.com/johanforsgren/followsweep/internal/domain"
)

var (
	ErrInvalidIdentifierFormat = errors.New("invalid identifier format")
)

// ExtractErrorMessage turns an error from the graph client into a short
// status-line message. Classified remote errors are prefixed with their kind,
// and GitHub API errors are reduced to the API's own message.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	message := apiMessage(err)
	if message == "" {
		message = err.Error()
	}

	var remote *domain.RemoteError
	if errors.As(err, &remote) && remote.Kind != domain.RemoteOther {
		return remote.Kind.String() + ": " + message
	}
	return message
}

// apiMessage returns the most specific message GitHub sent, if err carries a
// go-github error.
func apiMessage(err error) string {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return rateErr.Message
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return abuseErr.Message
	}

	var respErr *github.ErrorResponse
	if !errors.As(err, &respErr) {
		return ""
	}
	for _, detail := range respErr.Errors {
		if detail.Message != "" {
			return detail.Message
		}
	}
	return respErr.Message
}
