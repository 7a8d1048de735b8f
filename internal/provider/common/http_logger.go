package common

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/johanforsgren/followsweep/internal/logger"
)

// LoggingTransport wraps an http.RoundTripper and writes one log line per
// request with the status, duration and remaining rate-limit budget.
type LoggingTransport struct {
	Transport http.RoundTripper
}

func NewLoggingTransport(transport http.RoundTripper) *LoggingTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &LoggingTransport{
		Transport: transport,
	}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		logger.LogError("HTTP_REQUEST", fmt.Sprintf("%s %s", req.Method, RedactURL(req)), err)
		return nil, err
	}

	logger.Log("HTTP: %s", describeExchange(req, resp, duration))
	return resp, nil
}

func describeExchange(req *http.Request, resp *http.Response, duration time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s - %s (%v)", req.Method, RedactURL(req), resp.Status, duration.Round(time.Millisecond))

	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		fmt.Fprintf(&b, " rate-limit remaining=%s", remaining)
		if limit := resp.Header.Get("X-RateLimit-Limit"); limit != "" {
			fmt.Fprintf(&b, "/%s", limit)
		}
	}
	return b.String()
}

// RedactURL drops query values that may carry credentials.
func RedactURL(req *http.Request) string {
	u := *req.URL
	q := u.Query()
	for name := range q {
		if isSensitiveParam(name) {
			q.Set(name, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func isSensitiveParam(name string) bool {
	switch strings.ToLower(name) {
	case "access_token", "token", "client_secret", "api_key":
		return true
	}
	return false
}
