package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no provider credentials are available.
var ErrNotConfigured = errors.New("AI service not configured")

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidKey indicates the provider rejected the configured credentials.
type ErrInvalidKey struct {
	Err error
}

func (e *ErrInvalidKey) Error() string {
	return fmt.Sprintf("invalid API key: %v", e.Err)
}

func (e *ErrInvalidKey) Unwrap() error { return e.Err }

// ErrQuotaExceeded indicates the account has exhausted its usage quota.
// Unlike ErrRateLimit, waiting a few seconds does not help.
type ErrQuotaExceeded struct {
	Err error
}

func (e *ErrQuotaExceeded) Error() string {
	return fmt.Sprintf("API quota exceeded: %v", e.Err)
}

func (e *ErrQuotaExceeded) Unwrap() error { return e.Err }

// ErrOverloaded indicates the provider is temporarily overloaded (503).
type ErrOverloaded struct {
	Err error
}

func (e *ErrOverloaded) Error() string {
	return fmt.Sprintf("LLM provider overloaded: %v", e.Err)
}

func (e *ErrOverloaded) Unwrap() error { return e.Err }

// ErrTimeout indicates a request exceeded its wall-clock budget.
type ErrTimeout struct {
	After time.Duration
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("LLM request timed out after %s", e.After)
}

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// IsOverloaded reports whether err signals temporary upstream
// unavailability (503 or an "overloaded" message). Credential, quota,
// timeout and malformed-output failures are not overload-class.
func IsOverloaded(err error) bool {
	var overloaded *ErrOverloaded
	return errors.As(err, &overloaded)
}

// classifyStatus maps an upstream HTTP status and message to the typed
// error taxonomy shared by every provider.
func classifyStatus(status int, message string, err error) error {
	msg := strings.ToLower(message)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden,
		strings.Contains(msg, "api_key_invalid"), strings.Contains(msg, "api key not valid"):
		return &ErrInvalidKey{Err: err}
	case status == http.StatusTooManyRequests && strings.Contains(msg, "quota"):
		return &ErrQuotaExceeded{Err: err}
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case status == http.StatusServiceUnavailable, strings.Contains(msg, "overloaded"):
		return &ErrOverloaded{Err: err}
	case status >= 500:
		return &ErrProviderUnavailable{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
