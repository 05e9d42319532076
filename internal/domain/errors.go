package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrSessionNotFound = errors.New("session not found")
)

// ProviderErrorKind classifies a language model provider failure.
type ProviderErrorKind string

const (
	KindQuotaExceeded ProviderErrorKind = "quota_exceeded"
	KindRateLimited   ProviderErrorKind = "rate_limited"
	KindTimedOut      ProviderErrorKind = "timed_out"
	KindUnauthorized  ProviderErrorKind = "unauthorized"
	KindGeneric       ProviderErrorKind = "generic"
)

// ProviderError wraps a provider failure with its classification so the
// boundary layer can map it to a user-facing message without re-parsing
// error text.
type ProviderError struct {
	Kind ProviderErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm provider (%s): %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// providerRules is the ordered classification table. Providers signal these
// conditions only through message text, not structured codes, so matching is
// by substring; first match wins.
var providerRules = []struct {
	substr string
	kind   ProviderErrorKind
}{
	{"insufficient_quota", KindQuotaExceeded},
	{"quota", KindQuotaExceeded},
	{"429", KindRateLimited},
	{"rate limit", KindRateLimited},
	{"timeout", KindTimedOut},
	{"deadline exceeded", KindTimedOut},
	{"unauthorized", KindUnauthorized},
	{"401", KindUnauthorized},
}

// ClassifyProviderError wraps err as a ProviderError with the kind derived
// from its message text. A nil err returns nil.
func ClassifyProviderError(err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}

	msg := strings.ToLower(err.Error())
	for _, rule := range providerRules {
		if strings.Contains(msg, rule.substr) {
			return &ProviderError{Kind: rule.kind, Err: err}
		}
	}
	return &ProviderError{Kind: KindGeneric, Err: err}
}

// ProviderKind extracts the classification from an error chain,
// defaulting to KindGeneric.
func ProviderKind(err error) ProviderErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindGeneric
}
