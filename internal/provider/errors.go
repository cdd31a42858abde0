package provider

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a provider failure. Tool execution failures never
// produce an APIError; they are reported back into the conversation. An
// APIError always terminates the request.
type ErrorKind string

const (
	// KindOverloaded: the upstream model service is over capacity. Retryable
	// by the user.
	KindOverloaded ErrorKind = "overloaded"
	// KindAuth: credentials are missing or rejected. Not user-fixable.
	KindAuth ErrorKind = "auth"
	// KindUnknownModel: the configured model identifier does not exist.
	KindUnknownModel ErrorKind = "unknown_model"
	// KindRateLimited: the upstream provider rate-limited us. Retryable.
	KindRateLimited ErrorKind = "rate_limited"
	// KindInternal: anything else.
	KindInternal ErrorKind = "internal"
)

// APIError is a classified model-provider failure.
type APIError struct {
	Kind       ErrorKind
	StatusCode int // upstream HTTP status, 0 when the request never completed
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
}

// HTTPStatus maps the error kind to the status code the chat endpoint
// responds with.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindOverloaded:
		return http.StatusServiceUnavailable
	case KindAuth:
		return http.StatusUnauthorized
	case KindUnknownModel:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the user-facing explanation for this failure.
func (e *APIError) UserMessage() string {
	switch e.Kind {
	case KindOverloaded:
		return "The model service is currently experiencing high traffic. Please wait a moment and try again."
	case KindAuth:
		return "Model API authentication failed. Check that the provider API key is configured correctly."
	case KindUnknownModel:
		return "The configured model could not be found. Check that the model name is valid."
	case KindRateLimited:
		return "Rate limit exceeded upstream. Please wait a moment before trying again."
	default:
		if e.Message != "" {
			return e.Message
		}
		return "An error occurred while talking to the model service."
	}
}

// classify builds an APIError from an upstream HTTP failure.
func classify(status int, body []byte) *APIError {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 300 {
		msg = msg[:300]
	}
	lower := strings.ToLower(msg)

	kind := KindInternal
	switch {
	case status == 529 || strings.Contains(lower, "overloaded"):
		kind = KindOverloaded
	case status == http.StatusUnauthorized || status == http.StatusForbidden ||
		strings.Contains(lower, "authentication"):
		kind = KindAuth
	case status == http.StatusNotFound:
		kind = KindUnknownModel
	case status == http.StatusTooManyRequests || strings.Contains(lower, "rate_limit"):
		kind = KindRateLimited
	}

	return &APIError{Kind: kind, StatusCode: status, Message: msg}
}
