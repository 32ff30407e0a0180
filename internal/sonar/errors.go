// Package sonar implements the SonarQube client used by every MCP tool:
// credential resolution, the HTTP request gateway, pagination and filter
// normalization, one thin operation per Web API endpoint, and the composite
// file-issues aggregation.
package sonar

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// KindConfiguration indicates invalid or missing credential configuration.
	// Raised before any network activity.
	KindConfiguration Kind = "configuration"
	// KindConnection indicates the server was unreachable or rejected the
	// credentials during client creation. Fatal for the hosting process.
	KindConnection Kind = "connection"
	// KindValidation indicates pagination or parameter bounds were violated.
	// No network call was made.
	KindValidation Kind = "validation"
	// KindNotFound indicates the remote entity does not exist.
	KindNotFound Kind = "not_found"
	// KindAuthorization indicates the server rejected the operation for the
	// current credentials. Never retried.
	KindAuthorization Kind = "authorization"
	// KindTransient indicates a timeout or 5xx-class response. Retried with
	// backoff at the gateway before surfacing.
	KindTransient Kind = "transient"
	// KindRemote covers remaining non-2xx responses.
	KindRemote Kind = "remote"
)

// Error wraps a failure with its kind and a human-friendly message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func wrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func errValidation(format string, args ...any) *Error {
	return newError(KindValidation, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of err, or "" if err is not a sonar error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsConfiguration(err error) bool { return KindOf(err) == KindConfiguration }
func IsConnection(err error) bool    { return KindOf(err) == KindConnection }
func IsValidation(err error) bool    { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool      { return KindOf(err) == KindNotFound }
func IsAuthorization(err error) bool { return KindOf(err) == KindAuthorization }
func IsTransient(err error) bool     { return KindOf(err) == KindTransient }

// apiErrorBody is the loose error envelope SonarQube returns on failures.
type apiErrorBody struct {
	Errors []struct {
		Msg string `json:"msg"`
	} `json:"errors"`
}

// mapStatusError folds a non-2xx response into the closed taxonomy. The raw
// body is parsed best-effort; callers never see the untyped envelope.
func mapStatusError(endpoint string, status int, body []byte) *Error {
	msg := fmt.Sprintf("%s returned HTTP %d", endpoint, status)

	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		var msgs []string
		for _, e := range parsed.Errors {
			if e.Msg != "" {
				msgs = append(msgs, e.Msg)
			}
		}
		if len(msgs) > 0 {
			msg = fmt.Sprintf("%s: %s", msg, strings.Join(msgs, "; "))
		}
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return newError(KindAuthorization, msg)
	case status == http.StatusNotFound:
		return newError(KindNotFound, msg)
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500:
		return newError(KindTransient, msg)
	default:
		return newError(KindRemote, msg)
	}
}

// mapTransportError classifies a failed round trip. Timeouts are transient
// and eligible for retry; everything else is a connection fault.
func mapTransportError(endpoint string, err error) *Error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return wrapError(KindTransient, fmt.Sprintf("%s timed out", endpoint), err)
	}
	return wrapError(KindConnection, fmt.Sprintf("%s unreachable", endpoint), err)
}
