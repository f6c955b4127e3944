package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidCredentials is returned when the backend rejects the supplied
// identifier/secret pair. The session is left untouched.
var ErrInvalidCredentials = errors.New("invalid credentials")

// NetworkError wraps transport-level failures (DNS, refused connection,
// timeout). Callers may retry; the session ends fully cleared.
type NetworkError struct{ Err error }

func (e *NetworkError) Error() string { return "network failure: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports an unexpected backend response (5xx or a body that
// could not be decoded). Retry-able; the session ends fully cleared.
type ServerError struct {
	Status int
	Msg    string
}

func (e *ServerError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("server error (status %d)", e.Status)
	}
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Msg)
}

// ValidationError carries field-level messages from a rejected registration
// so the form can annotate individual inputs. The session is left untouched.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
