package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a request failure. Callers branch on Kind only, never on
// raw status codes or body contents.
type Kind int

const (
	// KindNetworkError means the transport failed entirely. Recoverable by
	// switching endpoint or retrying; never clears the credential.
	KindNetworkError Kind = iota
	// KindTunnelVerificationRequired means an interposed proxy page was
	// detected instead of the API. Recoverable by manual out-of-band
	// verification; never clears the credential.
	KindTunnelVerificationRequired
	// KindUpstreamHTMLError means the backend returned a non-JSON error page.
	KindUpstreamHTMLError
	// KindUnauthorized means the credential was rejected (HTTP 401). The
	// credential store has already been cleared when this is returned.
	KindUnauthorized
	// KindValidationFailed means the backend rejected input with field-level
	// messages. The session is untouched.
	KindValidationFailed
	// KindUnauthorizedRole means the profile resolved to an unrecognized
	// role identifier. Fatal to the session.
	KindUnauthorizedRole
	// KindMalformedResponse means none of the known response envelopes
	// matched.
	KindMalformedResponse
	// KindRequestFailed is a non-2xx response that fits no narrower kind.
	KindRequestFailed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNetworkError:
		return "network_error"
	case KindTunnelVerificationRequired:
		return "tunnel_verification_required"
	case KindUpstreamHTMLError:
		return "upstream_html_error"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidationFailed:
		return "validation_failed"
	case KindUnauthorizedRole:
		return "unauthorized_role"
	case KindMalformedResponse:
		return "malformed_response"
	case KindRequestFailed:
		return "request_failed"
	default:
		return "unknown"
	}
}

// Error is a classified request failure.
type Error struct {
	// Kind is the failure classification.
	Kind Kind
	// Message is a human-readable description, extracted from the response
	// body when one was available.
	Message string
	// Status is the HTTP status code, when a response was received.
	Status int
	// Address is the backend base address, set for network failures so the
	// UI can show which endpoint was unreachable.
	Address string
	// Fields maps field names to validation messages for KindValidationFailed.
	Fields map[string][]string

	err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Address != "" {
		fmt.Fprintf(&b, " (endpoint %s)", e.Address)
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, name+": "+strings.Join(e.Fields[name], "; "))
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(parts, ", "))
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// ErrKind returns the kind of err, or KindRequestFailed when err is not a
// classified API error.
func ErrKind(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindRequestFailed
}

// IsConnectivity reports whether err is recoverable by switching endpoint or
// retrying: the credential may still be valid.
func IsConnectivity(err error) bool {
	return IsKind(err, KindNetworkError) || IsKind(err, KindTunnelVerificationRequired)
}
