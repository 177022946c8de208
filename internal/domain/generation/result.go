package generation

import (
	"strings"
)

// FailureKind classifies why a generation did not produce a payload.
type FailureKind string

const (
	FailureInvalidRequest      FailureKind = "invalid_request"
	FailureTransport           FailureKind = "transport_error"
	FailureUpstreamHTTP        FailureKind = "upstream_http_error"
	FailureUpstreamApplication FailureKind = "upstream_application_error"
	FailureMalformedResponse   FailureKind = "malformed_response"
)

// String returns the string representation of the failure kind.
func (k FailureKind) String() string {
	return string(k)
}

// Retryable reports whether the failure may be transient.
func (k FailureKind) Retryable() bool {
	return k == FailureTransport || k == FailureMalformedResponse
}

const retryHint = "Please try again."

// Failure describes a failed generation.
type Failure struct {
	Kind       FailureKind
	Message    string
	StatusCode int

	// Permanent marks a failure that repeating the call cannot fix, even
	// when its kind is usually transient.
	Permanent bool
}

// Retryable reports whether repeating the call may succeed.
func (f *Failure) Retryable() bool {
	return f.Kind.Retryable() && !f.Permanent
}

// UserMessage returns the message shown to end users. Retryable failures
// carry a retry hint.
func (f *Failure) UserMessage() string {
	msg := strings.TrimSpace(f.Message)
	if !f.Retryable() || strings.Contains(strings.ToLower(msg), "try again") {
		return msg
	}
	if msg == "" {
		return retryHint
	}
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg + " " + retryHint
}

// Result is the outcome of a generation: either a payload (URL or text) or a
// failure, never both.
type Result struct {
	capability Capability
	payload    string
	failure    *Failure
}

// Success creates a successful result.
func Success(c Capability, payload string) *Result {
	return &Result{capability: c, payload: payload}
}

// Fail creates a failed result.
func Fail(c Capability, kind FailureKind, message string) *Result {
	return &Result{
		capability: c,
		failure:    &Failure{Kind: kind, Message: message},
	}
}

// FailHTTP creates an upstream HTTP failure carrying the status code.
func FailHTTP(c Capability, statusCode int, message string) *Result {
	return &Result{
		capability: c,
		failure: &Failure{
			Kind:       FailureUpstreamHTTP,
			Message:    message,
			StatusCode: statusCode,
		},
	}
}

// FailPermanent creates a failure that is never retryable.
func FailPermanent(c Capability, kind FailureKind, message string) *Result {
	res := Fail(c, kind, message)
	res.failure.Permanent = true
	return res
}

// Invalid creates a failed result from a precondition error.
func Invalid(c Capability, err error) *Result {
	msg := "invalid request"
	if err != nil {
		msg = err.Error()
	}
	return Fail(c, FailureInvalidRequest, msg)
}

// Capability returns the capability that produced the result.
func (r *Result) Capability() Capability { return r.capability }

// IsSuccess reports whether the result carries a payload.
func (r *Result) IsSuccess() bool { return r.failure == nil }

// Payload returns the success payload (URL or text). Empty on failure.
func (r *Result) Payload() string { return r.payload }

// Failure returns the failure, or nil on success.
func (r *Result) Failure() *Failure { return r.failure }

// Outcome returns a short label for metrics and logs.
func (r *Result) Outcome() string {
	if r.failure == nil {
		return "success"
	}
	return r.failure.Kind.String()
}

// UserMessage returns the displayable failure message, or empty on success.
func (r *Result) UserMessage() string {
	if r.failure == nil {
		return ""
	}
	return r.failure.UserMessage()
}
