package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// VideoURLFields lists the response fields that may carry the video URL, in
// priority order. The upstream has renamed this field across versions; the
// first non-empty match wins.
var VideoURLFields = []string{"videoUrl", "video_url", "url"}

// videoReasonFields lists the fields that may carry an upstream failure
// reason, in priority order.
var videoReasonFields = []string{"message", "error"}

const (
	genericVideoFailure = "Failed to generate video"
	missingVideoURL     = "No video URL in response."
	oversizedResponse   = "Upstream response is too large."
	unknownUpstreamErr  = "Unknown error"
)

// Outcome is the raw result of an upstream call.
type Outcome struct {
	// Err is set when no response was received.
	Err error

	StatusCode int
	Body       []byte

	// URL is the request URL that produced this outcome.
	URL string
}

// OK reports whether the status code is 2xx.
func (o *Outcome) OK() bool {
	return o.StatusCode >= 200 && o.StatusCode < 300
}

// Normalize converts a raw upstream outcome into a Result.
func Normalize(c Capability, o *Outcome) *Result {
	if o == nil {
		return Fail(c, FailureTransport, transportMessage(c, nil))
	}
	if errors.Is(o.Err, ErrResponseTooLarge) {
		return FailPermanent(c, FailureMalformedResponse, oversizedResponse)
	}
	if o.Err != nil {
		return Fail(c, FailureTransport, transportMessage(c, o.Err))
	}

	switch c {
	case CapabilityTextEnhance:
		if !o.OK() {
			return FailHTTP(c, o.StatusCode, fmt.Sprintf("Text generation failed: upstream returned %d", o.StatusCode))
		}
		return Success(c, string(o.Body))
	case CapabilityImageGenerate:
		if !o.OK() {
			return FailHTTP(c, o.StatusCode, fmt.Sprintf("Failed to generate image: upstream returned %d", o.StatusCode))
		}
		return Success(c, o.URL)
	case CapabilityVideoGenerate:
		return normalizeVideo(o)
	default:
		return Invalid(c, fmt.Errorf("%w %q", ErrUnknownCapability, c))
	}
}

// normalizeVideo applies the video decision order: URL fields, then an
// explicit application failure, then the HTTP status, then malformed.
func normalizeVideo(o *Outcome) *Result {
	c := CapabilityVideoGenerate
	record := decodeRecord(o.Body)

	if u, ok := firstString(record, VideoURLFields); ok {
		return Success(c, u)
	}

	if signalsFailure(record) {
		reason, ok := failureReason(record)
		if !ok {
			reason = genericVideoFailure
		}
		return Fail(c, FailureUpstreamApplication, reason)
	}

	if !o.OK() {
		msg, ok := firstString(record, []string{"message"})
		if !ok {
			msg = unknownUpstreamErr
		}
		return FailHTTP(c, o.StatusCode, fmt.Sprintf("API error: %d - %s", o.StatusCode, msg))
	}

	return Fail(c, FailureMalformedResponse, missingVideoURL)
}

// decodeRecord parses body as a JSON object. Anything else yields nil.
func decodeRecord(body []byte) map[string]any {
	if len(body) == 0 {
		return nil
	}
	var record map[string]any
	if err := json.Unmarshal(body, &record); err != nil {
		return nil
	}
	return record
}

// firstString returns the first non-empty string value among fields.
func firstString(record map[string]any, fields []string) (string, bool) {
	for _, f := range fields {
		if s, ok := record[f].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func signalsFailure(record map[string]any) bool {
	if success, ok := record["success"].(bool); ok && !success {
		return true
	}
	if status, ok := record["status"].(string); ok && status == "error" {
		return true
	}
	return false
}

func failureReason(record map[string]any) (string, bool) {
	if s, ok := firstString(record, videoReasonFields); ok {
		return s, true
	}
	// {"error": {"message": "..."}}
	if nested, ok := record["error"].(map[string]any); ok {
		return firstString(nested, []string{"message"})
	}
	return "", false
}

func transportMessage(c Capability, err error) string {
	msg := fmt.Sprintf("Failed to reach the %s service", c.noun())
	if err != nil {
		if detail := strings.TrimSpace(err.Error()); detail != "" {
			msg += ": " + detail
		}
	}
	return msg
}
