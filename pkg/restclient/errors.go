package restclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Outcome is the normalized result of one HTTP exchange.
type Outcome struct {
	URL        string
	OK         bool
	Status     int
	StatusText string
	Body       any
}

// APIError is the structured failure produced on every non-network error
// path: pre-flight cancellation, known error statuses, and unclassified
// non-2xx responses. Exactly one Outcome or one APIError exists per call.
type APIError struct {
	Request    *Descriptor
	URL        string
	Status     int
	StatusText string
	Body       any
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// SerializedBody renders a debug string: message, status, status text, and
// the best-effort JSON form of the body.
func (e *APIError) SerializedBody() string {
	parts := []string{
		e.Message,
		fmt.Sprintf("status: %d", e.Status),
		"status text: " + e.StatusText,
	}
	if raw, err := json.Marshal(e.Body); err == nil {
		parts = append(parts, "body: "+string(raw))
	}
	return strings.Join(parts, "; ")
}

// UserFriendlyMessage extracts a message suitable for display from the
// conventional `detail` field of the body: either a plain string or the
// `msg` of the first entry in a validation-issue array. Falls back to the
// error message itself.
func (e *APIError) UserFriendlyMessage() string {
	body, ok := e.Body.(map[string]any)
	if !ok {
		return e.Message
	}
	switch detail := body["detail"].(type) {
	case string:
		if detail != "" {
			return detail
		}
	case []any:
		if len(detail) > 0 {
			if issue, ok := detail[0].(map[string]any); ok {
				if msg, ok := issue["msg"].(string); ok && msg != "" {
					return msg
				}
			}
		}
	}
	return e.Message
}

// statusMessages maps known error statuses to their reason phrases. The
// table is checked before the generic 2xx classification, so a per-call
// override for a nominally successful status still rejects.
var statusMessages = map[int]string{
	400: "Bad Request",
	401: "Unauthorized",
	402: "Payment Required",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	407: "Proxy Authentication Required",
	408: "Request Timeout",
	409: "Conflict",
	410: "Gone",
	411: "Length Required",
	412: "Precondition Failed",
	413: "Payload Too Large",
	414: "URI Too Long",
	415: "Unsupported Media Type",
	416: "Range Not Satisfiable",
	417: "Expectation Failed",
	418: "Im a teapot",
	421: "Misdirected Request",
	422: "Unprocessable Content",
	423: "Locked",
	424: "Failed Dependency",
	425: "Too Early",
	426: "Upgrade Required",
	428: "Precondition Required",
	429: "Too Many Requests",
	431: "Request Header Fields Too Large",
	451: "Unavailable For Legal Reasons",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
	505: "HTTP Version Not Supported",
	506: "Variant Also Negotiates",
	507: "Insufficient Storage",
	508: "Loop Detected",
	510: "Not Extended",
	511: "Network Authentication Required",
}

// classifyOutcome decides whether out is a failure: a per-call override or
// table entry for the status wins first, then the generic non-2xx check.
// Returns nil when the outcome should resolve.
func classifyOutcome(d *Descriptor, out *Outcome) *APIError {
	message, known := d.Errors[out.Status]
	if !known {
		message, known = statusMessages[out.Status]
	}
	if known {
		return newAPIError(d, out, message)
	}
	if !out.OK {
		return newAPIError(d, out, genericFailureMessage(out))
	}
	return nil
}

func newAPIError(d *Descriptor, out *Outcome, message string) *APIError {
	return &APIError{
		Request:    d,
		URL:        out.URL,
		Status:     out.Status,
		StatusText: out.StatusText,
		Body:       out.Body,
		Message:    message,
	}
}

func genericFailureMessage(out *Outcome) string {
	parts := []string{
		fmt.Sprintf("status: %d", out.Status),
		"status text: " + out.StatusText,
	}
	if raw, err := json.Marshal(out.Body); err == nil {
		parts = append(parts, "body: "+string(raw))
	}
	return strings.Join(parts, "; ")
}
