package restclient

import (
	"context"
	"net/http"
)

// TransportRequest is the fully built outgoing request handed to the
// transport after the request-interceptor chain ran.
type TransportRequest struct {
	Method  string
	URL     string
	Headers map[string]string

	// Body is the serialized payload; nil when Form is set.
	Body []byte

	// Form holds multipart fields; the transport owns the boundary and
	// the resulting Content-Type header unless Headers overrides it.
	Form []FormField

	// WithCredentials asks the transport to include stored cookies.
	WithCredentials bool
}

// TransportResponse is the raw response a transport hands back.
type TransportResponse struct {
	Status     int
	StatusText string
	Headers    http.Header
	Body       []byte
}

// Transport performs one HTTP exchange. Implementations must honor ctx
// cancellation as the abort signal. A transport that fails after the server
// responded may return both a response and an error; the executor then
// treats the attached response as the result. Any conforming implementation
// is substitutable.
type Transport interface {
	RoundTrip(ctx context.Context, req *TransportRequest) (*TransportResponse, error)
}
