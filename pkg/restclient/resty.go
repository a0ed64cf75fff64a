package restclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyTransport is the default Transport, adapting resty.Client to the
// Transport contract. It keeps two underlying clients: a bare one and one
// carrying a cookie jar for calls made with the credential-inclusion policy.
type RestyTransport struct {
	client     *resty.Client
	credClient *resty.Client
}

// NewRestyTransport builds the default transport. A zero timeout means no
// client-side timeout; callers attach deadlines through Await(ctx) instead.
func NewRestyTransport(timeout time.Duration) *RestyTransport {
	t := &RestyTransport{
		client:     resty.New(),
		credClient: resty.New(),
	}
	if jar, err := cookiejar.New(nil); err == nil {
		t.credClient.SetCookieJar(jar)
	}
	if timeout > 0 {
		t.client.SetTimeout(timeout)
		t.credClient.SetTimeout(timeout)
	}
	return t
}

// RoundTrip performs one exchange. It never maps HTTP error statuses to Go
// errors; status classification belongs to the executor.
func (t *RestyTransport) RoundTrip(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	client := t.client
	if req.WithCredentials {
		client = t.credClient
	}

	r := client.R().SetContext(ctx)
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}
	if len(req.Form) > 0 {
		for _, f := range req.Form {
			if f.Blob != nil {
				r.SetMultipartField(f.Name, f.Blob.Name, f.Blob.mime(), bytes.NewReader(f.Blob.Data))
			} else {
				r.SetMultipartField(f.Name, "", "", strings.NewReader(f.Value))
			}
		}
	} else if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, fmt.Errorf("execute %s %s: %w", req.Method, req.URL, err)
	}

	return &TransportResponse{
		Status:     resp.StatusCode(),
		StatusText: statusText(resp.Status(), resp.StatusCode()),
		Headers:    resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// statusText strips the numeric prefix from a status line like "404 Not
// Found".
func statusText(status string, code int) string {
	return strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
}
