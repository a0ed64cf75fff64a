package restclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"
)

// Request performs the HTTP exchange described by d and returns the in-flight
// call as a cancelable request. The eventual value is the decoded (and, on
// success, transformed) response body; every failure path rejects with an
// *APIError except raw network failures, which reject with the transport's
// error, and cancellation, which rejects with a *CancelError.
func (c *Client) Request(d *Descriptor) *CancelableRequest[any] {
	return NewCancelable(c.log, func(p *CancelableRequest[any]) {
		c.send(d, p)
	})
}

// Execute runs the call to completion under ctx and decodes the resolved
// body into T via JSON. ctx expiry cancels the in-flight exchange.
func Execute[T any](ctx context.Context, c *Client, d *Descriptor) (T, error) {
	var out T
	body, err := c.Request(d).Await(ctx)
	if err != nil {
		return out, err
	}
	if body == nil {
		return out, nil
	}
	if typed, ok := body.(T); ok {
		return typed, nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return out, fmt.Errorf("encode response body: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode response body: %w", err)
	}
	return out, nil
}

// send walks the executor steps strictly in order: pre-flight cancellation
// check, URL building, form body, credential/header fan-out, interceptors,
// transport, response interceptors, body extraction, classification.
func (c *Client) send(d *Descriptor, p *CancelableRequest[any]) {
	if p.IsCancelled() {
		p.Reject(&APIError{Request: d, Message: "Request cancelled"})
		return
	}

	targetURL := buildURL(c.cfg, d)

	fields, err := buildFormFields(d.Form)
	if err != nil {
		p.Reject(err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.OnCancel(cancel)

	headers, err := c.resolveHeaders(ctx, d, len(fields) > 0)
	if err != nil {
		p.Reject(fmt.Errorf("resolve request headers: %w", err))
		return
	}

	body, err := encodeBody(d)
	if err != nil {
		p.Reject(err)
		return
	}

	req := &TransportRequest{
		Method:          d.Method,
		URL:             targetURL,
		Headers:         headers,
		Body:            body,
		Form:            fields,
		WithCredentials: c.cfg.WithCredentials,
	}
	req, err = c.cfg.interceptors().applyRequest(ctx, req)
	if err != nil {
		p.Reject(fmt.Errorf("request interceptor: %w", err))
		return
	}

	if p.IsCancelled() {
		return
	}

	resp, terr := c.transport.RoundTrip(ctx, req)
	if terr != nil {
		if resp == nil {
			// Pure network-level failure; surfaced untranslated.
			p.Reject(terr)
			return
		}
		c.log.Debugw("transport error carried a response, using it",
			"url", targetURL, "status", resp.Status, "error", terr)
	}

	if resp == nil {
		p.Reject(fmt.Errorf("transport returned no response for %s %s", d.Method, targetURL))
		return
	}

	resp, err = c.cfg.interceptors().applyResponse(ctx, resp)
	if err != nil {
		p.Reject(fmt.Errorf("response interceptor: %w", err))
		return
	}

	respBody := decodeResponseBody(resp.Body)
	if d.ResponseHeader != "" {
		if v := resp.Headers.Get(d.ResponseHeader); v != "" {
			respBody = v
		}
	}

	ok := resp.Status >= 200 && resp.Status < 300
	if ok && d.Transform != nil {
		respBody = d.Transform(respBody)
	}

	outcome := &Outcome{
		URL:        targetURL,
		OK:         ok,
		Status:     resp.Status,
		StatusText: resp.StatusText,
		Body:       respBody,
	}
	if apiErr := classifyOutcome(d, outcome); apiErr != nil {
		p.Reject(apiErr)
		return
	}
	p.Resolve(outcome.Body)
}

// resolveHeaders fans out the four credential/header resolvers concurrently,
// joins them, and merges the final header set: Accept, then resolved extras,
// then per-call overrides, then the derived Authorization and Content-Type.
func (c *Client) resolveHeaders(ctx context.Context, d *Descriptor, isForm bool) (map[string]string, error) {
	var (
		token, username, password string
		extra                     map[string]string
		errs                      [4]error
		wg                        sync.WaitGroup
	)

	wg.Add(4)
	go func() { defer wg.Done(); token, errs[0] = c.cfg.Token.Resolve(ctx, d) }()
	go func() { defer wg.Done(); username, errs[1] = c.cfg.Username.Resolve(ctx, d) }()
	go func() { defer wg.Done(); password, errs[2] = c.cfg.Password.Resolve(ctx, d) }()
	go func() { defer wg.Done(); extra, errs[3] = c.cfg.Headers.Resolve(ctx, d) }()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	headers := map[string]string{"Accept": "application/json"}
	for k, v := range extra {
		if v == "" {
			continue
		}
		headers[k] = v
	}
	for k, v := range d.Headers {
		if v == "" {
			continue
		}
		headers[k] = v
	}

	// Bearer takes priority over basic auth and over any merged header.
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	} else if username != "" && password != "" {
		headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
	}

	if ct := contentType(d, isForm); ct != "" {
		headers["Content-Type"] = ct
	}
	return headers, nil
}

// contentType derives the Content-Type header: an explicit media type wins;
// a blob carries its own MIME type; a plain string body is text/plain; any
// other body is JSON. Form bodies leave the multipart boundary header to
// the transport unless the descriptor forced a media type.
func contentType(d *Descriptor, isForm bool) string {
	if d.MediaType != "" {
		return d.MediaType
	}
	if isForm {
		return ""
	}
	switch body := d.Body.(type) {
	case nil:
		return ""
	case Blob:
		return body.mime()
	case *Blob:
		if body == nil {
			return ""
		}
		return body.mime()
	case string:
		return "text/plain"
	case []byte:
		return "application/octet-stream"
	default:
		return "application/json"
	}
}

// encodeBody serializes the descriptor body for the transport. Form bodies
// are handled separately as multipart fields.
func encodeBody(d *Descriptor) ([]byte, error) {
	if len(d.Form) > 0 {
		return nil, nil
	}
	switch body := d.Body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return body, nil
	case string:
		return []byte(body), nil
	case Blob:
		return body.Data, nil
	case *Blob:
		if body == nil {
			return nil, nil
		}
		return body.Data, nil
	default:
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return raw, nil
	}
}

// decodeResponseBody parses the raw body as JSON when possible, falling back
// to the plain string form. An empty body decodes to nil.
func decodeResponseBody(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		return parsed
	}
	return string(raw)
}
