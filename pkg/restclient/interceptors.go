package restclient

import (
	"context"
	"sync"
)

// RequestInterceptor transforms the outgoing transport request before it is
// sent. Returning an error aborts the call.
type RequestInterceptor func(ctx context.Context, req *TransportRequest) (*TransportRequest, error)

// ResponseInterceptor transforms the raw transport response before the
// executor classifies it.
type ResponseInterceptor func(ctx context.Context, resp *TransportResponse) (*TransportResponse, error)

type requestEntry struct {
	id int
	fn RequestInterceptor
}

type responseEntry struct {
	id int
	fn ResponseInterceptor
}

// Interceptors holds two ordered chains applied in registration order.
// Collaborators may register, eject, and clear entries between calls; the
// executor only iterates them.
type Interceptors struct {
	mu       sync.RWMutex
	nextID   int
	request  []requestEntry
	response []responseEntry
}

// NewInterceptors returns an empty interceptor pair.
func NewInterceptors() *Interceptors {
	return &Interceptors{}
}

// UseRequest appends fn to the request chain and returns an id for Eject.
func (i *Interceptors) UseRequest(fn RequestInterceptor) int {
	if fn == nil {
		return 0
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.nextID++
	i.request = append(i.request, requestEntry{id: i.nextID, fn: fn})
	return i.nextID
}

// UseResponse appends fn to the response chain and returns an id for Eject.
func (i *Interceptors) UseResponse(fn ResponseInterceptor) int {
	if fn == nil {
		return 0
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.nextID++
	i.response = append(i.response, responseEntry{id: i.nextID, fn: fn})
	return i.nextID
}

// Eject removes the entry with the given id from whichever chain holds it.
func (i *Interceptors) Eject(id int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for n, e := range i.request {
		if e.id == id {
			i.request = append(i.request[:n], i.request[n+1:]...)
			return
		}
	}
	for n, e := range i.response {
		if e.id == id {
			i.response = append(i.response[:n], i.response[n+1:]...)
			return
		}
	}
}

// Clear drops every registered interceptor.
func (i *Interceptors) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.request = nil
	i.response = nil
}

// Len reports the number of registered entries across both chains.
func (i *Interceptors) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.request) + len(i.response)
}

func (i *Interceptors) applyRequest(ctx context.Context, req *TransportRequest) (*TransportRequest, error) {
	i.mu.RLock()
	chain := make([]RequestInterceptor, 0, len(i.request))
	for _, e := range i.request {
		chain = append(chain, e.fn)
	}
	i.mu.RUnlock()

	var err error
	for _, fn := range chain {
		if req, err = fn(ctx, req); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (i *Interceptors) applyResponse(ctx context.Context, resp *TransportResponse) (*TransportResponse, error) {
	i.mu.RLock()
	chain := make([]ResponseInterceptor, 0, len(i.response))
	for _, e := range i.response {
		chain = append(chain, e.fn)
	}
	i.mu.RUnlock()

	var err error
	for _, fn := range chain {
		if resp, err = fn(ctx, resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
