// Package client exposes the configured request client for the Tax Free
// platform API: verb methods over a single transport, with the maintenance
// and auth interceptors applied in a fixed order.
package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taxfree-rdc/taxfree-go/transport"
)

// Interceptor is a pipeline stage around a request. Before may mutate the
// outgoing descriptor; After observes the outcome and either passes it
// through or replaces it (e.g. with the result of a retried request).
type Interceptor interface {
	Before(ctx context.Context, req *transport.Request) error
	After(ctx context.Context, req *transport.Request, resp *transport.Response, err error) (*transport.Response, error)
}

// Client is the single configured request client. The transport is chosen
// once at composition time; there is no per-request transport selection.
type Client struct {
	transport    transport.Transport
	interceptors []Interceptor
	log          zerolog.Logger
}

// Option modifies the Client instance.
type Option func(*Client)

// WithInterceptors installs pipeline stages. Before hooks run in
// installation order and After hooks unwind in reverse, so the maintenance
// interceptor is installed first: it sees every final outcome, retried or
// not.
func WithInterceptors(interceptors ...Interceptor) Option {
	return func(c *Client) {
		c.interceptors = append(c.interceptors, interceptors...)
	}
}

// WithLogger sets the request-layer logger (disabled by default).
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a client over the given transport.
func New(t transport.Transport, opts ...Option) *Client {
	c := &Client{
		transport: t,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOption tunes a single request descriptor.
type RequestOption func(*transport.Request)

// WithQuery sets query parameters; nil values are omitted from the URL.
func WithQuery(query map[string]any) RequestOption {
	return func(req *transport.Request) {
		if req.Query == nil {
			req.Query = map[string]any{}
		}
		for k, v := range query {
			req.Query[k] = v
		}
	}
}

// WithJSON sets a JSON body.
func WithJSON(body any) RequestOption {
	return func(req *transport.Request) {
		req.Body = body
	}
}

// WithRawBody sets a pre-encoded body with an explicit content type.
func WithRawBody(contentType string, body []byte) RequestOption {
	return func(req *transport.Request) {
		req.Body = body
		req.ContentType = contentType
	}
}

// WithMultipart sets a multipart/form-data body.
func WithMultipart(m *transport.Multipart) RequestOption {
	return func(req *transport.Request) {
		req.Body = m
	}
}

// WithBlob requests the raw response bytes (file downloads).
func WithBlob() RequestOption {
	return func(req *transport.Request) {
		req.ResponseType = transport.ResponseBlob
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) RequestOption {
	return func(req *transport.Request) {
		req.Header.Set(key, value)
	}
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*transport.Response, error) {
	return c.do(ctx, http.MethodGet, path, opts)
}

func (c *Client) Post(ctx context.Context, path string, opts ...RequestOption) (*transport.Response, error) {
	return c.do(ctx, http.MethodPost, path, opts)
}

func (c *Client) Patch(ctx context.Context, path string, opts ...RequestOption) (*transport.Response, error) {
	return c.do(ctx, http.MethodPatch, path, opts)
}

func (c *Client) Put(ctx context.Context, path string, opts ...RequestOption) (*transport.Response, error) {
	return c.do(ctx, http.MethodPut, path, opts)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*transport.Response, error) {
	return c.do(ctx, http.MethodDelete, path, opts)
}

func (c *Client) do(ctx context.Context, method, path string, opts []RequestOption) (*transport.Response, error) {
	req := &transport.Request{
		Method:       method,
		Path:         path,
		Header:       http.Header{},
		ResponseType: transport.ResponseJSON,
		ID:           uuid.NewString(),
	}
	for _, opt := range opts {
		opt(req)
	}

	for _, ic := range c.interceptors {
		if err := ic.Before(ctx, req); err != nil {
			return nil, err
		}
	}

	resp, err := c.transport.Send(ctx, req)
	// After hooks unwind in reverse, so earlier stages observe whatever
	// later stages produced (including the result of an auth retry).
	for i := len(c.interceptors) - 1; i >= 0; i-- {
		resp, err = c.interceptors[i].After(ctx, req, resp, err)
	}

	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Str("request_id", req.ID).Msg("request failed")
		return nil, err
	}
	c.log.Debug().Int("status", resp.Status).Str("method", method).Str("path", path).Str("request_id", req.ID).Msg("request completed")
	return resp, nil
}
