package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// HTTPTransport sends requests over the standard library HTTP stack. This is
// the browser-equivalent path used outside the desktop shell.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTP creates a transport rooted at baseURL with a uniform timeout.
// A zero timeout disables the deadline (tests only).
func NewHTTP(baseURL string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewHTTPWithClient creates a transport over a caller-supplied http.Client.
func NewHTTPWithClient(baseURL string, client *http.Client) *HTTPTransport {
	return &HTTPTransport{baseURL: baseURL, client: client}
}

func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := buildHTTPRequest(ctx, t.baseURL, req)
	if err != nil {
		return nil, err
	}

	res, err := t.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "send %s %s", req.Method, req.Path)
	}
	return readResponse(req, res)
}
