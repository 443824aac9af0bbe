package transport

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/taxfree-rdc/taxfree-go/internal/errors"
)

// SetupFunc performs the one-time handshake with the desktop shell's HTTP
// bridge and returns the http.Client that tunnels requests through it.
type SetupFunc func(ctx context.Context) (*http.Client, error)

// BridgeTransport sends requests through the desktop shell's embedded HTTP
// bridge, which executes them outside any page-level CORS sandbox. The
// bridge handshake is performed lazily on first use; concurrent first
// callers share a single in-flight setup rather than each re-triggering it,
// and the result is cached for the life of the transport.
type BridgeTransport struct {
	baseURL string
	setup   SetupFunc

	group  singleflight.Group
	mu     sync.RWMutex
	client *http.Client
}

var _ Transport = (*BridgeTransport)(nil)

// NewBridge creates a bridge transport rooted at baseURL. The setup func is
// not invoked until the first Send.
func NewBridge(baseURL string, setup SetupFunc) *BridgeTransport {
	return &BridgeTransport{baseURL: baseURL, setup: setup}
}

func (t *BridgeTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	client, err := t.bridgeClient(ctx)
	if err != nil {
		return nil, err
	}

	httpReq, err := buildHTTPRequest(ctx, t.baseURL, req)
	if err != nil {
		return nil, err
	}

	res, err := client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "bridge send %s %s", req.Method, req.Path)
	}
	return readResponse(req, res)
}

// bridgeClient returns the cached bridge client, running the setup exactly
// once across concurrent callers. A failed setup is not cached; the next
// call retries it.
func (t *BridgeTransport) bridgeClient(ctx context.Context) (*http.Client, error) {
	t.mu.RLock()
	client := t.client
	t.mu.RUnlock()
	if client != nil {
		return client, nil
	}

	v, err, _ := t.group.Do("bridge-setup", func() (any, error) {
		c, err := t.setup(ctx)
		if err != nil {
			return nil, apperrors.Wrapf(err, "bridge setup")
		}
		t.mu.Lock()
		t.client = c
		t.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*http.Client), nil
}

// DialBridge returns a SetupFunc that connects to the shell's local bridge
// socket at addr. The socket is probed once up front so a missing shell
// fails fast instead of on the first real request.
func DialBridge(addr string, dialTimeout, requestTimeout time.Duration) SetupFunc {
	return func(ctx context.Context) (*http.Client, error) {
		dialer := &net.Dialer{Timeout: dialTimeout}

		conn, err := dialer.DialContext(ctx, "unix", addr)
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrBridgeUnavailable, "dial %s: %v", addr, err)
		}
		conn.Close()

		tr := &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return dialer.DialContext(ctx, "unix", addr)
			},
		}
		return &http.Client{Transport: tr, Timeout: requestTimeout}, nil
	}
}
