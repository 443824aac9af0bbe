// Package transport translates normalized request descriptors into real HTTP
// exchanges. Two implementations exist: a plain net/http one and one that
// tunnels through the desktop shell's local HTTP bridge. Callers never see
// which is in use; both produce the same Response/StatusError shapes.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"sort"

	"github.com/pkg/errors"
)

// ResponseType selects how a response body is treated by the caller.
type ResponseType string

const (
	ResponseJSON ResponseType = "json"
	ResponseBlob ResponseType = "blob"
	ResponseText ResponseType = "text"
)

// Transport sends a single normalized request and returns a normalized
// response, or an error. Non-2xx statuses surface as *StatusError.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Request is the ephemeral descriptor of one HTTP exchange. It is built per
// call and carries its own retry marker so the auth layer never has to rely
// on shared mutation across retries.
type Request struct {
	Method string
	Path   string // relative to the transport's base URL, e.g. "/auth/login/"
	Header http.Header
	Query  map[string]any // nil values are dropped, everything else stringified

	// Body is JSON-marshalled unless it is raw bytes, a reader, or a
	// *Multipart, which keep their own content type. Reader bodies are
	// drained to bytes on first send so they stay replayable.
	Body        any
	ContentType string // only consulted for raw/reader bodies

	ResponseType ResponseType

	// ID is attached as X-Request-ID for server-side correlation.
	ID string

	// Retried marks a request re-issued after a token refresh. A retried
	// request never triggers a second refresh cycle.
	Retried bool
}

// Clone returns a copy of the request with its own header map. The body is
// shared; bodies are stored (or drained) as replayable bytes, so a clone
// re-sends the same payload.
func (r *Request) Clone() *Request {
	clone := *r
	clone.Header = r.Header.Clone()
	if clone.Header == nil {
		clone.Header = http.Header{}
	}
	return &clone
}

// EncodeQuery serializes query parameters, omitting nil values (including
// typed nil pointers) and stringifying the rest. Keys are sorted so URLs are
// stable across runs.
func EncodeQuery(query map[string]any) string {
	if len(query) == 0 {
		return ""
	}
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		v := query[k]
		if v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				continue
			}
			rv = rv.Elem()
			v = rv.Interface()
		}
		values.Set(k, fmt.Sprintf("%v", v))
	}
	return values.Encode()
}

// buildHTTPRequest converts a descriptor into an *http.Request against the
// given base URL. Shared by both transport implementations so their wire
// behaviour cannot drift apart.
func buildHTTPRequest(ctx context.Context, baseURL string, req *Request) (*http.Request, error) {
	target := baseURL + req.Path
	if qs := EncodeQuery(req.Query); qs != "" {
		target += "?" + qs
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build request %s %s", req.Method, req.Path)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.ResponseType != ResponseBlob && httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if req.ID != "" {
		httpReq.Header.Set("X-Request-ID", req.ID)
	}
	return httpReq, nil
}

// encodeBody resolves the descriptor body into a reader and content type.
// JSON is the default; binary and multipart payloads keep their own type and
// are never forced to application/json.
func encodeBody(req *Request) (io.Reader, string, error) {
	switch b := req.Body.(type) {
	case nil:
		return nil, "", nil
	case *Multipart:
		return b.reader(), b.contentType(), nil
	case []byte:
		return bytes.NewReader(b), req.ContentType, nil
	case io.Reader:
		// Drain once and keep the bytes on the descriptor so a re-sent
		// request replays the same payload instead of an empty stream.
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, "", errors.Wrapf(err, "read body for %s %s", req.Method, req.Path)
		}
		req.Body = data
		return bytes.NewReader(data), req.ContentType, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", errors.Wrapf(err, "encode body for %s %s", req.Method, req.Path)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// readResponse drains the HTTP response into the normalized envelope.
// Non-2xx statuses become a *StatusError carrying the same metadata as a
// success so callers can branch on status regardless of outcome.
func readResponse(req *Request, res *http.Response) (*Response, error) {
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read response for %s %s", req.Method, req.Path)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{
			Status:     res.StatusCode,
			StatusText: http.StatusText(res.StatusCode),
			Header:     res.Header,
			Body:       data,
		}
	}

	return &Response{
		Status:     res.StatusCode,
		StatusText: http.StatusText(res.StatusCode),
		Header:     res.Header,
		Data:       data,
	}, nil
}
