package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Response is the normalized envelope produced by every transport for a
// successful (2xx) exchange.
type Response struct {
	Status     int
	StatusText string
	Header     http.Header
	Data       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return errors.Wrap(err, "decode response body")
	}
	return nil
}

// StatusError is the normalized error for any non-2xx status. It carries the
// same metadata as a Response so calling code can branch on status and read
// server-provided messages without caring which transport was in use.
type StatusError struct {
	Status     int
	StatusText string
	Header     http.Header
	Body       []byte
}

func (e *StatusError) Error() string {
	detail := e.Detail()
	if detail == "" {
		detail = truncate(strings.TrimSpace(string(e.Body)), 120)
	}
	if detail == "" {
		return fmt.Sprintf("http %d %s", e.Status, e.StatusText)
	}
	return fmt.Sprintf("http %d %s: %s", e.Status, e.StatusText, detail)
}

// Detail returns the server's human-readable "detail" field, if any.
func (e *StatusError) Detail() string {
	return gjson.GetBytes(e.Body, "detail").String()
}

// Code returns the server's machine-readable "code" field, if any.
func (e *StatusError) Code() string {
	return gjson.GetBytes(e.Body, "code").String()
}

// Decode unmarshals the error body into v, for callers that know the
// endpoint's error schema (e.g. form validation maps).
func (e *StatusError) Decode(v any) error {
	if err := json.Unmarshal(e.Body, v); err != nil {
		return errors.Wrap(err, "decode error body")
	}
	return nil
}

// AsStatusError unwraps err into a *StatusError when the failure carried an
// HTTP response. Network and timeout failures return false; callers must
// guard for the absence of a status.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsStatus reports whether err is a StatusError with the given status code.
func IsStatus(err error, status int) bool {
	se, ok := AsStatusError(err)
	return ok && se.Status == status
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
