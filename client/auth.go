package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/taxfree-rdc/taxfree-go/internal/errors"
	"github.com/taxfree-rdc/taxfree-go/session"
	"github.com/taxfree-rdc/taxfree-go/transport"
)

// RefreshPath is the token refresh endpoint, relative to the API base.
const RefreshPath = "/auth/refresh/"

// authExemptPaths are endpoints whose 401s pass through untouched: a failed
// login or refresh must never trigger another refresh cycle.
var authExemptPaths = []string{
	"/auth/login/",
	"/auth/verify-otp/",
	"/auth/resend-otp/",
	"/auth/refresh/",
}

// AuthInterceptor attaches the bearer token to every outgoing request and
// performs the one-shot refresh-and-retry on authentication expiry.
//
// Per request the state machine is INITIAL -> RETRIED: a 401 on a request
// that has not been retried, is not an auth endpoint, and was not issued
// from an auth page triggers exactly one refresh; on success the original
// request is re-sent once with Retried set and its result returned as-is,
// on failure the session is cleared and the UI is sent to the login page.
// Concurrent 401s share a single in-flight refresh.
type AuthInterceptor struct {
	sessions  *session.Store
	transport transport.Transport
	nav       Navigator
	routes    Routes
	group     singleflight.Group
	log       zerolog.Logger
}

var _ Interceptor = (*AuthInterceptor)(nil)

// NewAuthInterceptor wires the interceptor to the session store and the same
// transport the client dispatches on (retries bypass the pipeline, which is
// what guarantees the single-retry property).
func NewAuthInterceptor(sessions *session.Store, t transport.Transport, nav Navigator, routes Routes, log zerolog.Logger) *AuthInterceptor {
	return &AuthInterceptor{
		sessions:  sessions,
		transport: t,
		nav:       nav,
		routes:    routes,
		log:       log,
	}
}

// Before attaches the bearer token when the session holds one. Absence of a
// token sends the request unauthenticated.
func (i *AuthInterceptor) Before(_ context.Context, req *transport.Request) error {
	if token := i.sessions.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func (i *AuthInterceptor) After(ctx context.Context, req *transport.Request, resp *transport.Response, err error) (*transport.Response, error) {
	if err == nil || !transport.IsStatus(err, http.StatusUnauthorized) {
		return resp, err
	}
	if req.Retried || isAuthPath(req.Path) || routeIn(i.nav.CurrentRoute(), i.routes.AuthRoutes) {
		return resp, err
	}

	access, refreshErr := i.refresh(ctx)
	if refreshErr != nil {
		i.log.Warn().Err(refreshErr).Str("path", req.Path).Msg("token refresh failed, clearing session")
		if clearErr := i.sessions.Clear(); clearErr != nil {
			i.log.Error().Err(clearErr).Msg("failed to clear session")
		}
		i.nav.Replace(i.routes.Login)
		return resp, err // original 401, not the refresh error
	}

	retry := req.Clone()
	retry.Retried = true
	retry.ID = uuid.NewString()
	retry.Header.Set("Authorization", "Bearer "+access)
	i.log.Debug().Str("path", req.Path).Msg("retrying request with refreshed token")
	return i.transport.Send(ctx, retry)
}

// refresh exchanges the stored refresh token for a new access token and
// writes it to the session store. Deduplicated: concurrent expired requests
// all wait on the same refresh call.
func (i *AuthInterceptor) refresh(ctx context.Context) (string, error) {
	v, err, _ := i.group.Do("refresh", func() (any, error) {
		refreshToken := i.sessions.RefreshToken()
		if refreshToken == "" {
			return nil, apperrors.ErrNoRefreshToken
		}

		resp, err := i.transport.Send(ctx, &transport.Request{
			Method: http.MethodPost,
			Path:   RefreshPath,
			Header: http.Header{},
			Body:   map[string]string{"refresh": refreshToken},
			ID:     uuid.NewString(),
		})
		if err != nil {
			return nil, apperrors.Wrapf(err, "refresh token")
		}

		var out struct {
			Access string `json:"access"`
		}
		if err := resp.Decode(&out); err != nil {
			return nil, err
		}
		if out.Access == "" {
			return nil, apperrors.ErrInvalidToken
		}
		if err := i.sessions.SetAccessToken(out.Access); err != nil {
			return nil, err
		}
		return out.Access, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func isAuthPath(path string) bool {
	for _, p := range authExemptPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
