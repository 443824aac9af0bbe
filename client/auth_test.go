package client_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/taxfree-rdc/taxfree-go/client"
	"github.com/taxfree-rdc/taxfree-go/client/navfakes"
	"github.com/taxfree-rdc/taxfree-go/session"
	"github.com/taxfree-rdc/taxfree-go/transport"
)

const (
	staleAccessToken = "stale-access"
	freshAccessToken = "fresh-access"
	testRefreshToken = "refresh-1"
)

// fakeBackend simulates the platform API for interceptor tests: a protected
// endpoint honouring only the fresh token, and a refresh endpoint.
type fakeBackend struct {
	mu             sync.Mutex
	protectedCalls int
	refreshCalls   int
	authHeaders    []string
	bodies         [][]byte

	allowAnonymous     bool
	alwaysUnauthorized bool
	refreshFails       bool
	maintenanceOnRetry bool
	refreshDelay       time.Duration

	// rendezvous makes the first N protected calls wait for each other
	// before receiving their 401, forcing overlapped refresh attempts.
	rendezvous int32
	arrivals   int32
	barrier    chan struct{}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/protected/", b.handleProtected)
	mux.HandleFunc("/api/auth/refresh/", b.handleRefresh)
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Identifiants invalides."}`)
	})
	return mux
}

func (b *fakeBackend) handleProtected(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.protectedCalls++
	b.authHeaders = append(b.authHeaders, auth)
	b.bodies = append(b.bodies, body)
	b.mu.Unlock()

	if b.allowAnonymous {
		writeJSON(w, http.StatusOK, `{"ok":true}`)
		return
	}
	if !b.alwaysUnauthorized && auth == "Bearer "+freshAccessToken {
		if b.maintenanceOnRetry {
			writeJSON(w, http.StatusServiceUnavailable, maintenanceBody)
			return
		}
		writeJSON(w, http.StatusOK, `{"ok":true}`)
		return
	}

	if n := atomic.LoadInt32(&b.rendezvous); n > 0 {
		if atomic.AddInt32(&b.arrivals, 1) == n {
			close(b.barrier)
		}
		select {
		case <-b.barrier:
		case <-time.After(2 * time.Second):
		}
	}
	writeJSON(w, http.StatusUnauthorized, `{"detail":"Token expiré.","code":"token_not_valid"}`)
}

func (b *fakeBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.refreshCalls++
	b.mu.Unlock()

	if b.refreshDelay > 0 {
		time.Sleep(b.refreshDelay)
	}
	if b.refreshFails {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Token invalide.","code":"token_not_valid"}`)
		return
	}
	writeJSON(w, http.StatusOK, `{"access":"`+freshAccessToken+`"}`)
}

func (b *fakeBackend) counts() (protected, refresh int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.protectedCalls, b.refreshCalls
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// authFixture wires a real client over the fake backend.
type authFixture struct {
	backend     *fakeBackend
	sessions    *session.Store
	nav         *navfakes.FakeNavigator
	maintenance *client.MaintenanceInterceptor
	client      *client.Client
}

func newAuthFixture(t *testing.T, backend *fakeBackend, currentRoute string) *authFixture {
	t.Helper()

	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	sessions := session.NewStore(session.NewMemoryStorage())
	nav := navfakes.New(currentRoute)
	routes := client.DefaultRoutes()
	tr := transport.NewHTTP(server.URL+"/api", 0)

	maintenance := client.NewMaintenanceInterceptor(nav, routes, zerolog.Nop())
	auth := client.NewAuthInterceptor(sessions, tr, nav, routes, zerolog.Nop())
	c := client.New(tr, client.WithInterceptors(maintenance, auth))

	return &authFixture{backend: backend, sessions: sessions, nav: nav, maintenance: maintenance, client: c}
}

func (f *authFixture) seedSession(t *testing.T, access string) {
	t.Helper()
	require.NoError(t, f.sessions.SetSession(access, testRefreshToken, &session.User{ID: "user-1"}))
}

func TestBearerTokenAttachedFromSession(t *testing.T) {
	backend := &fakeBackend{}
	f := newAuthFixture(t, backend, "/dashboard")
	f.seedSession(t, freshAccessToken)

	_, err := f.client.Get(context.Background(), "/protected/")
	require.NoError(t, err)
	require.Equal(t, []string{"Bearer " + freshAccessToken}, backend.authHeaders)
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	backend := &fakeBackend{allowAnonymous: true}
	f := newAuthFixture(t, backend, "/dashboard")

	_, err := f.client.Get(context.Background(), "/protected/")
	require.NoError(t, err)
	require.Equal(t, []string{""}, backend.authHeaders)
}

func TestExpiredTokenRefreshedAndRetriedOnce(t *testing.T) {
	backend := &fakeBackend{}
	f := newAuthFixture(t, backend, "/dashboard")
	f.seedSession(t, staleAccessToken)

	resp, err := f.client.Get(context.Background(), "/protected/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)

	protected, refresh := backend.counts()
	require.Equal(t, 2, protected, "original + exactly one retry")
	require.Equal(t, 1, refresh)
	require.Equal(t, freshAccessToken, f.sessions.AccessToken(), "refreshed token written to session")
	require.Equal(t, "Bearer "+freshAccessToken, backend.authHeaders[1], "retry carries the new token")
}

func TestRetriedRequestNeverTriggersSecondRefresh(t *testing.T) {
	backend := &fakeBackend{alwaysUnauthorized: true}
	f := newAuthFixture(t, backend, "/dashboard")
	f.seedSession(t, staleAccessToken)

	_, err := f.client.Get(context.Background(), "/protected/")
	require.True(t, transport.IsStatus(err, http.StatusUnauthorized))

	protected, refresh := backend.counts()
	require.Equal(t, 2, protected, "no infinite loop when the retry also fails")
	require.Equal(t, 1, refresh)
}

func TestRefreshFailureClearsSessionAndRedirectsToLogin(t *testing.T) {
	backend := &fakeBackend{refreshFails: true}
	f := newAuthFixture(t, backend, "/dashboard")
	f.seedSession(t, staleAccessToken)

	_, err := f.client.Get(context.Background(), "/protected/")
	require.True(t, transport.IsStatus(err, http.StatusUnauthorized), "original error propagates")

	require.False(t, f.sessions.IsAuthenticated())
	require.Empty(t, f.sessions.AccessToken())
	require.Empty(t, f.sessions.RefreshToken())
	require.Nil(t, f.sessions.User())
	require.Equal(t, []string{"/login"}, f.nav.Replaced, "exactly one navigation to login")
}

func TestMissingRefreshTokenClearsSessionAndRedirects(t *testing.T) {
	backend := &fakeBackend{}
	f := newAuthFixture(t, backend, "/dashboard")
	require.NoError(t, f.sessions.SetSession(staleAccessToken, "", nil))

	_, err := f.client.Get(context.Background(), "/protected/")
	require.True(t, transport.IsStatus(err, http.StatusUnauthorized))

	_, refresh := backend.counts()
	require.Equal(t, 0, refresh, "no refresh call without a refresh token")
	require.False(t, f.sessions.IsAuthenticated())
	require.Equal(t, []string{"/login"}, f.nav.Replaced)
}

func TestAuthEndpointsExemptFromRefresh(t *testing.T) {
	backend := &fakeBackend{}
	f := newAuthFixture(t, backend, "/dashboard")
	f.seedSession(t, staleAccessToken)

	_, err := f.client.Post(context.Background(), "/auth/login/",
		client.WithJSON(map[string]string{"email": "x@example.com", "password": "bad"}))
	require.True(t, transport.IsStatus(err, http.StatusUnauthorized))

	_, refresh := backend.counts()
	require.Equal(t, 0, refresh, "a failed login must not trigger a refresh cycle")
}

func TestNoRefreshWhileOnAuthPage(t *testing.T) {
	backend := &fakeBackend{}
	f := newAuthFixture(t, backend, "/login")
	f.seedSession(t, staleAccessToken)

	_, err := f.client.Get(context.Background(), "/protected/")
	require.True(t, transport.IsStatus(err, http.StatusUnauthorized))

	protected, refresh := backend.counts()
	require.Equal(t, 1, protected)
	require.Equal(t, 0, refresh)
}

func TestConcurrentExpiredRequestsShareOneRefresh(t *testing.T) {
	backend := &fakeBackend{
		rendezvous:   2,
		barrier:      make(chan struct{}),
		refreshDelay: 100 * time.Millisecond,
	}
	f := newAuthFixture(t, backend, "/dashboard")
	f.seedSession(t, staleAccessToken)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.client.Get(context.Background(), "/protected/")
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	_, refresh := backend.counts()
	require.Equal(t, 1, refresh, "concurrent 401s must share a single refresh")
}

func TestRetryReplaysMultipartBody(t *testing.T) {
	backend := &fakeBackend{}
	f := newAuthFixture(t, backend, "/dashboard")
	f.seedSession(t, staleAccessToken)

	m := transport.NewMultipart()
	require.NoError(t, m.WriteField("category", "receipt"))
	require.NoError(t, m.WriteFile("file", "facture.pdf", strings.NewReader("%PDF-1.4 contenu du justificatif")))

	_, err := f.client.Post(context.Background(), "/protected/", client.WithMultipart(m))
	require.NoError(t, err)

	protected, refresh := backend.counts()
	require.Equal(t, 2, protected)
	require.Equal(t, 1, refresh)
	require.Contains(t, string(backend.bodies[1]), "%PDF-1.4 contenu du justificatif",
		"retried upload still carries the file content")
	require.Equal(t, backend.bodies[0], backend.bodies[1], "retry payload is byte-identical")
}

func TestMaintenanceDuringRetryStillRedirects(t *testing.T) {
	backend := &fakeBackend{maintenanceOnRetry: true}
	f := newAuthFixture(t, backend, "/dashboard")
	f.seedSession(t, staleAccessToken)

	_, err := f.client.Get(context.Background(), "/protected/")
	require.True(t, transport.IsStatus(err, http.StatusServiceUnavailable),
		"the retry's 503 reaches the caller")

	require.Equal(t, []string{"/maintenance"}, f.nav.Replaced)
	require.Equal(t, "Maintenance en cours, réessayez plus tard.", f.maintenance.Message())
}
