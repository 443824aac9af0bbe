package taxfree_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	taxfree "github.com/taxfree-rdc/taxfree-go"
	"github.com/taxfree-rdc/taxfree-go/client/navfakes"
	"github.com/taxfree-rdc/taxfree-go/session"
	"github.com/taxfree-rdc/taxfree-go/transport"
)

func newPlatform(t *testing.T, handler http.Handler) *taxfree.Platform {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := taxfree.New(
		taxfree.WithStorage(session.NewMemoryStorage()),
		taxfree.WithNavigator(navfakes.New("/login")),
		taxfree.WithTransport(transport.NewHTTP(server.URL+"/api", 0)),
	)
	require.NoError(t, err)
	return p
}

func TestLoginThenVerifyOTPPersistsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"detail":"Code envoyé."}`))
	})
	mux.HandleFunc("/api/auth/verify-otp/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access":"acc-1","refresh":"ref-1","user":{"id":"u1","role":"operator"}}`))
	})
	p := newPlatform(t, mux)

	_, err := p.Login(context.Background(), "a@b.cd", "secret")
	require.NoError(t, err)
	require.False(t, p.Sessions.IsAuthenticated(), "step 1 alone must not authenticate")

	result, err := p.VerifyOTP(context.Background(), "a@b.cd", "123456")
	require.NoError(t, err)
	require.Equal(t, "acc-1", result.Access)

	require.True(t, p.Sessions.IsAuthenticated())
	require.Equal(t, "ref-1", p.Sessions.RefreshToken())
	require.Equal(t, session.RoleOperator, p.Sessions.User().Role)
}

func TestLogoutClearsLocalSessionEvenWhenServerFails(t *testing.T) {
	p := newPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"boom"}`))
	}))
	require.NoError(t, p.Sessions.SetSession("acc-1", "ref-1", nil))

	err := p.Logout(context.Background())
	require.True(t, transport.IsStatus(err, http.StatusInternalServerError), "server error propagates")
	require.False(t, p.Sessions.IsAuthenticated(), "local state is gone regardless")
}

func TestLogoutWithoutSessionSkipsServerCall(t *testing.T) {
	called := false
	p := newPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, p.Logout(context.Background()))
	require.False(t, called, "nothing to revoke without a refresh token")
}
