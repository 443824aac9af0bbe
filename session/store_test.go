package session_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/taxfree-rdc/taxfree-go/session"
)

const (
	testAccessToken  = "access-token-1"
	testRefreshToken = "refresh-token-1"
)

func testUser() *session.User {
	return &session.User{
		ID:        "user-1",
		Email:     "marie.kabila@example.com",
		FirstName: "Marie",
		LastName:  "Kabila",
		Role:      session.RoleOperator,
	}
}

func TestAuthenticatedFollowsTokenPresence(t *testing.T) {
	store := session.NewStore(session.NewMemoryStorage())
	require.False(t, store.IsAuthenticated())
	require.Empty(t, store.AccessToken())

	require.NoError(t, store.SetSession(testAccessToken, testRefreshToken, testUser()))
	require.True(t, store.IsAuthenticated())
	require.Equal(t, testAccessToken, store.AccessToken())
	require.Equal(t, testRefreshToken, store.RefreshToken())

	require.NoError(t, store.Clear())
	require.False(t, store.IsAuthenticated())
	require.Empty(t, store.AccessToken())
	require.Empty(t, store.RefreshToken())
	require.Nil(t, store.User())
}

func TestSetSessionRejectsEmptyToken(t *testing.T) {
	store := session.NewStore(session.NewMemoryStorage())
	require.Error(t, store.SetSession("", testRefreshToken, nil))
	require.False(t, store.IsAuthenticated())
}

func TestSetAccessTokenKeepsRefreshTokenAndUser(t *testing.T) {
	store := session.NewStore(session.NewMemoryStorage())
	require.NoError(t, store.SetSession(testAccessToken, testRefreshToken, testUser()))

	require.NoError(t, store.SetAccessToken("access-token-2"))
	require.Equal(t, "access-token-2", store.AccessToken())
	require.Equal(t, testRefreshToken, store.RefreshToken())
	require.NotNil(t, store.User())
	require.Equal(t, "user-1", store.User().ID)
}

func TestFileStoragePersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	store := session.NewStore(session.NewFileStorage(path))
	require.NoError(t, store.Load()) // cold start with no file
	require.False(t, store.IsAuthenticated())
	require.NoError(t, store.SetSession(testAccessToken, testRefreshToken, testUser()))

	// simulated restart
	restarted := session.NewStore(session.NewFileStorage(path))
	require.NoError(t, restarted.Load())
	require.True(t, restarted.IsAuthenticated())
	require.Equal(t, testAccessToken, restarted.AccessToken())
	require.Equal(t, "marie.kabila@example.com", restarted.User().Email)
}

func TestClearRemovesPersistedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewStore(session.NewFileStorage(path))
	require.NoError(t, store.SetSession(testAccessToken, testRefreshToken, nil))
	require.NoError(t, store.Clear())

	restarted := session.NewStore(session.NewFileStorage(path))
	require.NoError(t, restarted.Load())
	require.False(t, restarted.IsAuthenticated())
}

func TestUserReturnsCopy(t *testing.T) {
	store := session.NewStore(session.NewMemoryStorage())
	require.NoError(t, store.SetSession(testAccessToken, testRefreshToken, testUser()))

	first := store.User()
	first.Email = "tampered@example.com"
	require.Equal(t, "marie.kabila@example.com", store.User().Email)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestPeekClaims(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub":   "user-1",
		"email": "marie.kabila@example.com",
		"role":  "operator",
		"exp":   expiry.Unix(),
	})

	claims, err := session.PeekClaims(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "marie.kabila@example.com", claims.Email)
	require.Equal(t, "operator", claims.Role)
	require.Equal(t, expiry.Unix(), claims.ExpiresAt.Unix())
}

func TestPeekClaimsRejectsGarbage(t *testing.T) {
	_, err := session.PeekClaims("not-a-jwt")
	require.Error(t, err)

	_, err = session.PeekClaims("")
	require.Error(t, err)
}

func TestExpiresWithin(t *testing.T) {
	store := session.NewStore(session.NewMemoryStorage())

	// no token at all counts as expiring
	require.True(t, store.ExpiresWithin(time.Minute))

	longLived := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(2 * time.Hour).Unix()})
	require.NoError(t, store.SetSession(longLived, testRefreshToken, nil))
	require.False(t, store.ExpiresWithin(time.Minute))
	require.True(t, store.ExpiresWithin(3*time.Hour))
}
