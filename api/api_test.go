package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taxfree-rdc/taxfree-go/api"
	"github.com/taxfree-rdc/taxfree-go/client"
	"github.com/taxfree-rdc/taxfree-go/internal/utils"
	"github.com/taxfree-rdc/taxfree-go/transport"
)

// apiServer records the last request and replies with a canned body.
type apiServer struct {
	method string
	path   string
	query  string
	body   []byte

	status   int
	response string
	raw      []byte
}

func (s *apiServer) fixture(t *testing.T) *api.API {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.method = r.Method
		s.path = r.URL.Path
		s.query = r.URL.RawQuery
		s.body, _ = io.ReadAll(r.Body)

		status := s.status
		if status == 0 {
			status = http.StatusOK
		}
		if s.raw != nil {
			w.Header().Set("Content-Type", "application/octet-stream")
			w.WriteHeader(status)
			w.Write(s.raw)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(s.response))
	}))
	t.Cleanup(server.Close)

	return api.New(client.New(transport.NewHTTP(server.URL+"/api", 0)))
}

func TestNotificationListBuildsPagedQuery(t *testing.T) {
	backend := &apiServer{response: `{"count":1,"results":[{"id":"n1","title":"Remboursement","read":false}]}`}
	a := backend.fixture(t)

	page, err := a.Notifications.List(context.Background(), api.ListParams{
		Page:   utils.Ptr(2),
		Search: "remboursement",
	})
	require.NoError(t, err)

	require.Equal(t, http.MethodGet, backend.method)
	require.Equal(t, "/api/auth/notifications/", backend.path)
	require.Equal(t, "page=2&search=remboursement", backend.query, "nil page_size stays out of the URL")
	require.Equal(t, 1, page.Count)
	require.Equal(t, "n1", page.Results[0].ID)
}

func TestNotificationUnreadCount(t *testing.T) {
	backend := &apiServer{response: `{"count":7}`}
	a := backend.fixture(t)

	count, err := a.Notifications.Unread(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/api/auth/notifications/unread_count/", backend.path)
	require.Equal(t, 7, count.Count)
}

func TestNotificationMarkReadPostsAction(t *testing.T) {
	backend := &apiServer{status: http.StatusNoContent}
	a := backend.fixture(t)

	require.NoError(t, a.Notifications.MarkRead(context.Background(), "n1"))
	require.Equal(t, http.MethodPost, backend.method)
	require.Equal(t, "/api/auth/notifications/n1/mark_read/", backend.path)
}

func TestLoginSendsCredentialsAndDecodesChallenge(t *testing.T) {
	backend := &apiServer{response: `{"detail":"Code envoyé par e-mail.","email":"a@b.cd"}`}
	a := backend.fixture(t)

	challenge, err := a.Auth.Login(context.Background(), "a@b.cd", "secret")
	require.NoError(t, err)

	require.Equal(t, http.MethodPost, backend.method)
	require.Equal(t, "/api/auth/login/", backend.path)

	var sent map[string]string
	require.NoError(t, json.Unmarshal(backend.body, &sent))
	require.Equal(t, map[string]string{"email": "a@b.cd", "password": "secret"}, sent)
	require.Equal(t, "Code envoyé par e-mail.", challenge.Detail)
}

func TestVerifyOTPDecodesTokenPairAndUser(t *testing.T) {
	backend := &apiServer{response: `{
		"access": "acc-1",
		"refresh": "ref-1",
		"user": {"id": "u1", "email": "a@b.cd", "role": "merchant"},
		"password_change_required": true
	}`}
	a := backend.fixture(t)

	result, err := a.Auth.VerifyOTP(context.Background(), "a@b.cd", "123456")
	require.NoError(t, err)

	require.Equal(t, "/api/auth/verify-otp/", backend.path)
	var sent map[string]string
	require.NoError(t, json.Unmarshal(backend.body, &sent))
	require.Equal(t, "123456", sent["otp"])

	require.Equal(t, "acc-1", result.Access)
	require.Equal(t, "ref-1", result.Refresh)
	require.True(t, result.PasswordChangeRequired)
	require.Equal(t, "merchant", result.User.Role)
}

func TestLogoutTolerates204(t *testing.T) {
	backend := &apiServer{status: http.StatusNoContent}
	a := backend.fixture(t)

	require.NoError(t, a.Auth.Logout(context.Background(), "ref-1"))
	require.Equal(t, http.MethodPost, backend.method)
	require.Equal(t, "/api/auth/logout/", backend.path)
}

func TestCheckStatusQueriesByFormNumber(t *testing.T) {
	backend := &apiServer{response: `{"form_number":"TF-2026-0001","status":"validated"}`}
	a := backend.fixture(t)

	st, err := a.TaxFree.CheckStatus(context.Background(), "TF-2026-0001")
	require.NoError(t, err)
	require.Equal(t, "/api/taxfree/status/", backend.path)
	require.Equal(t, "form_number=TF-2026-0001", backend.query)
	require.Equal(t, api.FormStatusValidated, st.Status)
}

func TestReportExportReturnsRawBytes(t *testing.T) {
	sheet := []byte{0x50, 0x4b, 0x03, 0x04, 0x00, 0x01} // zip magic, not JSON
	backend := &apiServer{raw: sheet}
	a := backend.fixture(t)

	data, err := a.Reports.Export(context.Background(), api.ReportParams{From: "2026-01-01", To: "2026-01-31"})
	require.NoError(t, err)
	require.Equal(t, "/api/reports/export/", backend.path)
	require.Equal(t, "from=2026-01-01&to=2026-01-31", backend.query)
	require.Equal(t, sheet, data)
}

func TestServerErrorSurfacesDetail(t *testing.T) {
	backend := &apiServer{status: http.StatusForbidden, response: `{"detail":"Accès refusé.","code":"permission_denied"}`}
	a := backend.fixture(t)

	_, err := a.TaxFree.GetForm(context.Background(), "f1")
	se, ok := transport.AsStatusError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, se.Status)
	require.Equal(t, "Accès refusé.", se.Detail())
	require.Equal(t, "permission_denied", se.Code())
}
