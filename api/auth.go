package api

import (
	"context"
	"fmt"

	"github.com/taxfree-rdc/taxfree-go/client"
	"github.com/taxfree-rdc/taxfree-go/session"
)

// AuthService covers the two-step OTP login flow, token lifecycle,
// registration, activation and password reset endpoints.
type AuthService struct {
	client *client.Client
}

// LoginChallenge is the step-1 response: credentials accepted, an OTP code
// has been sent out of band.
type LoginChallenge struct {
	Detail string `json:"detail"`
	Email  string `json:"email,omitempty"`
}

// LoginResult is the step-2 response carrying the token pair and user
// summary.
type LoginResult struct {
	Access                 string        `json:"access"`
	Refresh                string        `json:"refresh"`
	User                   *session.User `json:"user"`
	PasswordChangeRequired bool          `json:"password_change_required,omitempty"`
}

// Login submits credentials (step 1 of 2). The server answers with an OTP
// challenge, completed by VerifyOTP.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginChallenge, error) {
	body := map[string]string{"email": email, "password": password}
	return postJSON[LoginChallenge](ctx, s.client, "/auth/login/", body)
}

// VerifyOTP completes the login (step 2 of 2) and returns the token pair.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error) {
	body := map[string]string{"email": email, "otp": code}
	return postJSON[LoginResult](ctx, s.client, "/auth/verify-otp/", body)
}

// ResendOTP asks for a fresh OTP code during step 2.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	_, err := postJSON[struct{}](ctx, s.client, "/auth/resend-otp/", map[string]string{"email": email})
	return err
}

// Logout invalidates the refresh token server side.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	_, err := postJSON[struct{}](ctx, s.client, "/auth/logout/", map[string]string{"refresh": refreshToken})
	return err
}

// RefreshResult carries the new access token from the refresh endpoint.
type RefreshResult struct {
	Access string `json:"access"`
}

// Refresh exchanges a refresh token for a new access token. The request
// client performs this automatically on 401; the explicit method exists for
// proactive refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	return postJSON[RefreshResult](ctx, s.client, client.RefreshPath, map[string]string{"refresh": refreshToken})
}

// ClientRegistration is the traveler self-registration payload.
type ClientRegistration struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	PassportNo  string `json:"passport_number,omitempty"`
}

// RegisterClient self-registers a traveler account.
func (s *AuthService) RegisterClient(ctx context.Context, reg ClientRegistration) error {
	_, err := postJSON[struct{}](ctx, s.client, "/auth/register/client/", reg)
	return err
}

// MerchantRegistration is the merchant onboarding request payload.
type MerchantRegistration struct {
	CompanyName   string `json:"company_name"`
	TaxID         string `json:"tax_id"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
}

// RegisterMerchant submits a merchant registration request for review.
func (s *AuthService) RegisterMerchant(ctx context.Context, reg MerchantRegistration) error {
	_, err := postJSON[struct{}](ctx, s.client, "/auth/register/merchant/", reg)
	return err
}

// ValidateActivationToken checks an account activation token before showing
// the activation form.
func (s *AuthService) ValidateActivationToken(ctx context.Context, token string) error {
	_, err := getJSON[struct{}](ctx, s.client, fmt.Sprintf("/auth/validate-token/%s/", token))
	return err
}

// ActivateAccount completes account activation by setting the password.
func (s *AuthService) ActivateAccount(ctx context.Context, token, password string) error {
	_, err := postJSON[struct{}](ctx, s.client, fmt.Sprintf("/auth/activate/%s/", token), map[string]string{"password": password})
	return err
}

// ForgotPassword starts the password reset flow.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	_, err := postJSON[struct{}](ctx, s.client, "/auth/forgot-password/", map[string]string{"email": email})
	return err
}

// ValidateResetToken checks a password reset token.
func (s *AuthService) ValidateResetToken(ctx context.Context, token string) error {
	_, err := getJSON[struct{}](ctx, s.client, fmt.Sprintf("/auth/validate-reset-token/%s/", token))
	return err
}

// ResetPassword completes the password reset flow.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	_, err := postJSON[struct{}](ctx, s.client, fmt.Sprintf("/auth/reset-password/%s/", token), map[string]string{"password": password})
	return err
}

// Permissions is the flat permission map for the current user.
type Permissions struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// MyPermissions returns the current user's effective permissions.
func (s *AuthService) MyPermissions(ctx context.Context) (*Permissions, error) {
	return getJSON[Permissions](ctx, s.client, "/auth/my-permissions/")
}
