package api

import (
	"context"
	"fmt"
	"io"

	"github.com/taxfree-rdc/taxfree-go/client"
	"github.com/taxfree-rdc/taxfree-go/session"
	"github.com/taxfree-rdc/taxfree-go/transport"
)

// UserService covers the current account plus admin user management.
type UserService struct {
	client *client.Client
}

// Me returns the authenticated user's profile.
func (s *UserService) Me(ctx context.Context) (*session.User, error) {
	return getJSON[session.User](ctx, s.client, "/auth/users/me/")
}

// UpdateMe patches the authenticated user's profile fields.
func (s *UserService) UpdateMe(ctx context.Context, fields map[string]any) (*session.User, error) {
	return patchJSON[session.User](ctx, s.client, "/auth/users/me/", fields)
}

// UploadPhoto replaces the profile photo. Sent as multipart, not JSON.
func (s *UserService) UploadPhoto(ctx context.Context, filename string, photo io.Reader) error {
	form := transport.NewMultipart()
	if err := form.WriteFile("photo", filename, photo); err != nil {
		return err
	}
	_, err := s.client.Post(ctx, "/auth/users/me/photo/", client.WithMultipart(form))
	return err
}

// ChangePassword changes the authenticated user's password.
func (s *UserService) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"current_password": current, "new_password": next}
	_, err := postJSON[struct{}](ctx, s.client, "/auth/users/me/change_password/", body)
	return err
}

// AdminUser is the admin view of a platform account.
type AdminUser struct {
	session.User
	IsActive  bool   `json:"is_active"`
	LastLogin string `json:"last_login,omitempty"`
	CreatedAt string `json:"date_joined,omitempty"`
}

// ListAdminUsers pages through accounts (admin only).
func (s *UserService) ListAdminUsers(ctx context.Context, params ListParams) (*Page[AdminUser], error) {
	return getJSON[Page[AdminUser]](ctx, s.client, "/auth/admin/users/", client.WithQuery(params.query()))
}

// GetAdminUser fetches one account (admin only).
func (s *UserService) GetAdminUser(ctx context.Context, id string) (*AdminUser, error) {
	return getJSON[AdminUser](ctx, s.client, fmt.Sprintf("/auth/admin/users/%s/", id))
}

// UpdateAdminUser patches an account (admin only).
func (s *UserService) UpdateAdminUser(ctx context.Context, id string, fields map[string]any) (*AdminUser, error) {
	return patchJSON[AdminUser](ctx, s.client, fmt.Sprintf("/auth/admin/users/%s/", id), fields)
}

// DeactivateAdminUser removes an account (admin only).
func (s *UserService) DeactivateAdminUser(ctx context.Context, id string) error {
	return del(ctx, s.client, fmt.Sprintf("/auth/admin/users/%s/", id))
}
