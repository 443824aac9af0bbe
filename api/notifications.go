package api

import (
	"context"
	"fmt"
	"time"

	"github.com/taxfree-rdc/taxfree-go/client"
)

// NotificationService covers the in-app notification feed.
type NotificationService struct {
	client *client.Client
}

// Notification is one feed entry.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// UnreadCount is the unread counter payload.
type UnreadCount struct {
	Count int `json:"count"`
}

// List pages through the current user's notifications.
func (s *NotificationService) List(ctx context.Context, params ListParams) (*Page[Notification], error) {
	return getJSON[Page[Notification]](ctx, s.client, "/auth/notifications/", client.WithQuery(params.query()))
}

// Unread returns the unread notification count.
func (s *NotificationService) Unread(ctx context.Context) (*UnreadCount, error) {
	return getJSON[UnreadCount](ctx, s.client, "/auth/notifications/unread_count/")
}

// MarkRead marks a single notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	_, err := postJSON[struct{}](ctx, s.client, fmt.Sprintf("/auth/notifications/%s/mark_read/", id), nil)
	return err
}
