package api

import (
	"context"

	"github.com/taxfree-rdc/taxfree-go/client"
)

// SettingsService covers the system settings endpoint, including the
// maintenance toggle that drives the 503 sentinel.
type SettingsService struct {
	client *client.Client
}

// SystemSettings is the admin-editable platform configuration.
type SystemSettings struct {
	MaintenanceMode    bool   `json:"maintenance_mode"`
	MaintenanceMessage string `json:"maintenance_message,omitempty"`
	SupportEmail       string `json:"support_email,omitempty"`
	DefaultCurrency    string `json:"default_currency,omitempty"`
}

// Get returns the current system settings.
func (s *SettingsService) Get(ctx context.Context) (*SystemSettings, error) {
	return getJSON[SystemSettings](ctx, s.client, "/settings/system/")
}

// Update patches system settings (admin only).
func (s *SettingsService) Update(ctx context.Context, fields map[string]any) (*SystemSettings, error) {
	return patchJSON[SystemSettings](ctx, s.client, "/settings/system/", fields)
}
