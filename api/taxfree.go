package api

import (
	"context"
	"fmt"
	"time"

	"github.com/taxfree-rdc/taxfree-go/client"
)

// TaxFreeService covers travelers and tax-free forms, the platform's central
// resource.
type TaxFreeService struct {
	client *client.Client
}

// Traveler is a registered traveler eligible for VAT refunds.
type Traveler struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Nationality string `json:"nationality,omitempty"`
	PassportNo  string `json:"passport_number,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Form is a tax-free form issued at the point of sale.
type Form struct {
	ID         string    `json:"id"`
	Number     string    `json:"form_number"`
	Status     string    `json:"status"`
	TravelerID string    `json:"traveler,omitempty"`
	MerchantID string    `json:"merchant,omitempty"`
	TotalTTC   float64   `json:"total_ttc,omitempty"`
	VATAmount  float64   `json:"vat_amount,omitempty"`
	RefundDue  float64   `json:"refund_amount,omitempty"`
	IssuedAt   time.Time `json:"issued_at,omitempty"`
}

// Tax-free form lifecycle statuses.
const (
	FormStatusIssued    = "issued"
	FormStatusValidated = "validated"
	FormStatusRejected  = "rejected"
	FormStatusRefunded  = "refunded"
	FormStatusExpired   = "expired"
)

func (s *TaxFreeService) ListTravelers(ctx context.Context, params ListParams) (*Page[Traveler], error) {
	return getJSON[Page[Traveler]](ctx, s.client, "/taxfree/travelers/", client.WithQuery(params.query()))
}

func (s *TaxFreeService) GetTraveler(ctx context.Context, id string) (*Traveler, error) {
	return getJSON[Traveler](ctx, s.client, fmt.Sprintf("/taxfree/travelers/%s/", id))
}

func (s *TaxFreeService) ListForms(ctx context.Context, params ListParams) (*Page[Form], error) {
	return getJSON[Page[Form]](ctx, s.client, "/taxfree/forms/", client.WithQuery(params.query()))
}

func (s *TaxFreeService) GetForm(ctx context.Context, id string) (*Form, error) {
	return getJSON[Form](ctx, s.client, fmt.Sprintf("/taxfree/forms/%s/", id))
}

// CreateForm issues a new tax-free form.
func (s *TaxFreeService) CreateForm(ctx context.Context, form Form) (*Form, error) {
	return postJSON[Form](ctx, s.client, "/taxfree/forms/", form)
}

// CancelForm voids a form before customs validation.
func (s *TaxFreeService) CancelForm(ctx context.Context, id string) error {
	_, err := postJSON[struct{}](ctx, s.client, fmt.Sprintf("/taxfree/forms/%s/cancel/", id), nil)
	return err
}

// TravelerStatus is the anonymous status-check result for a form number.
type TravelerStatus struct {
	FormNumber string `json:"form_number"`
	Status     string `json:"status"`
	Detail     string `json:"detail,omitempty"`
}

// CheckStatus is the public traveler-facing status check by form number.
func (s *TaxFreeService) CheckStatus(ctx context.Context, formNumber string) (*TravelerStatus, error) {
	return getJSON[TravelerStatus](ctx, s.client, "/taxfree/status/",
		client.WithQuery(map[string]any{"form_number": formNumber}))
}

// ListAdminForms pages through all forms regardless of owner (admin only).
func (s *TaxFreeService) ListAdminForms(ctx context.Context, params ListParams) (*Page[Form], error) {
	return getJSON[Page[Form]](ctx, s.client, "/taxfree/admin/forms/", client.WithQuery(params.query()))
}

// StatusOverride is an admin-forced status change with its justification.
type StatusOverride struct {
	ID        string `json:"id,omitempty"`
	FormID    string `json:"form"`
	NewStatus string `json:"new_status"`
	Reason    string `json:"reason"`
}

// OverrideStatus force-sets a form status (admin only).
func (s *TaxFreeService) OverrideStatus(ctx context.Context, override StatusOverride) (*StatusOverride, error) {
	return postJSON[StatusOverride](ctx, s.client, "/taxfree/admin/overrides/", override)
}
