package api

import (
	"context"
	"fmt"

	"github.com/taxfree-rdc/taxfree-go/client"
)

// MerchantService covers merchant administration and the merchant "manage"
// area (own outlets, users, dashboard).
type MerchantService struct {
	client *client.Client
}

// Merchant is a registered merchant company.
type Merchant struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	TaxID       string `json:"tax_id"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Outlet is a merchant point of sale location.
type Outlet struct {
	ID         string `json:"id"`
	MerchantID string `json:"merchant,omitempty"`
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
}

// POSDevice is a registered point-of-sale terminal.
type POSDevice struct {
	ID       string `json:"id"`
	OutletID string `json:"outlet,omitempty"`
	Serial   string `json:"serial_number"`
	Status   string `json:"status,omitempty"`
}

// MerchantDashboard is the aggregate view for the merchant home page.
type MerchantDashboard struct {
	FormsIssued    int     `json:"forms_issued"`
	FormsValidated int     `json:"forms_validated"`
	RefundsTotal   float64 `json:"refunds_total"`
	PendingActions int     `json:"pending_actions"`
}

func (s *MerchantService) List(ctx context.Context, params ListParams) (*Page[Merchant], error) {
	return getJSON[Page[Merchant]](ctx, s.client, "/merchants/", client.WithQuery(params.query()))
}

func (s *MerchantService) Get(ctx context.Context, id string) (*Merchant, error) {
	return getJSON[Merchant](ctx, s.client, fmt.Sprintf("/merchants/%s/", id))
}

func (s *MerchantService) Update(ctx context.Context, id string, fields map[string]any) (*Merchant, error) {
	return patchJSON[Merchant](ctx, s.client, fmt.Sprintf("/merchants/%s/", id), fields)
}

func (s *MerchantService) Delete(ctx context.Context, id string) error {
	return del(ctx, s.client, fmt.Sprintf("/merchants/%s/", id))
}

func (s *MerchantService) ListOutlets(ctx context.Context, params ListParams) (*Page[Outlet], error) {
	return getJSON[Page[Outlet]](ctx, s.client, "/merchants/outlets/", client.WithQuery(params.query()))
}

func (s *MerchantService) ListPOSDevices(ctx context.Context, params ListParams) (*Page[POSDevice], error) {
	return getJSON[Page[POSDevice]](ctx, s.client, "/merchants/pos-devices/", client.WithQuery(params.query()))
}

// Dashboard returns the merchant's own aggregate numbers.
func (s *MerchantService) Dashboard(ctx context.Context) (*MerchantDashboard, error) {
	return getJSON[MerchantDashboard](ctx, s.client, "/merchants/manage/dashboard/")
}

// MyOutlets lists the authenticated merchant's own outlets.
func (s *MerchantService) MyOutlets(ctx context.Context, params ListParams) (*Page[Outlet], error) {
	return getJSON[Page[Outlet]](ctx, s.client, "/merchants/manage/my-outlets/", client.WithQuery(params.query()))
}

// CreateMyOutlet adds an outlet under the authenticated merchant.
func (s *MerchantService) CreateMyOutlet(ctx context.Context, outlet Outlet) (*Outlet, error) {
	return postJSON[Outlet](ctx, s.client, "/merchants/manage/my-outlets/", outlet)
}
