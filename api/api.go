// Package api holds the per-resource method collections of the Tax Free
// platform API. Each service is a flat mapping from operation to verb and
// path; anything smarter (auth headers, refresh, maintenance handling) lives
// in the request client underneath.
package api

import (
	"context"

	"github.com/taxfree-rdc/taxfree-go/client"
	"github.com/taxfree-rdc/taxfree-go/transport"
)

// API groups every resource service over one request client.
type API struct {
	Auth          *AuthService
	Users         *UserService
	Notifications *NotificationService
	Merchants     *MerchantService
	Sales         *SalesService
	TaxFree       *TaxFreeService
	Customs       *CustomsService
	Refunds       *RefundService
	Disputes      *DisputeService
	Rules         *RuleService
	Audit         *AuditService
	Reports       *ReportService
	Settings      *SettingsService
	Support       *SupportService
	B2BVAT        *B2BVATService
}

// New binds all services to the given client.
func New(c *client.Client) *API {
	return &API{
		Auth:          &AuthService{client: c},
		Users:         &UserService{client: c},
		Notifications: &NotificationService{client: c},
		Merchants:     &MerchantService{client: c},
		Sales:         &SalesService{client: c},
		TaxFree:       &TaxFreeService{client: c},
		Customs:       &CustomsService{client: c},
		Refunds:       &RefundService{client: c},
		Disputes:      &DisputeService{client: c},
		Rules:         &RuleService{client: c},
		Audit:         &AuditService{client: c},
		Reports:       &ReportService{client: c},
		Settings:      &SettingsService{client: c},
		Support:       &SupportService{client: c},
		B2BVAT:        &B2BVATService{client: c},
	}
}

// Page is the backend's standard paginated envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ListParams are the common list-endpoint query parameters. Nil pointers are
// simply left out of the URL.
type ListParams struct {
	Page     *int
	PageSize *int
	Search   string
	Ordering string
	Filters  map[string]any
}

func (p ListParams) query() map[string]any {
	q := map[string]any{}
	for k, v := range p.Filters {
		q[k] = v
	}
	q["page"] = p.Page
	q["page_size"] = p.PageSize
	if p.Search != "" {
		q["search"] = p.Search
	}
	if p.Ordering != "" {
		q["ordering"] = p.Ordering
	}
	return q
}

func getJSON[T any](ctx context.Context, c *client.Client, path string, opts ...client.RequestOption) (*T, error) {
	resp, err := c.Get(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	return decode[T](resp)
}

func postJSON[T any](ctx context.Context, c *client.Client, path string, body any, opts ...client.RequestOption) (*T, error) {
	if body != nil {
		opts = append(opts, client.WithJSON(body))
	}
	resp, err := c.Post(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	return decode[T](resp)
}

func patchJSON[T any](ctx context.Context, c *client.Client, path string, body any) (*T, error) {
	resp, err := c.Patch(ctx, path, client.WithJSON(body))
	if err != nil {
		return nil, err
	}
	return decode[T](resp)
}

func putJSON[T any](ctx context.Context, c *client.Client, path string, body any) (*T, error) {
	resp, err := c.Put(ctx, path, client.WithJSON(body))
	if err != nil {
		return nil, err
	}
	return decode[T](resp)
}

func del(ctx context.Context, c *client.Client, path string) error {
	_, err := c.Delete(ctx, path)
	return err
}

func decode[T any](resp *transport.Response) (*T, error) {
	var out T
	if len(resp.Data) == 0 {
		return &out, nil
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
