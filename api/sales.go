package api

import (
	"context"
	"fmt"
	"time"

	"github.com/taxfree-rdc/taxfree-go/client"
)

// SalesService covers sale invoices and their line items, the purchase
// records a tax-free form is issued against.
type SalesService struct {
	client *client.Client
}

// Invoice is a point-of-sale purchase record.
type Invoice struct {
	ID         string    `json:"id"`
	Number     string    `json:"invoice_number"`
	MerchantID string    `json:"merchant,omitempty"`
	OutletID   string    `json:"outlet,omitempty"`
	TotalTTC   float64   `json:"total_ttc"`
	VATAmount  float64   `json:"vat_amount"`
	IssuedAt   time.Time `json:"issued_at,omitempty"`
}

// Item is one invoice line.
type Item struct {
	ID        string  `json:"id"`
	InvoiceID string  `json:"invoice"`
	Label     string  `json:"label"`
	Category  string  `json:"category,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	VATRate   float64 `json:"vat_rate,omitempty"`
}

func (s *SalesService) ListInvoices(ctx context.Context, params ListParams) (*Page[Invoice], error) {
	return getJSON[Page[Invoice]](ctx, s.client, "/sales/invoices/", client.WithQuery(params.query()))
}

func (s *SalesService) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	return getJSON[Invoice](ctx, s.client, fmt.Sprintf("/sales/invoices/%s/", id))
}

func (s *SalesService) CreateInvoice(ctx context.Context, invoice Invoice) (*Invoice, error) {
	return postJSON[Invoice](ctx, s.client, "/sales/invoices/", invoice)
}

func (s *SalesService) ListItems(ctx context.Context, invoiceID string, params ListParams) (*Page[Item], error) {
	q := params.query()
	q["invoice"] = invoiceID
	return getJSON[Page[Item]](ctx, s.client, "/sales/items/", client.WithQuery(q))
}
