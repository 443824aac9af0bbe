package api

import (
	"context"

	"github.com/taxfree-rdc/taxfree-go/client"
)

// ReportService covers reporting summaries and spreadsheet exports.
type ReportService struct {
	client *client.Client
}

// ReportSummary is the aggregate used by the admin reports page.
type ReportSummary struct {
	FormsIssued    int     `json:"forms_issued"`
	FormsValidated int     `json:"forms_validated"`
	FormsRefunded  int     `json:"forms_refunded"`
	VATCollected   float64 `json:"vat_collected"`
	RefundsPaid    float64 `json:"refunds_paid"`
}

// ReportParams bound a report to a date range; zero values are omitted from
// the query string.
type ReportParams struct {
	From       string // YYYY-MM-DD
	To         string
	MerchantID string
}

func (p ReportParams) query() map[string]any {
	q := map[string]any{}
	if p.From != "" {
		q["from"] = p.From
	}
	if p.To != "" {
		q["to"] = p.To
	}
	if p.MerchantID != "" {
		q["merchant"] = p.MerchantID
	}
	return q
}

// Summary returns aggregate numbers for the given range.
func (s *ReportService) Summary(ctx context.Context, params ReportParams) (*ReportSummary, error) {
	return getJSON[ReportSummary](ctx, s.client, "/reports/summary/", client.WithQuery(params.query()))
}

// Export downloads the report as a spreadsheet. The response is binary; the
// raw bytes are returned for the caller to write out.
func (s *ReportService) Export(ctx context.Context, params ReportParams) ([]byte, error) {
	resp, err := s.client.Get(ctx, "/reports/export/", client.WithQuery(params.query()), client.WithBlob())
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
