package api

import (
	"context"
	"fmt"
	"time"

	"github.com/taxfree-rdc/taxfree-go/client"
)

// B2BVATService covers the business-to-business VAT reclaim module. The
// backend ships it behind a feature flag; a disabled deployment answers 404
// on every path here.
type B2BVATService struct {
	client *client.Client
}

// Claim is a B2B VAT reclaim request.
type Claim struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	VATNumber   string    `json:"vat_number"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at,omitempty"`
}

func (s *B2BVATService) ListClaims(ctx context.Context, params ListParams) (*Page[Claim], error) {
	return getJSON[Page[Claim]](ctx, s.client, "/b2b-vat/claims/", client.WithQuery(params.query()))
}

func (s *B2BVATService) GetClaim(ctx context.Context, id string) (*Claim, error) {
	return getJSON[Claim](ctx, s.client, fmt.Sprintf("/b2b-vat/claims/%s/", id))
}

func (s *B2BVATService) SubmitClaim(ctx context.Context, claim Claim) (*Claim, error) {
	return postJSON[Claim](ctx, s.client, "/b2b-vat/claims/", claim)
}
