package api

import (
	"context"
	"fmt"
	"time"

	"github.com/taxfree-rdc/taxfree-go/client"
)

// RefundService covers refund records and their payment attempts.
type RefundService struct {
	client *client.Client
}

// Refund is the payout owed to a traveler for a validated form.
type Refund struct {
	ID        string    `json:"id"`
	FormID    string    `json:"form"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency,omitempty"`
	Method    string    `json:"method,omitempty"` // mobile money, card, cash
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// PaymentAttempt is one try at executing a refund payout.
type PaymentAttempt struct {
	ID          string    `json:"id"`
	RefundID    string    `json:"refund"`
	ProviderRef string    `json:"provider_reference,omitempty"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	AttemptedAt time.Time `json:"attempted_at,omitempty"`
}

func (s *RefundService) List(ctx context.Context, params ListParams) (*Page[Refund], error) {
	return getJSON[Page[Refund]](ctx, s.client, "/refunds/", client.WithQuery(params.query()))
}

func (s *RefundService) Get(ctx context.Context, id string) (*Refund, error) {
	return getJSON[Refund](ctx, s.client, fmt.Sprintf("/refunds/%s/", id))
}

// Retry re-queues a failed refund for payment.
func (s *RefundService) Retry(ctx context.Context, id string) (*Refund, error) {
	return postJSON[Refund](ctx, s.client, fmt.Sprintf("/refunds/%s/retry/", id), nil)
}

func (s *RefundService) ListAttempts(ctx context.Context, params ListParams) (*Page[PaymentAttempt], error) {
	return getJSON[Page[PaymentAttempt]](ctx, s.client, "/refunds/attempts/", client.WithQuery(params.query()))
}
