package api

import (
	"context"
	"fmt"

	"github.com/taxfree-rdc/taxfree-go/client"
)

// RuleService covers the configuration resources: rulesets, risk rules,
// product categories, currencies and exchange rate history.
type RuleService struct {
	client *client.Client
}

// RuleSet groups the eligibility thresholds applied to new forms.
type RuleSet struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	MinPurchase    float64 `json:"min_purchase,omitempty"`
	RefundRate     float64 `json:"refund_rate,omitempty"`
	ValidityDays   int     `json:"validity_days,omitempty"`
	Active         bool    `json:"active"`
}

// RiskRule flags forms for manual review.
type RiskRule struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Threshold float64 `json:"threshold,omitempty"`
	Action    string  `json:"action,omitempty"`
	Active    bool    `json:"active"`
}

// Currency is a supported refund currency with its current rate.
type Currency struct {
	Code string  `json:"code"`
	Name string  `json:"name,omitempty"`
	Rate float64 `json:"rate,omitempty"`
}

// ExchangeRate is one historic rate entry.
type ExchangeRate struct {
	Currency   string  `json:"currency"`
	Rate       float64 `json:"rate"`
	RecordedAt string  `json:"recorded_at"`
}

func (s *RuleService) ListRuleSets(ctx context.Context, params ListParams) (*Page[RuleSet], error) {
	return getJSON[Page[RuleSet]](ctx, s.client, "/rules/rulesets/", client.WithQuery(params.query()))
}

func (s *RuleService) UpdateRuleSet(ctx context.Context, id string, fields map[string]any) (*RuleSet, error) {
	return patchJSON[RuleSet](ctx, s.client, fmt.Sprintf("/rules/rulesets/%s/", id), fields)
}

func (s *RuleService) ListRiskRules(ctx context.Context, params ListParams) (*Page[RiskRule], error) {
	return getJSON[Page[RiskRule]](ctx, s.client, "/rules/risk-rules/", client.WithQuery(params.query()))
}

func (s *RuleService) ListCurrencies(ctx context.Context) (*Page[Currency], error) {
	return getJSON[Page[Currency]](ctx, s.client, "/rules/currencies/")
}

func (s *RuleService) ExchangeRateHistory(ctx context.Context, params ListParams) (*Page[ExchangeRate], error) {
	return getJSON[Page[ExchangeRate]](ctx, s.client, "/rules/exchange-rate-history/", client.WithQuery(params.query()))
}
