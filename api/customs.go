package api

import (
	"context"
	"fmt"
	"time"

	"github.com/taxfree-rdc/taxfree-go/client"
)

// CustomsService covers the customs agent workflows: scanning, lookup,
// validation decisions and offline sync at points of exit.
type CustomsService struct {
	client *client.Client
}

// PointOfExit is a border crossing where forms are validated.
type PointOfExit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"` // airport, land border, port
	City string `json:"city,omitempty"`
}

// Validation is one customs decision on a form.
type Validation struct {
	ID        string    `json:"id"`
	FormID    string    `json:"form"`
	AgentID   string    `json:"agent,omitempty"`
	Decision  string    `json:"decision"`
	Reason    string    `json:"reason,omitempty"`
	DecidedAt time.Time `json:"decided_at,omitempty"`
}

// Customs decisions.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// Scan resolves a scanned QR payload to its form.
func (s *CustomsService) Scan(ctx context.Context, qrPayload string) (*Form, error) {
	return postJSON[Form](ctx, s.client, "/customs/scan/", map[string]string{"payload": qrPayload})
}

// Search finds forms by traveler or form attributes.
func (s *CustomsService) Search(ctx context.Context, params ListParams) (*Page[Form], error) {
	return getJSON[Page[Form]](ctx, s.client, "/customs/search/", client.WithQuery(params.query()))
}

// Lookup fetches a form by its printed number.
func (s *CustomsService) Lookup(ctx context.Context, formNumber string) (*Form, error) {
	return getJSON[Form](ctx, s.client, fmt.Sprintf("/customs/lookup/%s/", formNumber))
}

// Decide records the validation decision for a form.
func (s *CustomsService) Decide(ctx context.Context, formID, decision, reason string) (*Validation, error) {
	body := map[string]string{"decision": decision, "reason": reason}
	return postJSON[Validation](ctx, s.client, fmt.Sprintf("/customs/forms/%s/decide/", formID), body)
}

// OfflineDecision is a decision taken while the agent terminal was offline.
type OfflineDecision struct {
	FormNumber string    `json:"form_number"`
	Decision   string    `json:"decision"`
	Reason     string    `json:"reason,omitempty"`
	DecidedAt  time.Time `json:"decided_at"`
}

// OfflineSyncResult reports per-decision outcomes of a batch upload.
type OfflineSyncResult struct {
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// SyncOffline uploads decisions recorded offline.
func (s *CustomsService) SyncOffline(ctx context.Context, decisions []OfflineDecision) (*OfflineSyncResult, error) {
	return postJSON[OfflineSyncResult](ctx, s.client, "/customs/offline/sync/", map[string]any{"decisions": decisions})
}

func (s *CustomsService) ListPointsOfExit(ctx context.Context, params ListParams) (*Page[PointOfExit], error) {
	return getJSON[Page[PointOfExit]](ctx, s.client, "/customs/points-of-exit/", client.WithQuery(params.query()))
}

func (s *CustomsService) ListValidations(ctx context.Context, params ListParams) (*Page[Validation], error) {
	return getJSON[Page[Validation]](ctx, s.client, "/customs/validations/", client.WithQuery(params.query()))
}

// AgentDashboard is the customs agent's daily aggregate view.
type AgentDashboard struct {
	ScannedToday  int `json:"scanned_today"`
	ApprovedToday int `json:"approved_today"`
	RejectedToday int `json:"rejected_today"`
	PendingSync   int `json:"pending_sync"`
}

func (s *CustomsService) Dashboard(ctx context.Context) (*AgentDashboard, error) {
	return getJSON[AgentDashboard](ctx, s.client, "/customs/agent/dashboard/")
}
