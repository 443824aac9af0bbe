package api

import (
	"context"
	"time"

	"github.com/taxfree-rdc/taxfree-go/client"
)

// AuditService covers the read-only audit log.
type AuditService struct {
	client *client.Client
}

// AuditEntry is one recorded action.
type AuditEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entity_id,omitempty"`
	ActorEmail string    `json:"actor_email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// List pages through audit entries, filterable by action, entity and actor.
func (s *AuditService) List(ctx context.Context, params ListParams) (*Page[AuditEntry], error) {
	return getJSON[Page[AuditEntry]](ctx, s.client, "/audit/logs/", client.WithQuery(params.query()))
}
