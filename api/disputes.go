package api

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/taxfree-rdc/taxfree-go/client"
	"github.com/taxfree-rdc/taxfree-go/transport"
)

// DisputeService covers dispute tickets and their file attachments.
type DisputeService struct {
	client *client.Client
}

// Dispute is a traveler or merchant complaint tied to a form or refund.
type Dispute struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body,omitempty"`
	Status    string    `json:"status"`
	FormID    string    `json:"form,omitempty"`
	RefundID  string    `json:"refund,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Attachment is a file attached to a dispute.
type Attachment struct {
	ID        string `json:"id"`
	DisputeID string `json:"dispute"`
	Filename  string `json:"filename"`
	URL       string `json:"url,omitempty"`
}

func (s *DisputeService) List(ctx context.Context, params ListParams) (*Page[Dispute], error) {
	return getJSON[Page[Dispute]](ctx, s.client, "/disputes/", client.WithQuery(params.query()))
}

func (s *DisputeService) Get(ctx context.Context, id string) (*Dispute, error) {
	return getJSON[Dispute](ctx, s.client, fmt.Sprintf("/disputes/%s/", id))
}

func (s *DisputeService) Create(ctx context.Context, dispute Dispute) (*Dispute, error) {
	return postJSON[Dispute](ctx, s.client, "/disputes/", dispute)
}

func (s *DisputeService) Update(ctx context.Context, id string, fields map[string]any) (*Dispute, error) {
	return patchJSON[Dispute](ctx, s.client, fmt.Sprintf("/disputes/%s/", id), fields)
}

// Attach uploads a file onto a dispute. Multipart; the transport leaves the
// boundary content type in place.
func (s *DisputeService) Attach(ctx context.Context, disputeID, filename string, file io.Reader) (*Attachment, error) {
	form := transport.NewMultipart()
	if err := form.WriteField("dispute", disputeID); err != nil {
		return nil, err
	}
	if err := form.WriteFile("file", filename, file); err != nil {
		return nil, err
	}
	resp, err := s.client.Post(ctx, "/disputes/attachments/", client.WithMultipart(form))
	if err != nil {
		return nil, err
	}
	return decode[Attachment](resp)
}
