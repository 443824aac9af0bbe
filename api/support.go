package api

import (
	"context"
	"fmt"
	"time"

	"github.com/taxfree-rdc/taxfree-go/client"
)

// SupportService covers support conversations and training content.
type SupportService struct {
	client *client.Client
}

// Conversation is a support thread between a user and an operator.
type Conversation struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ChatMessage is one message in a conversation.
type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation"`
	Body           string    `json:"body"`
	SenderEmail    string    `json:"sender_email,omitempty"`
	SentAt         time.Time `json:"sent_at,omitempty"`
}

// TrainingContent is a help/training article.
type TrainingContent struct {
	ID       string `json:"id"`
	Category string `json:"category,omitempty"`
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
}

func (s *SupportService) ListConversations(ctx context.Context, params ListParams) (*Page[Conversation], error) {
	return getJSON[Page[Conversation]](ctx, s.client, "/support/conversations/", client.WithQuery(params.query()))
}

func (s *SupportService) CreateConversation(ctx context.Context, subject string) (*Conversation, error) {
	return postJSON[Conversation](ctx, s.client, "/support/conversations/", map[string]string{"subject": subject})
}

func (s *SupportService) ListMessages(ctx context.Context, conversationID string, params ListParams) (*Page[ChatMessage], error) {
	q := params.query()
	q["conversation"] = conversationID
	return getJSON[Page[ChatMessage]](ctx, s.client, "/support/messages/", client.WithQuery(q))
}

func (s *SupportService) SendMessage(ctx context.Context, conversationID, body string) (*ChatMessage, error) {
	payload := map[string]string{"conversation": conversationID, "body": body}
	return postJSON[ChatMessage](ctx, s.client, "/support/messages/", payload)
}

func (s *SupportService) GetTrainingContent(ctx context.Context, id string) (*TrainingContent, error) {
	return getJSON[TrainingContent](ctx, s.client, fmt.Sprintf("/support/training/content/%s/", id))
}

func (s *SupportService) ListTrainingContent(ctx context.Context, params ListParams) (*Page[TrainingContent], error) {
	return getJSON[Page[TrainingContent]](ctx, s.client, "/support/training/content/", client.WithQuery(params.query()))
}
