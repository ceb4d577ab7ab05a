package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// WebhookProvider posts to a REST chatbot webhook (Rasa-style) that answers
// with a JSON array of reply fragments.
type WebhookProvider struct {
	URL    string
	Client *http.Client
}

type webhookReq struct {
	Sender   string           `json:"sender"`
	Message  string           `json:"message"`
	Metadata *webhookMetadata `json:"metadata,omitempty"`
}

type webhookMetadata struct {
	Context string `json:"context"`
}

type webhookReply struct {
	RecipientID string `json:"recipient_id,omitempty"`
	Text        string `json:"text,omitempty"`
	Image       string `json:"image,omitempty"`
}

func NewWebhookProvider(url string, timeout time.Duration) *WebhookProvider {
	if url == "" {
		url = "http://localhost:5005/webhooks/rest/webhook"
	}
	return &WebhookProvider{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (p *WebhookProvider) Send(ctx context.Context, req Request) ([]Reply, error) {
	body := webhookReq{Sender: req.Sender, Message: req.Message}
	if req.Context != "" {
		body.Metadata = &webhookMetadata{Context: req.Context}
	}

	resp, err := postJSON(ctx, p.Client, "webhook", p.URL, nil, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded []webhookReply
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("webhook: decode reply: %w", err)
	}

	replies := make([]Reply, 0, len(decoded))
	for _, r := range decoded {
		// image-only fragments have nothing to render as text
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		replies = append(replies, Reply{Text: r.Text})
	}
	return replies, nil
}
