package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// FastAPIProvider calls the campaign backend's chat endpoint, which answers
// with a single formatted content string.
type FastAPIProvider struct {
	URL       string
	Platforms []string
	Client    *http.Client
}

type fastAPIReq struct {
	Message   string   `json:"message"`
	Platforms []string `json:"platforms"`
	Context   string   `json:"context,omitempty"`
}

type fastAPIResp struct {
	Content string `json:"content"`
	Detail  string `json:"detail,omitempty"`
}

func NewFastAPIProvider(url string, platforms []string, timeout time.Duration) *FastAPIProvider {
	if url == "" {
		url = "http://localhost:8000/api/v1/campaigns/chat"
	}
	if len(platforms) == 0 {
		platforms = []string{"facebook"}
	}
	return &FastAPIProvider{URL: url, Platforms: platforms, Client: &http.Client{Timeout: timeout}}
}

func (p *FastAPIProvider) Send(ctx context.Context, req Request) ([]Reply, error) {
	body := fastAPIReq{Message: req.Message, Platforms: p.Platforms, Context: req.Context}

	resp, err := postJSON(ctx, p.Client, "fastapi", p.URL, nil, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded fastAPIResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("fastapi: decode reply: %w", err)
	}
	if decoded.Content == "" {
		if decoded.Detail != "" {
			return nil, fmt.Errorf("fastapi: %s", decoded.Detail)
		}
		return nil, errors.New("fastapi: empty response")
	}
	return []Reply{{Text: decoded.Content}}, nil
}
