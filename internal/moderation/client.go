// Package moderation talks to the external content moderation service and
// applies the per-call-site failure policy.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Result is the moderation service's verdict for one text.
type Result struct {
	Safe   bool   `json:"safe"`
	Reason string `json:"reason"`
}

// Service is the moderation collaborator. Moderate may fail transiently;
// how that failure is treated is the Gate's concern, not the caller's.
type Service interface {
	Moderate(ctx context.Context, text, contextKind string) (Result, error)
}

// Client is the HTTP implementation of Service.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type moderateRequest struct {
	Text    string `json:"text"`
	Context string `json:"context"`
}

func (c *Client) Moderate(ctx context.Context, text, contextKind string) (Result, error) {
	if c.baseURL == "" {
		return Result{}, fmt.Errorf("moderation service is not configured")
	}

	body, err := json.Marshal(moderateRequest{Text: text, Context: contextKind})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/moderate", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("moderation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("moderation service returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode moderation response: %w", err)
	}
	return result, nil
}
