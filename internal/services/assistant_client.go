package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPAssistant is an AssistantClient forwarding prompts to an upstream
// assistant service over HTTP. The upstream owns prompt construction and
// model access; this client only carries the question and the answer.
type HTTPAssistant struct {
	// URL is the upstream answer endpoint.
	URL string
	// HTTPClient is the transport; a default with a 30s timeout is used
	// when nil.
	HTTPClient *http.Client
}

type assistantRequest struct {
	UserID string `json:"user_id"`
	Prompt string `json:"prompt"`
}

type assistantResponse struct {
	Answer string `json:"answer"`
}

// Answer posts the prompt upstream and returns the answer text. Non-2xx
// responses and malformed bodies surface as errors.
func (a *HTTPAssistant) Answer(ctx context.Context, userID, prompt string) (string, error) {
	payload, err := json.Marshal(assistantRequest{UserID: userID, Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.URL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := a.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("assistant upstream status %d: %s", resp.StatusCode, string(body))
	}

	var out assistantResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode assistant response: %w", err)
	}
	return out.Answer, nil
}
