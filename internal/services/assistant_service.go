// Package services – AssistantService
//
// The thin gateway in front of the portal's AI assistant. Prompt
// construction and answering happen in an external collaborator; this
// service only validates the prompt and enforces per-user sliding-window
// admission before forwarding.
package services

import (
	"context"
	"strings"
)

// Limiter is the admission check gating assistant requests.
// Implemented by ratelimit.SlidingWindow.
type Limiter interface {
	Allow(key string) bool
}

// AssistantClient produces an answer for a user prompt. The concrete client
// lives outside the core and is injected at wiring time.
type AssistantClient interface {
	Answer(ctx context.Context, userID, prompt string) (string, error)
}

// AssistantService gates assistant requests per user.
type AssistantService struct {
	Limiter Limiter
	Client  AssistantClient
}

// Ask validates the prompt, checks the caller's rate window, and forwards to
// the assistant client. Denied callers receive ErrRateLimited and the gated
// action is not performed.
func (s *AssistantService) Ask(ctx context.Context, userID, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	if !s.Limiter.Allow(userID) {
		return "", ErrRateLimited
	}
	return s.Client.Answer(ctx, userID, prompt)
}
