package infrastructure

import (
	"context"

	"cold-email-generator/internal/features/outreach/domain"
)

// AIRequest is a single text-generation call.
type AIRequest struct {
	Model           string `json:"model"`
	ReasoningEffort string `json:"reasoning_effort,omitempty"`
	Input           string `json:"input"`
	MaxOutputTokens int    `json:"max_output_tokens"`
}

// AIResponse represents the response from an AI service
type AIResponse struct {
	Content string       `json:"content"`
	Usage   domain.Usage `json:"usage"`
}

// AIClient defines a generic interface for text-generation services.
//
// Implementations classify failures: throttling is reported as a *domain.Error of kind
// KindRateLimited, transient server failures as KindRetryableService. Anything else is
// returned as a plain error and is not retried.
type AIClient interface {
	GenerateResponse(ctx context.Context, req AIRequest) (*AIResponse, error)
}
