package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cold-email-generator/internal/features/outreach/domain"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// openAIClient is the OpenAI implementation of AIClient.
type openAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client. baseURL is optional and mostly useful
// for pointing at a proxy or a test server.
func NewOpenAIClient(apiKey, baseURL string) (AIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &openAIClient{client: openai.NewClientWithConfig(clientConfig)}, nil
}

// GenerateResponse sends the input as a single user message and returns the aggregated text.
func (c *openAIClient) GenerateResponse(ctx context.Context, req AIRequest) (*AIResponse, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Input},
		},
		ReasoningEffort: req.ReasoningEffort,
	}
	if req.MaxOutputTokens > 0 {
		chatReq.MaxCompletionTokens = req.MaxOutputTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return &AIResponse{
		Content: outputText(resp.Choices[0].Message),
		Usage: domain.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

// outputText prefers the plain content and falls back to joining multi-part text.
func outputText(msg openai.ChatCompletionMessage) string {
	if msg.Content != "" {
		return msg.Content
	}
	var chunks []string
	for _, part := range msg.MultiContent {
		if part.Type == openai.ChatMessagePartTypeText && part.Text != "" {
			chunks = append(chunks, part.Text)
		}
	}
	return strings.Join(chunks, "\n")
}

func classifyOpenAIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusTooManyRequests:
		log.Debug().Err(err).Msg("OpenAI rate limit")
		return domain.NewError(domain.KindRateLimited, "text-generation service is rate limiting requests", err)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return domain.NewError(domain.KindRetryableService, fmt.Sprintf("text-generation service returned %d", status), err)
	default:
		return fmt.Errorf("openai api error: %w", err)
	}
}
