package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cold-email-generator/internal/features/outreach/domain"
	"cold-email-generator/internal/features/outreach/infrastructure"

	"github.com/rs/zerolog/log"
)

const parseFailureMessage = "Could not extract JSON"

// GeneratorSettings are passed through to the text-generation service.
type GeneratorSettings struct {
	Model           string
	ReasoningEffort string
	MaxOutputTokens int
}

// EmailGenerator turns instructions, an entity and a product description into an email.
type EmailGenerator struct {
	client   infrastructure.AIClient
	settings GeneratorSettings
	backoff  BackoffPolicy
}

// NewEmailGenerator creates a new EmailGenerator.
func NewEmailGenerator(client infrastructure.AIClient, settings GeneratorSettings, backoff BackoffPolicy) *EmailGenerator {
	return &EmailGenerator{
		client:   client,
		settings: settings,
		backoff:  backoff,
	}
}

// BuildInput renders the single combined input sent to the service: the instructions,
// then the product description and the entity's full raw record as indented JSON.
func BuildInput(instructions string, entity *domain.Entity, productDescription string) (string, error) {
	var data bytes.Buffer
	enc := json.NewEncoder(&data)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entity.Raw); err != nil {
		return "", fmt.Errorf("failed to render entity data: %w", err)
	}

	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\n")
	b.WriteString("Product/Service being pitched:\n")
	b.WriteString(productDescription)
	b.WriteString("\n\n")
	b.WriteString("LinkedIn Data JSON:\n")
	b.WriteString(strings.TrimRight(data.String(), "\n"))
	return b.String(), nil
}

// Generate calls the service, retrying throttled and transient failures, and extracts
// the structured result. An error means no result was obtained; unparseable output is
// returned as a ResultParseFailed result rather than an error.
func (g *EmailGenerator) Generate(ctx context.Context, instructions string, entity *domain.Entity, productDescription string) (*domain.GenerationResult, error) {
	input, err := BuildInput(instructions, entity, productDescription)
	if err != nil {
		return nil, err
	}

	req := infrastructure.AIRequest{
		Model:           g.settings.Model,
		ReasoningEffort: g.settings.ReasoningEffort,
		Input:           input,
		MaxOutputTokens: g.settings.MaxOutputTokens,
	}

	log.Info().
		Str("model", req.Model).
		Str("entity", entity.Name).
		Int("input_chars", len(input)).
		Msg("Generating cold email")

	var resp *infrastructure.AIResponse
	err = g.backoff.Do(ctx, func(ctx context.Context) error {
		r, err := g.client.GenerateResponse(ctx, req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("input_tokens", resp.Usage.InputTokens).
		Int("output_tokens", resp.Usage.OutputTokens).
		Msg("Generation finished")

	payload, ok := ExtractJSON(resp.Content)
	if !ok {
		log.Warn().Int("raw_chars", len(resp.Content)).Msg("Could not extract JSON from generation output, using raw text")
		return &domain.GenerationResult{
			Status:     domain.ResultParseFailed,
			Raw:        resp.Content,
			ParseError: parseFailureMessage,
			Usage:      resp.Usage,
		}, nil
	}

	if err := CheckEmailPayload(payload); err != nil {
		log.Warn().Err(err).Msg("Generation result has unexpected shape")
	}

	return &domain.GenerationResult{
		Status:  domain.ResultParsed,
		Payload: payload,
		Raw:     resp.Content,
		Usage:   resp.Usage,
	}, nil
}
