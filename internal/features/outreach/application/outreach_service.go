package application

import (
	"context"
	"errors"
	"fmt"

	"cold-email-generator/internal/features/outreach/domain"
	"cold-email-generator/internal/features/outreach/infrastructure"
	"cold-email-generator/internal/features/outreach/infrastructure/prompts"

	"github.com/rs/zerolog/log"
)

// Files written to each request's workspace.
const (
	ProfileDataFile = "profile_data.json"
	CompanyDataFile = "company_data.json"
	ResultFile      = "email_result.json"
)

// ErrResultNotFound is returned by Result when no generation result exists for an ID.
var ErrResultNotFound = errors.New("no result found")

// OutreachService defines the interface for the cold email application service.
type OutreachService interface {
	CheckURL(url string) domain.URLCheck
	Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateResponse, error)
	Result(id string) (map[string]any, error)
}

// outreachService is the implementation of OutreachService.
type outreachService struct {
	source     infrastructure.ProfileSource
	templates  prompts.TemplateLoader
	generator  *EmailGenerator
	workspaces *infrastructure.WorkspaceStore
}

// NewOutreachService creates a new instance of outreachService.
func NewOutreachService(source infrastructure.ProfileSource, templates prompts.TemplateLoader, generator *EmailGenerator, workspaces *infrastructure.WorkspaceStore) OutreachService {
	return &outreachService{
		source:     source,
		templates:  templates,
		generator:  generator,
		workspaces: workspaces,
	}
}

// CheckURL classifies a URL without fetching anything.
func (s *outreachService) CheckURL(url string) domain.URLCheck {
	switch domain.ClassifyURL(url) {
	case domain.EntityPerson:
		return domain.URLCheck{Valid: true, Type: domain.EntityPerson, Message: "Valid LinkedIn profile URL"}
	case domain.EntityCompany:
		return domain.URLCheck{Valid: true, Type: domain.EntityCompany, Message: "Valid LinkedIn company URL"}
	default:
		return domain.URLCheck{
			Valid: false,
			Message: "Invalid URL. Expected format:\n• User: " + domain.ExpectedURLFormats[0] +
				"\n• Company: " + domain.ExpectedURLFormats[1],
		}
	}
}

// Generate runs the full pipeline: classify, validate input, fetch, validate data,
// load the template, generate, persist. Failures are *domain.Error values tagged with
// the stage they happened in; anything else is an unexpected fault.
func (s *outreachService) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateResponse, error) {
	entityType := domain.ClassifyURL(req.URL)
	if entityType == domain.EntityInvalid {
		return nil, domain.NewError(domain.KindInvalidURL, "Invalid LinkedIn URL", nil)
	}

	description, err := domain.ValidateDescription(req.ProductDescription)
	if err != nil {
		return nil, err
	}

	workspace, err := s.workspaces.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	defer s.workspaces.Release(workspace.ID)
	logger := log.With().Str("workspace", workspace.ID).Str("type", string(entityType)).Logger()

	logger.Info().Str("url", req.URL).Msg("Step 1: fetching LinkedIn data")
	payload, err := s.source.Fetch(ctx, entityType, req.URL)
	if err != nil {
		logger.Error().Err(err).Msg("Fetch failed")
		return nil, domain.NewError(domain.KindFetchFailed, fetchFailureMessage(entityType), err)
	}

	dataFile := ProfileDataFile
	if entityType == domain.EntityCompany {
		dataFile = CompanyDataFile
	}
	if _, err := workspace.WriteJSON(dataFile, payload); err != nil {
		return nil, err
	}

	entity, err := ValidateEntityData(entityType, payload)
	if err != nil {
		logger.Error().Err(err).Msg("Data validation failed")
		return nil, err
	}
	logger.Info().Str("name", entity.Name).Msg("Fetched data")

	instructions, err := s.templates.Load(entityType)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load prompt template")
		return nil, err
	}

	logger.Info().Msg("Step 2: generating cold email")
	result, err := s.generator.Generate(ctx, instructions, entity, description)
	if err != nil {
		logger.Error().Err(err).Msg("Generation failed")
		return nil, err
	}

	if _, err := workspace.WriteJSON(ResultFile, result.Document()); err != nil {
		return nil, err
	}

	email := result.Email()
	if email == "" {
		return nil, domain.NewError(domain.KindEmptyResult, "No email was generated. Please try again.", nil)
	}
	if result.Status == domain.ResultParseFailed {
		logger.Warn().Msg("Generation had parse issues, returning raw output as the email")
	}

	logger.Info().Msg("Email generated successfully")
	return &domain.GenerateResponse{
		Success: true,
		Message: "Email generated successfully!",
		Email:   email,
		Profile: &domain.ProfileSummary{
			Name:     entity.Name,
			Headline: entity.Summary(),
		},
		URLType:      entityType,
		ResultID:     workspace.ID,
		ParseWarning: result.Status == domain.ResultParseFailed,
	}, nil
}

// Result returns the persisted generation result of a workspace.
func (s *outreachService) Result(id string) (map[string]any, error) {
	workspace, err := s.workspaces.Open(id)
	if err != nil {
		return nil, ErrResultNotFound
	}
	var doc map[string]any
	if err := workspace.ReadJSON(ResultFile, &doc); err != nil {
		if errors.Is(err, infrastructure.ErrWorkspaceNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return doc, nil
}

func fetchFailureMessage(entityType domain.EntityType) string {
	if entityType == domain.EntityCompany {
		return "Failed to fetch company data. Please check the URL and try again."
	}
	return "Failed to fetch LinkedIn profile. Please check the URL and try again."
}
