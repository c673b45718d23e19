package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cold-email-generator/internal/features/outreach/domain"

	"github.com/rs/zerolog/log"
)

// ProfileSource fetches raw LinkedIn data for a classified URL. The returned value is
// the decoded JSON payload: a record or a list of records.
type ProfileSource interface {
	Fetch(ctx context.Context, entityType domain.EntityType, profileURL string) (any, error)
}

// ApifyConfig holds the account and actor settings for the Apify source.
type ApifyConfig struct {
	Token        string
	BaseURL      string
	PersonActor  string
	CompanyActor string
	Timeout      time.Duration
}

type apifyClient struct {
	cfg  ApifyConfig
	http *http.Client
}

// NewApifyClient creates a ProfileSource backed by Apify actors. Actor runs are
// synchronous, so the timeout has to cover the whole scrape.
func NewApifyClient(cfg ApifyConfig) (ProfileSource, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("APIFY_TOKEN is not set")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &apifyClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Fetch runs the person or company actor for profileURL and returns its dataset items.
func (c *apifyClient) Fetch(ctx context.Context, entityType domain.EntityType, profileURL string) (any, error) {
	actor, input, err := c.actorInput(entityType, profileURL)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items", c.cfg.BaseURL, url.PathEscape(actor))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	log.Info().Str("actor", actor).Str("url", profileURL).Str("type", string(entityType)).Msg("Fetching LinkedIn data")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewError(domain.KindFetchFailed, "profile source is unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewError(domain.KindFetchFailed, "failed to read profile source response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewError(domain.KindFetchFailed,
			fmt.Sprintf("profile source returned status %d: %s", resp.StatusCode, snippet(data)), nil)
	}

	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, domain.NewError(domain.KindFetchFailed, "profile source returned malformed data", err)
	}
	if len(items) == 0 {
		return nil, domain.NewError(domain.KindFetchFailed, "No data returned from the actor", nil)
	}

	log.Info().Int("items", len(items)).Msg("Fetched LinkedIn data")
	return items, nil
}

func (c *apifyClient) actorInput(entityType domain.EntityType, profileURL string) (string, map[string]any, error) {
	switch entityType {
	case domain.EntityPerson:
		return c.cfg.PersonActor, map[string]any{
			"username":     profileURL,
			"includeEmail": false,
		}, nil
	case domain.EntityCompany:
		identifier := domain.URLIdentifier(profileURL)
		if identifier == "" {
			identifier = "unknown"
		}
		return c.cfg.CompanyActor, map[string]any{
			"identifier": []string{identifier},
		}, nil
	default:
		return "", nil, domain.NewError(domain.KindInvalidURL, "Invalid LinkedIn URL", nil)
	}
}

func snippet(b []byte) string {
	const limit = 300
	s := strings.TrimSpace(string(b))
	if cut := domain.Truncate(s, limit); cut != s {
		return cut + "..."
	}
	return s
}
