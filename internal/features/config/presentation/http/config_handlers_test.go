package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cold-email-generator/internal/features/config/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConfigService struct {
	cfg *domain.AppConfig
	err error
}

func (s stubConfigService) LoadAppConfig() (*domain.AppConfig, error) {
	return s.cfg, s.err
}

func serveConfig(svc stubConfigService) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/config/app", NewAppConfigHandler(svc).GetAppConfigHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/config/app", nil))
	return w
}

func TestGetAppConfigHandler_HidesSecrets(t *testing.T) {
	cfg := &domain.AppConfig{
		ModelParams: domain.ModelParams{APIKey: "sk-secret", Model: "o4-mini", ReasoningEffort: "medium", MaxTokens: 4000},
		Scraper:     domain.ScraperConfig{Token: "apify-secret", PersonActor: "p", CompanyActor: "c"},
		Workspace:   domain.WorkspaceConfig{Dir: "/srv/private", Retain: 10},
	}
	w := serveConfig(stubConfigService{cfg: cfg})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "sk-secret")
	assert.NotContains(t, body, "apify-secret")
	assert.NotContains(t, body, "/srv/private")

	var resp struct {
		Config struct {
			ModelParams struct {
				Model     string `json:"model"`
				MaxTokens int    `json:"max_output_tokens"`
			} `json:"model_params"`
		} `json:"config"`
		MaxDescriptionLength int      `json:"max_description_length"`
		URLFormats           []string `json:"supported_url_descriptions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "o4-mini", resp.Config.ModelParams.Model)
	assert.Equal(t, 4000, resp.Config.ModelParams.MaxTokens)
	assert.Equal(t, 200, resp.MaxDescriptionLength)
	assert.Len(t, resp.URLFormats, 2)
}

func TestGetAppConfigHandler_Error(t *testing.T) {
	w := serveConfig(stubConfigService{err: errors.New("invalid app config")})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "invalid app config")
}
