package http

import (
	"net/http"

	"cold-email-generator/internal/config"
	outreachdomain "cold-email-generator/internal/features/outreach/domain"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AppConfigHandler holds the app config service.
type AppConfigHandler struct {
	appConfigService config.AppConfigService
}

// NewAppConfigHandler creates a new AppConfigHandler.
func NewAppConfigHandler(appConfigService config.AppConfigService) *AppConfigHandler {
	return &AppConfigHandler{
		appConfigService: appConfigService,
	}
}

// GetAppConfigHandler returns the non-secret runtime settings the web form needs.
// Credentials and filesystem paths are excluded by the config's JSON tags.
func (h *AppConfigHandler) GetAppConfigHandler(c *gin.Context) {
	appConfig, err := h.appConfigService.LoadAppConfig()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load app config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load app config: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"config":                     appConfig,
		"max_description_length":     outreachdomain.MaxDescriptionLength,
		"supported_url_descriptions": outreachdomain.ExpectedURLFormats,
	})
}
